// Gray Logic BotVac bridge
//
// This is the main entry point for the bridge between Gray Logic and Neato
// BotVac robots. Commands arrive over MQTT or the HTTP API, are resolved
// against each robot's declared capabilities and delivered through the
// Nucleo cloud API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/gray-logic-botvac/internal/api"
	"github.com/nerrad567/gray-logic-botvac/internal/audit"
	"github.com/nerrad567/gray-logic-botvac/internal/bridges/botvac"
	"github.com/nerrad567/gray-logic-botvac/internal/capability"
	"github.com/nerrad567/gray-logic-botvac/internal/fleet"
	"github.com/nerrad567/gray-logic-botvac/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-botvac/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-botvac/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-botvac/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-botvac/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-botvac/internal/nucleo"
	"github.com/nerrad567/gray-logic-botvac/internal/robot"
	"github.com/nerrad567/gray-logic-botvac/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // linear startup sequence
	log := logging.Default()
	log.Info("starting Gray Logic BotVac bridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath, "site", cfg.Site.ID)

	log = logging.New(cfg.Logging, version)
	defer log.Close() //nolint:errcheck // best-effort close of the log file
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
		"output", cfg.Logging.Output,
	)

	// Database
	db, err := database.Open(ctx, database.FromConfig(cfg.Database))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx, migrations.FS); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Fleet
	registry := fleet.NewRegistry(fleet.NewSQLiteRepository(db.DB))
	registry.SetLogger(log)
	if refreshErr := registry.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading fleet registry: %w", refreshErr)
	}
	if seedErr := seedRobots(ctx, registry, cfg.Robots, log); seedErr != nil {
		return fmt.Errorf("seeding robots: %w", seedErr)
	}
	log.Info("fleet registry initialised", "robots", registry.RobotCount())

	// Nucleo transport
	transport := nucleo.New(nucleo.Config{
		BaseURL: cfg.Nucleo.BaseURL,
		Timeout: cfg.GetNucleoTimeout(),
	}, registry)
	transport.SetLogger(log)

	commands := audit.NewSQLiteRepository(db.DB)
	dispatchOpts := botvac.DispatcherOptions{
		Robots:    registry,
		Transport: transport,
		Journal:   commands,
		Logger:    log,
	}

	// InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		dispatchOpts.Recorder = influxClient
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	dispatcher, err := botvac.NewDispatcher(dispatchOpts)
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	if influxClient != nil {
		dispatcher.OnResult(recordState(influxClient))
	}

	// MQTT
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	bridge, err := botvac.NewBridge(botvac.BridgeOptions{
		MQTTClient: &mqttBridgeAdapter{client: mqttClient},
		Dispatcher: dispatcher,
		Logger:     log,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating botvac bridge: %w", err)
	}
	if startErr := bridge.Start(ctx); startErr != nil {
		return fmt.Errorf("starting botvac bridge: %w", startErr)
	}
	defer func() {
		log.Info("stopping botvac bridge")
		bridge.Stop()
	}()

	// HTTP API
	server, err := api.New(api.Deps{
		Config:     cfg.API,
		WS:         cfg.WebSocket,
		Security:   cfg.Security,
		Logger:     log,
		Fleet:      registry,
		Dispatcher: dispatcher,
		Commands:   commands,
		MQTT:       mqttClient,
		DB:         db,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	// Deferred closes run in reverse: API, bridge, MQTT, InfluxDB, database.
	return nil
}

// getConfigPath returns the configuration file path.
// Uses GRAYLOGIC_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GRAYLOGIC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// seedRobots registers configured robots that are not yet in the fleet.
func seedRobots(ctx context.Context, registry *fleet.Registry, robots []config.RobotConfig, log *logging.Logger) error {
	for _, rc := range robots {
		created, err := registry.SeedRobot(ctx, robotFromConfig(rc))
		if err != nil {
			return fmt.Errorf("robot %q: %w", rc.Serial, err)
		}
		if created {
			log.Info("robot seeded from config", "serial", rc.Serial, "name", rc.Name)
		}
	}
	return nil
}

// robotFromConfig converts a config entry to a fleet robot.
func robotFromConfig(rc config.RobotConfig) *fleet.Robot {
	return &fleet.Robot{
		ID:           rc.ID,
		Name:         rc.Name,
		Serial:       rc.Serial,
		Secret:       rc.Secret,
		Model:        rc.Model,
		Firmware:     rc.Firmware,
		Capabilities: capability.Declaration(rc.Capabilities).Clone(),
	}
}

// stateWriter is the slice of *influxdb.Client used by recordState.
type stateWriter interface {
	WriteRobotState(robotID string, resp robot.Response)
}

// recordState writes the reply of every successful get_state to InfluxDB.
func recordState(w stateWriter) func(botvac.Result) {
	return func(res botvac.Result) {
		if res.Err == nil && res.Operation == robot.OpGetState {
			w.WriteRobotState(res.RobotID, res.Response)
		}
	}
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}

// mqttBridgeAdapter adapts the infrastructure MQTT client to the botvac
// bridge's MQTTClient interface, whose handlers return nothing.
type mqttBridgeAdapter struct {
	client *mqtt.Client
}

// Publish implements botvac.MQTTClient.
func (a *mqttBridgeAdapter) Publish(topic string, payload []byte, qos byte, retained bool) error {
	return a.client.Publish(topic, payload, qos, retained)
}

// Subscribe implements botvac.MQTTClient.
func (a *mqttBridgeAdapter) Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error {
	return a.client.Subscribe(topic, qos, func(t string, p []byte) error {
		handler(t, p)
		return nil
	})
}

// IsConnected implements botvac.MQTTClient.
func (a *mqttBridgeAdapter) IsConnected() bool {
	return a.client.IsConnected()
}
