package botvac

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// minTopicParts is the minimum number of levels in a command topic.
	minTopicParts = 4

	// commandTimeout bounds a single robot command.
	commandTimeout = 15 * time.Second
)

// Logger defines the logging interface used by the bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MQTTClient is the interface for MQTT operations.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error
	IsConnected() bool
}

// Bridge receives robot commands over MQTT and answers with acks and responses.
//
// Thread Safety: All methods are safe for concurrent use.
type Bridge struct {
	mqtt       MQTTClient
	dispatcher *Dispatcher
	health     *HealthReporter
	logger     Logger

	received atomic.Uint64
	accepted atomic.Uint64
	failed   atomic.Uint64

	mu        sync.Mutex
	stopped   bool
	wg        sync.WaitGroup
	stopOnce  sync.Once
	ctx       context.Context
	ctxCancel context.CancelFunc
}

// BridgeOptions holds configuration for creating a bridge.
type BridgeOptions struct {
	MQTTClient MQTTClient
	Dispatcher *Dispatcher
	Logger     Logger
	Version    string

	// HealthInterval defaults to 30 seconds.
	HealthInterval time.Duration
}

// NewBridge creates a bridge. Call Start to begin operation.
func NewBridge(opts BridgeOptions) (*Bridge, error) {
	if opts.MQTTClient == nil {
		return nil, fmt.Errorf("MQTT client is required")
	}
	if opts.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &Bridge{
		mqtt:       opts.MQTTClient,
		dispatcher: opts.Dispatcher,
		logger:     logger,
		ctx:        ctx,
		ctxCancel:  cancel,
	}
	b.health = NewHealthReporter(HealthReporterConfig{
		Version:   opts.Version,
		Interval:  opts.HealthInterval,
		Publisher: opts.MQTTClient,
		Stats:     b.Statistics,
		Logger:    logger,
	})
	return b, nil
}

// Start subscribes to commands, announces the fleet and starts health reporting.
func (b *Bridge) Start(ctx context.Context) error {
	if err := b.health.PublishStarting(); err != nil {
		b.logger.Error("failed to publish starting status", "error", err)
	}

	topic := CommandSubscribeTopic()
	if err := b.mqtt.Subscribe(topic, 1, b.handleMessage); err != nil {
		return fmt.Errorf("subscribe to commands: %w", err)
	}
	b.logger.Info("subscribed to commands", "topic", topic)

	count, err := b.PublishDiscovery(ctx)
	if err != nil {
		b.logger.Error("failed to publish discovery", "error", err)
	}
	b.health.SetRobotCount(count)

	b.health.Start(ctx)
	b.logger.Info("botvac bridge started", "robots", count)
	return nil
}

// Stop cancels in-flight commands and waits for handlers to return.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		b.mu.Lock()
		b.stopped = true
		b.mu.Unlock()
		b.ctxCancel()
		b.health.Stop()
		b.wg.Wait()
		b.logger.Info("botvac bridge stopped")
	})
}

// PublishDiscovery publishes the retained discovery message and returns the
// number of robots announced.
func (b *Bridge) PublishDiscovery(ctx context.Context) (int, error) {
	robots, err := b.dispatcher.robots.ListRobots(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing robots: %w", err)
	}

	msg := DiscoveryMessage{
		Timestamp: time.Now().UTC(),
		Bridge:    Protocol,
		Robots:    make([]DiscoveredRobot, 0, len(robots)),
	}
	for _, r := range robots {
		remote, _, err := b.dispatcher.Remote(ctx, r.ID)
		if err != nil {
			b.logger.Warn("skipping robot in discovery", "robot_id", r.ID, "error", err)
			continue
		}
		msg.Robots = append(msg.Robots, DiscoveredRobot{
			ID:           r.ID,
			Name:         r.Name,
			Serial:       r.Serial,
			Model:        r.Model,
			Capabilities: r.Capabilities,
			Operations:   remote.Describe(),
		})
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("marshal discovery: %w", err)
	}
	if err := b.mqtt.Publish(DiscoveryTopic(), payload, 1, true); err != nil {
		return 0, fmt.Errorf("publish discovery: %w", err)
	}
	return len(msg.Robots), nil
}

// handleMessage is the MQTT handler for command topics.
func (b *Bridge) handleMessage(topic string, payload []byte) {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.wg.Add(1)
	b.mu.Unlock()
	defer b.wg.Done()

	parts := strings.Split(topic, "/")
	if len(parts) < minTopicParts || parts[1] != "command" {
		b.logger.Error("invalid topic format", "topic", topic)
		return
	}
	b.received.Add(1)

	var cmd CommandMessage
	if err := json.Unmarshal(payload, &cmd); err != nil {
		b.failed.Add(1)
		b.logger.Error("failed to parse command", "topic", topic, "error", err)
		return
	}
	topicRobot := parts[len(parts)-1]
	if cmd.RobotID == "" {
		cmd.RobotID = topicRobot
	}
	if cmd.RobotID != topicRobot {
		b.failed.Add(1)
		b.publishAck(NewAckError(cmd, ErrCodeInvalidCommand,
			fmt.Sprintf("robot_id %q does not match topic robot %q", cmd.RobotID, topicRobot)))
		return
	}
	if cmd.Operation == "" {
		b.failed.Add(1)
		b.publishAck(NewAckError(cmd, ErrCodeInvalidCommand, "operation is required"))
		return
	}

	b.logger.Info("received command",
		"command_id", cmd.ID,
		"robot_id", cmd.RobotID,
		"operation", cmd.Operation)

	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	source := cmd.Source
	if source == "" {
		source = "mqtt"
	}
	res := b.dispatcher.Execute(ctx, Request{
		CommandID:  cmd.ID,
		RobotID:    cmd.RobotID,
		Operation:  cmd.Operation,
		Parameters: cmd.Parameters,
		Source:     source,
	})
	if res.Err != nil {
		b.failed.Add(1)
	} else {
		b.accepted.Add(1)
	}

	b.publishAck(NewAckMessage(cmd, res))
	if cmd.ID != "" {
		b.publishResponse(NewResponseMessage(cmd, res))
	}
}

func (b *Bridge) publishAck(ack AckMessage) {
	payload, err := json.Marshal(ack)
	if err != nil {
		b.logger.Error("failed to marshal ack", "error", err)
		return
	}
	if err := b.mqtt.Publish(AckTopic(ack.RobotID), payload, 1, false); err != nil {
		b.logger.Error("failed to publish ack", "error", err)
	}
}

func (b *Bridge) publishResponse(resp ResponseMessage) {
	payload, err := json.Marshal(resp)
	if err != nil {
		b.logger.Error("failed to marshal response", "error", err)
		return
	}
	if err := b.mqtt.Publish(ResponseTopic(resp.CommandID), payload, 1, false); err != nil {
		b.logger.Error("failed to publish response", "error", err)
	}
}

// Statistics returns the command counters.
func (b *Bridge) Statistics() BridgeStatistics {
	return BridgeStatistics{
		CommandsReceived: b.received.Load(),
		CommandsAccepted: b.accepted.Load(),
		CommandsFailed:   b.failed.Load(),
	}
}
