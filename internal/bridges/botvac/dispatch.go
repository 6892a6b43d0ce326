package botvac

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-botvac/internal/audit"
	"github.com/nerrad567/gray-logic-botvac/internal/capability"
	"github.com/nerrad567/gray-logic-botvac/internal/fleet"
	"github.com/nerrad567/gray-logic-botvac/internal/robot"
)

// RobotSource looks up configured robots. Satisfied by *fleet.Registry.
type RobotSource interface {
	GetRobot(ctx context.Context, id string) (*fleet.Robot, error)
	ListRobots(ctx context.Context) ([]fleet.Robot, error)
}

// Recorder receives command telemetry. Satisfied by *influxdb.Client.
type Recorder interface {
	WriteCommandMetric(robotID, operation, status string, duration time.Duration)
}

// Journal persists dispatched commands. Satisfied by *audit.SQLiteRepository.
type Journal interface {
	Create(ctx context.Context, entry *audit.Entry) error
}

// Request asks the dispatcher to run one operation on one robot.
type Request struct {
	CommandID  string
	RobotID    string
	Operation  string
	Parameters json.RawMessage
	Source     string
}

// Result is the outcome of a dispatched operation.
type Result struct {
	CommandID string          `json:"command_id,omitempty"`
	RobotID   string          `json:"robot_id"`
	Operation string          `json:"operation"`
	Selected  *capability.Key `json:"selected,omitempty"`
	Command   *robot.Command  `json:"command,omitempty"`
	Response  robot.Response  `json:"response,omitempty"`
	Source    string          `json:"source,omitempty"`
	Duration  time.Duration   `json:"duration"`

	// Code is one of the ErrCode constants when Err is set.
	Code string `json:"code,omitempty"`
	Err  error  `json:"-"`
}

// Status returns "accepted" or "failed".
func (r Result) Status() string {
	if r.Err != nil {
		return audit.StatusFailed
	}
	return audit.StatusAccepted
}

// Dispatcher resolves and delivers operations for fleet robots.
//
// It is safe for concurrent use.
type Dispatcher struct {
	robots    RobotSource
	transport robot.Transport
	recorder  Recorder
	journal   Journal
	logger    Logger

	observersMu sync.RWMutex
	observers   []func(Result)
}

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	Robots    RobotSource
	Transport robot.Transport

	// Recorder and Journal are optional.
	Recorder Recorder
	Journal  Journal
	Logger   Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts DispatcherOptions) (*Dispatcher, error) {
	if opts.Robots == nil {
		return nil, fmt.Errorf("robot source is required")
	}
	if opts.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Dispatcher{
		robots:    opts.Robots,
		transport: opts.Transport,
		recorder:  opts.Recorder,
		journal:   opts.Journal,
		logger:    logger,
	}, nil
}

// OnResult registers fn to be called after every dispatch.
func (d *Dispatcher) OnResult(fn func(Result)) {
	d.observersMu.Lock()
	d.observers = append(d.observers, fn)
	d.observersMu.Unlock()
}

// Remote returns a Remote bound to the robot's serial and declaration.
func (d *Dispatcher) Remote(ctx context.Context, robotID string) (*robot.Remote, *fleet.Robot, error) {
	r, err := d.robots.GetRobot(ctx, robotID)
	if err != nil {
		return nil, nil, err
	}
	return robot.NewRemote(r.Serial, r.Capabilities, d.transport), r, nil
}

// Describe reports how every operation resolves for a robot.
func (d *Dispatcher) Describe(ctx context.Context, robotID string) ([]robot.OperationStatus, error) {
	remote, _, err := d.Remote(ctx, robotID)
	if err != nil {
		return nil, err
	}
	return remote.Describe(), nil
}

// Execute resolves, builds and sends one operation.
// Failures are reported in Result.Err with a matching Result.Code.
func (d *Dispatcher) Execute(ctx context.Context, req Request) Result {
	start := time.Now()
	res := d.execute(ctx, req)
	res.Duration = time.Since(start)

	d.finish(ctx, res)
	return res
}

func (d *Dispatcher) execute(ctx context.Context, req Request) Result {
	res := Result{
		CommandID: req.CommandID,
		RobotID:   req.RobotID,
		Operation: req.Operation,
		Source:    req.Source,
	}

	remote, _, err := d.Remote(ctx, req.RobotID)
	if err != nil {
		res.Err = err
		res.Code = ErrCodeNotConfigured
		if !errors.Is(err, fleet.ErrRobotNotFound) {
			res.Code = ErrCodeBridgeError
		}
		return res
	}

	resolution, err := remote.Resolve(req.Operation)
	if err != nil {
		res.Err = err
		res.Code = ErrCodeInvalidCommand
		return res
	}
	if key, ok := resolution.Selected(); ok {
		res.Selected = &key
	}

	cmd, err := resolution.Build(req.Parameters)
	if err != nil {
		res.Err = err
		res.Code = buildErrorCode(err)
		return res
	}
	res.Command = &cmd

	resp, err := remote.Send(ctx, cmd)
	if err != nil {
		res.Err = err
		res.Code = ErrCodeTransportError
		return res
	}
	res.Response = resp
	return res
}

// buildErrorCode maps resolution and build failures to ack codes.
func buildErrorCode(err error) string {
	switch {
	case errors.Is(err, capability.ErrUnsupportedOperation):
		return ErrCodeUnsupportedOperation
	case errors.Is(err, capability.ErrAmbiguousCapability):
		return ErrCodeAmbiguousCapability
	case errors.Is(err, robot.ErrInvalidParameters):
		return ErrCodeInvalidParameters
	default:
		return ErrCodeBridgeError
	}
}

// finish logs, records and journals a result, then notifies observers.
func (d *Dispatcher) finish(ctx context.Context, res Result) {
	if res.Err != nil {
		d.logger.Warn("robot command failed",
			"robot_id", res.RobotID,
			"operation", res.Operation,
			"code", res.Code,
			"error", res.Err,
		)
	} else {
		d.logger.Info("robot command sent",
			"robot_id", res.RobotID,
			"operation", res.Operation,
			"command", res.Command.Name,
			"duration_ms", res.Duration.Milliseconds(),
		)
	}

	if d.recorder != nil {
		d.recorder.WriteCommandMetric(res.RobotID, res.Operation, res.Status(), res.Duration)
	}

	if d.journal != nil {
		entry := &audit.Entry{
			RobotID:   res.RobotID,
			Operation: res.Operation,
			Command:   res.Command,
			Source:    res.Source,
			Status:    res.Status(),
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		// Journal outside the caller deadline.
		if err := d.journal.Create(context.WithoutCancel(ctx), entry); err != nil {
			d.logger.Error("failed to journal command", "error", err)
		}
	}

	d.observersMu.RLock()
	observers := d.observers
	d.observersMu.RUnlock()
	for _, fn := range observers {
		fn(res)
	}
}
