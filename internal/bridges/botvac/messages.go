package botvac

import (
	"encoding/json"
	"time"

	"github.com/nerrad567/gray-logic-botvac/internal/capability"
	"github.com/nerrad567/gray-logic-botvac/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-botvac/internal/robot"
)

// Protocol is the bridge identifier used in topics and messages.
const Protocol = "botvac"

// CommandMessage is sent from Core to the bridge to run an operation.
// Topic: graylogic/command/botvac/{robot_id}
type CommandMessage struct {
	// ID correlates the command with its ack and response.
	ID string `json:"id"`

	Timestamp time.Time `json:"timestamp"`

	// RobotID is the fleet robot ID. When empty, the last topic level is used.
	RobotID string `json:"robot_id"`

	// Operation is the logical operation name (e.g. "start_cleaning").
	Operation string `json:"operation"`

	// Parameters holds the operation arguments, e.g. {"eco_mode": true}.
	Parameters json.RawMessage `json:"parameters,omitempty"`

	// Source indicates where the command originated ("api", "automation", ...).
	Source string `json:"source"`

	UserID string `json:"user_id,omitempty"`
}

// AckStatus represents the acknowledgment status of a command.
type AckStatus string

const (
	// AckAccepted indicates the command was delivered to the robot.
	AckAccepted AckStatus = "accepted"

	// AckFailed indicates the command could not be executed.
	AckFailed AckStatus = "failed"
)

// AckMessage is sent from the bridge to Core to acknowledge a command.
// Topic: graylogic/ack/botvac/{robot_id}
type AckMessage struct {
	CommandID string    `json:"command_id"`
	Timestamp time.Time `json:"timestamp"`
	RobotID   string    `json:"robot_id"`
	Operation string    `json:"operation"`
	Status    AckStatus `json:"status"`
	Protocol  string    `json:"protocol"`

	// Selected is the (capability, level) pair whose builder ran.
	Selected *capability.Key `json:"selected,omitempty"`

	// Command is the Nucleo command that was built, when building succeeded.
	Command *robot.Command `json:"command,omitempty"`

	Error *AckError `json:"error,omitempty"`
}

// AckError contains error details for failed commands.
type AckError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes for command failures.
const (
	ErrCodeNotConfigured        = "NOT_CONFIGURED"
	ErrCodeInvalidCommand       = "INVALID_COMMAND"
	ErrCodeUnsupportedOperation = "UNSUPPORTED_OPERATION"
	ErrCodeAmbiguousCapability  = "AMBIGUOUS_CAPABILITY"
	ErrCodeInvalidParameters    = "INVALID_PARAMETERS"
	ErrCodeTransportError       = "TRANSPORT_ERROR"
	ErrCodeBridgeError          = "BRIDGE_ERROR"
)

// ResponseMessage carries the robot's reply to a command.
// Topic: graylogic/response/botvac/{command_id}
type ResponseMessage struct {
	CommandID string         `json:"command_id"`
	Timestamp time.Time      `json:"timestamp"`
	RobotID   string         `json:"robot_id"`
	Success   bool           `json:"success"`
	Data      robot.Response `json:"data,omitempty"`
	Error     *AckError      `json:"error,omitempty"`
}

// DiscoveryMessage announces the robots the bridge manages.
// Topic: graylogic/discovery/botvac
type DiscoveryMessage struct {
	Timestamp time.Time         `json:"timestamp"`
	Bridge    string            `json:"bridge"`
	Robots    []DiscoveredRobot `json:"robots"`
}

// DiscoveredRobot describes one robot and what it can do.
type DiscoveredRobot struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Serial       string                  `json:"serial"`
	Model        string                  `json:"model,omitempty"`
	Capabilities capability.Declaration  `json:"capabilities"`
	Operations   []robot.OperationStatus `json:"operations"`
}

// HealthStatus represents the operational status of the bridge.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthDegraded HealthStatus = "degraded"
	HealthOffline  HealthStatus = "offline"
	HealthStarting HealthStatus = "starting"
	HealthStopping HealthStatus = "stopping"
)

// HealthMessage reports bridge status.
// Topic: graylogic/health/botvac (QoS 1, retained)
type HealthMessage struct {
	Bridge        string            `json:"bridge"`
	Timestamp     time.Time         `json:"timestamp"`
	Status        HealthStatus      `json:"status"`
	Version       string            `json:"version,omitempty"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	RobotsManaged int               `json:"robots_managed"`
	Statistics    *BridgeStatistics `json:"statistics,omitempty"`
	Reason        string            `json:"reason,omitempty"`
}

// BridgeStatistics contains command counters.
type BridgeStatistics struct {
	CommandsReceived uint64 `json:"commands_received"`
	CommandsAccepted uint64 `json:"commands_accepted"`
	CommandsFailed   uint64 `json:"commands_failed"`
}

// NewAckMessage creates an acknowledgment from a dispatch result.
func NewAckMessage(cmd CommandMessage, res Result) AckMessage {
	ack := AckMessage{
		CommandID: cmd.ID,
		Timestamp: time.Now().UTC(),
		RobotID:   cmd.RobotID,
		Operation: cmd.Operation,
		Status:    AckAccepted,
		Protocol:  Protocol,
		Selected:  res.Selected,
		Command:   res.Command,
	}
	if res.Err != nil {
		ack.Status = AckFailed
		ack.Error = &AckError{Code: res.Code, Message: res.Err.Error()}
	}
	return ack
}

// NewAckError creates a failed acknowledgment that never reached dispatch.
func NewAckError(cmd CommandMessage, code, message string) AckMessage {
	return AckMessage{
		CommandID: cmd.ID,
		Timestamp: time.Now().UTC(),
		RobotID:   cmd.RobotID,
		Operation: cmd.Operation,
		Status:    AckFailed,
		Protocol:  Protocol,
		Error:     &AckError{Code: code, Message: message},
	}
}

// NewResponseMessage creates the response for a dispatch result.
func NewResponseMessage(cmd CommandMessage, res Result) ResponseMessage {
	msg := ResponseMessage{
		CommandID: cmd.ID,
		Timestamp: time.Now().UTC(),
		RobotID:   cmd.RobotID,
		Success:   res.Err == nil,
		Data:      res.Response,
	}
	if res.Err != nil {
		msg.Error = &AckError{Code: res.Code, Message: res.Err.Error()}
	}
	return msg
}

// NewLWTMessage creates the Last Will and Testament health message.
func NewLWTMessage() HealthMessage {
	return HealthMessage{
		Bridge:    Protocol,
		Timestamp: time.Now().UTC(),
		Status:    HealthOffline,
		Reason:    "unexpected_disconnect",
	}
}

// Topic helpers

var topics mqtt.Topics

// CommandTopic returns the command topic for a robot.
// Example: graylogic/command/botvac/robot-1
func CommandTopic(robotID string) string { return topics.BridgeCommand(Protocol, robotID) }

// AckTopic returns the acknowledgment topic for a robot.
func AckTopic(robotID string) string { return topics.BridgeAck(Protocol, robotID) }

// ResponseTopic returns the response topic for a command.
// Example: graylogic/response/botvac/cmd-123
func ResponseTopic(commandID string) string { return topics.BridgeResponse(Protocol, commandID) }

// DiscoveryTopic returns the robot discovery topic.
func DiscoveryTopic() string { return topics.BridgeDiscovery(Protocol) }

// HealthTopic returns the bridge health topic.
func HealthTopic() string { return topics.BridgeHealth(Protocol) }

// CommandSubscribeTopic returns the subscription pattern for all robot commands.
func CommandSubscribeTopic() string { return topics.BridgeCommands(Protocol) }
