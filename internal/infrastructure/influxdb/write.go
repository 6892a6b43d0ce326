package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/gray-logic-botvac/internal/robot"
)

// Measurement names.
const (
	measurementCommands   = "robot_commands"
	measurementRobotState = "robot_state"
)

// WriteCommandMetric records one dispatched operation.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
//	client.WriteCommandMetric("robot-1", "start_cleaning", "accepted", 420*time.Millisecond)
func (c *Client) WriteCommandMetric(robotID, operation, status string, duration time.Duration) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(commandPoint(robotID, operation, status, duration, time.Now()))
}

// WriteRobotState records the state, action and battery charge reported by
// a getRobotState reply. Replies without a numeric state are ignored.
func (c *Client) WriteRobotState(robotID string, resp robot.Response) {
	if !c.IsConnected() {
		return
	}
	if p := robotStatePoint(robotID, resp, time.Now()); p != nil {
		c.writeAPI.WritePoint(p)
	}
}

func commandPoint(robotID, operation, status string, duration time.Duration, ts time.Time) *write.Point {
	return write.NewPoint(
		measurementCommands,
		map[string]string{
			"robot_id":  robotID,
			"operation": operation,
			"status":    status,
		},
		map[string]interface{}{
			"duration_ms": float64(duration.Microseconds()) / 1000,
			"count":       1,
		},
		ts,
	)
}

func robotStatePoint(robotID string, resp robot.Response, ts time.Time) *write.Point {
	state, ok := number(resp["state"])
	if !ok {
		return nil
	}

	fields := map[string]interface{}{"state": state}
	if action, ok := number(resp["action"]); ok {
		fields["action"] = action
	}
	if details, ok := resp["details"].(map[string]any); ok {
		if charge, ok := number(details["charge"]); ok {
			fields["charge"] = charge
		}
		if charging, ok := details["isCharging"].(bool); ok {
			fields["charging"] = charging
		}
		if docked, ok := details["isDocked"].(bool); ok {
			fields["docked"] = docked
		}
	}

	return write.NewPoint(measurementRobotState, map[string]string{"robot_id": robotID}, fields, ts)
}

// number accepts the numeric types a decoded JSON reply can carry.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
