// Package influxdb records robot telemetry in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. Two measurements are
// written:
//
//	robot_commands  one point per dispatched operation (robot_id, operation, status)
//	robot_state     state, action and battery charge from getRobotState replies
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteCommandMetric("robot-1", "find_me", "accepted", elapsed)
//
// Writes are non-blocking and batched (batch_size, flush_interval). Async
// write errors are delivered to the SetOnError callback.
package influxdb
