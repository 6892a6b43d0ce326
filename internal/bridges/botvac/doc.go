// Package botvac bridges MQTT commands to Neato BotVac robots.
//
// Core publishes a CommandMessage naming a robot and a logical operation on
// graylogic/command/botvac/{robot_id}. The bridge resolves the operation
// against the robot's capability declaration, builds the Nucleo command for
// the robot's service level and sends it through a robot.Transport.
//
// Replies:
//
//	graylogic/ack/botvac/{robot_id}        AckMessage (accepted or failed)
//	graylogic/response/botvac/{command_id} ResponseMessage with the robot reply
//	graylogic/discovery/botvac             DiscoveryMessage, retained
//	graylogic/health/botvac                HealthMessage, retained, LWT
//
// The Dispatcher that performs resolution and delivery is exported so the
// REST API can share it.
package botvac
