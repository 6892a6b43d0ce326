package mqtt

import "fmt"

// TopicPrefix is the root of every topic on the bus.
//
// Bridge topics use the flat scheme graylogic/{category}/{protocol}/{id}.
const TopicPrefix = "graylogic"

// Topics provides builders for bridge and system topics.
//
//	ack := mqtt.Topics{}.BridgeAck("botvac", "robot-kitchen")
//	// graylogic/ack/botvac/robot-kitchen
type Topics struct{}

// BridgeCommand returns the topic for commands to one target of a bridge.
//
// Example: graylogic/command/botvac/robot-kitchen
func (Topics) BridgeCommand(protocol, id string) string {
	return fmt.Sprintf("%s/command/%s/%s", TopicPrefix, protocol, id)
}

// BridgeCommands returns the subscription pattern for every command to a bridge.
//
// Pattern: graylogic/command/botvac/+
func (Topics) BridgeCommands(protocol string) string {
	return fmt.Sprintf("%s/command/%s/+", TopicPrefix, protocol)
}

// BridgeAck returns the topic for command acknowledgements from a bridge.
//
// Example: graylogic/ack/botvac/robot-kitchen
func (Topics) BridgeAck(protocol, id string) string {
	return fmt.Sprintf("%s/ack/%s/%s", TopicPrefix, protocol, id)
}

// BridgeResponse returns the topic carrying the reply to one command.
//
// Example: graylogic/response/botvac/cmd-0001
func (Topics) BridgeResponse(protocol, commandID string) string {
	return fmt.Sprintf("%s/response/%s/%s", TopicPrefix, protocol, commandID)
}

// BridgeHealth returns the topic for bridge health status.
func (Topics) BridgeHealth(protocol string) string {
	return fmt.Sprintf("%s/health/%s", TopicPrefix, protocol)
}

// BridgeDiscovery returns the topic listing what a bridge can drive.
func (Topics) BridgeDiscovery(protocol string) string {
	return fmt.Sprintf("%s/discovery/%s", TopicPrefix, protocol)
}

// SystemStatus returns the per-client online/offline status topic.
//
// Example: graylogic/system/status/graylogic-botvac
func (Topics) SystemStatus(clientID string) string {
	return fmt.Sprintf("%s/system/status/%s", TopicPrefix, clientID)
}

// AllTopics returns a pattern matching all Gray Logic topics.
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}
