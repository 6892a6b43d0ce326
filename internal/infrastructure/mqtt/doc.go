// Package mqtt provides MQTT client connectivity for the BotVac bridge.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing with QoS and payload-size validation
//   - Topic subscriptions that are restored after a reconnect
//   - A retained online/offline status with a Last Will for crashes
//
// The bridge receives robot commands and publishes acknowledgements over
// the Gray Logic bus:
//
//	controller -> graylogic/command/botvac/{robot} -> bridge -> Neato cloud
//	controller <- graylogic/ack/botvac/{robot}      <- bridge
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.BridgeCommands("botvac"), 1,
//	    func(topic string, payload []byte) error {
//	        return handle(topic, payload)
//	    })
//
// TLS (cfg.Broker.TLS) should be enabled for any broker outside localhost.
package mqtt
