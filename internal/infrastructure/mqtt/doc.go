// Package mqtt provides MQTT connectivity for the Google Home bridge.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing with QoS guarantees and retained state
//   - Topic subscriptions that survive reconnects
//   - Last Will and Testament on googlehome/bridge/status
//
// Text entities are exposed under googlehome/text/{unique_id}/{state,set,error};
// see Topics for the builders.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.AllTextSets(), 1, handler)
package mqtt
