// Package mqttentity mirrors registered entities onto MQTT.
//
// Every entity's state is published retained to
// googlehome/text/{unique_id}/state whenever the registry reports a change
// (a coordinator refresh or a successful set). Commands arrive on
// googlehome/text/{unique_id}/set, either as the raw value or as
// {"value": "..."}, and are routed to the registry's set-value service.
// A failed command is reported on googlehome/text/{unique_id}/error.
package mqttentity
