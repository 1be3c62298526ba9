package mqtt

import (
	"fmt"
	"strings"
)

// TopicPrefix is the root of every topic the bridge publishes or subscribes to.
const TopicPrefix = "googlehome"

// Topic path segments for text entities.
const (
	segmentText  = "text"
	segmentState = "state"
	segmentSet   = "set"
	segmentError = "error"
)

// Topics provides builders for the bridge's MQTT topics.
//
// Text entity topics follow googlehome/text/{unique_id}/{action}:
//
//	topics := mqtt.Topics{}
//	topics.TextState("kitchen_ip_address")
//	// Returns: "googlehome/text/kitchen_ip_address/state"
type Topics struct{}

// BridgeStatus returns the retained online/offline status topic (also the LWT topic).
//
// Example: googlehome/bridge/status
func (Topics) BridgeStatus() string {
	return fmt.Sprintf("%s/bridge/status", TopicPrefix)
}

// TextState returns the retained state topic for a text entity.
//
// Example: googlehome/text/abc123_ip_address/state
func (Topics) TextState(uniqueID string) string {
	return textTopic(uniqueID, segmentState)
}

// TextError returns the topic where failed set commands are reported.
//
// Example: googlehome/text/abc123_ip_address/error
func (Topics) TextError(uniqueID string) string {
	return textTopic(uniqueID, segmentError)
}

// AllTextSets returns a pattern matching every text entity command topic.
//
// Pattern: googlehome/text/+/set
func (Topics) AllTextSets() string {
	return textTopic("+", segmentSet)
}

// ParseTextTopic extracts the unique id and action from a text entity topic.
// ok is false for topics outside googlehome/text/{unique_id}/{action}.
func (Topics) ParseTextTopic(topic string) (uniqueID, action string, ok bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != TopicPrefix || parts[1] != segmentText {
		return "", "", false
	}
	if parts[2] == "" || parts[3] == "" {
		return "", "", false
	}
	return parts[2], parts[3], true
}

func textTopic(uniqueID, action string) string {
	return fmt.Sprintf("%s/%s/%s/%s", TopicPrefix, segmentText, uniqueID, action)
}
