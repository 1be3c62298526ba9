package mqttentity

import "errors"

var (
	// ErrMissingDependency is returned by NewBridge when a required collaborator is nil.
	ErrMissingDependency = errors.New("mqttentity: missing dependency")

	// ErrUnexpectedTopic is returned for messages outside the command topic layout.
	ErrUnexpectedTopic = errors.New("mqttentity: unexpected topic")

	// ErrInvalidPayload is returned when a JSON command cannot be decoded.
	ErrInvalidPayload = errors.New("mqttentity: invalid payload")
)
