package mqttentity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-googlehome/internal/entity"
	"github.com/nerrad567/gray-logic-googlehome/internal/infrastructure/mqtt"
)

// setTimeout bounds a single set command, including the client update and refresh.
const setTimeout = 10 * time.Second

// MQTTClient is the subset of *mqtt.Client the bridge uses.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// EntityRegistry is the subset of *entity.Registry the bridge uses.
type EntityRegistry interface {
	SetTextValue(ctx context.Context, uniqueID, value string) error
	Snapshots() []entity.StateSnapshot
	AddListener(fn entity.StateListener) func()
}

// Logger defines the logging interface used by the bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options configures a Bridge.
type Options struct {
	MQTT     MQTTClient
	Registry EntityRegistry
	QoS      byte
	Logger   Logger
}

// ErrorMessage is published to the error topic when a set command fails.
type ErrorMessage struct {
	UniqueID  string `json:"unique_id"`
	Value     string `json:"value"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// setCommand is the JSON form of a set payload.
type setCommand struct {
	Value *string `json:"value"`
}

// Bridge connects the entity registry to MQTT.
//
// Thread Safety: All methods are safe for concurrent use.
type Bridge struct {
	mqtt     MQTTClient
	registry EntityRegistry
	topics   mqtt.Topics
	qos      byte
	logger   Logger

	mu             sync.Mutex
	removeListener func()
	ctx            context.Context
	cancel         context.CancelFunc
}

// NewBridge creates a bridge. MQTT and Registry are required.
func NewBridge(opts Options) (*Bridge, error) {
	if opts.MQTT == nil {
		return nil, fmt.Errorf("%w: mqtt client", ErrMissingDependency)
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("%w: entity registry", ErrMissingDependency)
	}

	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		mqtt:     opts.MQTT,
		registry: opts.Registry,
		qos:      opts.QoS,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start subscribes to the command topics, follows registry changes and
// publishes the current state of every entity.
func (b *Bridge) Start() error {
	if err := b.mqtt.Subscribe(b.topics.AllTextSets(), b.qos, b.handleSet); err != nil {
		return fmt.Errorf("subscribe to text commands: %w", err)
	}

	remove := b.registry.AddListener(func(s entity.StateSnapshot) {
		_ = b.publishState(s) //nolint:errcheck // logged in publishState
	})
	b.mu.Lock()
	b.removeListener = remove
	b.mu.Unlock()

	published := b.PublishAll()
	b.logger.Info("mqtt entity bridge started",
		"topic", b.topics.AllTextSets(), "entities", published)
	return nil
}

// Stop unsubscribes and stops following the registry. In-flight commands
// are cancelled.
func (b *Bridge) Stop() {
	b.mu.Lock()
	remove := b.removeListener
	b.removeListener = nil
	b.mu.Unlock()

	if remove != nil {
		remove()
	}
	b.cancel()

	if err := b.mqtt.Unsubscribe(b.topics.AllTextSets()); err != nil {
		b.logger.Warn("unsubscribe from text commands failed", "error", err)
	}
	b.logger.Info("mqtt entity bridge stopped")
}

// PublishAll publishes every entity's state and returns how many succeeded.
func (b *Bridge) PublishAll() int {
	n := 0
	for _, s := range b.registry.Snapshots() {
		if b.publishState(s) == nil {
			n++
		}
	}
	return n
}

func (b *Bridge) publishState(s entity.StateSnapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		b.logger.Error("marshalling entity state", "unique_id", s.UniqueID, "error", err)
		return err
	}
	if err := b.mqtt.Publish(b.topics.TextState(s.UniqueID), payload, b.qos, true); err != nil {
		b.logger.Warn("publishing entity state failed", "unique_id", s.UniqueID, "error", err)
		return err
	}
	return nil
}

// handleSet routes a command to the registry. A failure is published to the
// entity's error topic and returned so the MQTT client logs it.
func (b *Bridge) handleSet(topic string, payload []byte) error {
	uniqueID, action, ok := b.topics.ParseTextTopic(topic)
	if !ok || action != "set" {
		return fmt.Errorf("%w: %s", ErrUnexpectedTopic, topic)
	}

	value, err := parseSetPayload(payload)
	if err != nil {
		b.publishError(uniqueID, string(payload), err)
		return err
	}

	ctx, cancel := context.WithTimeout(b.ctx, setTimeout)
	defer cancel()

	b.logger.Debug("set command received", "unique_id", uniqueID)
	if err := b.registry.SetTextValue(ctx, uniqueID, value); err != nil {
		b.publishError(uniqueID, value, err)
		return err
	}
	return nil
}

func (b *Bridge) publishError(uniqueID, value string, cause error) {
	msg := ErrorMessage{
		UniqueID:  uniqueID,
		Value:     value,
		Error:     cause.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := b.mqtt.Publish(b.topics.TextError(uniqueID), payload, b.qos, false); err != nil {
		b.logger.Warn("publishing set error failed", "unique_id", uniqueID, "error", err)
	}
}

// parseSetPayload accepts a raw value or {"value": "..."}.
func parseSetPayload(payload []byte) (string, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return strings.TrimSpace(string(payload)), nil
	}

	var cmd setCommand
	if err := json.Unmarshal(trimmed, &cmd); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if cmd.Value == nil {
		return "", fmt.Errorf("%w: missing value", ErrInvalidPayload)
	}
	return *cmd.Value, nil
}
