// Google Home bridge.
//
// This is the main entry point for the Google Home bridge. It loads the
// configured speakers into the device store, exposes one editable
// "IP Address" text entity per speaker and serves those entities over
// REST, WebSocket and MQTT.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nerrad567/gray-logic-googlehome/migrations"

	"github.com/nerrad567/gray-logic-googlehome/internal/api"
	"github.com/nerrad567/gray-logic-googlehome/internal/bridges/mqttentity"
	"github.com/nerrad567/gray-logic-googlehome/internal/coordinator"
	"github.com/nerrad567/gray-logic-googlehome/internal/entity"
	"github.com/nerrad567/gray-logic-googlehome/internal/googlehome"
	"github.com/nerrad567/gray-logic-googlehome/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-googlehome/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-googlehome/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-googlehome/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-googlehome/internal/infrastructure/mqtt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // startup sequence: each step is linear
	log := logging.Default()
	log.Info("starting Google Home bridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	components := map[string]api.HealthChecker{"database": db}

	// InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		components["influxdb"] = influxClient
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Integration entry: device store, client, coordinator, entities
	registry := entity.NewRegistry()
	registry.SetLogger(log.Component("entity"))

	store, coord, err := setupIntegration(ctx, cfg, db, influxClient, registry, log)
	if err != nil {
		return err
	}
	defer unloadEntries(store, log)

	// MQTT (optional)
	if cfg.MQTT.Enabled {
		mqttClient, bridge, mqttErr := startMQTT(cfg, registry, log)
		if mqttErr != nil {
			return mqttErr
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		defer bridge.Stop()
		components["mqtt"] = mqttClient
	} else {
		log.Info("MQTT disabled")
	}

	// API server
	apiServer, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Logger:      log.Component("api"),
		Registry:    registry,
		Coordinator: coord,
		Components:  components,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := coord.Start(ctx); err != nil {
		return fmt.Errorf("starting coordinator: %w", err)
	}
	defer coord.Stop()

	if err := healthCheck(ctx, components); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	log.Info("Google Home bridge stopped")
	return nil
}

// setupIntegration seeds the device store, builds the client and coordinator
// for the configured entry and registers its text entities.
func setupIntegration(
	ctx context.Context,
	cfg *config.Config,
	db *database.DB,
	influxClient *influxdb.Client,
	registry *entity.Registry,
	log *logging.Logger,
) (*googlehome.Store, *googlehome.DeviceCoordinator, error) {
	repo := googlehome.NewSQLiteRepository(db.DB)
	seeded, err := googlehome.Seed(ctx, repo, cfg.Devices)
	if err != nil {
		return nil, nil, fmt.Errorf("seeding devices: %w", err)
	}
	log.Info("device store seeded",
		"configured", len(cfg.Devices),
		"inserted", seeded.Inserted,
		"updated", seeded.Updated,
		"removed", seeded.Removed,
	)

	client := googlehome.NewLocalClient(repo)
	client.SetLogger(log.Component("googlehome"))
	if influxClient != nil {
		client.SetTelemetry(influxClient)
	}

	var coord *googlehome.DeviceCoordinator
	opts := []coordinator.Option[[]googlehome.Device]{
		coordinator.WithLogger[[]googlehome.Device](log.Component("coordinator")),
	}
	if influxClient != nil {
		opts = append(opts, coordinator.WithResultHook[[]googlehome.Device](func(r coordinator.Result) {
			influxClient.WriteRefresh(r.Name, len(coord.Data()), r.Success, r.Duration)
		}))
	}
	coord = coordinator.New(googlehome.Domain, cfg.GetPollInterval(), client.FetchDevices, opts...)
	client.SetRefresher(coord)

	if err := coord.FirstRefresh(ctx); err != nil {
		return nil, nil, fmt.Errorf("loading devices: %w", err)
	}
	coord.AddListener(registry.NotifyAll)

	store := googlehome.NewStore()
	if err := store.Put(cfg.Integration.EntryID, &googlehome.RuntimeData{Client: client, Coordinator: coord}); err != nil {
		return nil, nil, fmt.Errorf("storing runtime data: %w", err)
	}

	if _, err := googlehome.SetupTextEntry(store, cfg.Integration.EntryID, registry.AddEntities); err != nil {
		return nil, nil, fmt.Errorf("setting up text entities: %w", err)
	}
	log.Info("text entities registered",
		"entry_id", cfg.Integration.EntryID,
		"entities", registry.Count(),
	)

	return store, coord, nil
}

// unloadEntries drops the runtime data of every loaded entry on shutdown.
func unloadEntries(store *googlehome.Store, log *logging.Logger) {
	for _, id := range store.EntryIDs() {
		if store.Remove(id) {
			log.Info("integration entry unloaded", "entry_id", id)
		}
	}
}

// startMQTT connects to the broker and starts the entity bridge.
func startMQTT(cfg *config.Config, registry *entity.Registry, log *logging.Logger) (*mqtt.Client, *mqttentity.Bridge, error) {
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	mqttClient.SetLogger(log.Component("mqtt"))
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	bridge, err := mqttentity.NewBridge(mqttentity.Options{
		MQTT:     mqttClient,
		Registry: registry,
		QoS:      mqttClient.DefaultQoS(),
		Logger:   log.Component("mqttentity"),
	})
	if err != nil {
		_ = mqttClient.Close() //nolint:errcheck // already failing
		return nil, nil, fmt.Errorf("creating MQTT entity bridge: %w", err)
	}

	// Republish retained state after a reconnect so late subscribers see it.
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
		bridge.PublishAll()
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	if err := bridge.Start(); err != nil {
		_ = mqttClient.Close() //nolint:errcheck // already failing
		return nil, nil, fmt.Errorf("starting MQTT entity bridge: %w", err)
	}
	return mqttClient, bridge, nil
}

// getConfigPath returns the configuration file path.
// Uses GOOGLEHOME_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GOOGLEHOME_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheckTimeout bounds the startup health check.
const healthCheckTimeout = 5 * time.Second

// healthCheck verifies every infrastructure component is healthy.
func healthCheck(ctx context.Context, components map[string]api.HealthChecker) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	for name, c := range components {
		if err := c.HealthCheck(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
