// Package entity is the host side of the entity model.
//
// Integrations implement Entity (and TextEntity for editable text fields)
// and hand their instances to an AddEntitiesFunc during setup. The Registry
// collects them by unique id, serves state snapshots to the API and MQTT
// surfaces and routes set-value calls back to the owning entity.
//
// Entities are views over data owned elsewhere (usually a coordinator), so
// the registry never caches state. Every Snapshot reads the entity afresh.
package entity
