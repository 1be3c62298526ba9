// Package api implements the HTTP REST API and WebSocket server for the
// Google Home bridge.
//
// This package provides:
//   - REST endpoints to list entities, read one and set a text entity's value
//   - A coordinator refresh endpoint
//   - A WebSocket hub broadcasting entity state changes
//   - Middleware stack (request ID, logging, recovery, CORS, body size limit)
//   - TLS support
//
// # Architecture
//
// The server is a surface over the entity registry. A PUT to
// /api/v1/entities/{unique_id}/value goes through the registry's set-value
// service to the owning entity, and every state change the registry reports
// is broadcast on the "entity.state_changed" WebSocket channel.
//
// # Errors
//
// Registry and integration errors map onto HTTP statuses: unknown entities
// and vanished devices are 404, rejected values are 400, anything else is
// 500. The body is always {"status", "code", "message"}.
package api
