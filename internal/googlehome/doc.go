// Package googlehome exposes the IP address of each discovered Google Home
// device as an editable text entity.
//
// The pieces fit together per integration entry:
//
//   - SQLiteRepository stores the discovered devices; Seed loads them from config.
//   - LocalClient implements Client, validating and persisting address edits.
//   - A DeviceCoordinator polls LocalClient.FetchDevices and caches the list.
//   - Store keeps the client and coordinator under the entry id.
//   - SetupTextEntry builds one IPAddressTextEntity per cached device.
//
// Entities never cache the address. A read looks the device up in the
// coordinator data and falls back to "Unknown"; a write goes through the
// client once, and any error reaches the caller unchanged.
package googlehome
