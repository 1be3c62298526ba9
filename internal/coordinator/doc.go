// Package coordinator provides a generic polling data coordinator.
//
// A Coordinator owns one cached value produced by a fetch function. Entities
// read the cache and never fetch themselves; the coordinator refreshes it on
// a fixed interval, on request and once at startup. A failed refresh keeps
// the previous data and marks the coordinator unsuccessful, which entities
// report as unavailable.
//
//	coord := coordinator.New("google_home", time.Minute, client.FetchDevices,
//	    coordinator.WithLogger[[]googlehome.Device](log))
//	if err := coord.FirstRefresh(ctx); err != nil {
//	    return err
//	}
//	coord.Start(ctx)
//	defer coord.Stop()
package coordinator
