// Package database provides SQLite connectivity for the Google Home bridge.
//
// It owns the connection (WAL mode, busy timeout, single writer), health
// checks and the embedded schema migrations. The device store lives in the
// googlehome package and only needs the *sql.DB exposed here.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
