// Package sqlite registers the SQLite driver used by the archive. Importing
// it for side effects makes DriverName available to database/sql.
package sqlite

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"
)

const DriverName = "sqlite3_slackwatch"

// connection settings applied to every new connection of the pool
var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA synchronous = NORMAL",
}

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			for _, p := range pragmas {
				if _, err := conn.Exec(p, nil); err != nil {
					return err
				}
			}
			return nil
		},
	})
}
