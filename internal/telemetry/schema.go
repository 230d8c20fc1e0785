package telemetry

import (
	"database/sql"

	"codeberg.org/mutker/machinesim/internal/errors"
)

// initSchema creates the per-tick table. The timestamp key makes a
// re-recorded tick overwrite rather than duplicate.
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS machine_ticks (
            timestamp INTEGER PRIMARY KEY,
            tick INTEGER,
            state TEXT,
            running INTEGER,
            temperature REAL,
            voltage REAL,
            speed REAL,
            message TEXT
        )
    `)
	if err != nil {
		return errors.New().Wrap(ErrSchemaInit, err)
	}

	return nil
}
