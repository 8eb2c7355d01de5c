package doctor

import (
	"context"
	"database/sql"
	"fmt"
	"os"
)

// StorageCheck verifies the data directory is writable, the SQLite database
// passes an integrity check and its schema is at the expected version.
type StorageCheck struct {
	dataDir    string
	conn       *sql.DB
	wantSchema int
}

// NewStorageCheck creates a new storage check. wantSchema is the schema
// version this build migrates to.
func NewStorageCheck(dataDir string, conn *sql.DB, wantSchema int) *StorageCheck {
	return &StorageCheck{dataDir: dataDir, conn: conn, wantSchema: wantSchema}
}

func (c *StorageCheck) Name() string {
	return "Storage"
}

func (c *StorageCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	f, err := os.CreateTemp(c.dataDir, ".doctor-*")
	if err != nil {
		result.add("data_dir", StatusFail, fmt.Sprintf("not writable: %v", err))
	} else {
		_ = f.Close()
		_ = os.Remove(f.Name())
		result.add("data_dir", StatusPass, c.dataDir)
	}

	if c.conn == nil {
		result.add("database", StatusFail, "not open")
		return result
	}

	var status string
	if err := c.conn.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&status); err != nil {
		result.add("database", StatusFail, fmt.Sprintf("integrity check failed: %v", err))
		return result
	}
	if status != "ok" {
		result.add("database", StatusFail, status)
		return result
	}

	result.add("database", StatusPass, "integrity ok")

	var schema int
	switch err := c.conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&schema); {
	case err != nil:
		result.add("schema", StatusFail, err.Error())
	case schema != c.wantSchema:
		result.add("schema", StatusWarn, fmt.Sprintf("version %d, expected %d", schema, c.wantSchema))
	default:
		result.add("schema", StatusPass, fmt.Sprintf("version %d", schema))
	}
	return result
}
