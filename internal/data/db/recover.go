package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// IsCorrupt reports whether err means the file on disk is not a usable SQLite
// database.
func IsCorrupt(err error) bool {
	if err == nil {
		return false
	}

	var serr *sqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() & 0xff {
		case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
			return true
		}
		return false
	}

	msg := err.Error()
	return strings.Contains(msg, "database disk image is malformed") ||
		strings.Contains(msg, "file is not a database")
}

// OpenOrRecover opens the database in dataDir. A corrupt file is moved aside
// together with its WAL and SHM files, and a fresh database is created in its
// place. Reminders lose history but keep running.
func OpenOrRecover(dataDir string, opts OpenOptions, log zerolog.Logger) (*DB, error) {
	database, err := Open(dataDir, opts)
	if err == nil || !IsCorrupt(err) {
		return database, err
	}

	backup, qerr := quarantine(dataDir, time.Now())
	if qerr != nil {
		return nil, fmt.Errorf("move corrupt database aside: %w (open: %v)", qerr, err)
	}
	log.Warn().Err(err).Str("backup", backup).Msg("database corrupt, starting fresh")

	return Open(dataDir, opts)
}

// quarantine renames wingman.db and its -wal/-shm companions to
// wingman.db.corrupt.<stamp>[-wal|-shm] and returns the main backup path.
// Missing files are skipped.
func quarantine(dataDir string, now time.Time) (string, error) {
	live := filepath.Join(dataDir, FileName)
	backup := live + ".corrupt." + now.Format("20060102-150405")

	for _, suffix := range []string{"", "-wal", "-shm"} {
		err := os.Rename(live+suffix, backup+suffix)
		switch {
		case err == nil, errors.Is(err, os.ErrNotExist):
		case suffix != "":
			// a stale journal must not be replayed against the new file
			if rmErr := os.Remove(live + suffix); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				return "", fmt.Errorf("remove %s: %w", filepath.Base(live+suffix), rmErr)
			}
		default:
			return "", err
		}
	}
	return backup, nil
}
