package stores

import (
	"database/sql"
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hay-kot/wingman/internal/core/item"
)

// notFound maps a missing row onto item.ErrNotFound and passes every other
// error through.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return item.ErrNotFound
	}
	return err
}

// IsBusyError reports SQLITE_BUSY, including its extended codes.
func IsBusyError(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code()&0xff == sqlite3.SQLITE_BUSY
}
