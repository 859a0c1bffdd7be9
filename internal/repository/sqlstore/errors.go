package sqlstore

import (
	"errors"

	"github.com/navikt/zbook/internal/models"
)

var (
	// ErrNotFound is returned when a requested entity is not found
	ErrNotFound = models.ErrNotFound

	// ErrBuildQuery is returned when a SQL statement cannot be built
	ErrBuildQuery = errors.New("sqlstore: failed to build query")

	// ErrExecQuery is returned when a SQL statement fails
	ErrExecQuery = errors.New("sqlstore: failed to execute query")

	// ErrScanRow is returned when a result row cannot be decoded
	ErrScanRow = errors.New("sqlstore: failed to scan row")

	// ErrUnsupportedDriver is returned for drivers other than postgres and sqlite
	ErrUnsupportedDriver = errors.New("sqlstore: unsupported driver")
)
