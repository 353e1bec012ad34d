package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/onflow/flow-primary/storage/badger/operation"
)

// SchemaVersion is the version of the key layout written by this package.
const SchemaVersion uint32 = 1

// Open opens (or creates) the badger database in the given directory with
// synchronous writes, and checks the schema version.
func Open(log zerolog.Logger, dir string) (*badger.DB, error) {
	opts := badger.
		DefaultOptions(dir).
		WithSyncWrites(true).
		WithKeepL0InMemory(true).
		WithLogger(&logger{log: log.With().Str("storage", "badger").Logger()})

	return open(opts)
}

// OpenInMemory opens a badger database without any files. Intended for tests.
func OpenInMemory() (*badger.DB, error) {
	opts := badger.
		DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)

	return open(opts)
}

func open(opts badger.Options) (*badger.DB, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open db: %w", err)
	}

	err = db.Update(operation.EnsureVersion(SchemaVersion))
	if err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			err = multierror.Append(err, fmt.Errorf("failed to close db: %w", closeErr))
		}
		return nil, fmt.Errorf("could not initialize db: %w", err)
	}

	return db, nil
}

// logger adapts zerolog to the badger logger interface.
type logger struct {
	log zerolog.Logger
}

func (l *logger) Errorf(msg string, args ...interface{}) {
	l.log.Error().Msgf(msg, args...)
}

func (l *logger) Warningf(msg string, args ...interface{}) {
	l.log.Warn().Msgf(msg, args...)
}

func (l *logger) Infof(msg string, args ...interface{}) {
	l.log.Debug().Msgf(msg, args...)
}

func (l *logger) Debugf(msg string, args ...interface{}) {
	l.log.Trace().Msgf(msg, args...)
}
