package tradelog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/tradelog/date"
	"github.com/rs/zerolog"
)

// Store binds a Ledger to its file in a directory.
//
// Load and Save read and write the whole file. A Store is not safe for
// concurrent use, callers serialize Load, Save and ledger edits.
type Store struct {
	migrator Migrator
	log      zerolog.Logger
	today    func() date.Date
	pending  bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger, the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock sets the function giving the current date, used for days to expiry.
func WithClock(today func() date.Date) Option {
	return func(s *Store) { s.today = today }
}

// WithFileNames overrides the current and legacy file names.
func WithFileNames(current, legacy string) Option {
	return func(s *Store) {
		s.migrator.CurrentName = current
		s.migrator.LegacyName = legacy
	}
}

// NewStore returns a store for the ledger files in dir.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		migrator: Migrator{Dir: dir, CurrentName: DefaultFileName, LegacyName: LegacyFileName},
		log:      zerolog.Nop(),
		today:    date.Today,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.migrator.Log = s.log
	return s
}

// Path returns the file the ledger is saved to.
func (s *Store) Path() string { return s.migrator.current() }

// Load reads the ledger file.
//
// When only the legacy file exists it is loaded and immediately saved to the
// current file. A failed migration is logged and retried by the next Save.
// A missing file is an error matching fs.ErrNotExist.
func (s *Store) Load() (*Ledger, error) {
	mig := s.migrator.ResolveActivePath()
	s.pending = mig.Pending

	ledger, err := readLedgerFile(mig.Active, s.log, s.today)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("path", mig.Active).Int("trades", ledger.Len()).Msg("ledger loaded")

	if s.pending {
		if err := s.Save(ledger); err != nil {
			s.log.Error().Err(err).Msg("ledger migration failed, keeping the legacy file")
		}
	}
	return ledger, nil
}

// Save rewrites the whole ledger file.
//
// The file is truncated before being written: a failure in the middle of a
// save can leave it incomplete.
func (s *Store) Save(l *Ledger) error {
	if s.pending {
		if err := s.migrator.Complete(l); err != nil {
			return err
		}
		s.pending = false
		return nil
	}
	if err := writeLedgerFile(s.Path(), l); err != nil {
		return err
	}
	s.log.Debug().Str("path", s.Path()).Int("trades", l.Len()).Msg("ledger saved")
	return nil
}

func readLedgerFile(path string, log zerolog.Logger, today func() date.Date) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", path, err)
	}
	defer f.Close()

	ledger, err := decodeLedger(f, log, today)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", path, err)
	}
	return ledger, nil
}

func writeLedgerFile(path string, l *Ledger) error {
	// Ensure the directory for the ledger file exists.
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for ledger %q: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening ledger file %q for writing: %w", path, err)
	}
	if err := EncodeLedger(file, l); err != nil {
		file.Close()
		return fmt.Errorf("error writing ledger file %q: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing ledger file %q: %w", path, err)
	}
	return nil
}
