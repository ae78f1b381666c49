package tradelog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/etnz/tradelog/date"
	"github.com/rs/zerolog"
)

// File names of the two ledger file generations.
const (
	DefaultFileName = "trades.db"
	LegacyFileName  = "tradetracker.db"
)

// Migrator moves a ledger from the legacy file to the current one.
//
// The migration is one way and idempotent: once the current file exists it is
// the only one ever read.
type Migrator struct {
	Dir         string
	CurrentName string
	LegacyName  string
	Log         zerolog.Logger
}

// Migration is the outcome of ResolveActivePath.
type Migration struct {
	// Active is the file to load in this session.
	Active string
	// Target is the file every save goes to.
	Target string
	// Pending is true when Active is the legacy file.
	Pending bool
}

func (m Migrator) current() string { return filepath.Join(m.Dir, m.CurrentName) }
func (m Migrator) legacy() string  { return filepath.Join(m.Dir, m.LegacyName) }

// ResolveActivePath tells which file holds the ledger.
//
// The current file wins when it exists. Otherwise the legacy file is used if
// present, and the migration stays pending until Complete. When neither
// exists the current file is active, and loading it fails.
func (m Migrator) ResolveActivePath() Migration {
	target := m.current()
	if exists(target) || !exists(m.legacy()) {
		return Migration{Active: target, Target: target}
	}
	return Migration{Active: m.legacy(), Target: target, Pending: true}
}

// Complete writes the ledger to the current file and removes the legacy one.
//
// The current file is written aside and renamed into place, so that a failed
// migration never leaves a partial current file behind. Failing to remove the
// legacy file is only logged: it will never be read again.
func (m Migrator) Complete(l *Ledger) error {
	target := m.current()
	tmp := target + ".tmp"
	if err := writeLedgerFile(tmp, l); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("could not migrate ledger to %q: %w", target, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("could not migrate ledger to %q: %w", target, err)
	}
	m.Log.Info().Str("from", m.legacy()).Str("to", target).Msg("ledger migrated")

	if err := os.Remove(m.legacy()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		m.Log.Warn().Err(err).Str("path", m.legacy()).Msg("could not remove legacy ledger")
	}
	return nil
}

// Migrate runs a pending migration right away. It reports whether there was
// one to run.
func (m Migrator) Migrate() (bool, error) {
	mig := m.ResolveActivePath()
	if !mig.Pending {
		return false, nil
	}
	l, err := readLedgerFile(mig.Active, m.Log, date.Today)
	if err != nil {
		return true, err
	}
	return true, m.Complete(l)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
