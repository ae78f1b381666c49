package tradelog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/tradelog/date"
	"github.com/rs/zerolog"
)

const header = "# tradelog ledger: T trade, X transaction, L leg"

// DecodeLedger decodes a ledger from a stream of ledger lines, and computes
// the derived fields of every trade as of today.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	return decodeLedger(r, zerolog.Nop(), date.Today)
}

// decodeLedger reads records in file order. A Trade line becomes the current
// trade, a Transaction line is appended to the current trade and becomes the
// current transaction, a Leg line is appended to the current transaction.
// Records without a parent are discarded.
func decodeLedger(r io.Reader, log zerolog.Logger, today func() date.Date) (*Ledger, error) {
	ledger := NewLedger()
	ledger.today = today

	var (
		trade *Trade
		tx    *Transaction
		n     int
	)
	// lines are read whole, whatever the length of their notes.
	br := bufio.NewReader(r)
	for eof := false; !eof; {
		line, err := br.ReadString('\n')
		switch {
		case errors.Is(err, io.EOF):
			eof = true
			if line == "" {
				continue
			}
		case err != nil:
			return nil, fmt.Errorf("error reading from input: %w", err)
		}
		n++
		line = strings.TrimRight(line, "\r\n")
		if skipLine(line) {
			continue
		}
		rec, err := DecodeRecord(line)
		if err != nil {
			log.Warn().Err(&RecordError{Line: n, Text: line, Err: err}).Msg("skipping ledger line")
			continue
		}

		switch v := rec.(type) {
		case *Trade:
			ledger.trades = append(ledger.trades, v)
			trade, tx = v, nil
		case *Transaction:
			if trade == nil {
				log.Debug().Int("line", n).Msg("discarding transaction without trade")
				continue
			}
			trade.Transactions = append(trade.Transactions, v)
			trade.track(v)
			tx = v
		case *Leg:
			if tx == nil {
				log.Debug().Int("line", n).Msg("discarding leg without transaction")
				continue
			}
			tx.Legs = append(tx.Legs, v)
			v.tx = tx
			trade.trackLeg(v)
		}
	}

	now := today()
	for _, t := range ledger.trades {
		if m := t.maxLegID(); t.NextLegID <= m {
			log.Warn().Str("ticker", t.TickerSymbol).Int("next_leg_id", t.NextLegID).Int("max_leg_id", m).
				Msg("next leg id behind existing legs, bumping it")
			t.NextLegID = m + 1
		}
		stored := t.IsOpen
		t.Recalculate(now)
		if stored != t.IsOpen {
			log.Debug().Str("ticker", t.TickerSymbol).Bool("stored", stored).Bool("resolved", t.IsOpen).
				Msg("open flag differs from the stored one")
		}
	}
	return ledger, nil
}

// EncodeLedger writes every trade, its transactions and their legs, in
// insertion order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, t := range ledger.trades {
		if err := writeRecord(bw, t); err != nil {
			return err
		}
		for _, tx := range t.Transactions {
			if err := writeRecord(bw, tx); err != nil {
				return err
			}
			for _, leg := range tx.Legs {
				if err := writeRecord(bw, leg); err != nil {
					return err
				}
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return nil
}

func writeRecord(w *bufio.Writer, r Record) error {
	if _, err := fmt.Fprintln(w, EncodeRecord(r)); err != nil {
		return fmt.Errorf("failed to write %s record: %w", r.Tag(), err)
	}
	return nil
}
