package tradelog

import (
	"fmt"
	"slices"

	"github.com/etnz/tradelog/date"
)

// Ledger is the collection of all trades, in file order. The zero value is an
// empty ledger dated by the system clock.
//
// A Ledger is not safe for concurrent use. Mutations through its methods
// recalculate the derived fields of the trade they touch.
type Ledger struct {
	trades []*Trade
	today  func() date.Date
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{today: date.Today}
}

// now returns the date derived fields are computed at.
func (l *Ledger) now() date.Date {
	if l.today == nil {
		return date.Today()
	}
	return l.today()
}

// Trades returns the trades of the ledger in order. The slice is a copy, the
// trades are not.
func (l *Ledger) Trades() []*Trade { return slices.Clone(l.trades) }

// Len returns the number of trades.
func (l *Ledger) Len() int { return len(l.trades) }

// Find returns the trades on a ticker symbol, in ledger order.
func (l *Ledger) Find(symbol string) []*Trade {
	var found []*Trade
	for _, t := range l.trades {
		if t.TickerSymbol == symbol {
			found = append(found, t)
		}
	}
	return found
}

// FindOpen returns the first open trade on a ticker symbol.
func (l *Ledger) FindOpen(symbol string) (*Trade, bool) {
	for _, t := range l.trades {
		if t.TickerSymbol == symbol && t.IsOpen {
			return t, true
		}
	}
	return nil, false
}

// NewTrade appends a new empty trade to the ledger.
func (l *Ledger) NewTrade(symbol, name string, category int) *Trade {
	t := NewTrade(symbol, name, category)
	l.trades = append(l.trades, t)
	return t
}

// Recalculate refreshes the derived fields of every trade.
func (l *Ledger) Recalculate() {
	now := l.now()
	for _, t := range l.trades {
		t.Recalculate(now)
	}
}

// AddTransaction appends tx and its legs to the trade.
func (l *Ledger) AddTransaction(t *Trade, tx *Transaction) error {
	if err := l.owns(t); err != nil {
		return err
	}
	t.AddTransaction(tx)
	t.Recalculate(l.now())
	return nil
}

// SetOpenQuantity changes the open quantity of a leg of the trade.
func (l *Ledger) SetOpenQuantity(t *Trade, legID, qty int) error {
	if err := l.owns(t); err != nil {
		return err
	}
	if err := t.SetOpenQuantity(legID, qty); err != nil {
		return err
	}
	t.Recalculate(l.now())
	return nil
}

// ClosePosition closes the open legs legIDs of the trade with tx.
func (l *Ledger) ClosePosition(t *Trade, tx *Transaction, legIDs ...int) error {
	return l.RollPosition(t, tx, legIDs)
}

// RollPosition closes the open legs legIDs of the trade and opens new legs,
// all within tx.
func (l *Ledger) RollPosition(t *Trade, tx *Transaction, legIDs []int, opens ...*Leg) error {
	if err := l.owns(t); err != nil {
		return err
	}
	if err := t.RollPosition(tx, legIDs, opens...); err != nil {
		return err
	}
	t.Recalculate(l.now())
	return nil
}

func (l *Ledger) owns(t *Trade) error {
	if t == nil || !slices.Contains(l.trades, t) {
		return ErrTradeNotFound
	}
	return nil
}

// The Trade methods below edit the trade in place and do not refresh its
// derived fields, call Recalculate when done.

// AddTransaction appends tx to the trade. Every leg of tx gets a fresh id and
// its back reference to tx, quantities are kept as given.
func (t *Trade) AddTransaction(tx *Transaction) {
	for _, leg := range tx.Legs {
		leg.ID = t.mintLegID()
	}
	tx.attach()
	t.Transactions = append(t.Transactions, tx)
	t.track(tx)
	for _, leg := range tx.Legs {
		t.trackLeg(leg)
	}
}

// SetOpenQuantity changes the open quantity of a leg. The new quantity must be
// zero or have the sign of the original quantity without exceeding it.
func (t *Trade) SetOpenQuantity(legID, qty int) error {
	leg, ok := t.Leg(legID)
	if !ok {
		return fmt.Errorf("%w: %d in %s", ErrLegNotFound, legID, t.TickerSymbol)
	}
	orig := leg.OriginalQuantity
	if qty != 0 && (sign(qty) != sign(orig) || abs(qty) > abs(orig)) {
		return fmt.Errorf("%w: open quantity %d for leg %d of original quantity %d", ErrInvalidQuantity, qty, legID, orig)
	}
	leg.OpenQuantity = qty
	return nil
}

// RollPosition appends tx with one closing leg for each leg in legIDs,
// followed by the opening legs. Closing legs point back to the leg they close,
// which is left with no open quantity.
//
// Nothing is changed when one of the legs is unknown or already closed.
func (t *Trade) RollPosition(tx *Transaction, legIDs []int, opens ...*Leg) error {
	closed := make([]*Leg, 0, len(legIDs))
	for _, id := range legIDs {
		leg, ok := t.Leg(id)
		if !ok {
			return fmt.Errorf("%w: %d in %s", ErrLegNotFound, id, t.TickerSymbol)
		}
		if !leg.IsOpen() || slices.Contains(closed, leg) {
			return fmt.Errorf("%w: %d in %s", ErrLegClosed, id, t.TickerSymbol)
		}
		closed = append(closed, leg)
	}

	for _, leg := range closed {
		action := SellToClose
		if leg.OpenQuantity < 0 {
			action = BuyToClose
		}
		tx.Legs = append(tx.Legs, &Leg{
			BackPointerID:    leg.ID,
			OriginalQuantity: -leg.OpenQuantity,
			Expiry:           leg.Expiry,
			Strike:           leg.Strike,
			PutCall:          leg.PutCall,
			Action:           action,
			Kind:             leg.Kind,
		})
		leg.OpenQuantity = 0
	}
	tx.Legs = append(tx.Legs, opens...)
	t.AddTransaction(tx)
	return nil
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
