package tradelog

import (
	"iter"
	"math"

	"github.com/etnz/tradelog/date"
	"github.com/shopspring/decimal"
)

// NoDTE is the EarliestDTE of a Trade without any open option leg.
const NoDTE = math.MaxInt32

// Leg is one option, share or future position line of a Transaction.
type Leg struct {
	ID               int       `yaml:"id"`
	BackPointerID    int       `yaml:"back_pointer_id,omitempty"` // ID of the Leg this one closes or rolls, 0 if none
	OriginalQuantity int       `yaml:"original_quantity"`
	OpenQuantity     int       `yaml:"open_quantity"`
	Expiry           date.Date `yaml:"expiry,omitempty"`
	Strike           string    `yaml:"strike,omitempty"`
	PutCall          PutCall   `yaml:"put_call"`
	Action           Action    `yaml:"action"`
	Kind             Kind      `yaml:"kind"`

	// DTE is the days to expiry, only maintained for open Options legs.
	DTE int `yaml:"dte,omitempty"`

	tx *Transaction
}

// IsOpen reports whether some quantity of the leg is still open.
func (l *Leg) IsOpen() bool { return l.OpenQuantity != 0 }

// Transaction returns the Transaction owning this leg, or nil for a detached leg.
//
// The link is a plain lookup aid: a Leg never keeps its Transaction alive on its own.
func (l *Leg) Transaction() *Transaction { return l.tx }

// Transaction is one dated economic event: open, close, roll, expiry, dividend or fee.
type Transaction struct {
	Kind        Kind            `yaml:"kind"`
	Description string          `yaml:"description"`
	Date        date.Date       `yaml:"date"`
	Quantity    int             `yaml:"quantity"`
	Price       decimal.Decimal `yaml:"price"`
	Multiplier  decimal.Decimal `yaml:"multiplier"`
	Fees        decimal.Decimal `yaml:"fees"`
	// Total is the signed cash effect of the transaction, fees included.
	Total decimal.Decimal `yaml:"total"`
	Legs  []*Leg          `yaml:"legs,omitempty"`
}

// attach sets the back reference of every leg.
func (tx *Transaction) attach() {
	for _, leg := range tx.Legs {
		leg.tx = tx
	}
}

// Trade is the lifecycle of a position on one ticker.
type Trade struct {
	IsOpen       bool            `yaml:"open"`
	NextLegID    int             `yaml:"next_leg_id"`
	TickerSymbol string          `yaml:"symbol"`
	TickerName   string          `yaml:"name,omitempty"`
	FutureExpiry date.Date       `yaml:"future_expiry,omitempty"`
	Category     int             `yaml:"category"`
	BuyingPower  decimal.Decimal `yaml:"buying_power"`
	Notes        string          `yaml:"notes,omitempty"`
	Transactions []*Transaction  `yaml:"transactions"`

	// Derived fields, see Recalculate.

	ACB         decimal.Decimal `yaml:"acb"`
	OpenShares  int             `yaml:"open_shares,omitempty"`
	OpenFutures int             `yaml:"open_futures,omitempty"`
	EarliestDTE int             `yaml:"earliest_dte"`
	// OpenLegs are the open legs for display, shares and futures excepted.
	OpenLegs []*Leg `yaml:"-"`
	// BPStart and BPEnd bound the return on buying power window.
	BPStart date.Date `yaml:"bp_start"`
	BPEnd   date.Date `yaml:"bp_end"`
	// LastTransactionDate is the date of the most recent transaction.
	LastTransactionDate date.Date `yaml:"-"`
}

// NewTrade returns an empty trade. Leg ids start at 1.
func NewTrade(symbol, name string, category int) *Trade {
	return &Trade{
		NextLegID:    1,
		TickerSymbol: symbol,
		TickerName:   name,
		Category:     category,
		EarliestDTE:  NoDTE,
	}
}

// Legs iterates over every leg of every transaction, in trade order.
func (t *Trade) Legs() iter.Seq[*Leg] {
	return func(yield func(*Leg) bool) {
		for _, tx := range t.Transactions {
			for _, leg := range tx.Legs {
				if !yield(leg) {
					return
				}
			}
		}
	}
}

// Leg returns the leg with this id.
func (t *Trade) Leg(id int) (*Leg, bool) {
	for leg := range t.Legs() {
		if leg.ID == id {
			return leg, true
		}
	}
	return nil, false
}

// mintLegID returns a fresh leg id. Ids are never reused.
func (t *Trade) mintLegID() int {
	if t.NextLegID < 1 {
		t.NextLegID = 1
	}
	id := t.NextLegID
	t.NextLegID++
	return id
}

// track extends the buying power window and the last transaction date with a
// transaction date.
func (t *Trade) track(tx *Transaction) {
	if tx.Date.IsZero() {
		return
	}
	t.BPStart = date.Min(t.BPStart, tx.Date)
	t.BPEnd = date.Max(t.BPEnd, tx.Date)
	t.LastTransactionDate = date.Max(t.LastTransactionDate, tx.Date)
}

// trackLeg extends the buying power window with a leg expiry.
func (t *Trade) trackLeg(leg *Leg) {
	t.BPEnd = date.Max(t.BPEnd, leg.Expiry)
}

// maxLegID returns the highest leg id of the trade, 0 if there is none.
func (t *Trade) maxLegID() int {
	m := 0
	for leg := range t.Legs() {
		m = max(m, leg.ID)
	}
	return m
}
