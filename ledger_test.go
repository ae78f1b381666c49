package tradelog

import (
	"testing"

	"github.com/etnz/tradelog/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger() *Ledger {
	l := NewLedger()
	l.today = testClock
	return l
}

func shortPut(day date.Date, strike string, total string) *Transaction {
	return &Transaction{
		Kind:        Options,
		Description: "Short put",
		Date:        day,
		Quantity:    1,
		Multiplier:  decimal.NewFromInt(100),
		Total:       decimal.RequireFromString(total),
		Legs: []*Leg{{
			OriginalQuantity: -1,
			OpenQuantity:     -1,
			Expiry:           date.New(2025, 2, 21),
			Strike:           strike,
			PutCall:          Put,
			Action:           SellToOpen,
			Kind:             Options,
		}},
	}
}

func TestLedger_AddTransaction(t *testing.T) {
	l := newTestLedger()
	trade := l.NewTrade("AAPL", "Apple Inc.", 1)
	assert.Equal(t, 1, trade.NextLegID)
	assert.False(t, trade.IsOpen)

	require.NoError(t, l.AddTransaction(trade, shortPut(date.New(2025, 1, 2), "150", "124.35")))
	require.NoError(t, l.AddTransaction(trade, shortPut(date.New(2025, 1, 3), "145", "99.35")))

	assert.True(t, trade.IsOpen)
	assert.Equal(t, "223.7", trade.ACB.String())
	assert.Equal(t, 3, trade.NextLegID)
	require.Len(t, trade.OpenLegs, 2)
	assert.Equal(t, "145", trade.OpenLegs[0].Strike)
	assert.Equal(t, 2, trade.OpenLegs[0].ID)
	assert.Same(t, trade.Transactions[1], trade.OpenLegs[0].Transaction())
	assert.Equal(t, 37, trade.EarliestDTE)

	err := l.AddTransaction(NewTrade("MSFT", "", 0), &Transaction{})
	assert.ErrorIs(t, err, ErrTradeNotFound)
}

func TestLedger_SetOpenQuantity(t *testing.T) {
	l := newTestLedger()
	trade := l.NewTrade("AAPL", "", 0)
	require.NoError(t, l.AddTransaction(trade, &Transaction{
		Kind: Shares,
		Date: date.New(2025, 1, 2),
		Legs: []*Leg{{OriginalQuantity: 100, OpenQuantity: 100, Action: BuyToOpen, Kind: Shares}},
	}))
	assert.Equal(t, 100, trade.OpenShares)

	require.NoError(t, l.SetOpenQuantity(trade, 1, 40))
	assert.Equal(t, 40, trade.OpenShares)
	assert.True(t, trade.IsOpen)

	assert.ErrorIs(t, l.SetOpenQuantity(trade, 1, -10), ErrInvalidQuantity)
	assert.ErrorIs(t, l.SetOpenQuantity(trade, 1, 101), ErrInvalidQuantity)
	assert.ErrorIs(t, l.SetOpenQuantity(trade, 2, 0), ErrLegNotFound)
	assert.Equal(t, 40, trade.OpenShares)

	require.NoError(t, l.SetOpenQuantity(trade, 1, 0))
	assert.False(t, trade.IsOpen)
	assert.Equal(t, "2025-01-02", trade.BPEnd.String())
}

func TestLedger_ClosePosition(t *testing.T) {
	l := newTestLedger()
	trade := l.NewTrade("AAPL", "", 0)
	require.NoError(t, l.AddTransaction(trade, shortPut(date.New(2025, 1, 2), "150", "124.35")))
	require.NoError(t, l.AddTransaction(trade, shortPut(date.New(2025, 1, 3), "145", "99.35")))

	closing := &Transaction{Kind: Options, Description: "Close", Date: date.New(2025, 1, 14), Total: decimal.RequireFromString("-20.65")}
	require.NoError(t, l.ClosePosition(trade, closing, 1))

	require.Len(t, closing.Legs, 1)
	closeLeg := closing.Legs[0]
	assert.Equal(t, 3, closeLeg.ID)
	assert.Equal(t, 1, closeLeg.BackPointerID)
	assert.Equal(t, 1, closeLeg.OriginalQuantity)
	assert.Equal(t, 0, closeLeg.OpenQuantity)
	assert.Equal(t, BuyToClose, closeLeg.Action)
	assert.Equal(t, "150", closeLeg.Strike)
	assert.Same(t, closing, closeLeg.Transaction())

	assert.True(t, trade.IsOpen)
	require.Len(t, trade.OpenLegs, 1)
	assert.Equal(t, 2, trade.OpenLegs[0].ID)
	assert.Equal(t, "203.05", trade.ACB.String())

	assert.ErrorIs(t, l.ClosePosition(trade, &Transaction{}, 1), ErrLegClosed)
	assert.ErrorIs(t, l.ClosePosition(trade, &Transaction{}, 42), ErrLegNotFound)
	assert.ErrorIs(t, l.ClosePosition(trade, &Transaction{}, 2, 2), ErrLegClosed)
	assert.Len(t, trade.Transactions, 3, "failed closes leave the trade untouched")

	require.NoError(t, l.ClosePosition(trade, &Transaction{Date: date.New(2025, 1, 15)}, 2))
	assert.False(t, trade.IsOpen)
	assert.Equal(t, "2025-01-15", trade.BPEnd.String())
}

func TestLedger_RollPosition(t *testing.T) {
	l := newTestLedger()
	trade := l.NewTrade("AAPL", "", 0)
	require.NoError(t, l.AddTransaction(trade, shortPut(date.New(2025, 1, 2), "150", "124.35")))

	roll := shortPut(date.New(2025, 1, 14), "140", "30")
	opening := roll.Legs[0]
	roll.Legs = nil
	require.NoError(t, l.RollPosition(trade, roll, []int{1}, opening))

	require.Len(t, roll.Legs, 2)
	assert.Equal(t, 1, roll.Legs[0].BackPointerID)
	assert.Equal(t, opening, roll.Legs[1])
	assert.Equal(t, 3, opening.ID)
	require.Len(t, trade.OpenLegs, 1)
	assert.Equal(t, "140", trade.OpenLegs[0].Strike)
	assert.Equal(t, "154.35", trade.ACB.String())
}

func TestLedger_NextLegIDNeverReused(t *testing.T) {
	l := newTestLedger()
	trade := l.NewTrade("AAPL", "", 0)
	seen := map[int]bool{}
	last := trade.NextLegID
	for i := range 5 {
		tx := shortPut(date.New(2025, 1, 2+i), "100", "1")
		require.NoError(t, l.AddTransaction(trade, tx))
		require.NoError(t, l.ClosePosition(trade, &Transaction{Date: date.New(2025, 1, 2+i)}, tx.Legs[0].ID))
		assert.Greater(t, trade.NextLegID, last)
		last = trade.NextLegID
	}
	for leg := range trade.Legs() {
		assert.False(t, seen[leg.ID], "leg id %d minted twice", leg.ID)
		seen[leg.ID] = true
		assert.Less(t, leg.ID, trade.NextLegID)
	}
	assert.Len(t, seen, 10)
}

func TestLedger_Find(t *testing.T) {
	l := newTestLedger()
	closed := l.NewTrade("AAPL", "", 0)
	open := l.NewTrade("AAPL", "", 0)
	l.NewTrade("MSFT", "", 0)
	require.NoError(t, l.AddTransaction(open, shortPut(date.New(2025, 1, 2), "150", "1")))

	assert.Equal(t, []*Trade{closed, open}, l.Find("AAPL"))
	got, ok := l.FindOpen("AAPL")
	assert.True(t, ok)
	assert.Same(t, open, got)
	_, ok = l.FindOpen("MSFT")
	assert.False(t, ok)

	trades := l.Trades()
	trades[0] = nil
	assert.NotNil(t, l.Trades()[0], "Trades returns a copy")
}

func TestLedger_ZeroValue(t *testing.T) {
	var l Ledger
	trade := l.NewTrade("AAPL", "", 0)
	require.NoError(t, l.AddTransaction(trade, shortPut(date.Today(), "150", "124.35")))
	assert.True(t, trade.IsOpen)
	assert.Equal(t, "124.35", trade.ACB.String())

	require.NoError(t, l.SetOpenQuantity(trade, 1, 0))
	assert.False(t, trade.IsOpen)
	require.NoError(t, l.RollPosition(trade, &Transaction{Date: date.Today()}, nil, &Leg{OriginalQuantity: 100, OpenQuantity: 100, Kind: Shares}))
	l.Recalculate()
	assert.Equal(t, 100, trade.OpenShares)
	assert.True(t, trade.IsOpen)
}
