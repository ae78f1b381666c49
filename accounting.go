package tradelog

import (
	"cmp"
	"slices"

	"github.com/etnz/tradelog/date"
	"github.com/shopspring/decimal"
)

// The functions of this file compute the derived fields of a Trade. They are
// stateless and always recompute from the full list of transactions, so they
// stay correct after any edit. Callers editing a Trade directly must call
// Recalculate afterwards, Ledger entry points do it for them.

// Recalculate refreshes every derived field of the trade as of today.
func (t *Trade) Recalculate(today date.Date) {
	t.resetWindow()
	for leg := range t.Legs() {
		leg.DTE = 0
	}
	t.IsOpen = ResolveOpen(t)
	if t.IsOpen {
		CollectOpenLegs(t, today)
	} else {
		t.OpenLegs = nil
		t.OpenShares, t.OpenFutures = 0, 0
		t.EarliestDTE = NoDTE
		// a closed trade ends with its last transaction, whatever the expiries.
		t.BPEnd = t.LastTransactionDate
	}
	t.ACB = CostBasis(t)
}

// resetWindow recomputes the buying power window from scratch.
func (t *Trade) resetWindow() {
	t.BPStart, t.BPEnd, t.LastTransactionDate = date.Date{}, date.Date{}, date.Date{}
	for _, tx := range t.Transactions {
		t.track(tx)
		for _, leg := range tx.Legs {
			t.trackLeg(leg)
		}
	}
}

// CostBasis returns the adjusted cost basis of the trade: the sum of the
// totals of all its transactions.
func CostBasis(t *Trade) decimal.Decimal {
	acb := decimal.Zero
	for _, tx := range t.Transactions {
		acb = acb.Add(tx.Total)
	}
	return acb
}

// ResolveOpen reports whether the trade still holds a position.
//
// Any open option leg makes the trade open. Otherwise share and future legs
// form a single position, possibly spread over several transactions, and the
// trade is open as long as their summed open quantity is not zero.
func ResolveOpen(t *Trade) bool {
	aggregate := 0
	for leg := range t.Legs() {
		switch leg.Kind {
		case Options:
			if leg.IsOpen() {
				return true
			}
		case Shares, Futures:
			aggregate += leg.OpenQuantity
		}
	}
	return aggregate != 0
}

// CollectOpenLegs rebuilds the open legs view of the trade.
//
// Open share and future legs are summed into OpenShares and OpenFutures and
// are not listed. Open option legs get their DTE, the smallest one becomes the
// trade EarliestDTE. The view lists puts before calls, each by ascending
// strike, legs comparing equal keep their trade order.
func CollectOpenLegs(t *Trade, today date.Date) {
	t.OpenLegs = nil
	t.OpenShares, t.OpenFutures = 0, 0
	t.EarliestDTE = NoDTE

	for leg := range t.Legs() {
		if !leg.IsOpen() {
			continue
		}
		switch leg.Kind {
		case Shares:
			t.OpenShares += leg.OpenQuantity
			continue
		case Futures:
			t.OpenFutures += leg.OpenQuantity
			continue
		case Options:
			leg.DTE = DaysToExpiry(leg, today)
			t.EarliestDTE = min(t.EarliestDTE, leg.DTE)
		}
		t.OpenLegs = append(t.OpenLegs, leg)
	}
	SortOpenLegs(t.OpenLegs)
}

// SortOpenLegs sorts legs for display: puts, then calls, then anything else,
// each group by ascending strike. The sort is stable.
func SortOpenLegs(legs []*Leg) {
	strikes := make(map[*Leg]decimal.Decimal, len(legs))
	for _, leg := range legs {
		strikes[leg] = parseStrike(leg.Strike)
	}
	slices.SortStableFunc(legs, func(a, b *Leg) int {
		if c := cmp.Compare(a.PutCall, b.PutCall); c != 0 {
			return c
		}
		return strikes[a].Cmp(strikes[b])
	})
}

// parseStrike reads a strike for comparison, unparsable strikes compare as zero.
func parseStrike(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// DaysToExpiry returns the calendar days from today to the leg expiry. A leg
// without expiry never expires and returns NoDTE.
func DaysToExpiry(leg *Leg, today date.Date) int {
	if leg.Expiry.IsZero() {
		return NoDTE
	}
	return today.DaysUntil(leg.Expiry)
}

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(365)
)

// ReturnOnBuyingPower returns the trade ACB as a percentage of its buying
// power, and that percentage annualized over the buying power window.
// Both are zero when the trade has no buying power.
func ReturnOnBuyingPower(t *Trade) (total, annualized decimal.Decimal) {
	if t.BuyingPower.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	total = t.ACB.Div(t.BuyingPower).Mul(hundred)
	days := 1
	if !t.BPStart.IsZero() && !t.BPEnd.IsZero() {
		days = max(t.BPStart.DaysUntil(t.BPEnd), 1)
	}
	annualized = total.Div(decimal.NewFromInt(int64(days))).Mul(daysPerYear)
	return total.Round(2), annualized.Round(2)
}
