package tradelog

import (
	"fmt"
	"strings"

	"github.com/etnz/tradelog/date"
)

// testToday is the fixed current date of the tests.
var testToday = date.New(2025, 1, 15)

func testClock() date.Date { return testToday }

// sampleLedger is a canonical ledger file: an open option trade and a closed
// shares trade.
var sampleLedger = strings.Join([]string{
	header,
	`T|1|4|AAPL|Apple Inc.||2|5000|wheel\nsecond line`,
	"X|20250102|Short put|0|1|1.2500|100.0000|0.6500|124.3500",
	"L|1|0|-1|-1|20250221|150|P|0|0",
	"X|20250110|Strangle|0|1|0.8000|100.0000|0.6500|79.3500",
	"L|2|0|-1|-1|20250221|170|C|0|0",
	"L|3|0|-1|-1|20250221|145|P|0|0",
	"T|0|3|MSFT|Microsoft||1|0|",
	"X|20240105|Buy shares|1|100|400.0000|1.0000|0.0000|-40000.0000",
	"L|1|0|100|0||||1|1",
	"X|20240301|Sell shares|1|100|410.0000|1.0000|0.0000|41000.0000",
	"L|2|1|-100|0||||2|1",
}, "\n") + "\n"

// diffLedgers returns a description of the first difference between the
// persisted fields of two ledgers, or "" if they are equal.
func diffLedgers(a, b *Ledger) string {
	if a.Len() != b.Len() {
		return fmt.Sprintf("trade count %d != %d", a.Len(), b.Len())
	}
	for i, ta := range a.trades {
		tb := b.trades[i]
		if d := diffTrades(ta, tb); d != "" {
			return fmt.Sprintf("trade %d: %s", i, d)
		}
	}
	return ""
}

func diffTrades(a, b *Trade) string {
	switch {
	case a.IsOpen != b.IsOpen:
		return fmt.Sprintf("open %v != %v", a.IsOpen, b.IsOpen)
	case a.NextLegID != b.NextLegID:
		return fmt.Sprintf("next leg id %d != %d", a.NextLegID, b.NextLegID)
	case a.TickerSymbol != b.TickerSymbol || a.TickerName != b.TickerName:
		return fmt.Sprintf("ticker %s/%s != %s/%s", a.TickerSymbol, a.TickerName, b.TickerSymbol, b.TickerName)
	case a.FutureExpiry != b.FutureExpiry:
		return fmt.Sprintf("future expiry %v != %v", a.FutureExpiry, b.FutureExpiry)
	case a.Category != b.Category:
		return fmt.Sprintf("category %d != %d", a.Category, b.Category)
	case !a.BuyingPower.Equal(b.BuyingPower):
		return fmt.Sprintf("buying power %v != %v", a.BuyingPower, b.BuyingPower)
	case a.Notes != b.Notes:
		return fmt.Sprintf("notes %q != %q", a.Notes, b.Notes)
	case !a.ACB.Equal(b.ACB):
		return fmt.Sprintf("acb %v != %v", a.ACB, b.ACB)
	case len(a.Transactions) != len(b.Transactions):
		return fmt.Sprintf("transaction count %d != %d", len(a.Transactions), len(b.Transactions))
	}
	for i, xa := range a.Transactions {
		if d := diffTransactions(xa, b.Transactions[i]); d != "" {
			return fmt.Sprintf("transaction %d: %s", i, d)
		}
	}
	return ""
}

func diffTransactions(a, b *Transaction) string {
	switch {
	case a.Kind != b.Kind:
		return fmt.Sprintf("kind %v != %v", a.Kind, b.Kind)
	case a.Description != b.Description:
		return fmt.Sprintf("description %q != %q", a.Description, b.Description)
	case a.Date != b.Date:
		return fmt.Sprintf("date %v != %v", a.Date, b.Date)
	case a.Quantity != b.Quantity:
		return fmt.Sprintf("quantity %d != %d", a.Quantity, b.Quantity)
	case !a.Price.Equal(b.Price), !a.Multiplier.Equal(b.Multiplier), !a.Fees.Equal(b.Fees), !a.Total.Equal(b.Total):
		return fmt.Sprintf("amounts %v/%v/%v/%v != %v/%v/%v/%v", a.Price, a.Multiplier, a.Fees, a.Total, b.Price, b.Multiplier, b.Fees, b.Total)
	case len(a.Legs) != len(b.Legs):
		return fmt.Sprintf("leg count %d != %d", len(a.Legs), len(b.Legs))
	}
	for i, la := range a.Legs {
		lb := b.Legs[i]
		// the back reference is not persisted, compare the rest.
		ca, cb := *la, *lb
		ca.tx, cb.tx = nil, nil
		if ca != cb {
			return fmt.Sprintf("leg %d: %+v != %+v", i, ca, cb)
		}
		if la.Transaction() != a || lb.Transaction() != b {
			return fmt.Sprintf("leg %d: wrong back reference", i)
		}
	}
	return ""
}
