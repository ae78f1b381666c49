package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/tradelog"
	"github.com/shopspring/decimal"
)

// Options holds rendering configuration.
type Options struct {
	Currency         string // ISO code of the amounts, DefaultCurrency if empty.
	SkipTransactions bool   // Do not render the transactions of a trade.
}

// TradeList is the data of the trade list view.
type TradeList struct {
	Title    string
	Rows     []TradeRow
	Open     int
	Closed   int
	TotalACB string
}

// TradeRow is one trade in the list.
type TradeRow struct {
	Index    int
	Symbol   string
	Status   string
	Position string
	DTE      string
	ACB      string
	Return   string
}

// TradeView is the data of the trade detail view.
type TradeView struct {
	Symbol       string
	Name         string
	Status       string
	Category     int
	ACB          string
	BuyingPower  string
	Return       string
	Window       string
	FutureExpiry string
	OpenShares   int
	OpenFutures  int
	Notes        []string
	OpenLegs     []LegRow
	Transactions []TransactionRow
}

// TransactionRow is one transaction of a trade.
type TransactionRow struct {
	Date        string
	Description string
	Kind        string
	Total       string
	Fees        string
	Legs        []LegRow
}

// LegRow is one leg of a transaction or of the open legs view.
type LegRow struct {
	ID          int
	BackPointer string
	Action      string
	Quantity    string
	Kind        string
	PutCall     string
	Strike      string
	Expiry      string
	DTE         string
}

// NewTradeList builds the list view of trades. Rows are numbered from 1 in
// the given order, onlyOpen filters out closed trades but keeps numbering.
func NewTradeList(trades []*tradelog.Trade, onlyOpen bool, opts Options) *TradeList {
	l := &TradeList{Title: "Trades"}
	total := decimal.Zero
	for i, t := range trades {
		if t.IsOpen {
			l.Open++
		} else {
			l.Closed++
		}
		if onlyOpen && !t.IsOpen {
			continue
		}
		total = total.Add(t.ACB)
		l.Rows = append(l.Rows, TradeRow{
			Index:    i + 1,
			Symbol:   cell(t.TickerSymbol),
			Status:   status(t),
			Position: cell(position(t)),
			DTE:      dte(t.EarliestDTE),
			ACB:      formatMoney(t.ACB, opts.Currency),
			Return:   returnOnBuyingPower(t),
		})
	}
	if onlyOpen {
		l.Title = "Open trades"
	}
	l.TotalACB = formatMoney(total, opts.Currency)
	return l
}

// NewTradeView builds the detail view of a trade.
func NewTradeView(t *tradelog.Trade, opts Options) *TradeView {
	v := &TradeView{
		Symbol:       t.TickerSymbol,
		Name:         t.TickerName,
		Status:       status(t),
		Category:     t.Category,
		ACB:          formatMoney(t.ACB, opts.Currency),
		BuyingPower:  formatMoney(t.BuyingPower, opts.Currency),
		Return:       returnOnBuyingPower(t),
		Window:       window(t),
		FutureExpiry: t.FutureExpiry.String(),
		OpenShares:   t.OpenShares,
		OpenFutures:  t.OpenFutures,
	}
	if t.Notes != "" {
		v.Notes = strings.Split(t.Notes, "\n")
	}
	for _, leg := range t.OpenLegs {
		row := newLegRow(leg)
		row.Quantity = strconv.Itoa(leg.OpenQuantity)
		v.OpenLegs = append(v.OpenLegs, row)
	}
	for _, tx := range t.Transactions {
		row := TransactionRow{
			Date:        tx.Date.String(),
			Description: cell(tx.Description),
			Kind:        tx.Kind.String(),
			Total:       formatMoney(tx.Total, opts.Currency),
		}
		if !tx.Fees.IsZero() {
			row.Fees = formatMoney(tx.Fees, opts.Currency)
		}
		for _, leg := range tx.Legs {
			row.Legs = append(row.Legs, newLegRow(leg))
		}
		v.Transactions = append(v.Transactions, row)
	}
	return v
}

func newLegRow(leg *tradelog.Leg) LegRow {
	row := LegRow{
		ID:       leg.ID,
		Action:   leg.Action.String(),
		Quantity: fmt.Sprintf("%d/%d", leg.OpenQuantity, leg.OriginalQuantity),
		Kind:     leg.Kind.String(),
		PutCall:  leg.PutCall.String(),
		Strike:   cell(leg.Strike),
		Expiry:   leg.Expiry.String(),
		DTE:      dte(leg.DTE),
	}
	if leg.BackPointerID != 0 {
		row.BackPointer = strconv.Itoa(leg.BackPointerID)
	}
	if leg.Kind != tradelog.Options {
		row.DTE = ""
	}
	return row
}

func status(t *tradelog.Trade) string {
	if t.IsOpen {
		return "open"
	}
	return "closed"
}

// position summarizes the open position, e.g. "-1 P145 2025-02-21, +100 sh".
func position(t *tradelog.Trade) string {
	var parts []string
	for _, leg := range t.OpenLegs {
		switch leg.Kind {
		case tradelog.Options:
			parts = append(parts, fmt.Sprintf("%+d %s%s %s", leg.OpenQuantity, leg.PutCall, leg.Strike, leg.Expiry))
		default:
			parts = append(parts, fmt.Sprintf("%+d %s", leg.OpenQuantity, leg.Kind))
		}
	}
	if t.OpenShares != 0 {
		parts = append(parts, fmt.Sprintf("%+d sh", t.OpenShares))
	}
	if t.OpenFutures != 0 {
		parts = append(parts, fmt.Sprintf("%+d fut", t.OpenFutures))
	}
	return strings.Join(parts, ", ")
}

func dte(days int) string {
	if days == tradelog.NoDTE {
		return "-"
	}
	return strconv.Itoa(days)
}

func returnOnBuyingPower(t *tradelog.Trade) string {
	if t.BuyingPower.IsZero() {
		return "-"
	}
	total, annualized := tradelog.ReturnOnBuyingPower(t)
	return fmt.Sprintf("%s%% (%s%%/y)", total.StringFixed(2), annualized.StringFixed(2))
}

func window(t *tradelog.Trade) string {
	if t.BPStart.IsZero() {
		return "-"
	}
	return t.BPStart.String() + " to " + t.BPEnd.String()
}

// cell escapes text for a markdown table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
