package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/tradelog"
	"github.com/etnz/tradelog/date"
	"github.com/shopspring/decimal"
)

// parseLeg parses a leg of kind from its command line form:
//
//	ACTION:QTY[:P|C:STRIKE[:EXPIRY]]
//
// e.g. "STO:1:P:150:2025-02-21" or "BTO:100". The sign of the quantity comes
// from the action: sells are negative, buys positive.
func parseLeg(s string, kind tradelog.Kind) (*tradelog.Leg, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 5 {
		return nil, fmt.Errorf("invalid leg %q want ACTION:QTY[:P|C:STRIKE[:EXPIRY]]", s)
	}
	action, err := tradelog.ParseAction(strings.ToUpper(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid leg %q: %w", s, err)
	}
	qty, err := strconv.Atoi(parts[1])
	if err != nil || qty == 0 {
		return nil, fmt.Errorf("invalid leg %q: quantity %q is not a non zero integer", s, parts[1])
	}
	qty = max(qty, -qty)
	if action == tradelog.SellToOpen || action == tradelog.SellToClose {
		qty = -qty
	}

	leg := &tradelog.Leg{
		OriginalQuantity: qty,
		OpenQuantity:     qty,
		PutCall:          tradelog.NotApplicable,
		Action:           action,
		Kind:             kind,
	}
	if !action.IsOpening() && kind != tradelog.Shares && kind != tradelog.Futures {
		// share and future legs net into one position, other closing legs
		// given by hand leave nothing open.
		leg.OpenQuantity = 0
	}
	if len(parts) > 2 {
		if leg.PutCall, err = tradelog.ParsePutCall(parts[2]); err != nil {
			return nil, fmt.Errorf("invalid leg %q: %w", s, err)
		}
	}
	if len(parts) > 3 {
		if _, err := decimal.NewFromString(parts[3]); err != nil {
			return nil, fmt.Errorf("invalid leg %q: strike %q is not a number", s, parts[3])
		}
		leg.Strike = parts[3]
	}
	if len(parts) > 4 {
		if leg.Expiry, err = date.Parse(parts[4]); err != nil {
			return nil, fmt.Errorf("invalid leg %q: %w", s, err)
		}
	}
	return leg, nil
}

// decimalFlag is a flag.Value for decimal amounts.
type decimalFlag struct{ value decimal.Decimal }

func (d *decimalFlag) String() string { return d.value.String() }
func (d *decimalFlag) Set(s string) error {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	d.value = v
	return nil
}

// dateFlag is a flag.Value for dates, today by default.
type dateFlag struct{ value date.Date }

func (d *dateFlag) String() string { return d.value.String() }
func (d *dateFlag) Set(s string) error {
	v, err := date.Parse(s)
	if err != nil {
		return err
	}
	d.value = v
	return nil
}

// get returns the date, or today if it was not set.
func (d *dateFlag) get() date.Date {
	if d.value.IsZero() {
		return today()
	}
	return d.value
}

// listFlag is a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string     { return strings.Join(*l, ",") }
func (l *listFlag) Set(s string) error { *l = append(*l, s); return nil }
