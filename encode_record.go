package tradelog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/tradelog/date"
	"github.com/shopspring/decimal"
)

// Record tags, the first field of every ledger line.
const (
	TagTrade       = "T"
	TagTransaction = "X"
	TagLeg         = "L"
)

const (
	fieldSeparator = "|"
	commentMarker  = "#"
	// Free text fields escape backslashes, separators and line breaks with a
	// backslash. Line breaks are always read back as \n.
	escapeChar = '\\'
	lineBreak  = `\n`
)

// amounts are written with a fixed number of decimals, whatever the locale.
const (
	amountPlaces      = 4
	buyingPowerPlaces = 0
)

// Record is one line of a ledger file: a *Trade, a *Transaction or a *Leg.
type Record interface {
	Tag() string
}

func (*Trade) Tag() string       { return TagTrade }
func (*Transaction) Tag() string { return TagTransaction }
func (*Leg) Tag() string         { return TagLeg }

// EncodeRecord returns the ledger line of a record, without line terminator.
//
// Only the record's own fields are encoded: a Trade line does not contain its
// transactions, and a Transaction line does not contain its legs.
func EncodeRecord(r Record) string {
	var f []string
	switch v := r.(type) {
	case *Trade:
		f = []string{
			TagTrade,
			flag(v.IsOpen),
			strconv.Itoa(v.NextLegID),
			escapeText(v.TickerSymbol),
			escapeText(v.TickerName),
			v.FutureExpiry.Compact(),
			strconv.Itoa(v.Category),
			v.BuyingPower.StringFixed(buyingPowerPlaces),
			escapeText(v.Notes),
		}
	case *Transaction:
		f = []string{
			TagTransaction,
			v.Date.Compact(),
			escapeText(v.Description),
			strconv.Itoa(int(v.Kind)),
			strconv.Itoa(v.Quantity),
			v.Price.StringFixed(amountPlaces),
			v.Multiplier.StringFixed(amountPlaces),
			v.Fees.StringFixed(amountPlaces),
			v.Total.StringFixed(amountPlaces),
		}
	case *Leg:
		f = []string{
			TagLeg,
			strconv.Itoa(v.ID),
			strconv.Itoa(v.BackPointerID),
			strconv.Itoa(v.OriginalQuantity),
			strconv.Itoa(v.OpenQuantity),
			v.Expiry.Compact(),
			escapeText(v.Strike),
			v.PutCall.String(),
			strconv.Itoa(int(v.Action)),
			strconv.Itoa(int(v.Kind)),
		}
	default:
		panic(fmt.Sprintf("unsupported record type %T", r))
	}
	return strings.Join(f, fieldSeparator)
}

// DecodeRecord parses a ledger line.
//
// Decoding is lenient: a missing or unparsable field takes its zero value and
// an unknown enum code takes the first variant, the rest of the line is kept.
// Only a line with an unknown tag is rejected with ErrMalformedRecord.
func DecodeRecord(line string) (Record, error) {
	f := splitFields(strings.TrimRight(line, "\r\n"))
	switch f.str(0) {
	case TagTrade:
		t := NewTrade(unescapeText(f.str(3)), unescapeText(f.str(4)), f.int(6))
		t.IsOpen = f.str(1) == "1"
		t.NextLegID = f.int(2)
		t.FutureExpiry = f.date(5)
		t.BuyingPower = f.decimal(7)
		t.Notes = unescapeText(f.str(8))
		return t, nil
	case TagTransaction:
		return &Transaction{
			Date:        f.date(1),
			Description: unescapeText(f.str(2)),
			Kind:        kindFromCode(f.int(3)),
			Quantity:    f.int(4),
			Price:       f.decimal(5),
			Multiplier:  f.decimal(6),
			Fees:        f.decimal(7),
			Total:       f.decimal(8),
		}, nil
	case TagLeg:
		return &Leg{
			ID:               f.int(1),
			BackPointerID:    f.int(2),
			OriginalQuantity: f.int(3),
			OpenQuantity:     f.int(4),
			Expiry:           f.date(5),
			Strike:           unescapeText(f.str(6)),
			PutCall:          putCallFromCode(f.str(7)),
			Action:           actionFromCode(f.int(8)),
			Kind:             kindFromCode(f.int(9)),
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown tag %q", ErrMalformedRecord, f.str(0))
}

// skipLine reports whether a ledger line carries no record.
func skipLine(line string) bool {
	s := strings.TrimSpace(line)
	return s == "" || strings.HasPrefix(s, commentMarker)
}

// fields is a tokenized ledger line, index 0 is the tag.
type fields []string

// splitFields splits a ledger line on its unescaped separators. Escape
// sequences are left in the fields.
func splitFields(line string) fields {
	var (
		f     fields
		start int
	)
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case escapeChar:
			i++
		case fieldSeparator[0]:
			f = append(f, line[start:i])
			start = i + 1
		}
	}
	return append(f, line[start:])
}

func (f fields) str(i int) string {
	if i < len(f) {
		return f[i]
	}
	return ""
}

func (f fields) int(i int) int {
	n, err := strconv.Atoi(strings.TrimSpace(f.str(i)))
	if err != nil {
		return 0
	}
	return n
}

func (f fields) decimal(i int) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(f.str(i)))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (f fields) date(i int) date.Date {
	d, err := date.ParseCompact(strings.TrimSpace(f.str(i)))
	if err != nil {
		return date.Date{}
	}
	return d
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

var (
	textEscaper = strings.NewReplacer(
		`\`, `\\`,
		fieldSeparator, `\`+fieldSeparator,
		"\r\n", lineBreak, "\n", lineBreak, "\r", lineBreak,
	)
	textUnescaper = strings.NewReplacer(
		`\\`, `\`,
		`\`+fieldSeparator, fieldSeparator,
		lineBreak, "\n",
	)
)

func escapeText(s string) string   { return textEscaper.Replace(s) }
func unescapeText(s string) string { return textUnescaper.Replace(s) }
