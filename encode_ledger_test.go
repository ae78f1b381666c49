package tradelog

import (
	"bytes"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/etnz/tradelog/date"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeString(t *testing.T, s string) *Ledger {
	t.Helper()
	l, err := decodeLedger(strings.NewReader(s), zerolog.Nop(), testClock)
	require.NoError(t, err)
	return l
}

func TestDecodeLedger(t *testing.T) {
	l := decodeString(t, sampleLedger)
	require.Equal(t, 2, l.Len())

	aapl, msft := l.trades[0], l.trades[1]
	assert.Equal(t, "AAPL", aapl.TickerSymbol)
	assert.Equal(t, "wheel\nsecond line", aapl.Notes)
	require.Len(t, aapl.Transactions, 2)
	assert.Len(t, aapl.Transactions[0].Legs, 1)
	assert.Len(t, aapl.Transactions[1].Legs, 2)
	for leg := range aapl.Legs() {
		assert.NotNil(t, leg.Transaction())
	}
	assert.Same(t, aapl.Transactions[1], aapl.Transactions[1].Legs[1].Transaction())

	assert.True(t, aapl.IsOpen)
	assert.Equal(t, "203.7", aapl.ACB.String())
	assert.Equal(t, 37, aapl.EarliestDTE)
	assert.Equal(t, "2025-01-02", aapl.BPStart.String())
	assert.Equal(t, "2025-02-21", aapl.BPEnd.String())

	assert.False(t, msft.IsOpen)
	assert.Equal(t, "1000", msft.ACB.String())
	assert.Empty(t, msft.OpenLegs)
	assert.Equal(t, "2024-01-05", msft.BPStart.String())
	assert.Equal(t, "2024-03-01", msft.BPEnd.String())
}

func TestDecodeLedger_Empty(t *testing.T) {
	l := decodeString(t, "")
	assert.Equal(t, 0, l.Len())

	l = decodeString(t, "\n# only comments\n\n")
	assert.Equal(t, 0, l.Len())
}

func TestDecodeLedger_Orphans(t *testing.T) {
	input := strings.Join([]string{
		"X|20250101|orphan transaction|0|1|0|0|0|10",
		"L|1|0|1|1|||||1",
		"T|0|1|AAPL|||0|0|",
		"L|1|0|1|1|||||1", // no transaction yet
		"X|20250102|kept|1|1|0|0|0|-5",
		"Z|garbage",
		"L|1|0|10|10||||1|1",
		"T|0|1|MSFT|||0|0|",
		"L|9|0|1|1||||1|1", // cursor was reset by the trade line
	}, "\n")
	l := decodeString(t, input)
	require.Equal(t, 2, l.Len())

	aapl := l.trades[0]
	require.Len(t, aapl.Transactions, 1)
	assert.Equal(t, "kept", aapl.Transactions[0].Description)
	require.Len(t, aapl.Transactions[0].Legs, 1)
	assert.Equal(t, "-5", aapl.ACB.String())
	assert.True(t, aapl.IsOpen)
	assert.Equal(t, 10, aapl.OpenShares)
	// next leg id was behind the leg ids found in the file.
	assert.Equal(t, 2, aapl.NextLegID)

	assert.Empty(t, l.trades[1].Transactions)
}

func TestEncodeLedger(t *testing.T) {
	l := decodeString(t, sampleLedger)

	var buffer bytes.Buffer
	require.NoError(t, EncodeLedger(&buffer, l))
	assert.Equal(t, sampleLedger, buffer.String())
}

func TestEncodeLedger_DerivedOpenFlag(t *testing.T) {
	// the stored flag is wrong, the saved one is the resolved one.
	input := "T|1|2|MSFT|||0|0|\nX|20250102|Buy|1|10|1|1|0|-10\nL|1|0|10|0||||1|1\n"
	l := decodeString(t, input)
	var buffer bytes.Buffer
	require.NoError(t, EncodeLedger(&buffer, l))
	assert.Contains(t, buffer.String(), "T|0|2|MSFT|||0|0|\n")
}

// randomLedger builds a ledger through the mutation entry points.
func randomLedger(r *rand.Rand, notes []string) *Ledger {
	l := NewLedger()
	l.today = testClock
	day := func() date.Date { return date.New(2020, 1, 1).Add(r.Intn(4000)) }
	amount := func() decimal.Decimal { return decimal.New(r.Int63n(2_000_000_000)-1_000_000_000, -4) }

	for i := range r.Intn(5) {
		t := l.NewTrade("T"+strconv.Itoa(i), notes[r.Intn(len(notes))], r.Intn(10))
		t.BuyingPower = decimal.NewFromInt(r.Int63n(100_000))
		t.Notes = strings.Join(notes[:r.Intn(len(notes)+1)], "\n")
		if r.Intn(2) == 0 {
			t.FutureExpiry = day()
		}
		for range r.Intn(4) {
			tx := &Transaction{
				Kind:        Kind(r.Intn(5)),
				Description: notes[r.Intn(len(notes))],
				Date:        day(),
				Quantity:    r.Intn(20),
				Price:       amount(),
				Multiplier:  amount(),
				Fees:        amount(),
				Total:       amount(),
			}
			for range r.Intn(4) {
				orig := r.Intn(200) - 100
				leg := &Leg{
					OriginalQuantity: orig,
					OpenQuantity:     orig * r.Intn(2),
					Strike:           strconv.Itoa(r.Intn(500)),
					PutCall:          PutCall(r.Intn(3)),
					Action:           Action(r.Intn(4)),
					Kind:             Kind(r.Intn(5)),
				}
				if r.Intn(3) > 0 {
					leg.Expiry = day()
				}
				tx.Legs = append(tx.Legs, leg)
			}
			if err := l.AddTransaction(t, tx); err != nil {
				panic(err)
			}
		}
	}
	return l
}

func TestProperty_LedgerRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("decode(encode(ledger)) equals ledger", prop.ForAll(
		func(seed int64, a, b string) bool {
			want := randomLedger(rand.New(rand.NewSource(seed)), []string{a, b, a + " " + b})

			var buffer bytes.Buffer
			if err := EncodeLedger(&buffer, want); err != nil {
				t.Logf("encode: %v", err)
				return false
			}
			got, err := decodeLedger(strings.NewReader(buffer.String()), zerolog.Nop(), testClock)
			if err != nil {
				t.Logf("decode: %v", err)
				return false
			}
			if d := diffLedgers(want, got); d != "" {
				t.Logf("seed %d: %s", seed, d)
				return false
			}
			return true
		},
		gen.Int64(),
		freeText(),
		freeText(),
	))

	properties.TestingRun(t)
}

// freeText generates text with separators, escapes and line breaks.
func freeText() gopter.Gen {
	return gen.RegexMatch(`[a-zA-Z0-9 |\\\n]{0,12}`)
}

func TestEncodeLedger_FreeTextKeepsAmounts(t *testing.T) {
	l := NewLedger()
	l.today = testClock
	trade := l.NewTrade("AAPL", "Apple|Inc.\nNASDAQ", 0)
	require.NoError(t, l.AddTransaction(trade, &Transaction{
		Kind:        Options,
		Description: "roll|adjust",
		Date:        date.New(2025, 1, 2),
		Quantity:    1,
		Fees:        decimal.RequireFromString("0.65"),
		Total:       decimal.RequireFromString("124.35"),
		Legs:        []*Leg{{OriginalQuantity: -1, OpenQuantity: -1, Strike: "150|x", PutCall: Put, Kind: Options}},
	}))

	var buffer bytes.Buffer
	require.NoError(t, EncodeLedger(&buffer, l))
	assert.Equal(t, 4, strings.Count(buffer.String(), "\n"), "one line per record")

	got := decodeString(t, buffer.String())
	assert.Empty(t, diffLedgers(l, got))
	assert.Equal(t, "124.35", got.trades[0].ACB.String())
	assert.Equal(t, "roll|adjust", got.trades[0].Transactions[0].Description)
}

func TestDecodeLedger_LongLine(t *testing.T) {
	l := NewLedger()
	l.today = testClock
	trade := l.NewTrade("AAPL", "", 0)
	trade.Notes = strings.Repeat("0123456789abcdef", 1<<17)
	l.NewTrade("MSFT", "", 0)

	var buffer bytes.Buffer
	require.NoError(t, EncodeLedger(&buffer, l))
	got := decodeString(t, buffer.String())
	require.Equal(t, 2, got.Len())
	assert.Equal(t, trade.Notes, got.trades[0].Notes)
	assert.Equal(t, "MSFT", got.trades[1].TickerSymbol)
}

func TestDecodeLedger_NoFinalNewline(t *testing.T) {
	l := decodeString(t, strings.TrimSuffix(sampleLedger, "\n"))
	assert.Empty(t, diffLedgers(decodeString(t, sampleLedger), l))
}
