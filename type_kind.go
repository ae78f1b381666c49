package tradelog

import "fmt"

// Kind is the instrument kind of a Transaction or a Leg.
type Kind int

// The numeric value of each Kind is its code in the ledger file.
const (
	Options Kind = iota
	Shares
	Futures
	Dividend
	Other
)

var kindNames = [...]string{"options", "shares", "futures", "dividend", "other"}

func (k Kind) String() string {
	if k < Options || k > Other {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ParseKind parses a kind name as printed by String.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return Options, fmt.Errorf("unknown instrument kind: %q", s)
}

// kindFromCode decodes a ledger file code. Unknown codes decode as Options,
// the first variant, so that files written by newer versions still load.
func kindFromCode(code int) Kind {
	if code < int(Options) || code > int(Other) {
		return Options
	}
	return Kind(code)
}
