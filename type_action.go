package tradelog

import "fmt"

// Action tells whether a Leg opens or closes a position, and from which side.
type Action int

// The numeric value of each Action is its code in the ledger file.
const (
	SellToOpen Action = iota
	BuyToOpen
	SellToClose
	BuyToClose
)

var actionNames = [...]string{"STO", "BTO", "STC", "BTC"}

func (a Action) String() string {
	if a < SellToOpen || a > BuyToClose {
		return "unknown"
	}
	return actionNames[a]
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// ParseAction parses an action abbreviation (STO, BTO, STC, BTC).
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return SellToOpen, fmt.Errorf("unknown action: %q", s)
}

// IsOpening reports whether the action opens a position.
func (a Action) IsOpening() bool { return a == SellToOpen || a == BuyToOpen }

// actionFromCode decodes a ledger file code, unknown codes decode as SellToOpen.
func actionFromCode(code int) Action {
	if code < int(SellToOpen) || code > int(BuyToClose) {
		return SellToOpen
	}
	return Action(code)
}
