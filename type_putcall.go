package tradelog

import (
	"fmt"
	"strings"
)

// PutCall is the option right of a Leg. Non option legs are NotApplicable.
//
// The declaration order is the display order of open legs.
type PutCall int

const (
	Put PutCall = iota
	Call
	NotApplicable
)

func (p PutCall) String() string {
	switch p {
	case Put:
		return "P"
	case Call:
		return "C"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p PutCall) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// ParsePutCall parses "P", "C" or "" (NotApplicable). It is case insensitive
// and also accepts "put" and "call".
func ParsePutCall(s string) (PutCall, error) {
	switch strings.ToUpper(s) {
	case "P", "PUT":
		return Put, nil
	case "C", "CALL":
		return Call, nil
	case "", "-":
		return NotApplicable, nil
	}
	return NotApplicable, fmt.Errorf("unknown put/call: %q", s)
}

// putCallFromCode decodes the ledger file text code, anything but P or C is
// NotApplicable.
func putCallFromCode(s string) PutCall {
	switch s {
	case "P":
		return Put
	case "C":
		return Call
	}
	return NotApplicable
}
