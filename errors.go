package tradelog

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrTradeNotFound   = errors.New("trade not found")
	ErrLegNotFound     = errors.New("leg not found")
	ErrLegClosed       = errors.New("leg is already closed")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// RecordError reports a problem with one line of a ledger file.
type RecordError struct {
	Line int
	Text string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
