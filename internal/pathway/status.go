package pathway

import (
	"fmt"
	"strings"
)

// Status is the outcome of a single licensing criterion.
type Status int

const (
	StatusAccepted Status = iota
	StatusPartial
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusPartial:
		return "partial"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Glyph returns the symbol used when rendering a report summary. Everything
// else in the engine works with the enum, not the glyph.
func (s Status) Glyph() string {
	switch s {
	case StatusAccepted:
		return "✔"
	case StatusPartial:
		return "⟳"
	case StatusRejected:
		return "✖"
	default:
		return "?"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *Status) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "accepted":
		*s = StatusAccepted
	case "partial":
		*s = StatusPartial
	case "rejected":
		*s = StatusRejected
	default:
		return fmt.Errorf("unknown status %s", data)
	}
	return nil
}
