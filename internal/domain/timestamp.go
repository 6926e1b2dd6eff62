package domain

import "time"

// Precision records how a timestamp was obtained from the source text, so
// downstream consumers can tell exact dates from inferred ones.
type Precision int

const (
	// PrecisionUnknown is the sentinel for unparseable timestamp text.
	PrecisionUnknown Precision = iota
	// PrecisionExact means the source text carried a full absolute date.
	PrecisionExact
	// PrecisionYearInferred means the year was computed from the reference instant.
	PrecisionYearInferred
	// PrecisionRelative means the value was resolved from a relative phrase
	// ("2h", "3 days ago", "Yesterday at ...") against the reference instant.
	PrecisionRelative
)

func (p Precision) String() string {
	switch p {
	case PrecisionExact:
		return "exact"
	case PrecisionYearInferred:
		return "year_inferred"
	case PrecisionRelative:
		return "relative"
	default:
		return "unknown"
	}
}

// Timestamp is a normalized point in time plus the raw source text it was
// parsed from. The zero value is the unknown sentinel.
type Timestamp struct {
	Time      time.Time
	Precision Precision
	Raw       string
}

// UnknownTimestamp preserves the raw text of a value that no matcher accepted.
func UnknownTimestamp(raw string) Timestamp {
	return Timestamp{Raw: raw}
}

// IsKnown reports whether the timestamp was successfully normalized.
func (t Timestamp) IsKnown() bool {
	return t.Precision != PrecisionUnknown
}

// Approximate reports whether the value is marked as inferred rather than
// read verbatim from the source.
func (t Timestamp) Approximate() bool {
	return t.Precision == PrecisionYearInferred || t.Precision == PrecisionRelative
}
