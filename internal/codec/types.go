package codec

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Kind tags a logical column type. Each Kind selects exactly one loader
// chain and one dumper chain.
type Kind int

const (
	// Primitive covers values already inside the native domain.
	Primitive Kind = iota
	// Boolean is stored as native 0/1.
	Boolean
	// Binary is opaque bytes, stored as BLOB.
	Binary
	// BinaryID is a UUID, stored in canonical text form.
	BinaryID
	// Date is a calendar date without time-of-day.
	Date
	// Time is a time-of-day; SQLite has no native time class, so it
	// travels unchanged.
	Time
	// UTCDateTime is a timestamp asserted to be at zero UTC offset.
	UTCDateTime
	// NaiveDateTime is a timestamp with no zone semantics.
	NaiveDateTime
	// Float is a REAL; native integers widen on load.
	Float
	// Map is a document object serialized as TEXT.
	Map
	// Array is a document list serialized as TEXT.
	Array
	// Embed is a nested schema serialized as TEXT through an EmbedCodec.
	Embed
)

var kindNames = map[Kind]string{
	Primitive:     "primitive",
	Boolean:       "boolean",
	Binary:        "binary",
	BinaryID:      "binary_id",
	Date:          "date",
	Time:          "time",
	UTCDateTime:   "utc_datetime",
	NaiveDateTime: "naive_datetime",
	Float:         "float",
	Map:           "map",
	Array:         "array",
	Embed:         "embed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// EmbedCodec is the nested-schema loader/dumper supplied by the toolkit
// for Embed columns. LoadEmbed receives the decoded document object;
// DumpEmbed produces the object to be serialized.
type EmbedCodec interface {
	LoadEmbed(doc map[string]any) (any, error)
	DumpEmbed(v any) (map[string]any, error)
}

// Type is a logical column type: a Kind plus, for Embed, the injected
// nested-schema codec.
type Type struct {
	Kind  Kind
	Embed EmbedCodec
}

// T is shorthand for a Type with no nested codec.
func T(k Kind) Type { return Type{Kind: k} }

// CalDate is a calendar date. It is both the abstract date value and the
// structured native triple the date loader accepts.
type CalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// Valid reports whether the triple names a real calendar date.
// time.Date normalizes impossible dates (Feb 30 becomes Mar 2), so a
// triple is valid exactly when construction round-trips its components.
func (d CalDate) Valid() bool {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return t.Year() == d.Year && t.Month() == d.Month && t.Day() == d.Day
}

func (d CalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Value implements driver.Valuer so dates bind as ISO-8601 TEXT.
func (d CalDate) Value() (driver.Value, error) { return d.String(), nil }

// DateTimeParts is the structured form of a timestamp: a date triple and
// a time quadruple with microsecond subsecond precision.
type DateTimeParts struct {
	Date        CalDate
	Hour        int
	Minute      int
	Second      int
	Microsecond int
}

func (p DateTimeParts) valid() bool {
	return p.Date.Valid() &&
		p.Hour >= 0 && p.Hour <= 23 &&
		p.Minute >= 0 && p.Minute <= 59 &&
		p.Second >= 0 && p.Second <= 59 &&
		p.Microsecond >= 0 && p.Microsecond <= 999999
}

func (p DateTimeParts) timestamp() time.Time {
	return time.Date(p.Date.Year, p.Date.Month, p.Date.Day,
		p.Hour, p.Minute, p.Second, p.Microsecond*1000, time.UTC)
}

// Column pairs a column name with its logical type for row-level
// coercion and error attribution.
type Column struct {
	Name string
	Type Type
}
