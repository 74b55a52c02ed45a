package codec

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DocumentCodec serializes document values (maps, arrays, embeds) to and
// from native TEXT. It is injected at Pipeline construction; selection is
// never read from ambient process state at decode time.
type DocumentCodec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// JSON is the default document codec.
var JSON DocumentCodec = jsonCodec{}

// LoadFunc is one pure step of a read-direction coercion chain.
type LoadFunc func(v any) (any, error)

// DumpFunc is one pure step of a write-direction coercion chain.
type DumpFunc func(v any) (any, error)

// Options configures a Pipeline.
type Options struct {
	// Documents is the serializer for Map, Array and Embed columns.
	// Defaults to JSON.
	Documents DocumentCodec
}

// Pipeline maps logical types to ordered coercion chains. A Pipeline is
// immutable after construction and safe for concurrent use.
type Pipeline struct {
	docs DocumentCodec
}

// New builds a Pipeline from opts.
func New(opts Options) *Pipeline {
	docs := opts.Documents
	if docs == nil {
		docs = JSON
	}
	return &Pipeline{docs: docs}
}

// Loaders returns the read-direction chain for t. Chains run in order;
// each step feeds the next.
func (p *Pipeline) Loaders(t Type) []LoadFunc {
	switch t.Kind {
	case Boolean:
		return []LoadFunc{loadBoolean}
	case BinaryID:
		return []LoadFunc{loadPrimitive, loadUUID}
	case Date:
		return []LoadFunc{loadDate}
	case UTCDateTime:
		return []LoadFunc{loadDateTime(true)}
	case NaiveDateTime:
		return []LoadFunc{loadDateTime(false)}
	case Float:
		return []LoadFunc{loadFloat}
	case Map, Array:
		return []LoadFunc{p.loadDocument}
	case Embed:
		return []LoadFunc{p.loadDocument, loadEmbed(t.Embed)}
	default:
		return []LoadFunc{loadPrimitive}
	}
}

// Dumpers returns the write-direction chain for t.
func (p *Pipeline) Dumpers(t Type) []DumpFunc {
	switch t.Kind {
	case Boolean:
		return []DumpFunc{dumpBoolean}
	case Binary:
		return []DumpFunc{dumpBinary}
	case BinaryID:
		return []DumpFunc{dumpUUID}
	case Embed:
		return []DumpFunc{dumpEmbed(t.Embed), p.dumpDocument}
	default:
		// Includes Time: SQLite has no native time class, so
		// time-of-day values travel unchanged.
		return []DumpFunc{dumpIdentity}
	}
}

// Load runs the full loader chain for t over a native value.
func (p *Pipeline) Load(t Type, v any) (any, error) {
	cur := v
	for _, fn := range p.Loaders(t) {
		next, err := fn(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Dump runs the full dumper chain for t over an abstract value.
func (p *Pipeline) Dump(t Type, v any) (any, error) {
	cur := v
	for _, fn := range p.Dumpers(t) {
		next, err := fn(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func dumpIdentity(v any) (any, error) { return v, nil }

// isNull reports whether v is native NULL in either raw or tagged form.
// NULL is part of the engine's storage domain: every nullable column can
// emit it, so every typed loader passes it through as an absent value.
func isNull(v any) bool {
	switch v.(type) {
	case nil, Null:
		return true
	default:
		return false
	}
}

// loadPrimitive strips Native tags so downstream steps see plain scalars.
func loadPrimitive(v any) (any, error) { return unwrap(v), nil }

// loadBoolean maps native 0/1 to false/true. Any other value passes
// through unchanged; the engine's weak typing means non-boolean values
// can legally appear in a boolean column.
func loadBoolean(v any) (any, error) {
	switch n := unwrap(v).(type) {
	case int64:
		switch n {
		case 0:
			return false, nil
		case 1:
			return true, nil
		default:
			return n, nil
		}
	case int:
		return loadBoolean(int64(n))
	default:
		return unwrap(v), nil
	}
}

func loadUUID(v any) (any, error) {
	if isNull(v) {
		return nil, nil
	}
	switch val := v.(type) {
	case uuid.UUID:
		return val, nil
	case string:
		id, err := uuid.Parse(val)
		if err != nil {
			return nil, decodeErr(ErrCodeInvalidUUID, val, "not a UUID: %v", err)
		}
		return id, nil
	case []byte:
		if len(val) == 16 {
			id, err := uuid.FromBytes(val)
			if err != nil {
				return nil, decodeErr(ErrCodeInvalidUUID, val, "not a UUID: %v", err)
			}
			return id, nil
		}
		id, err := uuid.ParseBytes(val)
		if err != nil {
			return nil, decodeErr(ErrCodeInvalidUUID, val, "not a UUID: %v", err)
		}
		return id, nil
	default:
		return nil, decodeErr(ErrCodeInvalidUUID, v, "cannot decode %T as UUID", v)
	}
}

func loadDate(v any) (any, error) {
	switch val := unwrap(v).(type) {
	case nil:
		return nil, nil
	case CalDate:
		if !val.Valid() {
			return nil, decodeErr(ErrCodeInvalidDate, val, "not a real calendar date")
		}
		return val, nil
	case time.Time:
		return CalDate{Year: val.Year(), Month: val.Month(), Day: val.Day()}, nil
	case string:
		t, err := time.Parse("2006-01-02", val)
		if err != nil {
			return nil, decodeErr(ErrCodeInvalidDate, val, "not a real calendar date: %v", err)
		}
		return CalDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
	default:
		return nil, decodeErr(ErrCodeInvalidDate, v, "cannot decode %T as date", v)
	}
}

// datetimeLayouts are tried in order against ISO-8601 text. time.Parse
// accepts a fractional second after the seconds element even when the
// layout omits it.
var datetimeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// loadDateTime accepts ISO-8601 text or structured DateTimeParts and
// normalizes both to a naive timestamp. utc tags the result with zero
// UTC offset semantics; the parts are identical either way.
func loadDateTime(utc bool) LoadFunc {
	return func(v any) (any, error) {
		switch val := unwrap(v).(type) {
		case nil:
			return nil, nil
		case time.Time:
			if utc {
				return val.UTC(), nil
			}
			return val, nil
		case DateTimeParts:
			if !val.valid() {
				return nil, decodeErr(ErrCodeInvalidTimestamp, val, "timestamp field out of range")
			}
			return val.timestamp(), nil
		case string:
			for _, layout := range datetimeLayouts {
				if t, err := time.Parse(layout, val); err == nil {
					return t.UTC(), nil
				}
			}
			return nil, decodeErr(ErrCodeInvalidTimestamp, val, "not an ISO-8601 timestamp")
		default:
			return nil, decodeErr(ErrCodeInvalidTimestamp, v, "cannot decode %T as timestamp", v)
		}
	}
}

// loadFloat widens native integers to float64; native floats pass
// through. Other values pass unchanged.
func loadFloat(v any) (any, error) {
	switch n := unwrap(v).(type) {
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return unwrap(v), nil
	}
}

// loadDocument parses native TEXT through the injected serializer.
// Values already in structured form pass through, which keeps document
// chains inverses of their identity dumpers.
func (p *Pipeline) loadDocument(v any) (any, error) {
	switch val := unwrap(v).(type) {
	case string:
		var out any
		if err := p.docs.Unmarshal([]byte(val), &out); err != nil {
			return nil, decodeErr(ErrCodeMalformedDocument, val, "document parse failed: %v", err)
		}
		return out, nil
	case []byte:
		var out any
		if err := p.docs.Unmarshal(val, &out); err != nil {
			return nil, decodeErr(ErrCodeMalformedDocument, string(val), "document parse failed: %v", err)
		}
		return out, nil
	default:
		return val, nil
	}
}

func loadEmbed(ec EmbedCodec) LoadFunc {
	return func(v any) (any, error) {
		if isNull(v) {
			return nil, nil
		}
		if ec == nil {
			return v, nil
		}
		doc, ok := v.(map[string]any)
		if !ok {
			return nil, decodeErr(ErrCodeMalformedDocument, v, "embedded document is %T, want object", v)
		}
		return ec.LoadEmbed(doc)
	}
}

func dumpBoolean(v any) (any, error) {
	switch b := v.(type) {
	case bool:
		if b {
			return Int(1), nil
		}
		return Int(0), nil
	default:
		return v, nil
	}
}

// dumpBinary wraps bytes in the Blob tag so the driver stores opaque
// bytes rather than TEXT.
func dumpBinary(v any) (any, error) {
	switch b := v.(type) {
	case []byte:
		return Blob(b), nil
	case string:
		return Blob(b), nil
	case Blob:
		return b, nil
	case nil:
		return Null{}, nil
	default:
		return nil, encodeErr(ErrCodeUnsupportedValue, v, "cannot encode %T as binary", v)
	}
}

func dumpUUID(v any) (any, error) {
	switch id := v.(type) {
	case uuid.UUID:
		return Text(id.String()), nil
	case string:
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, encodeErr(ErrCodeInvalidUUID, id, "not a UUID: %v", err)
		}
		return Text(parsed.String()), nil
	case []byte:
		parsed, err := loadUUID(id)
		if err != nil {
			return nil, encodeErr(ErrCodeInvalidUUID, id, "not a UUID")
		}
		return Text(parsed.(uuid.UUID).String()), nil
	case nil:
		return Null{}, nil
	default:
		return nil, encodeErr(ErrCodeInvalidUUID, v, "cannot encode %T as UUID", v)
	}
}

func dumpEmbed(ec EmbedCodec) DumpFunc {
	return func(v any) (any, error) {
		if isNull(v) {
			return Null{}, nil
		}
		if ec == nil {
			return v, nil
		}
		return ec.DumpEmbed(v)
	}
}

func (p *Pipeline) dumpDocument(v any) (any, error) {
	if isNull(v) {
		return Null{}, nil
	}
	data, err := p.docs.Marshal(v)
	if err != nil {
		return nil, encodeErr(ErrCodeMalformedDocument, v, "document encode failed: %v", err)
	}
	return Text(data), nil
}
