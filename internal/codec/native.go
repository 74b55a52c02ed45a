package codec

import (
	"database/sql/driver"
	"fmt"
)

// Native is a sealed interface over SQLite's storage classes.
// Only Int, Real, Text, Blob, and Null implement it. Dumpers that must
// force a particular storage class (e.g. BLOB for opaque bytes) return
// one of these tagged values; every Native binds directly as a driver
// parameter via database/sql/driver.Valuer.
type Native interface {
	native()
}

// Int is a native INTEGER value.
type Int int64

func (Int) native() {}

// Value implements driver.Valuer.
func (n Int) Value() (driver.Value, error) { return int64(n), nil }

// Real is a native REAL value.
type Real float64

func (Real) native() {}

// Value implements driver.Valuer.
func (n Real) Value() (driver.Value, error) { return float64(n), nil }

// Text is a native TEXT value.
type Text string

func (Text) native() {}

// Value implements driver.Valuer.
func (n Text) Value() (driver.Value, error) { return string(n), nil }

// Blob is a native BLOB value. Wrapping bytes in Blob is the explicit
// storage-class tag that keeps the driver from binding them as TEXT.
type Blob []byte

func (Blob) native() {}

// Value implements driver.Valuer.
func (n Blob) Value() (driver.Value, error) { return []byte(n), nil }

// Null is the native NULL value.
type Null struct{}

func (Null) native() {}

// Value implements driver.Valuer.
func (Null) Value() (driver.Value, error) { return nil, nil }

// FromDriver normalizes a value scanned from the driver into the sealed
// native domain. The sqlite3 driver emits int64, float64, string, []byte
// or nil; anything else is outside the engine's value domain.
func FromDriver(v any) (Native, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case int64:
		return Int(val), nil
	case int:
		return Int(val), nil
	case float64:
		return Real(val), nil
	case string:
		return Text(val), nil
	case []byte:
		return Blob(val), nil
	case Native:
		return val, nil
	default:
		return nil, fmt.Errorf("value %T is outside the native domain", v)
	}
}

// unwrap strips a Native tag back to the plain driver-level scalar.
// Non-native values pass through untouched.
func unwrap(v any) any {
	switch val := v.(type) {
	case Int:
		return int64(val)
	case Real:
		return float64(val)
	case Text:
		return string(val)
	case Blob:
		return []byte(val)
	case Null:
		return nil
	default:
		return v
	}
}
