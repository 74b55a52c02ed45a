// Package codec implements the bidirectional type coercion pipeline between
// the toolkit's abstract column values and SQLite's native value domain.
//
// SQLite stores exactly five value classes: INTEGER, REAL, TEXT, BLOB and
// NULL. The toolkit's logical types (dates, timestamps, UUIDs, documents,
// booleans) are richer, so every logical type maps to an ordered chain of
// pure coercion functions:
//
//   - Loaders run in the read direction (native -> abstract).
//   - Dumpers run in the write direction (abstract -> native).
//
// Chains are inverses over the valid abstract domain: load(dump(v)) == v,
// except where the native domain is intrinsically lossy (integer-valued
// floats widen back to float64).
//
// All coercion functions are pure and side-effect free; a Pipeline is safe
// for use from any number of concurrent workers. Failures are typed
// (DecodeError / EncodeError) and attributed to the offending column, never
// silently wrong and never fatal to sibling rows in a batch.
//
// The document serializer is injected at construction via Options rather
// than read from ambient process state at decode time.
package codec
