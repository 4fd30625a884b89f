package model

// ErrorCode tags a field whose decode failed.
type ErrorCode int

const (
	NoError ErrorCode = iota
	MissingField
	InvalidValue
)

func (e ErrorCode) String() string {
	switch e {
	case MissingField:
		return "Missing field"
	case InvalidValue:
		return "Invalid value"
	default:
		return ""
	}
}

type decodeKind uint8

const (
	kindUnset decodeKind = iota
	kindValue
	kindNull
	kindError
)

// Decoded is the outcome of decoding one report field: exactly one of a typed
// value, an explicit null ("no information"), or an ErrorCode. The zero value
// is unset and is never produced by a classifier.
type Decoded[T any] struct {
	value T
	kind  decodeKind
	err   ErrorCode
}

// Value wraps a successfully decoded value.
func Value[T any](v T) Decoded[T] { return Decoded[T]{value: v, kind: kindValue} }

// Null marks a field that was present but carried no information.
func Null[T any]() Decoded[T] { return Decoded[T]{kind: kindNull} }

// Failed records a decode failure. NoError is not a failure and yields an unset result.
func Failed[T any](code ErrorCode) Decoded[T] {
	if code == NoError {
		return Decoded[T]{}
	}
	return Decoded[T]{kind: kindError, err: code}
}

// Get returns the decoded value and whether one is present.
func (d Decoded[T]) Get() (T, bool) { return d.value, d.kind == kindValue }

// HasValue reports whether a typed value was decoded.
func (d Decoded[T]) HasValue() bool { return d.kind == kindValue }

// IsNull reports whether the field decoded to "no information".
func (d Decoded[T]) IsNull() bool { return d.kind == kindNull }

// Err returns the error code, NoError unless the decode failed.
func (d Decoded[T]) Err() ErrorCode { return d.err }

// IsSet reports whether the outcome was populated at all.
func (d Decoded[T]) IsSet() bool { return d.kind != kindUnset }

// Label renders the outcome for the evaluated-values table: the formatted
// value, "" for null, or the error text.
func (d Decoded[T]) Label(format func(T) string) string {
	switch d.kind {
	case kindValue:
		return format(d.value)
	case kindError:
		return d.err.String()
	default:
		return ""
	}
}

// Outcome is the type-erased view of a Decoded field.
type Outcome interface {
	HasValue() bool
	IsNull() bool
	Err() ErrorCode
	IsSet() bool
}

// Stringer is satisfied by every closed enum in this package.
type Stringer interface{ String() string }

// EnumLabel formats enum variants through their label tables.
func EnumLabel[T Stringer](v T) string { return v.String() }
