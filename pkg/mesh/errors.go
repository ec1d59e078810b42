package mesh

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies decode failures and recovered conditions
type Kind int

const (
	// KindIO means the input could not be read
	KindIO Kind = iota + 1
	// KindTruncatedBinaryRecord means a binary STL ended mid-record
	KindTruncatedBinaryRecord
	// KindUnexpectedEndOfASCIIStream means an ASCII facet has fewer than three vertices before the end
	KindUnexpectedEndOfASCIIStream
	// KindInvalidData means a value could not be parsed where one is required
	KindInvalidData
	// KindInvalidFaceReference means an OBJ face corner had no usable vertex index
	KindInvalidFaceReference
	// KindNumericDefaulted means an OBJ attribute component was replaced by zero
	KindNumericDefaulted
	// KindUnknownFormat means no decoder matches the input
	KindUnknownFormat
)

// Sentinel errors, one per kind, for use with errors.Is
var (
	ErrIO                         = errors.New("input unreadable")
	ErrTruncatedBinaryRecord      = errors.New("truncated binary record")
	ErrUnexpectedEndOfASCIIStream = errors.New("unexpected end of ascii stream")
	ErrInvalidData                = errors.New("invalid data")
	ErrInvalidFaceReference       = errors.New("invalid face reference")
	ErrNumericDefaulted           = errors.New("numeric value defaulted")
	ErrUnknownFormat              = errors.New("unknown format")
)

var kindSentinels = map[Kind]error{
	KindIO:                         ErrIO,
	KindTruncatedBinaryRecord:      ErrTruncatedBinaryRecord,
	KindUnexpectedEndOfASCIIStream: ErrUnexpectedEndOfASCIIStream,
	KindInvalidData:                ErrInvalidData,
	KindInvalidFaceReference:       ErrInvalidFaceReference,
	KindNumericDefaulted:           ErrNumericDefaulted,
	KindUnknownFormat:              ErrUnknownFormat,
}

func (k Kind) String() string {
	if err, ok := kindSentinels[k]; ok {
		return err.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a decode error carrying its kind and where it happened.
// Line is 1-based for text formats, Offset is a byte offset for binary input;
// zero means unknown.
type Error struct {
	Kind   Kind
	Op     string
	Line   int
	Offset int64
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	switch {
	case e.Line > 0:
		fmt.Fprintf(&b, " at line %d", e.Line)
	case e.Offset > 0:
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// KindOf returns the kind of the first *Error in err's chain, or 0
func KindOf(err error) Kind {
	var merr *Error
	if errors.As(err, &merr) {
		return merr.Kind
	}
	return 0
}
