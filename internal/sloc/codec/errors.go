package codec

import (
	"errors"
	"fmt"
)

var (
	ErrBadMagic           = errors.New("not a sloc stream")
	ErrUnsupportedVersion = errors.New("unsupported sloc version")
	ErrTruncated          = errors.New("truncated data")
	ErrFrameLength        = errors.New("object frame length mismatch")
	ErrUnknownActionType  = errors.New("unknown trigger action type")
	ErrNotSerializable    = errors.New("trigger action is runtime-only and cannot be encoded")
	ErrStringTooLong      = errors.New("string exceeds 65535 bytes")
)

// FormatError reports malformed input. Decoding stops at the first FormatError
// since the remaining bytes cannot be trusted to be aligned.
type FormatError struct {
	Index int // zero-based object index, -1 for the stream header
	Err   error
}

func (e *FormatError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("sloc header: %v", e.Err)
	}
	return fmt.Sprintf("sloc object %d: %v", e.Index, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
