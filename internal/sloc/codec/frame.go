package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Magic opens every sloc stream.
const Magic = "SLOC"

// Version is the format version written by this package.
const Version uint16 = 1

// MaxFrameSize bounds a single object frame.
const MaxFrameSize = 1 << 24

func writeHeader(w io.Writer) error {
	var hdr [6]byte
	copy(hdr[:4], Magic)
	binary.LittleEndian.PutUint16(hdr[4:], Version)
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

func readHeader(r io.Reader) error {
	var hdr [6]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return &FormatError{Index: -1, Err: ErrTruncated}
		}
		return fmt.Errorf("read header: %w", err)
	}
	if string(hdr[:4]) != Magic {
		return &FormatError{Index: -1, Err: ErrBadMagic}
	}
	if v := binary.LittleEndian.Uint16(hdr[4:]); v != Version {
		return &FormatError{Index: -1, Err: fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)}
	}
	return nil
}

// ReadFrame reads one object frame from r.
// Wire format: [4 bytes LE: body length][body].
// Returns io.EOF when the stream ends cleanly before a frame.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("read frame header: %w", ErrTruncated)
		}
		return nil, err
	}

	n := binary.LittleEndian.Uint32(header[:])
	if n == 0 || n > MaxFrameSize {
		return nil, fmt.Errorf("%w: invalid frame length %d", ErrFrameLength, n)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("read frame body (%d bytes): %w", n, ErrTruncated)
		}
		return nil, fmt.Errorf("read frame body (%d bytes): %w", n, err)
	}
	return body, nil
}

// WriteFrame writes one object frame to w.
func WriteFrame(w io.Writer, body []byte) error {
	if len(body) == 0 || len(body) > MaxFrameSize {
		return fmt.Errorf("%w: invalid frame length %d", ErrFrameLength, len(body))
	}
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(body)))

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write frame body: %w", err)
	}
	return nil
}
