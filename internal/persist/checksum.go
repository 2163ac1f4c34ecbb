package persist

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

var (
	ErrAssetNotFound    = errors.New("sloc asset not found")
	ErrChecksumMismatch = errors.New("sloc asset checksum mismatch")
)

// Checksum is the BLAKE2b-256 digest stored next to every asset.
func Checksum(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}

func verify(name string, data, sum []byte) error {
	if !bytes.Equal(Checksum(data), sum) {
		return fmt.Errorf("%s: %w", name, ErrChecksumMismatch)
	}
	return nil
}
