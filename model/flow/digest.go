package flow

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// DigestLength is the size in bytes of a batch digest.
const DigestLength = 32

// BatchDigest is the content hash identifying a batch of transactions. Workers
// compute it over the batch contents; the primary treats it as opaque.
type BatchDigest [DigestLength]byte

// ZeroDigest is the lowest value in the digest space.
var ZeroDigest = BatchDigest{}

// HexStringToBatchDigest converts a hex string to a batch digest.
func HexStringToBatchDigest(hexString string) (BatchDigest, error) {
	if len(hexString) != 2*DigestLength {
		return ZeroDigest, fmt.Errorf("malformed digest hex string (length: %d)", len(hexString))
	}
	var digest BatchDigest
	_, err := hex.Decode(digest[:], []byte(hexString))
	if err != nil {
		return ZeroDigest, fmt.Errorf("could not decode digest: %w", err)
	}
	return digest, nil
}

// MustHexStringToBatchDigest converts a hex string to a batch digest and
// panics on a malformed input. Intended for constants and tests.
func MustHexStringToBatchDigest(hexString string) BatchDigest {
	digest, err := HexStringToBatchDigest(hexString)
	if err != nil {
		panic(err)
	}
	return digest
}

// MakeBatchDigest computes the digest of a batch from its serialized
// transactions, in order.
func MakeBatchDigest(transactions [][]byte) BatchDigest {
	hasher, _ := blake2b.New256(nil)
	for _, tx := range transactions {
		_, _ = hasher.Write(tx)
	}
	var digest BatchDigest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// String returns the hex encoding of the digest.
func (d BatchDigest) String() string {
	return hex.EncodeToString(d[:])
}

// TerminalString returns a short form of the digest for log output.
func (d BatchDigest) TerminalString() string {
	return hex.EncodeToString(d[:4])
}

func (d BatchDigest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *BatchDigest) UnmarshalText(text []byte) error {
	var err error
	*d, err = HexStringToBatchDigest(string(text))
	return err
}
