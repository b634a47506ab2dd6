// Package header encodes the fixed-size header written in front of an
// encrypted backup: salt | uuidHash | nonce. Field lengths are properties of
// the crypto primitives in use, so the header carries no length prefixes.
package header

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/chatkeeper/internal/common"
)

// Layout holds the byte length of every header field.
type Layout struct {
	SaltLen  int
	HashLen  int
	NonceLen int
}

// Sizer is implemented by *cryptox.Crypto.
type Sizer interface {
	SaltBytes() int
	HashBytes() int
	NonceBytes() int
}

// LayoutFor returns the layout matching the primitives of s.
func LayoutFor(s Sizer) Layout {
	return Layout{SaltLen: s.SaltBytes(), HashLen: s.HashBytes(), NonceLen: s.NonceBytes()}
}

// Len is the encoded header size in bytes.
func (l Layout) Len() int {
	return l.SaltLen + l.HashLen + l.NonceLen
}

// EncryptedBackupHeader precedes the ciphertext of a backup archive.
type EncryptedBackupHeader struct {
	Salt     []byte
	UUIDHash []byte
	Nonce    []byte
}

// CreateMetaData serializes the three fields in fixed order. Every field must
// have exactly the length required by l.
func (l Layout) CreateMetaData(salt, hash, nonce []byte) ([]byte, error) {
	fields := []struct {
		name string
		data []byte
		want int
	}{
		{"salt", salt, l.SaltLen},
		{"hash", hash, l.HashLen},
		{"nonce", nonce, l.NonceLen},
	}

	out := make([]byte, 0, l.Len())
	for _, f := range fields {
		if len(f.data) != f.want {
			return nil, fmt.Errorf("%w: %s is %d bytes, expected %d", common.ErrInvalidHeader, f.name, len(f.data), f.want)
		}
		out = append(out, f.data...)
	}
	return out, nil
}

// Decode splits a raw header into its fields.
func (l Layout) Decode(raw []byte) (EncryptedBackupHeader, error) {
	if len(raw) < l.Len() {
		return EncryptedBackupHeader{}, fmt.Errorf("%w: got %d bytes, need %d", common.ErrHeaderTooShort, len(raw), l.Len())
	}

	h := EncryptedBackupHeader{
		Salt:     append([]byte(nil), raw[:l.SaltLen]...),
		UUIDHash: append([]byte(nil), raw[l.SaltLen:l.SaltLen+l.HashLen]...),
		Nonce:    append([]byte(nil), raw[l.SaltLen+l.HashLen:l.Len()]...),
	}
	return h, nil
}

// Read parses the header from the start of r.
func (l Layout) Read(r io.Reader) (EncryptedBackupHeader, error) {
	raw := make([]byte, l.Len())
	n, err := io.ReadFull(r, raw)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return EncryptedBackupHeader{}, fmt.Errorf("%w: got %d bytes, need %d", common.ErrHeaderTooShort, n, l.Len())
		}
		return EncryptedBackupHeader{}, fmt.Errorf("read header: %w", err)
	}
	return l.Decode(raw)
}

// ReadMetadata parses the header at the start of the file at path.
func (l Layout) ReadMetadata(path string) (EncryptedBackupHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return EncryptedBackupHeader{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return l.Read(f)
}
