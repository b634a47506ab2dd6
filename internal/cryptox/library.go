package cryptox

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chatkeeper/internal/shared"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Status is the result code of a native call.
type Status int

const (
	StatusOK     Status = 0
	StatusFailed Status = -1
)

// OK reports whether s denotes success.
func (s Status) OK() bool {
	return s == StatusOK
}

// Library is the narrow native boundary of the crypto layer.
type Library interface {
	// Load prepares the library. It must succeed before any other call.
	Load() error

	SaltBytes() int
	NonceBytes() int
	KeyBytes() int
	HashBytes() int
	OpsLimit() uint32
	MemLimit() uint32

	// Random fills buf with cryptographically secure bytes.
	Random(buf []byte) error

	// PwHash fills out with a key derived from password and salt.
	// It returns 0 on success and a negative value on failure.
	PwHash(out, password, salt []byte, opsLimit, memLimit uint32) int

	Seal(key, nonce, plaintext []byte) ([]byte, Status)
	Open(key, nonce, ciphertext []byte) ([]byte, Status)
}

// Argon2Params tunes the argon2id cost.
type Argon2Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultArgon2Params matches the cost used for the vault master key.
var DefaultArgon2Params = Argon2Params{Time: 1, MemoryKiB: 64 * 1024, Threads: 4}

const argon2SaltBytes = 16

var errInvalidParams = errors.New("invalid argon2 parameters")

type argon2Library struct {
	params Argon2Params
}

// NewArgon2Library returns the argon2id + XChaCha20-Poly1305 library.
func NewArgon2Library(params Argon2Params) Library {
	return &argon2Library{params: params}
}

func (l *argon2Library) Load() error {
	p := l.params
	if p.Time == 0 || p.Threads == 0 || p.MemoryKiB < 8*uint32(p.Threads) {
		return fmt.Errorf("%w: time=%d memory=%dKiB threads=%d", errInvalidParams, p.Time, p.MemoryKiB, p.Threads)
	}

	// self test
	key := make([]byte, chacha20poly1305.KeySize)
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	ct, st := l.Seal(key, nonce, []byte("self-test"))
	if !st.OK() {
		return errors.New("aead self test: seal failed")
	}
	if _, st := l.Open(key, nonce, ct); !st.OK() {
		return errors.New("aead self test: open failed")
	}
	return nil
}

func (l *argon2Library) SaltBytes() int { return argon2SaltBytes }
func (l *argon2Library) NonceBytes() int { return chacha20poly1305.NonceSizeX }
func (l *argon2Library) KeyBytes() int { return chacha20poly1305.KeySize }
func (l *argon2Library) HashBytes() int { return chacha20poly1305.KeySize }
func (l *argon2Library) OpsLimit() uint32 { return l.params.Time }
func (l *argon2Library) MemLimit() uint32 { return l.params.MemoryKiB }

func (l *argon2Library) Random(buf []byte) error {
	b, err := shared.RandomBytes(len(buf))
	if err != nil {
		return err
	}
	copy(buf, b)
	return nil
}

func (l *argon2Library) PwHash(out, password, salt []byte, opsLimit, memLimit uint32) int {
	if len(out) == 0 || len(salt) != argon2SaltBytes || opsLimit == 0 || memLimit < 8*uint32(l.params.Threads) {
		return -1
	}
	key := argon2.IDKey(password, salt, opsLimit, memLimit, l.params.Threads, uint32(len(out)))
	copy(out, key)
	shared.WipeByteArray(key)
	return 0
}

func (l *argon2Library) Seal(key, nonce, plaintext []byte) ([]byte, Status) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil || len(nonce) != aead.NonceSize() {
		return nil, StatusFailed
	}
	return aead.Seal(nil, nonce, plaintext, nil), StatusOK
}

func (l *argon2Library) Open(key, nonce, ciphertext []byte) ([]byte, Status) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil || len(nonce) != aead.NonceSize() {
		return nil, StatusFailed
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, StatusFailed
	}
	return plaintext, StatusOK
}
