package cryptox

import (
	"fmt"
	"sync"

	"github.com/dmitrijs2005/chatkeeper/internal/common"
	"golang.org/x/crypto/blake2b"
)

// Crypto is the checked wrapper over a Library. It is safe for concurrent use.
type Crypto struct {
	lib Library

	once    sync.Once
	loadErr error
}

// New returns a Crypto bound to lib. The library is loaded lazily, once.
func New(lib Library) *Crypto {
	return &Crypto{lib: lib}
}

var defaultCrypto = sync.OnceValue(func() *Crypto {
	return New(NewArgon2Library(DefaultArgon2Params))
})

// Default returns the process-wide Crypto instance.
func Default() *Crypto {
	return defaultCrypto()
}

// LoadLibrary loads the underlying library exactly once. Later calls return
// the outcome of the first one.
func (c *Crypto) LoadLibrary() error {
	c.once.Do(func() {
		if err := c.lib.Load(); err != nil {
			c.loadErr = fmt.Errorf("%w: %v", common.ErrLibraryNotLoaded, err)
		}
	})
	return c.loadErr
}

func (c *Crypto) SaltBytes() int { return c.lib.SaltBytes() }
func (c *Crypto) NonceBytes() int { return c.lib.NonceBytes() }
func (c *Crypto) HashBytes() int { return c.lib.HashBytes() }
func (c *Crypto) OpsLimit() uint32 { return c.lib.OpsLimit() }
func (c *Crypto) MemLimit() uint32 { return c.lib.MemLimit() }

// EncryptExpectedKeyBytes is the key size the AEAD expects when sealing.
func (c *Crypto) EncryptExpectedKeyBytes() int { return c.lib.KeyBytes() }

// DecryptExpectedKeyBytes is the key size the AEAD expects when opening.
func (c *Crypto) DecryptExpectedKeyBytes() int { return c.lib.KeyBytes() }

// GenerateSalt returns fresh random bytes of the KDF salt length.
func (c *Crypto) GenerateSalt() ([]byte, error) {
	return c.random(c.lib.SaltBytes())
}

// GenerateNonce returns fresh random bytes of the AEAD nonce length.
func (c *Crypto) GenerateNonce() ([]byte, error) {
	return c.random(c.lib.NonceBytes())
}

func (c *Crypto) random(n int) ([]byte, error) {
	if err := c.LoadLibrary(); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if err := c.lib.Random(buf); err != nil {
		return nil, fmt.Errorf("generate random bytes: %w", err)
	}
	return buf, nil
}

// HashWithMessagePart derives a HashBytes-long keyed hash of password bound to
// messagePart. The KDF salt is a BLAKE2b digest of messagePart, so the hash is
// deterministic for a (password, messagePart) pair and differs when either
// changes.
func (c *Crypto) HashWithMessagePart(password, messagePart []byte) ([]byte, error) {
	if err := c.LoadLibrary(); err != nil {
		return nil, err
	}

	h, err := blake2b.New(c.lib.SaltBytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrHashingFailed, err)
	}
	h.Write(messagePart)
	salt := h.Sum(nil)

	out := make([]byte, c.lib.HashBytes())
	if rc := c.lib.PwHash(out, password, salt, c.lib.OpsLimit(), c.lib.MemLimit()); rc < 0 {
		return nil, fmt.Errorf("%w: status %d", common.ErrHashingFailed, rc)
	}
	return out, nil
}

// DeriveKey derives the symmetric key from password and salt using the same
// KDF parameters as HashWithMessagePart.
func (c *Crypto) DeriveKey(password, salt []byte) ([]byte, error) {
	if err := c.LoadLibrary(); err != nil {
		return nil, err
	}
	if len(salt) != c.lib.SaltBytes() {
		return nil, fmt.Errorf("%w: salt is %d bytes, expected %d", common.ErrInvalidHeader, len(salt), c.lib.SaltBytes())
	}

	key := make([]byte, c.lib.KeyBytes())
	if rc := c.lib.PwHash(key, password, salt, c.lib.OpsLimit(), c.lib.MemLimit()); rc < 0 {
		return nil, fmt.Errorf("%w: status %d", common.ErrHashingFailed, rc)
	}
	return key, nil
}

// CheckExpectedKeySize fails with common.ErrHashWrongSize when actual differs
// from expected.
func (c *Crypto) CheckExpectedKeySize(actual, expected int, isEncryption bool) error {
	if actual == expected {
		return nil
	}
	op := "decryption"
	if isEncryption {
		op = "encryption"
	}
	return fmt.Errorf("%w: %s key is %d bytes, expected %d", common.ErrHashWrongSize, op, actual, expected)
}

// Encrypt seals plaintext. It returns StatusFailed if the library is not loaded.
func (c *Crypto) Encrypt(plaintext, nonce, key []byte) ([]byte, Status) {
	if c.LoadLibrary() != nil {
		return nil, StatusFailed
	}
	return c.lib.Seal(key, nonce, plaintext)
}

// Decrypt opens ciphertext. It returns StatusFailed if the library is not
// loaded or authentication fails.
func (c *Crypto) Decrypt(ciphertext, nonce, key []byte) ([]byte, Status) {
	if c.LoadLibrary() != nil {
		return nil, StatusFailed
	}
	return c.lib.Open(key, nonce, ciphertext)
}
