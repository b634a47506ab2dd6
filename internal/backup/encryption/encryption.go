// Package encryption turns a plaintext backup archive into a
// password-protected file bound to a user id, and back.
//
// Output layout: header (salt | uuidHash | nonce) followed by the AEAD
// ciphertext of the whole input file. uuidHash = KDF(password, salt+userID) lets
// a restore reject a wrong password or a foreign account before decrypting.
package encryption

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/chatkeeper/internal/backup/header"
	"github.com/dmitrijs2005/chatkeeper/internal/common"
	"github.com/dmitrijs2005/chatkeeper/internal/cryptox"
	"github.com/dmitrijs2005/chatkeeper/internal/logging"
	"github.com/dmitrijs2005/chatkeeper/internal/shared"
)

// Handler encrypts and decrypts backup archives.
type Handler struct {
	crypto *cryptox.Crypto
	layout header.Layout
	log    logging.Logger
}

// NewHandler returns a Handler using c for every primitive.
func NewHandler(c *cryptox.Crypto, log logging.Logger) *Handler {
	return &Handler{crypto: c, layout: header.LayoutFor(c), log: log}
}

// Layout returns the header layout written by this handler.
func (h *Handler) Layout() header.Layout {
	return h.layout
}

// accountPart is the message part of the account hash. It includes the
// archive salt, so no two archives share a hash.
func accountPart(salt []byte, userID string) []byte {
	part := make([]byte, 0, len(salt)+len(userID))
	part = append(part, salt...)
	return append(part, userID...)
}

// EncryptBackup encrypts the file at input for userID and writes the result
// to outputPath. Nothing is left at outputPath when any step fails.
func (h *Handler) EncryptBackup(ctx context.Context, input, userID string, password []byte, outputPath string) (string, error) {
	salt, err := h.crypto.GenerateSalt()
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	nonce, err := h.crypto.GenerateNonce()
	if err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	hash, err := h.crypto.HashWithMessagePart(password, accountPart(salt, userID))
	if err != nil {
		return "", err
	}

	hdr, err := h.layout.CreateMetaData(salt, hash, nonce)
	if err != nil {
		return "", fmt.Errorf("create header: %w", err)
	}

	if err := h.crypto.CheckExpectedKeySize(len(hash), h.crypto.EncryptExpectedKeyBytes(), true); err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	key, err := h.crypto.DeriveKey(password, salt)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	defer shared.WipeByteArray(key)

	plaintext, err := os.ReadFile(input)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", input, err)
	}

	ciphertext, st := h.crypto.Encrypt(plaintext, nonce, key)
	shared.WipeByteArray(plaintext)
	if !st.OK() {
		return "", fmt.Errorf("%w: status %d", common.ErrEncryptionFailed, st)
	}

	if err := writeAtomic(outputPath, hdr, ciphertext); err != nil {
		return "", err
	}

	h.log.Debug(ctx, "backup encrypted", "file", outputPath, "bytes", len(hdr)+len(ciphertext))
	return outputPath, nil
}

// DecryptBackup verifies that input was encrypted for (userID, password) and
// writes the recovered plaintext to outputPath. A wrong password and a wrong
// user id both yield common.ErrHashesDoNotMatch.
func (h *Handler) DecryptBackup(ctx context.Context, input, userID string, password []byte, outputPath string) (string, error) {
	f, err := os.Open(input)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", input, err)
	}
	defer f.Close()

	hdr, err := h.layout.Read(f)
	if err != nil {
		return "", err
	}

	hash, err := h.crypto.HashWithMessagePart(password, accountPart(hdr.Salt, userID))
	if err != nil {
		return "", err
	}

	if err := h.crypto.CheckExpectedKeySize(len(hash), h.crypto.DecryptExpectedKeyBytes(), false); err != nil {
		return "", err
	}

	if subtle.ConstantTimeCompare(hash, hdr.UUIDHash) != 1 {
		return "", common.ErrHashesDoNotMatch
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	key, err := h.crypto.DeriveKey(password, hdr.Salt)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	defer shared.WipeByteArray(key)

	ciphertext, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", input, err)
	}

	plaintext, st := h.crypto.Decrypt(ciphertext, hdr.Nonce, key)
	if !st.OK() {
		return "", fmt.Errorf("%w: status %d", common.ErrDecryptionFailed, st)
	}

	if err := writeAtomic(outputPath, plaintext); err != nil {
		return "", err
	}

	h.log.Debug(ctx, "backup decrypted", "file", outputPath, "bytes", len(plaintext))
	return outputPath, nil
}

// writeAtomic writes parts to a temp file next to path and renames it into
// place.
func writeAtomic(path string, parts ...[]byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".partial-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	for _, p := range parts {
		if _, err = tmp.Write(p); err != nil {
			return fmt.Errorf("write %s: %w", tmp.Name(), err)
		}
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
