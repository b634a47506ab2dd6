package cryptox

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dmitrijs2005/chatkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap parameters keep the tests fast
var testParams = Argon2Params{Time: 1, MemoryKiB: 64, Threads: 1}

func newTestCrypto() *Crypto {
	return New(NewArgon2Library(testParams))
}

// stubLibrary wraps the real library and lets tests force failures.
type stubLibrary struct {
	Library
	loadErr   error
	loads     int
	pwHashRC  int
	sealState Status
}

func (s *stubLibrary) Load() error {
	s.loads++
	return s.loadErr
}

func (s *stubLibrary) PwHash(out, password, salt []byte, ops, mem uint32) int {
	if s.pwHashRC != 0 {
		return s.pwHashRC
	}
	return s.Library.PwHash(out, password, salt, ops, mem)
}

func (s *stubLibrary) Seal(key, nonce, plaintext []byte) ([]byte, Status) {
	if s.sealState != StatusOK {
		return nil, s.sealState
	}
	return s.Library.Seal(key, nonce, plaintext)
}

func newStub() *stubLibrary {
	return &stubLibrary{Library: NewArgon2Library(testParams)}
}

func TestLoadLibrary_RunsOnce(t *testing.T) {
	stub := newStub()
	c := New(stub)

	require.NoError(t, c.LoadLibrary())
	require.NoError(t, c.LoadLibrary())
	_, err := c.GenerateSalt()
	require.NoError(t, err)

	assert.Equal(t, 1, stub.loads)
}

func TestLoadLibrary_FailureIsTerminal(t *testing.T) {
	stub := newStub()
	stub.loadErr = errors.New("dlopen failed")
	c := New(stub)

	require.ErrorIs(t, c.LoadLibrary(), common.ErrLibraryNotLoaded)

	_, err := c.GenerateSalt()
	require.ErrorIs(t, err, common.ErrLibraryNotLoaded)
	_, err = c.GenerateNonce()
	require.ErrorIs(t, err, common.ErrLibraryNotLoaded)
	_, err = c.HashWithMessagePart([]byte("pw"), []byte("u1"))
	require.ErrorIs(t, err, common.ErrLibraryNotLoaded)
	_, err = c.DeriveKey([]byte("pw"), make([]byte, c.SaltBytes()))
	require.ErrorIs(t, err, common.ErrLibraryNotLoaded)

	_, st := c.Encrypt([]byte("x"), nil, nil)
	assert.False(t, st.OK())
	_, st = c.Decrypt([]byte("x"), nil, nil)
	assert.False(t, st.OK())

	assert.Equal(t, 1, stub.loads)
}

func TestArgon2Library_LoadRejectsBadParams(t *testing.T) {
	c := New(NewArgon2Library(Argon2Params{Time: 0, MemoryKiB: 64, Threads: 1}))
	require.ErrorIs(t, c.LoadLibrary(), common.ErrLibraryNotLoaded)
}

func TestGenerateSaltAndNonce_Sizes(t *testing.T) {
	c := newTestCrypto()

	salt1, err := c.GenerateSalt()
	require.NoError(t, err)
	salt2, err := c.GenerateSalt()
	require.NoError(t, err)
	nonce, err := c.GenerateNonce()
	require.NoError(t, err)

	assert.Len(t, salt1, c.SaltBytes())
	assert.Len(t, nonce, c.NonceBytes())
	assert.Equal(t, 16, c.SaltBytes())
	assert.Equal(t, 24, c.NonceBytes())
	if bytes.Equal(salt1, salt2) {
		t.Logf("warning: two salts are identical; extremely unlikely")
	}
}

func TestHashWithMessagePart(t *testing.T) {
	c := newTestCrypto()
	pw := []byte("secret-password")

	h1, err := c.HashWithMessagePart(pw, []byte("user-1"))
	require.NoError(t, err)
	h2, err := c.HashWithMessagePart(pw, []byte("user-1"))
	require.NoError(t, err)
	other, err := c.HashWithMessagePart(pw, []byte("user-2"))
	require.NoError(t, err)
	otherPw, err := c.HashWithMessagePart([]byte("secret-passwore"), []byte("user-1"))
	require.NoError(t, err)

	assert.Len(t, h1, c.HashBytes())
	assert.Equal(t, h1, h2, "same inputs -> same hash")
	assert.NotEqual(t, h1, other, "different user -> different hash")
	assert.NotEqual(t, h1, otherPw, "different password -> different hash")
}

func TestHashWithMessagePart_NegativeStatus(t *testing.T) {
	stub := newStub()
	stub.pwHashRC = -1
	c := New(stub)

	_, err := c.HashWithMessagePart([]byte("pw"), []byte("u1"))
	require.ErrorIs(t, err, common.ErrHashingFailed)

	_, err = c.DeriveKey([]byte("pw"), make([]byte, c.SaltBytes()))
	require.ErrorIs(t, err, common.ErrHashingFailed)
}

func TestDeriveKey(t *testing.T) {
	c := newTestCrypto()
	salt1 := bytes.Repeat([]byte{1}, c.SaltBytes())
	salt2 := bytes.Repeat([]byte{2}, c.SaltBytes())

	k1, err := c.DeriveKey([]byte("pw"), salt1)
	require.NoError(t, err)
	k1again, err := c.DeriveKey([]byte("pw"), salt1)
	require.NoError(t, err)
	k2, err := c.DeriveKey([]byte("pw"), salt2)
	require.NoError(t, err)

	assert.Len(t, k1, c.EncryptExpectedKeyBytes())
	assert.Equal(t, k1, k1again)
	assert.NotEqual(t, k1, k2, "different salts must give different keys")
}

func TestDeriveKey_RejectsWrongSaltSize(t *testing.T) {
	c := newTestCrypto()
	_, err := c.DeriveKey([]byte("pw"), []byte("short"))
	require.ErrorIs(t, err, common.ErrInvalidHeader)
}

func TestCheckExpectedKeySize(t *testing.T) {
	c := newTestCrypto()

	require.NoError(t, c.CheckExpectedKeySize(32, 32, true))

	err := c.CheckExpectedKeySize(31, 32, true)
	require.ErrorIs(t, err, common.ErrHashWrongSize)
	assert.Contains(t, err.Error(), "encryption")

	err = c.CheckExpectedKeySize(33, 32, false)
	require.ErrorIs(t, err, common.ErrHashWrongSize)
	assert.Contains(t, err.Error(), "decryption")
}

func TestEncryptDecrypt_StatusConvention(t *testing.T) {
	c := newTestCrypto()
	key := bytes.Repeat([]byte{7}, c.EncryptExpectedKeyBytes())
	nonce, err := c.GenerateNonce()
	require.NoError(t, err)

	ct, st := c.Encrypt([]byte("hello"), nonce, key)
	require.Equal(t, StatusOK, st)
	assert.True(t, st.OK())

	pt, st := c.Decrypt(ct, nonce, key)
	require.Equal(t, StatusOK, st)
	assert.Equal(t, []byte("hello"), pt)

	ct[0] ^= 0xff
	_, st = c.Decrypt(ct, nonce, key)
	assert.Equal(t, StatusFailed, st, "tampered ciphertext")

	_, st = c.Encrypt([]byte("hello"), nonce[:5], key)
	assert.Equal(t, StatusFailed, st, "short nonce")

	_, st = c.Encrypt([]byte("hello"), nonce, key[:10])
	assert.Equal(t, StatusFailed, st, "short key")
	assert.Less(t, int(st), 0)
}

func TestDefault_IsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}
