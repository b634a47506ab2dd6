// Package cryptox wraps the password hashing function and the AEAD used to
// protect backup archives.
//
// The native boundary is the Library interface: size queries plus opaque
// byte-buffer operations that report an integer status, the way a C crypto
// library would. Crypto sits on top of it, validates every externally
// influenced buffer length and turns statuses into errors where the callers
// need them.
//
// The shipped Library is argon2id (golang.org/x/crypto/argon2) for key
// derivation and XChaCha20-Poly1305 (golang.org/x/crypto/chacha20poly1305)
// for encryption.
//
// Status convention: StatusOK (0) is success; any other value, typically
// StatusFailed (-1), is failure. The convention is the same for Seal and Open.
package cryptox
