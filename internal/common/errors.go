// Package common defines shared constants and sentinel errors used across
// the backup pipeline. Callers should use errors.Is / errors.As to match
// these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Crypto errors.
	ErrLibraryNotLoaded = errors.New("crypto library not loaded")
	ErrHashingFailed    = errors.New("hashing failed")
	ErrHashWrongSize    = errors.New("hash has wrong size")
	ErrEncryptionFailed = errors.New("encryption failed")
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrHashesDoNotMatch covers both a wrong password and a wrong account.
	ErrHashesDoNotMatch = errors.New("hashes do not match")

	// Header errors.
	ErrHeaderTooShort = errors.New("backup header too short")
	ErrInvalidHeader  = errors.New("invalid backup header")

	// Metadata / versioning errors.
	ErrNoMetaDataFile       = errors.New("no metadata file in backup")
	ErrUserIDInvalid        = errors.New("backup belongs to another user")
	ErrUnknownBackupVersion = errors.New("unknown backup version")

	// Repository errors.
	ErrorNotFound = errors.New("not found")

	// I/O errors.
	ErrZipCorrupt       = errors.New("zip archive corrupt")
	ErrIteratorConsumed = errors.New("iterator already consumed")
)

// UnknownBackupVersionError reports the version found in an archive that
// this build cannot restore. It matches ErrUnknownBackupVersion.
type UnknownBackupVersionError struct {
	Version int
}

func (e *UnknownBackupVersionError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnknownBackupVersion, e.Version)
}

func (e *UnknownBackupVersionError) Is(target error) bool {
	return target == ErrUnknownBackupVersion
}

// DomainError tells which domain repository failed during a fan-out.
type DomainError struct {
	Domain string
	Err    error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("domain %s: %v", e.Domain, e.Err)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}
