// Package client bootstraps local persistence for the Chatkeeper CLI.
//
// InitDatabase opens the SQLite file and applies the embedded goose
// migrations; NewRepositories (or Open, which does both) returns the
// repository registry: the metadata key/value store used for bookkeeping and
// the domain repositories that take part in backups.
package client
