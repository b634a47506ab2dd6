// Package backup adapts the local domain stores to the backup pipeline.
//
// Every data domain (messages, likes, users) is exposed as a Repository that
// can dump itself into a JSON-lines file inside a work directory and load
// itself back from that directory. The orchestrating service treats all
// repositories alike and does not know which domain it is talking to.
package backup

import (
	"context"

	"github.com/dmitrijs2005/chatkeeper/internal/dbx"
)

type Repository interface {
	// Name identifies the domain. It is also the base name of its export file.
	Name() string

	// SaveBackup writes the domain content into dir and returns the files it
	// produced.
	SaveBackup(ctx context.Context, dir string) ([]string, error)

	// RestoreBackup loads the domain content from the files in dir through
	// tx. The caller owns tx and decides whether it commits. A nil tx makes
	// the repository run its own transaction.
	RestoreBackup(ctx context.Context, dir string, tx dbx.DBTX) error
}
