package backup

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/chatkeeper/internal/batchio"
	"github.com/dmitrijs2005/chatkeeper/internal/client/models"
	"github.com/dmitrijs2005/chatkeeper/internal/client/repositories/likes"
	"github.com/dmitrijs2005/chatkeeper/internal/client/repositories/messages"
	"github.com/dmitrijs2005/chatkeeper/internal/client/repositories/users"
	"github.com/dmitrijs2005/chatkeeper/internal/common"
	"github.com/dmitrijs2005/chatkeeper/internal/dbx"
	"github.com/dmitrijs2005/chatkeeper/internal/filex"
	"github.com/dmitrijs2005/chatkeeper/internal/logging"
)

// HandlerFactory binds a store handler to a database handle, which is a
// transaction during restore.
type HandlerFactory[T any] func(db dbx.DBTX) batchio.IOHandler[T]

// DomainRepository moves one entity type T between the database and its
// backup representation B.
type DomainRepository[T, B any] struct {
	name       string
	db         *sql.DB
	handler    HandlerFactory[T]
	converter  batchio.JSONConverter[B]
	toBackup   func(T) B
	fromBackup func(B) (T, error)
	log        logging.Logger
}

func NewDomainRepository[T, B any](
	name string,
	db *sql.DB,
	handler HandlerFactory[T],
	toBackup func(T) B,
	fromBackup func(B) (T, error),
	log logging.Logger,
) *DomainRepository[T, B] {
	return &DomainRepository[T, B]{
		name:       name,
		db:         db,
		handler:    handler,
		converter:  batchio.NewJSONConverter[B](),
		toBackup:   toBackup,
		fromBackup: fromBackup,
		log:        log.With("domain", name),
	}
}

func (r *DomainRepository[T, B]) Name() string {
	return r.name
}

func (r *DomainRepository[T, B]) fileName(dir string) string {
	return filepath.Join(dir, r.name+common.ExportFileExtension)
}

func (r *DomainRepository[T, B]) SaveBackup(ctx context.Context, dir string) ([]string, error) {
	out := batchio.NewFileIOHandler(r.fileName(dir), r.converter)

	rows := r.handler(r.db).ReadIterator(ctx)
	if err := out.Write(ctx, batchio.Map(batchio.Flatten(rows), r.toBackup)); err != nil {
		return nil, fmt.Errorf("export %s: %w", r.name, err)
	}

	r.log.Debug(ctx, "domain exported", "file", out.Path())
	return []string{out.Path()}, nil
}

// RestoreBackup imports the domain file through tx, or inside a transaction
// of its own when tx is nil. A missing file means the domain was empty when
// the backup was taken.
func (r *DomainRepository[T, B]) RestoreBackup(ctx context.Context, dir string, tx dbx.DBTX) error {
	path := r.fileName(dir)
	if !filex.Exists(path) {
		r.log.Warn(ctx, "no export file, skipping", "file", path)
		return nil
	}

	in := batchio.NewFileIOHandler(path, r.converter)
	load := func(ctx context.Context, db dbx.DBTX) error {
		return r.handler(db).Write(ctx, batchio.MapErr(in.ReadIterator(ctx), r.fromBackup))
	}

	var err error
	if tx != nil {
		err = load(ctx, tx)
	} else {
		err = dbx.WithTx(ctx, r.db, nil, load)
	}
	if err != nil {
		return fmt.Errorf("import %s: %w", r.name, err)
	}

	r.log.Debug(ctx, "domain imported", "file", path)
	return nil
}

// Domain names double as export file names.
const (
	MessagesDomain = "messages"
	LikesDomain    = "likes"
	UsersDomain    = "users"
)

// NewMessagesRepository exports messages in batches of batchSize.
func NewMessagesRepository(db *sql.DB, batchSize int, log logging.Logger) Repository {
	return NewDomainRepository(MessagesDomain, db,
		func(db dbx.DBTX) batchio.IOHandler[models.Message] {
			return batchio.NewBatchIOHandler[models.Message](messages.NewSQLiteRepository(db), batchSize)
		},
		models.MessageToBackup, models.MessageFromBackup, log)
}

func NewLikesRepository(db *sql.DB, batchSize int, log logging.Logger) Repository {
	return NewDomainRepository(LikesDomain, db,
		func(db dbx.DBTX) batchio.IOHandler[models.Like] {
			return batchio.NewBatchIOHandler[models.Like](likes.NewSQLiteRepository(db), batchSize)
		},
		models.LikeToBackup, models.LikeFromBackup, log)
}

// NewUsersRepository reads the user table in one go.
func NewUsersRepository(db *sql.DB, log logging.Logger) Repository {
	return NewDomainRepository(UsersDomain, db,
		func(db dbx.DBTX) batchio.IOHandler[models.User] {
			return batchio.NewSingleReadIOHandler[models.User](users.NewSQLiteRepository(db))
		},
		models.UserToBackup, models.UserFromBackup, log)
}

// NewDefaultRepositories returns every domain the client knows about.
func NewDefaultRepositories(db *sql.DB, batchSize int, log logging.Logger) []Repository {
	return []Repository{
		NewMessagesRepository(db, batchSize, log),
		NewLikesRepository(db, batchSize, log),
		NewUsersRepository(db, log),
	}
}
