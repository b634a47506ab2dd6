package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/chatkeeper/internal/backup/archive"
	"github.com/dmitrijs2005/chatkeeper/internal/backup/encryption"
	bmeta "github.com/dmitrijs2005/chatkeeper/internal/backup/metadata"
	"github.com/dmitrijs2005/chatkeeper/internal/client/repositories/backup"
	"github.com/dmitrijs2005/chatkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/chatkeeper/internal/common"
	"github.com/dmitrijs2005/chatkeeper/internal/dbx"
	"github.com/dmitrijs2005/chatkeeper/internal/filex"
	"github.com/dmitrijs2005/chatkeeper/internal/logging"
)

type BackupService interface {
	// CreateBackup exports every domain, packs and encrypts the result and
	// returns the path of the archive.
	CreateBackup(ctx context.Context, userID, clientID, userHandle string, password []byte) (string, error)

	// RestoreBackup decrypts file, checks it belongs to userID and imports
	// every domain from it.
	RestoreBackup(ctx context.Context, file, userID string, password []byte) error
}

type BackupOptions struct {
	// OutputDir receives finished archives.
	OutputDir string
	// WorkDir is the parent of per-call scratch directories; empty means the
	// OS temp dir.
	WorkDir string
	// Workers caps how many domains run at once.
	Workers          int
	ProductName      string
	ArchiveExtension string
	// Now is used for the archive date; nil means time.Now.
	Now func() time.Time
}

type backupService struct {
	repos       []backup.Repository
	tx          dbx.TxRunner
	crypt       *encryption.Handler
	bookkeeping metadata.Repository
	opts        BackupOptions
	log         logging.Logger
}

// NewBackupService wires the domain repositories to the archive pipeline.
// A restore imports every domain inside one transaction from tx, so either
// all domains are applied or none. tx and bookkeeping may be nil.
func NewBackupService(
	repos []backup.Repository,
	tx dbx.TxRunner,
	crypt *encryption.Handler,
	bookkeeping metadata.Repository,
	opts BackupOptions,
	log logging.Logger,
) BackupService {
	if opts.Workers <= 0 {
		opts.Workers = len(repos)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &backupService{repos: repos, tx: tx, crypt: crypt, bookkeeping: bookkeeping, opts: opts, log: log}
}

// ArchiveName returns "<product>-<handle>-Backup_<yyyyMMdd>.<ext>".
func ArchiveName(product, userHandle, ext string, t time.Time) string {
	handle := strings.NewReplacer("/", "_", `\`, "_").Replace(userHandle)
	return fmt.Sprintf("%s-%s-Backup_%s.%s", product, handle, t.Format("20060102"), ext)
}

func (s *backupService) CreateBackup(ctx context.Context, userID, clientID, userHandle string, password []byte) (string, error) {
	work, err := filex.NewWorkDir(s.opts.WorkDir, "chatkeeper-backup-")
	if err != nil {
		return "", fmt.Errorf("work dir: %w", err)
	}
	defer os.RemoveAll(work)

	exportDir := filepath.Join(work, "export")
	if err := os.Mkdir(exportDir, 0o700); err != nil {
		return "", fmt.Errorf("work dir: %w", err)
	}

	s.log.Info(ctx, "creating backup", "user", userID, "domains", len(s.repos))

	perDomain, err := fanOut(ctx, s.repos, s.opts.Workers, func(ctx context.Context, r backup.Repository) ([]string, error) {
		return r.SaveBackup(ctx, exportDir)
	})
	if err != nil {
		s.log.Error(ctx, "domain export failed", "error", err)
		return "", err
	}

	var files []string
	for _, f := range perDomain {
		files = append(files, f...)
	}

	mdPath, err := bmeta.Write(exportDir, bmeta.New(userID, clientID, userHandle))
	if err != nil {
		return "", err
	}
	files = append(files, mdPath)

	zipPath, err := archive.Zip(ctx, filepath.Join(work, "backup.zip"), files)
	if err != nil {
		return "", fmt.Errorf("zip: %w", err)
	}
	s.log.Debug(ctx, "archive packed", "files", len(files))

	outDir, err := filex.EnsureDir(s.opts.OutputDir)
	if err != nil {
		return "", fmt.Errorf("output dir: %w", err)
	}

	now := s.opts.Now()
	name := ArchiveName(s.opts.ProductName, userHandle, s.opts.ArchiveExtension, now)
	out, err := s.crypt.EncryptBackup(ctx, zipPath, userID, password, filepath.Join(outDir, name))
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}

	if s.bookkeeping != nil {
		if err := s.bookkeeping.Set(ctx, common.LastBackupFileKey, []byte(out)); err != nil {
			s.log.Warn(ctx, "failed to record backup", "error", err)
		} else if err := s.bookkeeping.SetTime(ctx, common.LastBackupAtKey, now); err != nil {
			s.log.Warn(ctx, "failed to record backup", "error", err)
		}
	}

	s.log.Info(ctx, "backup created", "file", out)
	return out, nil
}

func (s *backupService) RestoreBackup(ctx context.Context, file, userID string, password []byte) error {
	work, err := filex.NewWorkDir(s.opts.WorkDir, "chatkeeper-restore-")
	if err != nil {
		return fmt.Errorf("work dir: %w", err)
	}
	defer os.RemoveAll(work)

	s.log.Info(ctx, "restoring backup", "file", file, "user", userID)

	zipPath, err := s.crypt.DecryptBackup(ctx, file, userID, password, filepath.Join(work, "backup.zip"))
	if err != nil {
		return fmt.Errorf("decrypt: %w", err)
	}

	contentDir := filepath.Join(work, "content")
	files, err := archive.Unzip(ctx, zipPath, contentDir)
	if err != nil {
		return fmt.Errorf("unzip: %w", err)
	}

	mdPath, err := bmeta.Find(files)
	if err != nil {
		return err
	}
	md, err := bmeta.Read(mdPath)
	if err != nil {
		return err
	}
	if err := md.Validate(userID); err != nil {
		s.log.Warn(ctx, "backup rejected", "error", err)
		return err
	}

	if err := s.importAll(ctx, contentDir); err != nil {
		s.log.Error(ctx, "domain import failed", "error", err)
		return err
	}

	if s.bookkeeping != nil {
		if err := s.bookkeeping.SetTime(ctx, common.LastRestoreAtKey, s.opts.Now()); err != nil {
			s.log.Warn(ctx, "failed to record restore", "error", err)
		}
	}

	s.log.Info(ctx, "backup restored", "file", file, "domains", len(s.repos))
	return nil
}

// importAll restores every domain from dir and commits only when all of them
// succeeded.
func (s *backupService) importAll(ctx context.Context, dir string) error {
	run := func(ctx context.Context, tx dbx.DBTX) error {
		_, err := fanOut(ctx, s.repos, s.opts.Workers, func(ctx context.Context, r backup.Repository) (struct{}, error) {
			return struct{}{}, r.RestoreBackup(ctx, dir, tx)
		})
		return err
	}
	if s.tx == nil {
		return run(ctx, nil)
	}
	return s.tx.WithTx(ctx, run)
}

// fanOut runs fn for every repository, at most limit at a time, and waits for
// all of them. If any failed, the failure of the earliest repository in repos
// is returned, regardless of which finished first.
func fanOut[R any](ctx context.Context, repos []backup.Repository, limit int, fn func(context.Context, backup.Repository) (R, error)) ([]R, error) {
	results := make([]R, len(repos))
	errs := make([]error, len(repos))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, r := range repos {
		g.Go(func() error {
			results[i], errs[i] = fn(ctx, r)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, &common.DomainError{Domain: repos[i].Name(), Err: err}
		}
	}
	return results, nil
}
