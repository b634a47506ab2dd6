package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/chatkeeper/internal/common"
	"github.com/dmitrijs2005/chatkeeper/internal/filex"
	"github.com/dmitrijs2005/chatkeeper/internal/flagx"
	"github.com/dmitrijs2005/chatkeeper/internal/shared"
)

var errNoArchive = errors.New("no archive given and no previous backup recorded")

// lastArchive returns the archive recorded by the last create. A record whose
// file is gone is dropped.
func (a *App) lastArchive(ctx context.Context) (string, error) {
	last, err := a.metadataRepo.Get(ctx, common.LastBackupFileKey)
	if err != nil {
		return "", err
	}
	if last == nil {
		return "", errNoArchive
	}

	file := string(last)
	if !filex.Exists(file) {
		if err := a.metadataRepo.Delete(ctx, common.LastBackupFileKey); err != nil {
			a.log.Warn(ctx, "failed to drop stale backup record", "error", err)
		}
		return "", fmt.Errorf("%w: %s no longer exists", errNoArchive, file)
	}
	return file, nil
}

// restore imports the archive given with -f, or the last one this client
// created. Global flags after the command are ignored here.
func (a *App) restore(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	file := fs.String("f", "", "backup archive to restore")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-f"})); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if *file == "" {
		last, err := a.lastArchive(ctx)
		if err != nil {
			return err
		}
		*file = last
	}

	if err := a.ensureIdentity(); err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	if err := a.backupService.RestoreBackup(ctx, *file, a.config.UserID, password); err != nil {
		if errors.Is(err, common.ErrHashesDoNotMatch) {
			return errors.New("wrong password or backup belongs to another account")
		}
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Fprintf(a.out, "Restored %s\n", *file)
	return nil
}
