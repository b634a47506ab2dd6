package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/chatkeeper/internal/shared"
)

func (a *App) create(ctx context.Context) error {
	if err := a.ensureIdentity(); err != nil {
		return err
	}

	password, err := GetNewPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	file, err := a.backupService.CreateBackup(ctx, a.config.UserID, a.config.ClientID, a.config.UserHandle, password)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Fprintf(a.out, "Backup written to %s\n", file)
	return nil
}
