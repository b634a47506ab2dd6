package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/chatkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/chatkeeper/internal/common"
	"github.com/dmitrijs2005/chatkeeper/internal/flagx"
)

var timeLabels = []struct{ key, label string }{
	{common.LastBackupAtKey, "Created at"},
	{common.LastRestoreAtKey, "Last restore"},
}

// status prints the local bookkeeping. With -reset it forgets it instead.
func (a *App) status(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	reset := fs.Bool("reset", false, "forget the recorded backups and restores")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-reset"})); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if *reset {
		if err := a.metadataRepo.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Backup history cleared")
		return nil
	}

	entries, err := a.metadataRepo.List(ctx)
	if err != nil {
		return err
	}

	if file, ok := entries[common.LastBackupFileKey]; ok {
		fmt.Fprintf(a.out, "Last backup: %s\n", file)
	} else {
		fmt.Fprintln(a.out, "No backup created yet")
	}

	for _, k := range timeLabels {
		v, ok := entries[k.key]
		if !ok {
			continue
		}
		t, err := metadata.ParseTime(k.key, v)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s: %s\n", k.label, t.Local().Format(time.DateTime))
	}
	return nil
}
