package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/chatkeeper/internal/backup/encryption"
	"github.com/dmitrijs2005/chatkeeper/internal/client/client"
	"github.com/dmitrijs2005/chatkeeper/internal/client/config"
	"github.com/dmitrijs2005/chatkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/chatkeeper/internal/client/services"
	"github.com/dmitrijs2005/chatkeeper/internal/cryptox"
	"github.com/dmitrijs2005/chatkeeper/internal/logging"

	_ "modernc.org/sqlite"
)

var ErrUsage = errors.New("usage: chatkeeper [flags] create | restore [-f archive] | status [-reset]")

type App struct {
	config        *config.Config
	backupService services.BackupService
	metadataRepo  metadata.Repository
	log           logging.Logger
	reader        *bufio.Reader
	out           io.Writer
	closer        io.Closer
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repos, err := client.Open(ctx, c.DatabasePath, c.BatchSize, log)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	crypt := encryption.NewHandler(cryptox.Default(), log)
	bs := services.NewBackupService(repos.Domains, repos.Tx, crypt, repos.Metadata, services.BackupOptions{
		OutputDir:        c.OutputDir,
		WorkDir:          c.WorkDir,
		Workers:          c.Workers,
		ProductName:      c.ProductName,
		ArchiveExtension: c.ArchiveExtension,
	}, log)

	return &App{
		config:        c,
		backupService: bs,
		metadataRepo:  repos.Metadata,
		log:           log,
		reader:        bufio.NewReader(os.Stdin),
		out:           os.Stdout,
		closer:        repos,
	}, nil
}

func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Run executes the first command found in args. Global flags may appear
// anywhere before it and are skipped.
func (a *App) Run(ctx context.Context, args []string) error {
	cmd, rest := splitCommand(args)

	switch cmd {
	case "create":
		return a.create(ctx)
	case "restore":
		return a.restore(ctx, rest)
	case "status":
		return a.status(ctx, rest)
	case "help":
		fmt.Fprintln(a.out, ErrUsage.Error())
		return nil
	default:
		return ErrUsage
	}
}

var commands = map[string]struct{}{"create": {}, "restore": {}, "status": {}, "help": {}}

func splitCommand(args []string) (string, []string) {
	for i, arg := range args {
		if _, ok := commands[arg]; ok {
			return arg, args[i+1:]
		}
	}
	return "", nil
}

// ensureIdentity asks for the user id and handle when they were not
// configured.
func (a *App) ensureIdentity() error {
	if a.config.UserID == "" {
		v, err := GetSimpleText(a.reader, "User id", a.out)
		if err != nil {
			return err
		}
		a.config.UserID = v
	}
	if a.config.UserID == "" {
		return errors.New("user id is required")
	}
	if a.config.UserHandle == "" {
		a.config.UserHandle = a.config.UserID
	}
	return nil
}
