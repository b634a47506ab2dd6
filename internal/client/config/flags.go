package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/chatkeeper/internal/flagx"
)

var knownFlags = []string{"-d", "-o", "-w", "-b", "-p", "-x", "-u", "-l", "-n"}

// parseFlags populates Config fields from command-line flags.
//
//	-d string   local database file
//	-o string   output directory for archives
//	-w string   parent directory for scratch files
//	-b int      export batch size
//	-p int      number of domains processed in parallel
//	-x string   archive file extension
//	-u string   user id
//	-l string   client id
//	-n string   user handle
//
// os.Args is filtered with flagx.FilterArgs first, so subcommands and their
// own flags are left alone.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "output directory for backups")
	fs.StringVar(&cfg.WorkDir, "w", cfg.WorkDir, "directory for temporary files")
	fs.IntVar(&cfg.BatchSize, "b", cfg.BatchSize, "rows read per batch")
	fs.IntVar(&cfg.Workers, "p", cfg.Workers, "domains processed in parallel")
	fs.StringVar(&cfg.ArchiveExtension, "x", cfg.ArchiveExtension, "backup file extension")
	fs.StringVar(&cfg.UserID, "u", cfg.UserID, "user id")
	fs.StringVar(&cfg.ClientID, "l", cfg.ClientID, "client id")
	fs.StringVar(&cfg.UserHandle, "n", cfg.UserHandle, "user handle")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
