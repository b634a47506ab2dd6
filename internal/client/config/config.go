package config

// Config holds runtime settings for the Chatkeeper CLI.
type Config struct {
	// DatabasePath is the local SQLite file.
	DatabasePath string
	// OutputDir receives finished backup archives.
	OutputDir string
	// WorkDir hosts per-call scratch directories; empty means the OS temp dir.
	WorkDir string
	// BatchSize is the number of rows read per query during export.
	BatchSize int
	// Workers caps how many domains are exported or imported at once.
	Workers int

	ProductName      string
	ArchiveExtension string

	// Identity of the signed-in account. Backups are bound to UserID.
	UserID     string
	ClientID   string
	UserHandle string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "chatkeeper.db"
	c.OutputDir = "backups"
	c.WorkDir = ""
	c.BatchSize = 1000
	c.Workers = 4
	c.ProductName = "Chatkeeper"
	c.ArchiveExtension = "ckbu"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
