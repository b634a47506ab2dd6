package config

import (
	"os"

	"github.com/dmitrijs2005/chatkeeper/internal/flagx"
	"github.com/goccy/go-json"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent or
// zero fields leave the current value untouched.
type JsonConfig struct {
	DatabasePath     string `json:"database_path"`
	OutputDir        string `json:"output_dir"`
	WorkDir          string `json:"work_dir"`
	BatchSize        int    `json:"batch_size"`
	Workers          int    `json:"workers"`
	ProductName      string `json:"product_name"`
	ArchiveExtension string `json:"archive_extension"`
	UserID           string `json:"user_id"`
	ClientID         string `json:"client_id"`
	UserHandle       string `json:"user_handle"`
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. Without either flag it does nothing. Read and decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.OutputDir, jc.OutputDir)
	setString(&cfg.WorkDir, jc.WorkDir)
	setString(&cfg.ProductName, jc.ProductName)
	setString(&cfg.ArchiveExtension, jc.ArchiveExtension)
	setString(&cfg.UserID, jc.UserID)
	setString(&cfg.ClientID, jc.ClientID)
	setString(&cfg.UserHandle, jc.UserHandle)

	if jc.BatchSize > 0 {
		cfg.BatchSize = jc.BatchSize
	}
	if jc.Workers > 0 {
		cfg.Workers = jc.Workers
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
