// Package metadata holds the JSON sidecar that identifies a backup's owner
// and format version.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/chatkeeper/internal/common"
	"github.com/goccy/go-json"
)

// CurrentBackupVersion is the only archive format this build restores.
const CurrentBackupVersion = 1

// BackupMetaData is written once per backup and read once per restore.
type BackupMetaData struct {
	UserID        string `json:"userId"`
	ClientID      string `json:"clientId"`
	UserHandle    string `json:"userHandle"`
	BackUpVersion int    `json:"backUpVersion"`
}

// New returns metadata stamped with CurrentBackupVersion.
func New(userID, clientID, userHandle string) BackupMetaData {
	return BackupMetaData{
		UserID:        userID,
		ClientID:      clientID,
		UserHandle:    userHandle,
		BackUpVersion: CurrentBackupVersion,
	}
}

// Write stores md as common.MetaDataFileName inside dir and returns its path.
func Write(dir string, md BackupMetaData) (string, error) {
	data, err := json.Marshal(md)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	path := filepath.Join(dir, common.MetaDataFileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	return path, nil
}

// Read loads metadata from path.
func Read(path string) (BackupMetaData, error) {
	var md BackupMetaData

	data, err := os.ReadFile(path)
	if err != nil {
		return md, fmt.Errorf("read metadata: %w", err)
	}
	if err := json.Unmarshal(data, &md); err != nil {
		return md, fmt.Errorf("decode metadata: %w", err)
	}
	return md, nil
}

// Find returns the metadata file among files, or common.ErrNoMetaDataFile.
func Find(files []string) (string, error) {
	for _, f := range files {
		if filepath.Base(f) == common.MetaDataFileName {
			return f, nil
		}
	}
	return "", common.ErrNoMetaDataFile
}

// Validate checks that md belongs to userID and has a known version.
func (md BackupMetaData) Validate(userID string) error {
	if md.UserID != userID {
		return common.ErrUserIDInvalid
	}
	if md.BackUpVersion != CurrentBackupVersion {
		return &common.UnknownBackupVersionError{Version: md.BackUpVersion}
	}
	return nil
}
