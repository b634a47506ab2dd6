package common

const (
	// MetaDataFileName is the JSON sidecar bundled in every backup zip.
	MetaDataFileName = "export.json"

	// ExportFileExtension is appended to every per-domain export file.
	ExportFileExtension = ".json"

	// Keys of the local bookkeeping table.
	LastBackupFileKey = "last_backup_file"
	LastBackupAtKey   = "last_backup_at"
	LastRestoreAtKey  = "last_restore_at"
)
