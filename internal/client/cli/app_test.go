package cli

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/chatkeeper/internal/client/config"
	"github.com/dmitrijs2005/chatkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/chatkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/chatkeeper/internal/common"
	"github.com/dmitrijs2005/chatkeeper/internal/logging"
)

type call struct {
	op, file, user, handle, password string
}

type fakeBackupService struct {
	calls []call
	err   error
}

func (f *fakeBackupService) CreateBackup(ctx context.Context, userID, clientID, userHandle string, password []byte) (string, error) {
	f.calls = append(f.calls, call{op: "create", user: userID, handle: userHandle, password: string(password)})
	return "/out/archive.ckbu", f.err
}

func (f *fakeBackupService) RestoreBackup(ctx context.Context, file, userID string, password []byte) error {
	f.calls = append(f.calls, call{op: "restore", file: file, user: userID, password: string(password)})
	return f.err
}

func newTestApp(t *testing.T, cfg *config.Config, input string) (*App, *fakeBackupService, *bytes.Buffer, metadata.Repository) {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))

	kv := metadata.NewSQLiteRepository(db)
	fb := &fakeBackupService{}
	out := &bytes.Buffer{}
	return &App{
		config:        cfg,
		backupService: fb,
		metadataRepo:  kv,
		log:           logging.NewNop(),
		reader:        bufio.NewReader(strings.NewReader(input)),
		out:           out,
	}, fb, out, kv
}

func TestRun_Create(t *testing.T) {
	stubPasswords(t, "pw", "pw")
	app, fb, out, _ := newTestApp(t, &config.Config{UserID: "u1", UserHandle: "alice"}, "")

	require.NoError(t, app.Run(context.Background(), []string{"-u", "u1", "create"}))

	require.Len(t, fb.calls, 1)
	assert.Equal(t, call{op: "create", user: "u1", handle: "alice", password: "pw"}, fb.calls[0])
	assert.Contains(t, out.String(), "/out/archive.ckbu")
}

func TestRun_CreatePromptsForUser(t *testing.T) {
	stubPasswords(t, "pw", "pw")
	app, fb, _, _ := newTestApp(t, &config.Config{}, "u9\n")

	require.NoError(t, app.Run(context.Background(), []string{"create"}))

	require.Len(t, fb.calls, 1)
	assert.Equal(t, "u9", fb.calls[0].user)
	assert.Equal(t, "u9", fb.calls[0].handle)
}

func TestRun_RestoreWithFile(t *testing.T) {
	stubPasswords(t, "pw")
	app, fb, _, _ := newTestApp(t, &config.Config{UserID: "u1"}, "")

	require.NoError(t, app.Run(context.Background(), []string{"restore", "-u", "u1", "-f", "x.ckbu"}))

	require.Len(t, fb.calls, 1)
	assert.Equal(t, call{op: "restore", file: "x.ckbu", user: "u1", password: "pw"}, fb.calls[0])
}

func TestRun_RestoreDefaultsToLastBackup(t *testing.T) {
	ctx := context.Background()
	stubPasswords(t, "pw")
	app, fb, _, kv := newTestApp(t, &config.Config{UserID: "u1"}, "")

	err := app.Run(ctx, []string{"restore"})
	require.Error(t, err)
	assert.Empty(t, fb.calls)

	last := filepath.Join(t.TempDir(), "last.ckbu")
	require.NoError(t, os.WriteFile(last, []byte("x"), 0o600))
	require.NoError(t, kv.Set(ctx, common.LastBackupFileKey, []byte(last)))
	require.NoError(t, app.Run(ctx, []string{"restore"}))
	require.Len(t, fb.calls, 1)
	assert.Equal(t, last, fb.calls[0].file)
}

func TestRun_RestoreDropsStaleLastBackup(t *testing.T) {
	ctx := context.Background()
	stubPasswords(t, "pw")
	app, fb, _, kv := newTestApp(t, &config.Config{UserID: "u1"}, "")

	gone := filepath.Join(t.TempDir(), "gone.ckbu")
	require.NoError(t, kv.Set(ctx, common.LastBackupFileKey, []byte(gone)))
	require.NoError(t, kv.Set(ctx, common.LastBackupAtKey, []byte("2024-07-09T15:04:05Z")))

	err := app.Run(ctx, []string{"restore"})
	require.ErrorIs(t, err, errNoArchive)
	assert.Contains(t, err.Error(), gone)
	assert.Empty(t, fb.calls)

	v, err := kv.Get(ctx, common.LastBackupFileKey)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = kv.Get(ctx, common.LastBackupAtKey)
	require.NoError(t, err)
	assert.NotNil(t, v, "only the file record is dropped")
}

func TestRun_RestoreWrongCredentials(t *testing.T) {
	stubPasswords(t, "pw")
	app, fb, _, _ := newTestApp(t, &config.Config{UserID: "u1"}, "")
	fb.err = common.ErrHashesDoNotMatch

	err := app.Run(context.Background(), []string{"restore", "-f", "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong password")
}

func TestRun_ServiceErrorIsWrapped(t *testing.T) {
	stubPasswords(t, "pw", "pw")
	app, fb, _, _ := newTestApp(t, &config.Config{UserID: "u1"}, "")
	boom := errors.New("boom")
	fb.err = boom

	err := app.Run(context.Background(), []string{"create"})
	require.ErrorIs(t, err, boom)
}

func TestRun_Status(t *testing.T) {
	ctx := context.Background()
	app, _, out, kv := newTestApp(t, &config.Config{}, "")

	require.NoError(t, app.Run(ctx, []string{"status"}))
	assert.Contains(t, out.String(), "No backup created yet")

	out.Reset()
	require.NoError(t, kv.Set(ctx, common.LastBackupFileKey, []byte("/out/a.ckbu")))
	require.NoError(t, kv.SetTime(ctx, common.LastBackupAtKey, time.Now()))
	require.NoError(t, app.Run(ctx, []string{"status"}))
	assert.Contains(t, out.String(), "Last backup: /out/a.ckbu")
	assert.Contains(t, out.String(), "Created at:")
	assert.NotContains(t, out.String(), "Last restore")
}

func TestRun_StatusReset(t *testing.T) {
	ctx := context.Background()
	app, _, out, kv := newTestApp(t, &config.Config{}, "")

	require.NoError(t, kv.Set(ctx, common.LastBackupFileKey, []byte("/out/a.ckbu")))
	require.NoError(t, kv.SetTime(ctx, common.LastRestoreAtKey, time.Now()))

	require.NoError(t, app.Run(ctx, []string{"status", "-reset"}))
	assert.Contains(t, out.String(), "cleared")

	all, err := kv.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"status"}))
	assert.Equal(t, "No backup created yet\n", out.String())
}

func TestRun_StatusRejectsGarbageTime(t *testing.T) {
	ctx := context.Background()
	app, _, _, kv := newTestApp(t, &config.Config{}, "")
	require.NoError(t, kv.Set(ctx, common.LastRestoreAtKey, []byte("soon")))

	err := app.Run(ctx, []string{"status"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a time")
}

func TestRun_Usage(t *testing.T) {
	app, _, out, _ := newTestApp(t, &config.Config{}, "")

	require.ErrorIs(t, app.Run(context.Background(), []string{"-u", "x"}), ErrUsage)
	require.NoError(t, app.Run(context.Background(), []string{"help"}))
	assert.Contains(t, out.String(), "usage")
	require.NoError(t, app.Close())
}
