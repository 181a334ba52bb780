package jobs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCopiesDocuments(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "karma.json"), []byte(`{"users":{}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "filters.json"), []byte(`{"groups":{}}`), 0o644))
	// Не-JSON файлы игнорируются
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	s := NewScheduler(dir, 7)
	require.NoError(t, s.Snapshot())

	karma, err := filepath.Glob(filepath.Join(dir, "backups", "karma.*.json"))
	require.NoError(t, err)
	require.Len(t, karma, 1)

	raw, err := os.ReadFile(karma[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"users":{}}`, string(raw))

	txt, err := filepath.Glob(filepath.Join(dir, "backups", "notes*"))
	require.NoError(t, err)
	assert.Empty(t, txt)
}

func TestSnapshotPrunesOldBackups(t *testing.T) {
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "backups")
	require.NoError(t, os.MkdirAll(backupDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "karma.json"), []byte(`{}`), 0o644))

	// Три старых снапшота при лимите 2: должны остаться два самых свежих
	for _, stamp := range []string{"2026-01-01", "2026-01-02", "2026-01-03"} {
		name := filepath.Join(backupDir, "karma."+stamp+".json")
		require.NoError(t, os.WriteFile(name, []byte(`{}`), 0o644))
	}

	s := NewScheduler(dir, 2)
	require.NoError(t, s.Snapshot())

	matches, err := filepath.Glob(filepath.Join(backupDir, "karma.*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	// Самый старый удалён
	_, err = os.Stat(filepath.Join(backupDir, "karma.2026-01-01.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestSnapshotKeepsBackupsOutOfSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "karma.json"), []byte(`{}`), 0o644))

	s := NewScheduler(dir, 7)
	require.NoError(t, s.Snapshot())
	// Повторный снапшот того же дня перезаписывает файл, а не плодит копии
	require.NoError(t, s.Snapshot())

	matches, err := filepath.Glob(filepath.Join(dir, "backups", "karma.*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
