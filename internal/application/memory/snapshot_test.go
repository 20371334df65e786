package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSnapshotFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readSnapshotFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRotateBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memory.json")

	writeSnapshotFile(t, path, "current")
	writeSnapshotFile(t, path+".1", "backup-1")
	writeSnapshotFile(t, path+".2", "backup-2")

	rotateBackups(path, 3)

	// 当前快照滚动为 .1，历史备份依次后移
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, "current", readSnapshotFile(t, path+".1"))
	assert.Equal(t, "backup-1", readSnapshotFile(t, path+".2"))
	assert.Equal(t, "backup-2", readSnapshotFile(t, path+".3"))
}

func TestRotateBackups_DropsOldest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memory.json")

	writeSnapshotFile(t, path, "gen-3")
	for i := 1; i <= 2; i++ {
		writeSnapshotFile(t, fmt.Sprintf("%s.%d", path, i), fmt.Sprintf("gen-%d", 3-i))
	}

	// keep=2 时最旧的一份被覆盖
	rotateBackups(path, 2)

	assert.Equal(t, "gen-3", readSnapshotFile(t, path+".1"))
	assert.Equal(t, "gen-2", readSnapshotFile(t, path+".2"))
	_, err := os.Stat(path + ".3")
	assert.True(t, os.IsNotExist(err))
}

func TestRotateBackups_NoSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memory.json")
	writeSnapshotFile(t, path+".1", "backup-1")

	// 没有当前快照时不做任何滚动
	rotateBackups(path, 3)

	assert.Equal(t, "backup-1", readSnapshotFile(t, path+".1"))
}
