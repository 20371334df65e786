package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("TEST_EXPAND_HOST", "db.internal")
	os.Unsetenv("TEST_EXPAND_MISSING")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "环境变量已设置",
			input: "host: ${TEST_EXPAND_HOST}",
			want:  "host: db.internal",
		},
		{
			name:  "环境变量已设置时忽略默认值",
			input: "host: ${TEST_EXPAND_HOST:localhost}",
			want:  "host: db.internal",
		},
		{
			name:  "未设置时使用默认值",
			input: "host: ${TEST_EXPAND_MISSING:localhost}",
			want:  "host: localhost",
		},
		{
			name:  "默认值可以为空",
			input: "key: ${TEST_EXPAND_MISSING:}",
			want:  "key: ",
		},
		{
			name:  "无默认值且未设置时保留原样",
			input: "host: ${TEST_EXPAND_MISSING}",
			want:  "host: ${TEST_EXPAND_MISSING}",
		},
		{
			name:  "同一行多个占位符",
			input: "${TEST_EXPAND_HOST}:${TEST_EXPAND_MISSING:5432}",
			want:  "db.internal:5432",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnv(tt.input))
		})
	}
}

func TestLoadFrom(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  name: longnovel-test
server:
  http:
    host: 127.0.0.1
    port: ${TEST_CFG_PORT:8080}
generation:
  chapter_words: 2500
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "longnovel-test", cfg.App.Name)
	assert.Equal(t, "127.0.0.1", cfg.Server.HTTP.Host)
	assert.Equal(t, 9090, cfg.Server.HTTP.Port)
	assert.Equal(t, 2500, cfg.Generation.ChapterWords)

	// 未出现在文件中的配置项回落到默认值
	assert.Equal(t, 5, cfg.Memory.RecentWindow)
	assert.Equal(t, 60.0, cfg.Consistency.PassThreshold)
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
