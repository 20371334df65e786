package handler

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSnapshotPath(t *testing.T) {
	base := filepath.Join("outputs", "memory")

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "plain file name anchored to memory dir",
			input: "proj-1_memory.json",
			want:  filepath.Join(base, "proj-1_memory.json"),
		},
		{
			name:  "exported path passed back verbatim",
			input: filepath.Join(base, "proj-1_memory.json"),
			want:  filepath.Join(base, "proj-1_memory.json"),
		},
		{
			name:    "absolute path rejected",
			input:   string(filepath.Separator) + filepath.Join("etc", "passwd"),
			wantErr: true,
		},
		{
			name:    "traversal out of memory dir rejected",
			input:   filepath.Join("..", "..", "etc", "passwd"),
			wantErr: true,
		},
		{
			name:    "traversal hidden behind memory dir prefix rejected",
			input:   filepath.Join(base, "..", "..", "..", "etc", "passwd"),
			wantErr: true,
		},
		{
			name:    "empty path rejected",
			input:   "  ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveSnapshotPath(base, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
