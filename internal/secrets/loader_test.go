package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  top-secret \n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("   \n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	t.Setenv("MEDBRIDGE_TEST_SECRET", " from-env ")

	tests := []struct {
		name    string
		source  Source
		want    string
		wantErr string
	}{
		{
			name:   "inline value trimmed",
			source: Source{Name: "api key", Value: " abc "},
			want:   "abc",
		},
		{
			name:   "file wins over inline value",
			source: Source{Name: "api key", Value: "inline", File: keyFile},
			want:   "top-secret",
		},
		{
			name:   "env variable",
			source: Source{Name: "api key", Env: "MEDBRIDGE_TEST_SECRET"},
			want:   "from-env",
		},
		{
			name:   "env wins over inline value",
			source: Source{Name: "api key", Env: "MEDBRIDGE_TEST_SECRET", Value: "inline"},
			want:   "from-env",
		},
		{
			name:   "unset env falls back to inline value",
			source: Source{Name: "api key", Env: "MEDBRIDGE_TEST_UNSET", Value: "inline"},
			want:   "inline",
		},
		{
			name:    "empty file",
			source:  Source{Name: "api key", File: emptyFile},
			wantErr: "is empty",
		},
		{
			name:    "missing file",
			source:  Source{Name: "api key", File: filepath.Join(dir, "nope")},
			wantErr: "reading api key",
		},
		{
			name:    "nothing configured",
			source:  Source{Name: "webhook secret"},
			wantErr: "webhook secret is not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.source)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
