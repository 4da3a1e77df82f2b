package static

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "serve.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"build_directory":"./dist","port":9000}`), 0o600))

	tests := []struct {
		name string
		args []string
		want Config
	}{
		{"defaults", nil, Config{BuildDirectory: "./build", Port: 8080, LogFormat: "json"}},
		{"port wins over p", []string{"-port", "3000", "-p", "4000"}, Config{BuildDirectory: "./build", Port: 3000, LogFormat: "json"}},
		{"p alone", []string{"-p=4000"}, Config{BuildDirectory: "./build", Port: 4000, LogFormat: "json"}},
		{"build directory", []string{"-build_directory", "/srv/www", "-log", "text"}, Config{BuildDirectory: "/srv/www", Port: 8080, LogFormat: "text"}},
		{"json then flags", []string{"-c", jsonPath, "-p", "81"}, Config{BuildDirectory: "./dist", Port: 81, LogFormat: "json"}},
		{"unknown flags ignored", []string{"-x", "-port", "5000"}, Config{BuildDirectory: "./build", Port: 5000, LogFormat: "json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadConfig(tt.args)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig([]string{"-port", "70000"})
	assert.Error(t, err)

	_, err = LoadConfig([]string{"-port", "abc"})
	assert.Error(t, err)

	_, err = LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	assert.ErrorContains(t, err, "read config")
}

func TestConfig_Addr(t *testing.T) {
	c := &Config{Port: 8080}
	assert.Equal(t, ":8080", c.Addr())
}
