package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetenvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "forty")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DURATION", "250ms")
	t.Setenv("TEST_SLICE", "a, b,,c")

	assert.Equal(t, 42, GetenvInt("TEST_INT", 1))
	assert.Equal(t, 1, GetenvInt("TEST_BAD_INT", 1))
	assert.Equal(t, 7, GetenvInt("TEST_MISSING", 7))
	assert.True(t, GetenvBool("TEST_BOOL", false))
	assert.Equal(t, 250*time.Millisecond, GetenvDuration("TEST_DURATION", time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, GetenvSlice("TEST_SLICE", nil))
	assert.Equal(t, "fallback", Getenv("TEST_MISSING", "fallback"))
}

func TestLoadDotEnvKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("DOTENV_NEW=from-file\nDOTENV_SET=from-file\n"), 0o600))
	t.Setenv("DOTENV_SET", "from-env")
	t.Setenv("DOTENV_NEW", "")
	require.NoError(t, os.Unsetenv("DOTENV_NEW"))

	LoadDotEnv(file, filepath.Join(dir, "missing.env"))
	assert.Equal(t, "from-file", os.Getenv("DOTENV_NEW"))
	assert.Equal(t, "from-env", os.Getenv("DOTENV_SET"))
}
