package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":          "9000",
		"EMPTY":         "",
		"BAD_INT":       "ten",
		"NEGATIVE":      "-3",
		"FLAG":          "true",
		"BAD_FLAG":      "maybe",
		"ORIGINS":       " https://a.example , ,https://b.example",
		"TIMEOUT":       "15",
		"PADDED_NUMBER": " 42 ",
	}

	assert.Equal(t, "9000", GetString(c, "PORT", "8080"))
	assert.Equal(t, "8080", GetString(c, "EMPTY", "8080"))
	assert.Equal(t, "8080", GetString(c, "MISSING", "8080"))
	assert.Equal(t, "8080", GetString(nil, "PORT", "8080"))

	assert.Equal(t, 9000, GetInt(c, "PORT", 1))
	assert.Equal(t, 42, GetInt(c, "PADDED_NUMBER", 1))
	assert.Equal(t, 1, GetInt(c, "BAD_INT", 1))
	assert.Equal(t, -3, GetInt(c, "NEGATIVE", 1))
	assert.Equal(t, 10, GetPositiveInt(c, "NEGATIVE", 10))

	assert.True(t, GetBool(c, "FLAG", false))
	assert.False(t, GetBool(c, "BAD_FLAG", false))
	assert.True(t, GetBool(c, "MISSING", true))

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, GetList(c, "ORIGINS"))
	assert.Nil(t, GetList(c, "MISSING"))

	assert.Equal(t, 15*time.Second, GetSeconds(c, "TIMEOUT", 30))
	assert.Equal(t, 30*time.Second, GetSeconds(c, "MISSING", 30))
}

func TestNewSnapshotsEnvironment(t *testing.T) {
	t.Setenv("TAGBLOG_TEST_VALUE", "a=b=c")

	c := New()
	assert.Equal(t, "a=b=c", c["TAGBLOG_TEST_VALUE"])
}

func TestLoadSettingsFile(t *testing.T) {
	t.Run("explicit file is loaded without overriding the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.env")
		require.NoError(t, os.WriteFile(path, []byte("TAGBLOG_FROM_FILE=file\nTAGBLOG_ALREADY_SET=file\n"), 0o600))

		t.Setenv("TAGBLOG_SETTINGS_FILE", path)
		t.Setenv("TAGBLOG_ALREADY_SET", "env")
		t.Setenv("TAGBLOG_FROM_FILE", "")
		require.NoError(t, os.Unsetenv("TAGBLOG_FROM_FILE"))

		loaded, err := LoadSettingsFile()
		require.NoError(t, err)
		assert.Equal(t, path, loaded)
		assert.Equal(t, "file", os.Getenv("TAGBLOG_FROM_FILE"))
		assert.Equal(t, "env", os.Getenv("TAGBLOG_ALREADY_SET"))
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		t.Setenv("TAGBLOG_SETTINGS_FILE", filepath.Join(t.TempDir(), "nope.env"))

		_, err := LoadSettingsFile()
		assert.Error(t, err)
	})

	t.Run("missing default file is ignored", func(t *testing.T) {
		t.Setenv("TAGBLOG_SETTINGS_FILE", "")
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(t.TempDir()))
		t.Cleanup(func() { _ = os.Chdir(wd) })

		loaded, err := LoadSettingsFile()
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})
}
