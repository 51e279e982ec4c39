package tunadice

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DefaultConfig(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	assert.Equal(DefaultMaxRolls, cfg.MaxRolls)
	assert.Equal(defaultParseCacheCapacity, cfg.ParseCacheSize)
}

func Test_Config_ambiguitySuffixes_alwaysIncludesStar(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{}
	suf := cfg.ambiguitySuffixes()
	assert.True(suf["*"])
}

func Test_Config_ambiguitySuffixes_mergesConfigured(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{CommentAmbiguitySuffixes: []string{"#", "@"}}
	suf := cfg.ambiguitySuffixes()
	assert.True(suf["*"])
	assert.True(suf["#"])
	assert.True(suf["@"])
}

func Test_LoadConfig_appliesDefaultsForUnsetFields(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "tunadice.toml")
	err := os.WriteFile(path, []byte("max_rolls = 50\n"), 0o644)
	assert.NoError(err)

	cfg, err := LoadConfig(path)
	assert.NoError(err)
	assert.Equal(50, cfg.MaxRolls)
	assert.Equal(defaultParseCacheCapacity, cfg.ParseCacheSize, "unset fields keep their DefaultConfig value")
}

func Test_LoadConfig_missingFileErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(err)
}
