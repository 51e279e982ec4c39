package tunadice

import "github.com/BurntSushi/toml"

// file config.go is the ambient configuration surface: the handful of knobs
// that change Roller behavior without changing the language itself. Loaded
// the same way internal/tqw loads a world file in the teacher repo, via
// BurntSushi/toml's Decode/DecodeFile.

// Config holds the tunable limits for a Roller.
type Config struct {
	// MaxRolls is the roll budget given to every RollContext a Roller
	// creates. See DefaultMaxRolls in context.go.
	MaxRolls int `toml:"max_rolls"`

	// ParseCacheSize bounds how many distinct expressions a Roller's parse
	// cache retains before evicting the least-frequently-used entry.
	ParseCacheSize int `toml:"parse_cache_size"`

	// CommentAmbiguitySuffixes extends the set of trailing lexemes the
	// comment-rescue parse (spec.md section 4.2) treats as a false-positive
	// continuation of the roll rather than genuine syntax. "*" is always
	// included regardless of what's configured here.
	CommentAmbiguitySuffixes []string `toml:"comment_ambiguity_suffixes"`
}

// DefaultConfig returns the Config a zero-value Roller effectively uses.
func DefaultConfig() Config {
	return Config{
		MaxRolls:       DefaultMaxRolls,
		ParseCacheSize: defaultParseCacheCapacity,
	}
}

// LoadConfig reads a TOML config file, applying DefaultConfig for any field
// the file doesn't set.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) ambiguitySuffixes() map[string]bool {
	set := map[string]bool{"*": true}
	for _, s := range c.CommentAmbiguitySuffixes {
		set[s] = true
	}
	return set
}
