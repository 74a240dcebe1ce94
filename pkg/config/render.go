package config

import (
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// Render serializes the effective configuration as TOML.
func Render(cfg *Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
