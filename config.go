package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// defaultConfigFile is read, if it exists, when -config is not given.
const defaultConfigFile = "~/.config/iview/config.toml"

// loadConfig reads the TOML file at path and sets the flags that were
// not given on the command line. The keys of the file are flag names:
//
//	w = "1600x1200"
//	view = "darkroom"
//	f = true
func loadConfig(flags *flag.FlagSet, path string, mustExist bool) error {
	name, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		if !mustExist && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: %w", err)
	}

	var values map[string]any
	if err := toml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("config: %s: %w", name, err)
	}

	given := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) {
		given[f.Name] = true
	})
	for _, k := range slices.Sorted(maps.Keys(values)) {
		if k == "config" || flags.Lookup(k) == nil {
			return fmt.Errorf("config: %s: unknown setting %q", name, k)
		}
		if given[k] {
			continue
		}
		if err := flags.Set(k, fmt.Sprint(values[k])); err != nil {
			return fmt.Errorf("config: %s: %s: %w", name, k, err)
		}
	}
	return nil
}
