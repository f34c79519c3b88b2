// Package iofs creates the files and directories transitdb needs and
// reads input datasets.
package iofs

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"

	"github.com/gnames/transitdb/pkg/config"
)

//go:embed config.yaml
var ConfigYAML string

// EnsureDirs creates config, cache, data and log directories under
// homeDir when they are missing.
func EnsureDirs(homeDir string) error {
	for _, dir := range []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.DataDir(homeDir),
		config.LogDir(homeDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return CreateDirError(dir, err)
		}
	}
	return nil
}

// EnsureConfigFile writes the default config.yaml unless a config file
// already exists.
func EnsureConfigFile(homeDir string) error {
	path := config.ConfigFilePath(homeDir)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return CopyFileError(path, err)
	}
	if err = os.WriteFile(path, []byte(ConfigYAML), 0o644); err != nil {
		return CopyFileError(path, err)
	}
	return nil
}

// ReadInput reads a dataset file from disk.
func ReadInput(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return nil, InputNotFoundError(path)
	}
	if err != nil {
		return nil, ReadFileError(path, err)
	}

	res, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}
	return res, nil
}
