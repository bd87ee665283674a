// Package where resolves the directories and files the application keeps on disk.
// Directories are created on first use.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/constant"
	"github.com/shortdrama-cli/shortdrama/filesystem"
)

// EnvConfigPath overrides the config directory.
const EnvConfigPath = "SHORTDRAMA_CONFIG_PATH"

func mkdir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config is the user config directory, e.g. ~/.config/shortdrama on Linux.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return mkdir(custom)
	}

	return mkdir(filepath.Join(lo.Must(os.UserConfigDir()), constant.App))
}

// Cache holds data that can be rebuilt: API responses, suggestions, the event journal.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return mkdir(filepath.Join(base, constant.App))
}

func Logs() string {
	return mkdir(filepath.Join(Config(), "logs"))
}

// Temp holds player IPC sockets. It is wiped on startup.
func Temp() string {
	return mkdir(filepath.Join(os.TempDir(), constant.App))
}

// Personal data lives next to the config, rebuildable data in the cache.
var (
	Saved         = file(Config, "saved.json")
	History       = file(Config, "history.json")
	Notifications = file(Config, "notification_settings.json")
	Queries       = file(Cache, "queries.json")
	Events        = file(Cache, "events.jsonl")
)

func file(dir func() string, name string) func() string {
	return func() string {
		return filepath.Join(dir(), name)
	}
}
