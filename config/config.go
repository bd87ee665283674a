// Package config registers the application settings and loads them with viper
// from the TOML config file and SHORTDRAMA_* environment variables.
package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/shortdrama-cli/shortdrama/constant"
	"github.com/shortdrama-cli/shortdrama/filesystem"
	"github.com/shortdrama-cli/shortdrama/where"
	"github.com/spf13/viper"
)

const fileType = "toml"

// EnvKeyReplacer maps config keys to environment variable suffixes.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup registers defaults and env bindings, then reads the config file if there is one.
func Setup() error {
	viper.SetConfigName(constant.App)
	viper.SetConfigType(fileType)
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	err := viper.ReadInConfig()
	if errors.As(err, new(viper.ConfigFileNotFoundError)) {
		return nil
	}
	return err
}

// FilePath is where Write stores the config.
func FilePath() string {
	return filepath.Join(where.Config(), constant.App+"."+fileType)
}

// Write saves the current values, creating the file on first use.
func Write() error {
	err := viper.WriteConfig()
	if errors.As(err, new(viper.ConfigFileNotFoundError)) {
		return viper.SafeWriteConfigAs(FilePath())
	}
	return err
}

// Set validates words against the field registered under k and applies the result.
// It does not persist anything; call Write for that.
func Set(k string, words []string) (any, error) {
	field, err := Lookup(k)
	if err != nil {
		return nil, err
	}

	value, err := field.Parse(words)
	if err != nil {
		return nil, err
	}

	viper.Set(k, value)
	return value, nil
}

// Reset restores the default of k.
func Reset(k string) (any, error) {
	field, err := Lookup(k)
	if err != nil {
		return nil, err
	}

	viper.Set(k, field.Value)
	return field.Value, nil
}
