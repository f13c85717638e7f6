// Package config carries the application settings and saved job files.
package config

import (
	"github.com/spf13/viper"
)

// Settings is the process-wide configuration surface, fixed at startup.
type Settings struct {
	MaxRows         int
	Workers         int
	FilenamePattern string
	OutputDir       string
	LogFile         string
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		MaxRows:         5000,
		Workers:         4,
		FilenamePattern: "document_{index}",
		OutputDir:       "output",
		LogFile:         "docmerge.log",
	}
}

// BindDefaults registers the default values on v so a partial config
// file or environment override still yields a complete Settings.
func BindDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("max_rows", d.MaxRows)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("filename_pattern", d.FilenamePattern)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("log_file", d.LogFile)
}

// FromViper materializes Settings from v. Call BindDefaults first.
func FromViper(v *viper.Viper) Settings {
	return Settings{
		MaxRows:         v.GetInt("max_rows"),
		Workers:         v.GetInt("workers"),
		FilenamePattern: v.GetString("filename_pattern"),
		OutputDir:       v.GetString("output_dir"),
		LogFile:         v.GetString("log_file"),
	}
}
