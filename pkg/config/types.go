package config

import (
	"time"
)

// Config Global settings for the application
type Config struct {
	TemplateDirectory string   `yaml:"templateDirectory"`
	Extensions        []string `yaml:"extensions"`
	LogLevel          string   `yaml:"logLevel"`
	Mode              string   `yaml:"mode"`
	Exif              bool     `yaml:"exif"`
	Notify            bool     `yaml:"notify"`
}

// Watch The settings for a single watch session
//
// A Watch is built once at startup and handed to the watchdog which
// takes its own copy of Variables and Extensions.
type Watch struct {
	Directory    string
	PollInterval time.Duration
	Variables    map[string]interface{}
	Extensions   []string
}
