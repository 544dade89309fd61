package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v2"
)

// DefaultTemplateDirectory Where templates and variables are read from when not configured
const DefaultTemplateDirectory = "templates"

// DefaultPollInterval Used when no valid poll rate is given
const DefaultPollInterval = 1 * time.Second

// TemplateName Name of the template rendered for every companion file
const TemplateName = "main"

// VariablesFile Name of the JSON document holding template variables
const VariablesFile = TemplateName + ".json"

// DefaultExtensions returns the file suffixes watched when none are configured.
func DefaultExtensions() []string {
	return []string{".jpg", ".png", ".jpeg"}
}

// New Create a new Config object
//
// Arguments:
//
// - configFile string The path to a YAML settings file. May be empty in which case defaults are used
//
// Return:
//
// - *Config A pointer to the loaded configuration
// - error   The last error which occured during loading
func New(configFile string) (c *Config, err error) {
	c = &Config{}

	log.SetFormatter(&log.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	if configFile != "" {
		if err = c.load(configFile); err != nil {
			return
		}
	}
	c.setDefaults()
	c.setupLogging()
	return
}

func expandHome(path *string) {
	var p string = (*path)
	if len(p) == 0 || p[0] != '~' {
		return
	}
	if len(p) == 1 {
		p = "~/"
	} else if p[1] != '/' {
		p = "~/" + p[1:]
	}

	dirname, _ := os.UserHomeDir()
	*path = filepath.Join(dirname, p[2:])
}

func (c *Config) load(filename string) (err error) {
	pwd, _ := os.Getwd()
	log.Infof("Loading config file %s", filepath.Join(pwd, filename))

	var f []byte
	if f, err = os.ReadFile(filename); err != nil {
		return fmt.Errorf("reading config file %q: %w", filename, err)
	}

	if err = yaml.Unmarshal(f, c); err != nil {
		return fmt.Errorf("parsing config file %q: %w", filename, err)
	}
	log.Info("Done loading config file")
	return
}

func (c *Config) setDefaults() {
	if c.TemplateDirectory == "" {
		c.TemplateDirectory = DefaultTemplateDirectory
	}
	expandHome(&c.TemplateDirectory)

	if len(c.Extensions) == 0 {
		c.Extensions = DefaultExtensions()
	}
}

// SetLogLevel Overrides the configured log level and reapplies it
func (c *Config) SetLogLevel(level string) {
	c.LogLevel = level
	c.setupLogging()
}

func (c *Config) setupLogging() {
	switch c.LogLevel {
	case "trace":
		log.SetReportCaller(true)
		log.SetLevel(log.TraceLevel)
	case "debug":
		log.SetReportCaller(true)
		log.SetLevel(log.DebugLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// LoadVariables Read the template variables from main.json in the template directory
//
// The document must be a JSON object. Anything else is an error.
func (c *Config) LoadVariables() (vars map[string]interface{}, err error) {
	var (
		filename string = filepath.Join(c.TemplateDirectory, VariablesFile)
		f        []byte
	)
	log.Debugf("Loading template variables from %s", filename)
	if f, err = os.ReadFile(filename); err != nil {
		return nil, fmt.Errorf("reading template variables: %w", err)
	}

	if err = json.Unmarshal(f, &vars); err != nil {
		return nil, fmt.Errorf("parsing template variables %q: %w", filename, err)
	}

	if vars == nil {
		return nil, fmt.Errorf("parsing template variables %q: document is not an object", filename)
	}
	return
}

// ParsePollRate Converts the poll rate argument into an interval
//
// Empty, non-numeric and non-positive values fall back to DefaultPollInterval.
// The returned bool is false when the fallback was used.
func ParsePollRate(rate string) (time.Duration, bool) {
	seconds, err := strconv.Atoi(rate)
	if err != nil || seconds <= 0 {
		return DefaultPollInterval, false
	}
	return time.Duration(seconds) * time.Second, true
}

// NewWatch Builds the settings for a watch session on directory
func (c *Config) NewWatch(directory string, interval time.Duration, vars map[string]interface{}) Watch {
	expandHome(&directory)
	if vars == nil {
		vars = make(map[string]interface{})
	}
	return Watch{
		Directory:    directory,
		PollInterval: interval,
		Variables:    vars,
		Extensions:   append([]string(nil), c.Extensions...),
	}
}
