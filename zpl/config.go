// =============================================================================
// config.go - Configuration File and Flag Overrides
// =============================================================================
//
// The configuration is assembled in three layers:
//
//	defaults  <  YAML file (--config or ZPL_CONFIG)  <  explicit flags
//
// There is no implicit discovery: without --config or ZPL_CONFIG the
// defaults are used as-is.
//
// Example file:
//
//	printer:
//	  host: 10.0.0.12
//	  port: 9100
//	  connect_timeout: 5s
//	  response_timeout: 2s
//	  keep_open: false
//	  density: 8
//	syntax:
//	  format_prefix: "^"
//	  control_prefix: "~"
//	  delimiter: ","
//	  line_breaks: true
//	charset: UTF8
//	log:
//	  level: info
//	  format: text
//	  file: ""
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zplcommander/zplcommander/zplprotocol"
)

// configEnvVar names the environment variable holding the config path.
const configEnvVar = "ZPL_CONFIG"

// Config is the complete CLI configuration.
type Config struct {
	Printer PrinterConfig `yaml:"printer"`
	Syntax  SyntaxConfig  `yaml:"syntax"`

	// Charset is a ^CI number or name. Empty leaves the printer's current
	// character set alone.
	Charset string `yaml:"charset"`

	Log LogConfig `yaml:"log"`
}

// PrinterConfig locates the printer and tunes the transport.
type PrinterConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	ResponseTimeout time.Duration `yaml:"response_timeout"`
	KeepOpen        bool          `yaml:"keep_open"`
	Density         int           `yaml:"density"`
}

// SyntaxConfig holds the prefixes and delimiter the printer is set to.
type SyntaxConfig struct {
	FormatPrefix  string `yaml:"format_prefix"`
	ControlPrefix string `yaml:"control_prefix"`
	Delimiter     string `yaml:"delimiter"`
	LineBreaks    bool   `yaml:"line_breaks"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// defaultConfig returns the configuration used when no file is given.
func defaultConfig() *Config {
	return &Config{
		Printer: PrinterConfig{
			Host:            "localhost",
			Port:            zplprotocol.DefaultPort,
			ConnectTimeout:  zplprotocol.ConnectionTimeout,
			ResponseTimeout: zplprotocol.ResponseTimeout,
			Density:         int(zplprotocol.Dots8),
		},
		Syntax: SyntaxConfig{
			FormatPrefix:  string(rune(zplprotocol.DefaultFormatPrefix)),
			ControlPrefix: string(rune(zplprotocol.DefaultControlPrefix)),
			Delimiter:     string(rune(zplprotocol.DefaultDelimiter)),
			LineBreaks:    true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// loadConfig reads the file at path over the defaults. An empty path falls
// back to ZPL_CONFIG, and then to the defaults alone.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		path = os.Getenv(configEnvVar)
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// validate reports the first problem found in c.
func (c *Config) validate() error {
	if c.Printer.Port < 1 || c.Printer.Port > 65535 {
		return fmt.Errorf("printer.port %d out of range", c.Printer.Port)
	}
	if c.Printer.ConnectTimeout <= 0 || c.Printer.ResponseTimeout <= 0 {
		return errors.New("printer timeouts must be positive")
	}
	switch zplprotocol.Density(c.Printer.Density) {
	case zplprotocol.Dots6, zplprotocol.Dots8, zplprotocol.Dots12, zplprotocol.Dots24:
	default:
		return fmt.Errorf("printer.density %d is not 6, 8, 12 or 24", c.Printer.Density)
	}

	chars := map[string]string{
		"format_prefix":  c.Syntax.FormatPrefix,
		"control_prefix": c.Syntax.ControlPrefix,
		"delimiter":      c.Syntax.Delimiter,
	}
	for name, v := range chars {
		if len(v) != 1 {
			return fmt.Errorf("syntax.%s must be exactly one character, got %q", name, v)
		}
	}
	if c.Syntax.FormatPrefix == c.Syntax.ControlPrefix ||
		c.Syntax.FormatPrefix == c.Syntax.Delimiter ||
		c.Syntax.ControlPrefix == c.Syntax.Delimiter {
		return errors.New("syntax prefixes and delimiter must differ")
	}

	if c.Charset != "" {
		if _, err := zplprotocol.ParseCharSet(c.Charset); err != nil {
			return fmt.Errorf("charset: %w", err)
		}
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format %q is not text or json", c.Log.Format)
	}
	return nil
}

// syntax returns the configured syntax. Call validate first.
func (c *Config) syntax() zplprotocol.Syntax {
	return zplprotocol.Syntax{
		FormatPrefix:  c.Syntax.FormatPrefix[0],
		ControlPrefix: c.Syntax.ControlPrefix[0],
		Delimiter:     c.Syntax.Delimiter[0],
	}
}

// labelOptions returns the options every label built by the CLI gets.
func (c *Config) labelOptions() []zplprotocol.LabelOption {
	return []zplprotocol.LabelOption{
		zplprotocol.WithSyntax(c.syntax()),
		zplprotocol.WithDensity(zplprotocol.Density(c.Printer.Density)),
		zplprotocol.WithLineBreaks(c.Syntax.LineBreaks),
	}
}

// renderOptions returns the options used to re-render parsed programs.
// Parsed text is already in the printer's encoding, so it is not encoded
// again.
func (c *Config) renderOptions() zplprotocol.RenderOptions {
	opts := zplprotocol.NewLabel(nil, c.labelOptions()...).RenderOptions()
	opts.Encode = false
	return opts
}

// charSet returns the configured character set and whether one was set.
func (c *Config) charSet() (zplprotocol.CharSet, bool) {
	if c.Charset == "" {
		return 0, false
	}
	cs, err := zplprotocol.ParseCharSet(c.Charset)
	return cs, err == nil
}

// address joins host with the configured port unless host carries its own.
func (c *Config) address(host string) string {
	if host == "" {
		host = c.Printer.Host
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, strconv.Itoa(c.Printer.Port))
}
