package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joeycumines/go-shadowtree/mounting"
	"github.com/joeycumines/logiface"
	"gopkg.in/yaml.v3"
)

const (
	outputText = `text`
	outputYAML = `yaml`
)

// config is the file format accepted by --config. Flags override the values
// loaded from the file.
type config struct {
	LogLevel string `yaml:"log_level"`
	Output   string `yaml:"output"`
	Mode     string `yaml:"mode"`
	Verify   bool   `yaml:"verify"`
}

var levelNames = map[string]logiface.Level{
	`disabled`: logiface.LevelDisabled,
	`off`:      logiface.LevelDisabled,
	`emerg`:    logiface.LevelEmergency,
	`alert`:    logiface.LevelAlert,
	`crit`:     logiface.LevelCritical,
	`err`:      logiface.LevelError,
	`error`:    logiface.LevelError,
	`warning`:  logiface.LevelWarning,
	`warn`:     logiface.LevelWarning,
	`notice`:   logiface.LevelNotice,
	`info`:     logiface.LevelInformational,
	`debug`:    logiface.LevelDebug,
	`trace`:    logiface.LevelTrace,
}

func defaultConfig() config {
	return config{
		LogLevel: logiface.LevelWarning.String(),
		Output:   outputText,
		Mode:     mounting.ModeOptimizedMoves.String(),
	}
}

func loadConfig(name string, cfg *config) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf(`config: %w`, err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf(`config: %s: %w`, name, err)
	}
	return nil
}

// validate checks every value, returning the parsed level and mode.
func (x config) validate() (logiface.Level, mounting.Mode, error) {
	level, err := parseLevel(x.LogLevel)
	if err != nil {
		return 0, 0, err
	}
	mode, err := mounting.ParseMode(x.Mode)
	if err != nil {
		return 0, 0, fmt.Errorf(`config: %w`, err)
	}
	switch x.Output {
	case outputText, outputYAML:
	default:
		return 0, 0, fmt.Errorf(`config: unknown output %q`, x.Output)
	}
	return level, mode, nil
}

func parseLevel(s string) (logiface.Level, error) {
	if level, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return level, nil
	}
	return 0, fmt.Errorf(`config: unknown log level %q`, s)
}
