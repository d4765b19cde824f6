// Package config holds the settings shared by the export and import commands.
package config

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/dfki-ric/phobos/derive"
	"github.com/dfki-ric/phobos/logging"
)

// DefaultLinkScale is the size multiplier of created links.
const DefaultLinkScale = 1.0

// Settings control how scenes are derived and created.
type Settings struct {
	// ModelName overrides the name found on the root link.
	ModelName string `json:"model_name,omitempty"`
	// SelectedOnly derives only selected objects.
	SelectedOnly bool `json:"selected_only"`
	// DuplicateMesh gives each mesh element its own mesh name.
	DuplicateMesh bool    `json:"duplicate_mesh"`
	LinkScale     float64 `json:"link_scale"`
	LogLevel      string  `json:"log_level"`
	// OutputDir is where exported files go unless a command names the file.
	OutputDir string `json:"output_dir"`

	// ConfigFilePath is the file the settings were read from, if any.
	ConfigFilePath string `json:"-"`
}

// Default returns the settings used without a settings file.
func Default() *Settings {
	return &Settings{
		LinkScale: DefaultLinkScale,
		LogLevel:  "info",
		OutputDir: ".",
	}
}

// Read reads settings from the given file. Environment variables are substituted before decoding.
func Read(filePath string) (*Settings, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(filePath, bytes.NewReader(buf))
}

// FromReader reads settings from the given reader and specifies where, if applicable, the file the reader
// originated from. Fields missing from the input keep their default.
func FromReader(originalPath string, r io.Reader) (*Settings, error) {
	settings := Default()
	settings.ConfigFilePath = originalPath
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(settings); err != nil {
		return nil, errors.Wrapf(err, "failed to decode settings from json")
	}
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid settings")
	}
	return settings, nil
}

// Validate returns every problem with the settings.
func (s *Settings) Validate() error {
	var err error
	if s.LinkScale <= 0 {
		err = multierr.Append(err, errors.Errorf("link_scale must be positive, got %g", s.LinkScale))
	}
	if _, levelErr := logging.LevelFromString(s.LogLevel); levelErr != nil {
		err = multierr.Append(err, levelErr)
	}
	if s.OutputDir == "" {
		err = multierr.Append(err, errors.New("output_dir must not be empty"))
	}
	return err
}

// DeriveOptions returns the options for a derive.Deriver.
func (s *Settings) DeriveOptions() derive.Options {
	return derive.Options{SelectedOnly: s.SelectedOnly, DuplicateMesh: s.DuplicateMesh}
}

// Level returns the configured log level, INFO when it does not parse.
func (s *Settings) Level() logging.Level {
	level, err := logging.LevelFromString(s.LogLevel)
	if err != nil {
		return logging.INFO
	}
	return level
}
