package config

import (
	"strings"
	"testing"

	"go.viam.com/test"

	"github.com/dfki-ric/phobos/derive"
	"github.com/dfki-ric/phobos/logging"
	"github.com/dfki-ric/phobos/utils"
)

func TestRead(t *testing.T) {
	t.Setenv("PHOBOS_MODEL_NAME", "rover")
	path := utils.ResolveFile("config/testdata/settings.json")
	settings, err := Read(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, settings, test.ShouldResemble, &Settings{
		ModelName:      "rover",
		SelectedOnly:   true,
		LinkScale:      0.5,
		LogLevel:       "debug",
		OutputDir:      ".",
		ConfigFilePath: path,
	})
	test.That(t, settings.DeriveOptions(), test.ShouldResemble, derive.Options{SelectedOnly: true})
	test.That(t, settings.Level(), test.ShouldEqual, logging.DEBUG)

	_, err = Read(utils.ResolveFile("config/testdata/missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFromReader(t *testing.T) {
	settings, err := FromReader("", strings.NewReader(`{}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, settings, test.ShouldResemble, Default())

	_, err = FromReader("", strings.NewReader(`{"link_scale": 1, "colour": "red"}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "colour")

	_, err = FromReader("", strings.NewReader(`{"link_scale": 0, "log_level": "loud", "output_dir": ""}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "link_scale must be positive")
	test.That(t, err.Error(), test.ShouldContainSubstring, `unknown log level: "loud"`)
	test.That(t, err.Error(), test.ShouldContainSubstring, "output_dir")
}

func TestInitLoggingSettings(t *testing.T) {
	logger := logging.NewBlankLogger("phobos")
	settings := Default()
	settings.LogLevel = "warn"

	InitLoggingSettings(logger, false, settings)
	test.That(t, logger.GetLevel(), test.ShouldEqual, logging.WARN)

	InitLoggingSettings(logger, true, settings)
	test.That(t, logger.GetLevel(), test.ShouldEqual, logging.DEBUG)
	InitLoggingSettings(logger, false, Default())
}
