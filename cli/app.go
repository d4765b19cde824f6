// Package cli contains the phobos command line application.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	generalFlagConfig = "config"
	generalFlagDebug  = "debug"

	flagScene        = "scene"
	flagRoot         = "root"
	flagName         = "name"
	flagSelectedOnly = "selected-only"
	flagOut          = "out"
	flagURDF         = "urdf"
)

func sceneFlag(required bool) *cli.PathFlag {
	return &cli.PathFlag{
		Name:     flagScene,
		Aliases:  []string{"s"},
		Usage:    "scene `FILE` to read",
		Required: required,
	}
}

func urdfFlag(required bool) *cli.PathFlag {
	return &cli.PathFlag{
		Name:     flagURDF,
		Aliases:  []string{"u"},
		Usage:    "URDF `FILE` to read",
		Required: required,
	}
}

func rootFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  flagRoot,
		Usage: "root link of the robot, required when the scene holds more than one robot",
	}
}

func nameFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  flagName,
		Usage: "name of the model, overriding the settings and the scene",
	}
}

func outFlag() *cli.PathFlag {
	return &cli.PathFlag{
		Name:    flagOut,
		Aliases: []string{"o"},
		Usage:   "write to `FILE` instead of the output directory",
	}
}

// NewApp returns the phobos application writing its results to out and its logs to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "phobos",
		Usage:           "convert robot models between scene files and URDF",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    generalFlagConfig,
				Aliases: []string{"c"},
				Usage:   "load settings from `FILE`",
			},
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "export",
				Usage:     "derive a robot from a scene file and write it as URDF",
				UsageText: "phobos export --scene <scene.json> [--root <link>] [--out <robot.urdf>]",
				Flags: []cli.Flag{
					sceneFlag(true),
					rootFlag(),
					nameFlag(),
					&cli.BoolFlag{
						Name:  flagSelectedOnly,
						Usage: "derive only selected objects",
					},
					outFlag(),
				},
				Action: ExportAction,
			},
			{
				Name:      "import",
				Usage:     "read a URDF file and write it as a scene file",
				UsageText: "phobos import --urdf <robot.urdf> [--out <scene.json>]",
				Flags: []cli.Flag{
					urdfFlag(true),
					nameFlag(),
					outFlag(),
				},
				Action: ImportAction,
			},
			{
				Name:      "inspect",
				Usage:     "print the links and joints of a robot",
				UsageText: "phobos inspect (--scene <scene.json> [--root <link>] | --urdf <robot.urdf>)",
				Flags: []cli.Flag{
					sceneFlag(false),
					rootFlag(),
					urdfFlag(false),
				},
				Action: InspectAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of scene files",
				Action: SchemaAction,
			},
			{
				Name:      "watch",
				Usage:     "export a scene file again whenever it changes",
				UsageText: "phobos watch --scene <scene.json> [--root <link>] [--out <robot.urdf>]",
				Flags: []cli.Flag{
					sceneFlag(true),
					rootFlag(),
					nameFlag(),
					outFlag(),
				},
				Action: WatchAction,
			},
		},
	}
}
