package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/dfki-ric/phobos/config"
	"github.com/dfki-ric/phobos/create"
	"github.com/dfki-ric/phobos/derive"
	"github.com/dfki-ric/phobos/logging"
	"github.com/dfki-ric/phobos/model"
	"github.com/dfki-ric/phobos/scene"
	"github.com/dfki-ric/phobos/urdf"
)

// sceneExtension is the file extension of written scene files.
const sceneExtension = "json"

// phobosContext carries the settings and logger shared by the actions of one invocation.
type phobosContext struct {
	settings *config.Settings
	logger   logging.Logger
}

// newPhobosContext reads the settings file, applies the command line overrides and sets up logging to the
// application's error writer.
func newPhobosContext(c *cli.Context) (*phobosContext, error) {
	settings := config.Default()
	if path := c.Path(generalFlagConfig); path != "" {
		var err error
		if settings, err = config.Read(path); err != nil {
			return nil, errors.Wrapf(err, "cannot load settings from %q", path)
		}
	}
	if c.IsSet(flagSelectedOnly) {
		settings.SelectedOnly = c.Bool(flagSelectedOnly)
	}
	if name := c.String(flagName); name != "" {
		settings.ModelName = name
	}

	logger := logging.NewBlankLogger("phobos")
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	config.InitLoggingSettings(logger, c.Bool(generalFlagDebug), settings)
	return &phobosContext{settings: settings, logger: logger}, nil
}

// findRoot returns the named link object, or the only link object without a parent link.
func findRoot(s *scene.Scene, name string) (*scene.Object, error) {
	if name != "" {
		return s.Object(name)
	}
	roots := lo.Filter(s.ObjectsOfType(scene.LinkType), func(o *scene.Object, _ int) bool {
		return s.EffectiveParent(o, true) == nil
	})
	switch len(roots) {
	case 0:
		return nil, errors.New("scene has no link objects")
	case 1:
		return roots[0], nil
	default:
		names := lo.Map(roots, func(o *scene.Object, _ int) string { return o.Name })
		return nil, errors.Errorf("scene has %d root links (%s), choose one with --%s",
			len(roots), strings.Join(names, ", "), flagRoot)
	}
}

func (pc *phobosContext) deriveRobot(scenePath, rootName string) (*model.Robot, error) {
	s, err := scene.ReadFile(scenePath)
	if err != nil {
		return nil, err
	}
	root, err := findRoot(s, rootName)
	if err != nil {
		return nil, err
	}
	d := derive.NewDeriver(s, pc.logger.Sublogger("derive"), pc.settings.DeriveOptions())
	return d.Robot(root, pc.settings.ModelName)
}

// outputPath is out, or a file named after the model in the output directory.
func (pc *phobosContext) outputPath(out, modelName, extension string) string {
	if out != "" {
		return out
	}
	return filepath.Join(pc.settings.OutputDir, modelName+"."+extension)
}

// export derives the robot of a scene file and writes it as URDF, returning the written file.
func (pc *phobosContext) export(scenePath, rootName, out string) (string, error) {
	robot, err := pc.deriveRobot(scenePath, rootName)
	if err != nil {
		return "", err
	}
	return urdf.WriteFile(pc.outputPath(out, robot.Name, urdf.Extension), robot)
}

// ExportAction is the corresponding action for 'export'.
func ExportAction(c *cli.Context) error {
	pc, err := newPhobosContext(c)
	if err != nil {
		return err
	}
	written, err := pc.export(c.Path(flagScene), c.String(flagRoot), c.Path(flagOut))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "exported %s\n", written)
	return nil
}

// ImportAction is the corresponding action for 'import'.
func ImportAction(c *cli.Context) error {
	pc, err := newPhobosContext(c)
	if err != nil {
		return err
	}
	robot, err := urdf.ReadFile(c.Path(flagURDF), pc.settings.ModelName)
	if err != nil {
		return err
	}
	s, err := create.BuildScene(robot, pc.logger.Sublogger("create"), create.BuildOptions{LinkScale: pc.settings.LinkScale})
	if err != nil {
		return err
	}
	out := pc.outputPath(c.Path(flagOut), robot.Name, sceneExtension)
	if err := s.WriteFile(out); err != nil {
		return errors.Wrapf(err, "cannot write scene file %q", out)
	}
	fmt.Fprintf(c.App.Writer, "imported %q to %s\n", robot.Name, out)
	return nil
}

// InspectAction is the corresponding action for 'inspect'.
func InspectAction(c *cli.Context) error {
	pc, err := newPhobosContext(c)
	if err != nil {
		return err
	}
	scenePath, urdfPath := c.Path(flagScene), c.Path(flagURDF)
	var robot *model.Robot
	switch {
	case scenePath != "" && urdfPath != "":
		return errors.Errorf("give either --%s or --%s, not both", flagScene, flagURDF)
	case scenePath != "":
		robot, err = pc.deriveRobot(scenePath, c.String(flagRoot))
	case urdfPath != "":
		robot, err = urdf.ReadFile(urdfPath, pc.settings.ModelName)
	default:
		return errors.Errorf("need --%s or --%s", flagScene, flagURDF)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, robotTable(robot))
	return nil
}

// SchemaAction is the corresponding action for 'schema'.
func SchemaAction(c *cli.Context) error {
	data, err := json.MarshalIndent(scene.Schema(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(data))
	return nil
}
