package scene

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/a8m/envsubst"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// supportedVersions is the range of scene file versions this package reads.
const supportedVersions = ">= 2.0.0, < 3.0.0"

// ReadFile reads a scene file. Environment variables in the file are substituted before decoding.
func ReadFile(path string) (*Scene, error) {
	buf, err := envsubst.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read scene file %q", path)
	}
	s, err := Read(bytes.NewReader(buf))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid scene file %q", path)
	}
	return s, nil
}

// Read decodes a scene and checks its version and structure.
func Read(r io.Reader) (*Scene, error) {
	var s Scene
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "cannot decode scene")
	}
	if err := checkVersion(s.Version); err != nil {
		return nil, err
	}
	if s.Texts == nil {
		s.Texts = map[string]string{}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	for _, o := range s.Objects {
		if o.Properties == nil {
			o.Properties = Properties{}
		}
	}
	return &s, nil
}

func checkVersion(version string) error {
	if version == "" {
		return errors.New("scene has no version")
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(err, "invalid scene version %q", version)
	}
	constraint, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return errors.Errorf("unsupported scene version %s, need %s", v, supportedVersions)
	}
	return nil
}

// Write encodes the scene as indented JSON.
func (s *Scene) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteFile writes the scene to path.
func (s *Scene) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Schema returns the JSON schema of the scene file format.
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&Scene{})
}
