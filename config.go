package defold

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ConfigFormat is the encoding of an options file.
type ConfigFormat string

const (
	// ConfigTOML is a TOML options file.
	ConfigTOML ConfigFormat = "toml"
	// ConfigYAML is a YAML options file.
	ConfigYAML ConfigFormat = "yaml"
)

// ConfigFormatForPath picks the options encoding from a file extension.
func ConfigFormatForPath(path string) (ConfigFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ConfigTOML, nil
	case ".yaml", ".yml":
		return ConfigYAML, nil
	default:
		return "", errors.Wrapf(ErrInvalidConfig, "unknown options file extension %q", filepath.Ext(path))
	}
}

// LoadOptions reads options from a .toml, .yaml or .yml file.
func LoadOptions(path string) (*Options, error) {
	format, err := ConfigFormatForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open options file")
	}
	defer f.Close()

	opt, err := DecodeOptions(f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "options file %q", path)
	}

	return opt, nil
}

// DecodeOptions reads options in the given encoding.
// Fields the input leaves out keep their defaults when the options are used.
func DecodeOptions(r io.Reader, format ConfigFormat) (*Options, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read options")
	}

	opt := &Options{}
	switch format {
	case ConfigTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(opt); err != nil {
			return nil, errors.Wrapf(ErrInvalidConfig, "toml: %v", err)
		}
	case ConfigYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(opt); err != nil && err != io.EOF {
			return nil, errors.Wrapf(ErrInvalidConfig, "yaml: %v", err)
		}
	default:
		return nil, errors.Wrapf(ErrInvalidConfig, "unknown options format %q", format)
	}

	return opt, nil
}

// EncodeOptions writes the effective options, defaults included, in the given encoding.
func EncodeOptions(w io.Writer, opt *Options, format ConfigFormat) error {
	eff := opt.normalize()
	eff.Logger = nil

	switch format {
	case ConfigTOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(eff), "toml")
	case ConfigYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(eff); err != nil {
			return errors.Wrap(err, "yaml")
		}
		return errors.Wrap(enc.Close(), "yaml")
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown options format %q", format)
	}
}
