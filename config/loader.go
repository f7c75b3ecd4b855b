package config

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"

	errs "github.com/useparagon/aws-secretsmanager-get-secrets/errors"
)

// lines decodes either a YAML sequence or a multiline string.
type lines []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *lines) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = SplitLines(node.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = cleanLines(items)
		return nil
	default:
		return errs.Newf(errs.CodeInvalidConfig, "line %d: expected a list or a multiline string", node.Line)
	}
}

// fileConfig mirrors Config with every field optional, so that only the keys
// present in the file override lower-precedence sources.
type fileConfig struct {
	SecretIDs      *lines  `yaml:"secret-ids"`
	OverwriteMode  *string `yaml:"overwrite-mode"`
	ParseJSON      *bool   `yaml:"parse-json-secrets"`
	PublicEnvVars  *lines  `yaml:"public-env-vars"`
	PublicNumerics *bool   `yaml:"public-numerics"`
	PublicValues   *lines  `yaml:"public-values"`
	OutputFile     *string `yaml:"output-file"`
}

// LoadFile reads a YAML configuration from path on fs and applies the keys it
// sets on top of base. base is modified and returned; a nil base starts from
// Default.
func LoadFile(fs billy.Filesystem, path string, base *Config) (*Config, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, errs.Wrap(err, errs.CodeIO, "failed to read configuration file "+path)
	}
	return Parse(data, base)
}

// LoadOSFile is LoadFile for a path on the host filesystem.
func LoadOSFile(path string, base *Config) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.CodeIO, fmt.Sprintf("resolve configuration file %q", path))
	}
	return LoadFile(osfs.New(filepath.Dir(abs)), filepath.Base(abs), base)
}

// Parse applies a YAML document on top of base. A nil base starts from Default.
func Parse(data []byte, base *Config) (*Config, error) {
	if base == nil {
		base = Default()
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, errs.Wrap(err, errs.CodeInvalidConfig, "failed to parse configuration")
	}

	if fc.SecretIDs != nil {
		base.SecretIDs = *fc.SecretIDs
	}
	if fc.OverwriteMode != nil {
		base.OverwriteMode = *fc.OverwriteMode
	}
	if fc.ParseJSON != nil {
		base.ParseJSON = *fc.ParseJSON
	}
	if fc.PublicEnvVars != nil {
		base.PublicEnvVars = *fc.PublicEnvVars
	}
	if fc.PublicNumerics != nil {
		base.PublicNumerics = *fc.PublicNumerics
	}
	if fc.PublicValues != nil {
		base.PublicValues = *fc.PublicValues
	}
	if fc.OutputFile != nil {
		base.OutputFile = *fc.OutputFile
	}
	return base, nil
}
