package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/useparagon/aws-secretsmanager-get-secrets/envname"
	errs "github.com/useparagon/aws-secretsmanager-get-secrets/errors"
)

type mapInputs map[string]string

func (m mapInputs) GetInput(name string) string { return m[name] }

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "test/one", want: []string{"test/one"}},
		{
			name: "trims and drops blanks",
			in:   "  test/one \n\n\tSECRET_ALIAS, app/secret\r\n",
			want: []string{"test/one", "SECRET_ALIAS, app/secret"},
		},
		{
			name: "dedupes keeping first",
			in:   "b\na\nb\n a",
			want: []string{"b", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.in))
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, in := range []string{"true", "True", "TRUE", " true "} {
		got, err := ParseBool("x", in)
		require.NoError(t, err, in)
		assert.True(t, got, in)
	}
	for _, in := range []string{"", "false", "False", "FALSE"} {
		got, err := ParseBool("x", in)
		require.NoError(t, err, in)
		assert.False(t, got, in)
	}
	for _, in := range []string{"yes", "1", "tRuE", "on"} {
		_, err := ParseBool("parse-json-secrets", in)
		require.Error(t, err, in)
		assert.Equal(t, errs.CodeInvalidConfig, errs.CodeOf(err))
		assert.Contains(t, err.Error(), "parse-json-secrets")
	}
}

func TestFromInputs(t *testing.T) {
	cfg, err := FromInputs(mapInputs{
		InputSecretIDs:      "test/one\nSECRET_ALIAS,app/secret\ntest/one",
		InputOverwriteMode:  "warn",
		InputParseJSON:      "true",
		InputPublicEnvVars:  "DB_HOST\nDB_PORT",
		InputPublicNumerics: "TRUE",
		InputPublicValues:   "us-east-1",
		InputOutputFile:     " .env ",
	})
	require.NoError(t, err)

	assert.Equal(t, &Config{
		SecretIDs:      []string{"test/one", "SECRET_ALIAS,app/secret"},
		OverwriteMode:  "warn",
		ParseJSON:      true,
		PublicEnvVars:  []string{"DB_HOST", "DB_PORT"},
		PublicNumerics: true,
		PublicValues:   []string{"us-east-1"},
		OutputFile:     ".env",
	}, cfg)
}

func TestFromInputs_Defaults(t *testing.T) {
	cfg, err := FromInputs(mapInputs{InputSecretIDs: "a"})
	require.NoError(t, err)

	mode, err := cfg.Mode()
	require.NoError(t, err)
	assert.Equal(t, envname.ModeDefault, mode)
	assert.False(t, cfg.ParseJSON)
	assert.False(t, cfg.PublicNumerics)
	assert.Empty(t, cfg.OutputFile)
}

func TestFromInputs_InvalidBool(t *testing.T) {
	_, err := FromInputs(mapInputs{InputSecretIDs: "a", InputPublicNumerics: "yes"})
	require.Error(t, err)
	assert.Equal(t, errs.CodeInvalidConfig, errs.CodeOf(err))
}

func TestParse_OverridesOnlyPresentKeys(t *testing.T) {
	base := &Config{
		SecretIDs:     []string{"from/inputs"},
		OverwriteMode: "warn",
		ParseJSON:     true,
		OutputFile:    "inputs.env",
	}

	cfg, err := Parse([]byte(`
secret-ids:
  - test/one
  - " ALIAS,test/two "
  - test/one
parse-json-secrets: false
public-values: |
  us-east-1
  eu-west-1
`), base)
	require.NoError(t, err)

	assert.Equal(t, []string{"test/one", "ALIAS,test/two"}, cfg.SecretIDs)
	assert.False(t, cfg.ParseJSON)
	assert.Equal(t, []string{"us-east-1", "eu-west-1"}, cfg.PublicValues)
	assert.Equal(t, "warn", cfg.OverwriteMode, "absent keys keep the base value")
	assert.Equal(t, "inputs.env", cfg.OutputFile)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "malformed yaml", doc: "secret-ids: [a"},
		{name: "mapping for lines", doc: "secret-ids:\n  a: b\n"},
		{name: "wrong bool type", doc: "parse-json-secrets: maybe\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), nil)
			require.Error(t, err)
			assert.Equal(t, errs.CodeInvalidConfig, errs.CodeOf(err))
		})
	}
}

func TestLoadFile(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "secrets.yaml", []byte("secret-ids: test/*\noverwrite-mode: silent\n"), 0o644))

	cfg, err := LoadFile(fs, "secrets.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"test/*"}, cfg.SecretIDs)
	assert.Equal(t, "silent", cfg.OverwriteMode)

	_, err = LoadFile(fs, "missing.yaml", nil)
	require.Error(t, err)
	assert.Equal(t, errs.CodeIO, errs.CodeOf(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{SecretIDs: []string{"test/one", "SECRET_ALIAS,app/secret", ",test/two", "test/*"}},
		},
		{
			name:    "no secrets",
			cfg:     Config{SecretIDs: []string{" ", ""}},
			wantErr: "At least one secret ID is required in 'secret-ids'.",
		},
		{
			name:    "bad mode",
			cfg:     Config{SecretIDs: []string{"a"}, OverwriteMode: "replace"},
			wantErr: "Invalid overwrite mode 'replace'. Valid values are: default, error, warn, silent.",
		},
		{
			name:    "lowercase alias",
			cfg:     Config{SecretIDs: []string{"alias,test/one"}},
			wantErr: "The alias 'alias' is not a valid environment name. Please verify that it has uppercase letters, numbers, and underscore only.",
		},
		{
			name:    "bare wildcard",
			cfg:     Config{SecretIDs: []string{"*"}},
			wantErr: "The secret ID '*' has no prefix. Please specify a prefix before the wildcard.",
		},
		{
			name: "every problem is reported",
			cfg:  Config{SecretIDs: []string{"a-b,x", "*"}, OverwriteMode: "nope"},
			wantErr: "Invalid overwrite mode 'nope'. Valid values are: default, error, warn, silent.; " +
				"The alias 'a-b' is not a valid environment name. Please verify that it has uppercase letters, numbers, and underscore only.; " +
				"The secret ID '*' has no prefix. Please specify a prefix before the wildcard.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, errs.CodeInvalidConfig, errs.CodeOf(err))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestInjectOptions(t *testing.T) {
	cfg := &Config{
		OverwriteMode:  "silent",
		ParseJSON:      true,
		PublicNumerics: true,
		PublicEnvVars:  []string{"HOST"},
	}

	opts, err := cfg.InjectOptions()
	require.NoError(t, err)
	assert.Equal(t, envname.ModeSilent, opts.Mode)
	assert.True(t, opts.ParseJSON)
	assert.False(t, opts.Masking.Sensitive("HOST", "x"))
	assert.False(t, opts.Masking.Sensitive("PORT", "80"))
	assert.True(t, opts.Masking.Sensitive("PASSWORD", "x"))

	cfg.OverwriteMode = "bogus"
	_, err = cfg.InjectOptions()
	require.Error(t, err)
}

func TestLoadOSFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "get-secrets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("secret-ids:\n  - ALIAS,prod/db\npublic-numerics: true\n"), 0o600))

	cfg, err := LoadOSFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ALIAS,prod/db"}, cfg.SecretIDs)
	assert.True(t, cfg.PublicNumerics)
	assert.Equal(t, "default", cfg.OverwriteMode)
}
