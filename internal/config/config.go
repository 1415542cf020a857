// Package config loads shopschema settings from an optional yaml file and
// SHOPSCHEMA_ environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	// FileName is the config file looked up without its .yaml extension
	FileName = "shopschema"

	// EnvPrefix marks environment variables that override file values
	EnvPrefix = "SHOPSCHEMA_"

	defaultPath          = "."
	defaultSlowThreshold = 200 * time.Millisecond
)

type Config struct {
	Log      Log      `json:"log" yaml:"log"`
	Database Database `json:"database" yaml:"database"`
	DDL      DDL      `json:"ddl" yaml:"ddl"`
	Docs     Docs     `json:"docs" yaml:"docs"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// Database selects the live database used by migrate, docs, diff and summary
type Database struct {
	// URL is postgres://, postgresql://, mysql:// or sqlite://
	URL    string `json:"url" yaml:"url" validate:"omitempty,startswith=postgres://|startswith=postgresql://|startswith=mysql://|startswith=sqlite://"`
	Schema string `json:"schema" yaml:"schema"`

	// Debug logs every gorm statement
	Debug         bool          `json:"debug" yaml:"debug"`
	SlowThreshold time.Duration `json:"slowThreshold" yaml:"slowThreshold" validate:"gte=0"`
}

type DDL struct {
	Dialect string `json:"dialect" yaml:"dialect" validate:"oneof=postgres postgresql pg mysql sqlite sqlite3"`
}

type Docs struct {
	Format         string   `json:"format" yaml:"format" validate:"oneof=text markdown"`
	SplitThreshold int      `json:"splitThreshold" yaml:"splitThreshold" validate:"gte=0"`
	Exclude        []string `json:"exclude" yaml:"exclude"`
}

// Default returns the settings used when neither file nor environment set a value
func Default() *Config {
	cfg := &Config{}
	cfg.Log.Level = "info"
	cfg.Database.SlowThreshold = defaultSlowThreshold
	cfg.DDL.Dialect = "postgres"
	cfg.Docs.Format = "text"
	return cfg
}

// New loads shopschema.yaml from the working directory or ./config when
// present, applies SHOPSCHEMA_ overrides and validates the result.
func New() (*Config, error) {
	cfg, err := LoadWithEnv(FileName, "config")
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadWithEnv loads name.yaml through koanf, starting from Default. A missing
// file is not an error.
func LoadWithEnv(name string, configPath ...string) (*Config, error) {
	cfg := Default()
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	for _, path := range searchPaths {
		candidate := filepath.Join(path, name+".yaml")
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if err := koanfInstance.Load(file.Provider(candidate), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read %s config failed", candidate)
		}
		break
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			// SHOPSCHEMA_DOCS_SPLITTHRESHOLD -> docs.splitThreshold
			key := canonicalizeEnvKey(strings.TrimPrefix(k, EnvPrefix), existingConfigMap)
			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", name)
	}

	return cfg, nil
}

// Validate checks field constraints declared in struct tags
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)
		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
