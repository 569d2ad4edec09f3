// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/jobscout/internal/ats"
	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/schemas"
	"github.com/jonathan/jobscout/internal/types"
)

// DefaultHoursLimit applies when the filters omit hours_limit.
const DefaultHoursLimit = 24

// DefaultConfigPath is the file the CLI looks for when --config is not given.
const DefaultConfigPath = "ats_config.json"

// Config is the ATS configuration file: run filters plus the sources to scrape.
type Config struct {
	Filters       types.FilterConfig       `json:"filters" yaml:"filters"`
	Sources       []types.SourceDescriptor `json:"ats_sources" yaml:"ats_sources" validate:"min=1,dive"`
	LocationLists types.LocationLists      `json:"location_lists,omitempty" yaml:"location_lists,omitempty"`
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	data, path, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// LoadDocument loads the configuration file as an untyped document for
// schema validation.
func LoadDocument(path string) (any, error) {
	data, path, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	var doc any
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}
	return doc, nil
}

func readConfigFile(path string) ([]byte, string, error) {
	if path == "" {
		return nil, "", fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return data, path, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ApplyDefaults fills values the file may omit: the recency window, the date
// format, and the fetch strategy inferred from the endpoint host.
func (c *Config) ApplyDefaults() {
	if c.Filters.HoursLimit == 0 {
		c.Filters.HoursLimit = DefaultHoursLimit
	}
	for i := range c.Sources {
		src := &c.Sources[i]
		if src.Strategy == "" {
			src.Strategy = fetch.DetectPlatform(src.BaseURL).Strategy()
		}
		if src.DateFormat == "" {
			src.DateFormat = types.DateISO
		}
	}
}

// Validate checks struct constraints and per-strategy requirements. The
// returned error is a *schemas.ValidationError listing every problem.
func (c *Config) Validate() error {
	ve := &schemas.ValidationError{}

	if err := newValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			ve.Add(fieldPath(fe.Namespace()), describe(fe))
		}
	}

	for i, src := range c.Sources {
		prefix := fmt.Sprintf("ats_sources[%d]", i)
		switch src.Strategy {
		case types.StrategyREST:
			if !strings.Contains(src.BaseURL, "{company}") {
				ve.Add(prefix+".base_url", "must contain the {company} placeholder")
			}
			requireMapping(ve, prefix, src)
		case types.StrategyGraphQL:
			if src.BaseURL == "" {
				ve.Add(prefix+".base_url", "is required")
			}
			if err := ats.ValidateQuery(src.GraphQLQuery); err != nil {
				ve.Add(prefix+".graphql_query", err.Error())
			}
			requireMapping(ve, prefix, src)
		case types.StrategyWorkday:
			for j, company := range src.Companies {
				if company.Instance == "" || company.Site == "" {
					ve.Add(fmt.Sprintf("%s.companies[%d]", prefix, j), "workday companies need slug, instance and site")
				}
			}
		}
	}

	return ve.OrNil()
}

func requireMapping(ve *schemas.ValidationError, prefix string, src types.SourceDescriptor) {
	fields := []struct {
		name  string
		value string
	}{
		{"title_field", src.Title},
		{"date_field", src.Date},
		{"location_field", src.Location},
		{"url_field", src.URL},
	}
	for _, f := range fields {
		if f.value == "" {
			ve.Add(prefix+"."+f.name, "is required")
		}
	}
}

// SelectSources returns the sources whose names match names, compared
// case-insensitively. An empty names list selects every source.
func (c *Config) SelectSources(names []string) ([]types.SourceDescriptor, error) {
	if len(names) == 0 {
		return c.Sources, nil
	}

	byName := make(map[string]types.SourceDescriptor, len(c.Sources))
	for _, src := range c.Sources {
		byName[strings.ToLower(src.Name)] = src
	}

	var out []types.SourceDescriptor
	for _, name := range names {
		src, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("config error: unknown source %q", name)
		}
		out = append(out, src)
	}
	return out, nil
}

// CompanyCount returns the number of configured companies across sources.
func (c *Config) CompanyCount() int {
	n := 0
	for _, src := range c.Sources {
		n += len(src.Companies)
	}
	return n
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s item(s)", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// Load reads the file at path, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
