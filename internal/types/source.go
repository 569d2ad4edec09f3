// Package types provides type definitions for structured data used throughout the jobscout system.
package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FetchStrategy tags the wire protocol a source speaks.
type FetchStrategy string

const (
	// StrategyREST is a single GET returning a JSON listing array
	StrategyREST FetchStrategy = "rest_get"
	// StrategyGraphQL is a single GraphQL POST against a hosted job board
	StrategyGraphQL FetchStrategy = "graphql"
	// StrategyWorkday is the search-term driven multi-query POST protocol
	StrategyWorkday FetchStrategy = "workday_post"
)

var strategyAliases = map[string]FetchStrategy{
	"rest_get":         StrategyREST,
	"simple-rest":      StrategyREST,
	"rest":             StrategyREST,
	"graphql":          StrategyGraphQL,
	"workday_post":     StrategyWorkday,
	"multi-query-post": StrategyWorkday,
	"workday":          StrategyWorkday,
}

// UnmarshalText maps accepted aliases onto their canonical strategy tag.
// Unrecognized values are kept verbatim so validation can report them.
func (s *FetchStrategy) UnmarshalText(text []byte) error {
	raw := strings.ToLower(strings.TrimSpace(string(text)))
	if canonical, ok := strategyAliases[raw]; ok {
		*s = canonical
		return nil
	}
	*s = FetchStrategy(raw)
	return nil
}

// DateFormat tags how a source encodes posting timestamps.
type DateFormat string

const (
	DateISO      DateFormat = "iso"
	DateUnixMS   DateFormat = "unix_ms"
	DateUnixS    DateFormat = "unix_s"
	DateRelative DateFormat = "relative"
)

// FieldMapping holds the dot-separated paths locating each Job field in a raw listing.
type FieldMapping struct {
	Title    string `json:"title_field" yaml:"title_field"`
	Date     string `json:"date_field" yaml:"date_field"`
	Location string `json:"location_field" yaml:"location_field"`
	URL      string `json:"url_field" yaml:"url_field"`
}

// SourceDescriptor identifies one ATS integration and the companies it serves.
type SourceDescriptor struct {
	Name         string            `json:"name" yaml:"name" validate:"required"`
	Strategy     FetchStrategy     `json:"fetch_type,omitempty" yaml:"fetch_type,omitempty" validate:"required,oneof=rest_get graphql workday_post"`
	BaseURL      string            `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	FieldMapping `yaml:",inline"`
	DateFormat   DateFormat        `json:"date_format,omitempty" yaml:"date_format,omitempty" validate:"omitempty,oneof=iso unix_ms unix_s relative"`
	GraphQLQuery string            `json:"graphql_query,omitempty" yaml:"graphql_query,omitempty"`
	JobsKey      string            `json:"jobs_key,omitempty" yaml:"jobs_key,omitempty"`
	SearchTerms  []string          `json:"search_terms,omitempty" yaml:"search_terms,omitempty"`
	Companies    []CompanySelector `json:"companies" yaml:"companies" validate:"min=1,dive"`
}

// CompanySelector is either a bare slug or a structured record with
// vendor-specific routing fields.
type CompanySelector struct {
	Slug     string `json:"slug" yaml:"slug" validate:"required"`
	Instance string `json:"instance,omitempty" yaml:"instance,omitempty"`
	Site     string `json:"site,omitempty" yaml:"site,omitempty"`
	Display  string `json:"display,omitempty" yaml:"display,omitempty"`
}

// Company builds a selector from a bare slug.
func Company(slug string) CompanySelector {
	return CompanySelector{Slug: slug}
}

// DisplayName returns the explicit display name, falling back to the uppercased slug.
func (c CompanySelector) DisplayName() string {
	if d := strings.TrimSpace(c.Display); d != "" {
		return d
	}
	return strings.ToUpper(c.Slug)
}

// IsStructured reports whether the selector carries routing fields beyond the slug.
func (c CompanySelector) IsStructured() bool {
	return c.Instance != "" || c.Site != "" || c.Display != ""
}

type companyRecord CompanySelector

// UnmarshalJSON accepts either a JSON string or an object.
func (c *CompanySelector) UnmarshalJSON(data []byte) error {
	var slug string
	if err := json.Unmarshal(data, &slug); err == nil {
		*c = CompanySelector{Slug: slug}
		return nil
	}
	var rec companyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("company must be a slug string or an object: %w", err)
	}
	*c = CompanySelector(rec)
	return nil
}

// MarshalJSON writes bare slugs back as strings.
func (c CompanySelector) MarshalJSON() ([]byte, error) {
	if !c.IsStructured() {
		return json.Marshal(c.Slug)
	}
	return json.Marshal(companyRecord(c))
}

// UnmarshalYAML accepts either a scalar slug or a mapping.
func (c *CompanySelector) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = CompanySelector{Slug: node.Value}
		return nil
	case yaml.MappingNode:
		var rec companyRecord
		if err := node.Decode(&rec); err != nil {
			return err
		}
		*c = CompanySelector(rec)
		return nil
	default:
		return fmt.Errorf("line %d: company must be a slug string or a mapping", node.Line)
	}
}
