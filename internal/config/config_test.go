package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobscout/internal/schemas"
	"github.com/jonathan/jobscout/internal/types"
)

const validJSON = `{
	"filters": {"hours_limit": 48, "keywords": ["java", "python"], "exclude_keywords": ["senior"]},
	"ats_sources": [
		{
			"name": "Greenhouse",
			"fetch_type": "rest_get",
			"base_url": "https://boards-api.greenhouse.io/v1/boards/{company}/jobs",
			"title_field": "title",
			"date_field": "updated_at",
			"location_field": "location.name",
			"url_field": "absolute_url",
			"date_format": "iso",
			"jobs_key": "jobs",
			"companies": ["stripe", "airbnb"]
		},
		{
			"name": "Workday",
			"fetch_type": "workday_post",
			"companies": [{"slug": "nvidia", "instance": "5", "site": "NVIDIAExternalCareerSite", "display": "NVIDIA"}]
		}
	]
}`

const validYAML = `
filters:
  hours_limit: 24
  keywords: [java]
ats_sources:
  - name: Lever
    base_url: https://api.lever.co/v0/postings/{company}?mode=json
    title_field: text
    date_field: createdAt
    location_field: categories.location
    url_field: hostedUrl
    date_format: unix_ms
    companies:
      - plaid
location_lists:
  non_usa: [lisbon]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "ats_config.json", validJSON))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 48, cfg.Filters.HoursLimit)
	assert.Equal(t, []string{"java", "python"}, cfg.Filters.Keywords)
	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, types.StrategyREST, cfg.Sources[0].Strategy)
	assert.Equal(t, "location.name", cfg.Sources[0].Location)
	assert.Equal(t, "NVIDIA", cfg.Sources[1].Companies[0].DisplayName())
	assert.Equal(t, 3, cfg.CompanyCount())

	cfg.ApplyDefaults()
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "ats_config.yaml", validYAML))
	require.NoError(t, err)

	assert.Equal(t, types.FetchStrategy(""), cfg.Sources[0].Strategy)
	assert.Equal(t, types.DateUnixMS, cfg.Sources[0].DateFormat)
	assert.Equal(t, "text", cfg.Sources[0].Title)
	assert.Equal(t, []string{"lisbon"}, cfg.LocationLists.NonUSA)

	cfg.ApplyDefaults()
	assert.Equal(t, types.StrategyREST, cfg.Sources[0].Strategy, "inferred from the lever host")
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "config.json", `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	_, err := LoadConfig(writeFile(t, "config.yml", "filters: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestLoadDocument_MatchesSchema(t *testing.T) {
	doc, err := LoadDocument(writeFile(t, "ats_config.yaml", validYAML))
	require.NoError(t, err)
	assert.NoError(t, schemas.ValidateConfigDocument(doc))
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{
		Sources: []types.SourceDescriptor{
			{Name: "Ashby", BaseURL: "https://jobs.ashbyhq.com/api/non-user-graphql"},
			{Name: "Workday", BaseURL: "https://{slug}.wd{instance}.myworkdayjobs.com/wday/cxs/{slug}/{site}/jobs"},
			{Name: "Custom", BaseURL: "https://careers.example.com/{company}.json", DateFormat: types.DateUnixS},
		},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultHoursLimit, cfg.Filters.HoursLimit)
	assert.Equal(t, types.StrategyGraphQL, cfg.Sources[0].Strategy)
	assert.Equal(t, types.StrategyWorkday, cfg.Sources[1].Strategy)
	assert.Equal(t, types.StrategyREST, cfg.Sources[2].Strategy)
	assert.Equal(t, types.DateISO, cfg.Sources[0].DateFormat)
	assert.Equal(t, types.DateUnixS, cfg.Sources[2].DateFormat)
}

func validationFields(t *testing.T, err error) []string {
	t.Helper()
	var ve *schemas.ValidationError
	require.ErrorAs(t, err, &ve)
	var fields []string
	for _, fe := range ve.Errors {
		fields = append(fields, fe.Field)
	}
	return fields
}

func TestValidate_Errors(t *testing.T) {
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(validJSON), &cfg))
	cfg.ApplyDefaults()

	cfg.Filters.HoursLimit = -1
	cfg.Sources[0].BaseURL = "https://boards-api.greenhouse.io/v1/boards/stripe/jobs"
	cfg.Sources[0].Title = ""
	cfg.Sources[1].Companies = append(cfg.Sources[1].Companies, types.Company("intel"))
	cfg.Sources = append(cfg.Sources, types.SourceDescriptor{
		Name:       "Ashby",
		Strategy:   types.StrategyGraphQL,
		BaseURL:    "https://jobs.ashbyhq.com/api/non-user-graphql",
		DateFormat: types.DateISO,
		FieldMapping: types.FieldMapping{
			Title: "title", Date: "publishedDate", Location: "locationName", URL: "externalLink",
		},
		GraphQLQuery: "query Other { jobBoard { id } }",
		Companies:    []types.CompanySelector{types.Company("ramp")},
	})

	fields := validationFields(t, cfg.Validate())
	assert.Contains(t, fields, "filters.hours_limit")
	assert.Contains(t, fields, "ats_sources[0].base_url")
	assert.Contains(t, fields, "ats_sources[0].title_field")
	assert.Contains(t, fields, "ats_sources[1].companies[1]")
	assert.Contains(t, fields, "ats_sources[2].graphql_query")
}

func TestValidate_StructTags(t *testing.T) {
	cfg := Config{
		Filters: types.FilterConfig{HoursLimit: 24, Keywords: []string{"java"}},
		Sources: []types.SourceDescriptor{
			{Name: "", Strategy: "soap", Companies: []types.CompanySelector{{Slug: ""}}},
		},
	}

	fields := validationFields(t, cfg.Validate())
	assert.Contains(t, fields, "ats_sources[0].name")
	assert.Contains(t, fields, "ats_sources[0].fetch_type")
	assert.Contains(t, fields, "ats_sources[0].companies[0].slug")
}

func TestValidate_NoSources(t *testing.T) {
	cfg := Config{Filters: types.FilterConfig{HoursLimit: 24}}
	fields := validationFields(t, cfg.Validate())
	assert.Contains(t, fields, "ats_sources")
}

func TestSelectSources(t *testing.T) {
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(validJSON), &cfg))

	all, err := cfg.SelectSources(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	some, err := cfg.SelectSources([]string{"workday"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, "Workday", some[0].Name)

	_, err = cfg.SelectSources([]string{"taleo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobscout")
	t.Setenv("JOBSCOUT_LOG_LEVEL", "debug")
	t.Setenv("JOBSCOUT_HTTP_TIMEOUT", "5s")
	t.Setenv("JOBSCOUT_CONCURRENCY", "not-a-number")
	t.Setenv("JOBSCOUT_COMPANY_DELAY", "")

	env := LoadEnv()
	assert.Equal(t, "postgres://localhost/jobscout", env.DatabaseURL)
	assert.Equal(t, slog.LevelDebug, env.LogLevel)
	assert.Equal(t, 5*time.Second, env.HTTPTimeout)
	assert.Equal(t, 1, env.Concurrency)
	assert.Equal(t, 400*time.Millisecond, env.CompanyDelay)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLogLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("company fetched", "company", "STRIPE")

	assert.Contains(t, stderr.String(), "company=STRIPE")
	assert.NotContains(t, stderr.String(), "hidden")

	var line map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &line))
	assert.Equal(t, "company fetched", line["msg"])
}

func TestSetupLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobscout.log")
	logger, cleanup := SetupLogger(path, slog.LevelInfo)
	logger.Info("run started")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"run started"`)
}
