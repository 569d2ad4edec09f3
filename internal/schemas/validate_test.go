package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeDoc(t *testing.T, doc string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(doc), &v))
	return v
}

func TestConfigSchema_IsValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(ConfigSchema()), &v))
	assert.Equal(t, "object", v["type"])
}

func TestValidateConfigDocument_Valid(t *testing.T) {
	doc := decodeDoc(t, `{
		"filters": {"hours_limit": 24, "keywords": ["java"], "exclude_keywords": []},
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
	}`)

	assert.NoError(t, ValidateConfigDocument(doc))
}

func TestValidateConfigDocument_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{
			name:  "missing sources",
			doc:   `{"filters": {"hours_limit": 24, "keywords": ["java"]}}`,
			field: "(root)",
		},
		{
			name:  "zero hours",
			doc:   `{"filters": {"hours_limit": 0, "keywords": ["java"]}, "ats_sources": [{"name": "x", "companies": ["a"]}]}`,
			field: "filters.hours_limit",
		},
		{
			name:  "unknown fetch type",
			doc:   `{"filters": {"keywords": ["java"]}, "ats_sources": [{"name": "x", "fetch_type": "soap", "companies": ["a"]}]}`,
			field: "ats_sources.0.fetch_type",
		},
		{
			name:  "empty companies",
			doc:   `{"filters": {"keywords": ["java"]}, "ats_sources": [{"name": "x", "companies": []}]}`,
			field: "ats_sources.0.companies",
		},
		{
			name:  "unknown date format",
			doc:   `{"filters": {"keywords": ["java"]}, "ats_sources": [{"name": "x", "date_format": "rfc822", "companies": ["a"]}]}`,
			field: "ats_sources.0.date_format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfigDocument(decodeDoc(t, tt.doc))
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)

			var fields []string
			for _, fe := range validationErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "jobscout"}`))

	err := ValidateJSONString(schema, `{"name": 7}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "name", validationErr.Errors[0].Field)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestValidationError_OrNil(t *testing.T) {
	ve := &ValidationError{}
	assert.NoError(t, ve.OrNil())

	ve.Add("filters.hours_limit", "must be greater than 0")
	err := ve.OrNil()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1. filters.hours_limit: must be greater than 0")
}
