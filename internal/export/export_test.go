package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobscout/internal/types"
)

func sampleJobs() []types.Job {
	return []types.Job{
		{Title: "Java Engineer", Company: "STRIPE", Source: "Greenhouse", Location: "Seattle, WA",
			PostedAt: types.At(time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)), ApplyURL: "https://boards.greenhouse.io/stripe/jobs/1?a=b&c=d"},
		{Title: "Backend, Payments", Company: "NVIDIA", Source: "Workday", Location: "Remote - US",
			PostedAt: types.UnknownInstant, ApplyURL: "https://nvidia.wd5.myworkdayjobs.com/job/2"},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleJobs()))

	out := buf.String()
	assert.Contains(t, out, "\n  {\n    \"title\": \"Java Engineer\"")
	assert.Contains(t, out, `"ats": "Greenhouse"`)
	assert.Contains(t, out, `"posted_at": "2025-06-10 09:30 UTC"`)
	assert.Contains(t, out, `"posted_at": "Unknown"`)
	assert.Contains(t, out, "?a=b&c=d", "urls are not HTML escaped")

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, []string{"apply_url", "ats", "company", "location", "posted_at", "title"}, sortedKeys(decoded[0]))
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleJobs()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, "Backend, Payments", rows[2][0])
	assert.Equal(t, "Unknown", rows[2][4])
	assert.Equal(t, "2025-06-10 09:30 UTC", rows[1][4])
}

func TestSaveJSONAndCSV(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "nested", "jobs.json")
	csvPath := filepath.Join(dir, "jobs.csv")

	require.NoError(t, SaveJSON(jsonPath, sampleJobs()))
	require.NoError(t, SaveCSV(csvPath, sampleJobs()))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var jobs []types.Job
	require.NoError(t, json.Unmarshal(data, &jobs))
	assert.Equal(t, sampleJobs(), jobs)

	data, err = os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title,company,ats,location,posted_at,apply_url")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
