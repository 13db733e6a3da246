package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loglens/internal/domain"
)

func sampleRecord() domain.LogRecord {
	return domain.LogRecord{
		ID:            "log-1",
		ApplicationID: "app-1",
		Timestamp:     time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
		Level:         "error",
		Message:       "payment declined",
		TraceID:       "trace-9",
	}
}

func TestSerializeCSV(t *testing.T) {
	payload, err := Serialize([]domain.LogRecord{sampleRecord()}, FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "logs.csv", payload.Filename)
	assert.Equal(t, "text/csv", payload.MIMEType)

	rows, err := csv.NewReader(strings.NewReader(string(payload.Data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "applicationId", "timestamp", "level", "traceId", "message"}, rows[0])
	assert.Equal(t, []string{"log-1", "app-1", "2026-02-01T09:30:00Z", "error", "trace-9", "payment declined"}, rows[1])
}

func TestSerializeJSONEmitsOnlyAllowListedFields(t *testing.T) {
	payload, err := Serialize([]domain.LogRecord{sampleRecord()}, FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "logs.json", payload.Filename)
	assert.Equal(t, "application/json", payload.MIMEType)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(payload.Data, &rows))
	require.Len(t, rows, 1)

	for _, field := range []string{"id", "applicationId", "timestamp", "level", "traceId", "message"} {
		assert.Contains(t, rows[0], field)
	}
	assert.Len(t, rows[0], 6, "no fields beyond the allow-list")
}

func TestSerializeEmptySetIsValidDocument(t *testing.T) {
	csvPayload, err := Serialize(nil, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "id,applicationId,timestamp,level,traceId,message\n", string(csvPayload.Data))

	jsonPayload, err := Serialize(nil, FormatJSON)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(jsonPayload.Data, &rows))
	assert.Empty(t, rows)
}

func TestSerializeRejectsUnknownFormat(t *testing.T) {
	_, err := Serialize(nil, Format("xml"))
	assert.Error(t, err)
}
