package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"loglens/internal/domain"
)

// Format selects the export serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// The serialized field set is a fixed allow-list, never a passthrough of
// internal fields. Both formats emit exactly these, in this order.
var exportFields = []string{"id", "applicationId", "timestamp", "level", "traceId", "message"}

// exportRow shapes a record down to the allow-list for JSON output.
type exportRow struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	Timestamp     time.Time `json:"timestamp"`
	Level         string    `json:"level"`
	TraceID       string    `json:"traceId"`
	Message       string    `json:"message"`
}

// Payload is a serialized export ready for download or attachment.
type Payload struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Serialize renders records in the requested format. Zero records is a
// valid, empty document; a serialization failure is an error, and the two
// are never conflated.
func Serialize(records []domain.LogRecord, format Format) (*Payload, error) {
	switch format {
	case FormatCSV:
		data, err := serializeCSV(records)
		if err != nil {
			return nil, fmt.Errorf("serialize csv export: %w", err)
		}
		return &Payload{Filename: "logs.csv", MIMEType: "text/csv", Data: data}, nil
	case FormatJSON:
		data, err := serializeJSON(records)
		if err != nil {
			return nil, fmt.Errorf("serialize json export: %w", err)
		}
		return &Payload{Filename: "logs.json", MIMEType: "application/json", Data: data}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func serializeCSV(records []domain.LogRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportFields); err != nil {
		return nil, err
	}
	for _, rec := range records {
		row := []string{
			rec.ID,
			rec.ApplicationID,
			rec.Timestamp.UTC().Format(time.RFC3339Nano),
			rec.Level,
			rec.TraceID,
			rec.Message,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func serializeJSON(records []domain.LogRecord) ([]byte, error) {
	rows := make([]exportRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, exportRow{
			ID:            rec.ID,
			ApplicationID: rec.ApplicationID,
			Timestamp:     rec.Timestamp,
			Level:         rec.Level,
			TraceID:       rec.TraceID,
			Message:       rec.Message,
		})
	}
	return json.MarshalIndent(rows, "", "  ")
}
