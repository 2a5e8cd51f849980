package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"mleus/errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"
)

// Record is one labelled text sample.
type Record struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

type Format string

const (
	FormatUnknown   Format = "unknown"
	FormatCSV       Format = "text/csv"
	FormatJSON      Format = "application/json"
	FormatJSONLines Format = "application/x-ndjson"
)

// DetectFormat sniffs the first bytes of a dataset file. Plain text files fall back
// on their extension since short CSV samples are often reported as text/plain.
func DetectFormat(sniff []byte, path string) Format {
	detected := mimetype.Detect(sniff)
	for _, f := range []Format{FormatCSV, FormatJSON, FormatJSONLines} {
		if matches(detected.String(), f) {
			return f
		}
	}
	if detected.Is("text/plain") {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv":
			return FormatCSV
		case ".json":
			return FormatJSON
		case ".jsonl", ".ndjson":
			return FormatJSONLines
		}
	}
	return FormatUnknown
}

func matches(detected string, expected Format) bool {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return false
	}
	return mt == string(expected)
}

// Load reads a labelled dataset from a CSV file (text,label) or a JSON file
// (an array or one object per line).
func Load(path string, log *slog.Logger) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	sniffBuf := make([]byte, 3072)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		return nil, err
	}
	format := DetectFormat(sniffBuf[:n], path)
	log.Debug("Dataset format detected", "path", path, "format", format)

	if _, err = file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var records []Record
	switch format {
	case FormatCSV:
		records, err = readCSV(file)
	case FormatJSON, FormatJSONLines:
		records, err = readJSON(file)
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedDataset, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", errors.ErrEmptyDataset, path)
	}
	return records, nil
}

func readCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	textCol, labelCol := 0, 1
	if len(rows) > 0 && isHeader(rows[0]) {
		for i, name := range rows[0] {
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "text":
				textCol = i
			case "label":
				labelCol = i
			}
		}
		rows = rows[1:]
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		if len(row) <= textCol {
			continue
		}
		record := Record{Text: row[textCol]}
		if labelCol < len(row) {
			record.Label = row[labelCol]
		}
		records = append(records, record)
	}
	return records, nil
}

func isHeader(row []string) bool {
	for _, name := range row {
		if strings.EqualFold(strings.TrimSpace(name), "text") {
			return true
		}
	}
	return false
}

func readJSON(r io.Reader) ([]Record, error) {
	reader := bufio.NewReader(r)
	first, err := peekNonSpace(reader)
	if err != nil {
		return nil, err
	}

	if first == '[' {
		var records []Record
		if err := json.NewDecoder(reader).Decode(&records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var records []Record
	decoder := json.NewDecoder(reader)
	for {
		var record Record
		if err := decoder.Decode(&record); err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func peekNonSpace(r *bufio.Reader) (byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b == ' ' || b == '\n' || b == '\r' || b == '\t' {
			continue
		}
		return b, r.UnreadByte()
	}
}

// Texts projects the text column of records.
func Texts(records []Record) []string {
	return lo.Map(records, func(r Record, _ int) string { return r.Text })
}

// Labels projects the label column of records.
func Labels(records []Record) []string {
	return lo.Map(records, func(r Record, _ int) string { return r.Label })
}
