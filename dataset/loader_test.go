package dataset

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"mleus/errors"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	expected := []Record{
		{Text: "the movie was great", Label: "pos"},
		{Text: "what a waste of time", Label: "neg"},
		{Text: "I would watch it again", Label: "pos"},
	}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "CSV with header",
			file:    "reviews.csv",
			content: "text,label\nthe movie was great,pos\nwhat a waste of time,neg\nI would watch it again,pos\n",
		},
		{
			name:    "CSV with swapped header",
			file:    "reviews.csv",
			content: "label,text\npos,the movie was great\nneg,what a waste of time\npos,I would watch it again\n",
		},
		{
			name: "JSON lines",
			file: "reviews.jsonl",
			content: `{"text":"the movie was great","label":"pos"}
{"text":"what a waste of time","label":"neg"}
{"text":"I would watch it again","label":"pos"}
`,
		},
		{
			name:    "JSON array",
			file:    "reviews.json",
			content: `[{"text":"the movie was great","label":"pos"},{"text":"what a waste of time","label":"neg"},{"text":"I would watch it again","label":"pos"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			path := filepath.Join(t.TempDir(), tt.file)
			req.NoError(os.WriteFile(path, []byte(tt.content), 0o644))

			records, err := Load(path, log)
			req.NoError(err)
			req.Equal(expected, records)
			req.Equal([]string{"pos", "neg", "pos"}, Labels(records))
			req.Equal(expected[1].Text, Texts(records)[1])
		})
	}
}

func TestLoad_Unsupported(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	path := filepath.Join(t.TempDir(), "image.png")
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D}
	req.NoError(os.WriteFile(path, png, 0o644))

	_, err := Load(path, log)
	req.ErrorIs(err, errors.ErrUnsupportedDataset)
}

func TestLoad_Empty(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	path := filepath.Join(t.TempDir(), "empty.csv")
	req.NoError(os.WriteFile(path, []byte("text,label\n"), 0o644))

	_, err := Load(path, log)
	req.ErrorIs(err, errors.ErrEmptyDataset)
}
