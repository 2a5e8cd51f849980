package experiment

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mleus/errors"

	"github.com/olekukonko/tablewriter"
)

const (
	summaryFile     = "summary.txt"
	experimentsFile = "experiments.md"
)

// Summarizer gathers every experiment of a directory into summary.txt and
// experiments.md.
type Summarizer struct {
	dir     string
	project string
	log     *slog.Logger
	now     func() time.Time
}

func NewSummarizer(dir, project string, log *slog.Logger) *Summarizer {
	return &Summarizer{dir: dir, project: project, log: log, now: time.Now}
}

// Summary is one experiment as read back from disk.
type Summary struct {
	Name       string
	Setup      Setup
	Notes      string
	Info       string
	EvalLog    string
	Evaluation *EvalReport
}

// Run returns the number of experiments summarized.
func (s *Summarizer) Run() (int, error) {
	summaries, err := s.Collect()
	if err != nil {
		return 0, err
	}
	if len(summaries) == 0 {
		return 0, fmt.Errorf("%w in %s", errors.ErrNoExperiments, s.dir)
	}

	var sb strings.Builder
	for i, sum := range summaries {
		fmt.Fprintf(&sb, "########### Experiment #%d ###########\n\n", i+1)
		sb.WriteString(sum.Info)
		sb.WriteString("\n\n")
		if sum.EvalLog != "" {
			sb.WriteString(sum.EvalLog)
			sb.WriteString("\n\n")
		}
	}
	if err := os.WriteFile(filepath.Join(s.dir, summaryFile), []byte(sb.String()), 0o644); err != nil {
		return 0, err
	}

	f, err := os.Create(filepath.Join(s.dir, experimentsFile))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	fmt.Fprintf(f, "# %s\n\nExport date: %s\n\nNumber of experiments: %d\n\n",
		strings.ToUpper(s.project), s.now().Format("2006-01-02 15:04"), len(summaries))

	table := tablewriter.NewWriter(f)
	table.SetHeader([]string{"Experiment Setup", "Average Precision", "Average Recall", "Average F-score", "Total Accuracy"})
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	for _, sum := range summaries {
		row := []string{setupCell(sum), "n/a", "n/a", "n/a", "n/a"}
		if sum.Evaluation != nil {
			ev := sum.Evaluation
			row[1] = fmt.Sprintf("%.3f", ev.AveragePrecision)
			row[2] = fmt.Sprintf("%.3f", ev.AverageRecall)
			row[3] = fmt.Sprintf("%.3f", ev.AverageFScore)
			row[4] = fmt.Sprintf("%.3f", ev.Accuracy)
		}
		table.Append(row)
	}
	table.Render()

	s.log.Info("Experiments summarized", "dir", s.dir, "count", len(summaries))
	return len(summaries), nil
}

func setupCell(sum Summary) string {
	notes := sum.Notes
	if notes == "" {
		notes = "-"
	}
	st := sum.Setup
	return fmt.Sprintf("Number of Classes: %d<br>Input Length: %d<br>Model Name: %s<br>Epochs: %d<br>Batch Size: %d<br>Device: %s<br>Notes: %s",
		st.NumberClasses, st.InputLength, st.Model, st.Epochs, st.BatchSize, st.Device, notes)
}

// Collect reads every experiment directory in name order. Directories whose name is
// not an experiment setup, or without info.txt, are skipped.
func (s *Summarizer) Collect() ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var summaries []Summary
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		setup, notes, ok := ParseName(entry.Name())
		if !ok {
			s.log.Debug("Skipping directory", "name", entry.Name())
			continue
		}
		dir := filepath.Join(s.dir, entry.Name())

		info, err := os.ReadFile(filepath.Join(dir, infoFile))
		if err != nil {
			s.log.Warn("Experiment without info, skipped", "dir", dir, "error", err)
			continue
		}
		sum := Summary{Name: entry.Name(), Setup: setup, Notes: notes, Info: string(info)}

		if evalLog, err := os.ReadFile(filepath.Join(dir, evalLogFile)); err == nil {
			sum.EvalLog = string(evalLog)
		}
		if data, err := os.ReadFile(filepath.Join(dir, evalJSONFile)); err == nil {
			var report EvalReport
			if err := json.Unmarshal(data, &report); err != nil {
				s.log.Warn("Unreadable evaluation", "dir", dir, "error", err)
			} else {
				sum.Evaluation = &report
			}
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}
