package analyzer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// DefaultTopTokens bounds the frequency tables written by Report.Write.
const DefaultTopTokens = 20

// Write renders the report as plain tables: a dataset overview, the most frequent words
// and characters, then one row per class.
func (r Report) Write(w io.Writer, top int) error {
	if top <= 0 {
		top = DefaultTopTokens
	}

	overview := newTable(w, []string{"Statistic", "Value"})
	overview.AppendBulk([][]string{
		{"instances", strconv.Itoa(r.Instances)},
		{"average number of words", strconv.Itoa(r.AvgWords)},
		{"average number of chars", strconv.Itoa(r.AvgChars)},
		{"unique words", strconv.Itoa(r.UniqueWords)},
		{"unique chars", strconv.Itoa(r.UniqueChars)},
	})
	overview.Render()

	for _, section := range []struct {
		title string
		freqs []Frequency
	}{
		{"Word", r.WordsFrequencies},
		{"Char", r.CharsFrequencies},
	} {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		table := newTable(w, []string{section.title, "Count"})
		for _, f := range section.freqs[:min(top, len(section.freqs))] {
			table.Append([]string{fmt.Sprintf("%q", f.Token), strconv.Itoa(f.Count)})
		}
		table.Render()
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	classes := newTable(w, []string{"Class", "Samples", "Language", "Unique words",
		"Words", "Chars", "Stop words", "Punctuations", "Upper", "Title"})
	for _, c := range r.Classes {
		classes.Append([]string{
			c.Label,
			strconv.Itoa(c.Samples),
			c.Language,
			strconv.Itoa(c.UniqueWords),
			joinInts(c.WordsPerInstance),
			joinInts(c.CharsPerInstance),
			joinInts(c.StopWordsPerInstance),
			joinInts(c.PunctuationsPerInstance),
			joinInts(c.UpperPerInstance),
			joinInts(c.TitlePerInstance),
		})
	}
	classes.Render()
	return nil
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func joinInts(values []int) string {
	return strings.Join(lo.Map(values, func(v int, _ int) string { return strconv.Itoa(v) }), " ")
}
