// Package report renders run summaries and catalog listings for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/squeakmerge/internal/catalog"
	"github.com/tphakala/squeakmerge/internal/merge"
	"github.com/tphakala/squeakmerge/internal/metadata"
)

// Catalog listing formats.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

// Summary writes per group call counts followed by the table totals.
func Summary(w io.Writer, res *merge.Result) error {
	headers := []string{"Subject", "Group", "MSTIM", "Long", "Accepted", "Short", "Unique", "Kept"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}

	rows := make([][]string, 0, len(res.Groups))
	for _, g := range res.Groups {
		long, accepted := "-", "-"
		if g.HasLong {
			long, accepted = strconv.Itoa(g.LongCalls), strconv.Itoa(g.LongAccepted)
		}
		short, unique := "-", "-"
		if g.HasShort {
			short, unique = strconv.Itoa(g.ShortCalls), strconv.Itoa(g.ShortUnique)
		}
		rows = append(rows, []string{
			g.Subject, g.Group, g.StimulusFrequency,
			long, accepted, short, unique, strconv.Itoa(g.AcceptedUnique),
		})
	}

	if _, err := fmt.Fprintln(w, renderTable(headers, rows, aligns)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d combined rows, %d accepted and unique rows\n",
		res.Combined.Len(), res.Accepted.Len())
	return err
}

// Catalog writes the catalog in the given format.
func Catalog(w io.Writer, cat *catalog.Catalog, format string) error {
	switch format {
	case FormatTable, "":
		return catalogTable(w, cat)
	case FormatYAML:
		return catalogYAML(w, cat)
	default:
		return fmt.Errorf("unknown format %q, use %s or %s", format, FormatTable, FormatYAML)
	}
}

func catalogTable(w io.Writer, cat *catalog.Catalog) error {
	headers := []string{"Subject", "Group", "MSTIM", "Long file", "Short file"}

	var rows [][]string
	for _, e := range cat.Subjects() {
		for _, g := range e.Groups() {
			rows = append(rows, []string{e.Subject.ID, g.Name, g.StimulusFrequency, orDash(g.LongFile), orDash(g.ShortFile)})
		}
	}
	if _, err := fmt.Fprintln(w, renderTable(headers, rows, nil)); err != nil {
		return err
	}

	if skipped := cat.Skipped(); len(skipped) > 0 {
		srows := make([][]string, 0, len(skipped))
		for _, s := range skipped {
			srows = append(srows, []string{s.Path, s.Reason})
		}
		if _, err := fmt.Fprintf(w, "\n%d files skipped:\n%s\n", len(skipped),
			renderTable([]string{"File", "Reason"}, srows, nil)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%d subjects, %d replaced files\n", cat.Len(), cat.Collisions())
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type groupDoc struct {
	Name          string `yaml:"name"`
	catalog.Files `yaml:",inline"`
}

type subjectDoc struct {
	metadata.Subject `yaml:",inline"`
	Groups           []groupDoc `yaml:"groups"`
}

type catalogDoc struct {
	Subjects   []subjectDoc      `yaml:"subjects"`
	Skipped    []catalog.Skipped `yaml:"skipped,omitempty"`
	Collisions int               `yaml:"collisions"`
}

func catalogYAML(w io.Writer, cat *catalog.Catalog) error {
	doc := catalogDoc{
		Subjects:   make([]subjectDoc, 0, cat.Len()),
		Skipped:    cat.Skipped(),
		Collisions: cat.Collisions(),
	}
	for _, e := range cat.Subjects() {
		sd := subjectDoc{Subject: e.Subject}
		for _, g := range e.Groups() {
			sd.Groups = append(sd.Groups, groupDoc{Name: g.Name, Files: g.Files})
		}
		doc.Subjects = append(doc.Subjects, sd)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
