// Package merge loads every catalogued spreadsheet, annotates its calls and
// concatenates them into the combined and accepted tables.
package merge

import (
	"context"
	"time"

	"github.com/tphakala/squeakmerge/internal/calls"
	"github.com/tphakala/squeakmerge/internal/catalog"
	"github.com/tphakala/squeakmerge/internal/dedup"
	"github.com/tphakala/squeakmerge/internal/errors"
	"github.com/tphakala/squeakmerge/internal/logger"
	"github.com/tphakala/squeakmerge/internal/metadata"
)

// Loader reads one call spreadsheet.
type Loader interface {
	Load(path string) (*calls.Sheet, error)
}

// GroupSummary counts the calls merged for one subject and group.
type GroupSummary struct {
	Subject           string
	Group             string
	StimulusFrequency string
	HasLong           bool
	HasShort          bool
	LongCalls         int
	LongAccepted      int
	ShortCalls        int
	ShortUnique       int
	AcceptedUnique    int
}

// ShortUniqueRatio is the share of short calls that overlap no accepted long
// call, or 0 without short calls.
func (g GroupSummary) ShortUniqueRatio() float64 {
	if g.ShortCalls == 0 {
		return 0
	}
	return float64(g.ShortUnique) / float64(g.ShortCalls)
}

// Result holds the merged tables and per group counts.
type Result struct {
	Combined *Table
	Accepted *Table
	Groups   []GroupSummary
}

// Merger runs the merge over a catalog.
type Merger struct {
	loader Loader
	log    logger.Logger
}

// New returns a Merger reading sheets through loader.
func New(loader Loader, log logger.Logger) *Merger {
	if log == nil {
		log = logger.Discard()
	}
	return &Merger{loader: loader, log: log.Module("merge")}
}

// Run processes subjects and groups in catalog order. The first load
// failure aborts the run.
func (m *Merger) Run(ctx context.Context, cat *catalog.Catalog) (*Result, error) {
	start := time.Now()
	combined := NewTable()
	res := &Result{Combined: combined}

	for _, entry := range cat.Subjects() {
		for _, g := range entry.Groups() {
			if err := ctx.Err(); err != nil {
				return nil, errors.New(err).
					Component("merge").
					Category(errors.CategoryProcessing).
					Build()
			}

			summary, err := m.mergeGroup(combined, entry.Subject, g)
			if err != nil {
				return nil, err
			}
			res.Groups = append(res.Groups, summary)
		}
	}

	res.Accepted = combined.Filter(AcceptedAndUnique)
	m.log.Info("merge complete",
		logger.Int("subjects", cat.Len()),
		logger.Int("groups", len(res.Groups)),
		logger.Int("combined_rows", combined.Len()),
		logger.Int("accepted_rows", res.Accepted.Len()),
		logger.Duration("elapsed", time.Since(start)))
	return res, nil
}

func (m *Merger) mergeGroup(combined *Table, subject metadata.Subject, g catalog.GroupFiles) (GroupSummary, error) {
	summary := GroupSummary{
		Subject:           subject.ID,
		Group:             g.Name,
		StimulusFrequency: g.StimulusFrequency,
		HasLong:           g.LongFile != "",
		HasShort:          g.ShortFile != "",
	}
	annotation := Annotation{
		Subject:           subject,
		StimulusFrequency: g.StimulusFrequency,
		GroupName:         g.Name,
	}

	var long *calls.Sheet
	if g.LongFile != "" {
		sheet, err := m.load(g.LongFile, subject, g.Name)
		if err != nil {
			return summary, err
		}
		long = sheet
		annotation.Class = metadata.ClassLong
		combined.Append(long, annotation, dedup.MarkLong(long))

		summary.LongCalls = long.Len()
		for _, c := range long.Calls {
			if c.Accepted {
				summary.LongAccepted++
			}
		}
		summary.AcceptedUnique += summary.LongAccepted
	}

	if g.ShortFile != "" {
		short, err := m.load(g.ShortFile, subject, g.Name)
		if err != nil {
			return summary, err
		}
		unique := dedup.MarkShort(long, short)
		annotation.Class = metadata.ClassShort
		combined.Append(short, annotation, unique)

		summary.ShortCalls = short.Len()
		for i, c := range short.Calls {
			if unique[i] {
				summary.ShortUnique++
				if c.Accepted {
					summary.AcceptedUnique++
				}
			}
		}
	}

	m.log.Debug("group merged",
		logger.String("subject", subject.ID),
		logger.String("group", g.Name),
		logger.Bool("has_long", summary.HasLong),
		logger.Bool("has_short", summary.HasShort),
		logger.Int("long_calls", summary.LongCalls),
		logger.Int("short_calls", summary.ShortCalls),
		logger.Int("short_unique", summary.ShortUnique),
		logger.Float64("short_unique_ratio", summary.ShortUniqueRatio()))
	return summary, nil
}

func (m *Merger) load(path string, subject metadata.Subject, group string) (*calls.Sheet, error) {
	sheet, err := m.loader.Load(path)
	if err != nil {
		m.log.Error("failed to load spreadsheet",
			logger.String("file", path),
			logger.String("subject", subject.ID),
			logger.String("group", group),
			logger.Error(err))
		return nil, errors.New(err).
			Component("merge").
			Context("subject", subject.ID).
			Context("group", group).
			Build()
	}
	return sheet, nil
}
