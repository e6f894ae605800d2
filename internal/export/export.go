// Package export writes the catalog, and optionally a learner's progress,
// to an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/session"
)

// Sheet names.
const (
	SheetModules   = "Modules"
	SheetCards     = "Cards"
	SheetQuestions = "Questions"
	SheetBadges    = "Badges"
	SheetProgress  = "Progress"
)

// Workbook builds the workbook. ov may be nil, in which case the Progress
// sheet is omitted.
func Workbook(cat *catalog.Catalog, ov *session.Overview) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetModules); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	steps := []struct {
		sheet string
		rows  [][]any
	}{
		{SheetModules, moduleRows(cat)},
		{SheetCards, cardRows(cat)},
		{SheetQuestions, questionRows(cat)},
		{SheetBadges, badgeRows(cat, ov)},
	}
	if ov != nil {
		steps = append(steps, struct {
			sheet string
			rows  [][]any
		}{SheetProgress, progressRows(ov)})
	}

	for _, s := range steps {
		if s.sheet != SheetModules {
			if _, err := f.NewSheet(s.sheet); err != nil {
				return nil, fmt.Errorf("create sheet %s: %w", s.sheet, err)
			}
		}
		if err := writeRows(f, s.sheet, s.rows); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write encodes the workbook to w.
func Write(w io.Writer, cat *catalog.Catalog, ov *session.Overview) error {
	f, err := Workbook(cat, ov)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteFile saves the workbook to path.
func WriteFile(path string, cat *catalog.Catalog, ov *session.Overview) error {
	f, err := Workbook(cat, ov)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func moduleRows(cat *catalog.Catalog) [][]any {
	rows := [][]any{{"Slug", "Name", "Icon", "Cards", "Questions"}}
	for _, m := range cat.Modules() {
		rows = append(rows, []any{m.Slug, m.Name, m.Icon, len(m.Cards), m.TotalQuestions()})
	}
	return rows
}

func cardRows(cat *catalog.Catalog) [][]any {
	rows := [][]any{{"Module", "Index", "Term", "Definition", "Example", "Chart Symbol", "Concept", "Tiers"}}
	for _, m := range cat.Modules() {
		for i, c := range m.Cards {
			var symbol, concept string
			if c.Chart != nil {
				symbol, concept = c.Chart.Symbol, string(c.Chart.Concept)
			}
			rows = append(rows, []any{m.Slug, i + 1, c.Term, c.Definition, c.Example, symbol, concept, c.Tiers()})
		}
	}
	return rows
}

func questionRows(cat *catalog.Catalog) [][]any {
	maxOpts := 0
	for _, m := range cat.Modules() {
		for _, c := range m.Cards {
			for _, q := range c.Quiz {
				maxOpts = max(maxOpts, len(q.Options))
			}
		}
	}

	header := []any{"Module", "Card", "Term", "Tier", "Question", "Correct", "Explanation"}
	for i := 1; i <= maxOpts; i++ {
		header = append(header, fmt.Sprintf("Option %d", i))
	}
	rows := [][]any{header}
	for _, m := range cat.Modules() {
		for ci, c := range m.Cards {
			for ti, q := range c.Quiz {
				row := []any{m.Slug, ci + 1, c.Term, ti + 1, q.Prompt, q.Correct + 1, q.Explanation()}
				for _, o := range q.Options {
					row = append(row, o.Text)
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func badgeRows(cat *catalog.Catalog, ov *session.Overview) [][]any {
	header := []any{"ID", "Name", "Description", "Icon"}
	earned := map[catalog.BadgeID]bool{}
	if ov != nil {
		header = append(header, "Earned")
		for _, b := range ov.Earned {
			earned[b.ID] = true
		}
	}
	rows := [][]any{header}
	for _, b := range cat.Badges() {
		row := []any{string(b.ID), b.Name, b.Description, b.Icon}
		if ov != nil {
			row = append(row, yesNo(earned[b.ID]))
		}
		rows = append(rows, row)
	}
	return rows
}

func progressRows(ov *session.Overview) [][]any {
	rows := [][]any{{"Module", "Completed", "Cards", "Completion %", "Shield", "Answered", "Questions", "Needed For Next"}}
	for _, m := range ov.Modules {
		rows = append(rows, []any{
			m.Slug, m.Completed, m.Cards, m.CompletionPct,
			m.Shield.Label(), m.Shield.Answered, m.Shield.Total, m.Shield.Needed,
		})
	}
	rows = append(rows, []any{"Total", ov.Overall.Completed, ov.Overall.Total, ov.Overall.Pct()})
	return rows
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
