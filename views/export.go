package views

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Responses"

// exportTable renders the loaded responses as rows: a header, then one row per
// response with one column per question in form order.
func (v *Responses) exportTable() [][]string {
	header := []string{"Submitted at", "Respondent", "Email"}
	for _, q := range v.Questions {
		header = append(header, q.Text)
	}
	rows := [][]string{header}
	for _, r := range v.Responses {
		row := []string{r.CreatedAt.UTC().Format(time.RFC3339), v.Respondent(r), r.RespondentEmail}
		for _, q := range v.Questions {
			a, _ := r.AnswerFor(q.ID)
			row = append(row, a.Answer)
		}
		rows = append(rows, row)
	}
	return rows
}

func (v *Responses) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(v.exportTable()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func (v *Responses) ExportXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for i, row := range v.exportTable() {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, s := range row {
			values[j] = s
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SetPanes(exportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
