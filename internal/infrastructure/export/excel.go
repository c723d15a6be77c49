// Package export renders record phase summaries into downloadable
// workbooks and decodes uploaded sign-off material into signature images.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ilcdb/record-management/internal/application/port"
	"github.com/ilcdb/record-management/internal/domain/entity"
	"github.com/ilcdb/record-management/internal/domain/lifecycle"
)

const summarySheet = "Phase Summary"

// ExcelExporter renders a record's phase summary as an XLSX workbook.
type ExcelExporter struct {
	logger *zap.Logger
}

// NewExcelExporter creates an ExcelExporter.
func NewExcelExporter(logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

// Extension returns the file extension of rendered documents.
func (e *ExcelExporter) Extension() string {
	return ".xlsx"
}

// Render builds the phase-summary workbook for a record.
func (e *ExcelExporter) Render(rec *entity.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	row := 1
	set := func(col string, value interface{}) {
		cell := fmt.Sprintf("%s%d", col, row)
		if err := f.SetCellValue(summarySheet, cell, value); err != nil {
			e.logger.Warn("Failed to set cell", zap.String("cell", cell), zap.Error(err))
		}
	}

	set("A", "ILCDB Management System - Record Phase Summary")
	row += 2

	set("A", "Record ID")
	set("B", rec.ID)
	row++
	set("A", "Workflow")
	set("B", rec.Type.String())
	row++
	if rec.Title != "" {
		set("A", "Title")
		set("B", rec.Title)
		row++
	}
	if rec.PRNumber != "" {
		set("A", "PR Number")
		set("B", rec.PRNumber)
		row++
	}
	if rec.SpeakerName != "" {
		set("A", "Speaker")
		set("B", rec.SpeakerName)
		row++
	}
	if rec.ActivityTitle != "" {
		set("A", "Activity")
		set("B", rec.ActivityTitle)
		row++
	}
	set("A", "Project Type")
	if rec.ProjectType == entity.ProjectTypeOthers {
		set("B", rec.OtherProjectType)
	} else {
		set("B", string(rec.ProjectType))
	}
	row++
	set("A", "Amount")
	set("B", rec.Amount)
	row++
	set("A", "Status")
	set("B", rec.Status.String())
	row++
	set("A", "Progress")
	set("B", fmt.Sprintf("%.0f%%", lifecycle.Progress(rec)))
	row += 2

	for i := range rec.Phases {
		row = e.renderPhase(f, set, &rec.Phases[i], row)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *ExcelExporter) renderPhase(f *excelize.File, set func(string, interface{}), phase *entity.Phase, row int) int {
	setAt := func(col string, r int, value interface{}) {
		cell := fmt.Sprintf("%s%d", col, r)
		if err := f.SetCellValue(summarySheet, cell, value); err != nil {
			e.logger.Warn("Failed to set cell", zap.String("cell", cell), zap.Error(err))
		}
	}

	setAt("A", row, fmt.Sprintf("Phase %d: %s", phase.ID, phase.Name))
	if phase.IsCompleted {
		setAt("C", row, "COMPLETED")
	} else {
		setAt("C", row, "PENDING")
	}
	row++

	for _, item := range phase.Checklist {
		setAt("A", row, item.Label)
		if item.Checked {
			setAt("B", row, "✔")
		} else {
			setAt("B", row, "✘")
		}
		row++
	}

	row = renderSignature(setAt, "Submitted by", phase.SubmittedBy, row)
	row = renderSignature(setAt, "Received by", phase.ReceivedBy, row)
	return row + 1
}

func renderSignature(setAt func(string, int, interface{}), label string, sig *entity.Signature, row int) int {
	setAt("A", row, label)
	if sig == nil {
		setAt("B", row, "-")
		return row + 1
	}
	setAt("B", row, sig.Name)
	if sig.Date != nil {
		setAt("C", row, sig.Date.Format("2006-01-02"))
	}
	if sig.Remarks != "" {
		setAt("D", row, sig.Remarks)
	}
	return row + 1
}

// Verify interface compliance
var _ port.SummaryExporter = (*ExcelExporter)(nil)
