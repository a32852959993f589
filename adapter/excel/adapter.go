package excel

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/reqsift/reqsift"
)

// Adapter renders the accepted requirements of a run into an XLSX workbook.
type Adapter struct {
	sheet  string
	logger *zap.Logger
}

type Option func(*Adapter)

const defaultSheet = "Requirements"

func WithSheet(sheet string) Option {
	return func(a *Adapter) {
		a.sheet = sheet
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

func New(options ...Option) *Adapter {
	a := &Adapter{
		sheet:  defaultSheet,
		logger: zap.NewNop(),
	}

	for _, o := range options {
		o(a)
	}

	return a
}

var headers = []string{
	"Page",
	"Requirement",
	"Matched Keywords",
	"Word Count",
	"Extracted At",
}

func (a *Adapter) Export(ctx context.Context, aRun *reqsift.Run, requirements []*reqsift.Requirement) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(a.sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(a.sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, requirement := range requirements {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(a.sheet, cell, v)
		}

		// Pages are 0-based internally, 1-based for readers.
		write(1, requirement.Page+1)
		write(2, requirement.Content)
		write(3, strings.Join(requirement.Keywords, ", "))
		write(4, requirement.WordCount)
		if !requirement.Created.IsZero() {
			write(5, requirement.Created.Format("2006-01-02 15:04:05"))
		}
	}

	_ = f.SetColWidth(a.sheet, "A", "A", 8)
	_ = f.SetColWidth(a.sheet, "B", "B", 90)
	_ = f.SetColWidth(a.sheet, "C", "C", 28)
	_ = f.SetColWidth(a.sheet, "D", "D", 12)
	_ = f.SetColWidth(a.sheet, "E", "E", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	a.logger.Sugar().With(
		"run", aRun.ID,
		"rows", len(requirements),
	).Info("requirements exported")

	return buf.Bytes(), nil
}
