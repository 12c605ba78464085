package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jmtenga/attendance-api/internal/models"
	appErrors "github.com/jmtenga/attendance-api/pkg/errors"
	"github.com/jmtenga/attendance-api/pkg/export"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
)

// ParseExportFormat normalises a raw format string, defaulting to xlsx.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatXLSX:
		return ExportFormatXLSX, nil
	case ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
	}
}

// ContentType returns the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatCSV:
		return "text/csv"
	case ExportFormatPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

type recordSource interface {
	Query(ctx context.Context, q RecordQuery) ([]models.RecordDetail, models.DateRange, error)
	All(ctx context.Context) ([]models.RecordDetail, error)
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheet string) ([]byte, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered, downloadable file.
type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
	Rows        int
}

// ExportService maps queried ledger rows onto flat export rows and renders
// them in the requested format with a period-derived filename.
type ExportService struct {
	records recordSource
	storage exportStorage
	xlsx    xlsxRenderer
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(records recordSource, storage exportStorage, logger *zap.Logger, xlsx xlsxRenderer, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{records: records, storage: storage, xlsx: xlsx, csv: csv, pdf: pdf, logger: logger}
}

var exportHeaders = []string{"Date", "Student ID", "Name", "Course", "Time In", "Time Out", "Status"}

const missingTimeSentinel = "N/A"

// Export renders the records selected by the query. Filenames follow the
// period label, e.g. attendance_weekly_2024-02-26_to_2024-03-03.xlsx.
func (s *ExportService) Export(ctx context.Context, q RecordQuery, format ExportFormat) (*ExportResult, error) {
	records, rng, err := s.records.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.render(records, fmt.Sprintf("attendance_%s", rng.Label), format)
}

// ExportAll renders the entire ledger.
func (s *ExportService) ExportAll(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	records, err := s.records.All(ctx)
	if err != nil {
		return nil, err
	}
	return s.render(records, "attendance_records", format)
}

func (s *ExportService) render(records []models.RecordDetail, basename string, format ExportFormat) (*ExportResult, error) {
	dataset := BuildExportDataset(records)

	var payload []byte
	var err error
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Attendance Records")
	default:
		payload, err = s.xlsx.Render(dataset, "Attendance")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("%s.%s", basename, format)
	if s.storage != nil {
		// Server-side copy is best effort; the download still succeeds
		// when the exports directory is unavailable.
		if _, err := s.storage.Save(filename, payload); err != nil {
			s.logger.Warn("failed to persist export copy", zap.String("filename", filename), zap.Error(err))
		}
	}

	return &ExportResult{
		Filename:    filename,
		ContentType: format.ContentType(),
		Content:     payload,
		Rows:        len(dataset.Rows),
	}, nil
}

// BuildExportDataset flattens joined ledger rows into the export row shape.
// Missing time fields render as N/A.
func BuildExportDataset(records []models.RecordDetail) export.Dataset {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		timeIn := missingTimeSentinel
		if !record.TimeIn.IsZero() {
			timeIn = record.TimeIn.Format("15:04:05")
		}
		timeOut := missingTimeSentinel
		if record.TimeOut != nil {
			timeOut = record.TimeOut.Format("15:04:05")
		}
		rows = append(rows, []string{
			record.Date.Format("2006-01-02"),
			record.StudentNumber,
			record.StudentName,
			record.Course,
			timeIn,
			timeOut,
			string(record.Status),
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}
