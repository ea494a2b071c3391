package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-adp-api/internal/models"
	"github.com/noah-isme/academy-adp-api/pkg/export"
	"github.com/noah-isme/academy-adp-api/pkg/storage"
)

type attendanceRowSource interface {
	AttendanceRows(ctx context.Context, branchID, groupID *string, from, to time.Time) ([]models.AttendanceReportRow, error)
}

// ExportResult describes a rendered export file.
type ExportResult struct {
	RelPath   string
	URL       string
	ExpiresAt time.Time
}

// ExportService renders attendance report files and manages their storage.
type ExportService struct {
	rows    attendanceRowSource
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	store   *storage.ReportStore
	signer  *storage.DownloadSigner
	baseURL string
	logger  *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(rows attendanceRowSource, store *storage.ReportStore, signer *storage.DownloadSigner, baseURL string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		rows:    rows,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		store:   store,
		signer:  signer,
		baseURL: baseURL,
		logger:  logger,
	}
}

var attendanceColumns = []string{"Date", "Group", "Branch", "Coach", "Status", "Expected", "Attended"}

// Generate renders the attendance export for a job and returns its signed URL.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	rows, err := s.rows.AttendanceRows(ctx, job.BranchID, job.GroupID, job.DateFrom, job.DateTo)
	if err != nil {
		return nil, err
	}

	sheet := export.Sheet{Title: "Attendance Report", Columns: attendanceColumns, Rows: make([][]string, 0, len(rows))}
	for _, row := range rows {
		attended := ""
		if row.AttendedTrainees != nil {
			attended = strconv.Itoa(*row.AttendedTrainees)
		}
		sheet.Rows = append(sheet.Rows, []string{
			row.Date.Format("2006-01-02"),
			row.GroupName,
			row.BranchName,
			row.CoachName,
			row.Status,
			strconv.Itoa(row.ExpectedTrainees),
			attended,
		})
	}

	var payload []byte
	switch job.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(sheet)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(sheet)
	default:
		return nil, fmt.Errorf("unsupported report format %q", job.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	relPath := fmt.Sprintf("%s/attendance-%s.%s", job.CreatedAt.Format("2006/01"), job.ID, job.Format)
	if _, err := s.store.Save(relPath, payload); err != nil {
		return nil, err
	}

	url, expiresAt, err := s.SignDownload(job.ID, relPath)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		RelPath:   relPath,
		URL:       url,
		ExpiresAt: expiresAt,
	}, nil
}

// SignDownload mints a fresh signed download URL for a stored export file.
func (s *ExportService) SignDownload(jobID, relPath string) (string, time.Time, error) {
	token, expiresAt, err := s.signer.Generate(jobID, relPath)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign download url: %w", err)
	}
	return fmt.Sprintf("%s/reports/download/%s", s.baseURL, token), expiresAt, nil
}

// ParseToken validates a signed download token.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a read handle for a stored export file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.store.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.store.Delete(relPath)
}

// Cleanup removes files older than the TTL and returns deleted names.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	return s.store.CleanupOlderThan(ttl)
}
