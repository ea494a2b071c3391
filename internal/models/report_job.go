package models

import "time"

// ReportFormat is the export file format for attendance reports.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ReportJobStatus tracks an async export through its lifecycle.
type ReportJobStatus string

const (
	ReportJobPending    ReportJobStatus = "pending"
	ReportJobProcessing ReportJobStatus = "processing"
	ReportJobCompleted  ReportJobStatus = "completed"
	ReportJobFailed     ReportJobStatus = "failed"
)

// ReportJob is one queued attendance export.
type ReportJob struct {
	ID          string          `db:"id" json:"id"`
	Format      ReportFormat    `db:"format" json:"format"`
	Status      ReportJobStatus `db:"status" json:"status"`
	BranchID    *string         `db:"branch_id" json:"branchId,omitempty"`
	GroupID     *string         `db:"group_id" json:"groupId,omitempty"`
	DateFrom    time.Time       `db:"date_from" json:"dateFrom"`
	DateTo      time.Time       `db:"date_to" json:"dateTo"`
	FilePath    string          `db:"file_path" json:"-"`
	DownloadURL string          `json:"downloadUrl,omitempty"`
	Error       string          `db:"error" json:"error,omitempty"`
	RequestedBy string          `db:"requested_by" json:"requestedBy"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	CompletedAt *time.Time      `db:"completed_at" json:"completedAt,omitempty"`
}

// AttendanceReportRow is one exported line of the attendance report.
type AttendanceReportRow struct {
	Date             time.Time `db:"date"`
	GroupName        string    `db:"group_name"`
	BranchName       string    `db:"branch_name"`
	CoachName        string    `db:"coach_name"`
	Status           string    `db:"status"`
	ExpectedTrainees int       `db:"expected_trainees"`
	AttendedTrainees *int      `db:"attended_trainees"`
}
