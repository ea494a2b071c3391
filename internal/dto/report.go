package dto

import (
	"time"

	"github.com/noah-isme/academy-adp-api/internal/models"
)

// ReportRequest asks for an async attendance export.
type ReportRequest struct {
	Format   models.ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
	BranchID *string             `json:"branchId"`
	GroupID  *string             `json:"groupId"`
	DateFrom time.Time           `json:"dateFrom" validate:"required"`
	DateTo   time.Time           `json:"dateTo" validate:"required"`
}

// ReportJobResponse acknowledges an accepted export job.
type ReportJobResponse struct {
	ID     string                 `json:"id"`
	Status models.ReportJobStatus `json:"status"`
}

// ReportStatusResponse exposes job progress to polling clients.
type ReportStatusResponse struct {
	ID          string                 `json:"id"`
	Status      models.ReportJobStatus `json:"status"`
	DownloadURL *string                `json:"downloadUrl,omitempty"`
	Error       *string                `json:"error,omitempty"`
}
