package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-adp-api/internal/dto"
	"github.com/noah-isme/academy-adp-api/internal/models"
	"github.com/noah-isme/academy-adp-api/internal/repository"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
	"github.com/noah-isme/academy-adp-api/pkg/jobs"
	"github.com/noah-isme/academy-adp-api/pkg/storage"
)

type mockReportStore struct {
	jobs    map[string]models.ReportJob
	nextID  int
	updates []repository.UpdateReportJobParams
}

func (m *mockReportStore) Create(ctx context.Context, job *models.ReportJob) error {
	if m.jobs == nil {
		m.jobs = make(map[string]models.ReportJob)
	}
	if job.ID == "" {
		m.nextID++
		job.ID = fmt.Sprintf("job-%d", m.nextID)
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	m.jobs[job.ID] = *job
	return nil
}

func (m *mockReportStore) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	if j, ok := m.jobs[id]; ok {
		return &j, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockReportStore) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	j, ok := m.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		j.Status = *params.Status
	}
	if params.FilePath != nil {
		j.FilePath = *params.FilePath
	}
	if params.Error != nil {
		j.Error = *params.Error
	}
	if params.CompletedAt != nil {
		j.CompletedAt = params.CompletedAt
	}
	m.jobs[id] = j
	m.updates = append(m.updates, params)
	return nil
}

func (m *mockReportStore) ListPending(ctx context.Context, limit int) ([]models.ReportJob, error) {
	pending := make([]models.ReportJob, 0)
	for _, j := range m.jobs {
		if j.Status == models.ReportJobPending {
			pending = append(pending, j)
		}
	}
	return pending, nil
}

func (m *mockReportStore) ListCompletedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	return nil, nil
}

type mockDispatcher struct {
	enqueued []jobs.Task
	err      error
}

func (m *mockDispatcher) Enqueue(task jobs.Task) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, task)
	return nil
}

type stubRowSource struct {
	rows []models.AttendanceReportRow
	err  error
}

func (s *stubRowSource) AttendanceRows(ctx context.Context, branchID, groupID *string, from, to time.Time) ([]models.AttendanceReportRow, error) {
	return s.rows, s.err
}

func newExporterFixture(t *testing.T, rows *stubRowSource) *ExportService {
	t.Helper()
	store, err := storage.NewReportStore(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewDownloadSigner("test-signing-secret", time.Hour)
	return NewExportService(rows, store, signer, "/api/v1", zap.NewNop())
}

func validReportRequest() dto.ReportRequest {
	return dto.ReportRequest{
		Format:   models.ReportFormatCSV,
		DateFrom: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestReportCreateJob(t *testing.T) {
	repo := &mockReportStore{}
	queue := &mockDispatcher{}
	svc := NewReportService(repo, queue, nil, zap.NewNop(), ReportServiceConfig{})

	resp, err := svc.CreateJob(context.Background(), validReportRequest(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportJobPending, resp.Status)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, resp.ID, queue.enqueued[0].JobID)
	assert.Equal(t, "u1", repo.jobs[resp.ID].RequestedBy)
}

func TestReportCreateJobUnsupportedFormat(t *testing.T) {
	svc := NewReportService(&mockReportStore{}, &mockDispatcher{}, nil, zap.NewNop(), ReportServiceConfig{})

	req := validReportRequest()
	req.Format = "xlsx"
	_, err := svc.CreateJob(context.Background(), req, "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportCreateJobInvertedDates(t *testing.T) {
	svc := NewReportService(&mockReportStore{}, &mockDispatcher{}, nil, zap.NewNop(), ReportServiceConfig{})

	req := validReportRequest()
	req.DateFrom, req.DateTo = req.DateTo, req.DateFrom
	_, err := svc.CreateJob(context.Background(), req, "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportCreateJobEnqueueFailure(t *testing.T) {
	repo := &mockReportStore{}
	queue := &mockDispatcher{err: errors.New("queue closed")}
	svc := NewReportService(repo, queue, nil, zap.NewNop(), ReportServiceConfig{})

	_, err := svc.CreateJob(context.Background(), validReportRequest(), "u1")
	require.Error(t, err)
	require.Len(t, repo.jobs, 1)
	for _, job := range repo.jobs {
		assert.Equal(t, models.ReportJobFailed, job.Status)
		assert.NotNil(t, job.CompletedAt)
	}
}

func TestReportWorkerCompletesJob(t *testing.T) {
	attended := 11
	rows := &stubRowSource{rows: []models.AttendanceReportRow{
		{
			Date:             time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
			GroupName:        "U12 Football",
			BranchName:       "Downtown",
			CoachName:        "Sara Hassan",
			Status:           "Completed",
			ExpectedTrainees: 14,
			AttendedTrainees: &attended,
		},
	}}
	exporter := newExporterFixture(t, rows)
	repo := &mockReportStore{jobs: map[string]models.ReportJob{
		"j1": {
			ID:        "j1",
			Format:    models.ReportFormatCSV,
			Status:    models.ReportJobPending,
			DateFrom:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			DateTo:    time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
			CreatedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		},
	}}
	worker := NewReportWorker(repo, exporter, 3, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Task{JobID: "j1", Kind: "attendance-report"})
	require.NoError(t, err)

	job := repo.jobs["j1"]
	assert.Equal(t, models.ReportJobCompleted, job.Status)
	assert.NotEmpty(t, job.FilePath)
	assert.NotNil(t, job.CompletedAt)
	assert.Empty(t, job.Error)

	file, err := exporter.Open(job.FilePath)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "U12 Football")
	assert.Contains(t, string(content), "2026-09-07")
}

type failingGenerator struct{ err error }

func (f *failingGenerator) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	return nil, f.err
}

func TestReportWorkerRequeuesOnFailure(t *testing.T) {
	repo := &mockReportStore{jobs: map[string]models.ReportJob{
		"j1": {ID: "j1", Format: models.ReportFormatCSV, Status: models.ReportJobPending},
	}}
	worker := NewReportWorker(repo, &failingGenerator{err: errors.New("db gone")}, 3, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Task{JobID: "j1", Attempt: 1})
	require.Error(t, err)

	job := repo.jobs["j1"]
	assert.Equal(t, models.ReportJobPending, job.Status)
	assert.Equal(t, "db gone", job.Error)
	assert.Nil(t, job.CompletedAt)
}

func TestReportWorkerFailsAfterMaxRetries(t *testing.T) {
	repo := &mockReportStore{jobs: map[string]models.ReportJob{
		"j1": {ID: "j1", Format: models.ReportFormatCSV, Status: models.ReportJobPending},
	}}
	worker := NewReportWorker(repo, &failingGenerator{err: errors.New("db gone")}, 3, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Task{JobID: "j1", Attempt: 3})
	require.Error(t, err)

	job := repo.jobs["j1"]
	assert.Equal(t, models.ReportJobFailed, job.Status)
	assert.NotNil(t, job.CompletedAt)
}

func TestReportStatusSignsFreshURL(t *testing.T) {
	exporter := newExporterFixture(t, &stubRowSource{})
	repo := &mockReportStore{jobs: map[string]models.ReportJob{
		"j1": {ID: "j1", Status: models.ReportJobCompleted, FilePath: "2026/09/attendance-j1.csv"},
	}}
	svc := NewReportService(repo, &mockDispatcher{}, exporter, zap.NewNop(), ReportServiceConfig{})

	resp, err := svc.GetStatus(context.Background(), "j1")
	require.NoError(t, err)
	require.NotNil(t, resp.DownloadURL)
	assert.True(t, strings.HasPrefix(*resp.DownloadURL, "/api/v1/reports/download/"))
}

func TestReportStatusPendingHasNoURL(t *testing.T) {
	repo := &mockReportStore{jobs: map[string]models.ReportJob{
		"j1": {ID: "j1", Status: models.ReportJobPending},
	}}
	svc := NewReportService(repo, &mockDispatcher{}, nil, zap.NewNop(), ReportServiceConfig{})

	resp, err := svc.GetStatus(context.Background(), "j1")
	require.NoError(t, err)
	assert.Nil(t, resp.DownloadURL)
}

func TestReportResolveDownload(t *testing.T) {
	rows := &stubRowSource{}
	exporter := newExporterFixture(t, rows)
	repo := &mockReportStore{jobs: map[string]models.ReportJob{
		"j1": {
			ID:        "j1",
			Format:    models.ReportFormatCSV,
			Status:    models.ReportJobPending,
			CreatedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		},
	}}
	worker := NewReportWorker(repo, exporter, 3, zap.NewNop())
	require.NoError(t, worker.Handle(context.Background(), jobs.Task{JobID: "j1"}))

	svc := NewReportService(repo, &mockDispatcher{}, exporter, zap.NewNop(), ReportServiceConfig{})
	resp, err := svc.GetStatus(context.Background(), "j1")
	require.NoError(t, err)
	require.NotNil(t, resp.DownloadURL)
	token := (*resp.DownloadURL)[strings.LastIndex(*resp.DownloadURL, "/")+1:]

	download, err := svc.ResolveDownload(context.Background(), token)
	require.NoError(t, err)
	defer download.File.Close() //nolint:errcheck
	assert.Equal(t, models.ReportFormatCSV, download.Format)
	assert.Equal(t, "attendance-j1.csv", download.Filename)
}

func TestReportResolveDownloadRejectsStaleToken(t *testing.T) {
	exporter := newExporterFixture(t, &stubRowSource{})
	repo := &mockReportStore{jobs: map[string]models.ReportJob{
		"j1": {ID: "j1", Status: models.ReportJobCompleted, FilePath: "2026/09/attendance-j1.csv"},
	}}
	svc := NewReportService(repo, &mockDispatcher{}, exporter, zap.NewNop(), ReportServiceConfig{})

	url, _, err := exporter.SignDownload("j1", "2026/09/some-other-file.csv")
	require.NoError(t, err)
	token := url[strings.LastIndex(url, "/")+1:]

	_, err = svc.ResolveDownload(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestReportRecoverPendingJobs(t *testing.T) {
	repo := &mockReportStore{jobs: map[string]models.ReportJob{
		"j1": {ID: "j1", Status: models.ReportJobPending},
		"j2": {ID: "j2", Status: models.ReportJobCompleted},
	}}
	queue := &mockDispatcher{}
	svc := NewReportService(repo, queue, nil, zap.NewNop(), ReportServiceConfig{})

	svc.RecoverPendingJobs(context.Background())
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, "j1", queue.enqueued[0].JobID)
}
