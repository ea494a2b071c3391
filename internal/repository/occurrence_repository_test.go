package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-adp-api/internal/models"
)

func newOccurrenceMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestOccurrenceRepositoryList(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewOccurrenceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "trainee_group_id", "group_schedule_id", "date", "start_time", "end_time", "status", "expected_trainees", "attended_trainees", "created_at", "updated_at", "group_name", "branch_name", "coach_name"}).
		AddRow("o1", "g1", "s1", now, "17:00", "18:30", "Scheduled", 14, nil, now, now, "U12 Football", "Downtown", "Sara Hassan")
	mock.ExpectQuery("SELECT o.id, o.trainee_group_id").
		WithArgs("g1", "Scheduled").
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("g1", "Scheduled").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	occurrences, total, err := repo.List(context.Background(), models.SessionOccurrenceFilter{
		TraineeGroupID: "g1",
		Status:         string(models.OccurrenceScheduled),
	})
	require.NoError(t, err)
	assert.Len(t, occurrences, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "U12 Football", occurrences[0].GroupName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOccurrenceRepositoryExistingDates(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewOccurrenceRepository(db)

	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 27, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT date FROM session_occurrences").
		WithArgs("s1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"date"}).
			AddRow(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)).
			AddRow(time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)))

	existing, err := repo.ExistingDates(context.Background(), "s1", from, to)
	require.NoError(t, err)
	assert.Len(t, existing, 2)
	assert.Contains(t, existing, "2026-09-07")
	assert.Contains(t, existing, "2026-09-14")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOccurrenceRepositoryBulkCreate(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewOccurrenceRepository(db)

	mock.ExpectBegin()
	for i := 0; i < 2; i++ {
		mock.ExpectExec("INSERT INTO session_occurrences").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	err := repo.BulkCreate(context.Background(), []models.SessionOccurrence{
		{TraineeGroupID: "g1", GroupScheduleID: "s1", Date: time.Now(), StartTime: "17:00", EndTime: "18:30", Status: models.OccurrenceScheduled, ExpectedTrainees: 14},
		{TraineeGroupID: "g1", GroupScheduleID: "s2", Date: time.Now(), StartTime: "17:00", EndTime: "18:30", Status: models.OccurrenceScheduled, ExpectedTrainees: 14},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOccurrenceRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewOccurrenceRepository(db)

	attended := 10
	mock.ExpectExec("UPDATE session_occurrences SET status").
		WithArgs("o1", models.OccurrenceCompleted, &attended, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "o1", models.OccurrenceCompleted, &attended)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOccurrenceRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewOccurrenceRepository(db)

	mock.ExpectExec("UPDATE session_occurrences SET status").
		WithArgs("missing", models.OccurrenceCancelled, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.OccurrenceCancelled, nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOccurrenceRepositoryDeleteScheduled(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewOccurrenceRepository(db)

	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("DELETE FROM session_occurrences").
		WithArgs("g1", models.OccurrenceScheduled, from).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.DeleteScheduled(context.Background(), "g1", from)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOccurrenceRepositoryDeleteScheduledCountError(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewOccurrenceRepository(db)

	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("DELETE FROM session_occurrences").
		WithArgs("g1", models.OccurrenceScheduled, from).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("driver does not report rows")))

	_, err := repo.DeleteScheduled(context.Background(), "g1", from)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count deleted occurrences")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOccurrenceRepositoryAttendanceRows(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewOccurrenceRepository(db)

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	branchID := "b1"
	mock.ExpectQuery("SELECT o.date, g.name AS group_name").
		WithArgs(from, to, branchID).
		WillReturnRows(sqlmock.NewRows([]string{"date", "group_name", "branch_name", "coach_name", "status", "expected_trainees", "attended_trainees"}).
			AddRow(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), "U12 Football", "Downtown", "Sara Hassan", "Completed", 14, 11))

	rows, err := repo.AttendanceRows(context.Background(), &branchID, nil, from, to)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "U12 Football", rows[0].GroupName)
	require.NotNil(t, rows[0].AttendedTrainees)
	assert.Equal(t, 11, *rows[0].AttendedTrainees)
	assert.NoError(t, mock.ExpectationsWereMet())
}
