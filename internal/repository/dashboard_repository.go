package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-adp-api/internal/models"
)

// DashboardRepository aggregates counters for the admin dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// EntityCounts holds the headline totals shown on the dashboard.
type EntityCounts struct {
	Trainees          int `db:"trainees"`
	Coaches           int `db:"coaches"`
	Employees         int `db:"employees"`
	Branches          int `db:"branches"`
	TraineeGroups     int `db:"trainee_groups"`
	ActiveEnrollments int `db:"active_enrollments"`
}

// Counts returns the headline entity totals in one round trip.
func (r *DashboardRepository) Counts(ctx context.Context) (*EntityCounts, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM trainees) AS trainees,
        (SELECT COUNT(*) FROM coaches) AS coaches,
        (SELECT COUNT(*) FROM employees WHERE is_work = true) AS employees,
        (SELECT COUNT(*) FROM branches) AS branches,
        (SELECT COUNT(*) FROM trainee_groups) AS trainee_groups,
        (SELECT COUNT(*) FROM enrollments WHERE expiry_date >= NOW()) AS active_enrollments`
	var counts EntityCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return &counts, nil
}

// TodaySessions returns the occurrences dated on the given day.
func (r *DashboardRepository) TodaySessions(ctx context.Context, day time.Time) ([]models.SessionOccurrenceDetail, error) {
	const query = `SELECT o.id, o.trainee_group_id, o.group_schedule_id, o.date, o.start_time, o.end_time, o.status, o.expected_trainees, o.attended_trainees, o.created_at, o.updated_at,
        g.name AS group_name, b.name AS branch_name, e.first_name || ' ' || e.last_name AS coach_name
        FROM session_occurrences o
        JOIN trainee_groups g ON g.id = o.trainee_group_id
        JOIN branches b ON b.id = g.branch_id
        JOIN coaches c ON c.id = g.coach_id
        JOIN employees e ON e.id = c.employee_id
        WHERE o.date = $1
        ORDER BY o.start_time ASC`
	var sessions []models.SessionOccurrenceDetail
	if err := r.db.SelectContext(ctx, &sessions, query, day); err != nil {
		return nil, fmt.Errorf("dashboard today sessions: %w", err)
	}
	return sessions, nil
}

// AttendanceRate returns the attended/expected ratio of completed sessions
// inside [from, to], as a percentage. Zero expected trainees yields zero.
func (r *DashboardRepository) AttendanceRate(ctx context.Context, from, to time.Time) (float64, error) {
	const query = `SELECT COALESCE(SUM(attended_trainees), 0) AS attended, COALESCE(SUM(expected_trainees), 0) AS expected
        FROM session_occurrences WHERE status = $1 AND date >= $2 AND date <= $3`
	var totals struct {
		Attended int `db:"attended"`
		Expected int `db:"expected"`
	}
	if err := r.db.GetContext(ctx, &totals, query, models.OccurrenceCompleted, from, to); err != nil {
		return 0, fmt.Errorf("dashboard attendance rate: %w", err)
	}
	if totals.Expected == 0 {
		return 0, nil
	}
	return float64(totals.Attended) / float64(totals.Expected) * 100, nil
}
