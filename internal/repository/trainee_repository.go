package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-adp-api/internal/models"
)

// TraineeRepository manages persistence for trainee records.
type TraineeRepository struct {
	db *sqlx.DB
}

// NewTraineeRepository constructs a TraineeRepository.
func NewTraineeRepository(db *sqlx.DB) *TraineeRepository {
	return &TraineeRepository{db: db}
}

// List returns trainee cards matching the provided filters.
func (r *TraineeRepository) List(ctx context.Context, filter models.TraineeFilter) ([]models.TraineeCard, int, error) {
	base := "FROM trainees t JOIN branches b ON b.id = t.branch_id"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.BranchID != "" {
		conditions = append(conditions, fmt.Sprintf("t.branch_id = $%d", len(args)+1))
		args = append(args, filter.BranchID)
	}
	if filter.SportID != "" {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM trainee_sports ts WHERE ts.trainee_id = t.id AND ts.sport_id = $%d)", len(args)+1))
		args = append(args, filter.SportID)
	}
	if filter.Gender != "" {
		conditions = append(conditions, fmt.Sprintf("t.gender = $%d", len(args)+1))
		args = append(args, filter.Gender)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(t.first_name || ' ' || t.last_name) LIKE $%d OR LOWER(t.guardian_name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"first_name": "t.first_name",
		"birth_date": "t.birth_date",
		"created_at": "t.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "t.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT t.id, t.first_name, t.last_name, t.parent_number, t.guardian_name, t.birth_date, t.gender, b.name AS branch_name
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var cards []models.TraineeCard
	if err := r.db.SelectContext(ctx, &cards, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list trainees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count trainees: %w", err)
	}
	return cards, total, nil
}

// FindByID fetches a trainee detail including practiced sports.
func (r *TraineeRepository) FindByID(ctx context.Context, id string) (*models.TraineeDetail, error) {
	const query = `SELECT t.id, t.first_name, t.last_name, t.ssn, t.parent_number, t.guardian_name, t.birth_date, t.gender, t.branch_id, t.created_at, t.updated_at, b.name AS branch_name
        FROM trainees t JOIN branches b ON b.id = t.branch_id WHERE t.id = $1`
	var detail models.TraineeDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}

	type traineeSport struct {
		SportID string `db:"sport_id"`
		Name    string `db:"name"`
	}
	const sportsQuery = `SELECT ts.sport_id, s.name FROM trainee_sports ts JOIN sports s ON s.id = ts.sport_id WHERE ts.trainee_id = $1 ORDER BY s.name`
	var rows []traineeSport
	if err := r.db.SelectContext(ctx, &rows, sportsQuery, id); err != nil {
		return nil, fmt.Errorf("list trainee sports: %w", err)
	}
	detail.SportIDs = make([]string, 0, len(rows))
	detail.Sports = make([]string, 0, len(rows))
	for _, row := range rows {
		detail.SportIDs = append(detail.SportIDs, row.SportID)
		detail.Sports = append(detail.Sports, row.Name)
	}
	return &detail, nil
}

// ExistsBySSN checks if a trainee with the given SSN exists, optionally excluding an ID.
func (r *TraineeRepository) ExistsBySSN(ctx context.Context, ssn, excludeID string) (bool, error) {
	query := "SELECT 1 FROM trainees WHERE ssn = $1"
	args := []interface{}{ssn}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check trainee ssn: %w", err)
	}
	return true, nil
}

// Create inserts a trainee and their sport links in one transaction.
func (r *TraineeRepository) Create(ctx context.Context, trainee *models.Trainee, sportIDs []string) error {
	if trainee.ID == "" {
		trainee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	trainee.CreatedAt = now
	trainee.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO trainees (id, first_name, last_name, ssn, parent_number, guardian_name, birth_date, gender, branch_id, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :ssn, :parent_number, :guardian_name, :birth_date, :gender, :branch_id, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, trainee); err != nil {
		return fmt.Errorf("create trainee: %w", err)
	}

	const linkQuery = `INSERT INTO trainee_sports (trainee_id, sport_id) VALUES ($1, $2)`
	for _, sportID := range sportIDs {
		if _, err := tx.ExecContext(ctx, linkQuery, trainee.ID, sportID); err != nil {
			return fmt.Errorf("link trainee sport: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create trainee: %w", err)
	}
	return nil
}

// Update modifies a trainee and replaces their sport links.
func (r *TraineeRepository) Update(ctx context.Context, trainee *models.Trainee, sportIDs []string) error {
	trainee.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const query = `UPDATE trainees SET first_name = :first_name, last_name = :last_name, ssn = :ssn, parent_number = :parent_number, guardian_name = :guardian_name, birth_date = :birth_date, gender = :gender, branch_id = :branch_id, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, trainee); err != nil {
		return fmt.Errorf("update trainee: %w", err)
	}

	if sportIDs != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM trainee_sports WHERE trainee_id = $1`, trainee.ID); err != nil {
			return fmt.Errorf("clear trainee sports: %w", err)
		}
		const linkQuery = `INSERT INTO trainee_sports (trainee_id, sport_id) VALUES ($1, $2)`
		for _, sportID := range sportIDs {
			if _, err := tx.ExecContext(ctx, linkQuery, trainee.ID, sportID); err != nil {
				return fmt.Errorf("link trainee sport: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update trainee: %w", err)
	}
	return nil
}

// Delete removes a trainee record.
func (r *TraineeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM trainees WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete trainee: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
