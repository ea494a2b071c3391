package models

import "time"

// SportCategory classifies a sport as individual or team based.
type SportCategory string

const (
	SportCategoryIndividual SportCategory = "Individual"
	SportCategoryTeam       SportCategory = "Team"
)

// Sport represents a discipline taught at the academy.
type Sport struct {
	ID                  string        `db:"id" json:"id"`
	Name                string        `db:"name" json:"name"`
	Description         string        `db:"description" json:"description,omitempty"`
	Category            SportCategory `db:"category" json:"category"`
	IsRequireHealthTest bool          `db:"is_require_health_test" json:"isRequireHealthTest"`
	CreatedAt           time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time     `db:"updated_at" json:"updatedAt"`
}

// SkillLevel is a named proficiency tier attached to a sport.
type SkillLevel struct {
	ID        string    `db:"id" json:"id"`
	SportID   string    `db:"sport_id" json:"sportId"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// SportDetail joins a sport with its skill levels.
type SportDetail struct {
	Sport
	SkillLevels []SkillLevel `json:"skillLevels,omitempty"`
}

// SportFilter describes query params for listing sports.
type SportFilter struct {
	Search    string
	Category  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
