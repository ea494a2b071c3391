package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-adp-api/internal/models"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
)

type sportRepository interface {
	List(ctx context.Context, filter models.SportFilter) ([]models.Sport, int, error)
	FindByID(ctx context.Context, id string) (*models.SportDetail, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, sport *models.Sport, skillLevels []string) error
	Update(ctx context.Context, sport *models.Sport, skillLevels []string) error
	AddSkillLevel(ctx context.Context, sportID, name string) (*models.SkillLevel, error)
	Delete(ctx context.Context, id string) error
}

// SportRequest holds payload for creating and updating sports.
type SportRequest struct {
	Name                string   `json:"name" validate:"required"`
	Description         string   `json:"description"`
	Category            string   `json:"category" validate:"required,oneof=Individual Team"`
	IsRequireHealthTest bool     `json:"isRequireHealthTest"`
	SkillLevels         []string `json:"skillLevels" validate:"omitempty,dive,required"`
}

// SportService handles sport use-cases.
type SportService struct {
	repo         sportRepository
	validator    *validator.Validate
	logger       *zap.Logger
	minSearchLen int
}

// NewSportService constructs the sport service.
func NewSportService(repo sportRepository, validate *validator.Validate, logger *zap.Logger, minSearchLen int) *SportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SportService{repo: repo, validator: validate, logger: logger, minSearchLen: minSearchLen}
}

// List returns sports and pagination metadata.
func (s *SportService) List(ctx context.Context, filter models.SportFilter) ([]models.Sport, *models.Pagination, error) {
	filter.Search = NormalizeSearchTerm(filter.Search, s.minSearchLen)
	sports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sports")
	}
	return sports, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a sport with its skill levels.
func (s *SportService) Get(ctx context.Context, id string) (*models.SportDetail, error) {
	sport, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sport not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sport")
	}
	return sport, nil
}

// Create registers a new sport.
func (s *SportService) Create(ctx context.Context, req SportRequest) (*models.SportDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sport payload")
	}
	exists, err := s.repo.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate sport name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "sport name already used")
	}
	sport := &models.Sport{
		Name:                req.Name,
		Description:         req.Description,
		Category:            models.SportCategory(req.Category),
		IsRequireHealthTest: req.IsRequireHealthTest,
	}
	if err := s.repo.Create(ctx, sport, req.SkillLevels); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create sport")
	}
	return s.Get(ctx, sport.ID)
}

// Update modifies an existing sport and replaces its skill levels.
func (s *SportService) Update(ctx context.Context, id string, req SportRequest) (*models.SportDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sport payload")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sport not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sport")
	}
	exists, err := s.repo.ExistsByName(ctx, req.Name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate sport name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "sport name already used")
	}
	sport := detail.Sport
	sport.Name = req.Name
	sport.Description = req.Description
	sport.Category = models.SportCategory(req.Category)
	sport.IsRequireHealthTest = req.IsRequireHealthTest
	if err := s.repo.Update(ctx, &sport, req.SkillLevels); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update sport")
	}
	return s.Get(ctx, id)
}

// SkillLevelRequest names a new proficiency tier for a sport.
type SkillLevelRequest struct {
	Name string `json:"name" validate:"required"`
}

// AddSkillLevel appends a skill level to an existing sport. Names are unique
// per sport, case-insensitively.
func (s *SportService) AddSkillLevel(ctx context.Context, sportID string, req SkillLevelRequest) (*models.SkillLevel, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid skill level payload")
	}
	detail, err := s.Get(ctx, sportID)
	if err != nil {
		return nil, err
	}
	for _, level := range detail.SkillLevels {
		if strings.EqualFold(level.Name, req.Name) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "skill level already exists for this sport")
		}
	}
	level, err := s.repo.AddSkillLevel(ctx, sportID, req.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add skill level")
	}
	return level, nil
}

// Delete removes a sport and its skill levels.
func (s *SportService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "sport not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete sport")
	}
	return nil
}
