package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-adp-api/internal/models"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
)

type employeeRepository interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.EmployeeCard, int, error)
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	ExistsBySSN(ctx context.Context, ssn, excludeID string) (bool, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Deactivate(ctx context.Context, id string) error
}

type branchFinder interface {
	FindByID(ctx context.Context, id string) (*models.Branch, error)
}

// EmployeeRequest holds payload for creating and updating employees.
type EmployeeRequest struct {
	FirstName    string    `json:"firstName" validate:"required"`
	LastName     string    `json:"lastName" validate:"required"`
	SSN          string    `json:"ssn" validate:"required"`
	Salary       float64   `json:"salary" validate:"min=0"`
	Gender       string    `json:"gender" validate:"required,oneof=Male Female"`
	BirthDate    time.Time `json:"birthDate" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	Nationality  string    `json:"nationality" validate:"required"`
	Street       string    `json:"street" validate:"required"`
	City         string    `json:"city" validate:"required"`
	PhoneNumber  string    `json:"phoneNumber" validate:"required"`
	SecondNumber *string   `json:"secondNumber"`
	Position     string    `json:"position" validate:"required"`
	BranchID     string    `json:"branchId" validate:"required"`
	IsWork       bool      `json:"isWork"`
}

// EmployeeService handles employee use-cases.
type EmployeeService struct {
	repo         employeeRepository
	branches     branchFinder
	validator    *validator.Validate
	logger       *zap.Logger
	minSearchLen int
}

// NewEmployeeService constructs the employee service.
func NewEmployeeService(repo employeeRepository, branches branchFinder, validate *validator.Validate, logger *zap.Logger, minSearchLen int) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, branches: branches, validator: validate, logger: logger, minSearchLen: minSearchLen}
}

// List returns employee cards and pagination metadata.
func (s *EmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.EmployeeCard, *models.Pagination, error) {
	filter.Search = NormalizeSearchTerm(filter.Search, s.minSearchLen)
	cards, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	return cards, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns an employee by ID.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	return employee, nil
}

// Create registers a new employee.
func (s *EmployeeService) Create(ctx context.Context, req EmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}
	if err := s.ensureBranch(ctx, req.BranchID); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsBySSN(ctx, req.SSN, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate ssn")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "ssn already used")
	}
	employee := &models.Employee{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		SSN:          req.SSN,
		Salary:       req.Salary,
		Gender:       req.Gender,
		BirthDate:    req.BirthDate,
		Email:        req.Email,
		Nationality:  req.Nationality,
		Street:       req.Street,
		City:         req.City,
		PhoneNumber:  req.PhoneNumber,
		SecondNumber: req.SecondNumber,
		Position:     req.Position,
		BranchID:     req.BranchID,
		IsWork:       true,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	return employee, nil
}

// Update modifies an existing employee.
func (s *EmployeeService) Update(ctx context.Context, id string, req EmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	if err := s.ensureBranch(ctx, req.BranchID); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsBySSN(ctx, req.SSN, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate ssn")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "ssn already used")
	}
	employee.FirstName = req.FirstName
	employee.LastName = req.LastName
	employee.SSN = req.SSN
	employee.Salary = req.Salary
	employee.Gender = req.Gender
	employee.BirthDate = req.BirthDate
	employee.Email = req.Email
	employee.Nationality = req.Nationality
	employee.Street = req.Street
	employee.City = req.City
	employee.PhoneNumber = req.PhoneNumber
	employee.SecondNumber = req.SecondNumber
	employee.Position = req.Position
	employee.BranchID = req.BranchID
	employee.IsWork = req.IsWork
	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}
	return employee, nil
}

// Deactivate marks an employee as no longer working.
func (s *EmployeeService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate employee")
	}
	return nil
}

func (s *EmployeeService) ensureBranch(ctx context.Context, branchID string) error {
	if s.branches == nil {
		return nil
	}
	if _, err := s.branches.FindByID(ctx, branchID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrValidation, "branch does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate branch")
	}
	return nil
}
