package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academy-adp-api/internal/models"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
)

type mockAuthUserRepo struct {
	users      map[string]models.User
	lastLogin  map[string]time.Time
	passwords  map[string]string
	createdIDs []string
}

func (m *mockAuthUserRepo) findBy(match func(models.User) bool) (*models.User, error) {
	for _, u := range m.users {
		if match(u) {
			user := u
			return &user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findBy(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (m *mockAuthUserRepo) FindByUserName(ctx context.Context, userName string) (*models.User, error) {
	return m.findBy(func(u models.User) bool { return strings.EqualFold(u.UserName, userName) })
}

func (m *mockAuthUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if m.lastLogin == nil {
		m.lastLogin = make(map[string]time.Time)
	}
	m.lastLogin[id] = ts
	return nil
}

func (m *mockAuthUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if m.passwords == nil {
		m.passwords = make(map[string]string)
	}
	m.passwords[id] = passwordHash
	return nil
}

func (m *mockAuthUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[string]models.User)
	}
	if user.ID == "" {
		user.ID = "generated"
	}
	m.users[user.ID] = *user
	m.createdIDs = append(m.createdIDs, user.ID)
	return nil
}

func authFixture(t *testing.T) (*mockAuthUserRepo, *AuthService) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockAuthUserRepo{users: map[string]models.User{
		"u1": {ID: "u1", UserName: "admin", Email: "admin@academy.test", PasswordHash: string(hash), Role: models.RoleAdmin, Active: true},
	}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "academy-test",
	})
	return repo, svc
}

func TestAuthLogin(t *testing.T) {
	repo, svc := authFixture(t)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@academy.test", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "u1", res.User.ID)
	assert.Contains(t, repo.lastLogin, "u1")

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	_, svc := authFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@academy.test", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginInactiveAccount(t *testing.T) {
	repo, svc := authFixture(t)
	user := repo.users["u1"]
	user.Active = false
	repo.users["u1"] = user

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@academy.test", Password: "correct-horse"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthRegister(t *testing.T) {
	repo, svc := authFixture(t)

	res, err := svc.Register(context.Background(), models.RegisterRequest{
		UserName: "frontdesk",
		Email:    "frontdesk@academy.test",
		Password: "long-enough-pass",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	created := repo.users[res.User.ID]
	assert.Equal(t, models.RoleStaff, created.Role)
	assert.True(t, created.Active)
}

func TestAuthRegisterDuplicateFields(t *testing.T) {
	_, svc := authFixture(t)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		UserName: "admin",
		Email:    "admin@academy.test",
		Password: "long-enough-pass",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr.Fields)
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "userName")
}

func TestAuthChangePassword(t *testing.T) {
	repo, svc := authFixture(t)

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "correct-horse",
		NewPassword: "new-long-password",
	})
	require.NoError(t, err)
	assert.Contains(t, repo.passwords, "u1")
}

func TestAuthChangePasswordWrongOld(t *testing.T) {
	_, svc := authFixture(t)

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "not-it",
		NewPassword: "new-long-password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAuthValidateTokenRejectsGarbage(t *testing.T) {
	_, svc := authFixture(t)

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
}

func TestAuthValidateTokenRejectsExpired(t *testing.T) {
	_, svc := authFixture(t)

	issuedAt := time.Now().UTC().Add(-2 * time.Hour)
	claims := &models.JWTClaims{
		UserID: "u1",
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "academy-test",
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthValidateTokenRejectsWrongSecret(t *testing.T) {
	_, svc := authFixture(t)

	claims := &models.JWTClaims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("another-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
