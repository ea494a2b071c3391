package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest is the credential payload for /auth/login.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// UserInfo is the safe subset of user data returned on login.
type UserInfo struct {
	ID       string   `json:"id"`
	UserName string   `json:"userName"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresIn   int64     `json:"expiresIn"`
	IssuedAt    time.Time `json:"issuedAt"`
	User        UserInfo  `json:"user"`
}

// RegisterRequest mirrors the sign-up form contract.
type RegisterRequest struct {
	UserName       string `json:"userName" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	PhoneNumber    string `json:"phoneNumber"`
	EmailConfirmed *bool  `json:"emailConfirmed"`
}

// RegisteredUser is echoed back after a successful registration.
type RegisteredUser struct {
	ID             string `json:"id"`
	UserName       string `json:"userName"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
	EmailConfirmed bool   `json:"emailConfirmed"`
}

// RegisterResponse is the registration result envelope body.
type RegisterResponse struct {
	Success bool           `json:"success"`
	User    RegisteredUser `json:"user"`
}

// ChangePasswordRequest rotates the caller's password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// CreateUserRequest is the admin payload for provisioning users.
type CreateUserRequest struct {
	UserName    string   `json:"userName" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	PhoneNumber string   `json:"phoneNumber"`
	Role        UserRole `json:"role" validate:"required,oneof=SUPERADMIN ADMIN STAFF"`
}

// JWTClaims embeds the registered claims with application identity fields.
type JWTClaims struct {
	UserID   string   `json:"uid"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	UserName string   `json:"name"`
	jwt.RegisteredClaims
}
