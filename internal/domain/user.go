package domain

import (
	"context"
	"errors"
	"time"
)

// Roles are fixed at registration
const (
	RoleApplicant = "applicant"
	RoleRecruiter = "recruiter"
)

var ErrEmailTaken = errors.New("email already registered")

type User struct {
	ID           string              `json:"id" db:"id"`
	Name         string              `json:"name" db:"name"`
	Email        string              `json:"email" db:"email"`
	PasswordHash string              `json:"-" db:"password_hash"`
	Role         string              `json:"role" db:"role"`
	Skills       []string            `json:"skills" db:"skills"`
	Resume       *string             `json:"resume" db:"resume"`
	AppliedJobs  []ApplicationRecord `json:"applied_jobs,omitempty" db:"-"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" db:"updated_at"`
}

// PublicProfile is what other users may see. Role and credentials stay private.
type PublicProfile struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Skills []string `json:"skills"`
	Resume *string  `json:"resume"`
}

func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Skills: u.Skills,
		Resume: u.Resume,
	}
}

func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Email: u.Email, Role: u.Role, Skills: u.Skills}
}

func IsValidRole(role string) bool {
	return role == RoleApplicant || role == RoleRecruiter
}

// ResumeUpload is a file received from the client, not yet stored.
type ResumeUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Skills   []string
	Resume   *ResumeUpload
}

// ProfileUpdate carries optional changes; nil fields are left untouched.
type ProfileUpdate struct {
	Name   *string
	Skills []string // nil = unchanged, empty = clear
	Resume *ResumeUpload
}

type AuthResult struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, user *User) error
}

// ResumeStore uploads resume files and returns a public reference URL.
type ResumeStore interface {
	Upload(ctx context.Context, ownerID string, file ResumeUpload) (string, error)
}

type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password, role string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Authenticate(ctx context.Context, accessToken string) (*User, error)
}

type UserUsecase interface {
	GetMe(ctx context.Context, p Principal) (*User, error)
	GetPublicProfile(ctx context.Context, id string) (*PublicProfile, error)
	UpdateProfile(ctx context.Context, p Principal, update ProfileUpdate) (*User, error)
}
