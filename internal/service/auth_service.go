package service

import (
	"fmt"

	"github.com/caseflow/caseflow-backend/internal/common"
	"github.com/caseflow/caseflow-backend/internal/domain"
	"github.com/caseflow/caseflow-backend/internal/repository"
	"github.com/caseflow/caseflow-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username       string `json:"username" binding:"required"`
	Password       string `json:"password" binding:"required,min=8"`
	Email          string `json:"email" binding:"required,email"`
	FullName       string `json:"full_name" binding:"required"`
	Role           string `json:"role" binding:"required"`
	BarNumber      string `json:"bar_number,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// LoginResponse login response
type LoginResponse struct {
	User         *domain.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// TokenPair token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// UpdateProfileRequest profile update request. Username, role, and status
// are not user-editable.
type UpdateProfileRequest struct {
	Email          string `json:"email,omitempty" binding:"omitempty,email"`
	FullName       string `json:"full_name,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// AuthService authentication business logic
type AuthService interface {
	Register(req *RegisterRequest) (*domain.UserResponse, error)
	Login(username, password string) (*LoginResponse, error)
	RefreshToken(refreshToken string) (*TokenPair, error)
	GetProfile(userID int64) (*domain.UserResponse, error)
	UpdateProfile(userID int64, req *UpdateProfileRequest) (*domain.UserResponse, error)
	ChangePassword(userID int64, req *ChangePasswordRequest) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtManager *jwt.Manager) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// Register creates a new account. Clients become active immediately;
// advocates start pending and wait for admin approval. Admin accounts
// cannot be self-registered.
func (s *authService) Register(req *RegisterRequest) (*domain.UserResponse, error) {
	if req.Role != domain.RoleClient && req.Role != domain.RoleAdvocate {
		return nil, fmt.Errorf("%w: role must be client or advocate", common.ErrInvalidInput)
	}
	if req.Role == domain.RoleAdvocate && req.BarNumber == "" {
		return nil, fmt.Errorf("%w: bar number is required for advocates", common.ErrInvalidInput)
	}

	exists, err := s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrUserAlreadyExists
	}

	exists, err = s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email already in use", common.ErrUserAlreadyExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	status := domain.StatusActive
	if req.Role == domain.RoleAdvocate {
		status = domain.StatusPending
	}

	user := &domain.User{
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		PasswordHash:   string(hash),
		Role:           req.Role,
		Status:         status,
		BarNumber:      req.BarNumber,
		Specialization: req.Specialization,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

// Login authenticates a user and returns tokens. Accounts that are not
// active are rejected with a status-specific error.
func (s *authService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	switch user.Status {
	case domain.StatusActive:
	case domain.StatusPending:
		return nil, common.ErrAccountPending
	case domain.StatusSuspended:
		return nil, common.ErrAccountSuspended
	default:
		return nil, common.ErrAccountInactive
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshToken creates a new token pair from a refresh token. The account
// status is re-checked so a suspended user cannot keep refreshing.
func (s *authService) RefreshToken(refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtManager.VerifyToken(refreshToken)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, common.ErrUserNotFound
	}
	if user.Status != domain.StatusActive {
		return nil, common.ErrAccountSuspended
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	newRefreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// GetProfile returns the authenticated user's own profile
func (s *authService) GetProfile(userID int64) (*domain.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, common.ErrUserNotFound
	}
	return user.ToResponse(), nil
}

// UpdateProfile applies the user-editable profile fields
func (s *authService) UpdateProfile(userID int64, req *UpdateProfileRequest) (*domain.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, common.ErrUserNotFound
	}

	fields := map[string]interface{}{}
	if req.Email != "" && req.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: email already in use", common.ErrUserAlreadyExists)
		}
		fields["email"] = req.Email
		user.Email = req.Email
	}
	if req.FullName != "" {
		fields["full_name"] = req.FullName
		user.FullName = req.FullName
	}
	if req.Specialization != "" && user.Role == domain.RoleAdvocate {
		fields["specialization"] = req.Specialization
		user.Specialization = req.Specialization
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}
	return user.ToResponse(), nil
}

// ChangePassword verifies the current password and sets a new one
func (s *authService) ChangePassword(userID int64, req *ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return common.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return common.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdateFields(userID, map[string]interface{}{
		"password_hash": string(hash),
	})
}
