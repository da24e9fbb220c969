package service

import (
	"testing"
	"time"

	"github.com/caseflow/caseflow-backend/internal/common"
	"github.com/caseflow/caseflow-backend/internal/domain"
	"github.com/caseflow/caseflow-backend/internal/repository"
	"github.com/caseflow/caseflow-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupAuthTest(t *testing.T) (*gorm.DB, AuthService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	jwtManager := jwt.NewManager("test-secret-key", 15*time.Minute, 24*time.Hour)
	svc := NewAuthService(repository.NewUserRepository(db), jwtManager)
	return db, svc
}

func registerReq(username, role string) *RegisterRequest {
	req := &RegisterRequest{
		Username: username,
		Password: "password123",
		Email:    username + "@example.com",
		FullName: "Test " + username,
		Role:     role,
	}
	if role == domain.RoleAdvocate {
		req.BarNumber = "BAR-1234"
	}
	return req
}

func TestRegisterClientIsActiveImmediately(t *testing.T) {
	_, svc := setupAuthTest(t)

	user, err := svc.Register(registerReq("carol", domain.RoleClient))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, user.Status)
	assert.Equal(t, domain.RoleClient, user.Role)
}

func TestRegisterAdvocateStartsPending(t *testing.T) {
	_, svc := setupAuthTest(t)

	user, err := svc.Register(registerReq("alan", domain.RoleAdvocate))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, user.Status)
}

func TestRegisterAdvocateRequiresBarNumber(t *testing.T) {
	_, svc := setupAuthTest(t)

	req := registerReq("alan", domain.RoleAdvocate)
	req.BarNumber = ""
	_, err := svc.Register(req)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestRegisterAdminRoleRejected(t *testing.T) {
	_, svc := setupAuthTest(t)

	_, err := svc.Register(registerReq("mallory", domain.RoleAdmin))
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	_, svc := setupAuthTest(t)

	_, err := svc.Register(registerReq("carol", domain.RoleClient))
	require.NoError(t, err)

	req := registerReq("carol", domain.RoleClient)
	req.Email = "other@example.com"
	_, err = svc.Register(req)
	assert.ErrorIs(t, err, common.ErrUserAlreadyExists)
}

func TestLoginSuccess(t *testing.T) {
	_, svc := setupAuthTest(t)

	_, err := svc.Register(registerReq("carol", domain.RoleClient))
	require.NoError(t, err)

	resp, err := svc.Login("carol", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "carol", resp.User.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	_, svc := setupAuthTest(t)

	_, err := svc.Register(registerReq("carol", domain.RoleClient))
	require.NoError(t, err)

	_, err = svc.Login("carol", "wrong-password")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = svc.Login("nobody", "password123")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLoginStatusGates(t *testing.T) {
	db, svc := setupAuthTest(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	for _, tc := range []struct {
		status string
		want   error
	}{
		{domain.StatusPending, common.ErrAccountPending},
		{domain.StatusSuspended, common.ErrAccountSuspended},
		{domain.StatusInactive, common.ErrAccountInactive},
	} {
		u := &domain.User{
			Username: tc.status + "-user", Email: tc.status + "@example.com",
			FullName: "User", PasswordHash: string(hash),
			Role: domain.RoleAdvocate, Status: tc.status,
		}
		require.NoError(t, db.Create(u).Error)

		_, err := svc.Login(u.Username, "password123")
		assert.ErrorIs(t, err, tc.want, "status %s", tc.status)
	}
}

func TestRefreshTokenRechecksStatus(t *testing.T) {
	db, svc := setupAuthTest(t)

	_, err := svc.Register(registerReq("carol", domain.RoleClient))
	require.NoError(t, err)

	resp, err := svc.Login("carol", "password123")
	require.NoError(t, err)

	tokens, err := svc.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	// A suspended account cannot keep refreshing
	require.NoError(t, db.Model(&domain.User{}).
		Where("username = ?", "carol").
		Update("status", domain.StatusSuspended).Error)

	_, err = svc.RefreshToken(resp.RefreshToken)
	assert.ErrorIs(t, err, common.ErrAccountSuspended)
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	_, svc := setupAuthTest(t)

	_, err := svc.RefreshToken("not-a-token")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	_, svc := setupAuthTest(t)

	user, err := svc.Register(registerReq("carol", domain.RoleClient))
	require.NoError(t, err)

	err = svc.ChangePassword(user.ID, &ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpassword123",
	})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	err = svc.ChangePassword(user.ID, &ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword123",
	})
	require.NoError(t, err)

	_, err = svc.Login("carol", "newpassword123")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	_, svc := setupAuthTest(t)

	carol, err := svc.Register(registerReq("carol", domain.RoleClient))
	require.NoError(t, err)
	_, err = svc.Register(registerReq("dave", domain.RoleClient))
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(carol.ID, &UpdateProfileRequest{
		FullName: "Carol Renamed",
		Email:    "carol.new@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Carol Renamed", updated.FullName)
	assert.Equal(t, "carol.new@example.com", updated.Email)

	// Taking another account's email is rejected
	_, err = svc.UpdateProfile(carol.ID, &UpdateProfileRequest{Email: "dave@example.com"})
	assert.ErrorIs(t, err, common.ErrUserAlreadyExists)

	// Specialization only applies to advocates
	updated, err = svc.UpdateProfile(carol.ID, &UpdateProfileRequest{Specialization: "Tax Law"})
	require.NoError(t, err)
	assert.Empty(t, updated.Specialization)

	fetched, err := svc.GetProfile(carol.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol Renamed", fetched.FullName)
}
