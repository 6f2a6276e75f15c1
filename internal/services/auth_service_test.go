package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memberdir/memberdir-backend/internal/dto"
)

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Name:     "Asha Rao",
		Email:    "Asha@Example.com",
		Username: "asha.rao",
		Password: "Secret@123",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(setupTestDB(t), testConfig())

	resp, err := svc.Register(registerRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "asha@example.com", resp.User.Email)

	// login works with username or email, case-insensitively for email
	_, err = svc.Login(&dto.LoginRequest{Login: "asha.rao", Password: "Secret@123"})
	require.NoError(t, err)
	_, err = svc.Login(&dto.LoginRequest{Login: "ASHA@example.com", Password: "Secret@123"})
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{Login: "asha.rao", Password: "WrongPass@1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc := NewAuthService(setupTestDB(t), testConfig())

	req := registerRequest()
	req.Password = "alllowercase1@"
	_, err := svc.Register(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Password must contain")
}

func TestRegisterDuplicate(t *testing.T) {
	svc := NewAuthService(setupTestDB(t), testConfig())

	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	dup := registerRequest()
	dup.Username = "other.name"
	_, err = svc.Register(dup)
	assert.ErrorIs(t, err, ErrEmailTaken)

	dup = registerRequest()
	dup.Email = "other@example.com"
	_, err = svc.Register(dup)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc := NewAuthService(setupTestDB(t), testConfig())

	initial, err := svc.Register(registerRequest())
	require.NoError(t, err)

	rotated, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: initial.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, initial.RefreshToken, rotated.RefreshToken)

	// the old token is revoked after rotation
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: initial.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := NewAuthService(setupTestDB(t), testConfig())

	resp, err := svc.Register(registerRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}
