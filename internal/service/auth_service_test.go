package service

import (
	"testing"
	"time"

	"momentocake-admin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRotatesTokenVersion(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, nil)

	user := seedUser(repo, "admin@momentocake.com.br", model.RoleAdmin)
	require.NoError(t, user.SetPassword("segredo123"))

	first, err := svc.Login("admin@momentocake.com.br", "segredo123")
	require.NoError(t, err)
	firstVersion := repo.users[user.ID].TokenVersion

	second, err := svc.Login("admin@momentocake.com.br", "segredo123")
	require.NoError(t, err)

	// Each login invalidates the previous session
	assert.NotEqual(t, firstVersion, repo.users[user.ID].TokenVersion)
	assert.NotEmpty(t, first.Token)
	assert.NotEmpty(t, second.Token)

	// Logging in also records presence
	assert.NotNil(t, repo.users[user.ID].LastSeenAt)

	// The earlier token now fails the version check
	_, err = svc.ValidateToken(first.Token)
	assert.Error(t, err)

	resp, err := svc.ValidateToken(second.Token)
	require.NoError(t, err)
	assert.Equal(t, user.Email, resp.User.Email)
	assert.NotEmpty(t, resp.Features)
}

func TestLoginRejections(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, nil)

	user := seedUser(repo, "ana@momentocake.com.br", model.RoleAtendente)
	require.NoError(t, user.SetPassword("segredo123"))

	_, err := svc.Login("ana@momentocake.com.br", "errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("ninguem@momentocake.com.br", "segredo123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user.IsActive = false
	_, err = svc.Login("ana@momentocake.com.br", "segredo123")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestValidateTokenInactivityWindow(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, nil)

	user := seedUser(repo, "ana@momentocake.com.br", model.RoleAtendente)
	require.NoError(t, user.SetPassword("segredo123"))

	resp, err := svc.Login("ana@momentocake.com.br", "segredo123")
	require.NoError(t, err)

	// Fresh session validates
	_, err = svc.ValidateToken(resp.Token)
	require.NoError(t, err)

	// Session idle past the window is rejected
	stale := time.Now().Add(-45 * time.Minute)
	repo.users[user.ID].LastSeenAt = &stale
	_, err = svc.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrSessionTimeout)

	// No presence record at all also forces a fresh login
	repo.users[user.ID].LastSeenAt = nil
	_, err = svc.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrSessionTimeout)
}

func TestResetPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, nil)

	user := seedUser(repo, "ana@momentocake.com.br", model.RoleAtendente)
	require.NoError(t, user.SetPassword("antiga123"))

	err := svc.ResetPassword("ana@momentocake.com.br", "errada", "nova123")
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, svc.ResetPassword("ana@momentocake.com.br", "antiga123", "nova123"))
	assert.True(t, repo.users[user.ID].CheckPassword("nova123"))
}
