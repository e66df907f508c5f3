package services

import (
	"context"
	"testing"

	"fuelgenie-api/internal/adapters/persistence/models"
	"fuelgenie-api/internal/config"
	"fuelgenie-api/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "development",
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}

func newAuthServiceForTest() (*AuthService, *fakeUserRepo, *fakeRefreshTokenRepo) {
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeRefreshTokenRepo()
	return NewAuthService(userRepo, tokenRepo, testConfig()), userRepo, tokenRepo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterInput{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "supersecret1",
		FullName: "J. Doe",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)
	assert.Empty(t, registered.User.Roles, "new users carry no roles")

	loggedIn, err := svc.Login(ctx, &LoginInput{Username: "jdoe", Password: "supersecret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Username: "jdoe", Email: "jdoe@example.com", Password: "supersecret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterInput{Username: "jdoe", Email: "other@example.com", Password: "supersecret1"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = svc.Register(ctx, &RegisterInput{Username: "other", Email: "jdoe@example.com", Password: "supersecret1"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, userRepo, _ := newAuthServiceForTest()
	ctx := context.Background()

	hashed, err := password.Hash("correct-horse1")
	require.NoError(t, err)
	userRepo.put(&models.User{Username: "jdoe", Email: "jdoe@example.com", Password: hashed, IsActive: true})

	_, err = svc.Login(ctx, &LoginInput{Username: "jdoe", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginInput{Username: "ghost", Password: "correct-horse1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	svc, userRepo, _ := newAuthServiceForTest()

	hashed, err := password.Hash("correct-horse1")
	require.NoError(t, err)
	userRepo.put(&models.User{Username: "jdoe", Email: "jdoe@example.com", Password: hashed, IsActive: false})

	_, err = svc.Login(context.Background(), &LoginInput{Username: "jdoe", Password: "correct-horse1"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterInput{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "supersecret1",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken, "rotation must mint a new token")

	// The old token was revoked by the rotation; replaying it must fail
	_, err = svc.RefreshToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterInput{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "supersecret1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, registered.RefreshToken))

	_, err = svc.RefreshToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestValidateAccessToken(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterInput{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "supersecret1",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(registered.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, "jdoe", claims.Username)

	_, err = svc.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}
