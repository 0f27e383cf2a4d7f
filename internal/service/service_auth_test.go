package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-user-accounts/internal/logger"
	"github.com/MKhiriev/go-user-accounts/internal/mock"
	"github.com/MKhiriev/go-user-accounts/internal/store"
	"github.com/MKhiriev/go-user-accounts/models"
)

func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (*authService, *mock.MockUserRepository) {
	t.Helper()

	mockRepo := mock.NewMockUserRepository(ctrl)
	svc := NewAuthService(mockRepo, testAppConfig, logger.Nop()).(*authService)

	return svc, mockRepo
}

func userWithPassword(t *testing.T, id int64, password string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	u := confirmedUser(id)
	u.PasswordHash = string(hash)
	return u
}

func TestAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	password := "correct horse battery staple"
	user := userWithPassword(t, 1, password)

	mockRepo.EXPECT().FindUserByEmail(ctx, user.Email).Return(user, nil)

	gotUser, gotToken, err := svc.Login(ctx, user.Email, password)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, gotUser.UserID)
	assert.NotEmpty(t, gotToken.SignedString)

	// the issued bearer token must round-trip through ParseToken
	parsed, err := svc.ParseToken(ctx, gotToken.SignedString)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, parsed.UserID)
}

func TestAuthService_Login_UniformRejection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	user := userWithPassword(t, 1, "the right password")

	mockRepo.EXPECT().FindUserByEmail(ctx, "missing@example.com").Return(models.User{}, store.ErrNoUserWasFound)
	mockRepo.EXPECT().FindUserByEmail(ctx, user.Email).Return(user, nil)

	_, _, errUnknown := svc.Login(ctx, "missing@example.com", "anything")
	_, _, errWrongPass := svc.Login(ctx, user.Email, "the wrong password")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errWrongPass, "unknown email and wrong password must be indistinguishable")
}

func TestAuthService_Login_EmptyCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "", "password")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, _, err = svc.Login(ctx, "a@b.io", "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_ParseToken_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	_, err := svc.ParseToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}
