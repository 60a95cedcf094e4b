package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/auth"
	"storefront/internal/domain"
	apperrors "storefront/pkg/errors"
)

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Event Producer ---

type mockUserEvents struct {
	mock.Mock
}

func (m *mockUserEvents) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestTokenManager() *auth.TokenManager {
	return auth.NewTokenManager("test-secret-key-for-testing", time.Hour)
}

func newTestUserService(repo *mockUserRepository, events *mockUserEvents) *UserService {
	return NewUserService(repo, newTestTokenManager(), events, newTestLogger())
}

func strPtr(s string) *string {
	return &s
}

// hashForTest creates a bcrypt hash with cost 4 for fast tests.
func hashForTest(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), 4)
	if err != nil {
		panic(err)
	}
	return string(h)
}

// --- Register Tests ---

func TestRegister_Success(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
	events.On("PublishUserRegistered", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	user, token, err := svc.Register(ctx, RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "SecurePass123",
	})

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "John Doe", user.Name)
	assert.Equal(t, "john@example.com", user.Email)
	assert.False(t, user.IsAdmin)
	assert.NotEmpty(t, token)
	assert.NotZero(t, user.CreatedAt)

	// Stored hash must verify against the plain password.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("SecurePass123")))

	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestRegister_TokenResolvesToUser(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
	events.On("PublishUserRegistered", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	user, token, err := svc.Register(ctx, RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "SecurePass123",
	})
	require.NoError(t, err)

	userID, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Return(apperrors.AlreadyExists("user", "email", "john@example.com"))

	user, token, err := svc.Register(ctx, RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "SecurePass123",
	})

	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	repo.AssertExpectations(t)
}

func TestRegister_ShortPassword(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "short",
	})

	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_NeverGrantsAdmin(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return !u.IsAdmin
	})).Return(nil)
	events.On("PublishUserRegistered", ctx, mock.Anything).Return(nil)

	user, _, err := svc.Register(ctx, RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "SecurePass123",
	})

	require.NoError(t, err)
	assert.False(t, user.IsAdmin)
	repo.AssertExpectations(t)
}

func TestRegister_EventFailureIsNonFatal(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(nil)
	events.On("PublishUserRegistered", ctx, mock.Anything).Return(errors.New("kafka down"))

	user, token, err := svc.Register(ctx, RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "SecurePass123",
	})

	require.NoError(t, err)
	assert.NotNil(t, user)
	assert.NotEmpty(t, token)
}

// --- Login Tests ---

func TestLogin_Success(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)
	ctx := context.Background()

	stored := &domain.User{
		ID:           "c6e8a7de-13a8-4b2a-9e1f-0a4dbb1f2a10",
		Name:         "John Doe",
		Email:        "john@example.com",
		PasswordHash: hashForTest("SecurePass123"),
	}
	repo.On("GetByEmail", ctx, "john@example.com").Return(stored, nil)

	user, token, err := svc.Login(ctx, "john@example.com", "SecurePass123")

	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
	assert.NotEmpty(t, token)

	userID, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, userID)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)
	ctx := context.Background()

	stored := &domain.User{
		ID:           "c6e8a7de-13a8-4b2a-9e1f-0a4dbb1f2a10",
		Email:        "john@example.com",
		PasswordHash: hashForTest("SecurePass123"),
	}
	repo.On("GetByEmail", ctx, "john@example.com").Return(stored, nil)

	user, token, err := svc.Login(ctx, "john@example.com", "WrongPass456")

	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)
	ctx := context.Background()

	stored := &domain.User{
		ID:           "c6e8a7de-13a8-4b2a-9e1f-0a4dbb1f2a10",
		Email:        "john@example.com",
		PasswordHash: hashForTest("SecurePass123"),
	}
	repo.On("GetByEmail", ctx, "john@example.com").Return(stored, nil)
	repo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, apperrors.NotFound("user", "nobody@example.com"))

	_, _, wrongPassErr := svc.Login(ctx, "john@example.com", "WrongPass456")
	_, _, unknownErr := svc.Login(ctx, "nobody@example.com", "SecurePass123")

	// Unknown accounts and wrong passwords must be indistinguishable.
	require.Error(t, wrongPassErr)
	require.Error(t, unknownErr)
	assert.Equal(t, wrongPassErr.Error(), unknownErr.Error())
}

func TestLogin_RepositoryOutageIsNotUnauthorized(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)
	ctx := context.Background()

	ioErr := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	repo.On("GetByEmail", ctx, "john@example.com").Return(nil, ioErr)

	user, token, err := svc.Login(ctx, "john@example.com", "SecurePass123")

	assert.Nil(t, user)
	assert.Empty(t, token)
	require.Error(t, err)
	// A store outage must not masquerade as a credential failure.
	assert.NotErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, err, ioErr)
}

// --- VerifyToken Tests ---

func TestVerifyToken_Invalid(t *testing.T) {
	svc := newTestUserService(new(mockUserRepository), new(mockUserEvents))

	userID, err := svc.VerifyToken("not-a-token")

	assert.Empty(t, userID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

// --- Profile Tests ---

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)
	ctx := context.Background()

	stored := &domain.User{
		ID:           "c6e8a7de-13a8-4b2a-9e1f-0a4dbb1f2a10",
		Name:         "John Doe",
		Email:        "john@example.com",
		PasswordHash: hashForTest("SecurePass123"),
	}
	repo.On("GetByID", ctx, stored.ID).Return(stored, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "Johnny" && u.Email == "john@example.com"
	})).Return(nil)

	user, token, err := svc.UpdateProfile(ctx, stored.ID, UpdateProfileInput{
		Name: strPtr("Johnny"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Johnny", user.Name)
	assert.Equal(t, "john@example.com", user.Email)
	assert.NotEmpty(t, token)
	repo.AssertExpectations(t)
}

func TestUpdateProfile_RehashesPassword(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)
	ctx := context.Background()

	oldHash := hashForTest("SecurePass123")
	stored := &domain.User{
		ID:           "c6e8a7de-13a8-4b2a-9e1f-0a4dbb1f2a10",
		Name:         "John Doe",
		Email:        "john@example.com",
		PasswordHash: oldHash,
	}
	repo.On("GetByID", ctx, stored.ID).Return(stored, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	user, _, err := svc.UpdateProfile(ctx, stored.ID, UpdateProfileInput{
		Password: strPtr("BrandNewPass9"),
	})

	require.NoError(t, err)
	assert.NotEqual(t, oldHash, user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("BrandNewPass9")))
}

func TestUpdateProfile_ShortPasswordRejected(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)
	ctx := context.Background()

	stored := &domain.User{ID: "c6e8a7de-13a8-4b2a-9e1f-0a4dbb1f2a10"}
	repo.On("GetByID", ctx, stored.ID).Return(stored, nil)

	_, _, err := svc.UpdateProfile(ctx, stored.ID, UpdateProfileInput{
		Password: strPtr("short"),
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// --- Admin User Management Tests ---

func TestUpdateUser_OverwritesAdminFlag(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)
	ctx := context.Background()

	stored := &domain.User{
		ID:      "c6e8a7de-13a8-4b2a-9e1f-0a4dbb1f2a10",
		Name:    "John Doe",
		Email:   "john@example.com",
		IsAdmin: true,
	}
	repo.On("GetByID", ctx, stored.ID).Return(stored, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return !u.IsAdmin
	})).Return(nil)

	// Request body omitted the flag; the zero value demotes the account.
	user, err := svc.UpdateUser(ctx, stored.ID, UpdateUserInput{})

	require.NoError(t, err)
	assert.False(t, user.IsAdmin)
	assert.Equal(t, "John Doe", user.Name)
	repo.AssertExpectations(t)
}

func TestUpdateUser_NotFound(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("user", "missing"))

	user, err := svc.UpdateUser(ctx, "missing", UpdateUserInput{IsAdmin: true})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListUsers(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)
	ctx := context.Background()

	repo.On("List", ctx).Return([]domain.User{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
	}, nil)

	users, err := svc.ListUsers(ctx)

	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestDeleteUser_NotFound(t *testing.T) {
	repo := new(mockUserRepository)
	events := new(mockUserEvents)
	svc := newTestUserService(repo, events)
	ctx := context.Background()

	repo.On("Delete", ctx, "missing").Return(apperrors.NotFound("user", "missing"))

	err := svc.DeleteUser(ctx, "missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
