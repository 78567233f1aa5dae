package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"signup/internal/auth"
	apperrors "signup/internal/errors"
	"signup/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, name, email, passwordHash string, attrs model.CreateAttrs) (*model.User, error) {
	args := m.Called(ctx, name, email, passwordHash, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) CreateIfAbsent(ctx context.Context, user *model.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByThirdPartyID(ctx context.Context, uid string) (*model.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uint, update model.ProfileUpdate) (int64, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(int64), args.Error(1)
}

// memUserRepository is an in-memory store honoring the email and provider id unique indexes.
type memUserRepository struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*model.User
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{rows: make(map[uint]*model.User)}
}

func (r *memUserRepository) conflict(u *model.User) error {
	for _, row := range r.rows {
		if row.Email == u.Email {
			return &apperrors.StoreError{Op: "mem", Kind: apperrors.ErrDuplicateEmail}
		}
		if u.FirebaseUID != nil && row.FirebaseUID != nil && *row.FirebaseUID == *u.FirebaseUID {
			return &apperrors.StoreError{Op: "mem", Kind: apperrors.ErrThirdPartyIDInUse}
		}
	}
	return nil
}

func (r *memUserRepository) insert(u *model.User) {
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	stored := *u
	r.rows[u.ID] = &stored
}

func (r *memUserRepository) Create(_ context.Context, name, email, passwordHash string, attrs model.CreateAttrs) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := &model.User{Name: name, Email: email, PasswordHash: passwordHash, AuthMethod: model.AuthMethodLocal}
	if attrs.AuthMethod != "" {
		u.AuthMethod = attrs.AuthMethod
	}
	if attrs.FirebaseUID != "" {
		uid := attrs.FirebaseUID
		u.FirebaseUID = &uid
	}
	if err := r.conflict(u); err != nil {
		return nil, err
	}
	r.insert(u)
	return u, nil
}

func (r *memUserRepository) CreateIfAbsent(_ context.Context, u *model.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conflict(u) != nil {
		return false, nil
	}
	r.insert(u)
	return true, nil
}

func (r *memUserRepository) find(match func(*model.User) bool) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if match(row) {
			cp := *row
			return &cp
		}
	}
	return nil
}

func (r *memUserRepository) FindByID(_ context.Context, id uint) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id }), nil
}

func (r *memUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Email == email }), nil
}

func (r *memUserRepository) FindByThirdPartyID(_ context.Context, uid string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.FirebaseUID != nil && *u.FirebaseUID == uid }), nil
}

func (r *memUserRepository) UpdateProfile(_ context.Context, id uint, update model.ProfileUpdate) (int64, error) {
	if update.Empty() {
		return 0, apperrors.ErrNoFieldsSupplied
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return 0, nil
	}
	if update.FirebaseUID != nil {
		for _, other := range r.rows {
			if other.ID != id && other.FirebaseUID != nil && *other.FirebaseUID == *update.FirebaseUID {
				return 0, &apperrors.StoreError{Op: "mem", Kind: apperrors.ErrThirdPartyIDInUse}
			}
		}
		uid := *update.FirebaseUID
		row.FirebaseUID = &uid
	}
	if update.Name != nil {
		row.Name = *update.Name
	}
	if update.ProfilePicture != nil {
		pic := *update.ProfilePicture
		row.ProfilePicture = &pic
	}
	if update.AuthMethod != nil {
		row.AuthMethod = *update.AuthMethod
	}
	row.UpdatedAt = time.Now()
	return 1, nil
}

func (r *memUserRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func newTestAuthService(repo *memUserRepository) (AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	return NewAuthService(repo, auth.NewBcryptHasher(bcrypt.MinCost), jwtService, nil), jwtService
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful registration",
			email: "test@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, nil)
				m.On("Create", mock.Anything, "Test User", "test@example.com", mock.AnythingOfType("string"), model.CreateAttrs{}).
					Return(&model.User{ID: 1, Email: "test@example.com"}, nil)
			},
		},
		{
			name:  "email already in use",
			email: "existing@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{ID: 3, Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailInUse,
		},
		{
			name:  "duplicate email race on insert",
			email: "race@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, nil)
				m.On("Create", mock.Anything, "Test User", "race@example.com", mock.AnythingOfType("string"), model.CreateAttrs{}).
					Return(nil, &apperrors.StoreError{Op: "users.Create", Kind: apperrors.ErrDuplicateEmail})
			},
			expectedError: apperrors.ErrEmailInUse,
		},
		{
			name:  "store unavailable",
			email: "down@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "down@example.com").
					Return(nil, &apperrors.StoreError{Op: "users.FindByEmail", Kind: apperrors.ErrStoreUnavailable})
			},
			expectedError: apperrors.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAuthService(mockRepo, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewJWTService("test-secret", time.Hour), nil)
			id, err := svc.Register(context.Background(), "Test User", tt.email, "password123")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Zero(t, id)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, uint(1), id)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterExistingEmailDoesNotWrite(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "ann@x.com").Return(&model.User{ID: 1, Email: "ann@x.com"}, nil)

	svc := NewAuthService(mockRepo, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewJWTService("test-secret", time.Hour), nil)
	_, err := svc.Register(context.Background(), "Ann", "ann@x.com", "p@ss1234")

	assert.ErrorIs(t, err, apperrors.ErrEmailInUse)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{ID: 9, Email: "test@example.com", PasswordHash: string(hashed)}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret", time.Hour)
			svc := NewAuthService(mockRepo, auth.NewBcryptHasher(bcrypt.MinCost), jwtService, nil)

			res, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Same(t, tt.expectedError, err)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				claims, err := jwtService.ValidateToken(res.Token)
				require.NoError(t, err)
				assert.Equal(t, uint(9), claims.UserID)
				assert.Equal(t, tt.email, claims.Email)
				assert.Empty(t, claims.Provider)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	repo := newMemUserRepository()
	svc, jwtService := newTestAuthService(repo)
	ctx := context.Background()

	id, err := svc.Register(ctx, "Ann", "ann@x.com", "p@ss1234")
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)

	res, err := svc.Login(ctx, "ann@x.com", "p@ss1234")
	require.NoError(t, err)
	claims, err := jwtService.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "ann@x.com", claims.Email)

	_, err = svc.Login(ctx, "ann@x.com", "wrong")
	wrongPassword := err
	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@x.com", "p@ss1234")
	assert.Equal(t, wrongPassword, err)

	_, err = svc.Register(ctx, "Ann Again", "ann@x.com", "other-pass")
	assert.ErrorIs(t, err, apperrors.ErrEmailInUse)
	assert.Equal(t, 1, repo.count())
}

func TestAuthService_ThirdPartyLoginCreatesOnce(t *testing.T) {
	repo := newMemUserRepository()
	svc, jwtService := newTestAuthService(repo)
	ctx := context.Background()
	in := ThirdPartyIdentity{Name: "Bo", Email: "bo@x.com", PictureURL: "http://pic", ProviderID: "g-123"}

	first, err := svc.ThirdPartyLogin(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.count())

	created, err := repo.FindByEmail(ctx, "bo@x.com")
	require.NoError(t, err)
	assert.Equal(t, model.AuthMethodGoogle, created.AuthMethod)
	require.NotNil(t, created.FirebaseUID)
	assert.Equal(t, "g-123", *created.FirebaseUID)
	require.NotNil(t, created.ProfilePicture)
	assert.Equal(t, "http://pic", *created.ProfilePicture)
	assert.True(t, strings.HasPrefix(created.Name, "bo"))
	assert.NotEmpty(t, created.PasswordHash)

	claims, err := jwtService.ValidateToken(first.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "bo@x.com", claims.Email)
	assert.Equal(t, "google", claims.Provider)

	second, err := svc.ThirdPartyLogin(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.count())
	assert.Equal(t, first.User.ID, second.User.ID)

	// The generated password is never usable for a password login.
	_, err = svc.Login(ctx, "bo@x.com", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_ThirdPartyLoginDoesNotOverwriteLocalAccount(t *testing.T) {
	repo := newMemUserRepository()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	id, err := svc.Register(ctx, "Ann Local", "ann@x.com", "p@ss1234")
	require.NoError(t, err)

	res, err := svc.ThirdPartyLogin(ctx, ThirdPartyIdentity{Name: "Ann Google", Email: "ann@x.com", PictureURL: "http://g", ProviderID: "g-ann"})
	require.NoError(t, err)
	assert.Equal(t, id, res.User.ID)

	stored, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ann Local", stored.Name)
	assert.Equal(t, model.AuthMethodLocal, stored.AuthMethod)
	assert.Nil(t, stored.FirebaseUID)
	assert.Nil(t, stored.ProfilePicture)
	assert.Equal(t, 1, repo.count())
}

func TestAuthService_ThirdPartyLoginGeneratesProviderID(t *testing.T) {
	repo := newMemUserRepository()
	svc, _ := newTestAuthService(repo)

	res, err := svc.ThirdPartyLogin(context.Background(), ThirdPartyIdentity{Name: "Cy", Email: "cy@x.com"})
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), res.User.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.FirebaseUID)
	assert.Len(t, *stored.FirebaseUID, 36)
	assert.Nil(t, stored.ProfilePicture)
}

func TestAuthService_ThirdPartyLoginProviderIDOwnedElsewhere(t *testing.T) {
	repo := newMemUserRepository()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.ThirdPartyLogin(ctx, ThirdPartyIdentity{Name: "Bo", Email: "bo@x.com", ProviderID: "g-123"})
	require.NoError(t, err)

	_, err = svc.ThirdPartyLogin(ctx, ThirdPartyIdentity{Name: "Bo", Email: "bo-new@x.com", ProviderID: "g-123"})
	assert.ErrorIs(t, err, apperrors.ErrThirdPartyIDInUse)
	assert.Equal(t, 1, repo.count())
}

func TestAuthService_ThirdPartyLoginConcurrentSameEmail(t *testing.T) {
	repo := newMemUserRepository()
	svc, _ := newTestAuthService(repo)
	in := ThirdPartyIdentity{Name: "Bo", Email: "bo@x.com", ProviderID: "g-123"}

	const n = 8
	ids := make([]uint, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.ThirdPartyLogin(context.Background(), in)
			errs[i] = err
			if err == nil {
				ids[i] = res.User.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, 1, repo.count())
}

func TestAuthService_ThirdPartyLoginInsertError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"duplicate email", &apperrors.StoreError{Op: "users.CreateIfAbsent", Kind: apperrors.ErrDuplicateEmail}, apperrors.ErrEmailInUse},
		{"store down", &apperrors.StoreError{Op: "users.CreateIfAbsent", Kind: apperrors.ErrStoreUnavailable}, apperrors.ErrStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockRepo.On("FindByEmail", mock.Anything, "bo@x.com").Return(nil, nil).Once()
			mockRepo.On("CreateIfAbsent", mock.Anything, mock.AnythingOfType("*model.User")).Return(false, tt.err)

			svc := NewAuthService(mockRepo, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewJWTService("test-secret", time.Hour), nil)
			_, err := svc.ThirdPartyLogin(context.Background(), ThirdPartyIdentity{Name: "Bo", Email: "bo@x.com", ProviderID: "g-1"})

			assert.ErrorIs(t, err, tt.wantErr)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ThirdPartyLoginRequiresEmail(t *testing.T) {
	svc, _ := newTestAuthService(newMemUserRepository())

	_, err := svc.ThirdPartyLogin(context.Background(), ThirdPartyIdentity{Name: "Bo"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidIdentityToken)
}

func TestAuthService_LinkThirdParty(t *testing.T) {
	repo := newMemUserRepository()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	id, err := svc.Register(ctx, "Ann", "ann@x.com", "p@ss1234")
	require.NoError(t, err)

	affected, err := svc.LinkThirdParty(ctx, id, "g-ann", "http://pic")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	stored, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored.FirebaseUID)
	assert.Equal(t, "g-ann", *stored.FirebaseUID)
	require.NotNil(t, stored.ProfilePicture)
	assert.Equal(t, "http://pic", *stored.ProfilePicture)
	assert.Equal(t, model.AuthMethodGoogle, stored.AuthMethod)
	assert.Equal(t, "Ann", stored.Name)

	// Password login keeps working after linking.
	_, err = svc.Login(ctx, "ann@x.com", "p@ss1234")
	assert.NoError(t, err)

	// Later third-party sign-ins resolve to the same row.
	res, err := svc.ThirdPartyLogin(ctx, ThirdPartyIdentity{Name: "Ann", Email: "ann@x.com", ProviderID: "g-ann"})
	require.NoError(t, err)
	assert.Equal(t, id, res.User.ID)
	assert.Equal(t, 1, repo.count())
}

func TestAuthService_LinkThirdPartyUpdatesOnlySuppliedColumns(t *testing.T) {
	mockRepo := new(MockUserRepository)
	method := model.AuthMethodGoogle
	uid := "g-1"
	mockRepo.On("UpdateProfile", mock.Anything, uint(4), model.ProfileUpdate{FirebaseUID: &uid, AuthMethod: &method}).
		Return(int64(1), nil)

	svc := NewAuthService(mockRepo, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewJWTService("test-secret", time.Hour), nil)
	_, err := svc.LinkThirdParty(context.Background(), 4, "g-1", "")

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LinkThirdPartyErrors(t *testing.T) {
	repo := newMemUserRepository()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.LinkThirdParty(ctx, 1, "", "")
	assert.ErrorIs(t, err, apperrors.ErrNoFieldsSupplied)

	_, err = svc.LinkThirdParty(ctx, 99, "g-x", "")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	first, err := svc.Register(ctx, "Ann", "ann@x.com", "p@ss1234")
	require.NoError(t, err)
	second, err := svc.Register(ctx, "Cy", "cy@x.com", "p@ss1234")
	require.NoError(t, err)

	_, err = svc.LinkThirdParty(ctx, first, "g-shared", "")
	require.NoError(t, err)
	_, err = svc.LinkThirdParty(ctx, second, "g-shared", "")
	assert.ErrorIs(t, err, apperrors.ErrThirdPartyIDInUse)
}

func TestDeriveUsername(t *testing.T) {
	name := DeriveUsername("Mary Jane  Watson")
	assert.True(t, strings.HasPrefix(name, "maryjanewatson"))
	assert.Len(t, name, len("maryjanewatson")+6)
	assert.NotContains(t, name, " ")

	assert.True(t, strings.HasPrefix(DeriveUsername(""), "user"))
	assert.NotEqual(t, DeriveUsername("Bo"), DeriveUsername("Bo"))
}

func TestAuthService_HasherFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, nil)

	svc := NewAuthService(mockRepo, failingHasher{}, auth.NewJWTService("test-secret", time.Hour), nil)
	_, err := svc.Register(context.Background(), "A", "a@x.com", "secret")

	assert.Error(t, err)
	assert.True(t, apperrors.Internal(err))
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("entropy exhausted") }
func (failingHasher) Verify(string, string) bool { return false }
func (failingHasher) HashRandom() (string, error) { return "", errors.New("entropy exhausted") }

func TestAuthService_LinkThirdPartyRelinkSameIdentity(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("UpdateProfile", mock.Anything, uint(4), mock.Anything).Return(int64(0), nil)
	mockRepo.On("FindByID", mock.Anything, uint(4)).Return(&model.User{ID: 4, Email: "ann@x.com"}, nil)

	svc := NewAuthService(mockRepo, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewJWTService("test-secret", time.Hour), nil)
	affected, err := svc.LinkThirdParty(context.Background(), 4, "g-1", "")

	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterPasswordTooLong(t *testing.T) {
	repo := newMemUserRepository()
	svc, _ := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), "Ann", "ann@x.com", strings.Repeat("日", 30))

	assert.ErrorIs(t, err, apperrors.ErrPasswordTooLong)
	assert.Equal(t, 0, repo.count())
}
