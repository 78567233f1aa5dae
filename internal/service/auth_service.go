package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"signup/internal/auth"
	"signup/internal/cache"
	apperrors "signup/internal/errors"
	"signup/internal/model"
	"signup/internal/repository"
)

// ThirdPartyIdentity is an identity already proven by the provider's token verifier.
type ThirdPartyIdentity struct {
	Name       string
	Email      string
	PictureURL string
	ProviderID string
}

// LoginResult is a signed session token and the account it was issued for.
type LoginResult struct {
	Token string
	User  *model.User
}

// AuthService maps local and third-party authentication events onto a single user record.
// Email is the join key across both flows.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (uint, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ThirdPartyLogin(ctx context.Context, in ThirdPartyIdentity) (*LoginResult, error)
	LinkThirdParty(ctx context.Context, userID uint, providerID, pictureURL string) (int64, error)
}

type authService struct {
	users      repository.UserRepository
	hasher     auth.PasswordHasher
	jwtService *auth.JWTService
	cache      *cache.Client
}

// NewAuthService creates a new authentication service. cache may be nil.
func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, jwtService *auth.JWTService, cache *cache.Client) AuthService {
	return &authService{
		users:      users,
		hasher:     hasher,
		jwtService: jwtService,
		cache:      cache,
	}
}

// Register creates a local account and returns its id. It does not sign the user in.
func (s *authService) Register(ctx context.Context, name, email, password string) (uint, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return 0, apperrors.ErrEmailInUse
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}

	user, err := s.users.Create(ctx, name, email, hash, model.CreateAttrs{})
	if err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			return 0, apperrors.ErrEmailInUse
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return user.ID, nil
}

// Login checks a password and issues a token. Unknown email and wrong password
// fail with the same ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.ID, user.Email, "")
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}

// ThirdPartyLogin signs in the account owning in.Email, creating it on first sight.
// An existing account is never modified here; attaching the identity is LinkThirdParty's job.
func (s *authService) ThirdPartyLogin(ctx context.Context, in ThirdPartyIdentity) (*LoginResult, error) {
	if in.Email == "" {
		return nil, fmt.Errorf("%w: missing email", apperrors.ErrInvalidIdentityToken)
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		user, err = s.registerThirdParty(ctx, in)
		if err != nil {
			return nil, err
		}
	}

	token, err := s.jwtService.Issue(user.ID, user.Email, string(model.AuthMethodGoogle))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}

// registerThirdParty inserts the account unless a concurrent request already did,
// then reads it back by email; the store assigns the id.
func (s *authService) registerThirdParty(ctx context.Context, in ThirdPartyIdentity) (*model.User, error) {
	hash, err := s.hasher.HashRandom()
	if err != nil {
		return nil, err
	}

	uid := in.ProviderID
	if uid == "" {
		uid = uuid.NewString()
	}
	candidate := &model.User{
		Name:         DeriveUsername(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
		FirebaseUID:  &uid,
		AuthMethod:   model.AuthMethodGoogle,
	}
	if in.PictureURL != "" {
		pic := in.PictureURL
		candidate.ProfilePicture = &pic
	}

	created, err := s.users.CreateIfAbsent(ctx, candidate)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			return nil, apperrors.ErrEmailInUse
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("find created user: %w", err)
	}
	if user == nil {
		if !created {
			// The insert was skipped because another account owns this provider id.
			return nil, apperrors.ErrThirdPartyIDInUse
		}
		return nil, fmt.Errorf("user %q missing after create", in.Email)
	}
	return user, nil
}

// LinkThirdParty attaches a provider identity to an existing account and returns
// the number of rows updated. The caller must already be authenticated as userID.
func (s *authService) LinkThirdParty(ctx context.Context, userID uint, providerID, pictureURL string) (int64, error) {
	var update model.ProfileUpdate
	if providerID != "" {
		method := model.AuthMethodGoogle
		update.FirebaseUID = &providerID
		update.AuthMethod = &method
	}
	if pictureURL != "" {
		update.ProfilePicture = &pictureURL
	}
	if update.Empty() {
		return 0, apperrors.ErrNoFieldsSupplied
	}

	affected, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		// MySQL counts changed rows, so a re-link of the same identity reports 0.
		existing, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return 0, fmt.Errorf("find user: %w", err)
		}
		if existing == nil {
			return 0, apperrors.ErrUserNotFound
		}
	}
	s.cache.Delete(ctx, userCacheKey(userID))
	return affected, nil
}

// DeriveUsername lower-cases name, drops whitespace and appends a short random suffix.
// The result is not guaranteed unique; only email and provider id are.
func DeriveUsername(name string) string {
	base := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
	if base == "" {
		base = "user"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return base + suffix
}
