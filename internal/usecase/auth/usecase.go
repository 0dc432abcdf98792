package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"library-backend/internal/domain/user"
	"library-backend/pkg/id"
	"library-backend/pkg/password"
	"library-backend/pkg/token"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

type Usecase struct {
	users    user.Repository
	refresh  user.RefreshTokenRepository
	tokens   *token.Issuer
	hashCost int
	now      func() time.Time
}

func NewUsecase(users user.Repository, refresh user.RefreshTokenRepository, tokens *token.Issuer) *Usecase {
	return &Usecase{users: users, refresh: refresh, tokens: tokens, hashCost: password.DefaultCost, now: time.Now}
}

// WithHashCost lowers bcrypt work for tests.
func (u *Usecase) WithHashCost(cost int) *Usecase {
	u.hashCost = cost
	return u
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(in.Password) < password.MinLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, password.MinLength)
	}

	if _, err := u.users.GetByLogin(ctx, in.Username); err == nil {
		return nil, user.ErrUsernameTaken
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}
	if in.Email != "" {
		if _, err := u.users.GetByLogin(ctx, in.Email); err == nil {
			return nil, user.ErrEmailTaken
		} else if !errors.Is(err, user.ErrNotFound) {
			return nil, err
		}
	}

	nu, err := u.newUser(in, user.RoleUser)
	if err != nil {
		return nil, err
	}
	if err := u.users.Create(ctx, nu); err != nil {
		return nil, err
	}
	slog.Info("user registered", "user_id", nu.ID, "username", nu.Username)
	dto := toDTO(nu)
	return &dto, nil
}

func (u *Usecase) Login(ctx context.Context, in LoginInput) (*TokenDTO, error) {
	found, err := u.users.GetByLogin(ctx, strings.TrimSpace(in.Login))
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !password.Verify(in.Password, found.PasswordHash) {
		slog.Warn("login failed", "user_id", found.ID)
		return nil, ErrInvalidCredentials
	}

	return u.issuePair(ctx, found, id.NewID32())
}

// Refresh exchanges a refresh token for a new pair and revokes the old one.
// Presenting a token that was already revoked revokes every token of its
// owner, so a stolen token dies together with the legitimate chain.
func (u *Usecase) Refresh(ctx context.Context, raw string) (*TokenDTO, error) {
	claims, err := u.tokens.ParseRefresh(raw)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	row, err := u.refresh.GetByID(ctx, claims.ID)
	if errors.Is(err, user.ErrRefreshTokenNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}
	if row.UserID != claims.Subject {
		return nil, ErrInvalidRefreshToken
	}

	now := u.now().UTC()
	if row.RevokedAt != nil {
		return nil, u.revokeChain(ctx, row, now)
	}
	if !row.Active(now) {
		return nil, ErrInvalidRefreshToken
	}

	found, err := u.users.GetByID(ctx, row.UserID)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}

	next := id.NewID32()
	ok, err := u.refresh.Revoke(ctx, row.ID, &next, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// another exchange of the same token won
		return nil, u.revokeChain(ctx, row, now)
	}
	return u.issuePair(ctx, found, next)
}

// Logout revokes the caller's refresh token. An expired token has nothing
// left to revoke.
func (u *Usecase) Logout(ctx context.Context, userID, raw string) error {
	claims, err := u.tokens.ParseRefresh(raw)
	if errors.Is(err, token.ErrTokenExpired) {
		return nil
	}
	if err != nil || claims.Subject != userID {
		return ErrInvalidRefreshToken
	}
	if _, err := u.refresh.Revoke(ctx, claims.ID, nil, u.now().UTC()); err != nil {
		return err
	}
	slog.Info("user logged out", "user_id", userID)
	return nil
}

func (u *Usecase) revokeChain(ctx context.Context, row *user.RefreshToken, now time.Time) error {
	slog.Warn("revoked refresh token presented", "user_id", row.UserID, "jti", row.ID)
	if err := u.refresh.RevokeAllForUser(ctx, row.UserID, now); err != nil {
		return err
	}
	return ErrInvalidRefreshToken
}

// issuePair signs an access token and a refresh token whose jti is stored
// so it can be revoked later.
func (u *Usecase) issuePair(ctx context.Context, found *user.User, jti string) (*TokenDTO, error) {
	access, exp, err := u.tokens.Issue(found.ID, found.Username, string(found.Role))
	if err != nil {
		return nil, err
	}
	refresh, rexp, err := u.tokens.IssueRefresh(found.ID, jti)
	if err != nil {
		return nil, err
	}
	if err := u.refresh.Create(ctx, &user.RefreshToken{ID: jti, UserID: found.ID, ExpiresAt: rexp.UTC()}); err != nil {
		return nil, err
	}
	return &TokenDTO{
		AccessToken:      access,
		TokenType:        "Bearer",
		ExpiresAt:        exp,
		RefreshToken:     refresh,
		RefreshExpiresAt: rexp,
		User:             toDTO(found),
	}, nil
}

func (u *Usecase) Profile(ctx context.Context, userID string) (*UserDTO, error) {
	found, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(found)
	return &dto, nil
}

// EnsureSuperUser creates the administrator account if the username is free.
// An existing account is left untouched. Returns whether a user was created.
func (u *Usecase) EnsureSuperUser(ctx context.Context, username, plain string) (bool, error) {
	if strings.TrimSpace(username) == "" || plain == "" {
		return false, fmt.Errorf("%w: superuser credentials are required", ErrInvalidInput)
	}
	_, err := u.users.GetByLogin(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return false, err
	}

	su, err := u.newUser(RegisterInput{Username: username, DisplayName: "Administrator", Password: plain}, user.RoleSuperUser)
	if err != nil {
		return false, err
	}
	if err := u.users.Create(ctx, su); err != nil {
		return false, err
	}
	slog.Info("superuser created", "user_id", su.ID, "username", su.Username)
	return true, nil
}

func (u *Usecase) newUser(in RegisterInput, role user.Role) (*user.User, error) {
	hash, err := password.HashWithCost(in.Password, u.hashCost)
	if err != nil {
		return nil, err
	}
	nu := &user.User{
		ID:           id.NewID32(),
		Username:     in.Username,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		PasswordHash: hash,
		Role:         role,
	}
	if nu.DisplayName == "" {
		nu.DisplayName = in.Username
	}
	if in.Email != "" {
		email := in.Email
		nu.Email = &email
	}
	return nu, nil
}

func toDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
	}
}
