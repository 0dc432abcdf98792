package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"library-backend/internal/domain/user"
	"library-backend/internal/testutil/usermock"
	"library-backend/pkg/token"

	"golang.org/x/crypto/bcrypt"
)

// memUsers backs usermock.Repo with a slice.
func memUsers() (*usermock.Repo, *[]*user.User) {
	var all []*user.User
	repo := &usermock.Repo{
		CreateFn: func(ctx context.Context, u *user.User) error {
			all = append(all, u)
			return nil
		},
		GetByIDFn: func(ctx context.Context, id string) (*user.User, error) {
			for _, u := range all {
				if u.ID == id {
					return u, nil
				}
			}
			return nil, user.ErrNotFound
		},
		GetByLoginFn: func(ctx context.Context, login string) (*user.User, error) {
			for _, u := range all {
				if u.Username == login || (u.Email != nil && *u.Email == login) {
					return u, nil
				}
			}
			return nil, user.ErrNotFound
		},
	}
	return repo, &all
}

func newTestUsecase() (*Usecase, *[]*user.User, *token.Issuer) {
	repo, all := memUsers()
	issuer := token.NewIssuer("0123456789abcdef", time.Hour)
	return NewUsecase(repo, usermock.NewRefreshTokens(), issuer).WithHashCost(bcrypt.MinCost), all, issuer
}

func TestRegister(t *testing.T) {
	uc, all, _ := newTestUsecase()
	ctx := context.Background()

	dto, err := uc.Register(ctx, RegisterInput{Username: " alice ", Email: "Alice@Example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if dto.Username != "alice" || dto.Role != string(user.RoleUser) || dto.DisplayName != "alice" {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if dto.Email == nil || *dto.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %v", dto.Email)
	}
	if (*all)[0].PasswordHash == "secret1" {
		t.Fatalf("password stored in clear")
	}

	tests := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"taken username", RegisterInput{Username: "alice", Password: "secret1"}, user.ErrUsernameTaken},
		{"taken email", RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "secret1"}, user.ErrEmailTaken},
		{"short password", RegisterInput{Username: "bob", Password: "123"}, ErrInvalidInput},
		{"blank username", RegisterInput{Username: "  ", Password: "secret1"}, ErrInvalidInput},
	}
	for _, tt := range tests {
		if _, err := uc.Register(ctx, tt.in); !errors.Is(err, tt.want) {
			t.Fatalf("%s: want %v, got %v", tt.name, tt.want, err)
		}
	}
}

func TestLogin(t *testing.T) {
	uc, _, issuer := newTestUsecase()
	ctx := context.Background()
	reg, err := uc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, login := range []string{"alice", "alice@example.com"} {
		tok, err := uc.Login(ctx, LoginInput{Login: login, Password: "secret1"})
		if err != nil {
			t.Fatalf("Login(%s): %v", login, err)
		}
		claims, err := issuer.Parse(tok.AccessToken)
		if err != nil {
			t.Fatalf("issued token does not parse: %v", err)
		}
		if claims.UserID() != reg.ID || claims.Role != string(user.RoleUser) {
			t.Fatalf("unexpected claims: %+v", claims)
		}
	}

	if _, err := uc.Login(ctx, LoginInput{Login: "alice", Password: "wrong-pw"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials, got %v", err)
	}
	if _, err := uc.Login(ctx, LoginInput{Login: "nobody", Password: "secret1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: want ErrInvalidCredentials, got %v", err)
	}
}

func TestProfile(t *testing.T) {
	uc, _, _ := newTestUsecase()
	ctx := context.Background()
	reg, _ := uc.Register(ctx, RegisterInput{Username: "alice", DisplayName: "Alice A.", Password: "secret1"})

	got, err := uc.Profile(ctx, reg.ID)
	if err != nil || got.DisplayName != "Alice A." {
		t.Fatalf("Profile: %+v %v", got, err)
	}
	if _, err := uc.Profile(ctx, "missing"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("missing profile: want ErrNotFound, got %v", err)
	}
}

func TestEnsureSuperUser(t *testing.T) {
	uc, all, _ := newTestUsecase()
	ctx := context.Background()

	created, err := uc.EnsureSuperUser(ctx, "admin", "adminpass")
	if err != nil || !created {
		t.Fatalf("first EnsureSuperUser: created=%v err=%v", created, err)
	}
	if (*all)[0].Role != user.RoleSuperUser {
		t.Fatalf("role = %s", (*all)[0].Role)
	}

	created, err = uc.EnsureSuperUser(ctx, "admin", "other")
	if err != nil || created {
		t.Fatalf("second EnsureSuperUser: created=%v err=%v", created, err)
	}
	if len(*all) != 1 {
		t.Fatalf("duplicate superuser created")
	}

	if _, err := uc.EnsureSuperUser(ctx, "admin2", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty password: want ErrInvalidInput, got %v", err)
	}
}

func loggedIn(t *testing.T, uc *Usecase) *TokenDTO {
	t.Helper()
	ctx := context.Background()
	if _, err := uc.Register(ctx, RegisterInput{Username: "alice", Password: "secret1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	tok, err := uc.Login(ctx, LoginInput{Login: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return tok
}

func TestLogin_StoresRefreshToken(t *testing.T) {
	uc, _, issuer := newTestUsecase()
	tok := loggedIn(t, uc)

	if tok.RefreshToken == "" || !tok.RefreshExpiresAt.After(tok.ExpiresAt) {
		t.Fatalf("unexpected refresh fields: %+v", tok)
	}
	claims, err := issuer.ParseRefresh(tok.RefreshToken)
	if err != nil {
		t.Fatalf("refresh token does not parse: %v", err)
	}
	row, err := uc.refresh.GetByID(context.Background(), claims.ID)
	if err != nil || row.UserID != tok.User.ID || !row.Active(time.Now()) {
		t.Fatalf("stored row: %+v %v", row, err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	uc, _, issuer := newTestUsecase()
	ctx := context.Background()
	first := loggedIn(t, uc)

	second, err := uc.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken || second.User.ID != first.User.ID {
		t.Fatalf("token not rotated: %+v", second)
	}
	if _, err := issuer.Parse(second.AccessToken); err != nil {
		t.Fatalf("new access token: %v", err)
	}

	oldClaims, _ := issuer.ParseRefresh(first.RefreshToken)
	newClaims, _ := issuer.ParseRefresh(second.RefreshToken)
	old, _ := uc.refresh.GetByID(ctx, oldClaims.ID)
	if old.RevokedAt == nil || old.ReplacedBy == nil || *old.ReplacedBy != newClaims.ID {
		t.Fatalf("old row not linked to successor: %+v", old)
	}
}

func TestRefresh_ReuseRevokesEveryToken(t *testing.T) {
	uc, _, _ := newTestUsecase()
	ctx := context.Background()
	first := loggedIn(t, uc)
	store := uc.refresh.(*usermock.RefreshTokens)

	second, err := uc.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, err := uc.Refresh(ctx, first.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("reused token: want ErrInvalidRefreshToken, got %v", err)
	}
	if n := store.Active(first.User.ID, time.Now()); n != 0 {
		t.Fatalf("%d tokens still active after reuse", n)
	}
	if _, err := uc.Refresh(ctx, second.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("successor after reuse: want ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRefresh_RejectsBadTokens(t *testing.T) {
	uc, _, issuer := newTestUsecase()
	ctx := context.Background()
	tok := loggedIn(t, uc)

	unknown, _, err := issuer.IssueRefresh(tok.User.ID, "not-a-stored-jti")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	otherSecret, _, _ := token.NewIssuer("another-secret!!", time.Hour).IssueRefresh(tok.User.ID, "x")

	for name, raw := range map[string]string{
		"garbage":      "not.a.jwt",
		"access token": tok.AccessToken,
		"unknown jti":  unknown,
		"wrong secret": otherSecret,
	} {
		if _, err := uc.Refresh(ctx, raw); !errors.Is(err, ErrInvalidRefreshToken) {
			t.Fatalf("%s: want ErrInvalidRefreshToken, got %v", name, err)
		}
	}
}

func TestRefresh_ExpiredRow(t *testing.T) {
	uc, _, _ := newTestUsecase()
	tok := loggedIn(t, uc)
	uc.now = func() time.Time { return time.Now().Add(token.DefaultRefreshTTL + time.Hour) }

	if _, err := uc.Refresh(context.Background(), tok.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("want ErrInvalidRefreshToken, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	uc, _, _ := newTestUsecase()
	ctx := context.Background()
	tok := loggedIn(t, uc)

	if err := uc.Logout(ctx, "someone-else", tok.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("foreign token: want ErrInvalidRefreshToken, got %v", err)
	}
	if err := uc.Logout(ctx, tok.User.ID, tok.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := uc.Logout(ctx, tok.User.ID, tok.RefreshToken); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
	if _, err := uc.Refresh(ctx, tok.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("refresh after logout: want ErrInvalidRefreshToken, got %v", err)
	}
}
