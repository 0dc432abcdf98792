package usermock

import (
	"context"
	"sync"
	"time"

	"library-backend/internal/domain/user"
)

var _ user.RefreshTokenRepository = (*RefreshTokens)(nil)

// RefreshTokens is an in-memory user.RefreshTokenRepository.
type RefreshTokens struct {
	mu   sync.Mutex
	rows map[string]user.RefreshToken
}

func NewRefreshTokens() *RefreshTokens {
	return &RefreshTokens{rows: map[string]user.RefreshToken{}}
}

func (m *RefreshTokens) Create(ctx context.Context, t *user.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[t.ID] = *t
	return nil
}

func (m *RefreshTokens) GetByID(ctx context.Context, id string) (*user.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok {
		return nil, user.ErrRefreshTokenNotFound
	}
	return &t, nil
}

func (m *RefreshTokens) Revoke(ctx context.Context, id string, replacedBy *string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok || t.RevokedAt != nil {
		return false, nil
	}
	t.RevokedAt, t.ReplacedBy = &at, replacedBy
	m.rows[id] = t
	return true, nil
}

func (m *RefreshTokens) RevokeAllForUser(ctx context.Context, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.rows {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &at
			m.rows[id] = t
		}
	}
	return nil
}

// Active counts tokens of userID that are neither revoked nor expired.
func (m *RefreshTokens) Active(userID string, now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.rows {
		if t.UserID == userID && t.Active(now) {
			n++
		}
	}
	return n
}
