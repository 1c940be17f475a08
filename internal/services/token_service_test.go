package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusmarket/internal/models"
	"campusmarket/internal/repositories"
)

// in-memory token store keyed by hash
type memoryTokenRepo struct {
	nextID int
	byHash map[string]*models.AccessToken
	users  map[int]*models.User
}

var _ repositories.TokenRepository = (*memoryTokenRepo)(nil)

func newMemoryTokenRepo(users ...*models.User) *memoryTokenRepo {
	r := &memoryTokenRepo{byHash: map[string]*models.AccessToken{}, users: map[int]*models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memoryTokenRepo) Create(userID int, tokenHash string) (*models.AccessToken, error) {
	r.nextID++
	t := &models.AccessToken{ID: r.nextID, UserID: userID, TokenHash: tokenHash, CreatedAt: time.Now()}
	r.byHash[tokenHash] = t
	return t, nil
}

func (r *memoryTokenRepo) GetUserByTokenHash(tokenHash string) (*models.User, error) {
	t, ok := r.byHash[tokenHash]
	if !ok {
		return nil, nil
	}
	return r.users[t.UserID], nil
}

func (r *memoryTokenRepo) DeleteByTokenHash(tokenHash string) (bool, error) {
	if _, ok := r.byHash[tokenHash]; !ok {
		return false, nil
	}
	delete(r.byHash, tokenHash)
	return true, nil
}

func (r *memoryTokenRepo) DeleteAllForUser(userID int) error {
	for h, t := range r.byHash {
		if t.UserID == userID {
			delete(r.byHash, h)
		}
	}
	return nil
}

func TestTokenService_issueAndValidate(t *testing.T) {
	alice := &models.User{ID: 1, Email: "alice@x.edu"}
	repo := newMemoryTokenRepo(alice)
	svc := NewTokenService(repo)

	token, err := svc.Issue(1)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	// the plain token is never stored
	_, stored := repo.byHash[token]
	assert.False(t, stored)

	user, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
}

func TestTokenService_validateRejectsUnknown(t *testing.T) {
	svc := NewTokenService(newMemoryTokenRepo())

	_, err := svc.Validate("deadbeef")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Validate("")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenService_revoke(t *testing.T) {
	alice := &models.User{ID: 1}
	svc := NewTokenService(newMemoryTokenRepo(alice))

	token, err := svc.Issue(1)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(token))

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// revoking twice fails
	assert.ErrorIs(t, svc.Revoke(token), ErrUnauthorized)
}

func TestTokenService_refreshRotates(t *testing.T) {
	alice := &models.User{ID: 1}
	svc := NewTokenService(newMemoryTokenRepo(alice))

	old, err := svc.Issue(1)
	require.NoError(t, err)

	fresh, err := svc.Refresh(old, 1)
	require.NoError(t, err)
	assert.NotEqual(t, old, fresh)

	_, err = svc.Validate(old)
	assert.ErrorIs(t, err, ErrUnauthorized)

	user, err := svc.Validate(fresh)
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
}

func TestTokenService_refreshWithUnknownTokenIssuesNothing(t *testing.T) {
	repo := newMemoryTokenRepo(&models.User{ID: 1})
	svc := NewTokenService(repo)

	_, err := svc.Refresh("never-issued", 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, repo.byHash)
}

func TestTokenService_revokeAllForUser(t *testing.T) {
	alice := &models.User{ID: 1}
	bob := &models.User{ID: 2}
	repo := newMemoryTokenRepo(alice, bob)
	svc := NewTokenService(repo)

	t1, err := svc.Issue(1)
	require.NoError(t, err)
	t2, err := svc.Issue(1)
	require.NoError(t, err)
	t3, err := svc.Issue(2)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAllForUser(1))

	_, err = svc.Validate(t1)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Validate(t2)
	assert.ErrorIs(t, err, ErrUnauthorized)

	user, err := svc.Validate(t3)
	require.NoError(t, err)
	assert.Equal(t, 2, user.ID)
}
