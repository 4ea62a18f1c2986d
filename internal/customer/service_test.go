package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byEmail        map[string]*Customer
	createErr      error
	lastLoginErr   error
	lastLoginCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: map[string]*Customer{}}
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	if c, ok := r.byEmail[email]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Customer, error) {
	for _, c := range r.byEmail {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) Create(ctx context.Context, c *Customer) error {
	if r.createErr != nil {
		return r.createErr
	}
	c.ID = "c-" + c.Email
	c.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.byEmail[c.Email] = c
	return nil
}

func (r *fakeRepo) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	r.lastLoginCalls++
	return r.lastLoginErr
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Compare(hash, p string) error {
	if hash != "hashed:"+p {
		return errors.New("mismatch")
	}
	return nil
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates active customer with normalized email", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo, plainHasher{}, nil)

		c, err := svc.Register(ctx, RegisterRequest{
			Email:    "  Ana@Example.COM ",
			Password: "password1",
			FullName: " Ana Putri ",
			Phone:    "0812",
		})
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", c.Email)
		assert.Equal(t, "Ana Putri", c.FullName)
		assert.Equal(t, "hashed:password1", c.PasswordHash)
		require.NotNil(t, c.Phone)
		assert.Equal(t, "0812", *c.Phone)
		assert.True(t, c.IsActive)
	})

	tests := []struct {
		name string
		req  RegisterRequest
		want error
	}{
		{"Missing email", RegisterRequest{Email: " ", Password: "password1", FullName: "Ana"}, ErrEmailRequired},
		{"Missing name", RegisterRequest{Email: "a@b.co", Password: "password1", FullName: " "}, ErrNameRequired},
		{"Short password", RegisterRequest{Email: "a@b.co", Password: "short", FullName: "Ana"}, ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newFakeRepo(), plainHasher{}, nil)
			_, err := svc.Register(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("Duplicate email", func(t *testing.T) {
		repo := newFakeRepo()
		repo.byEmail["ana@example.com"] = &Customer{ID: "c-1", Email: "ana@example.com"}
		svc := NewService(repo, plainHasher{}, nil)

		_, err := svc.Register(ctx, RegisterRequest{Email: "ana@example.com", Password: "password1", FullName: "Ana"})
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.byEmail["ana@example.com"] = &Customer{ID: "c-1", Email: "ana@example.com", PasswordHash: "hashed:password1", IsActive: true}
	repo.byEmail["off@example.com"] = &Customer{ID: "c-2", Email: "off@example.com", PasswordHash: "hashed:password1"}
	svc := NewService(repo, plainHasher{}, nil)

	c, err := svc.Login(ctx, "ANA@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", c.ID)
	assert.NotNil(t, c.LastLoginAt)
	assert.Equal(t, 1, repo.lastLoginCalls)

	_, err = svc.Login(ctx, "ana@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "off@example.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginSurvivesLastLoginFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.lastLoginErr = errors.New("db down")
	repo.byEmail["ana@example.com"] = &Customer{ID: "c-1", Email: "ana@example.com", PasswordHash: "hashed:password1", IsActive: true}
	svc := NewService(repo, plainHasher{}, nil)

	c, err := svc.Login(context.Background(), "ana@example.com", "password1")
	require.NoError(t, err)
	assert.Nil(t, c.LastLoginAt)
}
