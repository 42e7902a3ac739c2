package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectura-ai/lectura/internal/models"
	"github.com/lectura-ai/lectura/internal/utils"
)

type memUserRepo struct {
	byEmail map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: map[string]*models.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, u *models.User) error {
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func TestRegisterNormalizesEmail(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, "secret")

	u, err := svc.Register(context.Background(), "  Student@Example.COM ", "password123")
	require.NoError(t, err)

	assert.Equal(t, "student@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "password123", u.PasswordHash)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewUserService(newMemUserRepo(), "secret")

	_, err := svc.Register(context.Background(), "a@b.com", "short")
	assert.Equal(t, utils.CodeInvalidArgument, appCode(t, err))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, "secret")

	_, err := svc.Register(context.Background(), "a@b.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "A@B.com", "password123")
	assert.Equal(t, utils.CodeConflict, appCode(t, err))
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, "secret")

	reg, err := svc.Register(context.Background(), "a@b.com", "password123")
	require.NoError(t, err)

	token, u, err := svc.Login(context.Background(), "a@b.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte("secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, reg.ID, claims["sub"])
	assert.Equal(t, string(models.RoleUser), claims["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, "secret")

	_, err := svc.Register(context.Background(), "a@b.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "a@b.com", "wrong-password")
	assert.Equal(t, utils.CodeUnauthorized, appCode(t, err))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewUserService(newMemUserRepo(), "secret")

	_, _, err := svc.Login(context.Background(), "nobody@b.com", "password123")
	assert.Equal(t, utils.CodeUnauthorized, appCode(t, err))
}
