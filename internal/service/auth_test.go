package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mertdogan/sportspot-api/internal/domain"
	"github.com/mertdogan/sportspot-api/internal/repository"
	"github.com/mertdogan/sportspot-api/internal/service"
)

type fakeUserRepo struct {
	nextID uint
	byMail map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		nextID: 1,
		byMail: make(map[string]domain.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if _, exists := f.byMail[user.Email]; exists {
		return domain.User{}, repository.ErrUserEmailExists
	}

	user.ID = f.nextID
	f.nextID++
	f.byMail[user.Email] = user

	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := f.byMail[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func TestSignupAndLogin(t *testing.T) {
	svc := service.NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	created, err := svc.Signup(ctx, domain.User{
		Email:    "mert@example.com",
		Password: "s3cret-pass",
		Name:     "Mert",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	// Stored password must be a bcrypt hash, never the plaintext.
	assert.NotEqual(t, "s3cret-pass", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("s3cret-pass")))

	user, err := svc.Login(ctx, "mert@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := service.NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Signup(ctx, domain.User{Email: "mert@example.com", Password: "pass-one"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, domain.User{Email: "mert@example.com", Password: "pass-two"})
	assert.ErrorIs(t, err, service.ErrUserEmailExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := service.NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Signup(ctx, domain.User{Email: "mert@example.com", Password: "right-pass"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "mert@example.com", "wrong-pass")
	assert.ErrorIs(t, err, service.ErrWrongPassword)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := service.NewAuthService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
