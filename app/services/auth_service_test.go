package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/app/services"
	"github.com/shashiranjanraj/kirana/pkg/apperr"
)

type fakeUserRepo struct {
	users []models.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	u.ID = primitive.NewObjectID()
	f.users = append(f.users, *u)
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			return &f.users[i], nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			return &f.users[i], nil
		}
	}
	return nil, nil
}

func TestRegisterAndLogin(t *testing.T) {
	users := &fakeUserRepo{}
	svc := services.NewAuthService(users)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, services.RegisterInput{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "correct horse", user.Password, "password must be stored hashed")

	_, token, err = svc.Login(ctx, services.LoginInput{
		Email:    "asha@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &fakeUserRepo{}
	svc := services.NewAuthService(users)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, services.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, services.RegisterInput{
		Name: "Imposter", Email: "asha@example.com", Password: "different pass",
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestLoginBadCredentials(t *testing.T) {
	users := &fakeUserRepo{}
	svc := services.NewAuthService(users)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, services.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, services.LoginInput{Email: "asha@example.com", Password: "wrong"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, _, err = svc.Login(ctx, services.LoginInput{Email: "ghost@example.com", Password: "whatever"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
