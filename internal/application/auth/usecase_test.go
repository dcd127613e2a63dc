package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/testutil/memstore"
	"github.com/jhoicas/stock-ledger-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memstore.Store) {
	t.Helper()
	s := memstore.New()
	uc := auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "stock-ledger"}).
		WithBcryptCost(bcrypt.MinCost)
	return uc, s
}

func TestRegisterLogin(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Name: "Ana", Email: " Ana@Example.com ", Password: "secreto"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, entity.RoleUser, u.Role)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Name: "Ana 2", Email: "ana@example.com", Password: "secreto"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@example.com", Password: "secreto"})
	require.NoError(t, err)
	userID, role, err := jwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, entity.RoleUser, role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "secreto"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegister_Validaciones(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	cases := []dto.RegisterRequest{
		{Name: "Al", Email: "al@example.com", Password: "secreto"},
		{Name: "Alberto", Email: "sin-arroba", Password: "secreto"},
		{Name: "Alberto", Email: "al@example.com", Password: "123"},
	}
	for _, in := range cases {
		_, err := uc.RegisterUser(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestChangePassword(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Name: "Bruno", Email: "bruno@example.com", Password: "viejo1"})
	require.NoError(t, err)

	err = uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "mal", NewPassword: "nuevo1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "viejo1", NewPassword: "nuevo1"}))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "bruno@example.com", Password: "nuevo1"})
	assert.NoError(t, err)
}

func TestVerifyAdmin(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	admin, err := uc.RegisterAdmin(ctx, dto.RegisterRequest{Name: "Admin", Email: "admin@example.com", Password: "clave123"})
	require.NoError(t, err)
	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Name: "Carla", Email: "carla@example.com", Password: "clave123"})
	require.NoError(t, err)

	assert.NoError(t, uc.VerifyAdmin(ctx, admin.ID, "clave123"))
	assert.ErrorIs(t, uc.VerifyAdmin(ctx, admin.ID, "otra"), domain.ErrUnauthorized)
	assert.ErrorIs(t, uc.VerifyAdmin(ctx, user.ID, "clave123"), domain.ErrForbidden)
	assert.ErrorIs(t, uc.VerifyAdmin(ctx, admin.ID, ""), domain.ErrValidation)
}

func TestMeYDeleteAccount(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Name: "Dario", Email: "dario@example.com", Password: "clave123"})
	require.NoError(t, err)

	me, err := uc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dario", me.Name)

	require.NoError(t, uc.DeleteAccount(ctx, u.ID))
	_, err = uc.Me(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
