package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/caja-pos/internal/application/auth"
	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de registro y login con un repo fake. El registro verifica duplicados
// antes del insert; si esa consulta falla, el error se propaga en vez de
// leerse como "email libre".
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	byEmail   map[string]*entity.User
	lookupErr error
	created   []*entity.User
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	r.created = append(r.created, u)
	return nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	return r.byEmail[email], nil
}

func (r *fakeUserRepo) GetByID(string) (*entity.User, error) { return nil, nil }

func testJWTCfg() auth.JWTConfig {
	return auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "caja-pos-test"}
}

func TestRegisterUser_Nuevo(t *testing.T) {
	repo := &fakeUserRepo{byEmail: map[string]*entity.User{}}
	uc := auth.NewAuthUseCase(repo, testJWTCfg())

	out, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "cajero@caja-pos.local", Password: "secreta123",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.RoleCajero, out.Role, "el rol por defecto es cajero")
	require.Len(t, repo.created, 1)
	assert.NotEqual(t, "secreta123", repo.created[0].PasswordHash,
		"la clave nunca se persiste en claro")
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	repo := &fakeUserRepo{byEmail: map[string]*entity.User{
		"admin@caja-pos.local": {ID: "u1", Email: "admin@caja-pos.local"},
	}}
	uc := auth.NewAuthUseCase(repo, testJWTCfg())

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "admin@caja-pos.local", Password: "secreta123",
	})

	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Empty(t, repo.created)
}

// Un fallo en la consulta de duplicados debe propagarse, no interpretarse
// como "el email está libre" y continuar al insert.
func TestRegisterUser_ErrorDeConsultaSePropaga(t *testing.T) {
	repo := &fakeUserRepo{lookupErr: assert.AnError}
	uc := auth.NewAuthUseCase(repo, testJWTCfg())

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "cajero@caja-pos.local", Password: "secreta123",
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, repo.created, "con la consulta fallida no se intenta el insert")
}

func TestRegisterUser_RolInvalido(t *testing.T) {
	repo := &fakeUserRepo{byEmail: map[string]*entity.User{}}
	uc := auth.NewAuthUseCase(repo, testJWTCfg())

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "x@caja-pos.local", Password: "secreta123", Role: "superusuario",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_CredencialesValidas(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &fakeUserRepo{byEmail: map[string]*entity.User{
		"admin@caja-pos.local": {
			ID: "u1", Email: "admin@caja-pos.local", PasswordHash: string(hash),
			Role: entity.RoleAdmin, Status: "active",
		},
	}}
	uc := auth.NewAuthUseCase(repo, testJWTCfg())

	out, err := uc.Login(dto.LoginRequest{Email: "admin@caja-pos.local", Password: "secreta123"})

	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)
}

func TestLogin_ClaveIncorrecta(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &fakeUserRepo{byEmail: map[string]*entity.User{
		"admin@caja-pos.local": {
			ID: "u1", Email: "admin@caja-pos.local", PasswordHash: string(hash),
			Role: entity.RoleAdmin, Status: "active",
		},
	}}
	uc := auth.NewAuthUseCase(repo, testJWTCfg())

	_, err = uc.Login(dto.LoginRequest{Email: "admin@caja-pos.local", Password: "otra"})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &fakeUserRepo{byEmail: map[string]*entity.User{
		"ex@caja-pos.local": {
			ID: "u1", Email: "ex@caja-pos.local", PasswordHash: string(hash),
			Role: entity.RoleCajero, Status: "inactive",
		},
	}}
	uc := auth.NewAuthUseCase(repo, testJWTCfg())

	_, err = uc.Login(dto.LoginRequest{Email: "ex@caja-pos.local", Password: "secreta123"})

	assert.ErrorIs(t, err, domain.ErrForbidden)
}
