package service

import (
	"context"
	"testing"

	"pudahuelpos/internal/config"
	"pudahuelpos/internal/dto"
	"pudahuelpos/internal/model"
	"pudahuelpos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Activo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = false
	return nil
}

var _ repository.UsuarioRepository = (*fakeUsuarioRepo)(nil)

func buildAuthSvc() (AuthService, *fakeUsuarioRepo) {
	repo := newFakeUsuarioRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
	return NewAuthService(repo, cfg), repo
}

func seedUsuario(repo *fakeUsuarioRepo, username, password, rol string) *model.Usuario {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.Usuario{
		ID:           uuid.New(),
		Username:     username,
		Nombre:       "Test",
		PasswordHash: string(hash),
		Rol:          rol,
		Activo:       true,
	}
	_ = repo.Create(context.Background(), u)
	return u
}

func TestLogin(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUsuario(repo, "carla", "secreto123", "vendedor")

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "carla", Password: "secreto123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "vendedor", resp.User.Rol)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUsuario(repo, "carla", "secreto123", "vendedor")

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "carla", Password: "otra"})
	assert.ErrorContains(t, err, "credenciales invalidas")
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUsuario(repo, "carla", "secreto123", "vendedor")
	u.Activo = false

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "carla", Password: "secreto123"})
	assert.ErrorContains(t, err, "credenciales invalidas")
}

func TestRefresh(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUsuario(repo, "carla", "secreto123", "vendedor")

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "carla", Password: "secreto123"})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "carla", resp.User.Username)
}

func TestRefresh_TokenInvalido(t *testing.T) {
	svc, _ := buildAuthSvc()
	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	assert.Error(t, err)
}

func TestRefresh_UsuarioDesactivado(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUsuario(repo, "carla", "secreto123", "vendedor")

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "carla", Password: "secreto123"})
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(context.Background(), u.ID))
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorContains(t, err, "inactivo")
}

func TestCrearUsuario_HashYActivo(t *testing.T) {
	svc, repo := buildAuthSvc()

	resp, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "pedro", Nombre: "Pedro Soto", Password: "clave-segura", Rol: "admin",
	})
	require.NoError(t, err)
	assert.True(t, resp.Activo)

	stored, err := repo.FindByUsername(context.Background(), "pedro")
	require.NoError(t, err)
	assert.NotEqual(t, "clave-segura", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave-segura")))
}

func TestDesactivarUsuario_NoListado(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUsuario(repo, "carla", "secreto123", "vendedor")

	require.NoError(t, svc.DesactivarUsuario(context.Background(), u.ID))

	lista, err := svc.ListarUsuarios(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lista)
}
