package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/serenadigital/serena/app/models"
	"github.com/serenadigital/serena/app/repository"
)

// fakeUserStore backs the auth controller with one known account.
type fakeUserStore struct {
	stubUserRepo
	user    *models.User
	updated bool
}

func (f *fakeUserStore) GetByEmail(email string) (*models.User, error) {
	if f.user != nil && models.NormalizeEmail(email) == f.user.Email {
		return f.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) Update(*models.User) error {
	f.updated = true
	return nil
}

func newAuthTestApp(store *fakeUserStore) *fiber.App {
	InitializeAuthController(&repository.Repositories{User: store})

	app := fiber.New()
	app.Post("/login", HandleAuthLogin)
	return app
}

func postLogin(t *testing.T, app *fiber.App, form string) *http.Response {
	t.Helper()

	req := httptest.NewRequest("POST", "/login", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()

	hash, err := models.HashPassword(password)
	require.NoError(t, err)
	return &models.User{
		ID:           7,
		Email:        "ana@x.com",
		Name:         "Ana",
		PasswordHash: hash,
		Role:         models.ROLE_USER,
		Status:       models.STATUS_ACTIVE,
	}
}

func TestHandleAuthLoginUnknownEmail(t *testing.T) {
	app := newAuthTestApp(&fakeUserStore{})

	resp := postLogin(t, app, "email=ninguem%40x.com&password=tanto-faz")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestHandleAuthLoginWrongPassword(t *testing.T) {
	app := newAuthTestApp(&fakeUserStore{user: activeUser(t, "senha-certa")})

	resp := postLogin(t, app, "email=ana%40x.com&password=senha-errada")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestHandleAuthLoginNormalizesEmailLookup(t *testing.T) {
	store := &fakeUserStore{user: activeUser(t, "senha-certa")}
	app := newAuthTestApp(store)

	// Uppercased address resolves to the same account; the wrong
	// password still bounces, proving the lookup found it.
	resp := postLogin(t, app, "email=ANA%40X.COM&password=senha-errada")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestHandleAuthLoginPendingAccount(t *testing.T) {
	user := activeUser(t, "irrelevante")
	user.PasswordHash = ""
	app := newAuthTestApp(&fakeUserStore{user: user})

	// Webhook-provisioned account that never completed definir-senha.
	resp := postLogin(t, app, "email=ana%40x.com&password=qualquer")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestHandleAuthLoginDisabledAccount(t *testing.T) {
	user := activeUser(t, "senha-certa")
	user.Status = models.STATUS_DISABLED
	store := &fakeUserStore{user: user}
	app := newAuthTestApp(store)

	resp := postLogin(t, app, "email=ana%40x.com&password=senha-certa")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.False(t, store.updated, "a rejected login must not touch last_login_at")
}
