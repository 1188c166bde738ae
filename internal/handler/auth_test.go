package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
)

type fakeUserStore struct {
	byEmail map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*domain.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return domain.ErrEmailTaken
	}
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func newAuthHandler(users userStore) *AuthHandler {
	return NewAuthHandler(users, "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserStore()
	h := newAuthHandler(users)

	body := `{"email":"Alice@Example.com","name":"Alice","password":"correct-horse"}`
	w := httptest.NewRecorder()
	h.Register(w, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "alice@example.com", data["user"].(map[string]any)["email"])

	login := `{"email":"alice@example.com","password":"correct-horse"}`
	w = httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(login)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeResponse(t, w).Data.(map[string]any)["token"])
}

func TestRegisterValidation(t *testing.T) {
	h := newAuthHandler(newFakeUserStore())

	body := `{"email":"not-an-email","name":"","password":"short"}`
	w := httptest.NewRecorder()
	h.Register(w, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	assert.Len(t, resp.Error.Details, 3)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newAuthHandler(newFakeUserStore())

	body := `{"email":"bob@example.com","name":"Bob","password":"correct-horse"}`
	w := httptest.NewRecorder()
	h.Register(w, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	h.Register(w, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_TAKEN", decodeResponse(t, w).Error.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)
	users.byEmail["carol@example.com"] = &domain.User{
		Email: "carol@example.com", Name: "Carol", PasswordHash: string(hash),
	}
	h := newAuthHandler(users)

	body := `{"email":"carol@example.com","password":"wrong"}`
	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeResponse(t, w).Error.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	h := newAuthHandler(newFakeUserStore())

	body := `{"email":"nobody@example.com","password":"whatever"}`
	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeResponse(t, w).Error.Code)
}
