package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
	"github.com/ateliersoft/atelier-backend/internal/modules/user"
)

const testSecret = "test-secret"

type fakeUserRepo struct {
	byEmail map[string]*user.User
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u *user.User) error {
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*user.User, error) {
	for _, u := range r.byEmail {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, &apperr.NotFoundError{Entity: "user", ID: id}
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, &apperr.NotFoundError{Entity: "user", ID: email}
	}
	return u, nil
}

func (r *fakeUserRepo) ListUsers(_ context.Context) ([]*user.User, error) { return nil, nil }

func (r *fakeUserRepo) UpdateRole(_ context.Context, _ string, _ user.Role) error { return nil }

func (r *fakeUserRepo) SetActive(_ context.Context, _ string, _ bool) error { return nil }

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, role user.Role, active bool) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     active,
	}
	repo.byEmail[email] = u
	return u
}

func TestLogin(t *testing.T) {
	repo := &fakeUserRepo{byEmail: map[string]*user.User{}}
	seeded := seedUser(t, repo, "anna@atelier.test", "correct-horse", user.RoleManager, true)
	svc := NewService(repo, testSecret)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email: "Anna@Atelier.test", Password: "correct-horse",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, seeded.ID, resp.UserID)
	assert.Equal(t, "MANAGER", resp.Role)
}

func TestLoginRejections(t *testing.T) {
	repo := &fakeUserRepo{byEmail: map[string]*user.User{}}
	seedUser(t, repo, "anna@atelier.test", "correct-horse", user.RoleManager, true)
	seedUser(t, repo, "gone@atelier.test", "whatever1", user.RoleCashier, false)
	svc := NewService(repo, testSecret)

	var verr *apperr.ValidationError

	_, err := svc.Login(context.Background(), LoginRequest{Email: "anna@atelier.test", Password: "wrong"})
	require.ErrorAs(t, err, &verr)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@atelier.test", Password: "whatever1"})
	require.ErrorAs(t, err, &verr)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "gone@atelier.test", Password: "whatever1"})
	require.ErrorAs(t, err, &verr)

	_, err = svc.Login(context.Background(), LoginRequest{})
	require.ErrorAs(t, err, &verr)
}

func TestVerifierRoundTrip(t *testing.T) {
	repo := &fakeUserRepo{byEmail: map[string]*user.User{}}
	seeded := seedUser(t, repo, "anna@atelier.test", "correct-horse", user.RoleManager, true)
	svc := NewService(repo, testSecret)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email: "anna@atelier.test", Password: "correct-horse",
	})
	require.NoError(t, err)

	var got Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := FromContext(r.Context())
		require.True(t, ok)
		got = p
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	Verifier(testSecret)(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, seeded.ID, got.UserID)
	assert.Equal(t, "MANAGER", got.Role)
}

func TestVerifierRejectsBadTokens(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	})
	mw := Verifier(testSecret)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifierRejectsWrongSecret(t *testing.T) {
	repo := &fakeUserRepo{byEmail: map[string]*user.User{}}
	seedUser(t, repo, "anna@atelier.test", "correct-horse", user.RoleManager, true)
	svc := NewService(repo, "other-secret")

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email: "anna@atelier.test", Password: "correct-horse",
	})
	require.NoError(t, err)

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	Verifier(testSecret)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
