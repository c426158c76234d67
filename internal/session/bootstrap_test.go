package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splittab/splittab/internal/api"
	"github.com/splittab/splittab/internal/models"
)

// ledgerStub serves /token and /users/me, accepting only validTokens and
// counting requests so tests can assert which calls hit the network.
type ledgerStub struct {
	validTokens map[string]models.User
	requests    atomic.Int64
}

func (s *ledgerStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		user, ok := s.validTokens[token]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
			return
		}
		json.NewEncoder(w).Encode(user)
	})
	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req api.RegisterRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email == "" || req.Password == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid registration"})
			return
		}
		user := models.User{ID: 99, Email: req.Email, Username: req.Username, FullName: req.FullName}
		s.validTokens["fresh-token"] = user
		json.NewEncoder(w).Encode(user)
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		r.ParseForm()
		if r.PostFormValue("password") != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "fresh-token",
			"token_type":   "bearer",
		})
	})
	return mux
}

func newTestManager(t *testing.T, stub *ledgerStub) (*Manager, *Store) {
	t.Helper()

	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	tempDir, err := os.MkdirTemp("", "splittab-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := NewStore(filepath.Join(tempDir, "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	client := api.New(server.URL, 5*time.Second)
	return NewManager(client, store), store
}

func TestBootstrap_CallbackTokenWinsOverStored(t *testing.T) {
	stub := &ledgerStub{validTokens: map[string]models.User{
		"callback-token": {ID: 1, Username: "alice"},
		"stored-token":   {ID: 2, Username: "bob"},
	}}
	mgr, store := newTestManager(t, stub)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "stored-token", nil))

	sess := mgr.Bootstrap(ctx, "callback-token")
	require.True(t, sess.Authenticated())
	assert.Equal(t, "alice", sess.User.Username, "callback token identity wins")

	// The callback token replaced the stored one.
	token, user, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "callback-token", token)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
}

func TestBootstrap_StoredTokenHydrates(t *testing.T) {
	stub := &ledgerStub{validTokens: map[string]models.User{
		"stored-token": {ID: 2, Username: "bob"},
	}}
	mgr, store := newTestManager(t, stub)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "stored-token", nil))

	sess := mgr.Bootstrap(ctx, "")
	require.True(t, sess.Authenticated())
	assert.Equal(t, "bob", sess.User.Username)
}

func TestBootstrap_InvalidTokenResolvesAnonymousAndClears(t *testing.T) {
	stub := &ledgerStub{validTokens: map[string]models.User{}}
	mgr, store := newTestManager(t, stub)
	ctx := context.Background()

	for _, source := range []struct {
		name     string
		callback string
		stored   string
	}{
		{name: "stored", stored: "revoked-token"},
		{name: "callback", callback: "bogus-token"},
	} {
		t.Run(source.name, func(t *testing.T) {
			if source.stored != "" {
				require.NoError(t, store.Save(ctx, source.stored, nil))
			}

			sess := mgr.Bootstrap(ctx, source.callback)
			assert.False(t, sess.Authenticated(), "never half-authenticated")

			token, user, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, token, "failed hydration clears the stored token")
			assert.Nil(t, user)
		})
	}
}

func TestBootstrap_NoTokenIsAnonymousWithoutNetwork(t *testing.T) {
	stub := &ledgerStub{}
	mgr, _ := newTestManager(t, stub)

	sess := mgr.Bootstrap(context.Background(), "")
	assert.False(t, sess.Authenticated())
	assert.Zero(t, stub.requests.Load())
}

func TestBootstrap_ExpiredJWTSkipsHydration(t *testing.T) {
	stub := &ledgerStub{}
	mgr, store := newTestManager(t, stub)
	ctx := context.Background()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, signed, nil))

	sess := mgr.Bootstrap(ctx, "")
	assert.False(t, sess.Authenticated())
	assert.Zero(t, stub.requests.Load(), "certainly-expired token needs no hydration attempt")

	token, _, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestRegister_CreatesAccountAndLogsIn(t *testing.T) {
	stub := &ledgerStub{validTokens: map[string]models.User{}}
	mgr, store := newTestManager(t, stub)
	ctx := context.Background()

	sess, err := mgr.Register(ctx, api.RegisterRequest{
		Email:    "dave@example.com",
		Username: "dave",
		FullName: "Dave",
		Password: "hunter2",
	})
	require.NoError(t, err)
	require.True(t, sess.Authenticated())
	assert.Equal(t, "dave", sess.User.Username)

	// Registration logs the new account in and persists the session.
	token, user, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
	require.NotNil(t, user)
	assert.Equal(t, "dave@example.com", user.Email)
}

func TestRegister_FailureStaysAnonymous(t *testing.T) {
	stub := &ledgerStub{validTokens: map[string]models.User{}}
	mgr, _ := newTestManager(t, stub)

	_, err := mgr.Register(context.Background(), api.RegisterRequest{Username: "incomplete"})
	require.Error(t, err)
	assert.False(t, mgr.Current().Authenticated())
}

func TestUpdateUser_PersistsWithSameToken(t *testing.T) {
	stub := &ledgerStub{validTokens: map[string]models.User{
		"fresh-token": {ID: 3, Username: "carol", FullName: "Carol"},
	}}
	mgr, store := newTestManager(t, stub)
	ctx := context.Background()

	sess, err := mgr.Login(ctx, "carol@example.com", "hunter2")
	require.NoError(t, err)

	updated := *sess.User
	updated.FullName = "Caroline"
	mgr.UpdateUser(ctx, &updated)

	assert.Equal(t, "Caroline", mgr.Current().User.FullName)
	token, user, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token, "profile edits never touch the token")
	require.NotNil(t, user)
	assert.Equal(t, "Caroline", user.FullName)
}

func TestLoginAndLogout(t *testing.T) {
	stub := &ledgerStub{validTokens: map[string]models.User{
		"fresh-token": {ID: 3, Username: "carol"},
	}}
	mgr, store := newTestManager(t, stub)
	ctx := context.Background()

	_, err := mgr.Login(ctx, "carol@example.com", "wrong")
	require.Error(t, err)
	assert.False(t, mgr.Current().Authenticated())

	sess, err := mgr.Login(ctx, "carol@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "carol", sess.User.Username)

	token, _, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)

	mgr.Logout(ctx)
	assert.False(t, mgr.Current().Authenticated())
	token, user, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}
