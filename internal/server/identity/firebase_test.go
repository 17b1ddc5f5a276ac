package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apponta/apponta-server/internal/common"
	"github.com/stretchr/testify/require"
)

func fbError(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": code}})
}

func TestFirebaseCreateAccount_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts:signUp", r.URL.Path)
		require.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "ana@x.com", body["email"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"localId": "uid-1", "email": "ana@x.com", "idToken": "tok-1",
		})
	}))
	defer srv.Close()

	p := NewFirebaseProvider(srv.URL, "test-key", time.Second)

	acc, err := p.CreateAccount(context.Background(), "ana@x.com", "pw123")
	require.NoError(t, err)
	require.Equal(t, "uid-1", acc.ExternalID)
	require.Equal(t, "tok-1", acc.RemovalToken)
}

func TestFirebaseCreateAccount_EmailExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fbError(w, http.StatusBadRequest, "EMAIL_EXISTS")
	}))
	defer srv.Close()

	p := NewFirebaseProvider(srv.URL, "k", time.Second)

	_, err := p.CreateAccount(context.Background(), "ana@x.com", "pw123")
	require.ErrorIs(t, err, common.ErrorIdentity)
}

func TestFirebaseCreateAccount_WeakPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fbError(w, http.StatusBadRequest, "WEAK_PASSWORD : Password should be at least 6 characters")
	}))
	defer srv.Close()

	p := NewFirebaseProvider(srv.URL, "k", time.Second)

	_, err := p.CreateAccount(context.Background(), "ana@x.com", "p")
	require.ErrorIs(t, err, common.ErrorIdentity)
}

func TestFirebaseVerifyCredentials_InvalidLogin(t *testing.T) {
	for _, code := range []string{"EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS"} {
		t.Run(code, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fbError(w, http.StatusBadRequest, code)
			}))
			defer srv.Close()

			p := NewFirebaseProvider(srv.URL, "k", time.Second)

			_, err := p.VerifyCredentials(context.Background(), "ana@x.com", "pw123")
			require.ErrorIs(t, err, common.ErrorUnauthorized,
				"every sign-in refusal must map to the same error kind")
		})
	}
}

func TestFirebaseVerifyCredentials_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"localId": "uid-1", "email": "ana@x.com"})
	}))
	defer srv.Close()

	p := NewFirebaseProvider(srv.URL, "k", time.Second)

	acc, err := p.VerifyCredentials(context.Background(), "ana@x.com", "pw123")
	require.NoError(t, err)
	require.Equal(t, "uid-1", acc.ExternalID)
}

func TestFirebaseCall_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	p := NewFirebaseProvider(srv.URL, "k", 20*time.Millisecond)

	_, err := p.CreateAccount(context.Background(), "ana@x.com", "pw123")
	require.ErrorIs(t, err, common.ErrorTimeout)
}

func TestFirebaseRemoveAccount(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts:delete", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotToken, _ = body["idToken"].(string)
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer srv.Close()

	p := NewFirebaseProvider(srv.URL, "k", time.Second)

	err := p.RemoveAccount(context.Background(), &Account{ExternalID: "uid-1", Email: "ana@x.com", RemovalToken: "tok-1"})
	require.NoError(t, err)
	require.Equal(t, "tok-1", gotToken)
}

func TestFirebaseRemoveAccount_NoToken(t *testing.T) {
	p := NewFirebaseProvider("http://unused", "k", time.Second)

	err := p.RemoveAccount(context.Background(), &Account{ExternalID: "uid-1"})
	require.ErrorIs(t, err, common.ErrorConsistency)
}
