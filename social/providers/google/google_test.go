package google_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikkinicholasromero/chat-service/social"
	"github.com/nikkinicholasromero/chat-service/social/providers/google"
)

func signedIDToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte("google-side-secret"))
	require.NoError(t, err)
	return raw
}

func TestGoogleProfile(t *testing.T) {
	t.Run("exchanges the code and reads the id_token claims", func(t *testing.T) {
		idToken := signedIDToken(t, jwt.MapClaims{
			"email":       "nikki@gmail.com",
			"given_name":  "Nikki",
			"family_name": "Romero",
		})

		var gotForm map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotForm = map[string]string{
				"code":       r.PostFormValue("code"),
				"grant_type": r.PostFormValue("grant_type"),
				"client_id":  r.PostFormValue("client_id"),
			}
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "at",
				"id_token":     idToken,
			})
		}))
		defer server.Close()

		provider := google.New(google.Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURI:  "https://chat.example/callback",
			TokenURL:     server.URL,
		})

		profile, err := provider.Profile(context.Background(), "auth-code")
		require.NoError(t, err)
		assert.Equal(t, &social.Profile{
			Email:     "nikki@gmail.com",
			FirstName: "Nikki",
			LastName:  "Romero",
		}, profile)

		assert.Equal(t, "auth-code", gotForm["code"])
		assert.Equal(t, "authorization_code", gotForm["grant_type"])
		assert.Equal(t, "client-id", gotForm["client_id"])
	})

	t.Run("fails when the token endpoint rejects the code", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
		}))
		defer server.Close()

		provider := google.New(google.Config{TokenURL: server.URL})

		_, err := provider.Profile(context.Background(), "bad-code")
		require.Error(t, err)

		var providerErr *social.ProviderError
		require.ErrorAs(t, err, &providerErr)
		assert.Equal(t, "google", providerErr.Provider)
		assert.Equal(t, http.StatusBadRequest, providerErr.Status)
	})

	t.Run("fails when the response carries no id_token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"access_token": "at"})
		}))
		defer server.Close()

		provider := google.New(google.Config{TokenURL: server.URL})

		_, err := provider.Profile(context.Background(), "auth-code")
		assert.Error(t, err)
	})

	t.Run("fails when the id_token carries no email", func(t *testing.T) {
		idToken := signedIDToken(t, jwt.MapClaims{"given_name": "Nikki"})

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"id_token": idToken})
		}))
		defer server.Close()

		provider := google.New(google.Config{TokenURL: server.URL})

		_, err := provider.Profile(context.Background(), "auth-code")
		assert.Error(t, err)
	})

	t.Run("name defaults", func(t *testing.T) {
		provider := google.New(google.Config{})
		assert.Equal(t, "google", provider.Name())
	})
}
