package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

func serviceAccountKey(t *testing.T, tokenURL string) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	data, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     "leadsheet-test",
		"private_key_id": "kid-1",
		"private_key":    string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})),
		"client_email":   "sheets-bot@leadsheet-test.iam.gserviceaccount.com",
		"client_id":      "1234",
		"token_uri":      tokenURL,
	})
	require.NoError(t, err)
	return data
}

func TestServiceAccountProvider_GetToken(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "urn:ietf:params:oauth:grant-type:jwt-bearer", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"ya29.test","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	p, err := NewServiceAccountProviderFromJSON(context.Background(), serviceAccountKey(t, srv.URL))
	require.NoError(t, err)
	assert.True(t, p.IsAuthenticated())
	assert.Equal(t, "sheets-bot@leadsheet-test.iam.gserviceaccount.com", p.Principal())

	for range 3 {
		tok, err := p.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ya29.test", tok)
	}
	assert.Equal(t, int32(1), calls.Load(), "token is reused until expiry")
}

func TestServiceAccountProvider_TokenEndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	p, err := NewServiceAccountProviderFromJSON(context.Background(), serviceAccountKey(t, srv.URL))
	require.NoError(t, err)

	_, err = p.GetToken(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestNewServiceAccountProvider_FileErrors(t *testing.T) {
	_, err := NewServiceAccountProvider(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	_, err = NewServiceAccountProvider(context.Background(), bad)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
