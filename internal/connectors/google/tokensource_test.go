package google

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

type staticProvider struct {
	token string
	err   error
}

func (p staticProvider) GetToken(context.Context) (string, error) { return p.token, p.err }
func (p staticProvider) Principal() string                        { return "svc@example.iam.gserviceaccount.com" }
func (p staticProvider) IsAuthenticated() bool                    { return p.err == nil }

func TestTokenSourceAdapter(t *testing.T) {
	ts := NewTokenSource(context.Background(), staticProvider{token: "ya29.abc"})

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "ya29.abc", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
}

func TestTokenSourceAdapter_Errors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewTokenSource(context.Background(), staticProvider{err: boom}).Token()
	assert.ErrorIs(t, err, boom)

	_, err = NewTokenSource(context.Background(), staticProvider{}).Token()
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
