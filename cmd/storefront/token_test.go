package main

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youta-t/flarc"

	"github.com/shanedle/cipher-cart/internal/identity"
	"github.com/shanedle/cipher-cart/pkg/config"
	"github.com/shanedle/cipher-cart/pkg/logger"
)

func TestMintToken(t *testing.T) {
	cfg := config.Config{Session: config.SessionConfig{Secret: "s3cret", Issuer: "cipher-cart"}}

	t.Run("missing user -> usage error", func(t *testing.T) {
		err := mintToken(io.Discard, cfg, tokenFlags{TTL: time.Hour})
		assert.ErrorIs(t, err, flarc.ErrUsage)
	})

	t.Run("missing secret -> error", func(t *testing.T) {
		err := mintToken(io.Discard, config.Config{}, tokenFlags{User: "user_1", TTL: time.Hour})
		assert.Error(t, err)
	})

	t.Run("token verifies", func(t *testing.T) {
		var out strings.Builder
		require.NoError(t, mintToken(&out, cfg, tokenFlags{User: "user_1", Name: "Ada", Email: "ada@example.com", TTL: time.Hour}))

		u, err := identity.NewVerifier([]byte("s3cret"), "cipher-cart").Verify(strings.TrimSpace(out.String()))
		require.NoError(t, err)
		assert.Equal(t, "user_1", u.ID)
		assert.Equal(t, "Ada", u.FullName)
		assert.Equal(t, "ada@example.com", u.PrimaryEmail)
	})
}

func TestNewCommand(t *testing.T) {
	_, err := newCommand(config.Config{}, logger.Discard())
	assert.NoError(t, err)
}
