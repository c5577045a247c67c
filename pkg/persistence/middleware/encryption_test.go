package middleware_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"io"
	"log/slog"
	"testing"

	"github.com/aretw0/gatlab/pkg/adapters/memory"
	"github.com/aretw0/gatlab/pkg/persistence/middleware"
	"github.com/aretw0/gatlab/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secure := mw(underlying)

	ctx := context.Background()
	term := []any{"compose", "f", []any{"id", "B"}, 3, true}

	require.NoError(t, secure.Save(ctx, "fg", term))

	stored, err := underlying.Load(ctx, "fg")
	require.NoError(t, err)
	envelope, ok := stored.([]any)
	require.True(t, ok)
	require.Len(t, envelope, 2)
	assert.Equal(t, "$encrypted", envelope[0])
	assert.NotContains(t, envelope[1], "compose")

	loaded, err := secure.Load(ctx, "fg")
	require.NoError(t, err)
	assert.Equal(t, term, loaded)

	names, err := secure.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fg"}, names)

	require.NoError(t, secure.Delete(ctx, "fg"))
	_, err = secure.Load(ctx, "fg")
	assert.ErrorIs(t, err, ports.ErrTermNotFound)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	old := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, old.Save(ctx, "f", []any{"id", "A"}))

	rotated := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)
	loaded, err := rotated.Load(ctx, "f")
	require.NoError(t, err)
	assert.Equal(t, []any{"id", "A"}, loaded)

	// Without the fallback the old ciphertext is unreadable.
	strict := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: newKey})(underlying)
	_, err = strict.Load(ctx, "f")
	assert.ErrorContains(t, err, "decryption failed")
}

func TestEncryptionMiddleware_RejectsPlainTerms(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "plain", []any{"id", "A"}))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Load(ctx, "plain")
	assert.ErrorContains(t, err, "missing encrypted data envelope")
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	})
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)

	got, err := middleware.ParseKey(hex.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	got, err = middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = middleware.ParseKey("deadbeef")
	assert.Error(t, err)
}

func TestChain_LoggingOutermost(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	store := middleware.Chain(memory.NewStore(),
		middleware.NewLoggingMiddleware(logger),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)

	require.NoError(t, store.Save(ctx, "g", []any{"id", "B"}))
	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrTermNotFound)

	out := buf.String()
	assert.Contains(t, out, "op=save")
	assert.Contains(t, out, "op=load")
	assert.NotContains(t, out, "level=WARN")
}
