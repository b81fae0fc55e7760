package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("exp-1", "users/exp-1.xlsx")
	require.NoError(t, err)

	ticket, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "exp-1", ticket.ExportID)
	assert.Equal(t, "users/exp-1.xlsx", ticket.File)
	assert.True(t, expiresAt.Equal(ticket.ExpiresAt))
}

func TestSignerRejectsTamperingAndExpiry(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	token, _, err := signer.Generate("exp-1", "users/exp-1.csv")
	require.NoError(t, err)

	other := NewSignedURLSigner("other", time.Minute)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrBadSignature)

	_, err = signer.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrMalformedToken)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	ticket, err := signer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, "exp-1", ticket.ExportID)
}

func TestSignerDerivesKeyFromSecret(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	assert.Len(t, signer.secret, 32)
	assert.NotEqual(t, []byte("secret"), signer.secret)

	empty := NewSignedURLSigner("", time.Minute)
	_, _, err := empty.Generate("exp-1", "users/exp-1.csv")
	assert.Error(t, err)
}

func TestLocalStorageLifecycle(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("partners/report.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "partners/report.pdf", name)

	f, err := store.Open(name)
	require.NoError(t, err)
	body, err := io.ReadAll(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(body))

	_, err = store.Save("../escape.csv", []byte("x"))
	assert.ErrorIs(t, err, ErrOutsideRoot)

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(store.Root(), "partners", "report.pdf"), old, old))
	removed, err := store.CleanupOlderThan(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"partners/report.pdf"}, removed)

	assert.NoError(t, store.Delete(name))
}
