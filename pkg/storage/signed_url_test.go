package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadSignerRoundTrip(t *testing.T) {
	signer := NewDownloadSigner("round-trip-secret", time.Hour)

	token, expiresAt, err := signer.Generate("job-1", "2026/09/attendance-job-1.csv")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	jobID, relPath, parsedExp, err := signer.Parse(token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, "2026/09/attendance-job-1.csv", relPath)
	assert.Equal(t, expiresAt.Unix(), parsedExp.Unix())
}

func TestDownloadSignerRejectsTamperedToken(t *testing.T) {
	signer := NewDownloadSigner("round-trip-secret", time.Hour)

	token, _, err := signer.Generate("job-1", "2026/09/attendance-job-1.csv")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 4)
	parts[0] = "job-2"
	_, _, _, err = signer.Parse(strings.Join(parts, "."), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature mismatch")
}

func TestDownloadSignerRejectsForeignSecret(t *testing.T) {
	minted := NewDownloadSigner("secret-a", time.Hour)
	checker := NewDownloadSigner("secret-b", time.Hour)

	token, _, err := minted.Generate("job-1", "2026/09/attendance-job-1.csv")
	require.NoError(t, err)

	_, _, _, err = checker.Parse(token, false)
	require.Error(t, err)
}

func TestDownloadSignerExpiredToken(t *testing.T) {
	signer := &DownloadSigner{secret: []byte("round-trip-secret"), ttl: -time.Hour}

	token, _, err := signer.Generate("job-1", "2026/09/attendance-job-1.csv")
	require.NoError(t, err)

	_, _, _, err = signer.Parse(token, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")

	jobID, _, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
}

func TestDownloadSignerMalformedToken(t *testing.T) {
	signer := NewDownloadSigner("round-trip-secret", time.Hour)

	_, _, _, err := signer.Parse("not-a-token", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}
