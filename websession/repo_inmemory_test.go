package websession_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	weberrors "github.com/sweetshoplabs/sweetshop-web/internal/errors"
	"github.com/sweetshoplabs/sweetshop-web/websession"
)

func TestInMemoryRepo_UpsertGetDelete(t *testing.T) {
	repo := websession.NewInMemoryRepo()

	sess := &websession.Session{ID: "sid-1"}
	require.NoError(t, repo.Upsert(sess.ID, sess))

	got, err := repo.Get("sid-1")
	require.NoError(t, err)
	require.Same(t, sess, got)

	require.NoError(t, repo.Delete("sid-1"))
	_, err = repo.Get("sid-1")
	require.ErrorIs(t, err, weberrors.ErrSessionNotFound)
}

func TestInMemoryRepo_RequiresSessionID(t *testing.T) {
	repo := websession.NewInMemoryRepo()

	require.Error(t, repo.Upsert("", &websession.Session{}))
	require.Error(t, repo.Upsert("sid-1", nil))

	_, err := repo.Get("")
	require.Error(t, err)
	require.Error(t, repo.Delete(""))
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	sess := &websession.Session{ExpiresAt: now.Add(time.Hour)}
	require.False(t, sess.Expired(now))
	require.True(t, sess.Expired(now.Add(2*time.Hour)))
}

func TestSession_TouchSlidesExpiry(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sess := &websession.Session{CreatedAt: start, ExpiresAt: start.Add(time.Hour)}

	// Activity 50 minutes in restarts the hour.
	sess.Touch(start.Add(50*time.Minute), time.Hour)

	require.False(t, sess.Expired(start.Add(100*time.Minute)))
	require.True(t, sess.Expired(start.Add(111*time.Minute)))
}
