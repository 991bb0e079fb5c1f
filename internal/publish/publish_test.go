package publish

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fresco-Signage-LLC/fresco/internal/db"
	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

type recordingNotifier struct {
	tokens []string
}

func (n *recordingNotifier) NotifyRefresh(deviceToken string) {
	n.tokens = append(n.tokens, deviceToken)
}

type fixture struct {
	store   db.Store
	monitor model.Monitor
	version model.Version
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store, err := db.NewDocumentStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	email := "admin@example.com"
	user, err := store.CreateUser(&email, nil)
	require.NoError(t, err)
	screen, err := store.CreateScreen(user.ID, "Lobby")
	require.NoError(t, err)
	version, err := store.InsertVersion(model.Version{
		Kind: model.KindScreen, ParentID: screen.ID,
		Version: 1, Status: model.StatusDraft,
		Content: types.JSONText(`{"orientation":"landscape","rows":1,"cols":1,"cells":[{"id":"0-0","sceneId":null}]}`),
	})
	require.NoError(t, err)
	monitor, err := store.CreateMonitor(user.ID, "Entrance", "device-token-1")
	require.NoError(t, err)

	return fixture{store: store, monitor: monitor, version: version}
}

func TestActivateAndResolveRoundTrip(t *testing.T) {
	f := newFixture(t)
	notifier := &recordingNotifier{}
	svc := NewService(f.store, notifier)

	publish, err := svc.Activate(f.monitor.ID, f.version.ID)
	require.NoError(t, err)
	assert.True(t, publish.IsActive)
	assert.Equal(t, []string{"device-token-1"}, notifier.tokens)

	resolved, err := svc.ResolveForDevice("device-token-1")
	require.NoError(t, err)
	assert.Equal(t, f.version.ID, resolved.ID)
	// the device receives the exact content that was saved
	assert.JSONEq(t, string(f.version.Content), string(resolved.Content))
	// publishing promoted the draft
	assert.Equal(t, model.StatusPublished, resolved.Status)
}

func TestActivateReplacesPreviousPublish(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.store, nil)

	v2, err := f.store.InsertVersion(model.Version{
		Kind: model.KindScreen, ParentID: f.version.ParentID,
		Version: 2, Status: model.StatusDraft,
		Content: types.JSONText(`{"orientation":"portrait","rows":1,"cols":1,"cells":[{"id":"0-0","sceneId":null}]}`),
	})
	require.NoError(t, err)

	_, err = svc.Activate(f.monitor.ID, f.version.ID)
	require.NoError(t, err)
	_, err = svc.Activate(f.monitor.ID, v2.ID)
	require.NoError(t, err)

	resolved, err := svc.ResolveForDevice("device-token-1")
	require.NoError(t, err)
	assert.Equal(t, v2.ID, resolved.ID)
}

func TestActivateMissingMonitor(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.store, nil)

	_, err := svc.Activate("missing-monitor", f.version.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestActivateMissingVersion(t *testing.T) {
	f := newFixture(t)
	notifier := &recordingNotifier{}
	svc := NewService(f.store, notifier)

	_, err := svc.Activate(f.monitor.ID, "missing-version")
	assert.ErrorIs(t, err, db.ErrNotFound)
	// nothing published, nothing notified
	assert.Empty(t, notifier.tokens)
	_, err = svc.ResolveForDevice("device-token-1")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestResolveUnknownToken(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.store, nil)

	_, err := svc.ResolveForDevice("never-registered")
	assert.ErrorIs(t, err, db.ErrNotFound)
}
