package db

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

func newTestDocStore(t *testing.T) (Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	store, err := NewDocumentStore(path)
	require.NoError(t, err)
	return store, path
}

func seedUser(t *testing.T, store Store) model.User {
	t.Helper()
	email := "admin@example.com"
	user, err := store.CreateUser(&email, nil)
	require.NoError(t, err)
	return user
}

func strPtr(s string) *string { return &s }

func TestDocumentUserRoundTrip(t *testing.T) {
	store, _ := newTestDocStore(t)

	user := seedUser(t, store)

	got, err := store.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// email lookup is an exact match, same as the relational backend
	got, err = store.GetUserByEmail("admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	_, err = store.GetUserByEmail("ADMIN@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetUserByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := store.UpdateUserProfile(user.ID, strPtr("new@example.com"))
	require.NoError(t, err)
	require.NotNil(t, updated.Email)
	assert.Equal(t, "new@example.com", *updated.Email)
}

func TestDocumentScreenCRUD(t *testing.T) {
	store, _ := newTestDocStore(t)
	user := seedUser(t, store)
	other := seedUser(t, store)

	screen, err := store.CreateScreen(user.ID, "Lobby")
	require.NoError(t, err)
	_, err = store.CreateScreen(other.ID, "Cafeteria")
	require.NoError(t, err)

	mine, err := store.ListScreens(&user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Lobby", mine[0].Name)

	all, err := store.ListScreens(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	renamed, err := store.UpdateScreen(screen.ID, strPtr("Lobby West"))
	require.NoError(t, err)
	assert.Equal(t, "Lobby West", renamed.Name)

	_, err = store.UpdateScreen("missing", strPtr("x"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentDuplicateScreenCopiesRowOnly(t *testing.T) {
	store, _ := newTestDocStore(t)
	user := seedUser(t, store)

	screen, err := store.CreateScreen(user.ID, "Lobby")
	require.NoError(t, err)
	_, err = store.InsertVersion(model.Version{
		Kind: model.KindScreen, ParentID: screen.ID,
		Version: 1, Status: model.StatusDraft, Content: types.JSONText(`{}`),
	})
	require.NoError(t, err)

	dup, err := store.DuplicateScreen(screen.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lobby (Copy)", dup.Name)
	assert.Equal(t, user.ID, dup.UserID)
	assert.NotEqual(t, screen.ID, dup.ID)

	// versions stay with the original
	versions, err := store.ListVersions(model.KindScreen, dup.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestDocumentPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	store, err := NewDocumentStore(path)
	require.NoError(t, err)

	user := seedUser(t, store)
	screen, err := store.CreateScreen(user.ID, "Lobby")
	require.NoError(t, err)
	inserted, err := store.InsertVersion(model.Version{
		Kind: model.KindScreen, ParentID: screen.ID,
		Version: 1, Status: model.StatusDraft,
		Title:   strPtr("Draft"),
		Content: types.JSONText(`{"orientation":"landscape","rows":1,"cols":1,"cells":[{"id":"0-0","sceneId":null}]}`),
	})
	require.NoError(t, err)

	reopened, err := NewDocumentStore(path)
	require.NoError(t, err)

	got, err := reopened.GetVersionByID(model.KindScreen, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, model.KindScreen, got.Kind)
	assert.Equal(t, screen.ID, got.ParentID)
	assert.JSONEq(t, string(inserted.Content), string(got.Content))
}

func TestDocumentVersionsDispatchByKind(t *testing.T) {
	store, _ := newTestDocStore(t)
	user := seedUser(t, store)

	screen, err := store.CreateScreen(user.ID, "Lobby")
	require.NoError(t, err)
	scene, err := store.CreateScene(user.ID, "Welcome")
	require.NoError(t, err)

	sv, err := store.InsertVersion(model.Version{
		Kind: model.KindScreen, ParentID: screen.ID,
		Version: 1, Status: model.StatusDraft, Title: strPtr("Draft"),
		Content: types.JSONText(`{}`),
	})
	require.NoError(t, err)
	cv, err := store.InsertVersion(model.Version{
		Kind: model.KindScene, ParentID: scene.ID,
		Version: 1, Status: model.StatusDraft, Title: strPtr("ignored"),
		Content: types.JSONText(`{"timeline":[]}`),
	})
	require.NoError(t, err)

	// scene versions have no title column
	assert.Nil(t, cv.Title)

	_, err = store.GetVersionByID(model.KindScene, sv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := store.GetVersionByID(model.KindScreen, sv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.KindScreen, got.Kind)

	exists, err := store.ParentExists(model.KindScene, scene.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = store.ParentExists(model.KindScene, screen.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDocumentActivatePublish(t *testing.T) {
	store, _ := newTestDocStore(t)
	user := seedUser(t, store)

	screen, err := store.CreateScreen(user.ID, "Lobby")
	require.NoError(t, err)
	v1, err := store.InsertVersion(model.Version{
		Kind: model.KindScreen, ParentID: screen.ID,
		Version: 1, Status: model.StatusDraft, Content: types.JSONText(`{}`),
	})
	require.NoError(t, err)
	v2, err := store.InsertVersion(model.Version{
		Kind: model.KindScreen, ParentID: screen.ID,
		Version: 2, Status: model.StatusDraft, Content: types.JSONText(`{}`),
	})
	require.NoError(t, err)
	monitor, err := store.CreateMonitor(user.ID, "Entrance", "token-1")
	require.NoError(t, err)

	first, err := store.ActivatePublish(monitor.ID, v1.ID)
	require.NoError(t, err)
	assert.True(t, first.IsActive)

	// publishing promotes the draft
	promoted, err := store.GetVersionByID(model.KindScreen, v1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, promoted.Status)

	second, err := store.ActivatePublish(monitor.ID, v2.ID)
	require.NoError(t, err)

	active, err := store.GetActivePublishForMonitor(monitor.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, v2.ID, active.ScreenVersionID)
}

func TestDocumentResolveActiveVersionForDevice(t *testing.T) {
	store, _ := newTestDocStore(t)
	user := seedUser(t, store)

	screen, err := store.CreateScreen(user.ID, "Lobby")
	require.NoError(t, err)
	version, err := store.InsertVersion(model.Version{
		Kind: model.KindScreen, ParentID: screen.ID,
		Version: 1, Status: model.StatusDraft,
		Content: types.JSONText(`{"orientation":"portrait","rows":1,"cols":1,"cells":[{"id":"0-0","sceneId":null}]}`),
	})
	require.NoError(t, err)
	monitor, err := store.CreateMonitor(user.ID, "Entrance", "token-1")
	require.NoError(t, err)

	// no active publish yet
	_, err = store.ResolveActiveVersionForDevice("token-1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.ActivatePublish(monitor.ID, version.ID)
	require.NoError(t, err)

	got, err := store.ResolveActiveVersionForDevice("token-1")
	require.NoError(t, err)
	assert.Equal(t, version.ID, got.ID)
	assert.JSONEq(t, string(version.Content), string(got.Content))

	_, err = store.ResolveActiveVersionForDevice("unknown-token")
	assert.ErrorIs(t, err, ErrNotFound)

	// dangling version reference resolves to NotFound, not an error 500
	_, err = store.ActivatePublish(monitor.ID, "deleted-version")
	require.NoError(t, err)
	_, err = store.ResolveActiveVersionForDevice("token-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentMediaAssets(t *testing.T) {
	store, _ := newTestDocStore(t)
	user := seedUser(t, store)

	asset, err := store.CreateMediaAsset(model.MediaAsset{
		UserID:   user.ID,
		FileURL:  "/uploads/a.png",
		FileName: "a.png",
		FileSize: 1024,
		Type:     model.MediaTypeImage,
		MimeType: "image/png",
	})
	require.NoError(t, err)
	require.NotEmpty(t, asset.ID)

	sum, err := store.SumMediaBytes(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), sum)

	require.NoError(t, store.DeleteMediaAsset(asset.ID))
	assert.ErrorIs(t, store.DeleteMediaAsset(asset.ID), ErrNotFound)

	sum, err = store.SumMediaBytes(user.ID)
	require.NoError(t, err)
	assert.Zero(t, sum)
}
