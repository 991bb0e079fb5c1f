package media

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fresco-Signage-LLC/fresco/internal/db"
	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

type fakeBlobs struct {
	deleted   []string
	deleteErr error
}

func (f *fakeBlobs) SaveFile(file *multipart.FileHeader, filename string) (string, error) {
	return "/uploads/" + filename, nil
}

func (f *fakeBlobs) DeleteFile(fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return f.deleteErr
}

func newService(t *testing.T) (*Service, db.Store, *fakeBlobs, string) {
	t.Helper()
	store, err := db.NewDocumentStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	email := "admin@example.com"
	user, err := store.CreateUser(&email, nil)
	require.NoError(t, err)
	blobs := &fakeBlobs{}
	return NewService(store, blobs), store, blobs, user.ID
}

func imageAsset(userID string, name string, size int64) model.MediaAsset {
	return model.MediaAsset{
		UserID:   userID,
		FileURL:  "/uploads/" + name,
		FileName: name,
		FileSize: size,
		Type:     model.MediaTypeImage,
		MimeType: "image/png",
	}
}

const mib = int64(1) << 20

func TestRegisterWithinQuota(t *testing.T) {
	svc, _, _, userID := newService(t)

	asset, err := svc.Register(imageAsset(userID, "a.png", 10*mib))
	require.NoError(t, err)
	assert.NotEmpty(t, asset.ID)

	used, limit, err := svc.Usage(userID)
	require.NoError(t, err)
	assert.Equal(t, 10*mib, used)
	assert.Equal(t, LimitBytes, limit)
}

func TestRegisterOverQuotaRejectsAndPersistsNothing(t *testing.T) {
	svc, _, _, userID := newService(t)

	_, err := svc.Register(imageAsset(userID, "big.png", 900*mib))
	require.NoError(t, err)

	_, err = svc.Register(imageAsset(userID, "too-much.png", 200*mib))
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// the rejected asset left no trace
	assets, err := svc.List(userID)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "big.png", assets[0].FileName)

	used, _, err := svc.Usage(userID)
	require.NoError(t, err)
	assert.Equal(t, 900*mib, used)
}

func TestRegisterExactFitAccepted(t *testing.T) {
	svc, _, _, userID := newService(t)

	// used + incoming == limit is allowed; the cap is strictly greater-than
	_, err := svc.Register(imageAsset(userID, "full.bin", LimitBytes))
	require.NoError(t, err)

	_, err = svc.Register(imageAsset(userID, "one-more.png", 1))
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestQuotaIsPerUser(t *testing.T) {
	svc, store, _, userID := newService(t)
	email := "other@example.com"
	other, err := store.CreateUser(&email, nil)
	require.NoError(t, err)

	_, err = svc.Register(imageAsset(userID, "mine.png", LimitBytes))
	require.NoError(t, err)

	// another user's consumption does not count against this one
	_, err = svc.Register(imageAsset(other.ID, "theirs.png", LimitBytes))
	require.NoError(t, err)
}

func TestDeleteRemovesRecordAndBlob(t *testing.T) {
	svc, _, blobs, userID := newService(t)

	asset, err := svc.Register(imageAsset(userID, "a.png", mib))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(userID, asset.ID))
	assert.Equal(t, []string{asset.FileURL}, blobs.deleted)

	assets, err := svc.List(userID)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestDeleteBlobFailureIsSwallowed(t *testing.T) {
	svc, _, blobs, userID := newService(t)
	blobs.deleteErr = errors.New("bucket unavailable")

	asset, err := svc.Register(imageAsset(userID, "a.png", mib))
	require.NoError(t, err)

	// record deletion stands even when the blob delete fails
	require.NoError(t, svc.Delete(userID, asset.ID))
	assets, err := svc.List(userID)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	svc, store, blobs, userID := newService(t)
	email := "other@example.com"
	other, err := store.CreateUser(&email, nil)
	require.NoError(t, err)

	asset, err := svc.Register(imageAsset(userID, "a.png", mib))
	require.NoError(t, err)

	err = svc.Delete(other.ID, asset.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)

	// nothing was removed
	assert.Empty(t, blobs.deleted)
	assets, err := svc.List(userID)
	require.NoError(t, err)
	assert.Len(t, assets, 1)
}
