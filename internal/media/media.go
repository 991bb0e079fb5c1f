// Package media enforces the per-user storage quota and manages asset
// records alongside their blobs.
package media

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Fresco-Signage-LLC/fresco/internal/db"
	"github.com/Fresco-Signage-LLC/fresco/internal/model"
	"github.com/Fresco-Signage-LLC/fresco/internal/storage"
)

// LimitBytes is the fixed per-user ceiling on summed media file sizes.
const LimitBytes int64 = 1 << 30 // 1 GiB

// ErrQuotaExceeded rejects a media write that would push the user over the
// cap. Nothing is persisted on rejection.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Store is the slice of the record store the media service needs.
type Store interface {
	CreateMediaAsset(asset model.MediaAsset) (model.MediaAsset, error)
	GetMediaAssetByID(id string) (*model.MediaAsset, error)
	ListMediaAssets(userID *string) ([]model.MediaAsset, error)
	DeleteMediaAsset(id string) error
	SumMediaBytes(userID string) (int64, error)
}

type Service struct {
	store Store
	blobs storage.Storage
}

func NewService(store Store, blobs storage.Storage) *Service {
	return &Service{store: store, blobs: blobs}
}

// Usage reports the user's consumed bytes against the fixed limit.
func (s *Service) Usage(userID string) (usedBytes, limitBytes int64, err error) {
	used, err := s.store.SumMediaBytes(userID)
	if err != nil {
		return 0, 0, err
	}
	return used, LimitBytes, nil
}

// CheckQuota rejects when used + incoming would exceed the cap. The check
// and the subsequent insert are not atomic against concurrent writers for
// the same user; callers needing strict accounting must serialize per user.
func (s *Service) CheckQuota(userID string, incomingBytes int64) error {
	used, err := s.store.SumMediaBytes(userID)
	if err != nil {
		return err
	}
	if used+incomingBytes > LimitBytes {
		return fmt.Errorf("%w: %d used + %d incoming > %d limit", ErrQuotaExceeded, used, incomingBytes, LimitBytes)
	}
	return nil
}

// Register records an already-stored media object, quota-gated.
func (s *Service) Register(asset model.MediaAsset) (model.MediaAsset, error) {
	if err := s.CheckQuota(asset.UserID, asset.FileSize); err != nil {
		return model.MediaAsset{}, err
	}
	return s.store.CreateMediaAsset(asset)
}

// Delete removes the asset record, then best-effort-deletes the blob. A
// failed blob delete is logged and swallowed; the record deletion stands.
func (s *Service) Delete(userID, mediaID string) error {
	asset, err := s.store.GetMediaAssetByID(mediaID)
	if err != nil {
		return err
	}
	if asset.UserID != userID {
		return db.ErrNotFound
	}

	if err := s.store.DeleteMediaAsset(mediaID); err != nil {
		return err
	}

	if err := s.blobs.DeleteFile(asset.FileURL); err != nil {
		log.Warn().Err(err).Str("file_url", asset.FileURL).Msg("best-effort blob delete failed")
	}
	return nil
}

func (s *Service) List(userID string) ([]model.MediaAsset, error) {
	return s.store.ListMediaAssets(&userID)
}

var _ Store = (db.Store)(nil)
