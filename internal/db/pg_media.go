package db

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

func (s *pgStore) CreateMediaAsset(asset model.MediaAsset) (model.MediaAsset, error) {
	var a model.MediaAsset
	const q = `
	INSERT INTO media_assets
	(id, user_id, file_url, file_name, file_size, type, mime_type, duration_ms, created_at)
	VALUES
	($1, $2, $3, $4, $5, $6, $7, $8, now())
	RETURNING
	id, user_id, file_url, file_name, file_size, type, mime_type, duration_ms, created_at;`

	if err := s.db.Get(&a, q,
		uuid.NewString(),
		asset.UserID,
		asset.FileURL,
		asset.FileName,
		asset.FileSize,
		asset.Type,
		asset.MimeType,
		asset.DurationMs,
	); err != nil {
		log.Error().Err(err).Msg("failed to create media asset")
		return model.MediaAsset{}, err
	}
	return a, nil
}

func (s *pgStore) GetMediaAssetByID(id string) (*model.MediaAsset, error) {
	var a model.MediaAsset
	err := s.db.Get(&a, `
		SELECT id, user_id, file_url, file_name, file_size, type, mime_type, duration_ms, created_at
		FROM media_assets
		WHERE id = $1
		`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *pgStore) ListMediaAssets(userID *string) ([]model.MediaAsset, error) {
	assets := []model.MediaAsset{}
	err := s.db.Select(&assets, `
		SELECT id, user_id, file_url, file_name, file_size, type, mime_type, duration_ms, created_at
		FROM media_assets
		WHERE ($1::text IS NULL OR user_id = $1)
		ORDER BY created_at DESC
		LIMIT 100
		`, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list media assets")
		return nil, err
	}
	return assets, nil
}

func (s *pgStore) DeleteMediaAsset(id string) error {
	res, err := s.db.Exec(`DELETE FROM media_assets WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete media asset")
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStore) SumMediaBytes(userID string) (int64, error) {
	var total int64
	err := s.db.Get(&total, `
		SELECT COALESCE(SUM(file_size), 0)
		FROM media_assets
		WHERE user_id = $1
		`, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to sum media bytes")
		return 0, err
	}
	return total, nil
}
