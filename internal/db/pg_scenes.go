package db

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

func (s *pgStore) CreateScene(userID, name string) (model.Scene, error) {
	var sc model.Scene
	const q = `
	INSERT INTO scenes (id, user_id, name, created_at, updated_at)
	VALUES ($1, $2, $3, now(), now())
	RETURNING id, user_id, name, created_at, updated_at;`

	if err := s.db.Get(&sc, q, uuid.NewString(), userID, name); err != nil {
		log.Error().Err(err).Msg("failed to create scene")
		return model.Scene{}, err
	}
	return sc, nil
}

func (s *pgStore) GetSceneByID(id string) (*model.Scene, error) {
	var sc model.Scene
	err := s.db.Get(&sc, `
		SELECT id, user_id, name, created_at, updated_at
		FROM scenes
		WHERE id = $1
		`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *pgStore) ListScenes(userID *string) ([]model.Scene, error) {
	scenes := []model.Scene{}
	err := s.db.Select(&scenes, `
		SELECT id, user_id, name, created_at, updated_at
		FROM scenes
		WHERE ($1::text IS NULL OR user_id = $1)
		ORDER BY created_at DESC
		LIMIT 100
		`, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list scenes")
		return nil, err
	}
	return scenes, nil
}

func (s *pgStore) UpdateScene(id string, name *string) (*model.Scene, error) {
	var sc model.Scene
	err := s.db.Get(&sc, `
		UPDATE scenes
		SET name = COALESCE($2, name),
		updated_at = now()
		WHERE id = $1
		RETURNING id, user_id, name, created_at, updated_at;`,
		id, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to update scene")
		return nil, err
	}
	return &sc, nil
}
