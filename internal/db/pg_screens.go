package db

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

func (s *pgStore) CreateScreen(userID, name string) (model.Screen, error) {
	var sc model.Screen
	const q = `
	INSERT INTO screens (id, user_id, name, created_at, updated_at)
	VALUES ($1, $2, $3, now(), now())
	RETURNING id, user_id, name, created_at, updated_at;`

	if err := s.db.Get(&sc, q, uuid.NewString(), userID, name); err != nil {
		log.Error().Err(err).Msg("failed to create screen")
		return model.Screen{}, err
	}
	return sc, nil
}

func (s *pgStore) GetScreenByID(id string) (*model.Screen, error) {
	var sc model.Screen
	err := s.db.Get(&sc, `
		SELECT id, user_id, name, created_at, updated_at
		FROM screens
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

func (s *pgStore) ListScreens(userID *string) ([]model.Screen, error) {
	screens := []model.Screen{}
	err := s.db.Select(&screens, `
		SELECT id, user_id, name, created_at, updated_at
		FROM screens
		WHERE ($1::text IS NULL OR user_id = $1)
		ORDER BY created_at DESC
		LIMIT 100
		`, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list screens")
		return nil, err
	}
	return screens, nil
}

func (s *pgStore) UpdateScreen(id string, name *string) (*model.Screen, error) {
	var sc model.Screen
	err := s.db.Get(&sc, `
		UPDATE screens
		SET name = COALESCE($2, name),
		updated_at = now()
		WHERE id = $1
		RETURNING id, user_id, name, created_at, updated_at;`,
		id, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to update screen")
		return nil, err
	}
	return &sc, nil
}

// DuplicateScreen copies the screen row under a new id with a " (Copy)"
// suffix. Versions are not copied.
func (s *pgStore) DuplicateScreen(id string) (model.Screen, error) {
	var sc model.Screen
	err := s.db.Get(&sc, `
		INSERT INTO screens (id, user_id, name, created_at, updated_at)
		SELECT $2, user_id, name || ' (Copy)', now(), now()
		FROM screens
		WHERE id = $1
		RETURNING id, user_id, name, created_at, updated_at;`,
		id, uuid.NewString())
	if errors.Is(err, sql.ErrNoRows) {
		return model.Screen{}, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to duplicate screen")
		return model.Screen{}, err
	}
	return sc, nil
}
