package db

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

func (s *pgStore) CreateMonitor(userID, name, deviceToken string) (model.Monitor, error) {
	var m model.Monitor
	const q = `
	INSERT INTO monitors (id, user_id, name, device_token, created_at, updated_at)
	VALUES ($1, $2, $3, $4, now(), now())
	RETURNING id, user_id, name, device_token, created_at, updated_at;`

	if err := s.db.Get(&m, q, uuid.NewString(), userID, name, deviceToken); err != nil {
		log.Error().Err(err).Msg("failed to create monitor")
		return model.Monitor{}, err
	}
	return m, nil
}

func (s *pgStore) GetMonitorByID(id string) (*model.Monitor, error) {
	var m model.Monitor
	err := s.db.Get(&m, `
		SELECT id, user_id, name, device_token, created_at, updated_at
		FROM monitors
		WHERE id = $1
		`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *pgStore) GetMonitorByDeviceToken(deviceToken string) (*model.Monitor, error) {
	var m model.Monitor
	err := s.db.Get(&m, `
		SELECT id, user_id, name, device_token, created_at, updated_at
		FROM monitors
		WHERE device_token = $1
		`, deviceToken)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *pgStore) ListMonitors(userID *string) ([]model.Monitor, error) {
	monitors := []model.Monitor{}
	err := s.db.Select(&monitors, `
		SELECT id, user_id, name, device_token, created_at, updated_at
		FROM monitors
		WHERE ($1::text IS NULL OR user_id = $1)
		ORDER BY created_at DESC
		LIMIT 100
		`, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list monitors")
		return nil, err
	}
	return monitors, nil
}

func (s *pgStore) UpdateMonitor(id string, name *string) (*model.Monitor, error) {
	var m model.Monitor
	err := s.db.Get(&m, `
		UPDATE monitors
		SET name = COALESCE($2, name),
		updated_at = now()
		WHERE id = $1
		RETURNING id, user_id, name, device_token, created_at, updated_at;`,
		id, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to update monitor")
		return nil, err
	}
	return &m, nil
}
