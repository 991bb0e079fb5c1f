package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

// ActivatePublish swaps the monitor's active publish row and promotes the
// version draft -> published in one transaction.
func (s *pgStore) ActivatePublish(monitorID, screenVersionID string) (model.MonitorScreenPublish, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return model.MonitorScreenPublish{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`
		UPDATE monitor_screen_publish
		SET is_active = false
		WHERE monitor_id = $1 AND is_active
		`, monitorID); err != nil {
		log.Error().Err(err).Str("monitor_id", monitorID).Msg("failed to deactivate publish rows")
		return model.MonitorScreenPublish{}, err
	}

	var p model.MonitorScreenPublish
	err = tx.Get(&p, `
		INSERT INTO monitor_screen_publish (id, monitor_id, screen_version_id, is_active, published_at)
		VALUES ($1, $2, $3, true, now())
		RETURNING id, monitor_id, screen_version_id, is_active, published_at;`,
		uuid.NewString(), monitorID, screenVersionID)
	if err != nil {
		log.Error().Err(err).Str("monitor_id", monitorID).Msg("failed to insert publish row")
		return model.MonitorScreenPublish{}, err
	}

	if _, err := tx.Exec(`
		UPDATE screen_versions
		SET status = 'published'
		WHERE id = $1 AND status = 'draft'
		`, screenVersionID); err != nil {
		log.Error().Err(err).Str("screen_version_id", screenVersionID).Msg("failed to promote version status")
		return model.MonitorScreenPublish{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.MonitorScreenPublish{}, fmt.Errorf("commit publish: %w", err)
	}
	return p, nil
}

func (s *pgStore) GetActivePublishForMonitor(monitorID string) (*model.MonitorScreenPublish, error) {
	var p model.MonitorScreenPublish
	err := s.db.Get(&p, `
		SELECT id, monitor_id, screen_version_id, is_active, published_at
		FROM monitor_screen_publish
		WHERE monitor_id = $1 AND is_active
		`, monitorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ResolveActiveVersionForDevice performs the device-token lookup as a single
// query: monitor -> active publish row -> screen version.
func (s *pgStore) ResolveActiveVersionForDevice(deviceToken string) (*model.Version, error) {
	var v model.Version
	err := s.db.Get(&v, `
		SELECT sv.id, sv.screen_id AS parent_id, sv.version, sv.status, sv.title,
		       sv.layout_json AS content, sv.created_at
		FROM monitors m
		JOIN monitor_screen_publish p ON p.monitor_id = m.id AND p.is_active
		JOIN screen_versions sv ON sv.id = p.screen_version_id
		WHERE m.device_token = $1
		`, deviceToken)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	v.Kind = model.KindScreen
	return &v, nil
}
