package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/rs/zerolog/log"

	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

// versionTables maps a version kind onto its backing table. Scene versions
// carry no title column.
type versionTable struct {
	table      string
	parentTab  string
	parentCol  string
	contentCol string
	hasTitle   bool
}

func tableFor(kind model.VersionKind) (versionTable, error) {
	switch kind {
	case model.KindScreen:
		return versionTable{"screen_versions", "screens", "screen_id", "layout_json", true}, nil
	case model.KindScene:
		return versionTable{"scene_versions", "scenes", "scene_id", "data_json", false}, nil
	default:
		return versionTable{}, fmt.Errorf("unknown version kind %q", kind)
	}
}

func (vt versionTable) selectCols() string {
	title := "NULL AS title"
	if vt.hasTitle {
		title = "title"
	}
	return fmt.Sprintf("id, %s AS parent_id, version, status, %s, %s AS content, created_at",
		vt.parentCol, title, vt.contentCol)
}

func (s *pgStore) ParentExists(kind model.VersionKind, parentID string) (bool, error) {
	vt, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	var exists bool
	q := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, vt.parentTab)
	if err := s.db.Get(&exists, q, parentID); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *pgStore) ListVersions(kind model.VersionKind, parentID string) ([]model.Version, error) {
	vt, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	versions := []model.Version{}
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY version`,
		vt.selectCols(), vt.table, vt.parentCol)
	if err := s.db.Select(&versions, q, parentID); err != nil {
		log.Error().Err(err).Str("parent_id", parentID).Msg("failed to list versions")
		return nil, err
	}
	for i := range versions {
		versions[i].Kind = kind
	}
	return versions, nil
}

func (s *pgStore) ListDraftVersions(kind model.VersionKind, parentID string) ([]model.Version, error) {
	vt, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	versions := []model.Version{}
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND status = 'draft' ORDER BY created_at DESC`,
		vt.selectCols(), vt.table, vt.parentCol)
	if err := s.db.Select(&versions, q, parentID); err != nil {
		log.Error().Err(err).Str("parent_id", parentID).Msg("failed to list draft versions")
		return nil, err
	}
	for i := range versions {
		versions[i].Kind = kind
	}
	return versions, nil
}

func (s *pgStore) GetVersionByID(kind model.VersionKind, id string) (*model.Version, error) {
	vt, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	var v model.Version
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, vt.selectCols(), vt.table)
	err = s.db.Get(&v, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	v.Kind = kind
	return &v, nil
}

func (s *pgStore) InsertVersion(v model.Version) (model.Version, error) {
	vt, err := tableFor(v.Kind)
	if err != nil {
		return model.Version{}, err
	}

	var out model.Version
	if vt.hasTitle {
		q := fmt.Sprintf(`
		INSERT INTO %s (id, %s, version, status, title, %s, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING %s;`, vt.table, vt.parentCol, vt.contentCol, vt.selectCols())
		err = s.db.Get(&out, q, uuid.NewString(), v.ParentID, v.Version, v.Status, v.Title, v.Content)
	} else {
		q := fmt.Sprintf(`
		INSERT INTO %s (id, %s, version, status, %s, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING %s;`, vt.table, vt.parentCol, vt.contentCol, vt.selectCols())
		err = s.db.Get(&out, q, uuid.NewString(), v.ParentID, v.Version, v.Status, v.Content)
	}
	if err != nil {
		log.Error().Err(err).Str("parent_id", v.ParentID).Msg("failed to insert version")
		return model.Version{}, err
	}
	out.Kind = v.Kind
	return out, nil
}

func (s *pgStore) UpdateVersionContent(kind model.VersionKind, id string, title *string, content types.JSONText) (*model.Version, error) {
	vt, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var v model.Version
	if vt.hasTitle {
		q := fmt.Sprintf(`
		UPDATE %s
		SET title = COALESCE($2, title),
		%s = $3
		WHERE id = $1
		RETURNING %s;`, vt.table, vt.contentCol, vt.selectCols())
		err = s.db.Get(&v, q, id, title, content)
	} else {
		q := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2
		WHERE id = $1
		RETURNING %s;`, vt.table, vt.contentCol, vt.selectCols())
		err = s.db.Get(&v, q, id, content)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update version content")
		return nil, err
	}
	v.Kind = kind
	return &v, nil
}
