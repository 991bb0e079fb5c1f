// Package versioning owns the draft lifecycle for screens and scenes: lazy
// draft creation with kind-specific default content, patch-merge updates,
// and monotone per-parent version numbering.
package versioning

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx/types"
	"github.com/rs/zerolog/log"

	"github.com/Fresco-Signage-LLC/fresco/internal/db"
	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

// ErrInvalidContent marks client-supplied layout or timeline content that
// fails validation.
var ErrInvalidContent = errors.New("invalid content")

// Store is the slice of the record store the draft manager needs.
type Store interface {
	ParentExists(kind model.VersionKind, parentID string) (bool, error)
	ListVersions(kind model.VersionKind, parentID string) ([]model.Version, error)
	ListDraftVersions(kind model.VersionKind, parentID string) ([]model.Version, error)
	InsertVersion(v model.Version) (model.Version, error)
	UpdateVersionContent(kind model.VersionKind, id string, title *string, content types.JSONText) (*model.Version, error)
}

type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// NextVersion computes the next version number for a parent from its
// existing versions: max(existing)+1, or 1 when none exist. Computed fresh
// per call; gaps are never filled.
func NextVersion(versions []model.Version) int {
	next := 1
	for _, v := range versions {
		if v.Version >= next {
			next = v.Version + 1
		}
	}
	return next
}

// DefaultContent returns the lazy draft content for a parent kind: a 1x1
// landscape layout for screens, an empty timeline for scenes.
func DefaultContent(kind model.VersionKind) types.JSONText {
	switch kind {
	case model.KindScene:
		return types.JSONText(`{"timeline":[]}`)
	default:
		return types.JSONText(`{"orientation":"landscape","rows":1,"cols":1,"cells":[{"id":"0-0","sceneId":null}]}`)
	}
}

const defaultDraftTitle = "Draft"

// GetOrCreateDraft returns the parent's newest draft version, creating one
// with default content when none exists. Repeated calls return the same
// draft until it is mutated or published.
func (m *Manager) GetOrCreateDraft(kind model.VersionKind, parentID string) (model.Version, error) {
	exists, err := m.store.ParentExists(kind, parentID)
	if err != nil {
		return model.Version{}, err
	}
	if !exists {
		return model.Version{}, db.ErrNotFound
	}

	drafts, err := m.store.ListDraftVersions(kind, parentID)
	if err != nil {
		return model.Version{}, err
	}
	if len(drafts) > 0 {
		return drafts[0], nil
	}

	versions, err := m.store.ListVersions(kind, parentID)
	if err != nil {
		return model.Version{}, err
	}

	draft := model.Version{
		Kind:     kind,
		ParentID: parentID,
		Version:  NextVersion(versions),
		Status:   model.StatusDraft,
		Content:  DefaultContent(kind),
	}
	if kind == model.KindScreen {
		title := defaultDraftTitle
		draft.Title = &title
	}

	created, err := m.store.InsertVersion(draft)
	if err != nil {
		return model.Version{}, err
	}
	log.Info().
		Str("kind", string(kind)).
		Str("parent_id", parentID).
		Int("version", created.Version).
		Msg("created draft version")
	return created, nil
}

// UpdateDraft fetches-or-creates the draft and merges the patch: provided
// fields overwrite, absent fields keep their value. Provided-but-empty
// content falls back to the prior content, then to the empty default shape.
func (m *Manager) UpdateDraft(kind model.VersionKind, parentID string, title *string, content types.JSONText) (model.Version, error) {
	draft, err := m.GetOrCreateDraft(kind, parentID)
	if err != nil {
		return model.Version{}, err
	}

	merged := content
	if !contentProvided(merged) {
		// absent or null content keeps the prior value; only real
		// client-supplied content is validated
		merged = draft.Content
		if len(merged) == 0 {
			merged = DefaultContent(kind)
		}
	} else if err := validateContent(kind, merged); err != nil {
		return model.Version{}, err
	}

	updated, err := m.store.UpdateVersionContent(kind, draft.ID, title, merged)
	if err != nil {
		return model.Version{}, err
	}
	return *updated, nil
}

// CreateDraft always inserts a new draft version regardless of whether one
// already exists, with a version number computed fresh from the parent's
// versions. Together with GetOrCreateDraft this can leave multiple
// draft-status versions for the same parent; that mirrors the explicit
// new-draft operation and is pinned by tests rather than papered over.
func (m *Manager) CreateDraft(kind model.VersionKind, parentID string, title *string, content types.JSONText) (model.Version, error) {
	exists, err := m.store.ParentExists(kind, parentID)
	if err != nil {
		return model.Version{}, err
	}
	if !exists {
		return model.Version{}, db.ErrNotFound
	}

	if !contentProvided(content) {
		content = types.JSONText(`{}`)
	} else if err := validateContent(kind, content); err != nil {
		return model.Version{}, err
	}

	versions, err := m.store.ListVersions(kind, parentID)
	if err != nil {
		return model.Version{}, err
	}

	draft := model.Version{
		Kind:     kind,
		ParentID: parentID,
		Version:  NextVersion(versions),
		Status:   model.StatusDraft,
		Title:    title,
		Content:  content,
	}
	return m.store.InsertVersion(draft)
}

// ListVersions returns all of a parent's versions in version order.
func (m *Manager) ListVersions(kind model.VersionKind, parentID string) ([]model.Version, error) {
	exists, err := m.store.ParentExists(kind, parentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, db.ErrNotFound
	}
	return m.store.ListVersions(kind, parentID)
}

// contentProvided reports whether the client actually sent content: a
// missing field and an explicit JSON null both mean "keep what's there".
func contentProvided(content types.JSONText) bool {
	return len(content) > 0 && !bytes.Equal(bytes.TrimSpace(content), []byte("null"))
}

func validateContent(kind model.VersionKind, content types.JSONText) error {
	switch kind {
	case model.KindScreen:
		var layout model.Layout
		if err := json.Unmarshal(content, &layout); err != nil {
			return fmt.Errorf("%w: layout: %v", ErrInvalidContent, err)
		}
		if err := layout.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		return nil
	case model.KindScene:
		var data model.SceneData
		if err := json.Unmarshal(content, &data); err != nil {
			return fmt.Errorf("%w: scene data: %v", ErrInvalidContent, err)
		}
		if err := data.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		return nil
	default:
		return fmt.Errorf("unknown version kind %q", kind)
	}
}
