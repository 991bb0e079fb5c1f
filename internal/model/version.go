package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// VersionKind selects which parent entity a version belongs to. Screen and
// scene versions share the same lifecycle so they share one struct; the kind
// decides the backing collection and the default content shape.
type VersionKind string

const (
	KindScreen VersionKind = "screen"
	KindScene  VersionKind = "scene"
)

type VersionStatus string

const (
	StatusDraft     VersionStatus = "draft"
	StatusPublished VersionStatus = "published"
	StatusArchived  VersionStatus = "archived"
)

// Version is one numbered revision of a screen layout or scene timeline.
// Version numbers are unique and increasing per parent. Title is only
// meaningful for screen versions.
type Version struct {
	ID        string         `db:"id"         json:"id"`
	Kind      VersionKind    `db:"-"          json:"kind"`
	ParentID  string         `db:"parent_id"  json:"parent_id"`
	Version   int            `db:"version"    json:"version"`
	Status    VersionStatus  `db:"status"     json:"status"`
	Title     *string        `db:"title"      json:"title,omitempty"`
	Content   types.JSONText `db:"content"    json:"content"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
