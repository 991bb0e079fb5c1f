// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"errors"

	"github.com/jmoiron/sqlx/types"

	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

// ErrNotFound is returned when a referenced entity does not exist. Every
// other error from a Store is a transient store failure and must be
// propagated, never collapsed into a missing-entity result.
var ErrNotFound = errors.New("not found")

// Store is the record-store contract shared by every component. Two
// interchangeable backends implement it: Postgres (sqlx) and a single
// JSON document on disk.
type Store interface {
	// user functions
	CreateUser(email, hashedPassword *string) (model.User, error)
	GetUserByID(id string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	ListUsers() ([]model.User, error)
	UpdateUserProfile(id string, email *string) (*model.User, error)

	// screen functions
	CreateScreen(userID, name string) (model.Screen, error)
	GetScreenByID(id string) (*model.Screen, error)
	ListScreens(userID *string) ([]model.Screen, error)
	UpdateScreen(id string, name *string) (*model.Screen, error)
	// DuplicateScreen copies the screen row only (versions are not copied),
	// all-or-nothing.
	DuplicateScreen(id string) (model.Screen, error)

	// scene functions
	CreateScene(userID, name string) (model.Scene, error)
	GetSceneByID(id string) (*model.Scene, error)
	ListScenes(userID *string) ([]model.Scene, error)
	UpdateScene(id string, name *string) (*model.Scene, error)

	// version functions, shared by screens and scenes via the kind tag
	ParentExists(kind model.VersionKind, parentID string) (bool, error)
	ListVersions(kind model.VersionKind, parentID string) ([]model.Version, error)
	// ListDraftVersions returns draft-status versions newest first.
	ListDraftVersions(kind model.VersionKind, parentID string) ([]model.Version, error)
	GetVersionByID(kind model.VersionKind, id string) (*model.Version, error)
	InsertVersion(v model.Version) (model.Version, error)
	UpdateVersionContent(kind model.VersionKind, id string, title *string, content types.JSONText) (*model.Version, error)

	// monitor functions
	CreateMonitor(userID, name, deviceToken string) (model.Monitor, error)
	GetMonitorByID(id string) (*model.Monitor, error)
	GetMonitorByDeviceToken(deviceToken string) (*model.Monitor, error)
	ListMonitors(userID *string) ([]model.Monitor, error)
	UpdateMonitor(id string, name *string) (*model.Monitor, error)

	// publish functions
	// ActivatePublish deactivates the monitor's current active row, inserts
	// a new active one, and promotes the version draft -> published, as one
	// all-or-nothing operation.
	ActivatePublish(monitorID, screenVersionID string) (model.MonitorScreenPublish, error)
	GetActivePublishForMonitor(monitorID string) (*model.MonitorScreenPublish, error)
	// ResolveActiveVersionForDevice is the single logical read behind the
	// player lookup: monitor by token -> active publish -> screen version.
	ResolveActiveVersionForDevice(deviceToken string) (*model.Version, error)

	// media functions
	CreateMediaAsset(asset model.MediaAsset) (model.MediaAsset, error)
	GetMediaAssetByID(id string) (*model.MediaAsset, error)
	ListMediaAssets(userID *string) ([]model.MediaAsset, error)
	DeleteMediaAsset(id string) error
	SumMediaBytes(userID string) (int64, error)
}
