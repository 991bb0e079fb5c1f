// Package publish resolves device tokens to published screen versions and
// activates new publishes.
package publish

import (
	"github.com/rs/zerolog/log"

	"github.com/Fresco-Signage-LLC/fresco/internal/db"
	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

// Store is the slice of the record store the publish service needs.
type Store interface {
	GetMonitorByID(id string) (*model.Monitor, error)
	GetVersionByID(kind model.VersionKind, id string) (*model.Version, error)
	ActivatePublish(monitorID, screenVersionID string) (model.MonitorScreenPublish, error)
	ResolveActiveVersionForDevice(deviceToken string) (*model.Version, error)
}

// Notifier pushes a refresh hint to a playback device after its content
// changes. Delivery is best-effort.
type Notifier interface {
	NotifyRefresh(deviceToken string)
}

type Service struct {
	store    Store
	notifier Notifier // nil when no broker is configured
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// ResolveForDevice returns the screen version currently published to the
// device, or db.ErrNotFound when the token, the active publish row, or the
// referenced version is missing. The store performs the three hops as one
// logical read.
func (s *Service) ResolveForDevice(deviceToken string) (*model.Version, error) {
	return s.store.ResolveActiveVersionForDevice(deviceToken)
}

// Activate publishes a screen version to a monitor: the monitor's previous
// active publish row is deactivated and the version becomes the one served
// to the device. All-or-nothing against the store.
func (s *Service) Activate(monitorID, screenVersionID string) (model.MonitorScreenPublish, error) {
	monitor, err := s.store.GetMonitorByID(monitorID)
	if err != nil {
		return model.MonitorScreenPublish{}, err
	}
	if _, err := s.store.GetVersionByID(model.KindScreen, screenVersionID); err != nil {
		return model.MonitorScreenPublish{}, err
	}

	publish, err := s.store.ActivatePublish(monitorID, screenVersionID)
	if err != nil {
		return model.MonitorScreenPublish{}, err
	}

	if s.notifier != nil {
		s.notifier.NotifyRefresh(monitor.DeviceToken)
	}
	log.Info().
		Str("monitor_id", monitorID).
		Str("screen_version_id", screenVersionID).
		Msg("activated publish")
	return publish, nil
}

// ensure the db.Store satisfies the narrow interface
var _ Store = (db.Store)(nil)
