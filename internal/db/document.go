package db

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/rs/zerolog/log"

	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

// document is the single JSON blob the document backend persists wholesale.
// Collection order is insertion order.
type document struct {
	Users                []model.User                 `json:"users"`
	Screens              []model.Screen               `json:"screens"`
	ScreenVersions       []model.Version              `json:"screenVersions"`
	Monitors             []model.Monitor              `json:"monitors"`
	MonitorScreenPublish []model.MonitorScreenPublish `json:"monitorScreenPublish"`
	MediaAssets          []model.MediaAsset           `json:"mediaAssets"`
	Scenes               []model.Scene                `json:"scenes"`
	SceneVersions        []model.Version              `json:"sceneVersions"`
}

// docStore implements Store over a single JSON file. Every operation is a
// load-mutate-save sequence under one process-wide mutex; without the lock
// two concurrent requests would silently drop each other's writes.
type docStore struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*docStore)(nil)

func NewDocumentStore(path string) (Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}
	log.Info().Str("path", path).Msg("using document store")
	return &docStore{path: path}, nil
}

func (s *docStore) load() (*document, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	for i := range doc.ScreenVersions {
		doc.ScreenVersions[i].Kind = model.KindScreen
	}
	for i := range doc.SceneVersions {
		doc.SceneVersions[i].Kind = model.KindScene
	}
	return &doc, nil
}

// save writes via a temp file and rename so a crash mid-write never leaves
// a truncated document behind.
func (s *docStore) save(doc *document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}

// user functions

func (s *docStore) CreateUser(email, hashedPassword *string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return model.User{}, err
	}
	u := model.User{ID: uuid.NewString(), Email: email, HashedPassword: hashedPassword, CreatedAt: now()}
	doc.Users = append(doc.Users, u)
	if err := s.save(doc); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (s *docStore) GetUserByID(id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, u := range doc.Users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *docStore) GetUserByEmail(email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	// exact match, same semantics as the relational backend
	for _, u := range doc.Users {
		if u.Email != nil && *u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *docStore) ListUsers() ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	if doc.Users == nil {
		return []model.User{}, nil
	}
	return doc.Users, nil
}

func (s *docStore) UpdateUserProfile(id string, email *string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Users {
		if doc.Users[i].ID != id {
			continue
		}
		if email != nil {
			doc.Users[i].Email = email
		}
		u := doc.Users[i]
		if err := s.save(doc); err != nil {
			return nil, err
		}
		return &u, nil
	}
	return nil, ErrNotFound
}

// screen functions

func (s *docStore) CreateScreen(userID, name string) (model.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return model.Screen{}, err
	}
	ts := now()
	sc := model.Screen{ID: uuid.NewString(), UserID: userID, Name: name, CreatedAt: ts, UpdatedAt: ts}
	doc.Screens = append(doc.Screens, sc)
	if err := s.save(doc); err != nil {
		return model.Screen{}, err
	}
	return sc, nil
}

func (s *docStore) GetScreenByID(id string) (*model.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, sc := range doc.Screens {
		if sc.ID == id {
			return &sc, nil
		}
	}
	return nil, ErrNotFound
}

func (s *docStore) ListScreens(userID *string) ([]model.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := []model.Screen{}
	for _, sc := range doc.Screens {
		if userID == nil || sc.UserID == *userID {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (s *docStore) UpdateScreen(id string, name *string) (*model.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Screens {
		if doc.Screens[i].ID != id {
			continue
		}
		if name != nil {
			doc.Screens[i].Name = *name
		}
		doc.Screens[i].UpdatedAt = now()
		sc := doc.Screens[i]
		if err := s.save(doc); err != nil {
			return nil, err
		}
		return &sc, nil
	}
	return nil, ErrNotFound
}

func (s *docStore) DuplicateScreen(id string) (model.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return model.Screen{}, err
	}
	for _, sc := range doc.Screens {
		if sc.ID != id {
			continue
		}
		ts := now()
		copyScreen := model.Screen{
			ID:        uuid.NewString(),
			UserID:    sc.UserID,
			Name:      sc.Name + " (Copy)",
			CreatedAt: ts,
			UpdatedAt: ts,
		}
		doc.Screens = append(doc.Screens, copyScreen)
		if err := s.save(doc); err != nil {
			return model.Screen{}, err
		}
		return copyScreen, nil
	}
	return model.Screen{}, ErrNotFound
}

// scene functions

func (s *docStore) CreateScene(userID, name string) (model.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return model.Scene{}, err
	}
	ts := now()
	sc := model.Scene{ID: uuid.NewString(), UserID: userID, Name: name, CreatedAt: ts, UpdatedAt: ts}
	doc.Scenes = append(doc.Scenes, sc)
	if err := s.save(doc); err != nil {
		return model.Scene{}, err
	}
	return sc, nil
}

func (s *docStore) GetSceneByID(id string) (*model.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, sc := range doc.Scenes {
		if sc.ID == id {
			return &sc, nil
		}
	}
	return nil, ErrNotFound
}

func (s *docStore) ListScenes(userID *string) ([]model.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := []model.Scene{}
	for _, sc := range doc.Scenes {
		if userID == nil || sc.UserID == *userID {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (s *docStore) UpdateScene(id string, name *string) (*model.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Scenes {
		if doc.Scenes[i].ID != id {
			continue
		}
		if name != nil {
			doc.Scenes[i].Name = *name
		}
		doc.Scenes[i].UpdatedAt = now()
		sc := doc.Scenes[i]
		if err := s.save(doc); err != nil {
			return nil, err
		}
		return &sc, nil
	}
	return nil, ErrNotFound
}

// version functions

func (doc *document) versions(kind model.VersionKind) *[]model.Version {
	if kind == model.KindScene {
		return &doc.SceneVersions
	}
	return &doc.ScreenVersions
}

func (s *docStore) ParentExists(kind model.VersionKind, parentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}
	if kind == model.KindScene {
		for _, sc := range doc.Scenes {
			if sc.ID == parentID {
				return true, nil
			}
		}
		return false, nil
	}
	for _, sc := range doc.Screens {
		if sc.ID == parentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *docStore) ListVersions(kind model.VersionKind, parentID string) ([]model.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := []model.Version{}
	for _, v := range *doc.versions(kind) {
		if v.ParentID == parentID {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (s *docStore) ListDraftVersions(kind model.VersionKind, parentID string) ([]model.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := []model.Version{}
	for _, v := range *doc.versions(kind) {
		if v.ParentID == parentID && v.Status == model.StatusDraft {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *docStore) GetVersionByID(kind model.VersionKind, id string) (*model.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, v := range *doc.versions(kind) {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, ErrNotFound
}

func (s *docStore) InsertVersion(v model.Version) (model.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return model.Version{}, err
	}
	v.ID = uuid.NewString()
	v.CreatedAt = now()
	if v.Kind == model.KindScene {
		v.Title = nil
	}
	vs := doc.versions(v.Kind)
	*vs = append(*vs, v)
	if err := s.save(doc); err != nil {
		return model.Version{}, err
	}
	return v, nil
}

func (s *docStore) UpdateVersionContent(kind model.VersionKind, id string, title *string, content types.JSONText) (*model.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	vs := doc.versions(kind)
	for i := range *vs {
		if (*vs)[i].ID != id {
			continue
		}
		if title != nil && kind == model.KindScreen {
			(*vs)[i].Title = title
		}
		(*vs)[i].Content = content
		v := (*vs)[i]
		if err := s.save(doc); err != nil {
			return nil, err
		}
		return &v, nil
	}
	return nil, ErrNotFound
}

// monitor functions

func (s *docStore) CreateMonitor(userID, name, deviceToken string) (model.Monitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return model.Monitor{}, err
	}
	ts := now()
	m := model.Monitor{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		DeviceToken: deviceToken,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	doc.Monitors = append(doc.Monitors, m)
	if err := s.save(doc); err != nil {
		return model.Monitor{}, err
	}
	return m, nil
}

func (s *docStore) GetMonitorByID(id string) (*model.Monitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, m := range doc.Monitors {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

func (s *docStore) GetMonitorByDeviceToken(deviceToken string) (*model.Monitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	m := findMonitorByToken(doc, deviceToken)
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func findMonitorByToken(doc *document, deviceToken string) *model.Monitor {
	for _, m := range doc.Monitors {
		if m.DeviceToken == deviceToken {
			return &m
		}
	}
	return nil
}

func (s *docStore) ListMonitors(userID *string) ([]model.Monitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := []model.Monitor{}
	for _, m := range doc.Monitors {
		if userID == nil || m.UserID == *userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *docStore) UpdateMonitor(id string, name *string) (*model.Monitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Monitors {
		if doc.Monitors[i].ID != id {
			continue
		}
		if name != nil {
			doc.Monitors[i].Name = *name
		}
		doc.Monitors[i].UpdatedAt = now()
		m := doc.Monitors[i]
		if err := s.save(doc); err != nil {
			return nil, err
		}
		return &m, nil
	}
	return nil, ErrNotFound
}

// publish functions

func (s *docStore) ActivatePublish(monitorID, screenVersionID string) (model.MonitorScreenPublish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return model.MonitorScreenPublish{}, err
	}
	for i := range doc.MonitorScreenPublish {
		if doc.MonitorScreenPublish[i].MonitorID == monitorID {
			doc.MonitorScreenPublish[i].IsActive = false
		}
	}
	p := model.MonitorScreenPublish{
		ID:              uuid.NewString(),
		MonitorID:       monitorID,
		ScreenVersionID: screenVersionID,
		IsActive:        true,
		PublishedAt:     now(),
	}
	doc.MonitorScreenPublish = append(doc.MonitorScreenPublish, p)
	for i := range doc.ScreenVersions {
		if doc.ScreenVersions[i].ID == screenVersionID && doc.ScreenVersions[i].Status == model.StatusDraft {
			doc.ScreenVersions[i].Status = model.StatusPublished
		}
	}
	// single save keeps the three mutations all-or-nothing
	if err := s.save(doc); err != nil {
		return model.MonitorScreenPublish{}, err
	}
	return p, nil
}

func (s *docStore) GetActivePublishForMonitor(monitorID string) (*model.MonitorScreenPublish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, p := range doc.MonitorScreenPublish {
		if p.MonitorID == monitorID && p.IsActive {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// ResolveActiveVersionForDevice walks the three hops sequentially; any
// missing hop, including a dangling version reference, is NotFound.
func (s *docStore) ResolveActiveVersionForDevice(deviceToken string) (*model.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	monitor := findMonitorByToken(doc, deviceToken)
	if monitor == nil {
		return nil, ErrNotFound
	}
	var publish *model.MonitorScreenPublish
	for _, p := range doc.MonitorScreenPublish {
		if p.MonitorID == monitor.ID && p.IsActive {
			publish = &p
			break
		}
	}
	if publish == nil {
		return nil, ErrNotFound
	}
	for _, v := range doc.ScreenVersions {
		if v.ID == publish.ScreenVersionID {
			return &v, nil
		}
	}
	return nil, ErrNotFound
}

// media functions

func (s *docStore) CreateMediaAsset(asset model.MediaAsset) (model.MediaAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return model.MediaAsset{}, err
	}
	asset.ID = uuid.NewString()
	asset.CreatedAt = now()
	doc.MediaAssets = append(doc.MediaAssets, asset)
	if err := s.save(doc); err != nil {
		return model.MediaAsset{}, err
	}
	return asset, nil
}

func (s *docStore) GetMediaAssetByID(id string) (*model.MediaAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, a := range doc.MediaAssets {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (s *docStore) ListMediaAssets(userID *string) ([]model.MediaAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := []model.MediaAsset{}
	for _, a := range doc.MediaAssets {
		if userID == nil || a.UserID == *userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *docStore) DeleteMediaAsset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	for i, a := range doc.MediaAssets {
		if a.ID == id {
			doc.MediaAssets = append(doc.MediaAssets[:i], doc.MediaAssets[i+1:]...)
			return s.save(doc)
		}
	}
	return ErrNotFound
}

func (s *docStore) SumMediaBytes(userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, a := range doc.MediaAssets {
		if a.UserID == userID {
			total += a.FileSize
		}
	}
	return total, nil
}
