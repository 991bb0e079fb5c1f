package endpoints

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fresco-Signage-LLC/fresco/internal/db"
	"github.com/Fresco-Signage-LLC/fresco/internal/http/api"
	monitorEndpoints "github.com/Fresco-Signage-LLC/fresco/internal/http/api/monitor/endpoints"
	"github.com/Fresco-Signage-LLC/fresco/internal/media"
	"github.com/Fresco-Signage-LLC/fresco/internal/publish"
	"github.com/Fresco-Signage-LLC/fresco/internal/storage"
	"github.com/Fresco-Signage-LLC/fresco/internal/versioning"
)

const testSecret = "test-secret"

// newTestRouter wires the full HTTP surface against a document store in a
// temp dir, the same shape the server builds in production.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := db.NewDocumentStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	drafts := versioning.NewManager(store)
	publisher := publish.NewService(store, nil)
	blobs := storage.NewLocalStorage(t.TempDir())
	assets := media.NewService(store, blobs)

	r := gin.New()
	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
	},
		AuthPublicModule(testSecret, store),
	)
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: testSecret,
		Store:     store,
	},
		UserModule(store),
		ScreenModule(store, drafts),
		SceneModule(store, drafts),
		MonitorModule(store, publisher, nil),
		MediaModule(assets, blobs),
		AuthSessionModule(testSecret, store),
	)
	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/monitor",
	},
		monitorEndpoints.ResolveModule(publisher),
	)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

func signup(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/admin/auth/signup", "", gin.H{
		"email":    email,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestSignupAndLogin(t *testing.T) {
	r := newTestRouter(t)

	signup(t, r, "admin@example.com")

	// the email is taken now
	w := doJSON(t, r, http.MethodPost, "/api/admin/auth/signup", "", gin.H{
		"email":    "admin@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/admin/auth/login", "", gin.H{
		"email":    "admin@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/admin/auth/login", "", gin.H{
		"email":    "admin@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/admin/screens", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/admin/screens", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type versionPayload struct {
	ID      string          `json:"id"`
	Version int             `json:"version"`
	Status  string          `json:"status"`
	Title   *string         `json:"title"`
	Content json.RawMessage `json:"content"`
}

func createScreen(t *testing.T, r *gin.Engine, token, name string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/admin/screens", token, gin.H{"name": name})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	var screen struct {
		ID string `json:"id"`
	}
	decode(t, w, &screen)
	return screen.ID
}

func TestScreenDraftLifecycle(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "admin@example.com")
	screenID := createScreen(t, r, token, "Lobby")

	// first read lazily creates the draft with the default layout
	w := doJSON(t, r, http.MethodGet, "/api/admin/screens/"+screenID+"/draft", token, nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	var resp struct {
		Draft versionPayload `json:"draft"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 1, resp.Draft.Version)
	assert.Equal(t, "draft", resp.Draft.Status)
	require.NotNil(t, resp.Draft.Title)
	assert.Equal(t, "Draft", *resp.Draft.Title)
	assert.JSONEq(t,
		`{"orientation":"landscape","rows":1,"cols":1,"cells":[{"id":"0-0","sceneId":null}]}`,
		string(resp.Draft.Content))
	firstID := resp.Draft.ID

	// a second read returns the same draft
	w = doJSON(t, r, http.MethodGet, "/api/admin/screens/"+screenID+"/draft", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, firstID, resp.Draft.ID)

	// patching keeps the version number
	layout := json.RawMessage(`{"orientation":"portrait","rows":1,"cols":2,"cells":[
		{"id":"0-0","sceneId":null},{"id":"0-1","sceneId":null}]}`)
	w = doJSON(t, r, http.MethodPatch, "/api/admin/screens/"+screenID+"/draft", token, gin.H{
		"title":      "Lobby board",
		"layoutJson": layout,
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	decode(t, w, &resp)
	assert.Equal(t, firstID, resp.Draft.ID)
	assert.Equal(t, 1, resp.Draft.Version)
	assert.JSONEq(t, string(layout), string(resp.Draft.Content))

	// invalid layout is rejected
	w = doJSON(t, r, http.MethodPatch, "/api/admin/screens/"+screenID+"/draft", token, gin.H{
		"layoutJson": json.RawMessage(`{"orientation":"landscape","rows":2,"cols":2,"cells":[]}`),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// an explicit null layout keeps the prior content
	w = doJSON(t, r, http.MethodPatch, "/api/admin/screens/"+screenID+"/draft", token, gin.H{
		"layoutJson": nil,
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	decode(t, w, &resp)
	assert.JSONEq(t, string(layout), string(resp.Draft.Content))

	// the explicit create path always mints a new version
	w = doJSON(t, r, http.MethodPost, "/api/admin/screens/"+screenID+"/draft", token, gin.H{})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	var created struct {
		VersionID string `json:"versionId"`
		Version   int    `json:"version"`
	}
	decode(t, w, &created)
	assert.NotEqual(t, firstID, created.VersionID)
	assert.Equal(t, 2, created.Version)

	w = doJSON(t, r, http.MethodGet, "/api/admin/screens/"+screenID+"/versions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var versions struct {
		Versions []versionPayload `json:"versions"`
	}
	decode(t, w, &versions)
	assert.Len(t, versions.Versions, 2)
}

func TestScreenOwnershipForbidden(t *testing.T) {
	r := newTestRouter(t)
	owner := signup(t, r, "owner@example.com")
	intruder := signup(t, r, "intruder@example.com")
	screenID := createScreen(t, r, owner, "Lobby")

	w := doJSON(t, r, http.MethodGet, "/api/admin/screens/"+screenID, intruder, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/admin/screens/"+screenID+"/draft", intruder, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/admin/screens/does-not-exist", owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublishAndDeviceResolve(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "admin@example.com")
	screenID := createScreen(t, r, token, "Lobby")

	// materialize the draft
	w := doJSON(t, r, http.MethodGet, "/api/admin/screens/"+screenID+"/draft", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var draft struct {
		Draft versionPayload `json:"draft"`
	}
	decode(t, w, &draft)

	w = doJSON(t, r, http.MethodPost, "/api/admin/monitors", token, gin.H{
		"name":         "Entrance",
		"device_token": "device-token-1",
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	var monitor struct {
		ID string `json:"id"`
	}
	decode(t, w, &monitor)

	// nothing published yet
	w = doJSON(t, r, http.MethodGet, "/api/monitor/device-token-1", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/admin/monitors/"+monitor.ID+"/publish", token, gin.H{
		"screen_version_id": draft.Draft.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/monitor/device-token-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	var resolved struct {
		ID         string          `json:"id"`
		Status     string          `json:"status"`
		LayoutJSON json.RawMessage `json:"layout_json"`
	}
	decode(t, w, &resolved)
	assert.Equal(t, draft.Draft.ID, resolved.ID)
	assert.Equal(t, "published", resolved.Status)
	assert.JSONEq(t, string(draft.Draft.Content), string(resolved.LayoutJSON))

	// unknown version id
	w = doJSON(t, r, http.MethodPost, "/api/admin/monitors/"+monitor.ID+"/publish", token, gin.H{
		"screen_version_id": "missing",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// reusing a device token conflicts
	w = doJSON(t, r, http.MethodPost, "/api/admin/monitors", token, gin.H{
		"name":         "Backdoor",
		"device_token": "device-token-1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPublishForeignScreenVersionForbidden(t *testing.T) {
	r := newTestRouter(t)
	owner := signup(t, r, "owner@example.com")
	intruder := signup(t, r, "intruder@example.com")
	screenID := createScreen(t, r, owner, "Lobby")

	w := doJSON(t, r, http.MethodGet, "/api/admin/screens/"+screenID+"/draft", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var draft struct {
		Draft versionPayload `json:"draft"`
	}
	decode(t, w, &draft)

	// the intruder's own monitor is no license to publish someone else's screen
	w = doJSON(t, r, http.MethodPost, "/api/admin/monitors", intruder, gin.H{
		"name":         "Rogue",
		"device_token": "rogue-token",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var monitor struct {
		ID string `json:"id"`
	}
	decode(t, w, &monitor)

	w = doJSON(t, r, http.MethodPost, "/api/admin/monitors/"+monitor.ID+"/publish", intruder, gin.H{
		"screen_version_id": draft.Draft.ID,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// nothing was published
	w = doJSON(t, r, http.MethodGet, "/api/monitor/rogue-token", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClaimWithoutPairingStore(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "admin@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/admin/monitors/claim", token, gin.H{
		"pairing_code": "123456",
		"name":         "Entrance",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMediaRegisterAndQuota(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "admin@example.com")

	register := func(name string, size int64) *httptest.ResponseRecorder {
		return doJSON(t, r, http.MethodPost, "/api/admin/media", token, gin.H{
			"file_url":  "/uploads/" + name,
			"file_name": name,
			"file_size": size,
			"type":      "image",
			"mime_type": "image/png",
		})
	}

	w := register("big.png", 900<<20)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	w = register("too-much.png", 200<<20)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/admin/media", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Media []struct {
			ID       string `json:"id"`
			FileName string `json:"file_name"`
		} `json:"media"`
		Usage struct {
			UsedBytes  int64 `json:"usedBytes"`
			LimitBytes int64 `json:"limitBytes"`
		} `json:"usage"`
	}
	decode(t, w, &list)
	require.Len(t, list.Media, 1)
	assert.Equal(t, "big.png", list.Media[0].FileName)
	assert.Equal(t, int64(900<<20), list.Usage.UsedBytes)
	assert.Equal(t, media.LimitBytes, list.Usage.LimitBytes)

	w = doJSON(t, r, http.MethodDelete, "/api/admin/media/"+list.Media[0].ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	var deleted struct {
		OK    bool `json:"ok"`
		Usage struct {
			UsedBytes int64 `json:"usedBytes"`
		} `json:"usage"`
	}
	decode(t, w, &deleted)
	assert.True(t, deleted.OK)
	assert.Zero(t, deleted.Usage.UsedBytes)
}

func TestSceneDraftLifecycle(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "admin@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/admin/scenes", token, gin.H{"name": "Welcome"})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	var scene struct {
		ID string `json:"id"`
	}
	decode(t, w, &scene)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/admin/scenes/%s/draft", scene.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	var resp struct {
		Draft versionPayload `json:"draft"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 1, resp.Draft.Version)
	assert.Nil(t, resp.Draft.Title)
	assert.JSONEq(t, `{"timeline":[]}`, string(resp.Draft.Content))

	data := json.RawMessage(`{"timeline":[{"id":"a","type":"text","label":"Hi","durationMs":3000}]}`)
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/admin/scenes/%s/draft", scene.ID), token, gin.H{
		"dataJson": data,
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	decode(t, w, &resp)
	assert.JSONEq(t, string(data), string(resp.Draft.Content))
}
