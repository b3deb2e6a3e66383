package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/autostart"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/config"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/model"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/provider"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/service"
)

// stubProvider returns canned instances without touching the cloud API.
type stubProvider struct {
	list      *model.InstanceList
	listErr   error
	actionErr error
}

func (p *stubProvider) GetName() string { return "stub" }

func (p *stubProvider) Initialize(config map[string]any) error { return nil }

func (p *stubProvider) HealthCheck(ctx context.Context) error { return nil }

func (p *stubProvider) ListInstances(ctx context.Context, opts *provider.QueryOptions) (*model.InstanceList, error) {
	if p.listErr != nil {
		return nil, p.listErr
	}
	return p.list, nil
}

func (p *stubProvider) GetInstance(ctx context.Context, id string) (*model.Instance, error) {
	return nil, errors.New("not implemented")
}

func (p *stubProvider) StartInstance(ctx context.Context, id string) (string, error) {
	if p.actionErr != nil {
		return "", p.actionErr
	}
	return "op-start-" + id, nil
}

func (p *stubProvider) StopInstance(ctx context.Context, id string) (string, error) {
	if p.actionErr != nil {
		return "", p.actionErr
	}
	return "op-stop-" + id, nil
}

func testServer(t *testing.T, p provider.Provider, cred *config.Credential) *HTTPGinServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.AutoStartRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{}
	records := service.NewAutoStartRecordServiceWithDB(db)

	sm := &ServiceManager{
		config:     cfg,
		cred:       cred,
		provider:   p,
		controller: autostart.NewController(p, records, config.AutoStartConfig{}),
		records:    records,
		version:    "test",
		startedAt:  time.Now().Add(-2 * time.Hour),
	}

	return NewHTTPGinServer(cfg, sm)
}

func doRequest(s *HTTPGinServer, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestInstanceList(t *testing.T) {
	p := &stubProvider{list: &model.InstanceList{
		Instances: []*model.Instance{
			{ID: "i-1", Name: "vm-1", Status: "RUNNING"},
			{ID: "i-2", Name: "vm-2", Status: "STOPPED"},
		},
		NextPageToken: "tok-next",
	}}
	s := testServer(t, p, &config.Credential{FolderID: "folder-1"})

	w := doRequest(s, http.MethodGet, "/api/instances?page_size=10")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	body := decodeBody(t, w)
	instances := body["instances"].([]any)
	if len(instances) != 2 {
		t.Errorf("instances = %d, want 2", len(instances))
	}
	if body["nextPageToken"] != "tok-next" {
		t.Errorf("nextPageToken = %v", body["nextPageToken"])
	}
	if _, ok := body["error"]; ok {
		t.Error("error field present on success")
	}
}

func TestInstanceListDegradesOnProviderFailure(t *testing.T) {
	p := &stubProvider{listErr: errors.New("iam exchange failed")}
	s := testServer(t, p, &config.Credential{FolderID: "folder-1"})

	w := doRequest(s, http.MethodGet, "/api/instances")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even on failure", w.Code)
	}

	body := decodeBody(t, w)
	if body["error"] != "iam exchange failed" {
		t.Errorf("error = %v", body["error"])
	}
	if len(body["instances"].([]any)) != 0 {
		t.Errorf("instances = %v, want empty", body["instances"])
	}
	if body["nextPageToken"] != nil {
		t.Errorf("nextPageToken = %v, want null", body["nextPageToken"])
	}
}

func TestStatus(t *testing.T) {
	s := testServer(t, &stubProvider{}, &config.Credential{FolderID: "folder-1"})

	w := doRequest(s, http.MethodGet, "/api/status")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["status"] != "ok" || body["service"] != serviceName || body["version"] != "test" {
		t.Errorf("body = %v", body)
	}
	if body["folder_id"] != "folder-1" {
		t.Errorf("folder_id = %v", body["folder_id"])
	}
	if body["uptime"] != "2h 0m" {
		t.Errorf("uptime = %v", body["uptime"])
	}
	if _, err := time.Parse(time.RFC3339, body["started_at"].(string)); err != nil {
		t.Errorf("started_at not RFC3339: %v", body["started_at"])
	}
}

func TestInstanceStartStop(t *testing.T) {
	s := testServer(t, &stubProvider{}, &config.Credential{})

	w := doRequest(s, http.MethodPost, "/api/instances/i-1/start")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != true || body["operation_id"] != "op-start-i-1" || body["instance_id"] != "i-1" {
		t.Errorf("body = %v", body)
	}

	w = doRequest(s, http.MethodPost, "/api/instances/i-1/stop")
	body = decodeBody(t, w)
	if body["operation_id"] != "op-stop-i-1" {
		t.Errorf("body = %v", body)
	}
}

func TestInstanceActionFailure(t *testing.T) {
	s := testServer(t, &stubProvider{actionErr: errors.New("operation denied")}, &config.Credential{})

	w := doRequest(s, http.MethodPost, "/api/instances/i-1/start")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if decodeBody(t, w)["error"] != "operation denied" {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestAutoStartRunAndHistory(t *testing.T) {
	p := &stubProvider{list: &model.InstanceList{
		Instances: []*model.Instance{
			{ID: "i-1", Name: "vm-1", Status: "STOPPED"},
			{ID: "i-2", Name: "vm-2", Status: "RUNNING"},
		},
	}}
	s := testServer(t, p, &config.Credential{})

	w := doRequest(s, http.MethodPost, "/api/auto-start")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var result model.AutoStartResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.TotalStopped != 1 || len(result.Started) != 1 {
		t.Errorf("result = %+v", result)
	}

	w = doRequest(s, http.MethodGet, "/api/auto-start/history")
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d", w.Code)
	}
	body := decodeBody(t, w)
	records := body["records"].([]any)
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].(map[string]any)["trigger"] != model.TriggerManual {
		t.Errorf("trigger = %v", records[0])
	}
}

func TestURLSecretMount(t *testing.T) {
	s := testServer(t, &stubProvider{}, &config.Credential{URLSecret: "s3cret"})

	if w := doRequest(s, http.MethodGet, "/api/status"); w.Code != http.StatusNotFound {
		t.Errorf("unprefixed API status = %d, want 404", w.Code)
	}
	if w := doRequest(s, http.MethodGet, "/s3cret/api/status"); w.Code != http.StatusOK {
		t.Errorf("prefixed API status = %d, want 200", w.Code)
	}

	w := doRequest(s, http.MethodGet, "/")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "nginx") {
		t.Errorf("decoy page status %d, body %q", w.Code, w.Body.String())
	}

	w = doRequest(s, http.MethodGet, "/robots.txt")
	if !strings.Contains(w.Body.String(), "Disallow: /") {
		t.Errorf("robots.txt = %q", w.Body.String())
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{5 * time.Minute, "5m"},
		{90 * time.Minute, "1h 30m"},
		{26*time.Hour + 5*time.Minute, "1d 2h 5m"},
		{-time.Minute, "0m"},
	}

	for _, tt := range tests {
		if got := formatUptime(tt.d); got != tt.want {
			t.Errorf("formatUptime(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
