package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/shake-in-im/render"
	"github.com/hoshinonyaruko/shake-in-im/session"
	"github.com/hoshinonyaruko/shake-in-im/snake"
	"github.com/hoshinonyaruko/shake-in-im/structs"
)

type testServer struct {
	router    *gin.Engine
	sessions  *session.Manager
	staticDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	staticDir := t.TempDir()
	// 一小时一跳，测试里手动 Step
	sessions := session.NewManager(context.Background(), time.Hour, snake.WithEgg(30))
	t.Cleanup(sessions.Close)

	router := gin.New()
	Register(router, sessions, &render.Renderer{BlockSize: 4}, Options{
		SelfPath:  "http://localhost:38870",
		StaticDir: staticDir,
		Width:     8,
		Height:    8,
		MaxWidth:  32,
		MaxHeight: 24,
	})
	return &testServer{router: router, sessions: sessions, staticDir: staticDir}
}

func (ts *testServer) get(t *testing.T, url string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	ts.router.ServeHTTP(w, req)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("GET %s: invalid JSON %q", url, w.Body.String())
	}
	return w, body
}

func TestRenderMapCreatesGame(t *testing.T) {
	ts := newTestServer(t)

	w, body := ts.get(t, "/render-map?groupid=g1")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %v", w.Code, body)
	}
	if body["image_url"] != "http://localhost:38870/static/g1.png" {
		t.Errorf("Unexpected image_url %v", body["image_url"])
	}
	if body["status"] != "playing" {
		t.Errorf("Expected status playing, got %v", body["status"])
	}
	if _, err := os.Stat(filepath.Join(ts.staticDir, "g1.png")); err != nil {
		t.Errorf("Expected rendered file, got %v", err)
	}
	if _, ok := ts.sessions.Get("g1"); !ok {
		t.Error("Expected session created")
	}
}

func TestRenderMapValidation(t *testing.T) {
	ts := newTestServer(t)

	for _, url := range []string{
		"/render-map",
		"/render-map?groupid=../etc",
		"/render-map?groupid=g1&width=abc",
		"/render-map?groupid=g1&width=0",
		"/render-map?groupid=g1&height=-2",
		"/render-map?groupid=g1&width=33",
		"/render-map?groupid=g1&height=25",
		"/render-map?groupid=g1&width=20000&height=20000",
		"/render-map?groupid=g1&width=3000000000&height=4000000000",
	} {
		if w, _ := ts.get(t, url); w.Code != http.StatusBadRequest {
			t.Errorf("GET %s: expected 400, got %d", url, w.Code)
		}
	}
}

func TestRenderMapAtLimit(t *testing.T) {
	ts := newTestServer(t)

	if w, body := ts.get(t, "/render-map?groupid=big&width=32&height=24"); w.Code != http.StatusOK {
		t.Fatalf("Expected 200 at the size limit, got %d: %v", w.Code, body)
	}
	s, ok := ts.sessions.Get("big")
	if !ok {
		t.Fatal("Expected session created")
	}
	if v := s.View(); v.Width != 32 || v.Height != 24 {
		t.Errorf("Expected 32x24 board, got %dx%d", v.Width, v.Height)
	}
}

func TestUpdateDirection(t *testing.T) {
	ts := newTestServer(t)
	ts.get(t, "/render-map?groupid=g1")

	w, body := ts.get(t, "/update-direction?groupid=g1&command=down")
	if w.Code != http.StatusOK || body["command"] != "down" {
		t.Fatalf("Expected accepted down, got %d %v", w.Code, body)
	}

	s, _ := ts.sessions.Get("g1")
	s.Step()
	if head := s.View().Head; head != 10 {
		t.Errorf("Expected head 10 after turning down, got %d", head)
	}

	// 兼容旧参数名
	if w, _ := ts.get(t, "/update-direction?groupid=g1&direction=left"); w.Code != http.StatusOK {
		t.Errorf("Expected direction alias accepted, got %d", w.Code)
	}
}

func TestUpdateDirectionErrors(t *testing.T) {
	ts := newTestServer(t)
	ts.get(t, "/render-map?groupid=g1")

	if w, _ := ts.get(t, "/update-direction?groupid=g1"); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without command, got %d", w.Code)
	}
	if w, _ := ts.get(t, "/update-direction?groupid=nope&command=up"); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown group, got %d", w.Code)
	}
	w, body := ts.get(t, "/update-direction?groupid=g1&command=jump")
	if w.Code != http.StatusOK || body["message"] != "Command ignored" {
		t.Errorf("Expected unknown command ignored, got %d %v", w.Code, body)
	}
}

func TestPauseViaAPI(t *testing.T) {
	ts := newTestServer(t)
	ts.get(t, "/render-map?groupid=g1")

	_, body := ts.get(t, "/update-direction?groupid=g1&command=pause")
	if body["status"] != "paused" {
		t.Errorf("Expected paused, got %v", body["status"])
	}
	_, body = ts.get(t, "/update-direction?groupid=g1&command=pause")
	if body["status"] != "playing" {
		t.Errorf("Expected playing, got %v", body["status"])
	}
}

func TestSnapshot(t *testing.T) {
	ts := newTestServer(t)
	ts.get(t, "/render-map?groupid=g1")

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/snapshot?groupid=g1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var view structs.View
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Width != 8 || len(view.Cells) != 64 {
		t.Errorf("Unexpected view %dx%d with %d cells", view.Width, view.Height, len(view.Cells))
	}
	if view.Cells[30] != structs.LabelEgg || view.Status != structs.Playing {
		t.Errorf("Expected egg at 30 and playing, got %s %v", view.Cells[30], view.Status)
	}

	if w, _ := ts.get(t, "/snapshot?groupid=nope"); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
	for _, url := range []string{"/snapshot", "/snapshot?groupid=..", "/snapshot?groupid=a/b"} {
		if w, _ := ts.get(t, url); w.Code != http.StatusBadRequest {
			t.Errorf("GET %s: expected 400, got %d", url, w.Code)
		}
	}
}

func TestDeleteMap(t *testing.T) {
	ts := newTestServer(t)
	ts.get(t, "/render-map?groupid=g1")

	if w, _ := ts.get(t, "/delete-map?groupid=g1"); w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if w, _ := ts.get(t, "/delete-map?groupid=g1"); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on second delete, got %d", w.Code)
	}
	for _, url := range []string{"/delete-map", "/delete-map?groupid=..", "/delete-map?groupid=a/b"} {
		if w, _ := ts.get(t, url); w.Code != http.StatusBadRequest {
			t.Errorf("GET %s: expected 400, got %d", url, w.Code)
		}
	}
}
