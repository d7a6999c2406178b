package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"

	"mediastash/internal/catalog"
	"mediastash/internal/gallery"
	"mediastash/internal/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	cat, err := catalog.NewStore(filepath.Join(t.TempDir(), "catalog.json"))
	if err != nil {
		t.Fatalf("Failed to create catalog: %v", err)
	}

	app := &App{
		Gallery:       gallery.NewService(st, cat),
		Storage:       st,
		MaxUploadSize: 110 << 20,
	}

	ts := httptest.NewServer(NewRouter(app))
	t.Cleanup(ts.Close)
	return ts
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][3]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("Failed to write field: %v", err)
		}
	}

	// files maps field name to {filename, content type, content}.
	for field, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, f[0]))
		h.Set("Content-Type", f[1])
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("Failed to create part: %v", err)
		}
		if _, err := part.Write([]byte(f[2])); err != nil {
			t.Fatalf("Failed to write part: %v", err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestVideoUploadAndFetch(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartBody(t,
		map[string]string{"title": "Test Video", "description": "A test"},
		map[string][3]string{"video": {"clip.mp4", "video/mp4", "fake mp4 content"}},
	)

	resp, err := http.Post(ts.URL+"/api/videos", contentType, body)
	if err != nil {
		t.Fatalf("Upload request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	var created map[string]string
	decodeJSON(t, resp, &created)
	if created["id"] == "" {
		t.Fatal("Response carries no id")
	}

	resp, err = http.Get(ts.URL + "/api/videos/" + created["id"])
	if err != nil {
		t.Fatalf("Fetch request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var video struct {
		Title    string `json:"title"`
		Filename string `json:"video"`
	}
	decodeJSON(t, resp, &video)
	if video.Title != "Test Video" || video.Filename == "" {
		t.Errorf("Unexpected video payload: %+v", video)
	}
}

func TestVideoUploadValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		fields map[string]string
		files  map[string][3]string
	}{
		{
			name:   "missing title",
			fields: map[string]string{"description": "d"},
			files:  map[string][3]string{"video": {"clip.mp4", "video/mp4", "x"}},
		},
		{
			name:   "missing file",
			fields: map[string]string{"title": "t", "description": "d"},
		},
		{
			name:   "wrong extension",
			fields: map[string]string{"title": "t", "description": "d"},
			files:  map[string][3]string{"video": {"clip.exe", "video/mp4", "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.fields, tt.files)
			resp, err := http.Post(ts.URL+"/api/videos", contentType, body)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestImageUploadAndContentPassthrough(t *testing.T) {
	ts := newTestServer(t)

	content := "fake png bytes"
	body, contentType := multipartBody(t, nil,
		map[string][3]string{"image": {"photo.png", "image/png", content}})

	resp, err := http.Post(ts.URL+"/api/images", contentType, body)
	if err != nil {
		t.Fatalf("Upload request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	var created map[string]string
	decodeJSON(t, resp, &created)
	filename := created["filename"]
	if filename == "" {
		t.Fatal("Response carries no blob reference")
	}

	resp, err = http.Get(ts.URL + "/content/" + filename)
	if err != nil {
		t.Fatalf("Content request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	served, _ := io.ReadAll(resp.Body)
	if string(served) != content {
		t.Errorf("Served blob differs from uploaded bytes")
	}
}

func TestListImagesIsIdempotent(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartBody(t, nil,
		map[string][3]string{"image": {"photo.jpg", "image/jpeg", "x"}})
	resp, err := http.Post(ts.URL+"/api/images", contentType, body)
	if err != nil {
		t.Fatalf("Upload request failed: %v", err)
	}
	resp.Body.Close()

	read := func() string {
		resp, err := http.Get(ts.URL + "/api/images")
		if err != nil {
			t.Fatalf("List request failed: %v", err)
		}
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		return string(data)
	}

	if first, second := read(), read(); first != second {
		t.Errorf("Consecutive list responses differ:\n%s\n%s", first, second)
	}
}

func TestPasteRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/pastes", "application/json",
		strings.NewReader(`{"title":"Hello","code":"print(1)"}`))
	if err != nil {
		t.Fatalf("Create request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	var created map[string]string
	decodeJSON(t, resp, &created)

	resp, err = http.Get(ts.URL + "/api/pastes/" + created["id"])
	if err != nil {
		t.Fatalf("Fetch request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var paste struct {
		Title string `json:"title"`
		Code  string `json:"code"`
	}
	decodeJSON(t, resp, &paste)
	if paste.Title != "Hello" || paste.Code != "print(1)" {
		t.Errorf("Round trip mutated payload: %+v", paste)
	}
}

func TestCommentFlow(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartBody(t,
		map[string]string{"title": "t", "description": "d"},
		map[string][3]string{"video": {"clip.mp4", "video/mp4", "x"}})
	resp, err := http.Post(ts.URL+"/api/videos", contentType, body)
	if err != nil {
		t.Fatalf("Upload request failed: %v", err)
	}
	var created map[string]string
	decodeJSON(t, resp, &created)

	resp, err = http.Post(ts.URL+"/api/videos/"+created["id"]+"/comments", "application/json",
		strings.NewReader(`{"name":"Alice","text":"Nice"}`))
	if err != nil {
		t.Fatalf("Comment request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/api/videos/nonexistent-id/comments", "application/json",
		strings.NewReader(`{"name":"A","text":"B"}`))
	if err != nil {
		t.Fatalf("Comment request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown video, got %d", resp.StatusCode)
	}
}

func TestGetVideoNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/videos/nonexistent-id")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
}

func TestToggleDarkModeEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/settings/dark-mode", "", nil)
	if err != nil {
		t.Fatalf("Toggle request failed: %v", err)
	}
	var settings struct {
		DarkMode bool `json:"darkMode"`
	}
	decodeJSON(t, resp, &settings)
	if settings.DarkMode {
		t.Errorf("Expected darkMode false after first toggle")
	}

	resp, err = http.Get(ts.URL + "/api/settings")
	if err != nil {
		t.Fatalf("Settings request failed: %v", err)
	}
	decodeJSON(t, resp, &settings)
	if settings.DarkMode {
		t.Errorf("Toggle was not persisted")
	}
}
