package wordpress

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cejezed/kavelarchitect/models"
)

func TestWhoamiSendsBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "bot" || pass != "app-pass" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(User{ID: 7, Name: "bot"})
	}))
	defer srv.Close()

	u, err := NewClient(srv.URL, "bot", "app-pass").Whoami()
	if err != nil {
		t.Fatalf("Whoami() error = %v", err)
	}
	if u.ID != 7 {
		t.Errorf("user id = %d, want 7", u.ID)
	}
}

func TestWhoamiBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"code": "rest_not_logged_in", "message": "niet ingelogd",
		})
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "bot", "wrong").Whoami(); err == nil {
		t.Error("expected error on 401")
	}
}

func TestEnsureCategory(t *testing.T) {
	t.Run("existing match is case insensitive", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]category{{ID: 12, Name: "bouwgrond"}})
		}))
		defer srv.Close()

		id, err := NewClient(srv.URL, "u", "p").EnsureCategory("Bouwgrond")
		if err != nil {
			t.Fatalf("EnsureCategory() error = %v", err)
		}
		if id != 12 {
			t.Errorf("id = %d, want 12", id)
		}
	})

	t.Run("creates when absent", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				json.NewEncoder(w).Encode([]category{})
				return
			}
			var payload map[string]string
			json.NewDecoder(r.Body).Decode(&payload)
			if payload["name"] != "Bouwgrond" {
				t.Errorf("create name = %q", payload["name"])
			}
			json.NewEncoder(w).Encode(category{ID: 31, Name: "Bouwgrond"})
		}))
		defer srv.Close()

		id, err := NewClient(srv.URL, "u", "p").EnsureCategory("Bouwgrond")
		if err != nil {
			t.Fatalf("EnsureCategory() error = %v", err)
		}
		if id != 31 {
			t.Errorf("id = %d, want 31", id)
		}
	})

	t.Run("term_exists race resolves to existing id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				json.NewEncoder(w).Encode([]category{})
				return
			}
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{
				"code":    "term_exists",
				"message": "A term with the name provided already exists.",
				"data":    map[string]any{"status": 400, "term_id": 12},
			})
		}))
		defer srv.Close()

		id, err := NewClient(srv.URL, "u", "p").EnsureCategory("Bouwgrond")
		if err != nil {
			t.Fatalf("EnsureCategory() error = %v", err)
		}
		if id != 12 {
			t.Errorf("id = %d, want 12", id)
		}
	})
}

func TestUploadMedia(t *testing.T) {
	mapPath := filepath.Join(t.TempDir(), "map_52.70123_4.98345.png")
	if err := os.WriteFile(mapPath, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Disposition"); !strings.Contains(got, "map_52.70123_4.98345.png") {
			t.Errorf("Content-Disposition = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		if got := r.FormValue("title"); got != "Kaart – Spanbroek" {
			t.Errorf("title = %q", got)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("file part missing: %v", err)
		}
		defer file.Close()
		json.NewEncoder(w).Encode(media{ID: 99})
	}))
	defer srv.Close()

	id, err := NewClient(srv.URL, "u", "p").UploadMedia(mapPath, "Kaart – Spanbroek")
	if err != nil {
		t.Fatalf("UploadMedia() error = %v", err)
	}
	if id != 99 {
		t.Errorf("media id = %d, want 99", id)
	}
}

func TestSiteCreatePost(t *testing.T) {
	var postPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wp-json/wp/v2/users/me":
			json.NewEncoder(w).Encode(User{ID: 1})
		case "/wp-json/wp/v2/categories":
			json.NewEncoder(w).Encode([]category{{ID: 5, Name: "Bouwgrond"}})
		case "/wp-json/wp/v2/posts":
			json.NewDecoder(r.Body).Decode(&postPayload)
			json.NewEncoder(w).Encode(Post{ID: 123, Link: "https://example.test/?p=123"})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	site := NewSite(models.SiteConfig{
		BaseURL:             srv.URL,
		Username:            "bot",
		ApplicationPassword: "pw",
		Status:              "publish",
	})

	info, err := site.CreatePost("Nieuwe bouwgrond te koop: Dorpsstraat 12", "<p>body</p>", 99, "43107703")
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if info.ID != 123 || info.Link != "https://example.test/?p=123" {
		t.Errorf("post info = %+v", info)
	}

	if postPayload["status"] != "publish" {
		t.Errorf("status = %v", postPayload["status"])
	}
	if postPayload["featured_media"] != float64(99) {
		t.Errorf("featured_media = %v", postPayload["featured_media"])
	}
	meta, _ := postPayload["meta"].(map[string]any)
	if meta["funda_id"] != "43107703" {
		t.Errorf("meta = %v", postPayload["meta"])
	}
	cats, _ := postPayload["categories"].([]any)
	if len(cats) != 1 || cats[0] != float64(5) {
		t.Errorf("categories = %v", postPayload["categories"])
	}
}

func TestSiteCreatePostAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	site := NewSite(models.SiteConfig{BaseURL: srv.URL, Username: "bot", ApplicationPassword: "pw"})
	if _, err := site.CreatePost("t", "c", 0, ""); err == nil {
		t.Error("expected error when authentication fails")
	}
}

func TestSiteID(t *testing.T) {
	site := NewSite(models.SiteConfig{BaseURL: "https://www.zwijsen.net/"})
	if site.ID() != "www.zwijsen.net" {
		t.Errorf("ID() = %q", site.ID())
	}
}
