// Package wordpress publishes listings to WordPress sites over the REST API
// using application-password basic auth.
package wordpress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const userAgent = "KavelArchitectBot/0.1 (+contact)"

// Client is a thin WordPress REST client for one site.
type Client struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

func NewClient(baseURL, username, applicationPassword string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: applicationPassword,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// apiError is the WordPress REST error envelope.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status int   `json:"status"`
		TermID int64 `json:"term_id"`
	} `json:"data"`
}

func (c *Client) do(req *http.Request) ([]byte, *apiError, error) {
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		wpErr := &apiError{}
		if json.Unmarshal(body, wpErr) == nil && wpErr.Code != "" {
			return nil, wpErr, fmt.Errorf("wordpress error %s (status %d): %s", wpErr.Code, resp.StatusCode, wpErr.Message)
		}
		return nil, nil, fmt.Errorf("wordpress request failed, status code: %d", resp.StatusCode)
	}
	return body, nil, nil
}

func (c *Client) getJSON(path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	body, _, err := c.do(req)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func (c *Client) postJSON(path string, payload any, out any) (*apiError, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	body, wpErr, err := c.do(req)
	if err != nil {
		return wpErr, err
	}
	if out != nil {
		return nil, json.Unmarshal(body, out)
	}
	return nil, nil
}

// User is the authenticated REST user.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Whoami verifies the credentials by fetching the authenticated user.
func (c *Client) Whoami() (User, error) {
	var u User
	if err := c.getJSON("/wp-json/wp/v2/users/me", nil, &u); err != nil {
		return User{}, fmt.Errorf("authentication check failed: %w", err)
	}
	return u, nil
}

type category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EnsureCategory returns the id of the named category, creating it when it
// does not exist yet. A create that races into term_exists resolves to the
// existing term id from the error envelope.
func (c *Client) EnsureCategory(name string) (int64, error) {
	var items []category
	q := url.Values{"per_page": {"100"}, "search": {name}}
	if err := c.getJSON("/wp-json/wp/v2/categories", q, &items); err != nil {
		return 0, fmt.Errorf("failed to list categories: %w", err)
	}
	for _, it := range items {
		if strings.EqualFold(it.Name, name) {
			return it.ID, nil
		}
	}

	var created category
	wpErr, err := c.postJSON("/wp-json/wp/v2/categories", map[string]string{"name": name}, &created)
	if err != nil {
		if wpErr != nil && wpErr.Code == "term_exists" && wpErr.Data.TermID > 0 {
			return wpErr.Data.TermID, nil
		}
		return 0, fmt.Errorf("failed to create category %q: %w", name, err)
	}
	return created.ID, nil
}

type media struct {
	ID int64 `json:"id"`
}

// UploadMedia uploads a local file to the media library and returns its id.
func (c *Client) UploadMedia(path, title string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read media file: %w", err)
	}
	filename := filepath.Base(path)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return 0, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return 0, fmt.Errorf("failed to build upload form: %w", err)
	}
	if title != "" {
		if err := w.WriteField("title", title); err != nil {
			return 0, fmt.Errorf("failed to build upload form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("failed to build upload form: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/wp-json/wp/v2/media", &buf)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	body, _, err := c.do(req)
	if err != nil {
		return 0, fmt.Errorf("media upload failed: %w", err)
	}
	var m media
	if err := json.Unmarshal(body, &m); err != nil {
		return 0, fmt.Errorf("failed to parse media response: %w", err)
	}
	return m.ID, nil
}

// Post is a created post.
type Post struct {
	ID   int64  `json:"id"`
	Link string `json:"link"`
}

// PostRequest carries everything CreatePost sends.
type PostRequest struct {
	Title         string
	Content       string
	Status        string
	Categories    []int64
	FeaturedMedia int64
	ListingID     string
}

// CreatePost creates a post. The listing id travels as post meta so the site
// can be queried for it later.
func (c *Client) CreatePost(reqData PostRequest) (Post, error) {
	payload := map[string]any{
		"title":   reqData.Title,
		"content": reqData.Content,
		"status":  reqData.Status,
	}
	if len(reqData.Categories) > 0 {
		payload["categories"] = reqData.Categories
	}
	if reqData.FeaturedMedia > 0 {
		payload["featured_media"] = reqData.FeaturedMedia
	}
	if reqData.ListingID != "" {
		payload["meta"] = map[string]string{"funda_id": reqData.ListingID}
	}

	var post Post
	if _, err := c.postJSON("/wp-json/wp/v2/posts", payload, &post); err != nil {
		return Post{}, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}
