package wordpress

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cejezed/kavelarchitect/models"
	"github.com/cejezed/kavelarchitect/pkg/pipeline"
)

// Site adapts one configured WordPress site to the pipeline's publish
// contract.
type Site struct {
	cfg    models.SiteConfig
	client *Client
	host   string

	// category ids are resolved on the first successful post and cached for
	// the rest of the run.
	categoryIDs []int64
}

func NewSite(cfg models.SiteConfig) *Site {
	if cfg.Status == "" {
		cfg.Status = "draft"
	}
	if len(cfg.CategoryNames) == 0 {
		cfg.CategoryNames = []string{"Bouwgrond"}
	}

	host := strings.TrimRight(cfg.BaseURL, "/")
	if u, err := url.Parse(cfg.BaseURL); err == nil && u.Host != "" {
		host = u.Host
	}

	return &Site{
		cfg:    cfg,
		client: NewClient(cfg.BaseURL, cfg.Username, cfg.ApplicationPassword),
		host:   host,
	}
}

func (s *Site) ID() string {
	return s.host
}

func (s *Site) UploadMedia(path, title string) (int64, error) {
	return s.client.UploadMedia(path, title)
}

// CreatePost verifies the credentials, resolves the configured categories and
// creates the post. Category resolution failure is not fatal; the post is
// then created uncategorised.
func (s *Site) CreatePost(title, content string, featuredMedia int64, listingID string) (pipeline.PostInfo, error) {
	if _, err := s.client.Whoami(); err != nil {
		return pipeline.PostInfo{}, fmt.Errorf("site %s: %w", s.host, err)
	}

	if s.categoryIDs == nil {
		ids := make([]int64, 0, len(s.cfg.CategoryNames))
		for _, name := range s.cfg.CategoryNames {
			id, err := s.client.EnsureCategory(name)
			if err != nil {
				ids = nil
				break
			}
			ids = append(ids, id)
		}
		s.categoryIDs = ids
	}

	post, err := s.client.CreatePost(PostRequest{
		Title:         title,
		Content:       content,
		Status:        s.cfg.Status,
		Categories:    s.categoryIDs,
		FeaturedMedia: featuredMedia,
		ListingID:     listingID,
	})
	if err != nil {
		return pipeline.PostInfo{}, fmt.Errorf("site %s: %w", s.host, err)
	}
	return pipeline.PostInfo{ID: post.ID, Link: post.Link}, nil
}
