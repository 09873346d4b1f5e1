package ingest

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
)

type sitemapURLSet struct {
	URLs []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

// fetchSitemap downloads a sitemap.xml and returns its page URLs, already
// filtered down to content pages.
func fetchSitemap(ctx context.Context, client *http.Client, sitemapURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching sitemap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching sitemap: status %d", resp.StatusCode)
	}

	var set sitemapURLSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing sitemap: %w", err)
	}

	var out []string
	for _, u := range set.URLs {
		loc := strings.TrimSpace(u.Loc)
		if isContentURL(loc) {
			out = append(out, loc)
		}
	}
	return out, nil
}

// assetExtensions are sitemap entries that are not pages worth indexing.
var assetExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".svg": true,
	".webp": true, ".ico": true, ".css": true, ".js": true, ".woff": true,
	".woff2": true, ".ttf": true, ".mp4": true, ".zip": true,
}

// skipPathParts mark utility pages with no knowledge content.
var skipPathParts = []string{"/login", "/logout", "/admin", "/cart", "/search"}

func isContentURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if assetExtensions[strings.ToLower(path.Ext(u.Path))] {
		return false
	}
	lower := strings.ToLower(u.Path)
	for _, part := range skipPathParts {
		if strings.Contains(lower, part) {
			return false
		}
	}
	return true
}
