package genius

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"albumpulse/internal/match"
)

// Hit is one search result from the song search endpoint.
type Hit struct {
	ID     int
	Title  string
	Artist string
	URL    string
}

// Song is the metadata for a single song page.
type Song struct {
	ID        int
	Title     string
	Artist    string
	URL       string
	AlbumName string
	AlbumURL  string
}

// Client talks to the Genius API (bearer-token auth) and fetches public
// pages for the content the API does not return.
type Client struct {
	token      string
	httpClient *http.Client

	// Overridable for testing
	apiURL string
}

// New creates a Genius client with the given API token.
func New(token string) *Client {
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     "https://api.genius.com",
	}
}

// Search runs a song search and returns at most limit hits.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	reqURL := fmt.Sprintf("%s/search?q=%s", c.apiURL, url.QueryEscape(query))
	var resp searchResponse
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("genius search failed: %w", err)
	}

	var hits []Hit
	for _, h := range resp.Response.Hits {
		if h.Result.ID == 0 {
			continue
		}
		hits = append(hits, Hit{
			ID:     h.Result.ID,
			Title:  h.Result.Title,
			Artist: h.Result.PrimaryArtist.Name,
			URL:    h.Result.URL,
		})
		if limit > 0 && len(hits) >= limit {
			break
		}
	}
	return hits, nil
}

// GetSong fetches full song metadata by id.
func (c *Client) GetSong(ctx context.Context, id int) (Song, error) {
	reqURL := fmt.Sprintf("%s/songs/%d?text_format=plain", c.apiURL, id)
	var resp songResponse
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return Song{}, fmt.Errorf("genius song lookup failed: %w", err)
	}

	s := resp.Response.Song
	song := Song{
		ID:     s.ID,
		Title:  s.Title,
		Artist: s.PrimaryArtist.Name,
		URL:    s.URL,
	}
	if s.Album != nil {
		song.AlbumName = s.Album.Name
		song.AlbumURL = s.Album.URL
	}
	return song, nil
}

// FindAlbumSong searches for any song off the album and returns its full
// metadata, which carries the album page URL. Search returns song hits, not
// albums, so a song is the bridge to the album page.
func (c *Client) FindAlbumSong(ctx context.Context, albumName, artistName string) (Song, error) {
	hits, err := c.Search(ctx, albumName+" "+artistName, 15)
	if err != nil {
		return Song{}, err
	}
	if len(hits) == 0 {
		return Song{}, fmt.Errorf("no search results for album %q by %q", albumName, artistName)
	}

	// Prefer hits whose primary artist matches, else take the first hit.
	chosen := hits[0]
	artistNorm := match.Normalize(artistName)
	for _, h := range hits {
		hitArtist := match.Normalize(h.Artist)
		if hitArtist == "" {
			continue
		}
		if strings.Contains(hitArtist, artistNorm) || strings.Contains(artistNorm, hitArtist) {
			chosen = h
			break
		}
	}

	return c.GetSong(ctx, chosen.ID)
}

// GetPage fetches a public page (album or song) and returns its HTML.
// Pages need no auth, only a browser-ish user agent.
func (c *Client) GetPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create page request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page %s returned status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read page body: %w", err)
	}
	return string(body), nil
}

const userAgent = "albumpulse/1.0"

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("returned status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Genius API response types

type searchResponse struct {
	Response struct {
		Hits []struct {
			Result struct {
				ID            int    `json:"id"`
				Title         string `json:"title"`
				URL           string `json:"url"`
				PrimaryArtist struct {
					Name string `json:"name"`
				} `json:"primary_artist"`
			} `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}

type songResponse struct {
	Response struct {
		Song struct {
			ID            int    `json:"id"`
			Title         string `json:"title"`
			URL           string `json:"url"`
			PrimaryArtist struct {
				Name string `json:"name"`
			} `json:"primary_artist"`
			Album *struct {
				Name string `json:"name"`
				URL  string `json:"url"`
			} `json:"album"`
		} `json:"song"`
	} `json:"response"`
}
