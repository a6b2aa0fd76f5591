package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Playlist is one playlist hit from a channel search.
type Playlist struct {
	ID    string
	Title string
}

// PlaylistItem is one video entry inside a playlist.
type PlaylistItem struct {
	VideoID      string
	Title        string
	ChannelTitle string
	PublishedAt  string
}

// Stats is a single engagement reading for a video. Likes and comments can
// be hidden per video, in which case they are nil.
type Stats struct {
	Views    int64
	Likes    *int64
	Comments *int64
}

// Client talks to the YouTube Data API v3 with API-key auth.
type Client struct {
	key        string
	httpClient *http.Client

	// Overridable for testing
	apiURL string
}

// New creates a YouTube client with the given API key.
func New(key string) *Client {
	return &Client{
		key:        key,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     "https://www.googleapis.com/youtube/v3",
	}
}

// The videos endpoint accepts at most 50 ids per call.
const batchSize = 50

// SearchPlaylists searches a channel's playlists for the given query.
func (c *Client) SearchPlaylists(ctx context.Context, channelID, query string) ([]Playlist, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("channelId", channelID)
	params.Set("q", query)
	params.Set("type", "playlist")
	params.Set("maxResults", "10")

	var resp searchResponse
	if err := c.getJSON(ctx, "/search", params, &resp); err != nil {
		return nil, fmt.Errorf("playlist search failed: %w", err)
	}

	var playlists []Playlist
	for _, item := range resp.Items {
		if item.ID.PlaylistID == "" {
			continue
		}
		playlists = append(playlists, Playlist{
			ID:    item.ID.PlaylistID,
			Title: item.Snippet.Title,
		})
	}
	return playlists, nil
}

// PlaylistItems returns every video in a playlist, following nextPageToken
// until the listing is exhausted.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	var items []PlaylistItem
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("part", "snippet,contentDetails")
		params.Set("playlistId", playlistID)
		params.Set("maxResults", "50")
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp playlistItemsResponse
		if err := c.getJSON(ctx, "/playlistItems", params, &resp); err != nil {
			return nil, fmt.Errorf("playlist items fetch failed: %w", err)
		}

		for _, item := range resp.Items {
			if item.ContentDetails.VideoID == "" {
				continue
			}
			items = append(items, PlaylistItem{
				VideoID:      item.ContentDetails.VideoID,
				Title:        item.Snippet.Title,
				ChannelTitle: item.Snippet.ChannelTitle,
				PublishedAt:  item.Snippet.PublishedAt,
			})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return items, nil
}

// VideoDurations fetches contentDetails for the given ids and returns the
// duration of each. Ids the API does not return are absent from the map.
func (c *Client) VideoDurations(ctx context.Context, videoIDs []string) (map[string]time.Duration, error) {
	durations := make(map[string]time.Duration, len(videoIDs))

	for _, batch := range batches(videoIDs) {
		params := url.Values{}
		params.Set("part", "contentDetails")
		params.Set("id", strings.Join(batch, ","))

		var resp videosResponse
		if err := c.getJSON(ctx, "/videos", params, &resp); err != nil {
			return nil, fmt.Errorf("video durations fetch failed: %w", err)
		}

		for _, item := range resp.Items {
			d, err := ParseDuration(item.ContentDetails.Duration)
			if err != nil {
				continue
			}
			durations[item.ID] = d
		}
	}
	return durations, nil
}

// VideoStats fetches the statistics part for the given ids.
func (c *Client) VideoStats(ctx context.Context, videoIDs []string) (map[string]Stats, error) {
	stats := make(map[string]Stats, len(videoIDs))

	for _, batch := range batches(videoIDs) {
		params := url.Values{}
		params.Set("part", "statistics")
		params.Set("id", strings.Join(batch, ","))

		var resp videosResponse
		if err := c.getJSON(ctx, "/videos", params, &resp); err != nil {
			return nil, fmt.Errorf("video stats fetch failed: %w", err)
		}

		for _, item := range resp.Items {
			s := Stats{Views: parseCount(item.Statistics.ViewCount)}
			if item.Statistics.LikeCount != "" {
				likes := parseCount(item.Statistics.LikeCount)
				s.Likes = &likes
			}
			if item.Statistics.CommentCount != "" {
				comments := parseCount(item.Statistics.CommentCount)
				s.Comments = &comments
			}
			stats[item.ID] = s
		}
	}
	return stats, nil
}

func batches(ids []string) [][]string {
	var out [][]string
	for i := 0; i < len(ids); i += batchSize {
		end := i + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		out = append(out, ids[i:end])
	}
	return out
}

// The API serves counts as decimal strings.
func parseCount(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

// ParseDuration parses the ISO-8601 durations the API uses, e.g. PT4M13S,
// PT1H2M3S, P1DT2H, PT0S.
func ParseDuration(iso string) (time.Duration, error) {
	rest, ok := strings.CutPrefix(iso, "P")
	if !ok {
		return 0, fmt.Errorf("invalid duration %q", iso)
	}

	var total time.Duration
	inTime := false
	num := ""
	for _, r := range rest {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
			continue
		case r == 'T':
			inTime = true
			continue
		}

		n, err := strconv.Atoi(num)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", iso)
		}
		num = ""

		switch {
		case r == 'D' && !inTime:
			total += time.Duration(n) * 24 * time.Hour
		case r == 'H' && inTime:
			total += time.Duration(n) * time.Hour
		case r == 'M' && inTime:
			total += time.Duration(n) * time.Minute
		case r == 'S' && inTime:
			total += time.Duration(n) * time.Second
		default:
			return 0, fmt.Errorf("invalid duration %q", iso)
		}
	}
	if num != "" {
		return 0, fmt.Errorf("invalid duration %q", iso)
	}
	return total, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.key)
	reqURL := c.apiURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

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

// YouTube Data API response types

type searchResponse struct {
	Items []struct {
		ID struct {
			PlaylistID string `json:"playlistId"`
		} `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}
