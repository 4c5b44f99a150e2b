// Package pubg provides a minimal client for the PUBG match and telemetry API.
package pubg

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pable/go-pubg-coach/internal/classify"
	"github.com/pable/go-pubg-coach/internal/model"
	"github.com/pable/go-pubg-coach/internal/telemetry"
)

// baseURL is the root endpoint of the PUBG API.
const baseURL = "https://api.pubg.com"

// Client is a minimal PUBG API client.
type Client struct {
	apiKey  string
	shard   string
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient returns a client for one platform shard ("steam", "kakao", ...).
func NewClient(apiKey, shard string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		apiKey:  apiKey,
		shard:   shard,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// WithBaseURL points the client at another API root.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

// Roster is one team of a match.
type Roster struct {
	TeamID  int
	Rank    int
	Won     bool
	Players []string
}

// Match holds the fields we need from /matches/{id}.
type Match struct {
	ID           string
	CreatedAt    time.Time
	Duration     time.Duration
	MapName      string
	GameMode     string
	TelemetryURL string
	Rosters      []Roster
}

// RankOf returns the placement of the roster that contains any of names.
func (m *Match) RankOf(names []string) (int, bool) {
	tracked := classify.NewRoster(names)
	for _, r := range m.Rosters {
		for _, p := range r.Players {
			if tracked.Contains(p) {
				return r.Rank, true
			}
		}
	}
	return 0, false
}

// matchDocument is the JSON:API envelope of /matches/{id}.
type matchDocument struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			CreatedAt time.Time `json:"createdAt"`
			Duration  int       `json:"duration"`
			MapName   string    `json:"mapName"`
			GameMode  string    `json:"gameMode"`
		} `json:"attributes"`
	} `json:"data"`
	Included []included `json:"included"`
}

type included struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Attributes struct {
		// asset
		URL  string `json:"URL"`
		Name string `json:"name"`
		// roster
		Won   string `json:"won"`
		Stats struct {
			Rank   int    `json:"rank"`
			TeamID int    `json:"teamId"`
			Name   string `json:"name"` // participant
		} `json:"stats"`
	} `json:"attributes"`
	Relationships struct {
		Participants struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"participants"`
	} `json:"relationships"`
}

// get performs an authenticated GET request against the API and
// JSON-decodes the response body into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/vnd.api+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetMatch returns a match with its rosters and telemetry asset URL.
func (c *Client) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	var doc matchDocument
	path := fmt.Sprintf("/shards/%s/matches/%s", c.shard, matchID)
	if err := c.get(ctx, path, &doc); err != nil {
		return nil, &telemetry.FetchError{Source: "match " + matchID, Err: err}
	}

	m := &Match{
		ID:        doc.Data.ID,
		CreatedAt: doc.Data.Attributes.CreatedAt,
		Duration:  time.Duration(doc.Data.Attributes.Duration) * time.Second,
		MapName:   doc.Data.Attributes.MapName,
		GameMode:  doc.Data.Attributes.GameMode,
	}

	names := make(map[string]string)
	for _, inc := range doc.Included {
		switch inc.Type {
		case "participant":
			names[inc.ID] = inc.Attributes.Stats.Name
		case "asset":
			if inc.Attributes.Name == "telemetry" || m.TelemetryURL == "" {
				m.TelemetryURL = inc.Attributes.URL
			}
		}
	}
	for _, inc := range doc.Included {
		if inc.Type != "roster" {
			continue
		}
		r := Roster{
			TeamID: inc.Attributes.Stats.TeamID,
			Rank:   inc.Attributes.Stats.Rank,
			Won:    inc.Attributes.Won == "true",
		}
		for _, p := range inc.Relationships.Participants.Data {
			if n := names[p.ID]; n != "" {
				r.Players = append(r.Players, n)
			}
		}
		m.Rosters = append(m.Rosters, r)
	}

	if m.TelemetryURL == "" {
		return nil, &telemetry.FetchError{Source: "match " + matchID, Err: fmt.Errorf("no telemetry asset")}
	}
	c.log.Debug("fetched match",
		zap.String("match_id", m.ID),
		zap.String("map", m.MapName),
		zap.Int("rosters", len(m.Rosters)),
	)
	return m, nil
}

// DownloadTelemetry fetches and decodes a telemetry asset. Any failure is a
// *telemetry.FetchError.
func (c *Client) DownloadTelemetry(ctx context.Context, url string) ([]model.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &telemetry.FetchError{Source: url, Err: err}
	}
	req.Header.Set("Accept-Encoding", "gzip")

	began := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &telemetry.FetchError{Source: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &telemetry.FetchError{Source: url, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	events, err := telemetry.Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	c.log.Info("downloaded telemetry",
		zap.Int("events", len(events)),
		zap.Duration("took", time.Since(began)),
	)
	return events, nil
}
