package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultAPIBase is the Steam Web API host.
const DefaultAPIBase = "https://api.steampowered.com"

// ErrNoProfile is returned when the Web API answers without a player entry
// for the requested Steam id.
var ErrNoProfile = errors.New("steam: no profile returned")

// Profile is the subset of a Steam player summary the application uses.
// AvatarURLs is ordered by ascending resolution (avatar, avatarmedium,
// avatarfull); entries the API left empty are omitted.
type Profile struct {
	SteamID     string
	PersonaName string
	RealName    string
	AvatarURLs  []string
}

// Client calls the Steam Web API. BaseURL and HTTPClient are overridable
// for tests.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a Web API client with a bounded HTTP client.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		BaseURL:    DefaultAPIBase,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// playerSummariesResponse mirrors the GetPlayerSummaries v2 envelope. Only
// the fields the application reads are unmarshalled.
type playerSummariesResponse struct {
	Response struct {
		Players []struct {
			SteamID      string `json:"steamid"`
			PersonaName  string `json:"personaname"`
			RealName     string `json:"realname"`
			Avatar       string `json:"avatar"`
			AvatarMedium string `json:"avatarmedium"`
			AvatarFull   string `json:"avatarfull"`
		} `json:"players"`
	} `json:"response"`
}

// PlayerSummary fetches the public profile of a Steam id via
// ISteamUser/GetPlayerSummaries.
func (c *Client) PlayerSummary(ctx context.Context, steamID string) (Profile, error) {
	q := url.Values{}
	q.Set("key", c.APIKey)
	q.Set("steamids", steamID)
	endpoint := c.BaseURL + "/ISteamUser/GetPlayerSummaries/v2/?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Profile{}, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("steam: player summaries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("steam: web api returned status %d", resp.StatusCode)
	}
	var payload playerSummariesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Profile{}, fmt.Errorf("steam: decode player summaries: %w", err)
	}
	if len(payload.Response.Players) == 0 {
		return Profile{}, ErrNoProfile
	}

	p := payload.Response.Players[0]
	prof := Profile{SteamID: p.SteamID, PersonaName: p.PersonaName, RealName: p.RealName}
	for _, u := range []string{p.Avatar, p.AvatarMedium, p.AvatarFull} {
		if u != "" {
			prof.AvatarURLs = append(prof.AvatarURLs, u)
		}
	}
	return prof, nil
}

// DisplayName selects the name stored for a profile: the persona name,
// falling back to the real name, falling back to a stable placeholder
// derived from the Steam id so the column is never empty.
func DisplayName(p Profile) string {
	if p.PersonaName != "" {
		return p.PersonaName
	}
	if p.RealName != "" {
		return p.RealName
	}
	return "player_" + p.SteamID
}

// BestAvatar picks the highest-resolution avatar URL from a list ordered
// by ascending resolution, i.e. the last element. Returns "" when the
// profile supplied no avatar images.
func BestAvatar(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return urls[len(urls)-1]
}
