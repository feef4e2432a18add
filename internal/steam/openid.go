// Package steam adapts the Steam identity provider: the OpenID 2.0 login
// handshake and the Web API call that resolves a Steam id into profile
// fields. No third-party package covers OpenID 2.0 (it predates OAuth2 and
// golang.org/x/oauth2 does not apply), so the handshake is implemented
// directly over net/http.
package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const openidNS = "http://specs.openid.net/auth/2.0"

// DefaultEndpoint is Steam's OpenID provider endpoint.
const DefaultEndpoint = "https://steamcommunity.com/openid/login"

// claimedIDPattern matches the claimed_id Steam returns, capturing the
// 64-bit Steam id from its final path segment.
var claimedIDPattern = regexp.MustCompile(`^https?://steamcommunity\.com/openid/id/(\d{17})$`)

// ErrNotVerified is returned when the provider refuses to confirm the
// assertion (is_valid:false) or the callback is malformed.
var ErrNotVerified = errors.New("steam: assertion not verified")

// OpenID performs the redirect-based login handshake with Steam. Realm is
// the public base URL of this service, ReturnTo the absolute callback URL.
// Endpoint and HTTPClient exist so tests can point at a fake provider.
type OpenID struct {
	Realm      string
	ReturnTo   string
	Endpoint   string
	HTTPClient *http.Client
}

// NewOpenID builds an OpenID handshake helper against the real Steam
// endpoint with a bounded HTTP client.
func NewOpenID(realm, returnTo string) *OpenID {
	return &OpenID{
		Realm:      realm,
		ReturnTo:   returnTo,
		Endpoint:   DefaultEndpoint,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// LoginURL returns the URL the browser is redirected to so the user can
// authenticate against Steam. identifier_select lets Steam pick the
// identity; the actual Steam id arrives in the callback's claimed_id.
func (o *OpenID) LoginURL() string {
	q := url.Values{}
	q.Set("openid.ns", openidNS)
	q.Set("openid.mode", "checkid_setup")
	q.Set("openid.return_to", o.ReturnTo)
	q.Set("openid.realm", o.Realm)
	q.Set("openid.identity", openidNS+"/identifier_select")
	q.Set("openid.claimed_id", openidNS+"/identifier_select")
	return o.Endpoint + "?" + q.Encode()
}

// Verify validates the positive assertion Steam sent to the callback URL
// and returns the authenticated 64-bit Steam id. The assertion parameters
// are posted back to the provider with mode check_authentication; only a
// response containing is_valid:true is accepted, which stops forged
// callbacks that merely look well-formed.
func (o *OpenID) Verify(ctx context.Context, params url.Values) (string, error) {
	if params.Get("openid.mode") != "id_res" {
		return "", ErrNotVerified
	}
	m := claimedIDPattern.FindStringSubmatch(params.Get("openid.claimed_id"))
	if m == nil {
		return "", ErrNotVerified
	}
	steamID := m[1]

	check := url.Values{}
	for k, vs := range params {
		if strings.HasPrefix(k, "openid.") && len(vs) > 0 {
			check.Set(k, vs[0])
		}
	}
	check.Set("openid.mode", "check_authentication")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.Endpoint,
		strings.NewReader(check.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("steam: check_authentication: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("steam: provider returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", err
	}
	// Key-value form response, one "key:value" pair per line.
	for _, line := range strings.Split(string(body), "\n") {
		if strings.TrimSpace(line) == "is_valid:true" {
			return steamID, nil
		}
	}
	return "", ErrNotVerified
}
