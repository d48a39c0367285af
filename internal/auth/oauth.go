package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

var ErrNoToken = errors.New("no access token")

const DefaultAuthorizeURL = "https://oauth.yandex.ru/authorize"

// OAuth builds implicit-flow authorization links. The token comes back in the
// URL fragment, so there is no code exchange.
type OAuth struct {
	config oauth2.Config
}

func NewOAuth(clientID string, authorizeURL string, redirectURI string) *OAuth {
	if authorizeURL == "" {
		authorizeURL = DefaultAuthorizeURL
	}
	return &OAuth{config: oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURI,
		Endpoint:    oauth2.Endpoint{AuthURL: authorizeURL},
	}}
}

func (o *OAuth) Configured() bool {
	return o.config.ClientID != ""
}

func (o *OAuth) AuthorizeURL() string {
	return o.config.AuthCodeURL("",
		oauth2.SetAuthURLParam("response_type", "token"),
		oauth2.SetAuthURLParam("force_confirm", "yes"),
	)
}

// ParseFragment extracts the access token from an implicit-flow redirect
// fragment such as "#access_token=...&token_type=bearer&expires_in=31536000".
func ParseFragment(fragment string) (string, error) {
	fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	if fragment == "" {
		return "", ErrNoToken
	}

	params, err := url.ParseQuery(fragment)
	if err != nil {
		return "", fmt.Errorf("error parsing oauth fragment: %w", err)
	}

	if e := params.Get("error"); e != "" {
		if desc := params.Get("error_description"); desc != "" {
			return "", fmt.Errorf("authorization failed: %s", desc)
		}
		return "", fmt.Errorf("authorization failed: %s", e)
	}

	token := params.Get("access_token")
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
