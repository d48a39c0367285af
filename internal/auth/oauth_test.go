package auth_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/yadom/internal/auth"
)

func Test_AuthorizeURL(t *testing.T) {

	t.Run("should request an implicit token grant", func(t *testing.T) {
		// arrange
		o := auth.NewOAuth("client-1", "", "http://localhost:8080/auth/callback")

		// act
		u, err := url.Parse(o.AuthorizeURL())

		// assert
		require.NoError(t, err)
		assert.Equal(t, "oauth.yandex.ru", u.Host)
		assert.Equal(t, "/authorize", u.Path)
		q := u.Query()
		assert.Equal(t, "token", q.Get("response_type"))
		assert.Equal(t, "client-1", q.Get("client_id"))
		assert.Equal(t, "http://localhost:8080/auth/callback", q.Get("redirect_uri"))
		assert.Equal(t, "yes", q.Get("force_confirm"))
	})

	t.Run("should report unconfigured without a client id", func(t *testing.T) {
		assert.False(t, auth.NewOAuth("", "", "").Configured())
		assert.True(t, auth.NewOAuth("abc", "", "").Configured())
	})

}

func Test_ParseFragment(t *testing.T) {

	t.Run("should read the access token", func(t *testing.T) {
		token, err := auth.ParseFragment("#access_token=y0_AgAAAA&token_type=bearer&expires_in=31536000")

		assert.NoError(t, err)
		assert.Equal(t, "y0_AgAAAA", token)
	})

	t.Run("should decode escaped values", func(t *testing.T) {
		token, err := auth.ParseFragment("access_token=a%2Bb+c")

		assert.NoError(t, err)
		assert.Equal(t, "a+b c", token)
	})

	t.Run("should return ErrNoToken when the fragment is empty", func(t *testing.T) {
		_, err := auth.ParseFragment("")

		assert.ErrorIs(t, err, auth.ErrNoToken)
	})

	t.Run("should return ErrNoToken when there is no access token", func(t *testing.T) {
		_, err := auth.ParseFragment("#state=xyz")

		assert.ErrorIs(t, err, auth.ErrNoToken)
	})

	t.Run("should surface an authorization error", func(t *testing.T) {
		_, err := auth.ParseFragment("#error=access_denied&error_description=User+denied")

		assert.EqualError(t, err, "authorization failed: User denied")
	})

}
