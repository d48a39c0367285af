package iot_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/yadom/internal/auth"
	"github.com/wheelibin/yadom/internal/iot"
	"github.com/wheelibin/yadom/internal/models"
	"golang.org/x/oauth2"
)

type tokenFunc func() (*oauth2.Token, error)

func (f tokenFunc) Token() (*oauth2.Token, error) { return f() }

func staticToken(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
}

func newService(t *testing.T, handler http.HandlerFunc, tokens oauth2.TokenSource) *iot.IotAPIService {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
	return iot.NewIotAPIService(logger, srv.URL+"/v1.0", tokens)
}

func Test_GetUserInfo(t *testing.T) {

	t.Run("should send the bearer token and decode the payload", func(t *testing.T) {
		// arrange
		var gotAuth, gotPath string
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"status": "ok", "devices": [{"id": "d1", "name": "Lamp"}], "rooms": [{"id": "r1", "name": "Hall"}]}`))
		}, staticToken("secret"))

		// act
		resp, err := svc.GetUserInfo(context.Background())

		// assert
		require.NoError(t, err)
		assert.Equal(t, "Bearer secret", gotAuth)
		assert.Equal(t, "/v1.0/user/info", gotPath)
		require.Len(t, resp.Devices, 1)
		assert.Equal(t, "Lamp", resp.Devices[0].Name)
		assert.Equal(t, "Hall", resp.Rooms[0].Name)
		assert.NotEmpty(t, resp.Raw)
	})

	t.Run("should classify a 401 as unauthorized", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message": "invalid token"}`))
		}, staticToken("stale"))

		_, err := svc.GetUserInfo(context.Background())

		assert.True(t, iot.IsUnauthorized(err))
		var apiErr *iot.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 401, apiErr.Status)
	})

	t.Run("should report a missing token as unauthorized without calling the service", func(t *testing.T) {
		called := false
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) { called = true }, tokenFunc(func() (*oauth2.Token, error) {
			return nil, auth.ErrNoToken
		}))

		_, err := svc.GetUserInfo(context.Background())

		assert.True(t, iot.IsUnauthorized(err))
		assert.False(t, called)
	})

	t.Run("should classify an error status with a json message", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"status": "error", "message": "backend down"}`))
		}, staticToken("t"))

		_, err := svc.GetUserInfo(context.Background())

		var apiErr *iot.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, iot.KindHTTP, apiErr.Kind)
		assert.Equal(t, "backend down", apiErr.Message)
		assert.Equal(t, "backend down", iot.UserMessage(err))
	})

	t.Run("should fall back to a status message when the error body has none", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{}`))
		}, staticToken("t"))

		_, err := svc.GetUserInfo(context.Background())

		assert.Equal(t, "Error 403", iot.UserMessage(err))
	})

	t.Run("should classify a non-json body as malformed", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		}, staticToken("t"))

		_, err := svc.GetUserInfo(context.Background())

		var apiErr *iot.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, iot.KindMalformed, apiErr.Kind)
		assert.Equal(t, "<html>bad gateway</html>", apiErr.Message)
	})

	t.Run("should classify a failed connection as a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
		svc := iot.NewIotAPIService(logger, srv.URL+"/v1.0", staticToken("t"))

		_, err := svc.GetUserInfo(context.Background())

		var apiErr *iot.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, iot.KindNetwork, apiErr.Kind)
		assert.Equal(t, "Network error", iot.UserMessage(err))
	})

}

func Test_SendDeviceActions(t *testing.T) {

	t.Run("should post a single device batch", func(t *testing.T) {
		// arrange
		var got map[string]any
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1.0/devices/actions", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &got)
			_, _ = w.Write([]byte(`{"status": "ok", "devices": [{"id": "d1", "capabilities": [
			  {"type": "devices.capabilities.on_off", "state": {"instance": "on", "action_result": {"status": "DONE"}}}]}]}`))
		}, staticToken("t"))

		// act
		_, err := svc.SendDeviceActions(context.Background(), "d1", []models.Action{{
			Type:  "devices.capabilities.on_off",
			State: models.ActionState{Instance: "on", Value: true},
		}})

		// assert
		require.NoError(t, err)
		want := map[string]any{"devices": []any{map[string]any{
			"id": "d1",
			"actions": []any{map[string]any{
				"type":  "devices.capabilities.on_off",
				"state": map[string]any{"instance": "on", "value": true},
			}},
		}}}
		assert.Equal(t, want, got)
	})

	t.Run("should translate device errors", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status": "ok", "devices": [{"id": "d1", "error_code": "DEVICE_UNREACHABLE"}]}`))
		}, staticToken("t"))

		_, err := svc.SendDeviceActions(context.Background(), "d1", nil)

		var apiErr *iot.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, iot.KindDevice, apiErr.Kind)
		assert.Equal(t, "Device is unreachable", iot.UserMessage(err))
	})

	t.Run("should report failed action results", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"devices": [{"id": "d1", "capabilities": [{"type": "devices.capabilities.range",
			  "state": {"instance": "brightness", "action_result": {"status": "ERROR", "error_code": "INVALID_VALUE"}}}]}]}`))
		}, staticToken("t"))

		_, err := svc.SendDeviceActions(context.Background(), "d1", nil)

		var apiErr *iot.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "INVALID_VALUE", apiErr.Code)
		assert.Equal(t, "INVALID_VALUE", iot.UserMessage(err))
	})

}

func Test_GetCameraStream(t *testing.T) {

	t.Run("should return the hls stream url", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), `"instance":"get_stream"`)
			assert.Contains(t, string(body), `"protocols":["hls"]`)
			_, _ = w.Write([]byte(`{"devices": [{"id": "cam", "capabilities": [{"type": "devices.capabilities.video_stream",
			  "state": {"instance": "get_stream", "value": {"stream_url": "https://cdn.example/live.m3u8", "protocol": "hls"}}}]}]}`))
		}, staticToken("t"))

		url, err := svc.GetCameraStream(context.Background(), "cam")

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example/live.m3u8", url)
	})

	t.Run("should fail when no stream url is returned", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"devices": [{"id": "cam", "capabilities": []}]}`))
		}, staticToken("t"))

		_, err := svc.GetCameraStream(context.Background(), "cam")

		assert.Equal(t, "Video stream unavailable", iot.UserMessage(err))
	})

}

func Test_GroupsAndScenarios(t *testing.T) {

	t.Run("should read a group with its devices", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1.0/groups/g1", r.URL.Path)
			_, _ = w.Write([]byte(`{"status": "ok", "id": "g1", "name": "All lights", "devices": [{"id": "d1", "name": "Lamp"}]}`))
		}, staticToken("t"))

		group, err := svc.GetGroup(context.Background(), "g1")

		require.NoError(t, err)
		assert.Equal(t, "All lights", group.Name)
		assert.Equal(t, "d1", group.Devices[0].ID)
	})

	t.Run("should trigger a scenario", func(t *testing.T) {
		var path string
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			_, _ = w.Write([]byte(`{"status": "ok"}`))
		}, staticToken("t"))

		err := svc.RunScenario(context.Background(), "sc1")

		assert.NoError(t, err)
		assert.Equal(t, "/v1.0/scenarios/sc1/actions", path)
	})

}

func Test_TranslateDeviceError(t *testing.T) {

	t.Run("should translate known codes regardless of case and spacing", func(t *testing.T) {
		assert.Equal(t, "Device not found", iot.TranslateDeviceError("device_not_found"))
		assert.Equal(t, "Device is offline", iot.TranslateDeviceError(" Device Offline "))
	})

	t.Run("should fall back to the raw code", func(t *testing.T) {
		assert.Equal(t, "SOMETHING_ELSE", iot.TranslateDeviceError("SOMETHING_ELSE"))
	})

}
