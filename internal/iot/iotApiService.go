package iot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/yadom/internal/auth"
	"github.com/wheelibin/yadom/internal/constants"
	"github.com/wheelibin/yadom/internal/models"
	"golang.org/x/oauth2"
)

type IotAPIService struct {
	logger        *log.Logger
	client        *http.Client
	baseURL       string
	streamTimeout time.Duration
}

// NewIotAPIService creates a client for baseURL (origin plus api version,
// e.g. https://api.iot.yandex.net/v1.0). Each request is authorised with the
// token currently held by tokens.
func NewIotAPIService(logger *log.Logger, baseURL string, tokens oauth2.TokenSource) *IotAPIService {
	return &IotAPIService{
		logger: logger,
		client: &http.Client{
			Transport: &oauth2.Transport{Source: tokens, Base: http.DefaultTransport},
		},
		baseURL:       strings.TrimRight(baseURL, "/"),
		streamTimeout: constants.CameraStreamTimeout,
	}
}

func (s *IotAPIService) SetStreamTimeout(d time.Duration) {
	if d > 0 {
		s.streamTimeout = d
	}
}

func (s *IotAPIService) GET(ctx context.Context, path string) ([]byte, error) {
	return s.makeRequest(ctx, http.MethodGet, path, nil)
}

func (s *IotAPIService) POST(ctx context.Context, path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error encoding request body: %w", err)
	}
	return s.makeRequest(ctx, http.MethodPost, path, data)
}

func (s *IotAPIService) GetUserInfo(ctx context.Context) (*UserInfoResponse, error) {

	body, err := s.GET(ctx, "/user/info")
	if err != nil {
		return nil, err
	}

	respBody := UserInfoResponse{}
	if err := json.Unmarshal(body, &respBody); err != nil {
		return nil, &APIError{Kind: KindMalformed, Message: "invalid user info payload", Err: err}
	}
	respBody.Raw = body

	return &respBody, nil
}

// SendDeviceActions posts a single-device batch. Errors reported for the
// device inside a successful response come back as KindDevice.
func (s *IotAPIService) SendDeviceActions(ctx context.Context, deviceID string, actions []models.Action) (*ActionsResponse, error) {
	s.logger.Debug("sending device actions", "device", deviceID, "actions", actions)

	body, err := s.POST(ctx, "/devices/actions", ActionsRequest{
		Devices: []DeviceActions{{ID: deviceID, Actions: actions}},
	})
	if err != nil {
		return nil, err
	}

	respBody := ActionsResponse{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &respBody); err != nil {
			return nil, &APIError{Kind: KindMalformed, Message: "invalid action response", Err: err}
		}
	}

	if err := deviceError(respBody); err != nil {
		return &respBody, err
	}

	return &respBody, nil
}

func (s *IotAPIService) GetGroup(ctx context.Context, groupID string) (*GroupResponse, error) {

	body, err := s.GET(ctx, fmt.Sprintf("/groups/%s", groupID))
	if err != nil {
		return nil, err
	}

	respBody := GroupResponse{}
	if err := json.Unmarshal(body, &respBody); err != nil {
		return nil, &APIError{Kind: KindMalformed, Message: "invalid group response", Err: err}
	}

	return &respBody, nil
}

func (s *IotAPIService) RunScenario(ctx context.Context, scenarioID string) error {
	_, err := s.POST(ctx, fmt.Sprintf("/scenarios/%s/actions", scenarioID), struct{}{})
	return err
}

// GetCameraStream asks the camera for an HLS stream and returns its url.
func (s *IotAPIService) GetCameraStream(ctx context.Context, deviceID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.streamTimeout)
	defer cancel()

	resp, err := s.SendDeviceActions(ctx, deviceID, []models.Action{{
		Type: constants.CapabilityVideoStream,
		State: models.ActionState{
			Instance: constants.InstanceGetStream,
			Value:    map[string]any{"protocols": []string{"hls"}},
		},
	}})
	if err != nil {
		return "", err
	}

	for _, dev := range resp.Devices {
		for _, c := range dev.Capabilities {
			if c.Type != constants.CapabilityVideoStream || c.State == nil {
				continue
			}
			if v, ok := c.State.Value.(map[string]any); ok {
				if url, ok := v["stream_url"].(string); ok && url != "" {
					return url, nil
				}
			}
		}
	}

	return "", &APIError{Kind: KindDevice, Message: "Video stream unavailable"}
}

func deviceError(resp ActionsResponse) error {
	for _, dev := range resp.Devices {
		if dev.ErrorCode != "" || dev.ErrorMessage != "" {
			msg := dev.ErrorMessage
			if msg == "" {
				msg = dev.ErrorCode
			}
			return &APIError{Kind: KindDevice, Code: dev.ErrorCode, Message: TranslateDeviceError(msg)}
		}
		for _, c := range dev.Capabilities {
			if c.State == nil || c.State.ActionResult == nil || c.State.ActionResult.Status != "ERROR" {
				continue
			}
			ar := c.State.ActionResult
			msg := ar.ErrorMessage
			if msg == "" {
				msg = ar.ErrorCode
			}
			if msg == "" {
				msg = "Action failed"
			}
			return &APIError{Kind: KindDevice, Code: ar.ErrorCode, Message: TranslateDeviceError(msg)}
		}
	}
	return nil
}

func (s *IotAPIService) makeRequest(ctx context.Context, verb string, path string, body []byte) ([]byte, error) {

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, verb, s.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	// make the request
	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, auth.ErrNoToken) {
			return nil, &APIError{Kind: KindUnauthorized, Message: "no access token", Err: err}
		}
		s.logger.Error("Error making IoT API call", "path", path, "err", err)
		return nil, &APIError{Kind: KindNetwork, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Status: resp.StatusCode, Message: err.Error(), Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		s.logger.Warn("IoT API rejected the token", "path", path)
		return nil, &APIError{Kind: KindUnauthorized, Status: resp.StatusCode, Message: errorMessage(responseBody, resp.StatusCode)}
	}

	trimmed := bytes.TrimSpace(responseBody)
	if len(trimmed) > 0 && !json.Valid(trimmed) {
		msg := string(trimmed)
		return nil, &APIError{Kind: KindMalformed, Status: resp.StatusCode, Message: msg}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Error("Error making IoT API call", "path", path, "status", resp.Status)
		return nil, &APIError{Kind: KindHTTP, Status: resp.StatusCode, Message: errorMessage(responseBody, resp.StatusCode)}
	}

	return trimmed, nil
}

// errorMessage pulls "message" or "error" out of an error body
func errorMessage(body []byte, status int) string {
	var result struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if err := json.Unmarshal(body, &result); err == nil {
		if msg, ok := result.Message.(string); ok && msg != "" {
			return msg
		}
		if msg, ok := result.Error.(string); ok && msg != "" {
			return msg
		}
	} else {
		var plain string
		if err := json.Unmarshal(body, &plain); err == nil && plain != "" {
			return plain
		}
	}
	return fmt.Sprintf("Error %d", status)
}
