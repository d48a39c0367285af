package iot

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	// no response was received
	KindNetwork ErrorKind = "network"
	// the service answered with a 4xx/5xx status
	KindHTTP ErrorKind = "http"
	// the body could not be parsed as JSON
	KindMalformed ErrorKind = "malformed"
	// a device inside an otherwise successful batch reported an error
	KindDevice ErrorKind = "device"
	// the token was rejected or is missing
	KindUnauthorized ErrorKind = "unauthorized"
)

var ErrUnauthorized = errors.New("unauthorized")

// APIError is the single error shape returned by the api client.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s error (%d): %s", e.Kind, e.Status, e.Message)
	case e.Code != "":
		return fmt.Sprintf("%s error (%s): %s", e.Kind, e.Code, e.Message)
	default:
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Kind == KindUnauthorized
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

var deviceErrorMessages = map[string]string{
	"device_unreachable": "Device is unreachable",
	"device_not_found":   "Device not found",
	"device_offline":     "Device is offline",
}

// TranslateDeviceError maps a device error code to a readable message,
// returning the code itself when it is not known.
func TranslateDeviceError(code string) string {
	key := strings.ToLower(strings.Join(strings.Fields(code), "_"))
	if msg, ok := deviceErrorMessages[key]; ok {
		return msg
	}
	return code
}

// UserMessage turns any error from the client into text for the dashboard.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	switch apiErr.Kind {
	case KindNetwork:
		return "Network error"
	case KindUnauthorized:
		return "The access token is no longer valid, please sign in again"
	case KindDevice:
		return TranslateDeviceError(apiErr.Message)
	default:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("Error %d", apiErr.Status)
	}
}
