package iot

import (
	"encoding/json"

	"github.com/wheelibin/yadom/internal/models"
)

// GET /user/info. Some deployments wrap the body in "payload", others
// return it at the top level.
type UserInfoResponse struct {
	Status    string           `json:"status"`
	RequestID string           `json:"request_id"`
	Payload   *UserInfoPayload `json:"payload"`
	UserInfoPayload

	// the body as received, kept for the debug view
	Raw json.RawMessage `json:"-"`
}

type UserInfoPayload struct {
	Houses     []House           `json:"houses"`
	Households []Household       `json:"households"`
	Devices    []models.Device   `json:"devices"`
	Rooms      []Room            `json:"rooms"`
	Groups     []models.Group    `json:"groups"`
	Scenarios  []models.Scenario `json:"scenarios"`
}

type House struct {
	ID          string          `json:"id"`
	HouseholdID string          `json:"household_id"`
	Name        string          `json:"name"`
	Devices     []models.Device `json:"devices"`
	Rooms       []Room          `json:"rooms"`
	Groups      []models.Group  `json:"groups"`
}

type Household struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Devices []models.Device `json:"devices"`
}

// a room as delivered, its devices may be full objects or bare ids
type Room struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	HouseholdID string          `json:"household_id"`
	Devices     []models.Device `json:"devices"`
}

// POST /devices/actions
type ActionsRequest struct {
	Devices []DeviceActions `json:"devices"`
}

type DeviceActions struct {
	ID      string          `json:"id"`
	Actions []models.Action `json:"actions"`
}

type ActionsResponse struct {
	Status    string               `json:"status"`
	RequestID string               `json:"request_id"`
	Devices   []DeviceActionResult `json:"devices"`
}

type DeviceActionResult struct {
	ID           string              `json:"id"`
	ErrorCode    string              `json:"error_code"`
	ErrorMessage string              `json:"error_message"`
	Capabilities []models.Capability `json:"capabilities"`
}

// GET /groups/{id}
type GroupResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
	models.Group
}
