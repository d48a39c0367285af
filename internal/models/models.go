package models

import (
	"bytes"
	"encoding/json"
	"sync"
)

// a smart-home device as reported by the iot api
type Device struct {
	ID           string       `json:"id"`
	Name         string       `json:"name,omitempty"`
	Type         string       `json:"type,omitempty"`
	State        string       `json:"state,omitempty"`
	HouseholdID  string       `json:"household_id,omitempty"`
	RoomIDs      []string     `json:"room_ids,omitempty"`
	GroupIDs     []string     `json:"group_ids,omitempty"`
	Capabilities []Capability `json:"capabilities,omitempty"`
	Properties   []Property   `json:"properties,omitempty"`
	Info         DeviceInfo   `json:"device_info"`

	// the entry was a bare id reference rather than a device object
	Ref bool `json:"-"`
}

type DeviceInfo struct {
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	HWVersion    string `json:"hw_version,omitempty"`
	SWVersion    string `json:"sw_version,omitempty"`
}

type Capability struct {
	Type        string               `json:"type"`
	Retrievable bool                 `json:"retrievable,omitempty"`
	Parameters  CapabilityParameters `json:"parameters"`
	State       *CapabilityState     `json:"state,omitempty"`
}

type CapabilityState struct {
	Instance     string        `json:"instance,omitempty"`
	Value        any           `json:"value"`
	ActionResult *ActionResult `json:"action_result,omitempty"`
}

type CapabilityParameters struct {
	Instance     string            `json:"instance,omitempty"`
	Unit         string            `json:"unit,omitempty"`
	Range        *Range            `json:"range,omitempty"`
	Modes        ModeList          `json:"modes,omitempty"`
	ColorModel   string            `json:"color_model,omitempty"`
	TemperatureK *Range            `json:"temperature_k,omitempty"`
	Palette      []json.RawMessage `json:"palette,omitempty"`
	Protocols    []string          `json:"protocols,omitempty"`
}

type Range struct {
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Precision float64 `json:"precision,omitempty"`
}

type Mode struct {
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
}

// ModeList accepts either a list of modes (objects or plain strings) or an
// object mapping mode values to display names.
type ModeList []Mode

type Property struct {
	Type       string             `json:"type"`
	Parameters PropertyParameters `json:"parameters"`
	State      *PropertyState     `json:"state,omitempty"`
}

type PropertyParameters struct {
	Instance string `json:"instance,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

type PropertyState struct {
	Instance string `json:"instance,omitempty"`
	Value    any    `json:"value"`
}

type Room struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	HouseholdID string `json:"household_id,omitempty"`
}

// a named group of devices, members are embedded stubs
type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	HouseholdID string   `json:"household_id,omitempty"`
	Devices     []Device `json:"devices,omitempty"`
}

type Scenario struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active,omitempty"`
}

// the normalized snapshot of everything the user can see
type UserInfo struct {
	Devices   []Device   `json:"devices"`
	Rooms     []Room     `json:"rooms"`
	Groups    []Group    `json:"groups"`
	Scenarios []Scenario `json:"scenarios"`

	indexOnce sync.Once
	index     map[string]*Device
}

// DeviceByID looks a device up through an index built on first use.
func (u *UserInfo) DeviceByID(id string) (*Device, bool) {
	u.indexOnce.Do(func() {
		u.index = make(map[string]*Device, len(u.Devices))
		for i := range u.Devices {
			u.index[u.Devices[i].ID] = &u.Devices[i]
		}
	})
	d, ok := u.index[id]
	return d, ok
}

// RoomName returns the name of the room with the given id, falling back to the id.
func (u *UserInfo) RoomName(id string) string {
	for _, r := range u.Rooms {
		if r.ID == id {
			return r.Name
		}
	}
	return id
}

type Action struct {
	Type  string      `json:"type"`
	State ActionState `json:"state"`
}

type ActionState struct {
	Instance string `json:"instance"`
	Value    any    `json:"value"`
}

type HSV struct {
	H int `json:"h"`
	S int `json:"s"`
	V int `json:"v"`
}

type ActionResult struct {
	Status       string `json:"status"`
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// device fields are decoded one at a time so that a single oddly typed
// field or capability never costs the device its id
type deviceWire map[string]json.RawMessage

func (w deviceWire) str(key string) string {
	var s string
	if err := json.Unmarshal(w[key], &s); err != nil {
		return ""
	}
	return s
}

func (w deviceWire) ids(keys ...string) []string {
	for _, key := range keys {
		if ids := parseIDs(w[key]); len(ids) > 0 {
			return ids
		}
	}
	return nil
}

// entries decodes each element of a list on its own, dropping the ones that fail
func entries[T any](raw json.RawMessage) []T {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func (d *Device) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*d = Device{ID: id, Ref: true}
		return nil
	}

	// anything that is not an object is left without an id and skipped later
	var w deviceWire
	if len(data) == 0 || data[0] != '{' || json.Unmarshal(data, &w) != nil {
		*d = Device{}
		return nil
	}

	*d = Device{
		ID:          w.str("id"),
		Name:        w.str("name"),
		Type:        w.str("type"),
		State:       w.str("state"),
		HouseholdID: w.str("household_id"),
		// room membership has been seen under several keys
		RoomIDs:  w.ids("room_ids", "room", "rooms"),
		GroupIDs: w.ids("group_ids", "groups"),
	}
	if caps := entries[Capability](w["capabilities"]); len(caps) > 0 {
		d.Capabilities = caps
	}
	if props := entries[Property](w["properties"]); len(props) > 0 {
		d.Properties = props
	}

	if raw, ok := w["device_info"]; ok {
		info := deviceWire{}
		if err := json.Unmarshal(raw, &info); err == nil {
			d.Info = DeviceInfo{
				Manufacturer: info.str("manufacturer"),
				Model:        info.str("model"),
				HWVersion:    info.str("hw_version"),
				SWVersion:    info.str("sw_version"),
			}
		}
	}
	if m := w.str("manufacturer"); m != "" {
		d.Info.Manufacturer = m
	} else if d.Info.Manufacturer == "" {
		d.Info.Manufacturer = w.str("brand")
	}
	if m := w.str("model"); m != "" {
		d.Info.Model = m
	}
	if fw := w.str("firmware_version"); fw != "" {
		d.Info.SWVersion = fw
	} else if fw := w.str("firmware"); fw != "" && d.Info.SWVersion == "" {
		d.Info.SWVersion = fw
	}

	return nil
}

// Firmware returns the best available firmware version string.
func (d Device) Firmware() string {
	if d.Info.SWVersion != "" {
		return d.Info.SWVersion
	}
	return d.Info.HWVersion
}

// RoomID returns the first room the device belongs to.
func (d Device) RoomID() string {
	if len(d.RoomIDs) == 0 {
		return ""
	}
	return d.RoomIDs[0]
}

func (d Device) IsOffline() bool {
	return d.State == "offline"
}

// parseIDs reads a string, an {"id": ...} object, or a list of either
func parseIDs(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "" {
			return nil
		}
		return []string{single}
	}

	if raw[0] == '{' {
		var obj struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil || obj.ID == "" {
			return nil
		}
		return []string{obj.ID}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	ids := []string{}
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s != "" {
				ids = append(ids, s)
			}
			continue
		}
		var obj struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.ID != "" {
			ids = append(ids, obj.ID)
		}
	}
	return ids
}

func (m *ModeList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = nil
		return nil
	}

	if data[0] == '{' {
		// decode token by token so the declared order survives
		dec := json.NewDecoder(bytes.NewReader(data))
		if _, err := dec.Token(); err != nil {
			return err
		}
		modes := ModeList{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			var val any
			if err := dec.Decode(&val); err != nil {
				return err
			}
			key, _ := keyTok.(string)
			if name, ok := val.(string); ok && key != "" {
				modes = append(modes, Mode{Value: key, Name: name})
			}
		}
		*m = modes
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	modes := ModeList{}
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s != "" {
				modes = append(modes, Mode{Value: s, Name: s})
			}
			continue
		}
		var obj struct {
			Value string `json:"value"`
			ID    string `json:"id"`
			Name  string `json:"name"`
			Title string `json:"title"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			continue
		}
		value := obj.Value
		if value == "" {
			value = obj.ID
		}
		if value == "" {
			continue
		}
		name := obj.Name
		if name == "" {
			name = obj.Title
		}
		if name == "" {
			name = value
		}
		modes = append(modes, Mode{Value: value, Name: name})
	}
	*m = modes
	return nil
}
