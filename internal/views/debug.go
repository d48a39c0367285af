package views

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Structure summarises the shape of a raw user info body.
type Structure struct {
	TopLevelKeys    []string `json:"topLevelKeys"`
	PayloadKeys     []string `json:"payloadKeys"`
	DevicesCount    int      `json:"devicesCount"`
	RoomsCount      int      `json:"roomsCount"`
	GroupsCount     int      `json:"groupsCount"`
	HousesCount     int      `json:"housesCount"`
	HouseholdsCount int      `json:"householdsCount"`
	DeviceList      []string `json:"deviceList"`
}

func Summarise(raw json.RawMessage) (Structure, error) {
	top := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &top); err != nil {
			return Structure{}, fmt.Errorf("error reading payload: %w", err)
		}
	}

	payload := top
	if p, ok := top["payload"]; ok {
		inner := map[string]json.RawMessage{}
		if err := json.Unmarshal(p, &inner); err == nil {
			payload = inner
		}
	}

	list := func(key string) []json.RawMessage {
		for _, src := range []map[string]json.RawMessage{payload, top} {
			items := []json.RawMessage{}
			if err := json.Unmarshal(src[key], &items); err == nil && len(items) > 0 {
				return items
			}
		}
		return nil
	}

	devices := list("devices")
	return Structure{
		TopLevelKeys:    sortedKeys(top),
		PayloadKeys:     sortedKeys(payload),
		DevicesCount:    len(devices),
		RoomsCount:      len(list("rooms")),
		GroupsCount:     len(list("groups")),
		HousesCount:     len(list("houses")),
		HouseholdsCount: len(list("households")),
		DeviceList: lo.Map(devices, func(item json.RawMessage, _ int) string {
			d := struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			}{}
			_ = json.Unmarshal(item, &d)
			return strings.TrimSpace(d.ID + " " + d.Name)
		}),
	}, nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

// PrettyJSON indents a body for display, leaving it alone if it is not JSON.
func PrettyJSON(raw []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return string(raw)
	}
	return out.String()
}
