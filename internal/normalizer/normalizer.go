package normalizer

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"github.com/wheelibin/yadom/internal/iot"
	"github.com/wheelibin/yadom/internal/models"
)

// Normalize parses a user info body and flattens it. Only a body that is not
// JSON at all is an error, missing sections simply come back empty.
func Normalize(body []byte) (*models.UserInfo, error) {
	resp := iot.UserInfoResponse{}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("error parsing user info: %w", err)
	}
	return NormalizeResponse(&resp), nil
}

// NormalizeResponse reconciles devices nested under houses, rooms,
// households and groups into one list. The first occurrence of an id wins,
// later copies are dropped. Sources are read in order:
//
//	houses (direct devices, then each room's devices)
//	the flat device list
//	households
//	group member stubs
func NormalizeResponse(resp *iot.UserInfoResponse) *models.UserInfo {
	raw := resp.Payload
	if raw == nil {
		raw = &resp.UserInfoPayload
	}

	n := &normalizer{seen: map[string]bool{}, devices: []models.Device{}, roomOf: map[string]string{}}
	info := &models.UserInfo{
		Devices:   []models.Device{},
		Rooms:     []models.Room{},
		Groups:    []models.Group{},
		Scenarios: []models.Scenario{},
	}

	for _, house := range raw.Houses {
		hhID := lo.Ternary(house.ID != "", house.ID, house.HouseholdID)

		for _, d := range house.Devices {
			n.add(d, hhID)
		}
		info.Groups = append(info.Groups, house.Groups...)
		for _, room := range house.Rooms {
			info.Rooms = append(info.Rooms, toRoom(room, hhID))
			n.member(room)
			for _, d := range room.Devices {
				n.add(d, hhID)
			}
		}
	}

	for _, d := range raw.Devices {
		n.add(d, "")
	}

	for _, hh := range raw.Households {
		for _, d := range hh.Devices {
			n.add(d, hh.ID)
		}
	}

	if len(info.Rooms) == 0 {
		info.Rooms = lo.Map(raw.Rooms, func(r iot.Room, _ int) models.Room { return toRoom(r, "") })
	}
	if len(info.Groups) == 0 {
		info.Groups = append(info.Groups, raw.Groups...)
	}

	for _, g := range info.Groups {
		for _, d := range g.Devices {
			n.add(d, g.HouseholdID)
		}
	}

	for _, room := range raw.Rooms {
		n.member(room)
	}

	// devices that do not name a room take it from the room that lists them
	for i := range n.devices {
		d := &n.devices[i]
		if roomID, ok := n.roomOf[d.ID]; ok && len(d.RoomIDs) == 0 {
			d.RoomIDs = []string{roomID}
		}
	}

	info.Devices = n.devices
	info.Rooms = lo.Filter(info.Rooms, func(r models.Room, _ int) bool { return r.ID != "" })
	info.Groups = lo.Filter(info.Groups, func(g models.Group, _ int) bool { return g.ID != "" })
	info.Scenarios = lo.Filter(raw.Scenarios, func(s models.Scenario, _ int) bool { return s.ID != "" })
	if info.Scenarios == nil {
		info.Scenarios = []models.Scenario{}
	}

	return info
}

type normalizer struct {
	seen    map[string]bool
	devices []models.Device
	roomOf  map[string]string
}

func (n *normalizer) member(room iot.Room) {
	if room.ID == "" {
		return
	}
	for _, d := range room.Devices {
		if _, exists := n.roomOf[d.ID]; !exists && d.ID != "" {
			n.roomOf[d.ID] = room.ID
		}
	}
}

func (n *normalizer) add(d models.Device, householdID string) {
	// bare id references only describe membership
	if d.ID == "" || d.Ref {
		return
	}
	if n.seen[d.ID] {
		return
	}
	n.seen[d.ID] = true

	if d.HouseholdID == "" {
		d.HouseholdID = householdID
	}
	n.devices = append(n.devices, d)
}

func toRoom(r iot.Room, householdID string) models.Room {
	return models.Room{
		ID:          r.ID,
		Name:        r.Name,
		HouseholdID: lo.Ternary(r.HouseholdID != "", r.HouseholdID, householdID),
	}
}
