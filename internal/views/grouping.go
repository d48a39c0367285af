package views

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/wheelibin/yadom/internal/constants"
	"github.com/wheelibin/yadom/internal/models"
)

const noRoomTitle = "No room"

// Section is one titled grid of device cards on the main screen.
type Section struct {
	Title   string
	Devices []models.Device
	// set for group sections, whose cards carry the group name as their room
	Group bool
}

type FilterCounts struct {
	Offline int
	Light   int
	TV      int
}

// Category buckets a device for the filter chips.
func Category(d *models.Device) string {
	t := strings.ToLower(d.Type)
	name := strings.ToLower(d.Name)
	switch {
	case strings.Contains(t, "light"), strings.Contains(t, "lamp"):
		return constants.CategoryLight
	case strings.Contains(t, "tv"), strings.Contains(t, "media"),
		strings.Contains(name, "тв"), strings.Contains(name, "колонк"):
		return constants.CategoryTV
	case strings.Contains(t, "socket"), strings.Contains(t, "switch"):
		return constants.CategorySocket
	case strings.Contains(t, "camera"):
		return constants.CategoryCamera
	}
	return constants.CategoryOther
}

// IsHub reports remotes and hubs, which are never shown as cards.
func IsHub(d *models.Device) bool {
	return strings.Contains(strings.ToLower(d.Type), "hub") || strings.Contains(strings.ToLower(d.Name), "пульт")
}

func MatchesFilter(d *models.Device, filter string) bool {
	switch filter {
	case constants.FilterOffline:
		return d.IsOffline()
	case constants.FilterLight:
		return Category(d) == constants.CategoryLight
	case constants.FilterTV:
		return Category(d) == constants.CategoryTV
	}
	return true
}

func CountFilters(info *models.UserInfo) FilterCounts {
	counts := FilterCounts{}
	for i := range info.Devices {
		d := &info.Devices[i]
		if IsHub(d) {
			continue
		}
		if d.IsOffline() {
			counts.Offline++
		}
		switch Category(d) {
		case constants.CategoryLight:
			counts.Light++
		case constants.CategoryTV:
			counts.TV++
		}
	}
	return counts
}

// Sections groups the visible devices by room name: devices without a room
// first, then rooms in name order, then one section per non-empty group.
func Sections(info *models.UserInfo, filter string) []Section {
	byRoom := map[string][]models.Device{}
	noRoom := []models.Device{}

	for i := range info.Devices {
		d := &info.Devices[i]
		if IsHub(d) || !MatchesFilter(d, filter) {
			continue
		}
		room := RoomName(info, d)
		if room == "" {
			noRoom = append(noRoom, *d)
			continue
		}
		byRoom[room] = append(byRoom[room], *d)
	}

	sections := []Section{}
	if len(noRoom) > 0 {
		sections = append(sections, Section{Title: noRoomTitle, Devices: noRoom})
	}

	names := lo.Keys(byRoom)
	sort.Strings(names)
	for _, name := range names {
		sections = append(sections, Section{Title: name, Devices: byRoom[name]})
	}

	for _, g := range info.Groups {
		if !(filter == constants.FilterAll || (filter == constants.FilterTV && isMediaGroup(g))) {
			continue
		}
		members := groupMembers(info, g)
		if len(members) == 0 {
			continue
		}
		sections = append(sections, Section{Title: lo.Ternary(g.Name != "", g.Name, "Group"), Devices: members, Group: true})
	}

	return sections
}

// RoomName falls back to the raw room id when the room is not listed.
func RoomName(info *models.UserInfo, d *models.Device) string {
	id := d.RoomID()
	if id == "" {
		return ""
	}
	if name := info.RoomName(id); name != "" {
		return name
	}
	return id
}

func isMediaGroup(g models.Group) bool {
	t := strings.ToLower(g.Type)
	return strings.Contains(t, "media") || strings.Contains(t, "tv") || strings.Contains(strings.ToLower(g.Name), "пульт")
}

// groupMembers resolves a group's member stubs against the device list.
func groupMembers(info *models.UserInfo, g models.Group) []models.Device {
	members := []models.Device{}
	for _, stub := range g.Devices {
		d, ok := info.DeviceByID(stub.ID)
		if !ok {
			d = &models.Device{ID: stub.ID, Name: lo.Ternary(stub.Name != "", stub.Name, "Device"), Type: stub.Type}
		}
		if IsHub(d) {
			continue
		}
		members = append(members, *d)
	}
	return members
}

// LinkedGroupMembers finds the group a device stands for (same id) or, for a
// device without group ids, the first group listing it, and returns the
// other members.
func LinkedGroupMembers(info *models.UserInfo, d *models.Device) []models.Device {
	if IsHub(d) {
		return nil
	}
	for _, g := range info.Groups {
		linked := g.ID == d.ID
		if !linked && len(d.GroupIDs) == 0 {
			linked = lo.ContainsBy(g.Devices, func(m models.Device) bool { return m.ID == d.ID })
		}
		if !linked {
			continue
		}
		return lo.Filter(groupMembers(info, g), func(m models.Device, _ int) bool { return m.ID != d.ID })
	}
	return nil
}

var typeIcons = map[string]string{
	"devices.types.light":                 "💡",
	"devices.types.socket":                "🔌",
	"devices.types.switch":                "🎚",
	"devices.types.thermostat":            "🌡",
	"devices.types.media_device":          "📺",
	"devices.types.media_device.tv":       "📺",
	"devices.types.media_device.tv_box":   "📦",
	"devices.types.media_device.receiver": "🎛",
	"devices.types.smart_speaker":         "🔊",
	"devices.types.humidifier":            "💧",
	"devices.types.vacuum_cleaner":        "🧹",
	"devices.types.purifier":              "🌬",
	"devices.types.cooking":               "🍳",
	"devices.types.openable":              "🚪",
	"devices.types.sensor":                "📟",
	"devices.types.camera":                "📷",
}

func Icon(deviceType string) string {
	return lo.ValueOr(typeIcons, deviceType, "🏠")
}

// StatusText is the single status line under a card title.
func StatusText(d *models.Device, room string) string {
	switch {
	case room == "":
		return "Set a room"
	case d.IsOffline():
		return "Offline"
	}
	return ""
}
