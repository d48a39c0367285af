package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/wheelibin/yadom/internal/capabilities"
	"github.com/wheelibin/yadom/internal/constants"
	"github.com/wheelibin/yadom/internal/models"
	"github.com/wheelibin/yadom/internal/views"
)

const backgroundColor = "#011922"
const headerBackgroundColor = "#1e7ba0"

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("229")).
	Background(lipgloss.Color(headerBackgroundColor)).
	Padding(0, 1)

var cellStyle = lipgloss.NewStyle().
	Background(lipgloss.Color(backgroundColor)).
	Padding(0, 1)

var offlineStyle = cellStyle.Copy().Foreground(lipgloss.Color("240"))

type Column struct {
	Title string
	Width int
}

// Table renders rows under a header inside a border. Column widths grow to
// fit the widest cell.
func Table(columns []Column, rows [][]string, dimmed func(row int) bool) string {
	widths := lo.Map(columns, func(c Column, i int) int {
		w := lo.Max([]int{c.Width, lipgloss.Width(c.Title)})
		for _, r := range rows {
			if i < len(r) {
				w = lo.Max([]int{w, lipgloss.Width(r[i])})
			}
		}
		return w
	})

	lines := []string{renderRow(headerStyle, widths, lo.Map(columns, func(c Column, _ int) string { return c.Title }))}
	for i, r := range rows {
		style := cellStyle
		if dimmed != nil && dimmed(i) {
			style = offlineStyle
		}
		lines = append(lines, renderRow(style, widths, r))
	}

	return baseStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderRow(style lipgloss.Style, widths []int, cells []string) string {
	rendered := lo.Map(widths, func(w int, i int) string {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		// width includes the padding
		return style.Copy().Width(w + 2).Render(cell)
	})
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// DeviceTable lists devices with their room and power state.
func DeviceTable(info *models.UserInfo) string {
	columns := []Column{
		{Title: "Device", Width: 10},
		{Title: "Room", Width: 8},
		{Title: "Kind", Width: 6},
		{Title: "State", Width: 7},
		{Title: "Power", Width: 5},
		{Title: "ID", Width: 8},
	}

	devices := lo.Filter(info.Devices, func(d models.Device, _ int) bool { return !views.IsHub(&d) })
	rows := lo.Map(devices, func(d models.Device, _ int) []string {
		return []string{
			lo.Ternary(d.Name != "", d.Name, "Device"),
			roomName(info, &d),
			views.Category(&d),
			lo.Ternary(d.IsOffline(), "offline", "online"),
			power(&d),
			d.ID,
		}
	})

	return Table(columns, rows, func(i int) bool { return devices[i].IsOffline() })
}

func RoomTable(info *models.UserInfo) string {
	columns := []Column{{Title: "Room", Width: 10}, {Title: "Devices", Width: 7}, {Title: "ID", Width: 8}}
	byRoom := lo.GroupBy(info.Devices, func(d models.Device) string { return d.RoomID() })
	rows := lo.Map(info.Rooms, func(r models.Room, _ int) []string {
		return []string{r.Name, strconv.Itoa(len(byRoom[r.ID])), r.ID}
	})
	return Table(columns, rows, nil)
}

func ScenarioTable(scenarios []models.Scenario) string {
	columns := []Column{{Title: "Scenario", Width: 10}, {Title: "Active", Width: 6}, {Title: "ID", Width: 8}}
	rows := lo.Map(scenarios, func(s models.Scenario, _ int) []string {
		return []string{s.Name, lo.Ternary(s.IsActive, "yes", "no"), s.ID}
	})
	return Table(columns, rows, func(i int) bool { return !scenarios[i].IsActive })
}

func roomName(info *models.UserInfo, d *models.Device) string {
	if d.RoomID() == "" {
		return "-"
	}
	return views.RoomName(info, d)
}

func power(d *models.Device) string {
	onOff := capabilities.NewIndex(d).First(constants.CapabilityOnOff)
	if onOff == nil {
		return "-"
	}
	return lo.Ternary(capabilities.ToBool(capabilities.StateValue(onOff)), "on", "off")
}
