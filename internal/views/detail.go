package views

import (
	"github.com/chasefleming/elem-go"
	"github.com/chasefleming/elem-go/attrs"
	"github.com/samber/lo"
	"github.com/wheelibin/yadom/internal/capabilities"
	"github.com/wheelibin/yadom/internal/models"
)

// Detail is everything the device detail view shows.
type Detail struct {
	Device *models.Device
	Room   string
	// members of the group this device stands for
	Linked []models.Device
	// members of the groups the device belongs to, fetched on open
	GroupMembers []models.Device
	Error        string
}

func DetailView(v Detail) elem.Node {
	d := v.Device
	controls := capabilities.DetailControls(d)

	body := []elem.Node{
		elem.Div(attrs.Props{attrs.Class: "modal-header"},
			elem.Span(attrs.Props{attrs.Class: "device-icon"}, elem.Text(Icon(d.Type))),
			elem.H2(attrs.Props{attrs.Class: "modal-title"}, text(d.Name)),
			closeButton(),
		),
	}
	if v.Error != "" {
		body = append(body, errorBanner(v.Error))
	}
	if status := StatusText(d, v.Room); status != "" {
		body = append(body, elem.Div(attrs.Props{attrs.Class: "device-status"}, text(status)))
	}

	if len(controls) == 0 {
		body = append(body, elem.P(attrs.Props{attrs.Class: "muted"}, elem.Text("No controls for this device")))
	}
	for _, c := range controls {
		body = append(body, renderControl(d.ID, viewDetail, c))
	}

	if members := visibleMembers(v.Linked); len(members) > 0 {
		body = append(body, memberList("Devices", members))
	}
	if members := visibleMembers(lo.Filter(v.GroupMembers, func(m models.Device, _ int) bool { return m.ID != d.ID })); len(members) > 0 {
		body = append(body, memberList("Devices in group", members))
	}

	body = append(body, aboutBlock(d))

	return modal("device-modal", body...)
}

func visibleMembers(devices []models.Device) []models.Device {
	return lo.Filter(devices, func(m models.Device, _ int) bool { return !IsHub(&m) })
}

func memberList(title string, members []models.Device) elem.Node {
	items := lo.Map(members, func(m models.Device, _ int) elem.Node {
		return elem.Div(attrs.Props{
			attrs.Class:      "group-device-item",
			"data-device-id": esc(m.ID),
			"hx-get":         "/devices/" + esc(m.ID),
			"hx-target":      "#modal",
			"hx-swap":        "innerHTML",
		},
			elem.Span(attrs.Props{attrs.Class: "device-icon"}, elem.Text(Icon(m.Type))),
			elem.Span(attrs.Props{attrs.Class: "group-device-name"}, text(lo.Ternary(m.Name != "", m.Name, "Device"))),
			elem.Span(attrs.Props{attrs.Class: "group-device-arrow"}, elem.Text("›")),
		)
	})
	return elem.Div(attrs.Props{attrs.Class: "device-about"},
		elem.Div(attrs.Props{attrs.Class: "device-about-title"}, text(title)),
		elem.Div(attrs.Props{attrs.Class: "group-devices-list"}, items...),
	)
}

func aboutBlock(d *models.Device) elem.Node {
	rows := []elem.Node{elem.Div(attrs.Props{attrs.Class: "device-about-title"}, elem.Text("About"))}
	row := func(label string, value string) {
		rows = append(rows, elem.Div(attrs.Props{attrs.Class: "device-about-row"},
			elem.Span(attrs.Props{attrs.Class: "device-about-label"}, text(label)),
			elem.Span(attrs.Props{attrs.Class: "device-about-value"}, text(value)),
		))
	}

	if d.Info.Manufacturer != "" {
		row("Manufacturer", d.Info.Manufacturer)
	}
	if d.Info.Model != "" {
		row("Model", d.Info.Model)
	}
	row("Original name", d.Name)
	row("ID", d.ID)
	if fw := d.Firmware(); fw != "" {
		row("Firmware", fw)
	}

	return elem.Div(attrs.Props{attrs.Class: "device-about"}, rows...)
}

func modal(class string, children ...elem.Node) elem.Node {
	return elem.Div(attrs.Props{attrs.Class: "modal " + class},
		elem.Div(attrs.Props{attrs.Class: "modal-backdrop", "hx-on:click": "closeModal()"}),
		elem.Div(attrs.Props{attrs.Class: "modal-body"}, children...),
	)
}

func closeButton() elem.Node {
	return elem.Button(attrs.Props{attrs.Type: "button", attrs.Class: "modal-close", "hx-on:click": "closeModal()"}, elem.Text("×"))
}

func errorBanner(msg string) elem.Node {
	return elem.Div(attrs.Props{attrs.Class: "error-banner", "role": "alert"}, text(msg))
}
