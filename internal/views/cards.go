package views

import (
	"fmt"
	"html"
	"math"

	"github.com/chasefleming/elem-go"
	"github.com/chasefleming/elem-go/attrs"
	"github.com/wheelibin/yadom/internal/capabilities"
	"github.com/wheelibin/yadom/internal/models"
)

// where an action response is rendered
const (
	viewCard   = "card"
	viewDetail = "detail"
)

func text(s string) elem.TextNode {
	return elem.Text(html.EscapeString(s))
}

func esc(s string) string {
	return html.EscapeString(s)
}

func deviceDOMID(id string) string {
	return "device-" + esc(id)
}

// DeviceCard renders a device tile with its compact controls.
func DeviceCard(d *models.Device, room string) elem.Node {
	controls := capabilities.CardControls(d)

	class := "device-card"
	if d.IsOffline() {
		class += " offline"
	}

	var power elem.Node = elem.Text("")
	var rest []elem.Node
	for _, c := range controls {
		if c.Kind == capabilities.ControlPower {
			power = powerButton(d.ID, c)
			continue
		}
		rest = append(rest, renderControl(d.ID, viewCard, c))
	}
	if len(rest) > 0 {
		class += " has-controls"
	}

	// cameras open their stream, everything else the detail view
	open := "/devices/" + esc(d.ID)
	if capabilities.IsCamera(d) {
		open += "/camera"
	}

	children := []elem.Node{
		power,
		elem.Div(attrs.Props{
			attrs.Class: "device-head",
			"hx-get":    open,
			"hx-target": "#modal",
			"hx-swap":   "innerHTML",
		},
			elem.Div(attrs.Props{attrs.Class: "device-icon"}, elem.Text(Icon(d.Type))),
			elem.Div(attrs.Props{attrs.Class: "device-name"}, text(d.Name)),
		),
	}
	if status := StatusText(d, room); status != "" {
		children = append(children, elem.Div(attrs.Props{attrs.Class: "device-status"}, text(status)))
	}
	if len(rest) > 0 {
		children = append(children, elem.Div(attrs.Props{attrs.Class: "card-controls"}, rest...))
	}

	return elem.Div(attrs.Props{
		attrs.ID:         deviceDOMID(d.ID),
		attrs.Class:      class,
		"data-device-id": esc(d.ID),
	}, children...)
}

// actionForm wraps inputs in a form posting one interaction for a device.
func actionForm(deviceID string, view string, c capabilities.Control, props attrs.Props, children ...elem.Node) elem.Node {
	target := "#content"
	if view == viewDetail {
		target = "#modal"
	}
	p := attrs.Props{
		attrs.Class: "action-form",
		"hx-post":   "/devices/" + esc(deviceID) + "/actions",
		"hx-target": target,
		"hx-swap":   "innerHTML",
	}
	for k, v := range props {
		p[k] = v
	}

	hidden := []elem.Node{
		elem.Input(attrs.Props{attrs.Type: "hidden", attrs.Name: "kind", attrs.Value: string(c.Action)}),
		elem.Input(attrs.Props{attrs.Type: "hidden", attrs.Name: "instance", attrs.Value: esc(c.Instance)}),
		elem.Input(attrs.Props{attrs.Type: "hidden", attrs.Name: "view", attrs.Value: view}),
	}
	if c.ColorModel != "" {
		hidden = append(hidden, elem.Input(attrs.Props{attrs.Type: "hidden", attrs.Name: "color_model", attrs.Value: esc(c.ColorModel)}))
	}

	return elem.Form(p, append(hidden, children...)...)
}

func valueButton(class string, value string, title string, label elem.Node) elem.Node {
	return elem.Button(attrs.Props{
		attrs.Type:  "submit",
		attrs.Class: class,
		attrs.Name:  "value",
		attrs.Value: esc(value),
		attrs.Title: esc(title),
	}, label)
}

func powerButton(deviceID string, c capabilities.Control) elem.Node {
	return actionForm(deviceID, viewCard, c, attrs.Props{attrs.Class: "action-form power-form"},
		valueButton(classIf("power-btn", "on", c.Active), c.Next, c.Label, elem.Text("⏻")),
	)
}

func renderControl(deviceID string, view string, c capabilities.Control) elem.Node {
	switch c.Kind {

	case capabilities.ControlPower:
		return powerButton(deviceID, c)

	case capabilities.ControlOnOff:
		return controlRow(c.Label, actionForm(deviceID, view, c, attrs.Props{},
			valueButton(classIf("mode-btn", "active", c.Active), "true", "On", elem.Text("On")),
			valueButton(classIf("mode-btn", "active", !c.Active), "false", "Off", elem.Text("Off")),
		))

	case capabilities.ControlToggle:
		return controlRow(c.Label, actionForm(deviceID, view, c, attrs.Props{},
			valueButton(classIf("toggle-switch", "on", c.Active), c.Next, c.Label, elem.Span(attrs.Props{attrs.Class: "toggle-knob"})),
		))

	case capabilities.ControlSlider:
		return actionForm(deviceID, view, c, attrs.Props{"hx-trigger": "change"},
			elem.Div(attrs.Props{attrs.Class: "slider-wrap"},
				elem.Span(attrs.Props{attrs.Class: "control-label"}, text(fmt.Sprintf("%s: %s%s", c.Label, capabilities.FormatNumber(c.Current), c.Unit))),
				elem.Input(attrs.Props{
					attrs.Type:  "range",
					attrs.Class: "slider",
					attrs.Name:  "value",
					attrs.Min:   capabilities.FormatNumber(c.Min),
					attrs.Max:   capabilities.FormatNumber(c.Max),
					attrs.Step:  capabilities.FormatNumber(c.Step),
					attrs.Value: capabilities.FormatNumber(c.Current),
				}),
			),
		)

	case capabilities.ControlSwatches:
		swatches := make([]elem.Node, 0, len(c.Swatches))
		for _, hex := range c.Swatches {
			swatches = append(swatches, elem.Button(attrs.Props{
				attrs.Type:  "submit",
				attrs.Class: "color-btn",
				attrs.Name:  "value",
				attrs.Value: esc(hex),
				attrs.Title: esc(hex),
				attrs.Style: "background:" + esc(hex),
			}))
		}
		return controlRow(c.Label, actionForm(deviceID, view, c, attrs.Props{attrs.Class: "action-form color-presets"}, swatches...))

	case capabilities.ControlModeButtons:
		buttons := make([]elem.Node, 0, len(c.Options))
		for _, o := range c.Options {
			buttons = append(buttons, valueButton(classIf("mode-btn", "active", o.Selected), o.Value, o.Label, text(o.Label)))
		}
		return actionForm(deviceID, view, c, attrs.Props{attrs.Class: "action-form mode-row"}, buttons...)

	case capabilities.ControlSelect:
		options := make([]elem.Node, 0, len(c.Options))
		for _, o := range c.Options {
			p := attrs.Props{attrs.Value: esc(o.Value)}
			if o.Selected {
				p[attrs.Selected] = "true"
			}
			options = append(options, elem.Option(p, text(o.Label)))
		}
		return controlRow(c.Label, actionForm(deviceID, view, c, attrs.Props{"hx-trigger": "change"},
			elem.Select(attrs.Props{attrs.Name: "value", attrs.Class: "mode-select"}, options...),
		))

	case capabilities.ControlReadout:
		fill := math.Min(100, math.Max(0, c.Current))
		return elem.Div(attrs.Props{attrs.Class: "readout"},
			elem.Div(attrs.Props{attrs.Class: "readout-row"},
				elem.Span(attrs.Props{attrs.Class: "control-label"}, text(c.Label)),
				elem.Span(attrs.Props{attrs.Class: "readout-value"}, text(capabilities.FormatNumber(c.Current)+c.Unit)),
			),
			elem.Div(attrs.Props{attrs.Class: "readout-bar"},
				elem.Div(attrs.Props{attrs.Class: "readout-fill", attrs.Style: fmt.Sprintf("width:%s%%", capabilities.FormatNumber(fill))}),
			),
		)
	}

	return elem.Text("")
}

func controlRow(label string, control elem.Node) elem.Node {
	return elem.Div(attrs.Props{attrs.Class: "control-row"},
		elem.Span(attrs.Props{attrs.Class: "control-label"}, text(label)),
		control,
	)
}

func classIf(base string, extra string, cond bool) string {
	if cond {
		return base + " " + extra
	}
	return base
}
