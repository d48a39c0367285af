package views

import (
	"encoding/json"
	"fmt"

	"github.com/chasefleming/elem-go"
	"github.com/chasefleming/elem-go/attrs"
	"github.com/samber/lo"
	"github.com/wheelibin/yadom/internal/constants"
	"github.com/wheelibin/yadom/internal/dashboard"
	"github.com/wheelibin/yadom/internal/iot"
	"github.com/wheelibin/yadom/internal/models"
)

type AuthView struct {
	// empty when no oauth client id is configured
	LoginURL string
	Error    string
}

// AuthScreen asks for a token, either through the oauth flow or pasted in.
func AuthScreen(v AuthView) elem.Node {
	children := []elem.Node{
		elem.H1(attrs.Props{attrs.Class: "auth-title"}, elem.Text("Smart home")),
		elem.P(attrs.Props{attrs.Class: "muted"}, elem.Text("Sign in to see and control your devices.")),
	}
	if v.Error != "" {
		children = append(children, errorBanner(v.Error))
	}
	if v.LoginURL != "" {
		children = append(children, elem.A(attrs.Props{attrs.Href: esc(v.LoginURL), attrs.Class: "btn btn-primary"}, elem.Text("Sign in with Yandex")))
	}
	children = append(children,
		elem.Form(attrs.Props{attrs.Class: "token-form", attrs.Method: "post", attrs.Action: "/auth/token"},
			elem.Input(attrs.Props{
				attrs.Type:        "password",
				attrs.Name:        "token",
				attrs.Placeholder: "OAuth token",
				attrs.Class:       "token-input",
				"autocomplete":    "off",
			}),
			elem.Button(attrs.Props{attrs.Type: "submit", attrs.Class: "btn"}, elem.Text("Use token")),
		),
	)

	return elem.Div(attrs.Props{attrs.ID: "auth", attrs.Class: "auth-screen"}, children...)
}

// CallbackScreen reads the implicit-flow fragment in the browser, which the
// server never sees, and hands it to POST /auth/callback.
func CallbackScreen() elem.Node {
	return elem.Div(attrs.Props{attrs.Class: "auth-screen"},
		elem.P(attrs.Props{attrs.ID: "callback-status"}, elem.Text("Signing in…")),
		elem.Script(attrs.Props{}, elem.Raw(callbackJS)),
	)
}

// MainScreen is the shell around the content fragment, reloaded whenever a
// snapshot event arrives.
func MainScreen() elem.Node {
	return elem.Div(attrs.Props{attrs.ID: "app"},
		elem.Header(attrs.Props{attrs.Class: "top-bar"},
			elem.H1(attrs.Props{attrs.Class: "app-title"}, elem.Text("Home")),
			elem.Nav(attrs.Props{attrs.Class: "top-actions"},
				navButton("hx-post", "/refresh", "#content", "Refresh"),
				navButton("hx-get", "/scenarios", "#modal", "Scenarios"),
				navButton("hx-get", "/debug", "#modal", "Debug"),
				elem.Form(attrs.Props{attrs.Method: "post", attrs.Action: "/auth/logout", attrs.Class: "inline"},
					elem.Button(attrs.Props{attrs.Type: "submit", attrs.Class: "btn btn-link"}, elem.Text("Sign out")),
				),
			),
		),
		elem.Main(attrs.Props{
			attrs.ID:     "content",
			"hx-get":     "/content",
			"hx-trigger": "load, snapshot from:body",
			"hx-swap":    "innerHTML",
		}, elem.Div(attrs.Props{attrs.Class: "loading"}, elem.Text("Loading…"))),
		elem.Div(attrs.Props{attrs.ID: "modal"}),
		elem.Script(attrs.Props{}, elem.Raw(eventsJS)),
	)
}

func navButton(verb string, path string, target string, label string) elem.Node {
	return elem.Button(attrs.Props{
		attrs.Type:  "button",
		attrs.Class: "btn btn-link",
		verb:        path,
		"hx-target": target,
		"hx-swap":   "innerHTML",
	}, text(label))
}

// Content renders the filter chips and device sections for the current state.
func Content(state dashboard.State) elem.Node {
	children := []elem.Node{}
	if state.Err != nil {
		children = append(children, elem.Div(attrs.Props{attrs.Class: "error-banner", "role": "alert"},
			text(iot.UserMessage(state.Err)),
			elem.Button(attrs.Props{
				attrs.Type:  "button",
				attrs.Class: "retry-btn",
				"hx-post":   "/refresh",
				"hx-target": "#content",
				"hx-swap":   "innerHTML",
			}, elem.Text("Retry")),
		))
	}

	if state.Snapshot == nil || state.Snapshot.Info == nil {
		if state.Err == nil {
			children = append(children, elem.Div(attrs.Props{attrs.Class: "loading"}, elem.Text("Loading…")))
		}
		return elem.Div(attrs.Props{attrs.Class: "content"}, children...)
	}

	info := state.Snapshot.Info
	children = append(children, Filters(CountFilters(info), state.Filter))

	sections := Sections(info, state.Filter)
	if len(sections) == 0 {
		children = append(children, elem.P(attrs.Props{attrs.Class: "muted empty"}, elem.Text("No devices")))
	}
	for _, s := range sections {
		children = append(children, section(info, s))
	}

	return elem.Div(attrs.Props{attrs.Class: "content", "data-version": fmt.Sprint(state.Snapshot.Version)}, children...)
}

func Filters(counts FilterCounts, active string) elem.Node {
	chip := func(filter string, label string, count *int) elem.Node {
		children := []elem.Node{elem.Span(attrs.Props{attrs.Class: "chip-label"}, text(label))}
		if count != nil {
			children = append(children, elem.Span(attrs.Props{attrs.Class: "chip-count"}, text(fmt.Sprintf("%d dev", *count))))
		}
		return elem.Button(attrs.Props{
			attrs.Type:    "button",
			attrs.Class:   classIf("filter-chip", "active", filter == active),
			"data-filter": filter,
			"hx-post":     "/filter/" + filter,
			"hx-target":   "#content",
			"hx-swap":     "innerHTML",
		}, children...)
	}

	return elem.Div(attrs.Props{attrs.ID: "filters", attrs.Class: "filters"},
		chip(constants.FilterOffline, "Offline", &counts.Offline),
		chip(constants.FilterLight, "Lights", &counts.Light),
		chip(constants.FilterTV, "TV", &counts.TV),
		chip(constants.FilterAll, "All", nil),
	)
}

func section(info *models.UserInfo, s Section) elem.Node {
	cards := lo.Map(s.Devices, func(d models.Device, _ int) elem.Node {
		room := RoomName(info, &d)
		if s.Group {
			room = s.Title
		}
		return DeviceCard(&d, room)
	})

	header := []elem.Node{elem.Span(attrs.Props{attrs.Class: "room-title"}, text(s.Title))}
	if s.Title != noRoomTitle {
		header = append(header, elem.Span(attrs.Props{attrs.Class: "room-chevron"}, elem.Text("›")))
	}

	return elem.Section(attrs.Props{attrs.Class: classIf("room-section", "group-section", s.Group)},
		elem.Div(attrs.Props{attrs.Class: "room-header"}, header...),
		elem.Div(attrs.Props{attrs.Class: "devices-grid"}, cards...),
	)
}

func ScenariosView(scenarios []models.Scenario, message string) elem.Node {
	body := []elem.Node{
		elem.Div(attrs.Props{attrs.Class: "modal-header"},
			elem.H2(attrs.Props{attrs.Class: "modal-title"}, elem.Text("Scenarios")),
			closeButton(),
		),
	}
	if message != "" {
		body = append(body, elem.Div(attrs.Props{attrs.Class: "notice"}, text(message)))
	}
	if len(scenarios) == 0 {
		body = append(body, elem.P(attrs.Props{attrs.Class: "muted"}, elem.Text("No scenarios")))
	}
	for _, s := range scenarios {
		body = append(body, elem.Div(attrs.Props{attrs.Class: "scenario-row"},
			elem.Span(attrs.Props{attrs.Class: "scenario-name"}, text(s.Name)),
			elem.Button(attrs.Props{
				attrs.Type:  "button",
				attrs.Class: "btn",
				"hx-post":   "/scenarios/" + esc(s.ID) + "/run",
				"hx-target": "#modal",
				"hx-swap":   "innerHTML",
			}, elem.Text("Run")),
		))
	}
	return modal("scenarios-modal", body...)
}

type CameraView struct {
	Device    *models.Device
	StreamURL string
	Error     string
	// how long the player may sit without data before giving up
	PlaybackTimeout int64
}

func Camera(v CameraView) elem.Node {
	retry := elem.Button(attrs.Props{
		attrs.Type:  "button",
		attrs.Class: "retry-btn",
		"hx-get":    "/devices/" + esc(v.Device.ID) + "/camera",
		"hx-target": "#modal",
		"hx-swap":   "innerHTML",
	}, elem.Text("Retry"))

	body := []elem.Node{
		elem.Div(attrs.Props{attrs.Class: "modal-header"},
			elem.H2(attrs.Props{attrs.Class: "modal-title"}, text(v.Device.Name)),
			closeButton(),
		),
	}

	if v.Error != "" {
		body = append(body, elem.Div(attrs.Props{attrs.Class: "error-banner", "role": "alert"}, text(v.Error), retry))
		return modal("camera-modal", body...)
	}

	body = append(body,
		elem.Video(attrs.Props{
			attrs.ID:          "camera-video",
			attrs.Class:       "camera-video",
			attrs.Src:         esc(v.StreamURL),
			"controls":        "true",
			"autoplay":        "true",
			"muted":           "true",
			"playsinline":     "true",
			"data-timeout-ms": fmt.Sprint(v.PlaybackTimeout),
		}),
		elem.Div(attrs.Props{attrs.ID: "camera-error", attrs.Class: "error-banner hidden", "role": "alert"},
			elem.Span(attrs.Props{attrs.Class: "camera-error-text"}), retry),
		elem.Script(attrs.Props{}, elem.Raw(cameraJS)),
	)
	return modal("camera-modal", body...)
}

func Debug(raw json.RawMessage) elem.Node {
	return debugModal(PrettyJSON(raw))
}

func DebugStructure(raw json.RawMessage) elem.Node {
	s, err := Summarise(raw)
	if err != nil {
		return debugModal("Error: " + err.Error())
	}
	out, _ := json.MarshalIndent(s, "", "  ")
	return debugModal(string(out))
}

func debugModal(content string) elem.Node {
	tab := func(path string, label string) elem.Node {
		return elem.Button(attrs.Props{
			attrs.Type:  "button",
			attrs.Class: "btn btn-link",
			"hx-get":    path,
			"hx-target": "#modal",
			"hx-swap":   "innerHTML",
		}, elem.Text(label))
	}
	return modal("debug-modal",
		elem.Div(attrs.Props{attrs.Class: "modal-header"},
			elem.H2(attrs.Props{attrs.Class: "modal-title"}, elem.Text("Debug")),
			closeButton(),
		),
		elem.Div(attrs.Props{attrs.Class: "debug-tabs"},
			tab("/debug", "Full response"),
			tab("/debug/structure", "Structure"),
		),
		elem.Textarea(attrs.Props{attrs.Class: "debug-content", "readonly": "true", "rows": "20"}, text(content)),
	)
}

// ModalError renders a failed fragment request inside the modal slot.
func ModalError(msg string) elem.Node {
	return modal("error-modal",
		elem.Div(attrs.Props{attrs.Class: "modal-header"}, closeButton()),
		errorBanner(msg),
	)
}
