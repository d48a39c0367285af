package capabilities

import (
	"encoding/json"
	"math"

	"github.com/samber/lo"
	"github.com/wheelibin/yadom/internal/constants"
	"github.com/wheelibin/yadom/internal/models"
)

type ControlKind string

const (
	ControlPower       ControlKind = "power"
	ControlOnOff       ControlKind = "on_off"
	ControlToggle      ControlKind = "toggle"
	ControlSlider      ControlKind = "slider"
	ControlSwatches    ControlKind = "swatches"
	ControlModeButtons ControlKind = "mode_buttons"
	ControlSelect      ControlKind = "select"
	ControlReadout     ControlKind = "readout"
)

type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Control describes one UI element and the action it issues.
type Control struct {
	Kind       ControlKind
	Action     ActionKind
	Instance   string
	Label      string
	Active     bool
	Next       string
	Min        float64
	Max        float64
	Step       float64
	Current    float64
	Unit       string
	Options    []Option
	Swatches   []string
	ColorModel string
}

func (c Control) Interactive() bool {
	return c.Kind != ControlReadout
}

var defaultBrightnessRange = models.Range{Min: 0, Max: 100, Precision: 1}
var defaultHumidityRange = models.Range{Min: 30, Max: 90, Precision: 5}

var defaultRanges = map[string]models.Range{
	"channel": {Min: 1, Max: 999, Precision: 1},
	"volume":  {Min: 0, Max: 100, Precision: 1},
}

var rangeLabels = map[string]string{
	"brightness":  "Brightness",
	"volume":      "Volume",
	"channel":     "Channel",
	"temperature": "Temperature",
	"humidity":    "Humidity",
}

var modeLabels = map[string]string{
	"work_speed":   "Speed",
	"program":      "Program",
	"thermostat":   "Temperature",
	"swing":        "Direction",
	"input_source": "Source",
}

var inputSourceNames = map[string]string{
	"one": "Input 1", "two": "Input 2", "three": "Input 3", "four": "Input 4", "five": "Input 5",
	"six": "Input 6", "seven": "Input 7", "eight": "Input 8", "nine": "Input 9", "ten": "Input 10",
}

var toggleLabels = map[string]string{
	"pause":     "Pause",
	"mute":      "Sound",
	"backlight": "Backlight",
}

// CardControls derives the compact controls shown on a device card.
func CardControls(d *models.Device) []Control {
	ix := NewIndex(d)
	controls := []Control{}

	onOff := ix.First(constants.CapabilityOnOff)
	if onOff != nil && !d.IsOffline() {
		isOn := ToBool(StateValue(onOff))
		controls = append(controls, Control{
			Kind:     ControlPower,
			Action:   ActionOnOff,
			Instance: constants.InstanceOn,
			Label:    lo.Ternary(isOn, "Off", "On"),
			Active:   isOn,
			Next:     lo.Ternary(isOn, "false", "true"),
		})
	}

	if brightness := ix.Get(constants.CapabilityRange, constants.InstanceBrightness); brightness != nil && onOff != nil {
		r := declaredRange(brightness, defaultBrightnessRange)
		controls = append(controls, Control{
			Kind:     ControlSlider,
			Action:   ActionRange,
			Instance: constants.InstanceBrightness,
			Label:    rangeLabels[constants.InstanceBrightness],
			Min:      r.Min,
			Max:      r.Max,
			Step:     step(r),
			Current:  ToNumber(StateValue(brightness), 100),
			Unit:     "%",
		})
	}

	if color := ix.Color(); color != nil {
		controls = append(controls, Control{
			Kind:       ControlSwatches,
			Action:     ActionColor,
			Label:      "Colour",
			Swatches:   lo.Slice(Swatches(color), 0, constants.MaxColorSwatches),
			ColorModel: color.Parameters.ColorModel,
		})
	}

	if IsHumidifier(d) {
		controls = append(controls, humidifierControls(d, ix)...)
	}

	return controls
}

func humidifierControls(d *models.Device, ix *Index) []Control {
	controls := []Control{}
	humidity := ix.Get(constants.CapabilityRange, constants.InstanceHumidity)

	reading, ok := PropertyValue(d, constants.InstanceHumidity)
	if !ok {
		reading, ok = PropertyValue(d, constants.InstanceWaterLevel)
	}
	if !ok && humidity != nil && StateValue(humidity) != nil {
		reading, ok = StateValue(humidity), true
	}
	if ok {
		controls = append(controls, Control{
			Kind:    ControlReadout,
			Label:   "Humidity",
			Current: math.Round(ToNumber(reading, 0)),
			Unit:    "%",
		})
	}

	if humidity != nil {
		r := declaredRange(humidity, defaultHumidityRange)
		controls = append(controls, Control{
			Kind:     ControlSlider,
			Action:   ActionRange,
			Instance: constants.InstanceHumidity,
			Label:    "Target humidity",
			Min:      r.Min,
			Max:      r.Max,
			Step:     step(r),
			Current:  ToNumber(StateValue(humidity), 50),
			Unit:     "%",
		})
	}

	if mode := ix.First(constants.CapabilityMode); mode != nil && len(mode.Parameters.Modes) > 0 {
		instance := Instance(mode, constants.InstanceWorkSpeed)
		options := modeOptions(mode, instance)
		controls = append(controls, Control{
			Kind:     ControlModeButtons,
			Action:   ActionMode,
			Instance: instance,
			Label:    "Mode",
			Options: lo.Map(lo.Slice(options, 0, constants.MaxModeButtons), func(o Option, _ int) Option {
				o.Label = truncate(o.Label, 6)
				return o
			}),
		})
	}

	return controls
}

// DetailControls derives the full control set for the device detail view,
// one entry per declared capability.
func DetailControls(d *models.Device) []Control {
	controls := []Control{}

	for i := range d.Capabilities {
		c := &d.Capabilities[i]

		switch c.Type {

		case constants.CapabilityOnOff:
			isOn := ToBool(StateValue(c))
			controls = append(controls, Control{
				Kind:     ControlOnOff,
				Action:   ActionOnOff,
				Instance: constants.InstanceOn,
				Label:    "Power",
				Active:   isOn,
				Next:     lo.Ternary(isOn, "false", "true"),
			})

		case constants.CapabilityToggle:
			instance := Instance(c, constants.InstanceBacklight)
			isOn := ToBool(StateValue(c))
			controls = append(controls, Control{
				Kind:     ControlToggle,
				Action:   ActionToggle,
				Instance: instance,
				Label:    lo.ValueOr(toggleLabels, instance, toggleLabels[constants.InstanceBacklight]),
				Active:   isOn,
				Next:     lo.Ternary(isOn, "false", "true"),
			})

		case constants.CapabilityRange:
			instance := Instance(c, constants.InstanceBrightness)
			r := declaredRange(c, lo.ValueOr(defaultRanges, instance, defaultBrightnessRange))
			controls = append(controls, Control{
				Kind:     ControlSlider,
				Action:   ActionRange,
				Instance: instance,
				Label:    lo.ValueOr(rangeLabels, instance, instance),
				Min:      r.Min,
				Max:      r.Max,
				Step:     step(r),
				Current:  ToNumber(StateValue(c), r.Min),
			})

		case constants.CapabilityMode:
			instance := Instance(c, constants.InstanceWorkSpeed)
			options := modeOptions(c, instance)
			if len(options) == 0 {
				continue
			}
			controls = append(controls, Control{
				Kind:     ControlSelect,
				Action:   ActionMode,
				Instance: instance,
				Label:    lo.ValueOr(modeLabels, instance, "Mode"),
				Options:  options,
			})

		case constants.CapabilityColorSetting:
			controls = append(controls, colorControls(c)...)
		}
	}

	return controls
}

func colorControls(c *models.Capability) []Control {
	controls := []Control{}

	if tk := c.Parameters.TemperatureK; tk != nil && (tk.Min != 0 || tk.Max != 0) {
		min := lo.Ternary(tk.Min != 0, tk.Min, 2000)
		max := lo.Ternary(tk.Max != 0, tk.Max, 9000)

		current := ToNumber(StateValue(c), 4000)
		// the state may hold a colour rather than a temperature
		if inst := Instance(c, ""); inst == constants.InstanceRGB || inst == constants.InstanceHSV || current > 10000 || current < 1000 {
			current = 4500
		}

		controls = append(controls, Control{
			Kind:     ControlSlider,
			Action:   ActionColorTemp,
			Instance: constants.InstanceTemperatureK,
			Label:    "Temperature",
			Min:      min,
			Max:      max,
			Step:     100,
			Current:  lo.Clamp(current, min, max),
			Unit:     "K",
		})
	}

	if m := c.Parameters.ColorModel; m == constants.ColorModelRGB || m == constants.ColorModelHSV {
		controls = append(controls, Control{
			Kind:       ControlSwatches,
			Action:     ActionColor,
			Label:      "Colour",
			Swatches:   Swatches(c),
			ColorModel: m,
		})
	}

	return controls
}

// Swatches lists the capability's palette as hex colours, or the fallback list.
func Swatches(c *models.Capability) []string {
	colors := lo.FilterMap(c.Parameters.Palette, func(p json.RawMessage, _ int) (string, bool) {
		return PaletteHex(p)
	})
	if len(colors) == 0 {
		return append([]string{}, FallbackPalette...)
	}
	return colors
}

func modeOptions(c *models.Capability, instance string) []Option {
	current := ToString(StateValue(c))
	return lo.FilterMap(c.Parameters.Modes, func(m models.Mode, _ int) (Option, bool) {
		if m.Value == "" {
			return Option{}, false
		}
		label := lo.Ternary(m.Name != "", m.Name, m.Value)
		if instance == constants.InstanceInputSource {
			label = lo.ValueOr(inputSourceNames, m.Value, label)
		}
		return Option{Value: m.Value, Label: label, Selected: m.Value == current}, true
	})
}

func declaredRange(c *models.Capability, def models.Range) models.Range {
	if c.Parameters.Range == nil {
		return def
	}
	return *c.Parameters.Range
}

func step(r models.Range) float64 {
	if r.Precision > 0 {
		return r.Precision
	}
	return 1
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// FormatNumber renders a control value without trailing zeros.
func FormatNumber(n float64) string {
	return formatNumber(n)
}
