package capabilities_test

import (
	"encoding/json"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/yadom/internal/capabilities"
	"github.com/wheelibin/yadom/internal/models"
)

func device(t *testing.T, raw string) *models.Device {
	d := models.Device{}
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return &d
}

const lightOffAt40 = `{
  "id": "lamp-1", "name": "Desk lamp", "type": "devices.types.light", "state": "online",
  "capabilities": [
    {"type": "devices.capabilities.on_off", "state": {"instance": "on", "value": false}},
    {"type": "devices.capabilities.range",
     "parameters": {"instance": "brightness", "range": {"min": 0, "max": 100, "precision": 1}},
     "state": {"instance": "brightness", "value": 40}}
  ]
}`

func Test_CardControls(t *testing.T) {

	t.Run("should render a power toggle and brightness slider for a dimmable light", func(t *testing.T) {
		// arrange
		d := device(t, lightOffAt40)

		// act
		controls := capabilities.CardControls(d)

		// assert
		require.Len(t, controls, 2)
		assert.Equal(t, capabilities.ControlPower, controls[0].Kind)
		assert.False(t, controls[0].Active)
		assert.Equal(t, "true", controls[0].Next)
		assert.Equal(t, capabilities.ControlSlider, controls[1].Kind)
		assert.Equal(t, "brightness", controls[1].Instance)
		assert.Equal(t, 40.0, controls[1].Current)
		assert.Equal(t, 0.0, controls[1].Min)
		assert.Equal(t, 100.0, controls[1].Max)
	})

	t.Run("should render no controls for a device without capabilities", func(t *testing.T) {
		d := device(t, `{"id": "s1", "name": "Sensor", "type": "devices.types.sensor"}`)

		controls := capabilities.CardControls(d)

		assert.Empty(t, lo.Filter(controls, func(c capabilities.Control, _ int) bool { return c.Interactive() }))
	})

	t.Run("should hide the power toggle when the device is offline", func(t *testing.T) {
		d := device(t, `{"id": "p1", "state": "offline", "type": "devices.types.socket",
		  "capabilities": [{"type": "devices.capabilities.on_off", "state": {"instance": "on", "value": true}}]}`)

		assert.Empty(t, capabilities.CardControls(d))
	})

	t.Run("should not offer a brightness slider without on_off", func(t *testing.T) {
		d := device(t, `{"id": "l2", "type": "devices.types.light", "capabilities": [
		  {"type": "devices.capabilities.range", "parameters": {"instance": "brightness"}}]}`)

		assert.Empty(t, capabilities.CardControls(d))
	})

	t.Run("should default brightness bounds and value", func(t *testing.T) {
		d := device(t, `{"id": "l3", "type": "devices.types.light", "capabilities": [
		  {"type": "devices.capabilities.on_off"},
		  {"type": "devices.capabilities.range", "parameters": {"instance": "brightness"}}]}`)

		controls := capabilities.CardControls(d)

		require.Len(t, controls, 2)
		assert.Equal(t, 0.0, controls[1].Min)
		assert.Equal(t, 100.0, controls[1].Max)
		assert.Equal(t, 100.0, controls[1].Current)
	})

	t.Run("should use the fallback palette limited to eight swatches", func(t *testing.T) {
		d := device(t, `{"id": "c1", "type": "devices.types.light", "capabilities": [
		  {"type": "devices.capabilities.color_setting", "parameters": {"color_model": "hsv"}}]}`)

		controls := capabilities.CardControls(d)

		require.Len(t, controls, 1)
		assert.Equal(t, capabilities.ControlSwatches, controls[0].Kind)
		assert.Equal(t, "hsv", controls[0].ColorModel)
		assert.Equal(t, capabilities.FallbackPalette, controls[0].Swatches)
	})

	t.Run("should cap a declared palette at eight swatches", func(t *testing.T) {
		d := device(t, `{"id": "c2", "type": "devices.types.light", "capabilities": [
		  {"type": "devices.capabilities.color_setting", "parameters": {"color_model": "rgb",
		   "palette": [1, 2, 3, 4, 5, 6, 7, 8, 9, 10]}}]}`)

		controls := capabilities.CardControls(d)

		require.Len(t, controls, 1)
		assert.Len(t, controls[0].Swatches, 8)
		assert.Equal(t, "#000001", controls[0].Swatches[0])
	})

	t.Run("should ignore colour capabilities with only a temperature", func(t *testing.T) {
		d := device(t, `{"id": "c3", "type": "devices.types.light", "capabilities": [
		  {"type": "devices.capabilities.color_setting", "parameters": {"temperature_k": {"min": 2700, "max": 6500}}}]}`)

		assert.Empty(t, capabilities.CardControls(d))
	})

	t.Run("should render humidifier read-out, slider and at most three modes", func(t *testing.T) {
		// arrange
		d := device(t, `{"id": "h1", "type": "devices.types.humidifier", "capabilities": [
		  {"type": "devices.capabilities.range", "parameters": {"instance": "humidity"}, "state": {"instance": "humidity", "value": 55}},
		  {"type": "devices.capabilities.mode", "parameters": {"instance": "work_speed",
		   "modes": [{"value": "auto"}, {"value": "low"}, {"value": "medium"}, {"value": "high"}]},
		   "state": {"instance": "work_speed", "value": "low"}}
		], "properties": [
		  {"type": "devices.properties.float", "parameters": {"instance": "humidity"}, "state": {"instance": "humidity", "value": 47.4}}
		]}`)

		// act
		controls := capabilities.CardControls(d)

		// assert
		require.Len(t, controls, 3)
		assert.Equal(t, capabilities.ControlReadout, controls[0].Kind)
		assert.Equal(t, 47.0, controls[0].Current)
		assert.Equal(t, capabilities.ControlSlider, controls[1].Kind)
		assert.Equal(t, 30.0, controls[1].Min)
		assert.Equal(t, 90.0, controls[1].Max)
		assert.Equal(t, 5.0, controls[1].Step)
		assert.Equal(t, 55.0, controls[1].Current)
		assert.Equal(t, capabilities.ControlModeButtons, controls[2].Kind)
		assert.Len(t, controls[2].Options, 3)
		assert.True(t, controls[2].Options[1].Selected)
	})

	t.Run("should read modes declared as an object map in order", func(t *testing.T) {
		d := device(t, `{"id": "p2", "type": "devices.types.purifier", "capabilities": [
		  {"type": "devices.capabilities.mode", "parameters": {"modes": {"night": "Night mode", "turbo": "Turbo"}}}]}`)

		controls := capabilities.CardControls(d)

		require.Len(t, controls, 1)
		assert.Equal(t, "work_speed", controls[0].Instance)
		assert.Equal(t, []string{"night", "turbo"}, lo.Map(controls[0].Options, func(o capabilities.Option, _ int) string { return o.Value }))
		assert.Equal(t, "Night ", controls[0].Options[0].Label)
	})

}

func Test_DetailControls(t *testing.T) {

	t.Run("should render one control per capability", func(t *testing.T) {
		// arrange
		d := device(t, `{"id": "tv", "type": "devices.types.media_device.tv", "capabilities": [
		  {"type": "devices.capabilities.on_off", "state": {"instance": "on", "value": true}},
		  {"type": "devices.capabilities.toggle", "parameters": {"instance": "mute"}},
		  {"type": "devices.capabilities.range", "parameters": {"instance": "channel"}},
		  {"type": "devices.capabilities.mode", "parameters": {"instance": "input_source", "modes": [{"value": "one"}, {"value": "two"}]},
		   "state": {"instance": "input_source", "value": "two"}}
		]}`)

		// act
		controls := capabilities.DetailControls(d)

		// assert
		require.Len(t, controls, 4)
		assert.Equal(t, capabilities.ControlOnOff, controls[0].Kind)
		assert.True(t, controls[0].Active)
		assert.Equal(t, "Sound", controls[1].Label)
		assert.Equal(t, "mute", controls[1].Instance)
		assert.Equal(t, 1.0, controls[2].Min)
		assert.Equal(t, 999.0, controls[2].Max)
		assert.Equal(t, 1.0, controls[2].Current)
		assert.Equal(t, "Input 2", controls[3].Options[1].Label)
		assert.True(t, controls[3].Options[1].Selected)
	})

	t.Run("should clamp colour temperature and replace colour states", func(t *testing.T) {
		d := device(t, `{"id": "ct", "type": "devices.types.light", "capabilities": [
		  {"type": "devices.capabilities.color_setting",
		   "parameters": {"color_model": "rgb", "temperature_k": {"min": 2700, "max": 6500}},
		   "state": {"instance": "rgb", "value": 16711680}}]}`)

		controls := capabilities.DetailControls(d)

		require.Len(t, controls, 2)
		assert.Equal(t, capabilities.ActionColorTemp, controls[0].Action)
		assert.Equal(t, 4500.0, controls[0].Current)
		assert.Equal(t, 2700.0, controls[0].Min)
		assert.Equal(t, 100.0, controls[0].Step)
		assert.Equal(t, capabilities.ActionColor, controls[1].Action)
	})

}

func Test_CardType(t *testing.T) {

	t.Run("should prefer backlight over the device type", func(t *testing.T) {
		d := device(t, `{"id": "k", "type": "devices.types.cooking.kettle", "capabilities": [
		  {"type": "devices.capabilities.toggle", "parameters": {"instance": "backlight"}}]}`)

		assert.Equal(t, "backlight", capabilities.CardType(d))
	})

	t.Run("should classify by type tag", func(t *testing.T) {
		assert.Equal(t, "humidifier", capabilities.CardType(&models.Device{Type: "devices.types.humidifier"}))
		assert.Equal(t, "light", capabilities.CardType(&models.Device{Type: "devices.types.light.lamp"}))
		assert.Equal(t, "default", capabilities.CardType(&models.Device{Type: "devices.types.socket"}))
	})

}
