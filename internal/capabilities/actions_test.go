package capabilities_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/yadom/internal/capabilities"
	"github.com/wheelibin/yadom/internal/models"
)

func Test_BuildAction(t *testing.T) {

	t.Run("should build an on_off action", func(t *testing.T) {
		action, err := capabilities.BuildAction(capabilities.Interaction{Kind: capabilities.ActionOnOff, Value: "true"})

		require.NoError(t, err)
		body, _ := json.Marshal(action)
		assert.JSONEq(t, `{"type": "devices.capabilities.on_off", "state": {"instance": "on", "value": true}}`, string(body))
	})

	t.Run("should send range values raw and unclamped", func(t *testing.T) {
		action, err := capabilities.BuildAction(capabilities.Interaction{Kind: capabilities.ActionRange, Instance: "volume", Value: "150"})

		require.NoError(t, err)
		assert.Equal(t, "devices.capabilities.range", action.Type)
		assert.Equal(t, "volume", action.State.Instance)
		assert.Equal(t, 150.0, action.State.Value)
	})

	t.Run("should send mode values as strings", func(t *testing.T) {
		action, err := capabilities.BuildAction(capabilities.Interaction{Kind: capabilities.ActionMode, Instance: "program", Value: "eco"})

		require.NoError(t, err)
		assert.Equal(t, models.ActionState{Instance: "program", Value: "eco"}, action.State)
	})

	t.Run("should default the toggle instance to backlight", func(t *testing.T) {
		action, err := capabilities.BuildAction(capabilities.Interaction{Kind: capabilities.ActionToggle, Value: "false"})

		require.NoError(t, err)
		assert.Equal(t, models.ActionState{Instance: "backlight", Value: false}, action.State)
	})

	t.Run("should pack rgb colours", func(t *testing.T) {
		action, err := capabilities.BuildAction(capabilities.Interaction{Kind: capabilities.ActionColor, Value: "#FF8000", ColorModel: "rgb"})

		require.NoError(t, err)
		assert.Equal(t, "devices.capabilities.color_setting", action.Type)
		assert.Equal(t, models.ActionState{Instance: "rgb", Value: 16744448}, action.State)
	})

	t.Run("should send hsv colours for hsv devices", func(t *testing.T) {
		action, err := capabilities.BuildAction(capabilities.Interaction{Kind: capabilities.ActionColor, Value: "#0000ff", ColorModel: "hsv"})

		require.NoError(t, err)
		body, _ := json.Marshal(action)
		assert.JSONEq(t, `{"type": "devices.capabilities.color_setting", "state": {"instance": "hsv", "value": {"h": 240, "s": 100, "v": 100}}}`, string(body))
	})

	t.Run("should send colour temperature under temperature_k", func(t *testing.T) {
		action, err := capabilities.BuildAction(capabilities.Interaction{Kind: capabilities.ActionColorTemp, Value: "3200"})

		require.NoError(t, err)
		assert.Equal(t, models.ActionState{Instance: "temperature_k", Value: 3200.0}, action.State)
	})

	t.Run("should reject unknown kinds and bad values", func(t *testing.T) {
		_, err := capabilities.BuildAction(capabilities.Interaction{Kind: "explode"})
		assert.ErrorIs(t, err, capabilities.ErrUnknownAction)

		_, err = capabilities.BuildAction(capabilities.Interaction{Kind: capabilities.ActionRange, Value: "loud"})
		assert.Error(t, err)

		_, err = capabilities.BuildAction(capabilities.Interaction{Kind: capabilities.ActionColor, Value: "red"})
		assert.Error(t, err)
	})

}

func Test_BuildDeviceAction(t *testing.T) {

	t.Run("should take the colour model from the device", func(t *testing.T) {
		d := device(t, `{"id": "c", "capabilities": [
		  {"type": "devices.capabilities.color_setting", "parameters": {"color_model": "hsv"}}]}`)

		action, err := capabilities.BuildDeviceAction(d, capabilities.Interaction{Kind: capabilities.ActionColor, Value: "#ff0000"})

		require.NoError(t, err)
		assert.Equal(t, "hsv", action.State.Instance)
		assert.Equal(t, models.HSV{H: 0, S: 100, V: 100}, action.State.Value)
	})

}
