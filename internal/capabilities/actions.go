package capabilities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wheelibin/yadom/internal/constants"
	"github.com/wheelibin/yadom/internal/models"
)

type ActionKind string

const (
	ActionOnOff        ActionKind = "on_off"
	ActionToggle       ActionKind = "toggle"
	ActionRange        ActionKind = "range"
	ActionMode         ActionKind = "mode"
	ActionColor        ActionKind = "color"
	ActionColorTemp    ActionKind = "color_temp"
	ActionColorSetting ActionKind = "color_setting"
)

var ErrUnknownAction = errors.New("unknown action")

// Interaction is a single user gesture on a control, as submitted by a form.
type Interaction struct {
	Kind       ActionKind
	Instance   string
	Value      string
	ColorModel string
}

// BuildAction translates an interaction into the vendor action payload.
func BuildAction(i Interaction) (models.Action, error) {
	switch i.Kind {

	case ActionOnOff:
		on, err := strconv.ParseBool(i.Value)
		if err != nil {
			return models.Action{}, fmt.Errorf("invalid on_off value %q: %w", i.Value, err)
		}
		return action(constants.CapabilityOnOff, constants.InstanceOn, on), nil

	case ActionToggle:
		on, err := strconv.ParseBool(i.Value)
		if err != nil {
			return models.Action{}, fmt.Errorf("invalid toggle value %q: %w", i.Value, err)
		}
		return action(constants.CapabilityToggle, orDefault(i.Instance, constants.InstanceBacklight), on), nil

	case ActionRange:
		// sent as-is, bounds are the device's business
		v, err := strconv.ParseFloat(strings.TrimSpace(i.Value), 64)
		if err != nil {
			return models.Action{}, fmt.Errorf("invalid range value %q: %w", i.Value, err)
		}
		return action(constants.CapabilityRange, orDefault(i.Instance, constants.InstanceBrightness), v), nil

	case ActionMode:
		return action(constants.CapabilityMode, orDefault(i.Instance, constants.InstanceWorkSpeed), i.Value), nil

	case ActionColorTemp, ActionColorSetting:
		v, err := strconv.ParseFloat(strings.TrimSpace(i.Value), 64)
		if err != nil {
			return models.Action{}, fmt.Errorf("invalid colour temperature %q: %w", i.Value, err)
		}
		instance := constants.InstanceTemperatureK
		if i.Kind == ActionColorSetting && i.Instance != "" {
			instance = i.Instance
		}
		return action(constants.CapabilityColorSetting, instance, v), nil

	case ActionColor:
		r, g, b, err := ParseHex(i.Value)
		if err != nil {
			return models.Action{}, err
		}
		if i.ColorModel == constants.ColorModelHSV {
			return action(constants.CapabilityColorSetting, constants.InstanceHSV, RGBToHSV(r, g, b)), nil
		}
		return action(constants.CapabilityColorSetting, constants.InstanceRGB, PackRGB(r, g, b)), nil
	}

	return models.Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, i.Kind)
}

// BuildDeviceAction fills in the colour model from the device when the
// interaction does not carry one.
func BuildDeviceAction(d *models.Device, i Interaction) (models.Action, error) {
	if i.Kind == ActionColor && i.ColorModel == "" {
		i.ColorModel = NewIndex(d).ColorModel()
	}
	return BuildAction(i)
}

func action(capType string, instance string, value any) models.Action {
	return models.Action{
		Type:  capType,
		State: models.ActionState{Instance: instance, Value: value},
	}
}

func orDefault(s string, def string) string {
	if s == "" {
		return def
	}
	return s
}
