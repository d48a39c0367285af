package capabilities

import (
	"strings"

	"github.com/wheelibin/yadom/internal/constants"
	"github.com/wheelibin/yadom/internal/models"
)

type capKey struct {
	capType  string
	instance string
}

// Index gives constant-time capability lookup for one device, keyed by
// (type, instance) and by type alone (first declared wins).
type Index struct {
	device *models.Device
	byKey  map[capKey]*models.Capability
	byType map[string]*models.Capability
}

func NewIndex(d *models.Device) *Index {
	ix := &Index{
		device: d,
		byKey:  make(map[capKey]*models.Capability, len(d.Capabilities)),
		byType: make(map[string]*models.Capability, len(d.Capabilities)),
	}
	for i := range d.Capabilities {
		c := &d.Capabilities[i]
		k := capKey{capType: c.Type, instance: Instance(c, "")}
		if _, exists := ix.byKey[k]; !exists {
			ix.byKey[k] = c
		}
		if _, exists := ix.byType[c.Type]; !exists {
			ix.byType[c.Type] = c
		}
	}
	return ix
}

func (ix *Index) Get(capType string, instance string) *models.Capability {
	return ix.byKey[capKey{capType: capType, instance: instance}]
}

func (ix *Index) First(capType string) *models.Capability {
	return ix.byType[capType]
}

func (ix *Index) Device() *models.Device {
	return ix.device
}

// Color returns the colour_setting capability when it supports rgb or hsv.
func (ix *Index) Color() *models.Capability {
	for i := range ix.device.Capabilities {
		c := &ix.device.Capabilities[i]
		if c.Type != constants.CapabilityColorSetting {
			continue
		}
		if m := c.Parameters.ColorModel; m == constants.ColorModelRGB || m == constants.ColorModelHSV {
			return c
		}
	}
	return nil
}

// ColorModel reports the declared colour model, defaulting to rgb.
func (ix *Index) ColorModel() string {
	if c := ix.Color(); c != nil {
		return c.Parameters.ColorModel
	}
	return constants.ColorModelRGB
}

func IsHumidifier(d *models.Device) bool {
	t := strings.ToLower(d.Type)
	return strings.Contains(t, "humidifier") || strings.Contains(t, "purifier") || strings.Contains(t, "humid")
}

func IsCamera(d *models.Device) bool {
	if strings.Contains(strings.ToLower(d.Type), "camera") {
		return true
	}
	for _, c := range d.Capabilities {
		if c.Type == constants.CapabilityVideoStream {
			return true
		}
	}
	return false
}

// CardType picks the card layout for a device.
func CardType(d *models.Device) string {
	for i := range d.Capabilities {
		c := &d.Capabilities[i]
		if c.Type == constants.CapabilityToggle && Instance(c, "") == constants.InstanceBacklight {
			return constants.CardTypeBacklight
		}
	}
	if IsHumidifier(d) {
		return constants.CardTypeHumidifier
	}
	t := strings.ToLower(d.Type)
	if strings.Contains(t, "light") || strings.Contains(t, "lamp") {
		return constants.CardTypeLight
	}
	return constants.CardTypeDefault
}
