package constants

import "time"

const TokenKey = "yandex_iot_token"

// capability types
const CapabilityOnOff = "devices.capabilities.on_off"
const CapabilityRange = "devices.capabilities.range"
const CapabilityMode = "devices.capabilities.mode"
const CapabilityToggle = "devices.capabilities.toggle"
const CapabilityColorSetting = "devices.capabilities.color_setting"
const CapabilityVideoStream = "devices.capabilities.video_stream"

// capability instances
const InstanceOn = "on"
const InstanceBrightness = "brightness"
const InstanceHumidity = "humidity"
const InstanceWaterLevel = "water_level"
const InstanceBacklight = "backlight"
const InstanceWorkSpeed = "work_speed"
const InstanceInputSource = "input_source"
const InstanceTemperatureK = "temperature_k"
const InstanceRGB = "rgb"
const InstanceHSV = "hsv"
const InstanceGetStream = "get_stream"

const ColorModelRGB = "rgb"
const ColorModelHSV = "hsv"

const DeviceStateOffline = "offline"

// card limits
const MaxColorSwatches = 8
const MaxModeButtons = 3

// dashboard filters
const FilterAll = "all"
const FilterOffline = "offline"
const FilterLight = "light"
const FilterTV = "tv"

// device categories
const CategoryLight = "light"
const CategoryTV = "tv"
const CategorySocket = "socket"
const CategoryCamera = "camera"
const CategoryOther = "other"

// card types
const CardTypeLight = "light"
const CardTypeBacklight = "backlight"
const CardTypeHumidifier = "humidifier"
const CardTypeDefault = "default"

const DefaultRefreshInterval = time.Duration(0)
const CameraStreamTimeout = 45 * time.Second
const CameraPlaybackTimeout = 15 * time.Second

const RelayGetTimeout = 30 * time.Second
const RelayPostTimeout = 60 * time.Second

const SnapshotStream = "snapshot"
