package normalizer_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/yadom/internal/models"
	"github.com/wheelibin/yadom/internal/normalizer"
)

func ids(info *models.UserInfo) []string {
	return lo.Map(info.Devices, func(d models.Device, _ int) string { return d.ID })
}

func Test_Normalize(t *testing.T) {

	t.Run("should read a flat payload", func(t *testing.T) {
		// arrange
		body := `{"status": "ok",
		  "rooms": [{"id": "r1", "name": "Kitchen", "devices": ["d2"]}],
		  "groups": [{"id": "g1", "name": "Lights", "devices": ["d1", "d2"]}],
		  "devices": [{"id": "d1", "name": "Lamp", "room": "r1"}, {"id": "d2", "name": "Kettle"}, {"id": "d1", "name": "Lamp copy"}],
		  "scenarios": [{"id": "s1", "name": "Good night"}]}`

		// act
		info, err := normalizer.Normalize([]byte(body))

		// assert
		require.NoError(t, err)
		assert.Equal(t, []string{"d1", "d2"}, ids(info))
		assert.Equal(t, "Lamp", info.Devices[0].Name)
		assert.Equal(t, []string{"r1"}, info.Devices[0].RoomIDs)
		assert.Equal(t, []string{"r1"}, info.Devices[1].RoomIDs)
		assert.Len(t, info.Rooms, 1)
		assert.Len(t, info.Groups, 1)
		assert.Equal(t, "Good night", info.Scenarios[0].Name)
	})

	t.Run("should unwrap a payload envelope", func(t *testing.T) {
		info, err := normalizer.Normalize([]byte(`{"payload": {"devices": [{"id": "d1"}]}}`))

		require.NoError(t, err)
		assert.Equal(t, []string{"d1"}, ids(info))
	})

	t.Run("should prefer house-nested devices over the flat list", func(t *testing.T) {
		// arrange
		body := `{
		  "houses": [{"id": "h1", "name": "Home",
		    "devices": [{"id": "d1", "name": "From house"}],
		    "rooms": [{"id": "r1", "name": "Bedroom", "devices": [{"id": "d2", "name": "From room"}, {"id": "d1", "name": "Room copy"}]}],
		    "groups": [{"id": "g1", "name": "Group"}]}],
		  "devices": [{"id": "d2", "name": "Flat copy"}, {"id": "d3", "name": "Flat only"}],
		  "rooms": [{"id": "rX", "name": "Ignored"}]}`

		// act
		info, err := normalizer.Normalize([]byte(body))

		// assert
		require.NoError(t, err)
		assert.Equal(t, []string{"d1", "d2", "d3"}, ids(info))
		assert.Equal(t, "From house", info.Devices[0].Name)
		assert.Equal(t, "From room", info.Devices[1].Name)
		assert.Equal(t, "h1", info.Devices[0].HouseholdID)
		assert.Equal(t, []string{"r1"}, info.Devices[1].RoomIDs)
		assert.Equal(t, "", info.Devices[2].HouseholdID)
		assert.Equal(t, []models.Room{{ID: "r1", Name: "Bedroom", HouseholdID: "h1"}}, info.Rooms)
		assert.Len(t, info.Groups, 1)
	})

	t.Run("should take the household id from household_id when a house has no id", func(t *testing.T) {
		info, err := normalizer.Normalize([]byte(`{"houses": [{"household_id": "hh9", "devices": [{"id": "d1"}]}]}`))

		require.NoError(t, err)
		assert.Equal(t, "hh9", info.Devices[0].HouseholdID)
	})

	t.Run("should add unseen household devices with the household id", func(t *testing.T) {
		// arrange
		body := `{
		  "devices": [{"id": "d1", "household_id": "own"}],
		  "households": [{"id": "hh1", "devices": [{"id": "d1"}, {"id": "d2"}, {"id": "d3", "household_id": "kept"}]}]}`

		// act
		info, err := normalizer.Normalize([]byte(body))

		// assert
		require.NoError(t, err)
		assert.Equal(t, []string{"d1", "d2", "d3"}, ids(info))
		assert.Equal(t, "own", info.Devices[0].HouseholdID)
		assert.Equal(t, "hh1", info.Devices[1].HouseholdID)
		assert.Equal(t, "kept", info.Devices[2].HouseholdID)
	})

	t.Run("should collect devices from groups only", func(t *testing.T) {
		body := `{"groups": [
		  {"id": "g1", "name": "TV", "devices": [{"id": "d1", "name": "TV"}, {"id": "d2", "name": "Box"}]},
		  {"id": "g2", "name": "All", "devices": [{"id": "d2", "name": "Box again"}, "d3"]}]}`

		info, err := normalizer.Normalize([]byte(body))

		require.NoError(t, err)
		assert.Equal(t, []string{"d1", "d2"}, ids(info))
		assert.Equal(t, "Box", info.Devices[1].Name)
	})

	t.Run("should skip entries without an id", func(t *testing.T) {
		info, err := normalizer.Normalize([]byte(`{"devices": [{"name": "nameless"}, null, 42, {"id": "d1"}]}`))

		require.NoError(t, err)
		assert.Equal(t, []string{"d1"}, ids(info))
	})

	t.Run("should keep a device whose capability is malformed", func(t *testing.T) {
		// arrange
		body := `{"devices": [
		  {"id": "lamp-1", "name": "Desk lamp", "type": "devices.types.light", "state": "online",
		   "capabilities": [
		     {"type": "devices.capabilities.on_off", "state": {"instance": "on", "value": true}},
		     {"type": "devices.capabilities.range", "parameters": {"range": {"min": "0", "max": 100}}}]},
		  {"id": "fan-1", "name": 5, "capabilities": [{"type": "devices.capabilities.mode", "parameters": {"modes": 5}}],
		   "device_info": "broken"}]}`

		// act
		info, err := normalizer.Normalize([]byte(body))

		// assert
		require.NoError(t, err)
		assert.Equal(t, []string{"lamp-1", "fan-1"}, ids(info))
		assert.Equal(t, "Desk lamp", info.Devices[0].Name)
		assert.Equal(t, "online", info.Devices[0].State)
		require.Len(t, info.Devices[0].Capabilities, 1)
		assert.Equal(t, "devices.capabilities.on_off", info.Devices[0].Capabilities[0].Type)
		assert.Empty(t, info.Devices[1].Name)
		assert.Empty(t, info.Devices[1].Capabilities)
	})

	t.Run("should read a room given as a single object", func(t *testing.T) {
		info, err := normalizer.Normalize([]byte(`{"devices": [{"id": "d1", "room": {"id": "r1", "name": "Hall"}}]}`))

		require.NoError(t, err)
		assert.Equal(t, []string{"r1"}, info.Devices[0].RoomIDs)
	})

	t.Run("should return empty sections for an empty object", func(t *testing.T) {
		info, err := normalizer.Normalize([]byte(`{}`))

		require.NoError(t, err)
		assert.NotNil(t, info.Devices)
		assert.Empty(t, info.Devices)
		assert.Empty(t, info.Rooms)
		assert.Empty(t, info.Groups)
		assert.Empty(t, info.Scenarios)
	})

	t.Run("should fail on a body that is not json", func(t *testing.T) {
		_, err := normalizer.Normalize([]byte(`not json`))

		assert.Error(t, err)
	})

	t.Run("should never produce duplicate ids", func(t *testing.T) {
		bodies := []string{
			`{"devices": [{"id": "a"}, {"id": "b"}, {"id": "a"}]}`,
			`{"houses": [{"id": "h", "devices": [{"id": "a"}], "rooms": [{"id": "r", "devices": [{"id": "a"}, {"id": "b"}]}]}], "devices": [{"id": "b"}]}`,
			`{"households": [{"id": "h1", "devices": [{"id": "a"}]}, {"id": "h2", "devices": [{"id": "a"}, {"id": "c"}]}]}`,
			`{"groups": [{"id": "g", "devices": [{"id": "a"}, {"id": "a"}]}]}`,
		}
		for _, body := range bodies {
			info, err := normalizer.Normalize([]byte(body))
			require.NoError(t, err)
			got := ids(info)
			assert.Equal(t, lo.Uniq(got), got, body)
		}
	})

	t.Run("should index devices by id", func(t *testing.T) {
		info, _ := normalizer.Normalize([]byte(`{"devices": [{"id": "a", "name": "A"}, {"id": "b", "name": "B"}]}`))

		d, ok := info.DeviceByID("b")

		assert.True(t, ok)
		assert.Equal(t, "B", d.Name)
		_, ok = info.DeviceByID("zzz")
		assert.False(t, ok)
	})

}
