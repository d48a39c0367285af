package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	sse "github.com/r3labs/sse/v2"
	"github.com/samber/lo"
	"github.com/wheelibin/yadom/internal/auth"
	"github.com/wheelibin/yadom/internal/capabilities"
	"github.com/wheelibin/yadom/internal/concurrency"
	"github.com/wheelibin/yadom/internal/constants"
	"github.com/wheelibin/yadom/internal/iot"
	"github.com/wheelibin/yadom/internal/models"
	"github.com/wheelibin/yadom/internal/normalizer"
)

type IotApiService interface {
	GetUserInfo(ctx context.Context) (*iot.UserInfoResponse, error)
	SendDeviceActions(ctx context.Context, deviceID string, actions []models.Action) (*iot.ActionsResponse, error)
	GetGroup(ctx context.Context, groupID string) (*iot.GroupResponse, error)
	RunScenario(ctx context.Context, scenarioID string) error
	GetCameraStream(ctx context.Context, deviceID string) (string, error)
}

type TokenRepo interface {
	GetToken() (string, error)
	SetToken(token string) error
	ClearToken() error
}

type Publisher interface {
	Publish(id string, event *sse.Event)
}

// max concurrent group lookups for a device detail
const groupFetchLimit = 4

var ErrUnknownDevice = errors.New("unknown device")

// Snapshot is one committed view of the home. It is replaced wholesale on
// every successful refresh and never modified afterwards.
type Snapshot struct {
	Info     *models.UserInfo
	Raw      json.RawMessage
	Version  int64
	LoadedAt time.Time
}

type SnapshotEvent struct {
	Version int64 `json:"version"`
	Devices int   `json:"devices"`
}

// State is what the views need to draw a page.
type State struct {
	HasToken bool
	Snapshot *Snapshot
	Filter   string
	Err      error
}

// Dashboard owns the application state: token presence, the current
// snapshot, the active filter and the last error.
type Dashboard struct {
	logger *log.Logger
	api    IotApiService
	tokens TokenRepo
	events Publisher

	mu        sync.RWMutex
	snapshot  *Snapshot
	filter    string
	lastErr   error
	issued    int64
	committed int64
}

func NewDashboard(logger *log.Logger, api IotApiService, tokens TokenRepo, events Publisher) *Dashboard {
	return &Dashboard{
		logger: logger,
		api:    api,
		tokens: tokens,
		events: events,
		filter: constants.FilterAll,
	}
}

func (d *Dashboard) State() State {
	token, err := d.tokens.GetToken()
	if err != nil {
		d.logger.Error("Error reading token", "err", err)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	return State{
		HasToken: token != "",
		Snapshot: d.snapshot,
		Filter:   d.filter,
		Err:      d.lastErr,
	}
}

func (d *Dashboard) Snapshot() *Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshot
}

func (d *Dashboard) SetFilter(filter string) {
	if !lo.Contains([]string{constants.FilterAll, constants.FilterOffline, constants.FilterLight, constants.FilterTV}, filter) {
		filter = constants.FilterAll
	}
	d.mu.Lock()
	d.filter = filter
	d.mu.Unlock()
}

// Refresh reloads user info and commits it unless a refresh started later
// has already been committed.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	d.issued++
	seq := d.issued
	d.mu.Unlock()

	d.logger.Debug("Dashboard.Refresh", "seq", seq)

	resp, err := d.api.GetUserInfo(ctx)
	if err != nil {
		d.fail(seq, err)
		return err
	}

	info := normalizer.NormalizeResponse(resp)

	d.mu.Lock()
	if seq < d.committed {
		d.mu.Unlock()
		d.logger.Debug("Dropping stale refresh", "seq", seq, "committed", d.committed)
		return nil
	}
	d.committed = seq
	d.snapshot = &Snapshot{Info: info, Raw: resp.Raw, Version: seq, LoadedAt: time.Now()}
	d.lastErr = nil
	d.mu.Unlock()

	d.logger.Info("Snapshot refreshed", "version", seq, "devices", len(info.Devices), "rooms", len(info.Rooms), "groups", len(info.Groups))
	d.publish(seq, len(info.Devices))
	return nil
}

func (d *Dashboard) fail(seq int64, err error) {
	if iot.IsUnauthorized(err) {
		d.handleError(err)
		d.mu.Lock()
		d.lastErr = err
		d.mu.Unlock()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq < d.committed {
		return
	}
	d.lastErr = err
}

// Act sends one interaction for a device and reloads the snapshot.
func (d *Dashboard) Act(ctx context.Context, deviceID string, i capabilities.Interaction) error {
	var action models.Action
	var err error
	if dev, ok := d.device(deviceID); ok {
		action, err = capabilities.BuildDeviceAction(dev, i)
	} else {
		action, err = capabilities.BuildAction(i)
	}
	if err != nil {
		return err
	}

	d.logger.Info("Sending action", "device", deviceID, "type", action.Type, "instance", action.State.Instance, "value", action.State.Value)
	if _, err := d.api.SendDeviceActions(ctx, deviceID, []models.Action{action}); err != nil {
		d.handleError(err)
		return err
	}

	return d.Refresh(ctx)
}

func (d *Dashboard) RunScenario(ctx context.Context, scenarioID string) error {
	d.logger.Info("Running scenario", "scenario", scenarioID)
	if err := d.api.RunScenario(ctx, scenarioID); err != nil {
		d.handleError(err)
		return err
	}
	return nil
}

// Device returns the device from the current snapshot.
func (d *Dashboard) Device(deviceID string) (*models.Device, error) {
	dev, ok := d.device(deviceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID)
	}
	return dev, nil
}

func (d *Dashboard) device(deviceID string) (*models.Device, bool) {
	snap := d.Snapshot()
	if snap == nil || snap.Info == nil {
		return nil, false
	}
	return snap.Info.DeviceByID(deviceID)
}

// GroupDevices fetches every group the device belongs to in parallel and
// returns the other members, in group order. Groups that fail to load are
// skipped.
func (d *Dashboard) GroupDevices(ctx context.Context, dev *models.Device) []models.Device {
	if len(dev.GroupIDs) == 0 {
		return nil
	}

	worker := concurrency.NewThrottledWorker(groupFetchLimit, func(ctx context.Context, groupID string) (*iot.GroupResponse, error) {
		return d.api.GetGroup(ctx, groupID)
	})

	var members []models.Device
	seen := map[string]bool{dev.ID: true}
	for _, res := range worker.Run(ctx, dev.GroupIDs) {
		if res.Err != nil {
			d.logger.Warn("Error loading group", "group", res.Arg, "err", res.Err)
			d.handleError(res.Err)
			continue
		}
		for _, m := range res.Value.Devices {
			if m.ID == "" || seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			if full, ok := d.device(m.ID); ok {
				m = *full
			}
			members = append(members, m)
		}
	}
	return members
}

// CameraStream returns the HLS url for a camera, routed through the stream
// relay when relayPath is set.
func (d *Dashboard) CameraStream(ctx context.Context, deviceID string, relayPath string) (string, error) {
	url, err := d.api.GetCameraStream(ctx, deviceID)
	if err != nil {
		d.handleError(err)
		return "", err
	}
	if relayPath != "" {
		return StreamURL(relayPath, url), nil
	}
	return url, nil
}

func (d *Dashboard) Login(ctx context.Context, token string) error {
	if token == "" {
		return auth.ErrNoToken
	}
	if err := d.tokens.SetToken(token); err != nil {
		return fmt.Errorf("error saving token: %w", err)
	}
	d.logger.Info("Token stored")
	return d.Refresh(ctx)
}

func (d *Dashboard) Logout() error {
	d.logger.Info("Signing out")
	return d.clearSession()
}

func (d *Dashboard) clearSession() error {
	d.mu.Lock()
	d.snapshot = nil
	d.lastErr = nil
	// anything still in flight belongs to the old session
	d.issued++
	d.committed = d.issued
	d.mu.Unlock()

	return d.tokens.ClearToken()
}

func (d *Dashboard) handleError(err error) {
	if iot.IsUnauthorized(err) {
		d.logger.Warn("Token rejected, signing out", "err", err)
		if clearErr := d.clearSession(); clearErr != nil {
			d.logger.Error("Error clearing token", "err", clearErr)
		}
	}
}

func (d *Dashboard) publish(version int64, devices int) {
	if d.events == nil {
		return
	}
	data, err := json.Marshal(SnapshotEvent{Version: version, Devices: devices})
	if err != nil {
		d.logger.Error("Error encoding snapshot event", "err", err)
		return
	}
	d.events.Publish(constants.SnapshotStream, &sse.Event{Event: []byte(constants.SnapshotStream), Data: data})
}

// Run loads the snapshot when a token is present and then refreshes on
// every tick until ctx is cancelled. A zero interval disables the ticker.
func (d *Dashboard) Run(ctx context.Context, interval time.Duration) {
	d.logger.Debug("Dashboard.Run", "interval", interval)

	if token, _ := d.tokens.GetToken(); token != "" {
		go d.refreshQuietly(ctx)
	}

	if interval <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Dashboard.Run: stop signal received")
			return
		case <-ticker.C:
			if token, _ := d.tokens.GetToken(); token == "" {
				continue
			}
			go d.refreshQuietly(ctx)
		}
	}
}

func (d *Dashboard) refreshQuietly(ctx context.Context) {
	if err := d.Refresh(ctx); err != nil {
		d.logger.Error("Background refresh failed", "err", err)
	}
}
