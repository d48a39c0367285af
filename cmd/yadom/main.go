package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	sse "github.com/r3labs/sse/v2"
	"github.com/wheelibin/yadom/internal/capabilities"
	"github.com/wheelibin/yadom/internal/config"
	"github.com/wheelibin/yadom/internal/constants"
	"github.com/wheelibin/yadom/internal/dashboard"
	"github.com/wheelibin/yadom/internal/iot"
	"github.com/wheelibin/yadom/internal/repos"
	"github.com/wheelibin/yadom/internal/tui"
	"gopkg.in/natefinch/lumberjack.v2"
)

const usage = `usage: yadom [-config file] <command> [args]

commands:
  devices                       list devices
  rooms                         list rooms
  scenarios                     list scenarios
  on <device-id>                turn a device on
  off <device-id>               turn a device off
  set <device-id> <kind> <instance> <value>
                                send any action (range brightness 40, mode work_speed auto, ...)
  run <scenario-id>             run a scenario
  login <token>                 store an access token
  logout                        forget the stored token
  watch [server-url]            follow snapshot updates from yadomd
`

func main() {
	configFile := flag.String("config", "", "path to config.yaml")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := log.NewWithOptions(&lumberjack.Logger{
		Filename: "logs/yadom.log",
		MaxAge:   3,
	}, log.Options{
		Level:      log.InfoLevel,
		TimeFormat: "2006/01/02 15:04:05",
	})
	logger.Info("yadom starting", "command", flag.Arg(0))

	// read the config file
	cfg, err := config.InitialiseConfig(*configFile)
	if err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if flag.Arg(0) == "watch" {
		target := cfg.Server.PublicURL
		if flag.NArg() > 1 {
			target = flag.Arg(1)
		}
		if err := watch(ctx, strings.TrimRight(target, "/")+"/events"); err != nil {
			fail(err)
		}
		return
	}

	db, err := repos.OpenDB(cfg.Storage.DBPath)
	if err != nil {
		fail(err)
	}
	defer db.Close()

	tokens, err := repos.NewTokenRepo(logger, db)
	if err != nil {
		fail(err)
	}

	// the cli talks to the service directly, yadomd may not be running
	api := iot.NewIotAPIService(logger, strings.TrimRight(cfg.API.Upstream, "/")+cfg.API.Version, tokens)
	dash := dashboard.NewDashboard(logger, api, tokens, nil)

	if err := run(ctx, dash, flag.Args()); err != nil {
		logger.Error("Command failed", "err", err)
		fail(err)
	}
}

func run(ctx context.Context, dash *dashboard.Dashboard, args []string) error {
	switch cmd := args[0]; cmd {

	case "devices", "rooms", "scenarios":
		if err := dash.Refresh(ctx); err != nil {
			return err
		}
		info := dash.Snapshot().Info
		switch cmd {
		case "devices":
			fmt.Println(tui.DeviceTable(info))
		case "rooms":
			fmt.Println(tui.RoomTable(info))
		default:
			fmt.Println(tui.ScenarioTable(info.Scenarios))
		}
		return nil

	case "on", "off":
		if len(args) < 2 {
			return fmt.Errorf("%s needs a device id", cmd)
		}
		return act(ctx, dash, args[1], capabilities.Interaction{
			Kind:  capabilities.ActionOnOff,
			Value: fmt.Sprint(cmd == "on"),
		})

	case "set":
		if len(args) < 5 {
			return fmt.Errorf("set needs a device id, a kind, an instance and a value")
		}
		return act(ctx, dash, args[1], capabilities.Interaction{
			Kind:     capabilities.ActionKind(args[2]),
			Instance: args[3],
			Value:    args[4],
		})

	case "run":
		if len(args) < 2 {
			return fmt.Errorf("run needs a scenario id")
		}
		if err := dash.RunScenario(ctx, args[1]); err != nil {
			return err
		}
		fmt.Println("Scenario started")
		return nil

	case "login":
		if len(args) < 2 {
			return fmt.Errorf("login needs a token")
		}
		if err := dash.Login(ctx, args[1]); err != nil {
			return err
		}
		fmt.Printf("Signed in, %d devices\n", len(dash.Snapshot().Info.Devices))
		return nil

	case "logout":
		return dash.Logout()

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func act(ctx context.Context, dash *dashboard.Dashboard, deviceID string, i capabilities.Interaction) error {
	// load the snapshot so the action can be matched to the device
	if err := dash.Refresh(ctx); err != nil {
		return err
	}
	if err := dash.Act(ctx, deviceID, i); err != nil {
		return err
	}
	fmt.Println("Done")
	return nil
}

func watch(ctx context.Context, url string) error {
	client := sse.NewClient(url)
	fmt.Printf("Watching %s\n", url)
	return client.SubscribeWithContext(ctx, constants.SnapshotStream, func(msg *sse.Event) {
		event := dashboard.SnapshotEvent{}
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			fmt.Printf("%s\n", msg.Data)
			return
		}
		fmt.Printf("snapshot %d: %d devices\n", event.Version, event.Devices)
	})
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, iot.UserMessage(err))
	os.Exit(1)
}
