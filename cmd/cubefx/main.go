// The cubefx command shows the confetti effect in a window, optionally
// driven by a script or by MQTT commands.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/phanxgames/cubefx"
	"github.com/phanxgames/cubefx/remote"
)

// Exit status codes.
const (
	success         = 0
	internalError   = 1
	invocationError = 2
)

func main() {
	os.Exit(Main())
}

func Main() int {
	configPath := flag.String("config", "", "YAML config file (defaults when empty)")
	logging := flag.String("log", "info", "logging level (debug, info, warn or error)")
	scriptPath := flag.String("script", "", "JSON script to run")
	useRemote := flag.Bool("remote", false, "accept commands over MQTT using the remote config section")
	headless := flag.Bool("headless", false, "run without a window at 60 simulated frames per second")
	frames := flag.Int("frames", 600, "frame limit for headless runs")
	debug := flag.Bool("debug", false, "enable scene debug checks and frame stats")
	flag.Parse()

	var level slog.LevelVar
	err := level.UnmarshalText([]byte(*logging))
	if err != nil {
		flag.Usage()
		return invocationError
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: &level,
	})).With(
		slog.String("component", "cubefx"),
	)
	ctx := context.Background()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.LogAttrs(ctx, slog.LevelError, "config", slog.Any("error", err))
		return invocationError
	}

	var clock *cubefx.ManualClock
	var scene *cubefx.Scene
	if *headless {
		clock = cubefx.NewManualClock(time.Now())
		scene = cubefx.NewSceneWithClock(clock)
	} else {
		scene = cubefx.NewScene()
	}
	scene.Resize(cfg.Window.Width, cfg.Window.Height)
	scene.SetLogger(log)
	scene.SetDebugMode(*debug)

	game, err := cubefx.NewGame(scene, cfg)
	if err != nil {
		log.LogAttrs(ctx, slog.LevelError, "build effect", slog.Any("error", err))
		return invocationError
	}
	game.SetLogger(log)

	var sinks cubefx.EffectSinks
	sinks = append(sinks, logSink{log: log})

	var script *cubefx.Script
	if *scriptPath != "" {
		b, err := os.ReadFile(*scriptPath)
		if err != nil {
			log.LogAttrs(ctx, slog.LevelError, "read script", slog.Any("error", err))
			return invocationError
		}
		script, err = cubefx.LoadScript(b)
		if err != nil {
			log.LogAttrs(ctx, slog.LevelError, "load script", slog.Any("error", err))
			return invocationError
		}
		scene.SetScript(script, game.Apply)
	} else {
		game.Confetti.Start()
	}

	if *useRemote {
		if cfg.Remote.URL == "" {
			log.LogAttrs(ctx, slog.LevelError, "remote requested without remote.url")
			return invocationError
		}
		client, ctrl := dialRemote(cfg, scene, game, log)
		defer client.Disconnect(250)
		sinks = append(sinks, ctrl)
	}
	game.Confetti.SetEventSink(sinks)

	if *headless {
		return runHeadless(ctx, scene, clock, script, *frames, log)
	}

	if script != nil {
		scene.SetUpdateFunc(func() error {
			if script.Done() {
				return script.Err()
			}
			return nil
		})
	}
	log.LogAttrs(ctx, slog.LevelInfo, "start")
	err = cubefx.Run(scene, cfg.RunConfig())
	if err != nil {
		log.LogAttrs(ctx, slog.LevelError, "run", slog.Any("error", err))
		return internalError
	}
	log.LogAttrs(ctx, slog.LevelInfo, "exit")
	return success
}

func loadConfig(path string) (cubefx.Config, error) {
	if path == "" {
		return cubefx.DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cubefx.Config{}, err
	}
	defer f.Close()
	return cubefx.LoadConfig(f)
}

func dialRemote(cfg cubefx.Config, scene *cubefx.Scene, game *cubefx.Game, log *slog.Logger) (mqtt.Client, *remote.Controller) {
	mqtt.ERROR = slog.NewLogLogger(log.Handler(), slog.LevelError)

	var ctrl *remote.Controller
	options := mqtt.NewClientOptions().
		AddBroker(cfg.Remote.URL).
		SetClientID(cfg.Remote.ClientID).
		SetUsername(cfg.Remote.Username).
		SetPassword(cfg.Remote.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(mqtt.Client) {
			if err := ctrl.Subscribe(); err != nil {
				log.LogAttrs(context.Background(), slog.LevelError, "remote", slog.Any("error", err))
			}
		})
	client := mqtt.NewClient(options)
	ctrl = remote.NewController(client, scene, game, remote.Topics{
		Command: cfg.Remote.Topics.Command,
		Status:  cfg.Remote.Topics.Status,
	})
	ctrl.SetLogger(log.With(slog.String("part", "remote")))

	// Connect in the background so a missing broker does not hold up the
	// window; the client keeps retrying.
	go func() {
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.LogAttrs(context.Background(), slog.LevelError, "remote connect", slog.Any("error", token.Error()))
		}
	}()
	return client, ctrl
}

// runHeadless steps the scene at a simulated 60 Hz until the script ends
// or the frame limit is reached.
func runHeadless(ctx context.Context, scene *cubefx.Scene, clock *cubefx.ManualClock, script *cubefx.Script, frames int, log *slog.Logger) int {
	const step = time.Second / 60
	log.LogAttrs(ctx, slog.LevelInfo, "start headless", slog.Int("frames", frames))
	for i := 0; i < frames; i++ {
		clock.Advance(step)
		scene.Update()
		if script != nil && script.Done() {
			break
		}
	}
	if script != nil {
		if err := script.Err(); err != nil {
			log.LogAttrs(ctx, slog.LevelError, "script", slog.Any("error", err))
			return internalError
		}
		if !script.Done() {
			log.LogAttrs(ctx, slog.LevelWarn, "script unfinished at frame limit")
		}
	}
	log.LogAttrs(ctx, slog.LevelInfo, "exit", slog.Uint64("ticks", scene.Driver().Ticks()))
	return success
}

// logSink logs effect lifecycle events.
type logSink struct {
	log *slog.Logger
}

func (s logSink) EmitEffectEvent(e cubefx.EffectEvent) {
	s.log.LogAttrs(context.Background(), slog.LevelInfo, "effect",
		slog.String("event", e.Type.String()),
		slog.Int("stage", e.Stage),
		slog.Int("active", e.Active),
	)
}
