// Package remote drives a cubefx effect over MQTT. Commands arrive as JSON
// on a command topic and effect lifecycle changes are published as JSON on a
// status topic.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/phanxgames/cubefx"
)

// Poster runs functions on the game loop. *cubefx.Scene implements it.
type Poster interface {
	Post(fn func())
}

// Target applies commands. *cubefx.Game implements it.
type Target interface {
	Apply(cmd cubefx.Command) error
}

// Topics names the MQTT topics the controller uses.
type Topics struct {
	Command string
	Status  string
}

// Message is the JSON payload accepted on the command topic.
type Message struct {
	Type   string                    `json:"type"`
	Theme  string                    `json:"theme,omitempty"`
	Zoom   float64                   `json:"zoom,omitempty"`
	Colors map[cubefx.FaceKey]string `json:"colors,omitempty"`
}

// Command converts the message to a cubefx.Command.
func (m Message) Command() cubefx.Command {
	return cubefx.Command{
		Action: m.Type,
		Theme:  m.Theme,
		Zoom:   m.Zoom,
		Colors: m.Colors,
	}
}

// Status is the JSON payload published on the status topic.
type Status struct {
	Event  string `json:"event"`
	Active int    `json:"active"`
	Stage  *int   `json:"stage,omitempty"`
}

// Controller bridges an MQTT client and a running effect. Incoming
// messages are decoded on the client's goroutine and posted to the game
// loop; status is published from the game loop.
type Controller struct {
	client mqtt.Client
	poster Poster
	target Target
	topics Topics
	log    *slog.Logger
}

// NewController creates a controller. Call Subscribe once the client is
// connected, typically from the client's OnConnect handler.
func NewController(client mqtt.Client, poster Poster, target Target, topics Topics) *Controller {
	return &Controller{
		client: client,
		poster: poster,
		target: target,
		topics: topics,
		log:    slog.Default(),
	}
}

// SetLogger sets the logger. A nil logger selects slog.Default.
func (c *Controller) SetLogger(log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	c.log = log
}

// Subscribe subscribes to the command topic and waits for the broker to
// acknowledge.
func (c *Controller) Subscribe() error {
	if token := c.client.Subscribe(c.topics.Command, 0, c.handleMessage); token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", c.topics.Command, token.Error())
	}
	c.log.LogAttrs(context.Background(), slog.LevelInfo, "subscribed",
		slog.String("topic", c.topics.Command))
	return nil
}

func (c *Controller) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var m Message
	if err := json.Unmarshal(msg.Payload(), &m); err != nil {
		c.log.LogAttrs(context.Background(), slog.LevelWarn, "bad command",
			slog.String("topic", msg.Topic()),
			slog.Any("error", err))
		return
	}
	cmd := m.Command()
	c.poster.Post(func() {
		if err := c.target.Apply(cmd); err != nil {
			c.log.LogAttrs(context.Background(), slog.LevelWarn, "command failed",
				slog.String("type", cmd.Action),
				slog.Any("error", err))
		}
	})
}

// EmitEffectEvent publishes the event as a Status. It implements
// cubefx.EffectSink.
func (c *Controller) EmitEffectEvent(e cubefx.EffectEvent) {
	st := Status{Event: e.Type.String(), Active: e.Active}
	if e.Type == cubefx.StageSettled {
		stage := e.Stage
		st.Stage = &stage
	}
	if err := c.PublishStatus(st); err != nil {
		c.log.LogAttrs(context.Background(), slog.LevelWarn, "status not published",
			slog.Any("error", err))
	}
}

// PublishStatus publishes st on the status topic without blocking on the
// broker. Delivery failures are logged.
func (c *Controller) PublishStatus(st Status) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	token := c.client.Publish(c.topics.Status, 0, false, b)
	go func() {
		if token.Wait() && token.Error() != nil {
			c.log.LogAttrs(context.Background(), slog.LevelWarn, "publish failed",
				slog.String("topic", c.topics.Status),
				slog.Any("error", token.Error()))
		}
	}()
	return nil
}
