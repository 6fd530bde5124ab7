package remote

import (
	"encoding/json"
	"errors"
	"testing"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/go-cmp/cmp"

	"github.com/phanxgames/cubefx"
)

// fakeToken completes immediately with err.
type fakeToken struct {
	mqtt.Token
	err error
}

func (t *fakeToken) Wait() bool   { return true }
func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic   string
	payload []byte
}

// fakeClient records subscriptions and publishes. Unused methods panic
// through the nil embedded interface.
type fakeClient struct {
	mqtt.Client
	subErr    error
	subTopic  string
	handler   mqtt.MessageHandler
	published []published
}

func (c *fakeClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	c.subTopic = topic
	c.handler = callback
	return &fakeToken{err: c.subErr}
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.published = append(c.published, published{topic: topic, payload: payload.([]byte)})
	return &fakeToken{}
}

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }

// queuePoster collects posted functions until run.
type queuePoster struct {
	fns []func()
}

func (p *queuePoster) Post(fn func()) { p.fns = append(p.fns, fn) }

func (p *queuePoster) run() {
	for _, fn := range p.fns {
		fn()
	}
	p.fns = nil
}

type recordingTarget struct {
	cmds []cubefx.Command
	err  error
}

func (r *recordingTarget) Apply(cmd cubefx.Command) error {
	r.cmds = append(r.cmds, cmd)
	return r.err
}

var testTopics = Topics{Command: "cubefx/command", Status: "cubefx/status"}

func newTestController() (*Controller, *fakeClient, *queuePoster, *recordingTarget) {
	client := &fakeClient{}
	poster := &queuePoster{}
	target := &recordingTarget{}
	return NewController(client, poster, target, testTopics), client, poster, target
}

func TestSubscribe(t *testing.T) {
	c, client, _, _ := newTestController()
	if err := c.Subscribe(); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if client.subTopic != "cubefx/command" {
		t.Errorf("topic = %q, want cubefx/command", client.subTopic)
	}
	if client.handler == nil {
		t.Error("handler not registered")
	}
}

func TestSubscribeError(t *testing.T) {
	c, client, _, _ := newTestController()
	client.subErr = errors.New("not authorized")
	err := c.Subscribe()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, client.subErr) {
		t.Errorf("err = %v, want wrapped subscribe error", err)
	}
}

func TestHandleMessagePostsCommand(t *testing.T) {
	c, client, poster, target := newTestController()
	if err := c.Subscribe(); err != nil {
		t.Fatal(err)
	}

	client.handler(client, &fakeMessage{
		topic:   "cubefx/command",
		payload: []byte(`{"type": "zoom", "zoom": 1.5}`),
	})
	client.handler(client, &fakeMessage{
		topic:   "cubefx/command",
		payload: []byte(`{"type": "colors", "colors": {"R": "#00ff00"}}`),
	})

	if len(target.cmds) != 0 {
		t.Fatal("commands should not be applied off the game loop")
	}
	poster.run()

	if len(target.cmds) != 2 {
		t.Fatalf("applied = %d, want 2", len(target.cmds))
	}
	if target.cmds[0].Action != cubefx.ActionZoom || target.cmds[0].Zoom != 1.5 {
		t.Errorf("cmd 0 = %+v, want zoom 1.5", target.cmds[0])
	}
	if target.cmds[1].Colors[cubefx.FaceRight] != "#00ff00" {
		t.Errorf("cmd 1 colors = %v", target.cmds[1].Colors)
	}
}

func TestHandleMessageBadJSON(t *testing.T) {
	c, client, poster, _ := newTestController()
	_ = c.Subscribe()

	client.handler(client, &fakeMessage{topic: "cubefx/command", payload: []byte(`{"type":`)})

	if len(poster.fns) != 0 {
		t.Errorf("posted = %d for a malformed message, want 0", len(poster.fns))
	}
}

func TestHandleMessageApplyError(t *testing.T) {
	c, client, poster, target := newTestController()
	target.err = cubefx.ErrUnknownCommand
	_ = c.Subscribe()

	client.handler(client, &fakeMessage{topic: "cubefx/command", payload: []byte(`{"type": "dance"}`)})
	poster.run() // logs, must not panic

	if len(target.cmds) != 1 {
		t.Errorf("applied = %d, want 1", len(target.cmds))
	}
}

func TestEmitEffectEventPublishes(t *testing.T) {
	c, client, _, _ := newTestController()

	c.EmitEffectEvent(cubefx.EffectEvent{Type: cubefx.EffectStarted, Stage: -1, Active: 2})
	c.EmitEffectEvent(cubefx.EffectEvent{Type: cubefx.StageSettled, Stage: 0, Active: 1})

	if len(client.published) != 2 {
		t.Fatalf("published = %d, want 2", len(client.published))
	}
	for _, p := range client.published {
		if p.topic != "cubefx/status" {
			t.Errorf("topic = %q, want cubefx/status", p.topic)
		}
	}

	var started map[string]any
	if err := json.Unmarshal(client.published[0].payload, &started); err != nil {
		t.Fatal(err)
	}
	if started["event"] != "started" || started["active"] != 2.0 {
		t.Errorf("started status = %v", started)
	}
	if _, ok := started["stage"]; ok {
		t.Error("started status should omit stage")
	}

	var settled Status
	if err := json.Unmarshal(client.published[1].payload, &settled); err != nil {
		t.Fatal(err)
	}
	stage := 0
	want := Status{Event: "stage-settled", Active: 1, Stage: &stage}
	if !cmp.Equal(want, settled) {
		t.Errorf("unexpected settled status:\n--- want:\n+++ got:\n%s", cmp.Diff(want, settled))
	}
}

func TestMessageCommand(t *testing.T) {
	m := Message{Type: "theme", Theme: "erno"}
	cmd := m.Command()
	if cmd.Action != cubefx.ActionTheme || cmd.Theme != "erno" {
		t.Errorf("Command = %+v", cmd)
	}
}

func TestControllerIsEffectSink(t *testing.T) {
	var _ cubefx.EffectSink = (*Controller)(nil)
	var _ Poster = (*cubefx.Scene)(nil)
	var _ Target = (*cubefx.Game)(nil)
}
