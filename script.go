package cubefx

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Command actions understood by scripts and the remote controller.
const (
	ActionStart  = "start"
	ActionStop   = "stop"
	ActionWait   = "wait"
	ActionTheme  = "theme"
	ActionZoom   = "zoom"
	ActionColors = "colors"
)

// Command is a single effect instruction. Scripts read them from JSON and
// the remote controller receives them over MQTT.
type Command struct {
	Action string `json:"action"`
	// Theme is the theme name for "theme".
	Theme string `json:"theme,omitempty"`
	// Zoom is the target zoom factor for "zoom".
	Zoom float64 `json:"zoom,omitempty"`
	// Frames is the number of frames to wait for "wait".
	Frames int `json:"frames,omitempty"`
	// Colors holds "#rrggbb" overrides per face key for "colors".
	Colors map[FaceKey]string `json:"colors,omitempty"`
}

// ErrUnknownCommand is returned when a command's action is not recognized.
var ErrUnknownCommand = errors.New("unknown command")

// script is the top-level JSON structure for a script.
type script struct {
	Steps []Command `json:"steps"`
}

// Script sequences commands across frames for unattended runs. Attach it
// to a Scene via SetScript.
type Script struct {
	steps     []Command
	cursor    int
	waitCount int
	done      bool
	err       error
}

// LoadScript parses a JSON script and returns a Script ready to be attached
// to a Scene via SetScript.
func LoadScript(jsonData []byte) (*Script, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	return &Script{steps: sc.Steps}, nil
}

// SetScript attaches a script to the scene. Every non-wait step is handed
// to apply from Scene.Update, one step per frame. The first error from
// apply ends the script.
func (s *Scene) SetScript(sc *Script, apply func(Command) error) {
	s.script = sc
	s.applyScript = apply
}

// Done reports whether all steps in the script have been executed, or the
// script stopped on an error.
func (r *Script) Done() bool {
	return r.done
}

// Err returns the error that ended the script, if any.
func (r *Script) Err() error {
	return r.err
}

// step advances the script by one frame. Called from Scene.Update.
func (r *Script) step(s *Scene) {
	if r.done {
		return
	}
	// Count down wait frames.
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case ActionWait:
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	default:
		if s.applyScript != nil {
			if err := s.applyScript(st); err != nil {
				r.err = fmt.Errorf("script step %d: %w", r.cursor, err)
				r.done = true
				return
			}
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
