package sim

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-cam/internal/engine/camera"
	"github.com/Faultbox/midgard-cam/internal/engine/collision"
)

// ErrEmptyScript is returned for scripts without any frames.
var ErrEmptyScript = errors.New("script has no frames")

// Stick is a logical stick position, roughly ±80 per axis.
type Stick struct {
	X int8 `yaml:"x"`
	Y int8 `yaml:"y"`
}

// Step holds one controller state for a number of frames.
type Step struct {
	Frames  int      `yaml:"frames"` // 0 means 1
	Buttons []string `yaml:"buttons,omitempty"`
	Stick   Stick    `yaml:"stick,omitempty"`
	Camera  Stick    `yaml:"camera,omitempty"` // second stick
	Reset   bool     `yaml:"reset,omitempty"`  // reset the session first

	held camera.Buttons
}

// Script is a recorded input sequence.
type Script struct {
	Level     string                  `yaml:"level"` // file path, or empty for the built-in room
	Traversal collision.TraversalMode `yaml:"traversal"`
	Settings  camera.Settings         `yaml:"settings"` // merged over the defaults
	Steps     []Step                  `yaml:"steps"`
}

// ParseScript decodes and validates a YAML script.
func ParseScript(data []byte) (*Script, error) {
	s := Script{Settings: camera.DefaultSettings()}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	if err := s.resolve(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScript reads a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Script) resolve() error {
	if s.Frames() == 0 {
		return ErrEmptyScript
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		if st.Frames < 0 {
			return fmt.Errorf("step %d: negative frame count", i)
		}
		for _, name := range st.Buttons {
			b, ok := camera.ParseButton(name)
			if !ok {
				return fmt.Errorf("step %d: unknown button %q", i, name)
			}
			st.held |= b
		}
	}
	return nil
}

// Frames returns the total frame count.
func (s *Script) Frames() int {
	n := 0
	for _, st := range s.Steps {
		n += max(st.Frames, 1)
	}
	return n
}

// Run plays the script on sess, calling fn after every frame. A
// button held across consecutive steps stays held.
func (s *Script) Run(sess *Session, fn func(Sample)) error {
	var p1, p2 camera.ControllerState
	for _, st := range s.Steps {
		if st.Reset {
			sess.Reset()
		}
		for i := 0; i < max(st.Frames, 1); i++ {
			p1 = p1.Next(st.held, st.Stick.X, st.Stick.Y)
			p2 = p2.Next(0, st.Camera.X, st.Camera.Y)
			if err := sess.Step(camera.ControllerInput{Player1: p1, Player2: p2}); err != nil {
				return fmt.Errorf("frame %d: %w", sess.Frame(), err)
			}
			if fn != nil {
				fn(sess.Sample())
			}
		}
	}
	return nil
}
