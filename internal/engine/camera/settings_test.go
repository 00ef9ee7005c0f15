package camera

import "testing"

func TestDefaultSettingsInRange(t *testing.T) {
	d := DefaultSettings()
	if d.Clamp() != d {
		t.Errorf("defaults out of range: %+v", d)
	}
	if d.SensitivityX != 75 || d.PanLevel != 75 || d.Degrade != 10 || !d.Analogue {
		t.Errorf("unexpected defaults: %+v", d)
	}
}

func TestSettingsClampIdempotent(t *testing.T) {
	inputs := []int{-1000, -1, 0, 1, 2, 4, 5, 9, 10, 11, 50, 99, 100, 101, 499, 500, 501, 32767}

	for _, o := range Options() {
		lo, hi := o.Range()
		for _, v := range inputs {
			once := o.Clamp(v)
			if twice := o.Clamp(once); twice != once {
				t.Errorf("%v: clamp(clamp(%d)) = %d, clamp(%d) = %d", o, v, twice, v, once)
			}
			if once < lo || once > hi {
				t.Errorf("%v: clamp(%d) = %d outside [%d, %d]", o, v, once, lo, hi)
			}
		}
	}
}

func TestSettingsClampRanges(t *testing.T) {
	s := Settings{
		SensitivityX: 1,
		SensitivityY: 9000,
		InvertX:      -4,
		InvertY:      7,
		Aggression:   101,
		PanLevel:     -3,
		Degrade:      0,
	}
	got := s.Clamp()
	want := Settings{
		SensitivityX: 10,
		SensitivityY: 500,
		InvertX:      0,
		InvertY:      1,
		Aggression:   100,
		PanLevel:     0,
		Degrade:      5,
	}
	if got != want {
		t.Errorf("Clamp() = %+v, want %+v", got, want)
	}
	if got.Clamp() != got {
		t.Errorf("Clamp not idempotent on struct")
	}
}

func TestSettingsStep(t *testing.T) {
	s := DefaultSettings()

	s.Step(OptionInvertX, 1)
	if s.InvertX != 1 {
		t.Errorf("toggle on: invert_x = %d", s.InvertX)
	}
	s.Step(OptionInvertX, 1)
	if s.InvertX != 0 {
		t.Errorf("toggle off: invert_x = %d", s.InvertX)
	}

	s.Step(OptionAggression, -5)
	if s.Aggression != 0 {
		t.Errorf("aggression = %d, want 0", s.Aggression)
	}
	s.Step(OptionSensitivityX, 1000)
	if s.SensitivityX != 500 {
		t.Errorf("sensitivity_x = %d, want 500", s.SensitivityX)
	}
	if s.Get(OptionSensitivityX) != 500 {
		t.Errorf("Get disagrees with field")
	}
}

func TestOptionNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, o := range Options() {
		name := o.String()
		if name == "unknown" || seen[name] {
			t.Errorf("option %d has bad name %q", o, name)
		}
		seen[name] = true
	}
	if Option(99).String() != "unknown" {
		t.Errorf("out-of-range option name = %q", Option(99).String())
	}
}
