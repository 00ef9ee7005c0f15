package camera

import (
	pmath "github.com/Faultbox/midgard-cam/pkg/math"
)

// Level ids with a hand-tuned starting camera.
const (
	LevelCCM   = 5
	LevelWDW   = 11
	LevelRR    = 15
	LevelBITDW = 17
	LevelBITFS = 19
	LevelBITS  = 21
	LevelWF    = 24
	LevelPSS   = 27
	LevelTTM   = 36
)

// levelStart is the initial camera for a level. Yaw applies only when
// FixedYaw is set; otherwise the camera keeps its current yaw.
type levelStart struct {
	Yaw      pmath.Angle
	FixedYaw bool
	Tilt     pmath.Angle
	Mode     Mode
	Preset   int
}

// levelStartFor returns the starting camera for a level and area. Levels
// without an entry start in ModeNormal at the current yaw with the
// caller's preset.
func levelStartFor(level, area, preset int) levelStart {
	ls := levelStart{Tilt: DefaultTilt, Mode: ModeNormal, Preset: preset}
	bowser := levelStart{Yaw: pmath.Quarter, FixedYaw: true, Tilt: 4000, Mode: Mode8Dir, Preset: 2}

	switch level {
	case LevelBITDW, LevelBITFS, LevelBITS:
		return bowser
	case LevelWF:
		ls.Yaw, ls.Tilt, ls.Preset = pmath.Quarter, 2000, 1
		ls.FixedYaw = true
	case LevelRR:
		ls.Yaw, ls.Tilt, ls.Preset = 0x6000, 2000, 2
		ls.FixedYaw = true
	case LevelCCM:
		if area == 1 {
			ls.Yaw, ls.Tilt, ls.Preset = -pmath.Quarter, 2000, 1
			ls.FixedYaw = true
		} else {
			ls.Mode = ModeSlide
		}
	case LevelWDW:
		ls.Yaw, ls.Tilt, ls.Preset = pmath.Eighth, 3000, 1
		ls.FixedYaw = true
	case LevelPSS:
		ls.Mode = ModeSlide
	case LevelTTM:
		if area == 2 {
			ls.Mode = ModeSlide
		}
	}
	return ls
}
