package preset

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidPreset = errors.New("invalid preset")

// Preset maps any charge name containing RawPattern onto PreferredName.
type Preset struct {
	RawPattern    string
	PreferredName string
	CreatedAt     time.Time
}

// Best picks the preset with the longest pattern contained in raw, ignoring
// case. Ties go to the most recently created preset.
func Best(presets []Preset, raw string) (Preset, bool) {
	raw = strings.ToLower(raw)

	var (
		best  Preset
		found bool
	)

	for _, p := range presets {
		if !strings.Contains(raw, strings.ToLower(p.RawPattern)) {
			continue
		}

		switch {
		case !found,
			len(p.RawPattern) > len(best.RawPattern),
			len(p.RawPattern) == len(best.RawPattern) && p.CreatedAt.After(best.CreatedAt):
			best, found = p, true
		}
	}

	return best, found
}
