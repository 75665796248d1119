// Package config loads engine-wide preferences (model, ROM paths, warp
// defaults) from disk using viper, in the style of a typed preferences
// layer sitting in front of a general-purpose config loader.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// Model selects the PAL/NTSC/Drean timing and VIC chip variant.
type Model int

// Supported machine models.
const (
	PAL Model = iota
	NTSC
	PALN // "Drean" - PAL-N timing used in Argentina
)

func (m Model) String() string {
	switch m {
	case PAL:
		return "PAL"
	case NTSC:
		return "NTSC"
	case PALN:
		return "PAL-N"
	default:
		return "unknown"
	}
}

// ParseModel converts a config/CLI string into a Model.
func ParseModel(s string) (Model, error) {
	switch s {
	case "PAL", "pal", "":
		return PAL, nil
	case "NTSC", "ntsc":
		return NTSC, nil
	case "PAL-N", "paln", "drean":
		return PALN, nil
	default:
		return PAL, fmt.Errorf("config: unknown model %q", s)
	}
}

// Values holds the engine-wide settings loaded from disk.
type Values struct {
	Model               Model
	BasicROM            string
	KernalROM           string
	CharROM             string
	DriveROM            string
	WarpOnLoad          bool
	DefaultCartridgeKind string
}

// Load reads configuration from the given path (if non-empty) plus
// GO64_-prefixed environment variables, applying defaults for anything
// unset. Missing files are not an error; missing ROM paths are reported at
// Machine.PowerOn time instead.
func Load(path string) (Values, error) {
	v := viper.New()
	v.SetEnvPrefix("GO64")
	v.AutomaticEnv()

	v.SetDefault("model", "PAL")
	v.SetDefault("warp_on_load", false)
	v.SetDefault("default_cartridge_kind", "normal")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
				return Values{}, fmt.Errorf("config: %w", err)
			}
		}
	}

	model, err := ParseModel(v.GetString("model"))
	if err != nil {
		return Values{}, err
	}

	return Values{
		Model:                model,
		BasicROM:             v.GetString("basic_rom"),
		KernalROM:            v.GetString("kernal_rom"),
		CharROM:              v.GetString("char_rom"),
		DriveROM:             v.GetString("drive_rom"),
		WarpOnLoad:           v.GetBool("warp_on_load"),
		DefaultCartridgeKind: v.GetString("default_cartridge_kind"),
	}, nil
}
