package ui

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

// ColourScheme is a base16 scheme: sixteen "#rrggbb" colours keyed
// base00 to base0F. The leading '#' is optional in the file.
type ColourScheme struct {
	Base00 string `toml:"base00"` // background
	Base01 string `toml:"base01"`
	Base02 string `toml:"base02"`
	Base03 string `toml:"base03"`
	Base04 string `toml:"base04"`
	Base05 string `toml:"base05"` // foreground
	Base06 string `toml:"base06"`
	Base07 string `toml:"base07"`
	Base08 string `toml:"base08"` // red
	Base09 string `toml:"base09"`
	Base0A string `toml:"base0A"`
	Base0B string `toml:"base0B"` // green
	Base0C string `toml:"base0C"`
	Base0D string `toml:"base0D"` // blue
	Base0E string `toml:"base0E"`
	Base0F string `toml:"base0F"`
}

// LoadColourScheme reads a TOML base16 scheme. Every key must be present and
// hold a six-digit hex colour.
func LoadColourScheme(path string) (*ColourScheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cs ColourScheme
	if err := toml.Unmarshal(data, &cs); err != nil {
		return nil, fmt.Errorf("colour scheme %s: %w", path, err)
	}
	if err := cs.normalize(); err != nil {
		return nil, fmt.Errorf("colour scheme %s: %w", path, err)
	}
	return &cs, nil
}

// normalize checks every field and rewrites it as lowercase "#rrggbb".
func (cs *ColourScheme) normalize() error {
	v := reflect.ValueOf(cs).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		key := t.Field(i).Tag.Get("toml")
		c, err := parseHexColour(v.Field(i).String())
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		v.Field(i).SetString(c)
	}
	return nil
}

func parseHexColour(s string) (string, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if hex == "" {
		return "", fmt.Errorf("missing colour")
	}
	if len(hex) != 6 {
		return "", fmt.Errorf("invalid colour %q", s)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return "", fmt.Errorf("invalid colour %q", s)
	}
	return "#" + strings.ToLower(hex), nil
}

func (cs *ColourScheme) palette() palette {
	return palette{
		background: lipgloss.Color(cs.Base00),
		text:       lipgloss.Color(cs.Base05),
		primary:    lipgloss.Color(cs.Base0D),
		success:    lipgloss.Color(cs.Base0B),
		danger:     lipgloss.Color(cs.Base08),
	}
}
