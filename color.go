package portals

import (
	"fmt"
	"strings"
)

type PortalColor int

const (
	Blue PortalColor = iota
	Orange
)

var portalColors = [...]PortalColor{Blue, Orange}

func (c PortalColor) Valid() bool {
	return c == Blue || c == Orange
}

func (c PortalColor) Partner() PortalColor {
	if c == Blue {
		return Orange
	}
	return Blue
}

func (c PortalColor) String() string {
	switch c {
	case Blue:
		return "blue"
	case Orange:
		return "orange"
	}
	return fmt.Sprintf("PortalColor(%d)", int(c))
}

func ParsePortalColor(s string) (PortalColor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blue":
		return Blue, nil
	case "orange":
		return Orange, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

func (c PortalColor) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownColor, int(c))
	}
	return []byte(c.String()), nil
}

func (c *PortalColor) UnmarshalText(b []byte) error {
	parsed, err := ParsePortalColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
