package portals

import (
	"errors"

	"github.com/gekko3d/portals/core"
)

var (
	ErrPortalNotFound   = errors.New("portal not found")
	ErrDuplicatePortal  = errors.New("a portal of this color is already registered")
	ErrUnknownColor     = errors.New("unknown portal color")
	ErrDegenerateNormal = core.ErrDegenerateNormal
	ErrInvalidConfig    = errors.New("invalid portal config")
	ErrNotDuplicable    = errors.New("body cannot be duplicated")
)
