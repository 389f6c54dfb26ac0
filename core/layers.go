package core

import (
	"fmt"
	"strings"
)

// RenderLayers is a 20 layer visibility mask, numbered 1..20.
type RenderLayers uint32

const (
	MaxLayer     = 20
	AllLayers    = RenderLayers(1<<MaxLayer - 1)
	DefaultLayer = 1
)

func LayerMask(layers ...int) RenderLayers {
	var m RenderLayers
	for _, l := range layers {
		m = m.With(l, true)
	}
	return m
}

func (m RenderLayers) Has(layer int) bool {
	if layer < 1 || layer > MaxLayer {
		return false
	}
	return m&(1<<(layer-1)) != 0
}

func (m RenderLayers) With(layer int, on bool) RenderLayers {
	if layer < 1 || layer > MaxLayer {
		return m
	}
	bit := RenderLayers(1 << (layer - 1))
	if on {
		return m | bit
	}
	return m &^ bit
}

func (m *RenderLayers) Set(layer int, on bool) {
	*m = m.With(layer, on)
}

// Intersects is how a cull mask decides whether a mesh on layers o is drawn.
func (m RenderLayers) Intersects(o RenderLayers) bool {
	return m&o != 0
}

func (m RenderLayers) String() string {
	var parts []string
	for l := 1; l <= MaxLayer; l++ {
		if m.Has(l) {
			parts = append(parts, fmt.Sprint(l))
		}
	}
	return "[" + strings.Join(parts, ",") + "]"
}
