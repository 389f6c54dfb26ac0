package portals

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type cell [3]int32

// WallIndex is a spatial hash of wall centers used for nearest-wall lookups.
type WallIndex struct {
	cellSize float32
	cells    map[uint64][]*Wall
	count    int
	min, max cell
}

func NewWallIndex(cellSize float32) *WallIndex {
	return &WallIndex{
		cellSize: cellSize,
		cells:    make(map[uint64][]*Wall),
	}
}

func (grid *WallIndex) Clear() {
	clear(grid.cells)
	grid.count = 0
}

func (grid *WallIndex) Len() int {
	return grid.count
}

func (grid *WallIndex) Insert(w *Wall) {
	c := grid.cellOf(w.Position)
	key := grid.hashKey(c)
	grid.cells[key] = append(grid.cells[key], w)

	if grid.count == 0 {
		grid.min, grid.max = c, c
	} else {
		for i := 0; i < 3; i++ {
			grid.min[i] = min(grid.min[i], c[i])
			grid.max[i] = max(grid.max[i], c[i])
		}
	}
	grid.count++
}

func (grid *WallIndex) Remove(w *Wall) bool {
	key := grid.hashKey(grid.cellOf(w.Position))
	bucket := grid.cells[key]
	for i, other := range bucket {
		if other == w {
			grid.cells[key] = append(bucket[:i], bucket[i+1:]...)
			if len(grid.cells[key]) == 0 {
				delete(grid.cells, key)
			}
			grid.count--
			return true
		}
	}
	return false
}

// Rebuild replaces the index contents, skipping walls rejected by keep.
func (grid *WallIndex) Rebuild(walls []*Wall, keep func(*Wall) bool) {
	grid.Clear()
	for _, w := range walls {
		if w == nil || (keep != nil && !keep(w)) {
			continue
		}
		grid.Insert(w)
	}
}

// Nearest returns the wall whose center is closest to p, searching rings of cells outwards
// until no unvisited ring can hold a closer one.
func (grid *WallIndex) Nearest(p mgl32.Vec3) *Wall {
	if grid.count == 0 {
		return nil
	}
	origin := grid.cellOf(p)

	maxRing := int32(0)
	for i := 0; i < 3; i++ {
		maxRing = max(maxRing, abs32(grid.min[i]-origin[i]), abs32(grid.max[i]-origin[i]))
	}

	var best *Wall
	bestDist := math32.Inf(1)
	for r := int32(0); r <= maxRing; r++ {
		grid.visitRing(origin, r, func(w *Wall) {
			d := w.Position.Sub(p).Len()
			if d < bestDist {
				best, bestDist = w, d
			}
		})
		if best != nil && bestDist <= float32(r)*grid.cellSize {
			break
		}
	}
	return best
}

func (grid *WallIndex) visitRing(origin cell, r int32, visit func(*Wall)) {
	seen := make(map[uint64]struct{})
	for x := -r; x <= r; x++ {
		for y := -r; y <= r; y++ {
			for z := -r; z <= r; z++ {
				if abs32(x) != r && abs32(y) != r && abs32(z) != r {
					continue
				}
				key := grid.hashKey(cell{origin[0] + x, origin[1] + y, origin[2] + z})
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				for _, w := range grid.cells[key] {
					visit(w)
				}
			}
		}
	}
}

func (grid *WallIndex) cellOf(p mgl32.Vec3) cell {
	return cell{
		int32(math32.Floor(p.X() / grid.cellSize)),
		int32(math32.Floor(p.Y() / grid.cellSize)),
		int32(math32.Floor(p.Z() / grid.cellSize)),
	}
}

func (grid *WallIndex) hashKey(c cell) uint64 {
	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:], uint32(c[0]))
	binary.LittleEndian.PutUint32(buf[4:], uint32(c[1]))
	binary.LittleEndian.PutUint32(buf[8:], uint32(c[2]))
	return xxhash.Sum64(buf[:])
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
