package physics

import "github.com/san-kum/bugsim/internal/dynamo"

// ResolveWalls keeps e inside the viewport, reflecting the velocity component
// of every axis that crossed a wall. Axes are handled independently, so a
// corner hit reflects both in the same pass. Reports whether a wall was hit.
func ResolveWalls(e *dynamo.Entity, b dynamo.Bounds) bool {
	hitX := reflect(&e.Pos.X, &e.Vel.X, e.Diameter(), b.Width)
	hitY := reflect(&e.Pos.Y, &e.Vel.Y, e.Diameter(), b.Height)
	return hitX || hitY
}

func reflect(pos, vel *float64, size, bound float64) bool {
	if *pos < 0 {
		*pos = 0
		*vel *= -dynamo.WallRestitution
		return true
	}
	if *pos+size > bound {
		*pos = bound - size
		*vel *= -dynamo.WallRestitution
		return true
	}
	return false
}

// Contain clamps the position of e into the viewport without touching its
// velocity. Run after pair resolution, whose positional correction can push
// an entity past a wall that was already resolved this tick.
func Contain(e *dynamo.Entity, b dynamo.Bounds) {
	e.Pos.X = clamp(e.Pos.X, 0, b.Width-e.Diameter())
	e.Pos.Y = clamp(e.Pos.Y, 0, b.Height-e.Diameter())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
