package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrGeometry reports malformed room geometry detected at construction.
var ErrGeometry = errors.New("invalid room geometry")

// coplanarTol is the largest distance (metres) a vertex may sit off its
// polygon's plane before the polygon is rejected as non-planar.
const coplanarTol = 1e-6

// edgeTol pads point-in-polygon checks so points on an edge count as inside.
const edgeTol = 1e-9

// Wall is a planar, convex polygon bounding the room. The outward normal is
// derived during room construction and points away from the plant.
type Wall struct {
	ID       string
	Vertices []r3.Vec

	normal r3.Vec
}

// Normal returns the wall's outward unit normal. It is only meaningful on
// walls obtained from a Room.
func (w Wall) Normal() r3.Vec { return w.normal }

// Contains reports whether p, assumed to lie on the wall's plane, is inside
// the wall polygon. Boundary points count as inside.
func (w Wall) Contains(p r3.Vec) bool {
	return pointInConvexPolygon(p, w.Vertices, w.normal)
}

// Window is an aperture cut into a wall: a planar, convex polygon lying in
// its parent wall's plane, inside the wall's extent. Its outward normal is
// the parent wall's.
type Window struct {
	ID       string
	WallID   string
	Vertices []r3.Vec

	normal r3.Vec
}

// Normal returns the window's outward unit normal (the parent wall's). It is
// only meaningful on windows obtained from a Room.
func (w Window) Normal() r3.Vec { return w.normal }

// Contains reports whether p, assumed to lie on the window's plane, is inside
// the window polygon. Boundary points count as inside.
func (w Window) Contains(p r3.Vec) bool {
	return pointInConvexPolygon(p, w.Vertices, w.normal)
}

// Room is an immutable description of the scene geometry: walls, the windows
// cut into them, and the plant position. Build it once with NewRoom; it is
// then safe to share across goroutines without locking.
type Room struct {
	walls   []Wall
	windows []Window
	plant   r3.Vec
}

// NewRoom validates the given geometry and returns an immutable Room.
//
// Normals are canonicalised: every wall's normal is oriented away from the
// plant and its vertex winding made counter-clockwise as seen from outside;
// window windings are aligned with their parent wall. The order of walls and
// windows is preserved, so occlusion testing is deterministic in
// configuration order.
func NewRoom(walls []Wall, windows []Window, plant r3.Vec) (*Room, error) {
	if len(walls) == 0 {
		return nil, fmt.Errorf("%w: at least one wall is required", ErrGeometry)
	}

	r := &Room{
		walls:   make([]Wall, 0, len(walls)),
		windows: make([]Window, 0, len(windows)),
		plant:   plant,
	}

	wallByID := make(map[string]int, len(walls))
	for _, in := range walls {
		if in.ID == "" {
			return nil, fmt.Errorf("%w: wall with empty id", ErrGeometry)
		}
		if _, dup := wallByID[in.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate wall id %q", ErrGeometry, in.ID)
		}
		w := Wall{ID: in.ID, Vertices: append([]r3.Vec(nil), in.Vertices...)}

		n, err := PolygonNormal(w.Vertices)
		if err != nil {
			return nil, fmt.Errorf("%w: wall %q: %v", ErrGeometry, w.ID, err)
		}
		if err := checkCoplanar(w.Vertices, w.Vertices[0], n); err != nil {
			return nil, fmt.Errorf("%w: wall %q: %v", ErrGeometry, w.ID, err)
		}

		// Orient the normal away from the plant; the plant sits inside the
		// room, so "outward" is the side facing away from it.
		side := r3.Dot(n, r3.Sub(plant, centroid(w.Vertices)))
		if math.Abs(side) < coplanarTol {
			return nil, fmt.Errorf("%w: plant lies in the plane of wall %q", ErrGeometry, w.ID)
		}
		if side > 0 {
			n = r3.Scale(-1, n)
			reverse(w.Vertices)
		}
		w.normal = n

		wallByID[w.ID] = len(r.walls)
		r.walls = append(r.walls, w)
	}

	windowIDs := make(map[string]struct{}, len(windows))
	for _, in := range windows {
		if in.ID == "" {
			return nil, fmt.Errorf("%w: window with empty id", ErrGeometry)
		}
		if _, dup := windowIDs[in.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate window id %q", ErrGeometry, in.ID)
		}
		windowIDs[in.ID] = struct{}{}

		wi, ok := wallByID[in.WallID]
		if !ok {
			return nil, fmt.Errorf("%w: window %q references unknown wall %q", ErrGeometry, in.ID, in.WallID)
		}
		wall := r.walls[wi]

		win := Window{
			ID:       in.ID,
			WallID:   in.WallID,
			Vertices: append([]r3.Vec(nil), in.Vertices...),
			normal:   wall.normal,
		}
		if len(win.Vertices) < 3 {
			return nil, fmt.Errorf("%w: window %q has %d vertices, need at least 3", ErrGeometry, win.ID, len(win.Vertices))
		}
		if err := checkCoplanar(win.Vertices, wall.Vertices[0], wall.normal); err != nil {
			return nil, fmt.Errorf("%w: window %q does not lie in wall %q: %v", ErrGeometry, win.ID, wall.ID, err)
		}
		for _, v := range win.Vertices {
			if !wall.Contains(v) {
				return nil, fmt.Errorf("%w: window %q extends outside wall %q", ErrGeometry, win.ID, wall.ID)
			}
		}

		// Align the window's winding with the wall normal so containment
		// tests see a consistent orientation.
		wn, err := PolygonNormal(win.Vertices)
		if err != nil {
			return nil, fmt.Errorf("%w: window %q: %v", ErrGeometry, win.ID, err)
		}
		if r3.Dot(wn, wall.normal) < 0 {
			reverse(win.Vertices)
		}

		r.windows = append(r.windows, win)
	}

	return r, nil
}

// Walls returns the walls in configuration order.
func (r *Room) Walls() []Wall { return r.walls }

// Windows returns all windows in configuration order.
func (r *Room) Windows() []Window { return r.windows }

// WindowsOn returns the windows cut into the wall with the given ID,
// preserving configuration order.
func (r *Room) WindowsOn(wallID string) []Window {
	var out []Window
	for _, w := range r.windows {
		if w.WallID == wallID {
			out = append(out, w)
		}
	}
	return out
}

// Plant returns the plant's position.
func (r *Room) Plant() r3.Vec { return r.plant }

// PolygonNormal derives a polygon's unit normal from its vertex winding via
// Newell's method (right-hand rule). It fails for polygons with fewer than
// three vertices or with degenerate (collinear) geometry.
func PolygonNormal(verts []r3.Vec) (r3.Vec, error) {
	if len(verts) < 3 {
		return r3.Vec{}, fmt.Errorf("polygon has %d vertices, need at least 3", len(verts))
	}
	var n r3.Vec
	for i, a := range verts {
		b := verts[(i+1)%len(verts)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	if r3.Norm(n) < coplanarTol {
		return r3.Vec{}, errors.New("degenerate polygon")
	}
	return r3.Unit(n), nil
}

func checkCoplanar(verts []r3.Vec, planePoint, normal r3.Vec) error {
	for i, v := range verts {
		if d := math.Abs(r3.Dot(r3.Sub(v, planePoint), normal)); d > coplanarTol {
			return fmt.Errorf("vertex %d is %g m off the plane", i, d)
		}
	}
	return nil
}

// pointInConvexPolygon reports whether p lies inside the convex polygon whose
// vertices wind counter-clockwise around normal. p is assumed to lie on the
// polygon's plane.
func pointInConvexPolygon(p r3.Vec, verts []r3.Vec, normal r3.Vec) bool {
	for i, a := range verts {
		b := verts[(i+1)%len(verts)]
		edge := r3.Sub(b, a)
		if r3.Dot(r3.Cross(edge, r3.Sub(p, a)), normal) < -edgeTol {
			return false
		}
	}
	return true
}

func centroid(verts []r3.Vec) r3.Vec {
	var c r3.Vec
	for _, v := range verts {
		c = r3.Add(c, v)
	}
	return r3.Scale(1/float64(len(verts)), c)
}

func reverse(verts []r3.Vec) {
	for i, j := 0, len(verts)-1; i < j; i, j = i+1, j-1 {
		verts[i], verts[j] = verts[j], verts[i]
	}
}
