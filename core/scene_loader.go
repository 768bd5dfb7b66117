// core/scene_loader.go
package core

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/plantsignal/sunbeam/model"
)

// Scene bundles everything a sensor invocation needs: where the room is,
// its geometry, and the scan step.
type Scene struct {
	Location model.Location
	Room     *model.Room
	Step     time.Duration
}

// internal JSON shapes – kept unexported so the file format can evolve
// without leaking into the API.
type sceneJSON struct {
	Location    locationJSON `json:"location"`
	StepMinutes int          `json:"step_minutes"`
	Walls       []wallJSON   `json:"walls"`
	Windows     []windowJSON `json:"windows"`
	Plant       *[3]float64  `json:"plant"`
}

type locationJSON struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	ElevationM float64 `json:"elevation_m"`
	Timezone   string  `json:"timezone"`
}

type wallJSON struct {
	ID       string       `json:"id"`
	Vertices [][3]float64 `json:"vertices"`
}

// windowJSON accepts either an explicit vertex list or the rectangle
// shorthand: a window centred at rect.center in its wall's plane, width
// along the wall's horizontal axis, height along the vertical.
type windowJSON struct {
	ID       string       `json:"id"`
	WallID   string       `json:"wall_id"`
	Vertices [][3]float64 `json:"vertices,omitempty"`
	Rect     *rectJSON    `json:"rect,omitempty"`
}

type rectJSON struct {
	Center  [3]float64 `json:"center"`
	WidthM  float64    `json:"width_m"`
	HeightM float64    `json:"height_m"`
}

// LoadScene reads a JSON scene description from r, validates it, and builds
// the immutable geometry. Structural problems fail decoding; geometric
// violations surface as model.ErrGeometry and bad coordinates as
// model.ErrInvalidLocation.
func LoadScene(r io.Reader) (*Scene, error) {
	var payload sceneJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScene: decode failed: %w", err)
	}

	loc := model.Location{
		Latitude:   payload.Location.Latitude,
		Longitude:  payload.Location.Longitude,
		ElevationM: payload.Location.ElevationM,
		Timezone:   payload.Location.Timezone,
	}
	if err := loc.Validate(); err != nil {
		return nil, fmt.Errorf("LoadScene: %w", err)
	}

	if payload.Plant == nil {
		return nil, fmt.Errorf("LoadScene: missing plant position")
	}
	plant := vecFromArray(*payload.Plant)

	walls := make([]model.Wall, 0, len(payload.Walls))
	wallVerts := make(map[string][]r3.Vec, len(payload.Walls))
	for _, jw := range payload.Walls {
		if jw.ID == "" {
			return nil, fmt.Errorf("LoadScene: wall with empty id")
		}
		verts := vecsFromArrays(jw.Vertices)
		walls = append(walls, model.Wall{ID: jw.ID, Vertices: verts})
		wallVerts[jw.ID] = verts
	}

	windows := make([]model.Window, 0, len(payload.Windows))
	for _, jw := range payload.Windows {
		if jw.ID == "" {
			return nil, fmt.Errorf("LoadScene: window with empty id")
		}
		switch {
		case len(jw.Vertices) > 0 && jw.Rect != nil:
			return nil, fmt.Errorf("LoadScene: window %q declares both vertices and rect", jw.ID)
		case len(jw.Vertices) > 0:
			windows = append(windows, model.Window{
				ID:       jw.ID,
				WallID:   jw.WallID,
				Vertices: vecsFromArrays(jw.Vertices),
			})
		case jw.Rect != nil:
			verts, err := rectVertices(jw, wallVerts)
			if err != nil {
				return nil, fmt.Errorf("LoadScene: window %q: %w", jw.ID, err)
			}
			windows = append(windows, model.Window{ID: jw.ID, WallID: jw.WallID, Vertices: verts})
		default:
			return nil, fmt.Errorf("LoadScene: window %q has neither vertices nor rect", jw.ID)
		}
	}

	room, err := model.NewRoom(walls, windows, plant)
	if err != nil {
		return nil, fmt.Errorf("LoadScene: %w", err)
	}

	step := DefaultStep
	if payload.StepMinutes > 0 {
		step = time.Duration(payload.StepMinutes) * time.Minute
	}

	return &Scene{Location: loc, Room: room, Step: step}, nil
}

// rectVertices expands the rectangle shorthand into the four corner
// vertices (bottom-left, bottom-right, top-right, top-left as seen from
// outside). The horizontal axis lies in the wall plane, the vertical axis
// points straight up, so the shorthand only works on vertical walls.
func rectVertices(jw windowJSON, wallVerts map[string][]r3.Vec) ([]r3.Vec, error) {
	verts, ok := wallVerts[jw.WallID]
	if !ok {
		return nil, fmt.Errorf("unknown wall %q", jw.WallID)
	}
	n, err := model.PolygonNormal(verts)
	if err != nil {
		return nil, fmt.Errorf("wall %q: %v", jw.WallID, err)
	}
	if math.Hypot(n.X, n.Y) < parallelEps {
		return nil, fmt.Errorf("rect shorthand requires a vertical wall, use explicit vertices")
	}
	if jw.Rect.WidthM <= 0 || jw.Rect.HeightM <= 0 {
		return nil, fmt.Errorf("rect width/height must be positive")
	}

	h := r3.Unit(r3.Vec{X: -n.Y, Y: n.X})
	v := r3.Vec{Z: 1}
	c := vecFromArray(jw.Rect.Center)
	hw := r3.Scale(jw.Rect.WidthM/2, h)
	hh := r3.Scale(jw.Rect.HeightM/2, v)

	return []r3.Vec{
		r3.Sub(r3.Sub(c, hw), hh),
		r3.Sub(r3.Add(c, hw), hh),
		r3.Add(r3.Add(c, hw), hh),
		r3.Add(r3.Sub(c, hw), hh),
	}, nil
}

func vecFromArray(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

func vecsFromArrays(as [][3]float64) []r3.Vec {
	out := make([]r3.Vec, len(as))
	for i, a := range as {
		out[i] = vecFromArray(a)
	}
	return out
}
