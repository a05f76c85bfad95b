package navigation

import (
	"fmt"
	"math"
	"strings"

	"github.com/roman-kulish/sol-telemetry/internal/units"
)

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

// quarterTurn is the rotation applied by a single Left or Right movement
const quarterTurn = 90.0

// Direction is a movement direction, and the derived final facing of the vehicle
type Direction int

func (d Direction) String() string {
	switch d {
	case Forward:
		return "Forward"
	case Backward:
		return "Backward"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection accepts "Forward"/"forward", "Backward"/"backward",
// "Left"/"left" and "Right"/"right". Any other spelling is rejected.
func ParseDirection(s string) (Direction, error) {
	switch strings.TrimSpace(s) {
	case "Forward", "forward":
		return Forward, nil
	case "Backward", "backward":
		return Backward, nil
	case "Left", "left":
		return Left, nil
	case "Right", "right":
		return Right, nil
	default:
		return 0, fmt.Errorf("invalid direction: '%s'", s)
	}
}

// Movement is a single distance travelled in a direction
type Movement struct {
	Distance  units.Measurement `json:"distance"`
	Direction Direction         `json:"direction"`
}

// Position is the offset from the landing site in meters.
// Forward/Backward move along Y, Left/Right along X.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p *Position) move(d Direction, meters float64) {
	switch d {
	case Forward:
		p.Y += meters
	case Backward:
		p.Y -= meters
	case Left:
		p.X -= meters
	case Right:
		p.X += meters
	}
}

// DistanceTo returns the Euclidean distance between two positions
func (p Position) DistanceTo(o Position) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// DistanceFromOrigin returns the Euclidean distance from the landing site
func (p Position) DistanceFromOrigin() float64 {
	return p.DistanceTo(Position{})
}

// Heading is the vehicle orientation in degrees, always in [0, 360).
// Zero is the orientation at deployment.
type Heading float64

// Rotate turns the heading by the given number of degrees and normalizes it
func (h Heading) Rotate(degrees float64) Heading {
	a := math.Mod(float64(h)+degrees, 360)
	if a < 0 {
		a += 360
	}
	return Heading(a)
}

// Direction maps the heading onto four 90° sectors centred on the cardinal directions
func (h Heading) Direction() Direction {
	switch a := float64(h); {
	case a < 45 || a >= 315:
		return Forward
	case a < 135:
		return Right
	case a < 225:
		return Backward
	default:
		return Left
	}
}

// Navigation accumulates position and heading from ordered movements.
// The zero value is ready to use and positioned at the landing site facing Forward.
type Navigation struct {
	position Position
	heading  Heading
}

// Apply applies movements strictly in order. Each distance is converted to
// meters, moves the position along its axis and, for Left and Right, rotates
// the heading by a quarter turn (Left +90°, Right -90°).
//
// Movements are applied one at a time: when a conversion fails, the movements
// before it stay applied and the returned error names the failed one.
// Callers should treat the Sol as invalid or reset it.
func (n *Navigation) Apply(r *units.Registry, movements []Movement) error {
	for i, m := range movements {
		meters, err := m.Distance.ToBase(r)
		if err != nil {
			return fmt.Errorf("applying movement %d of %d: %w", i+1, len(movements), err)
		}

		n.position.move(m.Direction, meters)

		switch m.Direction {
		case Left:
			n.heading = n.heading.Rotate(quarterTurn)
		case Right:
			n.heading = n.heading.Rotate(-quarterTurn)
		}
	}
	return nil
}

// Position returns the current position
func (n *Navigation) Position() Position {
	return n.position
}

// Heading returns the current heading
func (n *Navigation) Heading() Heading {
	return n.heading
}

// FinalDistance returns the straight-line distance from the landing site in meters
func (n *Navigation) FinalDistance() units.Measurement {
	return units.Meters(n.position.DistanceFromOrigin())
}

// FinalDirection returns the direction the vehicle is facing
func (n *Navigation) FinalDirection() Direction {
	return n.heading.Direction()
}

// Reset returns to the landing site, facing Forward
func (n *Navigation) Reset() {
	n.position = Position{}
	n.heading = 0
}
