package world

import "math"

// DefaultHeadingUnits is the number of heading units in a full turn.
const DefaultHeadingUnits = 1024

// Pose is the position and orientation of a single bot at the end of a tick.
type Pose struct {
	X, Y int32
	// Heading and Turret are in heading units, [0, units). Turret is relative
	// to the hull.
	Heading uint32
	Turret  uint32
}

// Radians converts a heading in the given encoding to radians in world
// orientation. No sign flip is applied.
func Radians(heading uint32, units uint32) float64 {
	return float64(heading%units) * 2 * math.Pi / float64(units)
}

// Snapshot is the pose of every live bot after a tick. Once published a
// Snapshot must not be mutated.
type Snapshot struct {
	Tick  uint64
	Poses []Pose
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Poses)
}

// Equal reports whether two snapshots carry the same tick and poses.
func (s *Snapshot) Equal(o *Snapshot) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Tick != o.Tick || len(s.Poses) != len(o.Poses) {
		return false
	}
	for i := range s.Poses {
		if s.Poses[i] != o.Poses[i] {
			return false
		}
	}
	return true
}
