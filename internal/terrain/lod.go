package terrain

// LODSelector maps camera-to-chunk distance to a discrete detail tier.
type LODSelector struct {
	near, far float64
}

// NewLODSelector builds a selector with the two tier thresholds (near < far).
func NewLODSelector(near, far float64) LODSelector {
	return LODSelector{near: near, far: far}
}

// LevelForDistance returns tier 0 below the near threshold, tier 1 between the
// thresholds, tier 2 otherwise. Pure step function of distance; there is no
// hysteresis, so a chunk hovering exactly at a threshold may toggle tiers
// between frames.
func (s LODSelector) LevelForDistance(distance float64) int {
	switch {
	case distance < s.near:
		return 0
	case distance < s.far:
		return 1
	default:
		return 2
	}
}
