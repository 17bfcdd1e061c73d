package component

// Velocity moves a Transform every tick, in units per second.
type Velocity struct {
	X, Y float64
	Spin float64 // radians per second
}

// Lifetime destroys its entity after the given number of ticks.
type Lifetime struct {
	Ticks int
}
