package component

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween slides the local Transform position towards a target. TweenSystem
// advances it and removes it once both axes finish.
type Tween struct {
	X, Y *gween.Tween
}

// NewTween animates from (fromX, fromY) to (toX, toY) over seconds.
func NewTween(fromX, fromY, toX, toY float64, seconds float32, fn ease.TweenFunc) Tween {
	return Tween{
		X: gween.New(float32(fromX), float32(toX), seconds, fn),
		Y: gween.New(float32(fromY), float32(toY), seconds, fn),
	}
}

var easings = map[string]ease.TweenFunc{
	"":             ease.Linear,
	"linear":       ease.Linear,
	"in_out_quad":  ease.InOutQuad,
	"in_out_cubic": ease.InOutCubic,
	"in_out_sine":  ease.InOutSine,
	"out_cubic":    ease.OutCubic,
	"out_bounce":   ease.OutBounce,
	"out_elastic":  ease.OutElastic,
}

// Easing looks up an easing curve by its scene-file name. The empty name is
// linear.
func Easing(name string) (ease.TweenFunc, bool) {
	fn, ok := easings[name]
	return fn, ok
}
