package layout

// radialDuration is the arc interpolation time in milliseconds;
// radialHideDuration the fade-out after completion.
const (
	radialDuration     = 350
	radialHideDuration = 200
)

// RadialProgress is the animated circular transfer indicator. It is
// constructed lazily on first need and must never be destroyed while
// still animating; owners check Animating before dropping it.
type RadialProgress struct {
	from, to  float64
	current   float64
	lastMS    int64
	hideStart int64
	animating bool
}

// NewRadialProgress starts the animation at the given fraction.
func NewRadialProgress(progress float64, ms int64) *RadialProgress {
	return &RadialProgress{
		from:      0,
		to:        progress,
		current:   0,
		lastMS:    ms,
		animating: true,
	}
}

// Start (re)arms the animation toward the fraction.
func (r *RadialProgress) Start(progress float64, ms int64) {
	r.from = r.current
	r.to = clamp01(progress)
	r.lastMS = ms
	r.hideStart = 0
	r.animating = true
}

// Update advances the arc toward the externally reported progress.
// Once the transfer reports finished and the arc has reached the full
// circle, the fade-out begins; Animating turns false when it ends.
func (r *RadialProgress) Update(progress float64, finished bool, ms int64) {
	progress = clamp01(progress)
	if progress != r.to {
		r.from = r.current
		r.to = progress
		r.lastMS = ms
	}
	elapsed := ms - r.lastMS
	if elapsed >= radialDuration {
		r.current = r.to
	} else if elapsed > 0 {
		r.current = r.from + (r.to-r.from)*float64(elapsed)/float64(radialDuration)
	}
	if finished && r.current >= 1 {
		if r.hideStart == 0 {
			r.hideStart = ms
		} else if ms-r.hideStart >= radialHideDuration {
			r.animating = false
		}
	}
}

// Animating reports whether the indicator still needs frames.
func (r *RadialProgress) Animating() bool { return r.animating }

// Progress is the currently displayed fraction.
func (r *RadialProgress) Progress() float64 { return r.current }

// Opacity fades the indicator out after completion.
func (r *RadialProgress) Opacity(ms int64) float64 {
	if r.hideStart == 0 {
		return 1
	}
	passed := ms - r.hideStart
	if passed >= radialHideDuration {
		return 0
	}
	return 1 - float64(passed)/float64(radialHideDuration)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
