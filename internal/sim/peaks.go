package sim

// peakCounter counts strict local maxima of the angle as samples arrive.
// A maximum is only counted on entry; lastWasPeak stays set until a
// non-peak triple is seen.
type peakCounter struct {
	count       int
	lastWasPeak bool
}

func (p *peakCounter) observe(prev, mid, next float64) {
	if mid > prev && mid > next {
		if !p.lastWasPeak {
			p.count++
			p.lastWasPeak = true
		}
		return
	}
	p.lastWasPeak = false
}
