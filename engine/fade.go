package engine

import "time"

// fadeRamp interpolates linearly from one volume to another over a fixed
// duration. The zero ramp holds volume 0 forever; sounds start with a
// constant full-volume ramp.
type fadeRamp struct {
	from, to float64
	start    time.Time
	dur      time.Duration
}

func constantRamp(v float64) fadeRamp {
	return fadeRamp{from: v, to: v}
}

func (f fadeRamp) at(t time.Time) float64 {
	if f.dur <= 0 || !t.Before(f.start.Add(f.dur)) {
		return f.to
	}
	if t.Before(f.start) {
		return f.from
	}
	frac := float64(t.Sub(f.start)) / float64(f.dur)
	return f.from + (f.to-f.from)*frac
}
