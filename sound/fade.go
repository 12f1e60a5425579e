package sound

import (
	"time"

	"github.com/milk9111/layeredaudio/common"
)

// fadeJob is a resumable gain ramp across every layer slot of a channel. The
// driver advances it once per tick; a job that is no longer live ignores
// further ticks.
type fadeJob struct {
	duration time.Duration
	elapsed  time.Duration
	start    [MaxLayers]float64
	goal     [MaxLayers]float64
	live     bool
	done     func()
}

// layerGoals derives per-slot targets for a blend mode at a layer level.
// ok is false for a blend mode with no policy.
func layerGoals(mode BlendMode, level int, target float64) (goals [MaxLayers]float64, ok bool) {
	switch mode {
	case Additive:
		for i := range goals {
			if i <= level {
				goals[i] = target
			}
		}
	case Single:
		if level >= 0 && level < MaxLayers {
			goals[level] = target
		}
	default:
		return goals, false
	}
	return goals, true
}

func newFadeJob(start, goal [MaxLayers]float64, duration time.Duration) *fadeJob {
	return &fadeJob{
		duration: max(duration, 0),
		start:    start,
		goal:     goal,
		live:     true,
	}
}

func (j *fadeJob) cancel() {
	if j != nil {
		j.live = false
	}
}

// step accumulates dt and writes the interpolated gain of every slot through
// apply. On the tick the duration is reached every slot gets its exact goal.
func (j *fadeJob) step(dt time.Duration, apply func(slot int, gain float64)) bool {
	if j == nil || !j.live {
		return false
	}
	j.elapsed += max(dt, 0)
	if j.elapsed >= j.duration {
		for i, g := range j.goal {
			apply(i, g)
		}
		j.live = false
		return true
	}

	ratio := common.Clamp01(j.elapsed.Seconds() / j.duration.Seconds())
	for i := range j.goal {
		apply(i, common.Lerp(j.start[i], j.goal[i], ratio))
	}
	return false
}
