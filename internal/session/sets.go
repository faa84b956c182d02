package session

import "time"

// SetPlan walks the work/rest alternation of a Pomodoro round: work, then a
// rest break between sets, finishing after the last work session (no
// trailing break). It only sequences kinds and durations; the Coordinator
// still owns every individual session.
type SetPlan struct {
	WorkDuration time.Duration
	RestDuration time.Duration
	TotalSets    int

	currentSet int
	nextKind   Kind
}

// NewSetPlan returns a plan positioned before the first work session.
func NewSetPlan(work, rest time.Duration, totalSets int) *SetPlan {
	if totalSets < 1 {
		totalSets = 1
	}
	return &SetPlan{
		WorkDuration: work,
		RestDuration: rest,
		TotalSets:    totalSets,
		currentSet:   1,
		nextKind:     KindWork,
	}
}

// CurrentSet returns the 1-based set number in progress.
func (p *SetPlan) CurrentSet() int { return p.currentSet }

// Next returns the kind and duration of the next session, or done=true when
// every set has been completed.
func (p *SetPlan) Next() (kind Kind, duration time.Duration, done bool) {
	if p.currentSet > p.TotalSets {
		return "", 0, true
	}
	if p.nextKind == KindWork {
		return KindWork, p.WorkDuration, false
	}
	return KindRest, p.RestDuration, false
}

// Advance records the completion of the session returned by Next. After the
// final work session the plan is done; otherwise work is followed by rest
// and rest by the next set's work.
func (p *SetPlan) Advance() {
	switch p.nextKind {
	case KindWork:
		if p.currentSet >= p.TotalSets {
			// Last set finished, no trailing break.
			p.currentSet = p.TotalSets + 1
			return
		}
		p.nextKind = KindRest
	case KindRest:
		p.currentSet++
		p.nextKind = KindWork
	}
}
