package ui

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Card entrance timing: each new card rises and fades in, staggered by its
// position in the rack.
const (
	entranceDuration = 0.35
	entranceStagger  = 0.06
)

type entrance struct {
	delay float32
	tween *gween.Tween
	lift  float64
}

// entrances tracks the lift of cards that are still animating in. Lift runs
// from 1 (hidden, lowered) to 0 (settled).
type entrances struct {
	seen   map[string]bool
	active map[string]*entrance
}

func newEntrances() *entrances {
	return &entrances{
		seen:   map[string]bool{},
		active: map[string]*entrance{},
	}
}

// Add starts an entrance for every id not seen before. The stagger follows
// the id's position in ids.
func (e *entrances) Add(ids []string) {
	for i, id := range ids {
		if e.seen[id] {
			continue
		}
		e.seen[id] = true
		e.active[id] = &entrance{
			delay: float32(i) * entranceStagger,
			tween: gween.New(1, 0, entranceDuration, ease.OutQuad),
			lift:  1,
		}
	}
}

// Update advances all running entrances by dt seconds.
func (e *entrances) Update(dt float32) {
	for id, en := range e.active {
		step := dt
		if en.delay > 0 {
			en.delay -= dt
			if en.delay > 0 {
				continue
			}
			step = -en.delay
			en.delay = 0
		}
		v, done := en.tween.Update(step)
		if done {
			delete(e.active, id)
			continue
		}
		en.lift = float64(v)
	}
}

// Lift returns the entrance progress of id; 0 once it has settled.
func (e *entrances) Lift(id string) float64 {
	if en, ok := e.active[id]; ok {
		return en.lift
	}
	return 0
}

// Running reports whether any card is still animating in.
func (e *entrances) Running() bool {
	return len(e.active) > 0
}
