package search

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/railplan/core/events"
	"github.com/kilianp07/railplan/core/logger"
	"github.com/kilianp07/railplan/core/network"
	"github.com/kilianp07/railplan/core/rules"
	"github.com/kilianp07/railplan/core/sim"
	"github.com/kilianp07/railplan/internal/eventbus"
)

const maxScore = math.MaxInt

// Default driver parameters.
const (
	DefaultBudget        = 10 * time.Minute
	DefaultTabuSize      = 8_000_000
	DefaultMaxCandidates = 75
)

// Options are the plain search parameters.
type Options struct {
	// Budget bounds the wall-clock time of a search. Zero means DefaultBudget.
	Budget time.Duration
	// TabuSize is the number of remembered fingerprints.
	TabuSize int
	Seed     int64
	// MaxCandidates caps the shuffled moves tried per train and step.
	// Zero tries them all.
	MaxCandidates int
	// TrackProgress records the best delay after every built step.
	TrackProgress bool
	// Debug runs State.Check after every step and panics on the first
	// inconsistency, which can only come from a push/pop defect.
	Debug bool
}

// ProgressPoint is the best delay seen after a built step.
type ProgressPoint struct {
	Step      int
	Attempt   int
	BestDelay int
	Elapsed   time.Duration
}

// Result is what a search returns: the best schedule and counters.
type Result struct {
	RunID        string
	Seed         int64
	Solution     Solution
	TotalDelay   int
	Arrived      int
	Legal        bool
	CheckedMoves int
	Attempts     int
	Elapsed      time.Duration
	Progress     []ProgressPoint
}

// Option customizes a Driver.
type Option func(*Driver)

// WithLogger sets the logger used for improvements and the summary.
func WithLogger(l logger.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.log = l
		}
	}
}

// WithBus publishes search events on bus.
func WithBus(bus eventbus.EventBus) Option {
	return func(d *Driver) { d.bus = bus }
}

// WithEngine replaces the default rule catalog.
func WithEngine(e *rules.Engine) Option {
	return func(d *Driver) {
		if e != nil {
			d.engine = e
		}
	}
}

// WithRunID sets the identifier attached to published events.
func WithRunID(id string) Option {
	return func(d *Driver) { d.runID = id }
}

// Driver runs one tabu search over a network. It is not safe for
// concurrent use; run several drivers for parallel restarts.
type Driver struct {
	net    *network.Network
	opts   Options
	engine *rules.Engine
	log    logger.Logger
	bus    eventbus.EventBus
	runID  string

	rng     *rand.Rand
	tabu    *TabuSet
	checked int
}

// New returns a driver for net.
func New(net *network.Network, opts Options, options ...Option) *Driver {
	if opts.Budget <= 0 {
		opts.Budget = DefaultBudget
	}
	if opts.MaxCandidates < 0 {
		opts.MaxCandidates = 0
	}
	d := &Driver{
		net:    net,
		opts:   opts,
		engine: rules.Default(),
		log:    logger.Nop{},
	}
	for _, o := range options {
		o(d)
	}
	if d.runID == "" {
		d.runID = uuid.NewString()
	}
	return d
}

// Search builds schedules until the budget elapses, ctx is done or a legal
// schedule without delay is found, and returns the best one. The first
// attempt always runs to completion.
func (d *Driver) Search(ctx context.Context) Result {
	begin := time.Now()
	d.rng = rand.New(rand.NewSource(d.opts.Seed))
	d.tabu = NewTabuSet(d.opts.TabuSize)
	d.checked = 0

	initial := sim.NewState(d.net)
	state := initial.Clone()
	var (
		cur, best Solution
		bestScore = maxScore
		progress  []ProgressPoint
		steps     int
		attempts  int
		trace     = maxScore
	)

	for {
		if attempts > 0 && d.stop(ctx, begin) {
			break
		}
		attempts++

		score, overloaded := 0, false
		for state.T <= d.net.Horizon {
			// A train landing at a full station overloads it even if
			// another train could leave in the same step.
			landedOver := state.HasStationOverload()
			if !landedOver {
				d.step(state)
			}
			if d.opts.Debug {
				mustCheck(state)
			}
			cur = append(cur, state)
			steps++
			if d.opts.TrackProgress {
				trace = min(trace, state.TotalDelay())
				progress = append(progress, ProgressPoint{Step: steps, Attempt: attempts, BestDelay: min(trace, bestScore), Elapsed: time.Since(begin)})
			}
			if landedOver || state.HasStationOverload() {
				overloaded = true
				break
			}
			if state.AllArrived() {
				break
			}
			state = state.Next()
		}
		if overloaded {
			score = maxScore
		} else {
			score = cur.TotalDelay()
		}
		d.publish(events.AttemptEvent{RunID: d.runID, Seed: d.opts.Seed, Attempt: attempts, Steps: len(cur), Score: score, Overloaded: overloaded})

		if best == nil || score < bestScore {
			best, bestScore = cur, score
			d.log.Debugw("search improved", map[string]any{"run": d.runID, "attempt": attempts, "delay": score, "arrived": best.Arrived()})
			d.publish(events.ImprovementEvent{RunID: d.runID, Seed: d.opts.Seed, Attempt: attempts, TotalDelay: score, Arrived: best.Arrived(), Legal: best.Legal(), Elapsed: time.Since(begin)})
		}
		if bestScore == 0 && best.Legal() {
			break
		}
		cur = best.Clone()

		cut := d.rng.Intn(len(cur))
		if cut == 0 {
			state = initial.Clone()
		} else {
			state = cur[cut-1].Next()
		}
		cur = cur[:cut]
	}

	res := Result{
		RunID:        d.runID,
		Seed:         d.opts.Seed,
		Solution:     best,
		TotalDelay:   best.TotalDelay(),
		Arrived:      best.Arrived(),
		Legal:        best.Legal(),
		CheckedMoves: d.checked,
		Attempts:     attempts,
		Elapsed:      time.Since(begin),
		Progress:     progress,
	}
	d.log.Infof("search %s finished: delay=%d arrived=%d/%d legal=%t attempts=%d checked=%d in %s",
		d.runID, res.TotalDelay, res.Arrived, len(d.net.Passengers), res.Legal, res.Attempts, res.CheckedMoves, res.Elapsed)
	d.publish(events.FinishedEvent{RunID: d.runID, Seed: d.opts.Seed, Attempts: attempts, CheckedMoves: d.checked, TotalDelay: res.TotalDelay, Arrived: res.Arrived, Legal: res.Legal, Elapsed: res.Elapsed})
	return res
}

func (d *Driver) stop(ctx context.Context, begin time.Time) bool {
	if ctx.Err() != nil {
		return true
	}
	return time.Since(begin) >= d.opts.Budget
}

// step picks and applies at most one move per used train. Every candidate
// is pushed, fingerprinted and popped before the next one is tried.
func (d *Driver) step(s *sim.State) {
	for t := 0; t < d.net.UsedTrains; t++ {
		moves := s.LegalMoves(t)
		if len(moves) == 0 {
			continue
		}
		d.rng.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })
		if d.opts.MaxCandidates > 0 && len(moves) > d.opts.MaxCandidates {
			moves = moves[:d.opts.MaxCandidates]
		}

		best := sim.NoMove
		for _, m := range moves {
			s.Push(m)
			fp := s.Fingerprint()
			s.Pop()
			d.checked++
			if d.tabu.Contains(fp) {
				continue
			}
			if d.engine.IsGreater(m, best, s) {
				best = m
			}
		}
		if best.IsNone() {
			continue
		}
		s.Push(best)
		d.tabu.Add(s.Fingerprint())
	}
}

func mustCheck(s *sim.State) {
	if err := s.Check(); err != nil {
		panic(fmt.Sprintf("search: inconsistent state at t=%d: %v", s.T, err))
	}
}

func (d *Driver) publish(e eventbus.Event) {
	if d.bus != nil {
		d.bus.Publish(e)
	}
}
