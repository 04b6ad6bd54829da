package rules

import "github.com/kilianp07/railplan/core/sim"

// Verdict is the opinion of a rule about a pair of moves.
type Verdict int8

const (
	Abstain Verdict = iota
	Greater
	NotGreater
)

// Negate swaps Greater and NotGreater and keeps Abstain.
func (v Verdict) Negate() Verdict {
	switch v {
	case Greater:
		return NotGreater
	case NotGreater:
		return Greater
	default:
		return Abstain
	}
}

func verdict(b bool) Verdict {
	if b {
		return Greater
	}
	return NotGreater
}

func (v Verdict) String() string {
	switch v {
	case Greater:
		return "greater"
	case NotGreater:
		return "not-greater"
	default:
		return "abstain"
	}
}

// Compare judges a against b. a has the rule's first kind and b its second.
type Compare func(a, b sim.Move, s *sim.State) Verdict

// Judge gives an opinion about a single move whatever it competes with.
type Judge func(m sim.Move, s *sim.State) Verdict

// Rule is either a comparator for an unordered pair of kinds or a wildcard
// opinion about one kind against any other move.
type Rule struct {
	Name    string
	First   sim.Kind
	Second  sim.Kind
	compare Compare
	judge   Judge
}

// Pair declares a rule for moves of kinds first and second. The answer for
// the mirrored pair is the negation of the declared one. Rules for two moves
// of the same kind must abstain on ties.
func Pair(name string, first, second sim.Kind, fn Compare) Rule {
	return Rule{Name: name, First: first, Second: second, compare: fn}
}

// Any declares a wildcard rule for kind k.
func Any(name string, k sim.Kind, fn Judge) Rule {
	return Rule{Name: name, First: k, Second: k, judge: fn}
}

// Wildcard reports whether the rule was declared with Any.
func (r Rule) Wildcard() bool { return r.judge != nil }

type entry struct {
	rule    *Rule
	flipped bool
}

func (e entry) eval(a, b sim.Move, s *sim.State) Verdict {
	r := e.rule
	if r.judge != nil {
		ra, rb := Abstain, Abstain
		if a.Kind == r.First {
			ra = r.judge(a, s)
		}
		if b.Kind == r.First {
			rb = r.judge(b, s)
		}
		switch {
		case ra != Abstain && rb != Abstain:
			if ra == rb {
				return Abstain
			}
			return ra
		case ra != Abstain:
			return ra
		default:
			return rb.Negate()
		}
	}
	if e.flipped {
		return r.compare(b, a, s).Negate()
	}
	return r.compare(a, b, s)
}

// Engine evaluates an ordered rule list. For every ordered pair of kinds it
// keeps only the rules that apply, in priority order.
type Engine struct {
	rules []Rule
	table [sim.NumKinds][sim.NumKinds][]entry
}

// NewEngine compiles rules, earlier rules taking precedence.
func NewEngine(rules []Rule) *Engine {
	e := &Engine{rules: append([]Rule(nil), rules...)}
	for i := range e.rules {
		r := &e.rules[i]
		for ka := sim.Kind(0); ka < sim.NumKinds; ka++ {
			for kb := sim.Kind(0); kb < sim.NumKinds; kb++ {
				switch {
				case r.judge != nil:
					if ka == r.First || kb == r.First {
						e.table[ka][kb] = append(e.table[ka][kb], entry{rule: r})
					}
				case ka == r.First && kb == r.Second:
					e.table[ka][kb] = append(e.table[ka][kb], entry{rule: r})
				case ka == r.Second && kb == r.First:
					e.table[ka][kb] = append(e.table[ka][kb], entry{rule: r, flipped: true})
				}
			}
		}
	}
	return e
}

// Default returns an engine with the standard catalog.
func Default() *Engine { return NewEngine(Catalog()) }

// IsGreater reports whether a is preferable to b in state s. The first rule
// with an opinion decides; without any opinion a is not greater.
func (e *Engine) IsGreater(a, b sim.Move, s *sim.State) bool {
	v, _ := e.Decide(a, b, s)
	return v == Greater
}

// Decide returns the verdict and the name of the deciding rule, which is
// empty when every rule abstained.
func (e *Engine) Decide(a, b sim.Move, s *sim.State) (Verdict, string) {
	for _, en := range e.table[a.Kind][b.Kind] {
		if v := en.eval(a, b, s); v != Abstain {
			return v, en.rule.Name
		}
	}
	return Abstain, ""
}

// Rules returns the compiled rules in priority order.
func (e *Engine) Rules() []Rule { return append([]Rule(nil), e.rules...) }
