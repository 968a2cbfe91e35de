// Package predicate defines the boolean algebra used to select events.
//
// Predicates are plain values built by the matching engine and compiled by
// each storage backend into its native query form. The interface is sealed:
// only types in this package implement it, so compilers can switch over every
// case exhaustively.
//
// An empty And is true and an empty Or is false.
package predicate

import "time"

// Predicate is a filter condition over events.
type Predicate interface {
	predicate()
}

// And holds when every operand holds.
type And []Predicate

// Or holds when at least one operand holds.
type Or []Predicate

// Not negates its operand.
type Not struct {
	P Predicate
}

// TimeRange bounds the event creation time. Start is inclusive. End is
// inclusive unless ExclusiveEnd is set. Nil bounds are open.
type TimeRange struct {
	Start        *time.Time
	End          *time.Time
	ExclusiveEnd bool
}

// NotExpired holds for events without expiry or expiring after Now.
type NotExpired struct {
	Now time.Time
}

// Seen holds when the event has (Seen true) or lacks (Seen false) a seen
// record for the medium.
type Seen struct {
	MediumID int64
	Seen     bool
}

// SourceIs holds for events of one source.
type SourceIs struct {
	SourceID int64
}

// SourceIn holds for events of any of the sources.
type SourceIn struct {
	SourceIDs []int64
}

// ActorIn holds when at least one event actor is among the entities.
type ActorIn struct {
	EntityIDs []int64
}

// IDIn holds for the listed events.
type IDIn struct {
	EventIDs []int64
}

func (And) predicate()        {}
func (Or) predicate()         {}
func (Not) predicate()        {}
func (TimeRange) predicate()  {}
func (NotExpired) predicate() {}
func (Seen) predicate()       {}
func (SourceIs) predicate()   {}
func (SourceIn) predicate()   {}
func (ActorIn) predicate()    {}
func (IDIn) predicate()       {}

// AllOf returns the conjunction of ps, skipping nil operands and flattening
// nested conjunctions. A single operand is returned as is.
func AllOf(ps ...Predicate) Predicate {
	var out And
	for _, p := range ps {
		switch v := p.(type) {
		case nil:
		case And:
			out = append(out, v...)
		default:
			out = append(out, v)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// AnyOf returns the disjunction of ps, skipping nil operands and flattening
// nested disjunctions. A single operand is returned as is.
func AnyOf(ps ...Predicate) Predicate {
	var out Or
	for _, p := range ps {
		switch v := p.(type) {
		case nil:
		case Or:
			out = append(out, v...)
		default:
			out = append(out, v)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// IsFalse reports whether p can never hold. Only trivially false shapes are
// detected: an empty Or, empty ID lists, and conjunctions containing one.
func IsFalse(p Predicate) bool {
	switch v := p.(type) {
	case Or:
		for _, q := range v {
			if !IsFalse(q) {
				return false
			}
		}
		return true
	case And:
		for _, q := range v {
			if IsFalse(q) {
				return true
			}
		}
		return false
	case SourceIn:
		return len(v.SourceIDs) == 0
	case ActorIn:
		return len(v.EntityIDs) == 0
	case IDIn:
		return len(v.EventIDs) == 0
	default:
		return false
	}
}
