package domain

// Subscription makes the events of a source visible on a medium.
//
// With SubEntityKindID nil it is an individual subscription of EntityID.
// Otherwise it is a group subscription: EntityID is the super-entity and the
// subscription covers every descendant of that kind, resolved at query time.
type Subscription struct {
	ID              int64
	MediumID        int64
	SourceID        int64
	EntityID        int64
	SubEntityKindID *int64
	OnlyFollowing   bool
}

// IsGroup reports whether the subscription targets a group of sub-entities.
func (s Subscription) IsGroup() bool {
	return s.SubEntityKindID != nil
}

// Unsubscription removes an entity from the events of one source on one
// medium, regardless of any subscription.
type Unsubscription struct {
	ID       int64
	EntityID int64
	MediumID int64
	SourceID int64
}
