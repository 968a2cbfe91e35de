package domain

// EntityKind tags entities with a type, e.g. "person" or "team".
type EntityKind struct {
	ID          int64
	Name        string
	DisplayName string
}

// Entity is an opaque identity that takes part in events as an actor and
// receives events as a subscription target.
type Entity struct {
	ID          int64
	KindID      int64
	DisplayName string
	Meta        map[string]any
	IsActive    bool
}

// EntityRelationship is a direct super/sub edge of the entity hierarchy.
type EntityRelationship struct {
	SuperEntityID int64
	SubEntityID   int64
}

// EntityIDs returns the IDs of the given entities in order.
func EntityIDs(entities []Entity) []int64 {
	ids := make([]int64, len(entities))
	for i, e := range entities {
		ids[i] = e.ID
	}
	return ids
}
