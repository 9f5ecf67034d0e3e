package repository

// SearchFilter narrows a room search. Nil fields are not applied.
type SearchFilter struct {
	MinCapacity         *int
	HasAC               *bool
	HasAttachedWashroom *bool
}
