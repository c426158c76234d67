package models

// Group represents a set of users sharing expenses.
type Group struct {
	// ID is the unique identifier for the group.
	ID int64 `json:"id"`

	// Name is the display name of the group (e.g. "Roommates").
	Name string `json:"name"`

	// Description is an optional free-text note.
	Description string `json:"description,omitempty"`

	// CreatedBy is the user ID of the group creator. Only the creator may
	// delete the group; the server enforces this independently.
	CreatedBy int64 `json:"created_by"`

	// Members is the ordered roster. Every split draft and balance view is
	// derived in this order.
	Members []Member `json:"members"`
}
