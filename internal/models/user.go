package models

// User represents a registered account on the ledger service.
type User struct {
	// ID is the unique identifier assigned by the ledger service.
	ID int64 `json:"id"`

	// Email is the user's email address (unique, used for login).
	Email string `json:"email"`

	// Username is the unique handle chosen at registration.
	Username string `json:"username"`

	// FullName is the display name shown in rosters and balance rows.
	FullName string `json:"full_name"`

	// ProfilePictureURL points at the stored profile picture, if any.
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}

// Member is a user seen through a group roster. The roster order fixes the
// display order for split drafts and balance rows.
type Member = User
