package user

// User is the registered account as returned to clients.
type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Mood           string `json:"mood"`
	DenominationID *int   `json:"denomination_id"`
}

// Profile is the slice of a user the chat pipeline needs.
type Profile struct {
	ID           string
	Name         string
	StoredMood   string
	Denomination string
}

// Registration is the payload accepted by the register endpoint.
type Registration struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Mood           string `json:"mood"`
	DenominationID *int   `json:"denomination_id"`
}
