package handlers

const (
	ErrInvalidJSON         = "Invalid JSON body"
	ErrUnauthorized        = "Unauthorized"
	ErrInternalServerError = "Internal server error"

	// maxJSONBody caps request bodies that are not image uploads
	maxJSONBody = 1 << 20
)
