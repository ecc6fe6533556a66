package users

// Constants for error messages
const (
	ErrUserNotFound = "User not found"
	ErrFetchUsers   = "Failed to fetch users"
)
