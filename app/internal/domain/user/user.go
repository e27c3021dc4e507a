package user

// User is an account allowed into the admin panel.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
}
