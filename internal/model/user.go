package model

// User is a member account from the users table. Password holds either a
// bcrypt hash or a legacy plaintext value; auth decides which at login.
type User struct {
	UserID   string `json:"user_id"`
	Password string `json:"-"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}
