package model

// User is a registered account. HashedPassword is a bcrypt hash and must
// never leave the process in a response or a log record.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"`
	IsAdmin        bool   `json:"is_admin"`
}
