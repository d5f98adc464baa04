// Package user defines the user record stored by the service and
// attached to authenticated requests.
package user

// User represents a registered account.
// Password holds the hex digest once the user is stored; responses return
// it as is.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	AddedBy  string `json:"addedBy"`
	IsAdmin  bool   `json:"isAdmin"`
}

// WithPassword returns a copy of the user with the password replaced.
func (u User) WithPassword(password string) User {
	u.Password = password
	return u
}
