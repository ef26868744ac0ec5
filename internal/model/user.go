package model

// User is the minimal identity the client holds for the logged-in account
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
