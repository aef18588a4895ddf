package models

import "fmt"

// AdminUsername is the account seeded on first run. It can never be deleted.
const AdminUsername = "admin"

type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Student struct {
	ID       string  `json:"id"`
	FullName string  `json:"full_name"`
	Group    string  `json:"group"`
	Email    string  `json:"email"`
	Rating   float64 `json:"rating"`
	Owner    string  `json:"owner"`
}

func (s Student) String() string {
	return fmt.Sprintf("Full name: %s, Group: %s, Email: %s, Rating: %g", s.FullName, s.Group, s.Email, s.Rating)
}

// StudentInput carries the user-editable fields of a Student.
type StudentInput struct {
	FullName string
	Group    string
	Email    string
	Rating   float64
}

// Session is the verified identity of the logged-in user.
type Session struct {
	Username string
}
