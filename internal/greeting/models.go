// Package greeting implements the greeting and user registry service
package greeting

import "github.com/google/uuid"

// MainGreetingText is returned when no user is addressed
const MainGreetingText = "Hello World"

// UserData is a registered user. It is never modified after it is stored.
type UserData struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// GreetingMain is the response for an unaddressed greeting
type GreetingMain struct {
	Text string `json:"text"`
}

// GreetingUser is the response to a user registration
type GreetingUser struct {
	Text string    `json:"text"`
	ID   uuid.UUID `json:"id"`
}

// NewGreetingMain returns the fixed greeting
func NewGreetingMain() GreetingMain {
	return GreetingMain{Text: MainGreetingText}
}

// NewGreetingUser builds the greeting for a freshly registered user
func NewGreetingUser(user UserData, id uuid.UUID) GreetingUser {
	return GreetingUser{
		Text: "Hello, " + user.Surname + " " + user.Name,
		ID:   id,
	}
}
