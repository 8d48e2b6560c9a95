// Package models defines the API resources exchanged with the CineBook backend.
package models

import (
	"encoding/json"
	"fmt"
)

// User is the identity record returned by login and the profile endpoint.
type User struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	Phone          string  `json:"phone,omitempty"`
	Location       string  `json:"location,omitempty"`
	DateOfBirth    string  `json:"date_of_birth,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

// Tokens is the result of a login or a refresh exchange. Refresh is empty
// when the server did not rotate the refresh token.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Tokens
	User json.RawMessage `json:"user"`
}

// ProfileUpdate carries the editable profile fields. Empty fields are not sent.
type ProfileUpdate struct {
	Phone       string `json:"phone,omitempty"`
	Location    string `json:"location,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

// ProfileUpdateResponse is returned by a profile update.
type ProfileUpdateResponse struct {
	Message string `json:"msg"`
	User    User   `json:"user"`
}

// RegisterInput is the registration form. Avatar is optional.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	Phone       string
	Location    string
	DateOfBirth string
	Avatar      []byte
	AvatarName  string
}

func (u User) String() string {
	return fmt.Sprintf("%s <%s> (%s)", u.Username, u.Email, u.Role)
}
