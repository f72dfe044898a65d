package models

import "time"

// User is the credential record of an API user. Email is the login key and the
// token subject.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	FullName     string    `bson:"fullname" json:"fullname"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password" json:"-"`
	City         string    `bson:"city" json:"city"`
	Disabled     bool      `bson:"disabled" json:"disabled"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Active reports whether the account may authenticate.
func (u *User) Active() bool { return u != nil && !u.Disabled }
