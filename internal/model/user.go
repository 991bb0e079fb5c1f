package model

import "time"

type User struct {
	ID             string    `db:"id"              json:"id"`
	Email          *string   `db:"email"           json:"email"`
	HashedPassword *string   `db:"hashed_password" json:"-"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
}
