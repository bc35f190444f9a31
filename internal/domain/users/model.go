package users

import "time"

// User es la identidad dueña de mascotas y registros. Inmutable tras el registro.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`

	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}
