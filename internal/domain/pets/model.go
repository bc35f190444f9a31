package pets

import "time"

// Type define las especies soportadas.
// @Enum dog, cat, bird
type Type string

const (
	TypeDog  Type = "dog"
	TypeCat  Type = "cat"
	TypeBird Type = "bird"
)

// Pet representa el perfil de una mascota. UserID es el dueño único.
type Pet struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"userId" db:"user_id"`

	Name  string `json:"name" db:"name"`
	Type  Type   `json:"type" db:"type" enums:"dog,cat,bird"`
	Breed string `json:"breed" db:"breed"`

	// DateOfBirth es opaco: el cliente manda YYYY-MM-DD o ISO-8601 y se devuelve tal cual.
	DateOfBirth string `json:"dateOfBirth" db:"date_of_birth"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Input son los campos que el cliente controla al crear.
type Input struct {
	Name        string `json:"name" validate:"required"`
	Type        Type   `json:"type" validate:"required,oneof=dog cat bird"`
	Breed       string `json:"breed" validate:"required"`
	DateOfBirth string `json:"dateOfBirth" validate:"required"`
}

// Patch: nil = no tocar. id/userId/createdAt/updatedAt no existen acá a propósito,
// si vienen en el body se ignoran.
type Patch struct {
	Name        *string `json:"name"`
	Type        *Type   `json:"type"`
	Breed       *string `json:"breed"`
	DateOfBirth *string `json:"dateOfBirth"`
}
