package pets

import (
	"strings"

	"pet-medical-records/internal/platform/validate"
)

func (in Input) normalized() Input {
	return Input{
		Name:        strings.TrimSpace(in.Name),
		Type:        Type(strings.TrimSpace(string(in.Type))),
		Breed:       strings.TrimSpace(in.Breed),
		DateOfBirth: strings.TrimSpace(in.DateOfBirth),
	}
}

// Validate chequea forma y enum. Devuelve el Input normalizado (trim) listo para persistir.
// Vacíos → MissingField; type fuera de {dog, cat, bird} → InvalidType.
func Validate(in Input) (Input, error) {
	in = in.normalized()
	if err := validate.Struct(in); err != nil {
		return Input{}, err
	}
	return in, nil
}

// apply mezcla el patch sobre el estado actual; el resultado se vuelve a validar completo.
func (p Patch) apply(cur Pet) Input {
	in := Input{
		Name:        cur.Name,
		Type:        cur.Type,
		Breed:       cur.Breed,
		DateOfBirth: cur.DateOfBirth,
	}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Type != nil {
		in.Type = *p.Type
	}
	if p.Breed != nil {
		in.Breed = *p.Breed
	}
	if p.DateOfBirth != nil {
		in.DateOfBirth = *p.DateOfBirth
	}
	return in
}
