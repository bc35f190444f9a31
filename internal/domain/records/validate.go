package records

import (
	"strings"

	"pet-medical-records/internal/apperr"
	"pet-medical-records/internal/platform/validate"
)

type typeField struct {
	Type Type `json:"type" validate:"required,oneof=vaccine allergy lab"`
}

type attachmentsField struct {
	Attachments []Attachment `json:"attachments" validate:"dive"`
}

type nameField struct {
	Name string `json:"name" validate:"required"`
}

var errTypeChange = apperr.New(apperr.KindInvalidType, "Record type cannot be changed")

// Validate arma un registro nuevo a partir del body. Orden de reglas: type, attachments,
// campos del variante (name incluido). Gana la primera que falla.
func Validate(in Input) (Record, error) {
	return merge(Record{Type: Type(strings.TrimSpace(string(in.Type)))}, in)
}

// merge aplica in sobre base y valida el resultado completo.
// Si in.Type viene y difiere de base.Type → InvalidType (el tipo es inmutable).
func merge(base Record, in Input) (Record, error) {
	in.Type = Type(strings.TrimSpace(string(in.Type)))
	if base.Type != "" && in.Type != "" && in.Type != base.Type {
		return Record{}, errTypeChange
	}

	out := base
	if in.Name != nil {
		out.Name = strings.TrimSpace(*in.Name)
	}
	if in.attachmentsSet {
		out.Attachments = in.Attachments
	}
	if out.Attachments == nil {
		out.Attachments = []Attachment{}
	}

	out.Vaccine, out.Allergy, out.Lab = nil, nil, nil
	switch out.Type {
	case TypeVaccine:
		v := Vaccine{}
		if base.Vaccine != nil {
			v = *base.Vaccine
		}
		if in.DateAdministered != nil {
			v.DateAdministered = strings.TrimSpace(*in.DateAdministered)
		}
		out.Vaccine = &v
	case TypeAllergy:
		a := Allergy{}
		if base.Allergy != nil {
			a = *base.Allergy
		}
		if in.Reactions != nil {
			a.Reactions = in.Reactions
		}
		a.Reactions = dedupeReactions(a.Reactions)
		if in.Severity != nil {
			a.Severity = Severity(strings.TrimSpace(string(*in.Severity)))
		}
		out.Allergy = &a
	case TypeLab:
		l := Lab{}
		if base.Lab != nil {
			l = *base.Lab
		}
		if in.Dosage != nil {
			l.Dosage = *in.Dosage
		}
		if in.Instructions != nil {
			l.Instructions = strings.TrimSpace(*in.Instructions)
		}
		out.Lab = &l
	}

	if err := check(out, in.attachmentsBad); err != nil {
		return Record{}, err
	}
	return out, nil
}

func check(r Record, attachmentsBad bool) error {
	if err := validate.Struct(typeField{Type: r.Type}); err != nil {
		if apperr.Is(err, apperr.KindInvalidType) {
			return apperr.New(apperr.KindInvalidType, "Invalid record type")
		}
		return err
	}

	if attachmentsBad {
		return apperr.New(apperr.KindInvalidAttachment, "Attachments must be an array")
	}
	if err := validate.Struct(attachmentsField{Attachments: r.Attachments}); err != nil {
		return err
	}

	if err := validate.Struct(nameField{Name: r.Name}); err != nil {
		return err
	}
	switch r.Type {
	case TypeVaccine:
		return validate.Struct(r.Vaccine)
	case TypeAllergy:
		return validate.Struct(r.Allergy)
	case TypeLab:
		return validate.Struct(r.Lab)
	}
	return nil
}

func dedupeReactions(in []Reaction) []Reaction {
	if in == nil {
		return nil
	}
	seen := make(map[Reaction]struct{}, len(in))
	out := make([]Reaction, 0, len(in))
	for _, r := range in {
		r = Reaction(strings.TrimSpace(string(r)))
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
