package records

import (
	"bytes"
	"encoding/json"
	"time"
)

// recordWire es la forma plana: {id, petId, type, name, <campos del variante>, attachments, createdAt, updatedAt}.
type recordWire struct {
	ID               string       `json:"id"`
	PetID            string       `json:"petId"`
	Type             Type         `json:"type"`
	Name             string       `json:"name"`
	DateAdministered *string      `json:"dateAdministered,omitempty"`
	Reactions        []Reaction   `json:"reactions,omitempty"`
	Severity         *Severity    `json:"severity,omitempty"`
	Dosage           *float64     `json:"dosage,omitempty"`
	Instructions     *string      `json:"instructions,omitempty"`
	Attachments      []Attachment `json:"attachments"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	w := recordWire{
		ID:          r.ID,
		PetID:       r.PetID,
		Type:        r.Type,
		Name:        r.Name,
		Attachments: r.Attachments,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if w.Attachments == nil {
		w.Attachments = []Attachment{}
	}

	switch r.Type {
	case TypeVaccine:
		if r.Vaccine != nil {
			w.DateAdministered = &r.Vaccine.DateAdministered
		}
	case TypeAllergy:
		if r.Allergy != nil {
			w.Reactions = r.Allergy.Reactions
			w.Severity = &r.Allergy.Severity
		}
	case TypeLab:
		if r.Lab != nil {
			w.Dosage = &r.Lab.Dosage
			w.Instructions = &r.Lab.Instructions
		}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodifica primero type y arma solo el variante que corresponde;
// campos de otros variantes se descartan.
func (r *Record) UnmarshalJSON(b []byte) error {
	var w recordWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*r = Record{
		ID:          w.ID,
		PetID:       w.PetID,
		Type:        w.Type,
		Name:        w.Name,
		Attachments: w.Attachments,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	if r.Attachments == nil {
		r.Attachments = []Attachment{}
	}

	switch w.Type {
	case TypeVaccine:
		r.Vaccine = &Vaccine{DateAdministered: deref(w.DateAdministered)}
	case TypeAllergy:
		r.Allergy = &Allergy{Reactions: dedupeReactions(w.Reactions), Severity: deref(w.Severity)}
	case TypeLab:
		r.Lab = &Lab{Dosage: deref(w.Dosage), Instructions: deref(w.Instructions)}
	}
	return nil
}

type inputWire struct {
	Type             Type            `json:"type,omitempty"`
	Name             *string         `json:"name,omitempty"`
	DateAdministered *string         `json:"dateAdministered,omitempty"`
	Reactions        []Reaction      `json:"reactions,omitempty"`
	Severity         *Severity       `json:"severity,omitempty"`
	Dosage           *float64        `json:"dosage,omitempty"`
	Instructions     *string         `json:"instructions,omitempty"`
	Attachments      json.RawMessage `json:"attachments,omitempty"`
}

// UnmarshalJSON no falla por attachments mal formados: lo marca y la validación
// lo reporta como InvalidAttachment en su turno (después de type).
func (in *Input) UnmarshalJSON(b []byte) error {
	var w inputWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*in = Input{
		Type:             w.Type,
		Name:             w.Name,
		DateAdministered: w.DateAdministered,
		Reactions:        w.Reactions,
		Severity:         w.Severity,
		Dosage:           w.Dosage,
		Instructions:     w.Instructions,
	}

	raw := bytes.TrimSpace(w.Attachments)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	in.attachmentsSet = true
	if raw[0] != '[' {
		in.attachmentsBad = true
		return nil
	}
	var atts []Attachment
	if err := json.Unmarshal(raw, &atts); err != nil {
		in.attachmentsBad = true
		return nil
	}
	in.Attachments = atts
	return nil
}

func (in Input) MarshalJSON() ([]byte, error) {
	w := inputWire{
		Type:             in.Type,
		Name:             in.Name,
		DateAdministered: in.DateAdministered,
		Reactions:        in.Reactions,
		Severity:         in.Severity,
		Dosage:           in.Dosage,
		Instructions:     in.Instructions,
	}
	if in.attachmentsSet || in.Attachments != nil {
		atts := in.Attachments
		if atts == nil {
			atts = []Attachment{}
		}
		b, err := json.Marshal(atts)
		if err != nil {
			return nil, err
		}
		w.Attachments = b
	}
	return json.Marshal(w)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
