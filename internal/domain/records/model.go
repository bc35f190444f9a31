package records

import "time"

// Type es el discriminante del registro. Se chequea primero y nunca se infiere
// por qué campos vienen presentes.
// @Enum vaccine, allergy, lab
type Type string

const (
	TypeVaccine Type = "vaccine"
	TypeAllergy Type = "allergy"
	TypeLab     Type = "lab"
)

type Reaction string

const (
	ReactionRash      Reaction = "rash"
	ReactionSwelling  Reaction = "swelling"
	ReactionBreathing Reaction = "breathing"
	ReactionOther     Reaction = "other"
	ReactionHives     Reaction = "hives"
	ReactionVomiting  Reaction = "vomiting"
	ReactionDiarrhea  Reaction = "diarrhea"
)

type Severity string

const (
	SeverityMild   Severity = "mild"
	SeveritySevere Severity = "severe"
)

// Attachment es una referencia opaca a media externa; solo se valida presencia.
type Attachment struct {
	ID        string `json:"id" validate:"required"`
	URI       string `json:"uri" validate:"required"`
	Type      string `json:"type" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Timestamp string `json:"timestamp"`
}

type Vaccine struct {
	DateAdministered string `json:"dateAdministered" validate:"required"`
}

// Allergy.Reactions tiene semántica de conjunto: sin duplicados, orden de primera aparición.
type Allergy struct {
	Reactions []Reaction `json:"reactions" validate:"required,min=1,dive,oneof=rash swelling breathing other hives vomiting diarrhea"`
	Severity  Severity   `json:"severity" validate:"required,oneof=mild severe"`
}

type Lab struct {
	Dosage       float64 `json:"dosage" validate:"required"`
	Instructions string  `json:"instructions" validate:"required"`
}

// Record es la unión etiquetada: exactamente uno de Vaccine/Allergy/Lab no es nil
// y coincide con Type. En JSON viaja plano (ver codec.go).
type Record struct {
	ID          string
	PetID       string
	Type        Type
	Name        string
	Attachments []Attachment
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Vaccine *Vaccine
	Allergy *Allergy
	Lab     *Lab
}

// Input es el body de alta y de edición.
// En alta un campo ausente es vacío; en edición un campo ausente conserva el valor guardado.
type Input struct {
	Type             Type
	Name             *string
	DateAdministered *string
	Reactions        []Reaction
	Severity         *Severity
	Dosage           *float64
	Instructions     *string
	Attachments      []Attachment

	attachmentsSet bool
	// attachmentsBad: vino "attachments" pero no era un array.
	attachmentsBad bool
}

// WithAttachments marca la lista como presente (aunque sea vacía).
func (in Input) WithAttachments(a []Attachment) Input {
	in.Attachments = a
	in.attachmentsSet = true
	in.attachmentsBad = false
	return in
}
