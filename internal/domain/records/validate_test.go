package records

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pet-medical-records/internal/apperr"
)

func strp(s string) *string { return &s }

func sevp(s Severity) *Severity { return &s }

func f64p(f float64) *float64 { return &f }

func TestValidate_Variants(t *testing.T) {
	v, err := Validate(Input{Type: TypeVaccine, Name: strp("Rabies"), DateAdministered: strp("2024-01-01")})
	require.NoError(t, err)
	require.NotNil(t, v.Vaccine)
	require.Nil(t, v.Allergy)
	require.Equal(t, []Attachment{}, v.Attachments)

	a, err := Validate(Input{
		Type:      TypeAllergy,
		Name:      strp("Pollen"),
		Reactions: []Reaction{ReactionRash, ReactionHives, ReactionRash},
		Severity:  sevp(SeverityMild),
	})
	require.NoError(t, err)
	require.Equal(t, []Reaction{ReactionRash, ReactionHives}, a.Allergy.Reactions)

	l, err := Validate(Input{Type: TypeLab, Name: strp("Meds"), Dosage: f64p(2.5), Instructions: strp("daily")})
	require.NoError(t, err)
	require.Equal(t, 2.5, l.Lab.Dosage)
}

func TestValidate_FieldsOfOtherVariantsIgnored(t *testing.T) {
	r, err := Validate(Input{
		Type:             TypeVaccine,
		Name:             strp("Rabies"),
		DateAdministered: strp("2024-01-01"),
		Severity:         sevp(SeveritySevere),
		Dosage:           f64p(3),
	})
	require.NoError(t, err)
	require.Nil(t, r.Allergy)
	require.Nil(t, r.Lab)
}

func TestValidate_RuleOrder(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		kind apperr.Kind
		msg  string
	}{
		{
			name: "type gana sobre todo",
			in:   Input{Type: "xray"}.WithAttachments([]Attachment{{}}),
			kind: apperr.KindInvalidType,
			msg:  "Invalid record type",
		},
		{
			name: "type ausente",
			in:   Input{Name: strp("x")},
			kind: apperr.KindMissingField,
		},
		{
			name: "attachments antes que name",
			in:   Input{Type: TypeVaccine}.WithAttachments([]Attachment{{ID: "a1"}}),
			kind: apperr.KindInvalidAttachment,
		},
		{
			name: "attachment sin uri",
			in: Input{Type: TypeVaccine, Name: strp("x"), DateAdministered: strp("d")}.
				WithAttachments([]Attachment{{ID: "a1", Type: "image/png", Name: "x.png"}}),
			kind: apperr.KindInvalidAttachment,
		},
		{
			name: "name antes que variante",
			in:   Input{Type: TypeLab},
			kind: apperr.KindMissingField,
			msg:  "Missing required field: name",
		},
		{
			name: "reactions vacío",
			in:   Input{Type: TypeAllergy, Name: strp("x"), Reactions: []Reaction{}, Severity: sevp(SeverityMild)},
			kind: apperr.KindMissingField,
		},
		{
			name: "reaction fuera del enum",
			in:   Input{Type: TypeAllergy, Name: strp("x"), Reactions: []Reaction{"sneeze"}, Severity: sevp(SeverityMild)},
			kind: apperr.KindInvalidType,
		},
		{
			name: "severity fuera del enum",
			in:   Input{Type: TypeAllergy, Name: strp("x"), Reactions: []Reaction{ReactionRash}, Severity: sevp("moderate")},
			kind: apperr.KindInvalidType,
		},
		{
			name: "dosage cero",
			in:   Input{Type: TypeLab, Name: strp("x"), Dosage: f64p(0), Instructions: strp("y")},
			kind: apperr.KindMissingField,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(tc.in)
			require.Error(t, err)
			require.Equal(t, tc.kind, apperr.KindOf(err), "got %v", err)
			if tc.msg != "" {
				require.Equal(t, tc.msg, apperr.Message(err))
			}
		})
	}
}

func TestValidate_TypeIsTrimmed(t *testing.T) {
	rec, err := Validate(Input{Type: " vaccine ", Name: strp("Rabies"), DateAdministered: strp("2024-01-01")})
	require.NoError(t, err)
	require.Equal(t, TypeVaccine, rec.Type)

	rec, err = Validate(Input{Type: TypeVaccine, Name: strp("Rabies"), DateAdministered: strp("2024-01-01")}.WithAttachments([]Attachment{}))
	require.NoError(t, err)
	require.Equal(t, []Attachment{}, rec.Attachments)
}

func TestMerge_TypeIsImmutable(t *testing.T) {
	base, err := Validate(Input{Type: TypeVaccine, Name: strp("Rabies"), DateAdministered: strp("2024-01-01")})
	require.NoError(t, err)

	_, err = merge(base, Input{Type: TypeLab})
	require.True(t, apperr.Is(err, apperr.KindInvalidType))
	require.Equal(t, "Record type cannot be changed", apperr.Message(err))

	// mismo type o sin type: merge normal
	up, err := merge(base, Input{Name: strp("Rabies booster")})
	require.NoError(t, err)
	require.Equal(t, "Rabies booster", up.Name)
	require.Equal(t, "2024-01-01", up.Vaccine.DateAdministered)

	up, err = merge(base, Input{Type: TypeVaccine}.WithAttachments(nil))
	require.NoError(t, err)
	require.Equal(t, []Attachment{}, up.Attachments)
}

func TestMerge_KeepsAttachmentsWhenAbsent(t *testing.T) {
	att := Attachment{ID: "a1", URI: "file://x", Type: "image/png", Name: "x.png"}
	base, err := Validate(Input{Type: TypeVaccine, Name: strp("R"), DateAdministered: strp("d")}.WithAttachments([]Attachment{att}))
	require.NoError(t, err)

	up, err := merge(base, Input{Name: strp("R2")})
	require.NoError(t, err)
	require.Equal(t, []Attachment{att}, up.Attachments)
}
