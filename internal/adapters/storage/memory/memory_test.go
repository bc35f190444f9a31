package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pet-medical-records/internal/apperr"
	"pet-medical-records/internal/domain/pets"
	"pet-medical-records/internal/domain/records"
	"pet-medical-records/internal/domain/users"
)

func TestUserRepo_DuplicateEmail(t *testing.T) {
	repo := NewUserRepo(NewDB())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, users.User{ID: "u1", Email: "a@x.com"}))
	require.ErrorIs(t, repo.Create(ctx, users.User{ID: "u2", Email: "a@x.com"}), apperr.ErrDuplicateUser)

	// match exacto: distinto case es otro usuario
	require.NoError(t, repo.Create(ctx, users.User{ID: "u3", Email: "A@x.com"}))

	u, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)

	_, err = repo.GetByID(ctx, "nope")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPetRepo_ListInInsertionOrder(t *testing.T) {
	repo := NewPetRepo(NewDB())
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Create(ctx, pets.Pet{ID: id, UserID: "u1"}))
	}
	require.NoError(t, repo.Create(ctx, pets.Pet{ID: "z", UserID: "u2"}))

	list, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, []string{"c", "a", "b"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestPetRepo_DeleteCascadesRecords(t *testing.T) {
	db := NewDB()
	petsRepo, recs := NewPetRepo(db), NewRecordRepo(db)
	ctx := context.Background()

	require.NoError(t, petsRepo.Create(ctx, pets.Pet{ID: "p1", UserID: "u1"}))
	require.NoError(t, petsRepo.Create(ctx, pets.Pet{ID: "p2", UserID: "u1"}))
	require.NoError(t, recs.Create(ctx, records.Record{ID: "r1", PetID: "p1", Type: records.TypeVaccine}))
	require.NoError(t, recs.Create(ctx, records.Record{ID: "r2", PetID: "p2", Type: records.TypeVaccine}))

	require.NoError(t, petsRepo.Delete(ctx, "p1"))

	_, err := recs.GetByID(ctx, "r1")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = recs.GetByID(ctx, "r2")
	require.NoError(t, err)

	require.ErrorIs(t, petsRepo.Delete(ctx, "p1"), apperr.ErrNotFound)
}

func TestRecordRepo_CreateRequiresPet(t *testing.T) {
	recs := NewRecordRepo(NewDB())
	err := recs.Create(context.Background(), records.Record{ID: "r1", PetID: "gone"})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecordRepo_ReturnsCopies(t *testing.T) {
	db := NewDB()
	ctx := context.Background()
	require.NoError(t, NewPetRepo(db).Create(ctx, pets.Pet{ID: "p1"}))
	recs := NewRecordRepo(db)

	in := records.Record{
		ID: "r1", PetID: "p1", Type: records.TypeAllergy, UpdatedAt: time.Now(),
		Allergy: &records.Allergy{Reactions: []records.Reaction{records.ReactionRash}, Severity: records.SeverityMild},
	}
	require.NoError(t, recs.Create(ctx, in))
	in.Allergy.Reactions[0] = records.ReactionOther

	got, err := recs.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, records.ReactionRash, got.Allergy.Reactions[0])

	got.Allergy.Severity = records.SeveritySevere
	again, err := recs.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, records.SeverityMild, again.Allergy.Severity)
}
