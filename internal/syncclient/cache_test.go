package syncclient

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pet-medical-records/internal/domain/pets"
	"pet-medical-records/internal/domain/records"
)

func TestCache_SnapshotsAreCopies(t *testing.T) {
	c := NewCache()
	c.ReplacePets([]pets.Pet{{ID: "p1", Name: "Rex"}})

	got := c.Pets()
	got[0].Name = "mutated"
	require.Equal(t, "Rex", c.Pets()[0].Name)

	c.ReplaceRecords("p1", []records.Record{{ID: "r1", PetID: "p1"}})
	rs := c.Records("p1")
	rs[0].ID = "x"
	require.Equal(t, "r1", c.Records("p1")[0].ID)
}

func TestCache_UpsertKeepsOrder(t *testing.T) {
	c := NewCache()
	c.UpsertPet(pets.Pet{ID: "p1"})
	c.UpsertPet(pets.Pet{ID: "p2"})
	c.UpsertPet(pets.Pet{ID: "p1", Name: "again"})

	got := c.Pets()
	require.Len(t, got, 2)
	require.Equal(t, "p1", got[0].ID)
	require.Equal(t, "again", got[0].Name)
}

func TestCache_RemovePetDropsRecords(t *testing.T) {
	c := NewCache()
	c.ReplacePets([]pets.Pet{{ID: "p1"}, {ID: "p2"}})
	c.UpsertRecord(records.Record{ID: "r1", PetID: "p1"})
	c.UpsertRecord(records.Record{ID: "r2", PetID: "p2"})

	c.RemovePet("p1")
	require.Len(t, c.Pets(), 1)
	require.Empty(t, c.Records("p1"))
	require.Len(t, c.Records("p2"), 1)

	c.RemoveRecord("r2")
	require.Empty(t, c.Records("p2"))

	c.Clear()
	require.Empty(t, c.Pets())
}
