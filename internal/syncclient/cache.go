package syncclient

import (
	"sync"

	"pet-medical-records/internal/domain/pets"
	"pet-medical-records/internal/domain/records"
)

// Cache es el espejo local. Los listados reemplazan todo (snapshot autoritativo);
// las mutaciones de una entidad se aplican por id.
type Cache struct {
	mu      sync.RWMutex
	pets    []pets.Pet
	records map[string][]records.Record // por petID
}

func NewCache() *Cache {
	return &Cache{records: make(map[string][]records.Record)}
}

func (c *Cache) ReplacePets(ps []pets.Pet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pets = append([]pets.Pet(nil), ps...)
}

func (c *Cache) ReplaceRecords(petID string, rs []records.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records[petID] = append([]records.Record(nil), rs...)
}

func (c *Cache) UpsertPet(p pets.Pet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.pets {
		if c.pets[i].ID == p.ID {
			c.pets[i] = p
			return
		}
	}
	c.pets = append(c.pets, p)
}

// RemovePet también descarta los registros de esa mascota.
func (c *Cache) RemovePet(petID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.pets {
		if c.pets[i].ID == petID {
			c.pets = append(c.pets[:i:i], c.pets[i+1:]...)
			break
		}
	}
	delete(c.records, petID)
}

func (c *Cache) UpsertRecord(r records.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.records[r.PetID]
	for i := range list {
		if list[i].ID == r.ID {
			list[i] = r
			return
		}
	}
	c.records[r.PetID] = append(list, r)
}

// RemoveRecord busca por id en todas las mascotas (el delete no devuelve el petID).
func (c *Cache) RemoveRecord(recordID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for petID, list := range c.records {
		for i := range list {
			if list[i].ID == recordID {
				c.records[petID] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pets = nil
	c.records = make(map[string][]records.Record)
}

func (c *Cache) Pets() []pets.Pet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]pets.Pet{}, c.pets...)
}

func (c *Cache) Records(petID string) []records.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]records.Record{}, c.records[petID]...)
}
