package memory

import (
	"sync"

	"pet-medical-records/internal/domain/events"
	"pet-medical-records/internal/domain/pets"
	"pet-medical-records/internal/domain/records"
	"pet-medical-records/internal/domain/users"
)

// DB es el estado compartido de todos los repos in-memory. Un solo lock para que
// operaciones que tocan varias colecciones (borrar mascota + registros) sean atómicas.
type DB struct {
	mu  sync.RWMutex
	seq uint64

	users   map[string]users.User
	pets    map[string]petRow
	records map[string]recordRow
	events  []events.ChangeEvent
}

// seq preserva el orden de inserción (los maps no lo tienen).
type petRow struct {
	seq uint64
	pet pets.Pet
}

type recordRow struct {
	seq uint64
	rec records.Record
}

func NewDB() *DB {
	return &DB{
		users:   make(map[string]users.User),
		pets:    make(map[string]petRow),
		records: make(map[string]recordRow),
	}
}

func (db *DB) next() uint64 {
	db.seq++
	return db.seq
}

// cloneRecord evita que el caller modifique slices/punteros guardados.
func cloneRecord(r records.Record) records.Record {
	out := r
	if r.Attachments != nil {
		out.Attachments = append([]records.Attachment(nil), r.Attachments...)
	}
	if r.Vaccine != nil {
		v := *r.Vaccine
		out.Vaccine = &v
	}
	if r.Allergy != nil {
		a := *r.Allergy
		a.Reactions = append([]records.Reaction(nil), r.Allergy.Reactions...)
		out.Allergy = &a
	}
	if r.Lab != nil {
		l := *r.Lab
		out.Lab = &l
	}
	return out
}
