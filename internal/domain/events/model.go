package events

import "time"

// ChangeEvent es una entrada del historial de cambios de una mascota.
// Se escribe después de cada mutación exitosa; nunca se edita.
type ChangeEvent struct {
	ID    string `json:"id" db:"id"`
	PetID string `json:"petId" db:"pet_id"`

	Entity   Entity `json:"entity" db:"entity"`
	EntityID string `json:"entityId" db:"entity_id"`
	Type     Type   `json:"type" db:"type" enums:"PET_CREATED,PET_UPDATED,PET_DELETED,RECORD_CREATED,RECORD_UPDATED,RECORD_DELETED"`

	ActorID    string    `json:"actorId" db:"actor_id"`
	OccurredAt time.Time `json:"occurredAt" db:"occurred_at"`
}

// PetChange arma el evento para una mutación de mascota.
func PetChange(t Type, petID, actorID string) ChangeEvent {
	return ChangeEvent{PetID: petID, Entity: EntityPet, EntityID: petID, Type: t, ActorID: actorID}
}

func RecordChange(t Type, petID, recordID, actorID string) ChangeEvent {
	return ChangeEvent{PetID: petID, Entity: EntityRecord, EntityID: recordID, Type: t, ActorID: actorID}
}
