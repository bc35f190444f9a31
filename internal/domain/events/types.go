package events

type Type string

const (
	TypePetCreated    Type = "PET_CREATED"
	TypePetUpdated    Type = "PET_UPDATED"
	TypePetDeleted    Type = "PET_DELETED"
	TypeRecordCreated Type = "RECORD_CREATED"
	TypeRecordUpdated Type = "RECORD_UPDATED"
	TypeRecordDeleted Type = "RECORD_DELETED"
)

var knownTypes = map[Type]struct{}{
	TypePetCreated:    {},
	TypePetUpdated:    {},
	TypePetDeleted:    {},
	TypeRecordCreated: {},
	TypeRecordUpdated: {},
	TypeRecordDeleted: {},
}

func (t Type) Valid() bool {
	_, ok := knownTypes[t]
	return ok
}

type Entity string

const (
	EntityPet    Entity = "pet"
	EntityRecord Entity = "record"
)
