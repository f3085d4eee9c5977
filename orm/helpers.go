package orm

type Identifiable[ID comparable] interface {
	GetID() ID
}

// Owned models belong to a parent model through a foreign key
type Owned[ID comparable] interface {
	Identifiable[ID]
	GetOwnerID() ID
}

func ModelsToIDMap[
	M Identifiable[ID],
	ID comparable,
](items []M) map[ID]M {
	idItems := make(map[ID]M, len(items))
	for _, m := range items {
		idItems[m.GetID()] = m
	}
	return idItems
}
