package components

// Food marks an edible entity and the energy it yields when eaten.
type Food struct {
	Energy float32
}
