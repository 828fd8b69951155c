package components

// Agent bundles identity and metabolic state.
type Agent struct {
	ID         uint32  `inspect:"label"`
	Generation int32   `inspect:"label"`
	Energy     float32 `inspect:"bar"`
	MaxEnergy  float32 `inspect:"label,fmt:%.1f"`
	Age        float32 `inspect:"label,fmt:%.1fs"` // seconds alive
	Alive      bool    `inspect:"bool"`
}
