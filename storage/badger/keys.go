package badger

// Artifact slots. Each slot holds exactly one serialized artifact.
const (
	artifactPrefix = "artifact"
	matrixSlot     = "matrix"
	encodersSlot   = "encoders"
)

// makeSlotKey generates the key of an artifact slot.
// Format: prefix:slot
func makeSlotKey(slot string) []byte {
	return []byte(artifactPrefix + ":" + slot)
}
