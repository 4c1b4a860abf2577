package n2k

// PGNs this library knows how to decode. Everything else on the bus is ignored.
const (
	// PGNPositionRapidUpdate is `129025 Position, Rapid Update`
	PGNPositionRapidUpdate = uint32(129025)
	// PGNCOGSOGRapidUpdate is `129026 COG & SOG, Rapid Update`
	PGNCOGSOGRapidUpdate = uint32(129026)
	// PGNAttitude is `127257 Attitude`
	PGNAttitude = uint32(127257)
	// PGNVesselHeading is `127250 Vessel Heading`
	PGNVesselHeading = uint32(127250)
)

// FieldSpec describes single field within PGN payload. Field order in Schema.Fields is byte
// offset order, offsets are derived by summing lengths of preceding fields and never stored.
type FieldSpec struct {
	Name   string
	Length int // bytes
}

// Schema describes how single PGN payload is sliced into fields.
type Schema struct {
	PGN    uint32
	Name   string
	Fields []FieldSpec

	// DecodeSID marks that SID field is decoded and published for this PGN. For most PGNs SID
	// only advances the offset.
	DecodeSID bool
	// AngleToDegrees marks that decoded angle values of this PGN are converted from radians to
	// degrees (multiplied by 180/pi) before publishing.
	AngleToDegrees bool
}

// ExpectedByteCount is payload length the schema needs to decode every field.
func (s Schema) ExpectedByteCount() int {
	total := 0
	for _, f := range s.Fields {
		total += f.Length
	}
	return total
}

var schemas = map[uint32]Schema{
	PGNPositionRapidUpdate: {
		PGN:  PGNPositionRapidUpdate,
		Name: "Position, Rapid Update",
		Fields: []FieldSpec{
			{Name: "Latitude", Length: 4},
			{Name: "Longitude", Length: 4},
		},
	},
	PGNCOGSOGRapidUpdate: {
		PGN:  PGNCOGSOGRapidUpdate,
		Name: "COG & SOG, Rapid Update",
		Fields: []FieldSpec{
			{Name: "SID", Length: 1},
			{Name: "COG Reference", Length: 1},
			{Name: "COG", Length: 2},
			{Name: "SOG", Length: 2},
		},
		DecodeSID: true,
	},
	PGNAttitude: {
		PGN:  PGNAttitude,
		Name: "Attitude",
		Fields: []FieldSpec{
			{Name: "SID", Length: 1},
			{Name: "Yaw", Length: 2},
			{Name: "Pitch", Length: 2},
			{Name: "Roll", Length: 2},
		},
		AngleToDegrees: true,
	},
	PGNVesselHeading: {
		PGN:  PGNVesselHeading,
		Name: "Vessel Heading",
		Fields: []FieldSpec{
			{Name: "SID", Length: 1},
			{Name: "Heading", Length: 2},
		},
		AngleToDegrees: true,
	},
}

// SchemaFor returns field layout for given PGN. Returns false for PGNs outside of this
// library scope.
func SchemaFor(pgn uint32) (Schema, bool) {
	s, ok := schemas[pgn]
	return s, ok
}
