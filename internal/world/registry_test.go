package world

// testRegistry is a fixed block set for grid tests.
type testRegistry map[uint16]*BlockType

const (
	testStone  uint16 = 1
	testFlower uint16 = 37
	testWater  uint16 = 8
)

func newTestRegistry() testRegistry {
	r := testRegistry{}
	for _, bt := range []*BlockType{
		{ID: AirID, Name: "air", Flowable: true},
		{ID: testStone, Name: "stone", Solid: true},
		{ID: testFlower, Name: "flower", Flowable: true},
		{ID: testWater, Name: "water", Flowable: true, Liquid: true},
	} {
		r[bt.ID] = bt
	}
	return r
}

func (r testRegistry) Type(id uint16) *BlockType {
	if bt, ok := r[id]; ok {
		return bt
	}
	return &BlockType{ID: id, Name: "unknown", Solid: true}
}

func (r testRegistry) Lookup(name string) (*BlockType, bool) {
	for _, bt := range r {
		if bt.Name == name {
			return bt, true
		}
	}
	return nil, false
}
