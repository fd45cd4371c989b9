package packet

// Client → server opcodes.
const (
	C_OPCODE_WATCH byte = 1  // [S name]
	C_OPCODE_PLACE byte = 2  // [D x][D y][D z][H block id][C meta]
	C_OPCODE_QUERY byte = 3  // [D x][D y][D z]
	C_OPCODE_PING  byte = 15 // [D nonce]
)

// Server → client opcodes.
const (
	S_OPCODE_HELLO   byte = 128 // [Q tick][D min y][D max y][S world]
	S_OPCODE_CHANGES byte = 129 // [Q tick][H count] count × [D x][D y][D z][H id][C meta]
	S_OPCODE_CELL    byte = 130 // [D x][D y][D z][H id][C meta][D flow x][D flow y][D flow z], flow × 1000
	S_OPCODE_NOTICE  byte = 131 // [S message]
	S_OPCODE_PONG    byte = 143 // [D nonce][Q tick]
)
