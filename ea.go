package avr

// ea.go resolves the AVR indirect addressing modes used by LD/ST: plain
// X/Y/Z, post-increment, pre-decrement, and Y/Z plus a 6-bit displacement
// (LDD/STD). The three pointer pairs are X(r27:r26), Y(r29:r28) and
// Z(r31:r30), each stored little-endian in the register file.

// indirectPostInc reads the pair at base, returns it as the address, and
// increments the pair by 1.
func (c *CPU) indirectPostInc(base uint8) uint16 {
	addr := c.regPair(base)
	c.setRegPair(base, addr+1)
	return addr
}

// indirectPreDec decrements the pair at base by 1 and returns the new
// value as the address.
func (c *CPU) indirectPreDec(base uint8) uint16 {
	addr := c.regPair(base) - 1
	c.setRegPair(base, addr)
	return addr
}

// indirectDisplaced returns base-pair + q without modifying the pair
// (LDD/STD).
func (c *CPU) indirectDisplaced(base uint8, q uint8) uint16 {
	return c.regPair(base) + uint16(q)
}

// displacementFromOpcode extracts the scattered 6-bit q field from an
// LDD/STD opcode word: bit13=q5, bits11:10=q4:3, bits2:0=q2:0. This is
// the canonical AVR displacement-bit scatter used across AVR decoders.
func displacementFromOpcode(op uint16) uint8 {
	return uint8((op&0x2000)>>8 | (op&0x0c00)>>7 | (op & 0x0007))
}
