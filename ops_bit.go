package avr

func init() {
	registerASR()
	registerLSR()
	registerROR()
	registerBSET()
	registerBCLR()
	registerBLD()
	registerBST()
	registerSBI()
	registerCBI()
	registerSBIC()
	registerSBIS()
	registerSBRC()
	registerSBRS()
}

// --- ASR ---

// registerASR registers ASR Rd (arithmetic shift right). Encoding:
// 1001 010d dddd 0101.
func registerASR() {
	fillRd(0x9405, opASR)
}

func opASR(c *CPU) {
	d := decodeRd(c.ir)
	v := c.reg(d)
	result := byte(int8(v) >> 1)
	c.setFlagsShiftRight(result, v&0x01 != 0)
	c.setReg(d, result)
}

// --- LSR ---

// registerLSR registers LSR Rd (logical shift right). Encoding:
// 1001 010d dddd 0110.
func registerLSR() {
	fillRd(0x9406, opLSR)
}

func opLSR(c *CPU) {
	d := decodeRd(c.ir)
	v := c.reg(d)
	result := v >> 1
	c.setFlagsShiftRight(result, v&0x01 != 0)
	c.setReg(d, result)
}

// --- ROR ---

// registerROR registers ROR Rd (rotate right through carry). Encoding:
// 1001 010d dddd 0111.
func registerROR() {
	fillRd(0x9407, opROR)
}

func opROR(c *CPU) {
	d := decodeRd(c.ir)
	v := c.reg(d)
	result := v >> 1
	if c.sreg()&flagC != 0 {
		result |= 0x80
	}
	c.setFlagsShiftRight(result, v&0x01 != 0)
	c.setReg(d, result)
}

// --- BSET / BCLR ---

// registerBSET registers BSET s (set SREG bit s). Encoding: 1001 0100 0sss 1000.
func registerBSET() {
	for s := uint16(0); s < 8; s++ {
		opcodeTable[0x9408|s<<4] = opBSET
	}
}

func opBSET(c *CPU) {
	s := uint8((c.ir >> 4) & 0x7)
	c.setSREG(c.sreg() | (1 << s))
}

// registerBCLR registers BCLR s (clear SREG bit s). Encoding: 1001 0100 1sss 1000.
func registerBCLR() {
	for s := uint16(0); s < 8; s++ {
		opcodeTable[0x9488|s<<4] = opBCLR
	}
}

func opBCLR(c *CPU) {
	s := uint8((c.ir >> 4) & 0x7)
	c.setSREG(c.sreg() &^ (1 << s))
}

// --- BLD / BST ---

// registerBLD registers BLD Rd,b (load T into bit b of Rd). Encoding:
// 1111 100d dddd 0bbb.
func registerBLD() {
	for d := uint16(0); d < 32; d++ {
		for b := uint16(0); b < 8; b++ {
			op := 0xF800 | (d&0x10)<<4 | (d&0xF)<<4 | b
			opcodeTable[op] = opBLD
		}
	}
}

func opBLD(c *CPU) {
	d := decodeRd(c.ir)
	b := c.ir & 0x7
	v := c.reg(d)
	if c.sreg()&flagT != 0 {
		v |= 1 << b
	} else {
		v &^= 1 << b
	}
	c.setReg(d, v)
}

// registerBST registers BST Rd,b (store bit b of Rd into T). Encoding:
// 1111 101d dddd 0bbb.
func registerBST() {
	for d := uint16(0); d < 32; d++ {
		for b := uint16(0); b < 8; b++ {
			op := 0xFA00 | (d&0x10)<<4 | (d&0xF)<<4 | b
			opcodeTable[op] = opBST
		}
	}
}

func opBST(c *CPU) {
	d := decodeRd(c.ir)
	b := c.ir & 0x7
	sr := c.sreg() &^ flagT
	if c.reg(d)&(1<<b) != 0 {
		sr |= flagT
	}
	c.setSREG(sr)
}

// --- SBI / CBI ---

// registerSBI registers SBI A,b (set bit b of I/O register A). Encoding:
// 1001 1010 AAAA Abbb.
func registerSBI() {
	for a := uint16(0); a < 32; a++ {
		for b := uint16(0); b < 8; b++ {
			opcodeTable[0x9A00|a<<3|b] = opSBI
		}
	}
}

func opSBI(c *CPU) {
	addr := ioBase + uint16((c.ir>>3)&0x1F)
	b := c.ir & 0x7
	c.writeDataMasked(addr, c.readData(addr)|byte(1<<b), byte(1<<b))
}

// registerCBI registers CBI A,b (clear bit b of I/O register A). Encoding:
// 1001 1000 AAAA Abbb.
func registerCBI() {
	for a := uint16(0); a < 32; a++ {
		for b := uint16(0); b < 8; b++ {
			opcodeTable[0x9800|a<<3|b] = opCBI
		}
	}
}

func opCBI(c *CPU) {
	addr := ioBase + uint16((c.ir>>3)&0x1F)
	b := c.ir & 0x7
	c.writeDataMasked(addr, c.readData(addr)&^byte(1<<b), byte(1<<b))
}

// --- SBIC / SBIS ---

// registerSBIC registers SBIC A,b (skip if bit b of A is clear).
// Encoding: 1001 1001 AAAA Abbb.
func registerSBIC() {
	for a := uint16(0); a < 32; a++ {
		for b := uint16(0); b < 8; b++ {
			opcodeTable[0x9900|a<<3|b] = opSBIC
		}
	}
}

func opSBIC(c *CPU) {
	addr := ioBase + uint16((c.ir>>3)&0x1F)
	b := c.ir & 0x7
	if c.readData(addr)&byte(1<<b) == 0 {
		skipped := c.fetch()
		c.cycles += skipExtra(skipped)
		if isTwoWordInstruction(skipped) {
			c.fetch()
		}
	}
}

// registerSBIS registers SBIS A,b (skip if bit b of A is set). Encoding:
// 1001 1011 AAAA Abbb.
func registerSBIS() {
	for a := uint16(0); a < 32; a++ {
		for b := uint16(0); b < 8; b++ {
			opcodeTable[0x9B00|a<<3|b] = opSBIS
		}
	}
}

func opSBIS(c *CPU) {
	addr := ioBase + uint16((c.ir>>3)&0x1F)
	b := c.ir & 0x7
	if c.readData(addr)&byte(1<<b) != 0 {
		skipped := c.fetch()
		c.cycles += skipExtra(skipped)
		if isTwoWordInstruction(skipped) {
			c.fetch()
		}
	}
}

// --- SBRC / SBRS ---

// registerSBRC registers SBRC Rr,b (skip if bit b of Rr is clear).
// Encoding: 1111 110r rrrr 0bbb.
func registerSBRC() {
	for d := uint16(0); d < 32; d++ {
		for b := uint16(0); b < 8; b++ {
			op := 0xFC00 | (d&0x10)<<4 | (d&0xF)<<4 | b
			opcodeTable[op] = opSBRC
		}
	}
}

func opSBRC(c *CPU) {
	d := decodeRd(c.ir)
	b := c.ir & 0x7
	if c.reg(d)&byte(1<<b) == 0 {
		skipped := c.fetch()
		c.cycles += skipExtra(skipped)
		if isTwoWordInstruction(skipped) {
			c.fetch()
		}
	}
}

// registerSBRS registers SBRS Rr,b (skip if bit b of Rr is set). Encoding:
// 1111 111r rrrr 0bbb.
func registerSBRS() {
	for d := uint16(0); d < 32; d++ {
		for b := uint16(0); b < 8; b++ {
			op := 0xFE00 | (d&0x10)<<4 | (d&0xF)<<4 | b
			opcodeTable[op] = opSBRS
		}
	}
}

func opSBRS(c *CPU) {
	d := decodeRd(c.ir)
	b := c.ir & 0x7
	if c.reg(d)&byte(1<<b) != 0 {
		skipped := c.fetch()
		c.cycles += skipExtra(skipped)
		if isTwoWordInstruction(skipped) {
			c.fetch()
		}
	}
}
