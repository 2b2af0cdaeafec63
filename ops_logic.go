package avr

func init() {
	registerAND()
	registerANDI()
	registerOR()
	registerORI()
	registerEOR()
}

// --- AND ---

// registerAND registers AND Rd,Rr. Encoding: 0010 00rd dddd rrrr.
func registerAND() {
	fillRdRr(0x2000, opAND)
}

func opAND(c *CPU) {
	d, r := decodeRdRr(c.ir)
	result := c.reg(d) & c.reg(r)
	c.setFlagsLogical(result)
	c.setReg(d, result)
}

// --- ANDI ---

// registerANDI registers ANDI Rd,K. Encoding: 0111 KKKK dddd KKKK.
func registerANDI() {
	fillRdImm(0x7000, opANDI)
}

func opANDI(c *CPU) {
	d, k := decodeRdImm(c.ir)
	result := c.reg(d) & k
	c.setFlagsLogical(result)
	c.setReg(d, result)
}

// --- OR ---

// registerOR registers OR Rd,Rr. Encoding: 0010 10rd dddd rrrr.
func registerOR() {
	fillRdRr(0x2800, opOR)
}

func opOR(c *CPU) {
	d, r := decodeRdRr(c.ir)
	result := c.reg(d) | c.reg(r)
	c.setFlagsLogical(result)
	c.setReg(d, result)
}

// --- ORI / SBR ---

// registerORI registers ORI Rd,K (assembler mnemonic SBR). Encoding:
// 0110 KKKK dddd KKKK.
func registerORI() {
	fillRdImm(0x6000, opORI)
}

func opORI(c *CPU) {
	d, k := decodeRdImm(c.ir)
	result := c.reg(d) | k
	c.setFlagsLogical(result)
	c.setReg(d, result)
}

// --- EOR ---

// registerEOR registers EOR Rd,Rr. Encoding: 0010 01rd dddd rrrr.
// EOR Rd,Rd (clear register) is the idiomatic zeroing sequence and needs
// no special case here: it falls out of the general XOR.
func registerEOR() {
	fillRdRr(0x2400, opEOR)
}

func opEOR(c *CPU) {
	d, r := decodeRdRr(c.ir)
	result := c.reg(d) ^ c.reg(r)
	c.setFlagsLogical(result)
	c.setReg(d, result)
}
