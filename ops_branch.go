package avr

func init() {
	registerCP()
	registerCPC()
	registerCPI()
	registerCPSE()
	registerBRBS()
	registerBRBC()
}

// --- CP ---

// registerCP registers CP Rd,Rr (compare, result discarded). Encoding:
// 0001 01rd dddd rrrr.
func registerCP() {
	fillRdRr(0x1400, opCP)
}

func opCP(c *CPU) {
	d, r := decodeRdRr(c.ir)
	src, dst := c.reg(r), c.reg(d)
	c.setFlagsCmp(src, dst, dst-src)
}

// --- CPC ---

// registerCPC registers CPC Rd,Rr (compare with carry). Encoding:
// 0000 01rd dddd rrrr.
func registerCPC() {
	fillRdRr(0x0400, opCPC)
}

func opCPC(c *CPU) {
	d, r := decodeRdRr(c.ir)
	src, dst := c.reg(r), c.reg(d)
	carry := byte(0)
	if c.sreg()&flagC != 0 {
		carry = 1
	}
	c.setFlagsSbc(src, dst, dst-src-carry)
}

// --- CPI ---

// registerCPI registers CPI Rd,K. Encoding: 0011 KKKK dddd KKKK.
func registerCPI() {
	fillRdImm(0x3000, opCPI)
}

func opCPI(c *CPU) {
	d, k := decodeRdImm(c.ir)
	dst := c.reg(d)
	c.setFlagsCmp(k, dst, dst-k)
}

// --- CPSE ---

// registerCPSE registers CPSE Rd,Rr (compare, skip if equal). Encoding:
// 0001 00rd dddd rrrr.
func registerCPSE() {
	fillRdRr(0x1000, opCPSE)
}

func opCPSE(c *CPU) {
	d, r := decodeRdRr(c.ir)
	if c.reg(d) == c.reg(r) {
		skipped := c.fetch()
		c.cycles += skipExtra(skipped)
		if isTwoWordInstruction(skipped) {
			c.fetch()
		}
	}
}

// --- BRBS / BRBC ---

// registerBRBS registers BRBS s,k (branch if SREG bit s is set).
// Encoding: 1111 00kk kkkk ksss.
func registerBRBS() {
	for k := uint16(0); k < 128; k++ {
		for s := uint16(0); s < 8; s++ {
			opcodeTable[0xF000|k<<3|s] = opBRBS
		}
	}
}

func opBRBS(c *CPU) {
	s := uint8(c.ir & 0x7)
	if c.sreg()&(1<<s) != 0 {
		branchRelative(c)
	}
}

// registerBRBC registers BRBC s,k (branch if SREG bit s is clear).
// Encoding: 1111 01kk kkkk ksss.
func registerBRBC() {
	for k := uint16(0); k < 128; k++ {
		for s := uint16(0); s < 8; s++ {
			opcodeTable[0xF400|k<<3|s] = opBRBC
		}
	}
}

func opBRBC(c *CPU) {
	s := uint8(c.ir & 0x7)
	if c.sreg()&(1<<s) == 0 {
		branchRelative(c)
	}
}

// branchRelative applies the signed 7-bit relative offset of a taken
// BRBS/BRBC and charges the extra cycle: a taken branch costs 2 cycles
// total, a not-taken branch the base 1.
func branchRelative(c *CPU) {
	rel := int32((c.ir >> 3) & 0x7F)
	if rel&0x40 != 0 {
		rel -= 128
	}
	c.pc = uint32(int32(c.pc) + rel)
	c.cycles++
}
