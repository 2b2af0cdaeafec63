package avr

func init() {
	registerLDI()
	registerMOV()
	registerMOVW()
	registerIN()
	registerOUT()
	registerLDS()
	registerSTS()
	registerLDIndirect()
	registerSTIndirect()
	registerLDDisplaced()
	registerSTDisplaced()
	registerLPM()
	registerELPM()
	registerPUSH()
	registerPOP()
}

// --- LDI ---

// registerLDI registers LDI Rd,K (Rd restricted to r16..31). Encoding:
// 1110 KKKK dddd KKKK.
func registerLDI() {
	fillRdImm(0xE000, opLDI)
}

func opLDI(c *CPU) {
	d, k := decodeRdImm(c.ir)
	c.setReg(d, k)
}

// --- MOV ---

// registerMOV registers MOV Rd,Rr. Encoding: 0010 11rd dddd rrrr.
func registerMOV() {
	fillRdRr(0x2C00, opMOV)
}

func opMOV(c *CPU) {
	d, r := decodeRdRr(c.ir)
	c.setReg(d, c.reg(r))
}

// --- MOVW ---

// registerMOVW registers MOVW Rd+1:Rd,Rr+1:Rr (pair copy). Encoding:
// 0000 0001 dddd rrrr, d/r index register pairs (register = index*2).
func registerMOVW() {
	for d := uint16(0); d < 16; d++ {
		for r := uint16(0); r < 16; r++ {
			opcodeTable[0x0100|d<<4|r] = opMOVW
		}
	}
}

func opMOVW(c *CPU) {
	d := uint8((c.ir>>4)&0xF) * 2
	r := uint8(c.ir&0xF) * 2
	c.setRegPair(d, c.regPair(r))
}

// --- IN / OUT ---

// registerIN registers IN Rd,A (A is a 6-bit I/O address). Encoding:
// 1011 0AAd dddd AAAA.
func registerIN() {
	fillInOut(0xB000, opIN)
}

func opIN(c *CPU) {
	d := decodeRd(c.ir)
	a := decodeIOAddr(c.ir)
	c.setReg(d, c.readData(ioBase+uint16(a)))
}

// registerOUT registers OUT A,Rr. Encoding: 1011 1AAr rrrr AAAA.
func registerOUT() {
	fillInOut(0xB800, opOUT)
}

func opOUT(c *CPU) {
	r := decodeRd(c.ir)
	a := decodeIOAddr(c.ir)
	c.writeData(ioBase+uint16(a), c.reg(r))
}

// fillInOut populates opcodeTable for the IN/OUT family: a full 5-bit
// register field (bit8 high + bits7:4 low) and a 6-bit I/O address
// scattered as A5:4 at bits10:9, A3:0 at bits3:0.
func fillInOut(base uint16, fn opFunc) {
	for a := uint16(0); a < 64; a++ {
		for d := uint16(0); d < 32; d++ {
			op := base | (a&0x30)<<5 | (d&0x10)<<4 | (d&0xF)<<4 | (a & 0xF)
			opcodeTable[op] = fn
		}
	}
}

// --- LDS / STS ---

// registerLDS registers LDS Rd,k (two-word: absolute 16-bit data address
// in the second word). Encoding: 1001 000d dddd 0000.
func registerLDS() {
	fillRd(0x9000, opLDS)
}

func opLDS(c *CPU) {
	d := decodeRd(c.ir)
	addr := c.fetch()
	c.setReg(d, c.readData(addr))
	c.cycles++
}

// registerSTS registers STS k,Rr. Encoding: 1001 001d dddd 0000.
func registerSTS() {
	fillRd(0x9200, opSTS)
}

func opSTS(c *CPU) {
	r := decodeRd(c.ir)
	addr := c.fetch()
	c.writeData(addr, c.reg(r))
	c.cycles++
}

// --- LD / ST via X, Y, Z (plain, post-increment, pre-decrement) ---

// registerLDIndirect registers the LD forms that use X, Y, or Z without
// a displacement: plain X, and post-increment/pre-decrement for all
// three pairs. Plain Y and Z are the q=0 LDD encodings registered by
// registerLDDisplaced.
func registerLDIndirect() {
	fillRd(0x900C, ldWith(regX, indirectPlain))
	fillRd(0x900D, ldWith(regX, indirectInc))
	fillRd(0x900E, ldWith(regX, indirectDec))
	fillRd(0x9009, ldWith(regY, indirectInc))
	fillRd(0x900A, ldWith(regY, indirectDec))
	fillRd(0x9001, ldWith(regZ, indirectInc))
	fillRd(0x9002, ldWith(regZ, indirectDec))
}

// registerSTIndirect registers the equivalent ST forms.
func registerSTIndirect() {
	fillRd(0x920C, stWith(regX, indirectPlain))
	fillRd(0x920D, stWith(regX, indirectInc))
	fillRd(0x920E, stWith(regX, indirectDec))
	fillRd(0x9209, stWith(regY, indirectInc))
	fillRd(0x920A, stWith(regY, indirectDec))
	fillRd(0x9201, stWith(regZ, indirectInc))
	fillRd(0x9202, stWith(regZ, indirectDec))
}

// indirectMode selects how ea.go resolves the pointer register for a
// plain/post-increment/pre-decrement LD or ST.
type indirectMode int

const (
	indirectPlain indirectMode = iota
	indirectInc
	indirectDec
)

func resolveIndirect(c *CPU, base uint8, mode indirectMode) uint16 {
	switch mode {
	case indirectInc:
		return c.indirectPostInc(base)
	case indirectDec:
		return c.indirectPreDec(base)
	default:
		return c.regPair(base)
	}
}

func ldWith(base uint8, mode indirectMode) opFunc {
	return func(c *CPU) {
		d := decodeRd(c.ir)
		addr := resolveIndirect(c, base, mode)
		c.setReg(d, c.readData(addr))
		c.cycles++
	}
}

func stWith(base uint8, mode indirectMode) opFunc {
	return func(c *CPU) {
		r := decodeRd(c.ir)
		addr := resolveIndirect(c, base, mode)
		c.writeData(addr, c.reg(r))
		c.cycles++
	}
}

// --- LDD / STD (and their q=0 plain-Y/Z aliases) ---

// registerLDDisplaced registers LD Rd,Y / LD Rd,Z (q=0) and LDD Rd,Y+q /
// LDD Rd,Z+q (q=1..63) in one pass: bit3 selects Y(1) or Z(0). Encoding:
// 10q0 qq0d dddd 1qqq (Y) / 10q0 qq0d dddd 0qqq (Z).
func registerLDDisplaced() {
	fillDisplaced(0x8000, opLDDisplacedZ)
	fillDisplaced(0x8008, opLDDisplacedY)
}

func opLDDisplacedZ(c *CPU) { ldDisplaced(c, regZ) }
func opLDDisplacedY(c *CPU) { ldDisplaced(c, regY) }

func ldDisplaced(c *CPU, base uint8) {
	d := decodeRd(c.ir)
	q := displacementFromOpcode(c.ir)
	addr := c.indirectDisplaced(base, q)
	c.setReg(d, c.readData(addr))
	c.cycles++
	if q != 0 {
		c.cycles++
	}
}

// registerSTDisplaced registers ST Y,Rr / ST Z,Rr (q=0) and STD Y+q,Rr /
// STD Z+q,Rr (q=1..63). Encoding: 10q0 qq1r rrrr 1qqq (Y) / 10q0 qq1r
// rrrr 0qqq (Z).
func registerSTDisplaced() {
	fillDisplaced(0x8200, opSTDisplacedZ)
	fillDisplaced(0x8208, opSTDisplacedY)
}

func opSTDisplacedZ(c *CPU) { stDisplaced(c, regZ) }
func opSTDisplacedY(c *CPU) { stDisplaced(c, regY) }

func stDisplaced(c *CPU, base uint8) {
	r := decodeRd(c.ir)
	q := displacementFromOpcode(c.ir)
	addr := c.indirectDisplaced(base, q)
	c.writeData(addr, c.reg(r))
	c.cycles++
	if q != 0 {
		c.cycles++
	}
}

// fillDisplaced populates opcodeTable for every (Rd, q) combination of an
// LDD/STD-shaped instruction: q5 at bit13, q4:3 at bits11:10, q2:0 at
// bits2:0, mirroring displacementFromOpcode's scatter.
func fillDisplaced(base uint16, fn opFunc) {
	for d := uint16(0); d < 32; d++ {
		for q := uint16(0); q < 64; q++ {
			op := base | (q&0x20)<<8 | (q&0x18)<<7 | (d&0x10)<<4 | (d&0xF)<<4 | (q & 0x7)
			opcodeTable[op] = fn
		}
	}
}

// --- LPM / ELPM ---

// programByte reads a single byte out of program memory at a Z-register
// byte address (low bit selects high/low byte of the word).
func programByte(c *CPU, addr uint16) byte {
	word := c.prog[addr>>1]
	if addr&1 != 0 {
		return byte(word >> 8)
	}
	return byte(word)
}

// registerLPM registers the implicit-r0 form and the Rd,Z / Rd,Z+ forms.
func registerLPM() {
	opcodeTable[0x95C8] = opLPMImplicit
	fillRd(0x9004, opLPMReg)
	fillRd(0x9005, opLPMRegInc)
}

func opLPMImplicit(c *CPU) {
	c.setReg(0, programByte(c, c.regPair(regZ)))
	c.cycles += 2
}

func opLPMReg(c *CPU) {
	d := decodeRd(c.ir)
	c.setReg(d, programByte(c, c.regPair(regZ)))
	c.cycles += 2
}

func opLPMRegInc(c *CPU) {
	d := decodeRd(c.ir)
	z := c.regPair(regZ)
	c.setReg(d, programByte(c, z))
	c.setRegPair(regZ, z+1)
	c.cycles += 2
}

// registerELPM registers ELPM's three forms. This device's 32 KiB flash
// never needs RAMPZ, so ELPM behaves identically to LPM; it is kept as a
// distinct opcode family because real firmware built for the extended
// core uses the ELPM mnemonic regardless.
func registerELPM() {
	opcodeTable[0x95D8] = opLPMImplicit
	fillRd(0x9006, opLPMReg)
	fillRd(0x9007, opLPMRegInc)
}

// --- PUSH / POP ---

// registerPUSH registers PUSH Rd. Encoding: 1001 001d dddd 1111.
func registerPUSH() {
	fillRd(0x920F, opPUSH)
}

func opPUSH(c *CPU) {
	d := decodeRd(c.ir)
	c.push(c.reg(d))
	c.cycles++
}

// registerPOP registers POP Rd. Encoding: 1001 000d dddd 1111.
func registerPOP() {
	fillRd(0x900F, opPOP)
}

func opPOP(c *CPU) {
	d := decodeRd(c.ir)
	c.setReg(d, c.pop())
	c.cycles++
}
