package avr

func init() {
	registerADD()
	registerADC()
	registerSUB()
	registerSUBI()
	registerSBC()
	registerSBCI()
	registerADIW()
	registerSBIW()
	registerNEG()
	registerINC()
	registerDEC()
	registerCOM()
	registerMUL()
}

// pairBases maps the 2-bit ADIW/SBIW register-pair selector to the base
// register of the pair it addresses.
var pairBases = [4]uint8{24, regX, regY, regZ}

// --- ADD ---

// registerADD registers ADD Rd,Rr. Encoding: 0000 11rd dddd rrrr.
func registerADD() {
	fillRdRr(0x0C00, opADD)
}

func opADD(c *CPU) {
	d, r := decodeRdRr(c.ir)
	src, dst := c.reg(r), c.reg(d)
	result := dst + src
	c.setFlagsAdd(src, dst, result)
	c.setReg(d, result)
}

// --- ADC ---

// registerADC registers ADC Rd,Rr. Encoding: 0001 11rd dddd rrrr.
func registerADC() {
	fillRdRr(0x1C00, opADC)
}

func opADC(c *CPU) {
	d, r := decodeRdRr(c.ir)
	src, dst := c.reg(r), c.reg(d)
	carry := byte(0)
	if c.sreg()&flagC != 0 {
		carry = 1
	}
	result := dst + src + carry
	c.setFlagsAdd(src, dst, result)
	c.setReg(d, result)
}

// --- SUB ---

// registerSUB registers SUB Rd,Rr. Encoding: 0001 10rd dddd rrrr.
func registerSUB() {
	fillRdRr(0x1800, opSUB)
}

func opSUB(c *CPU) {
	d, r := decodeRdRr(c.ir)
	src, dst := c.reg(r), c.reg(d)
	result := dst - src
	c.setFlagsSub(src, dst, result)
	c.setReg(d, result)
}

// --- SUBI ---

// registerSUBI registers SUBI Rd,K (Rd restricted to r16..31).
// Encoding: 0101 KKKK dddd KKKK.
func registerSUBI() {
	fillRdImm(0x5000, opSUBI)
}

func opSUBI(c *CPU) {
	d, k := decodeRdImm(c.ir)
	dst := c.reg(d)
	result := dst - k
	c.setFlagsSub(k, dst, result)
	c.setReg(d, result)
}

// --- SBC ---

// registerSBC registers SBC Rd,Rr. Encoding: 0000 10rd dddd rrrr.
func registerSBC() {
	fillRdRr(0x0800, opSBC)
}

func opSBC(c *CPU) {
	d, r := decodeRdRr(c.ir)
	src, dst := c.reg(r), c.reg(d)
	carry := byte(0)
	if c.sreg()&flagC != 0 {
		carry = 1
	}
	result := dst - src - carry
	c.setFlagsSbc(src, dst, result)
	c.setReg(d, result)
}

// --- SBCI ---

// registerSBCI registers SBCI Rd,K. Encoding: 0100 KKKK dddd KKKK.
func registerSBCI() {
	fillRdImm(0x4000, opSBCI)
}

func opSBCI(c *CPU) {
	d, k := decodeRdImm(c.ir)
	dst := c.reg(d)
	carry := byte(0)
	if c.sreg()&flagC != 0 {
		carry = 1
	}
	result := dst - k - carry
	c.setFlagsSbc(k, dst, result)
	c.setReg(d, result)
}

// --- ADIW ---

// registerADIW registers ADIW Rd+1:Rd,K over the four addressable pairs
// (r24, X, Y, Z). Encoding: 1001 0110 KKdd KKKK.
func registerADIW() {
	for p := uint16(0); p < 4; p++ {
		for k := uint16(0); k < 64; k++ {
			op := 0x9600 | (k&0x30)<<2 | p<<4 | (k & 0x0F)
			opcodeTable[op] = opADIW
		}
	}
}

func opADIW(c *CPU) {
	p := uint8((c.ir >> 4) & 0x3)
	k := uint16(((c.ir>>6)&0x3)<<4 | (c.ir & 0xF))
	base := pairBases[p]
	v := c.regPair(base)
	result := v + k

	sr := c.sreg() &^ (flagV | flagN | flagZ | flagC | flagS)
	if v&0x8000 == 0 && result&0x8000 != 0 {
		sr |= flagV
	}
	if result&0x8000 != 0 {
		sr |= flagN
	}
	if result == 0 {
		sr |= flagZ
	}
	if v&0x8000 != 0 && result&0x8000 == 0 {
		sr |= flagC
	}
	if (sr&flagN != 0) != (sr&flagV != 0) {
		sr |= flagS
	}
	c.setSREG(sr)
	c.setRegPair(base, result)
	c.cycles++
}

// --- SBIW ---

// registerSBIW registers SBIW Rd+1:Rd,K. Encoding: 1001 0111 KKdd KKKK.
func registerSBIW() {
	for p := uint16(0); p < 4; p++ {
		for k := uint16(0); k < 64; k++ {
			op := 0x9700 | (k&0x30)<<2 | p<<4 | (k & 0x0F)
			opcodeTable[op] = opSBIW
		}
	}
}

func opSBIW(c *CPU) {
	p := uint8((c.ir >> 4) & 0x3)
	k := uint16(((c.ir>>6)&0x3)<<4 | (c.ir & 0xF))
	base := pairBases[p]
	v := c.regPair(base)
	result := v - k

	sr := c.sreg() &^ (flagV | flagN | flagZ | flagC | flagS)
	if v&0x8000 != 0 && result&0x8000 == 0 {
		sr |= flagV
	}
	if result&0x8000 != 0 {
		sr |= flagN
	}
	if result == 0 {
		sr |= flagZ
	}
	if result&0x8000 != 0 && v&0x8000 == 0 {
		sr |= flagC
	}
	if (sr&flagN != 0) != (sr&flagV != 0) {
		sr |= flagS
	}
	c.setSREG(sr)
	c.setRegPair(base, result)
	c.cycles++
}

// --- NEG ---

// registerNEG registers NEG Rd. Encoding: 1001 010d dddd 0001.
func registerNEG() {
	fillRd(0x9401, opNEG)
}

func opNEG(c *CPU) {
	d := decodeRd(c.ir)
	dst := c.reg(d)
	result := byte(0) - dst
	c.setFlagsSub(dst, 0, result)
	if result != 0 {
		c.setSREG(c.sreg() | flagC)
	}
	if result == 0x80 {
		c.setSREG(c.sreg() | flagV)
	}
	c.setReg(d, result)
}

// --- INC ---

// registerINC registers INC Rd. Encoding: 1001 010d dddd 0011.
func registerINC() {
	fillRd(0x9403, opINC)
}

func opINC(c *CPU) {
	d := decodeRd(c.ir)
	result := c.reg(d) + 1
	sr := c.sreg() &^ (flagV | flagN | flagZ | flagS)
	if result == 0x80 {
		sr |= flagV
	}
	if result&0x80 != 0 {
		sr |= flagN
	}
	if result == 0 {
		sr |= flagZ
	}
	if (sr&flagN != 0) != (sr&flagV != 0) {
		sr |= flagS
	}
	c.setSREG(sr)
	c.setReg(d, result)
}

// --- DEC ---

// registerDEC registers DEC Rd. Encoding: 1001 010d dddd 1010.
func registerDEC() {
	fillRd(0x940A, opDEC)
}

func opDEC(c *CPU) {
	d := decodeRd(c.ir)
	result := c.reg(d) - 1
	sr := c.sreg() &^ (flagV | flagN | flagZ | flagS)
	if result == 0x7F {
		sr |= flagV
	}
	if result&0x80 != 0 {
		sr |= flagN
	}
	if result == 0 {
		sr |= flagZ
	}
	if (sr&flagN != 0) != (sr&flagV != 0) {
		sr |= flagS
	}
	c.setSREG(sr)
	c.setReg(d, result)
}

// --- COM ---

// registerCOM registers COM Rd (one's complement). Encoding: 1001 010d dddd 0000.
func registerCOM() {
	fillRd(0x9400, opCOM)
}

func opCOM(c *CPU) {
	d := decodeRd(c.ir)
	result := 0xFF - c.reg(d)
	c.setFlagsLogical(result)
	c.setSREG(c.sreg() | flagC)
	c.setReg(d, result)
}

// --- MUL ---

// registerMUL registers MUL Rd,Rr (unsigned 8x8 multiply into r1:r0).
// Encoding: 1001 11rd dddd rrrr.
func registerMUL() {
	fillRdRr(0x9C00, opMUL)
}

func opMUL(c *CPU) {
	d, r := decodeRdRr(c.ir)
	result := uint16(c.reg(d)) * uint16(c.reg(r))
	c.setReg(0, byte(result))
	c.setReg(1, byte(result>>8))

	sr := c.sreg() &^ (flagC | flagZ)
	if result&0x8000 != 0 {
		sr |= flagC
	}
	if result == 0 {
		sr |= flagZ
	}
	c.setSREG(sr)
	c.cycles++
}
