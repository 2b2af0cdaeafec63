package avr

// SREG flag bit positions: C=0, Z=1, N=2, V=3, S=4, H=5, T=6, I=7.
const (
	flagC byte = 1 << 0
	flagZ byte = 1 << 1
	flagN byte = 1 << 2
	flagV byte = 1 << 3
	flagS byte = 1 << 4
	flagH byte = 1 << 5
	flagT byte = 1 << 6
	flagI byte = 1 << 7
)

// setFlagsAdd sets H,V,N,Z,C,S after an 8-bit addition: result = dst + src.
// Reproduces the boolean tables from the AVR instruction-set manual
// literally.
func (c *CPU) setFlagsAdd(src, dst, result byte) {
	rd7, rr7, r7 := dst&0x80 != 0, src&0x80 != 0, result&0x80 != 0
	rd3, rr3, r3 := dst&0x08 != 0, src&0x08 != 0, result&0x08 != 0

	sr := c.sreg() &^ (flagH | flagV | flagN | flagZ | flagC | flagS)

	if (rd3 && rr3) || (rr3 && !r3) || (!r3 && rd3) {
		sr |= flagH
	}
	if (rd7 && rr7 && !r7) || (!rd7 && !rr7 && r7) {
		sr |= flagV
	}
	if r7 {
		sr |= flagN
	}
	if result == 0 {
		sr |= flagZ
	}
	if (rd7 && rr7) || (rr7 && !r7) || (!r7 && rd7) {
		sr |= flagC
	}
	if (sr&flagN != 0) != (sr&flagV != 0) {
		sr |= flagS
	}
	c.setSREG(sr)
}

// setFlagsSub sets H,V,N,Z,C,S after an 8-bit subtraction: result = dst - src.
func (c *CPU) setFlagsSub(src, dst, result byte) {
	sr := c.setFlagsSubCommon(src, dst, result)
	if result == 0 {
		sr |= flagZ
	}
	c.setSREG(sr)
}

// setFlagsSbc sets H,V,N,C,S after SBC/CPC: result = dst - src - C. Unlike
// setFlagsSub, Z is only set if the result is zero AND the prior Z flag
// was already 1, so a multi-byte compare only reports zero when every
// byte compared equal.
func (c *CPU) setFlagsSbc(src, dst, result byte) {
	prevZ := c.sreg()&flagZ != 0
	sr := c.setFlagsSubCommon(src, dst, result)
	if result == 0 && prevZ {
		sr |= flagZ
	}
	c.setSREG(sr)
}

// setFlagsCmp is setFlagsSub without storing — CP/CPI share the same
// boolean tables as SUB.
func (c *CPU) setFlagsCmp(src, dst, result byte) {
	c.setFlagsSub(src, dst, result)
}

// setFlagsSubCommon computes H,V,N,C,S shared by SUB/SBC/CP/CPC and
// returns the updated SREG with Z left untouched for the caller to decide.
func (c *CPU) setFlagsSubCommon(src, dst, result byte) byte {
	rd7, rr7, r7 := dst&0x80 != 0, src&0x80 != 0, result&0x80 != 0
	rd3, rr3, r3 := dst&0x08 != 0, src&0x08 != 0, result&0x08 != 0

	sr := c.sreg() &^ (flagH | flagV | flagN | flagZ | flagC | flagS)

	if (!rd3 && rr3) || (rr3 && r3) || (r3 && !rd3) {
		sr |= flagH
	}
	if (rd7 && !rr7 && !r7) || (!rd7 && rr7 && r7) {
		sr |= flagV
	}
	if r7 {
		sr |= flagN
	}
	if (!rd7 && rr7) || (rr7 && r7) || (r7 && !rd7) {
		sr |= flagC
	}
	if (sr&flagN != 0) != (sr&flagV != 0) {
		sr |= flagS
	}
	return sr
}

// setFlagsLogical sets N,Z,S and clears V after AND/OR/EOR; C is left
// untouched.
func (c *CPU) setFlagsLogical(result byte) {
	sr := c.sreg() &^ (flagV | flagN | flagZ | flagS)
	if result&0x80 != 0 {
		sr |= flagN
	}
	if result == 0 {
		sr |= flagZ
	}
	if sr&flagN != 0 {
		sr |= flagS
	}
	c.setSREG(sr)
}

// setFlagsShiftRight sets N,Z,S,C,V for ASR/LSR/ROR: carryOut is the bit
// shifted out (the pre-shift LSB).
func (c *CPU) setFlagsShiftRight(result byte, carryOut bool) {
	sr := c.sreg() &^ (flagV | flagN | flagZ | flagC | flagS)
	n := result&0x80 != 0
	if n {
		sr |= flagN
	}
	if result == 0 {
		sr |= flagZ
	}
	if carryOut {
		sr |= flagC
	}
	if n != carryOut {
		sr |= flagV
	}
	if (sr&flagN != 0) != (sr&flagV != 0) {
		sr |= flagS
	}
	c.setSREG(sr)
}
