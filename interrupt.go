package avr

// maxInterruptVector bounds the sparse pending-interrupt array; AVR
// vector addresses in this device are small words (the largest used
// here is the TWI vector at 0x30), so a generous fixed bound keeps the
// sparse array simple.
const maxInterruptVector = 64

// InterruptConfig describes one interrupt source: the vector word
// address, the enable bit location, and the flag bit location. InverseFlag
// (used by EEPROM) means the pending condition is the *cleared* state of
// flagMask rather than the set state.
type InterruptConfig struct {
	Address        uint16
	EnableRegister uint16
	EnableMask     byte
	FlagRegister   uint16
	FlagMask       byte
	InverseFlag    bool
}

// queue marks cfg's vector occupied and updates nextInterrupt/maxInterrupt.
func (c *CPU) queue(cfg InterruptConfig) {
	addr := int(cfg.Address)
	c.pendingInterrupts[addr] = true
	if c.nextInterrupt < 0 || addr < c.nextInterrupt {
		c.nextInterrupt = addr
	}
	if addr > c.maxInterrupt {
		c.maxInterrupt = addr
	}
}

// clear empties cfg's pending slot, optionally clearing its flag bit too,
// and rescans upward from the cleared index for the new minimum pending
// vector.
func (c *CPU) clear(cfg InterruptConfig, alsoClearFlag bool) {
	addr := int(cfg.Address)
	c.pendingInterrupts[addr] = false
	if alsoClearFlag {
		if cfg.InverseFlag {
			c.data[cfg.FlagRegister] |= cfg.FlagMask
		} else {
			c.data[cfg.FlagRegister] &^= cfg.FlagMask
		}
	}

	if c.nextInterrupt != addr {
		return
	}
	c.nextInterrupt = -1
	for i := addr + 1; i <= c.maxInterrupt; i++ {
		if c.pendingInterrupts[i] {
			c.nextInterrupt = i
			break
		}
	}
}

// flagSet reports whether cfg's condition is currently pending, honoring
// InverseFlag.
func (c *CPU) flagSet(cfg InterruptConfig) bool {
	set := c.data[cfg.FlagRegister]&cfg.FlagMask != 0
	if cfg.InverseFlag {
		return !set
	}
	return set
}

// setFlag ORs cfg.FlagMask into the flag register (or, for InverseFlag
// sources, clears it) and queues the vector if the enable bit is set.
func (c *CPU) setFlag(cfg InterruptConfig) {
	if cfg.InverseFlag {
		c.data[cfg.FlagRegister] &^= cfg.FlagMask
	} else {
		c.data[cfg.FlagRegister] |= cfg.FlagMask
	}
	if c.data[cfg.EnableRegister]&cfg.EnableMask != 0 {
		c.queue(cfg)
	}
}

// updateEnable reacts to a write of the enable register: when the enable
// bit transitions high, queue the vector if the flag is already pending;
// when it transitions low, clear the pending entry without touching the
// flag.
func (c *CPU) updateEnable(cfg InterruptConfig, newEnable byte) {
	wasEnabled := c.data[cfg.EnableRegister]&cfg.EnableMask != 0
	isEnabled := newEnable&cfg.EnableMask != 0

	if !wasEnabled && isEnabled && c.flagSet(cfg) {
		c.queue(cfg)
	} else if wasEnabled && !isEnabled {
		c.pendingInterrupts[cfg.Address] = false
		if c.nextInterrupt == int(cfg.Address) {
			c.nextInterrupt = -1
			for i := int(cfg.Address) + 1; i <= c.maxInterrupt; i++ {
				if c.pendingInterrupts[i] {
					c.nextInterrupt = i
					break
				}
			}
		}
	}
}

// dispatchInterrupt services the lowest-numbered pending interrupt if
// SREG.I is set: push the return PC (2 or 3 bytes depending on
// pc22Bits), clear SREG.I, add 2 cycles, jump to the vector, then clear
// that vector's pending slot and flag.
func (dev *Device) dispatchInterrupt() {
	c := &dev.cpu
	if !c.interruptsEnabled() || c.nextInterrupt < 0 {
		return
	}
	vector := c.nextInterrupt

	pc := c.pc
	c.push(byte(pc))
	c.push(byte(pc >> 8))
	if c.pc22Bits {
		c.push(byte(pc >> 16))
	}
	c.setSREG(c.sreg() &^ flagI)
	c.cycles += 2
	c.pc = uint32(vector)

	dev.clearInterruptByAddress(uint16(vector))
}

// clearInterruptByAddress is used by dispatchInterrupt to clear whichever
// peripheral's InterruptConfig owns the vector just serviced.
func (dev *Device) clearInterruptByAddress(addr uint16) {
	for _, cfg := range dev.interruptConfigs() {
		if cfg.Address == addr {
			dev.cpu.clear(cfg, true)
			return
		}
	}
}
