package avr

// EEPROM control-register bit masks.
const (
	eecrEERE  byte = 1 << 0
	eecrEEPE  byte = 1 << 1
	eecrEEMPE byte = 1 << 2
	eecrEERIE byte = 1 << 3
	eecrEEPM0 byte = 1 << 4
	eecrEEPM1 byte = 1 << 5

	eecrWriteMask = eecrEEPE | eecrEEMPE | eecrEERIE | eecrEEPM0 | eecrEEPM1

	eepromSize = 1024 // ATmega328P EEPROM size
)

// EEPROM models the ATmega328P's byte-addressable non-volatile memory
// controller: a master-write-enable/write-enable sequencing pair gates
// every write behind a 4-cycle window, an accepted write stalls the CPU
// by 2 cycles, and a finished write raises a ready interrupt.
type EEPROM struct {
	eecrAddr  uint16
	eedrAddr  uint16
	eearlAddr uint16
	eearhAddr uint16

	eraseCycles uint32
	writeCycles uint32

	eer InterruptConfig

	writeEnabledCycles  uint64
	writeCompleteCycles uint64

	Memory []byte
}

func newEEPROM() *EEPROM {
	e := &EEPROM{
		eecrAddr:    0x3f,
		eedrAddr:    0x40,
		eearlAddr:   0x41,
		eearhAddr:   0x42,
		eraseCycles: 28800, // 1.8ms @ 16MHz
		writeCycles: 28800,
		Memory:      make([]byte, eepromSize),
	}
	for i := range e.Memory {
		e.Memory[i] = 0xff
	}
	e.eer = InterruptConfig{
		Address:        0x2c,
		FlagRegister:   e.eecrAddr,
		FlagMask:       eecrEEPE,
		EnableRegister: e.eecrAddr,
		EnableMask:     eecrEERIE,
		InverseFlag:    true, // ready interrupt pends while EEPE is low
	}
	return e
}

func (e *EEPROM) interruptConfigs() []InterruptConfig { return []InterruptConfig{e.eer} }

func (e *EEPROM) attach(r *Router) {
	r.addWriteHook(e.eecrAddr, e.writeEECR)
}

func (e *EEPROM) addr(c *CPU) uint16 {
	return uint16(c.peekData(e.eearhAddr))<<8 | uint16(c.peekData(e.eearlAddr))
}

// writeEECR implements the full EECR protocol: it updates only the
// write-maskable control bits, serves EERE reads, manages the EEMPE
// 4-cycle window, and performs the erase/write when EEPE is accepted.
func (e *EEPROM) writeEECR(dev *Device, addr uint16, newVal, oldVal, mask byte) bool {
	c := &dev.cpu

	c.updateEnable(e.eer, newVal)
	c.pokeData(e.eecrAddr, (oldVal &^ eecrWriteMask) | (newVal & eecrWriteMask))

	if newVal&eecrEERE != 0 && c.cycles >= e.writeCompleteCycles {
		target := e.addr(c)
		if int(target) >= len(e.Memory) {
			c.fault(errOutOfRange("eeprom", uint32(target)))
			return true
		}
		c.pokeData(e.eedrAddr, e.Memory[target])
		// The CPU halts for four cycles while the byte is fetched.
		c.cycles += 4
	}

	if newVal&eecrEEMPE != 0 {
		const eempeCycles = 4
		e.writeEnabledCycles = c.cycles + eempeCycles
		c.schedule(eventEepromFinish, eempeCycles, e.finishEEMPEWindow)
	}

	if newVal&eecrEEPE != 0 {
		if c.cycles >= e.writeEnabledCycles {
			// EEMPE window already closed: writing EEPE has no effect.
			c.pokeData(e.eecrAddr, c.peekData(e.eecrAddr)&^eecrEEPE)
			return true
		}
		if c.cycles < e.writeCompleteCycles {
			// A previous write is still in progress; ignored.
			return true
		}

		eedr := c.peekData(e.eedrAddr)
		target := e.addr(c)
		if int(target) >= len(e.Memory) {
			c.fault(errOutOfRange("eeprom", uint32(target)))
			return true
		}
		e.writeCompleteCycles = c.cycles

		if newVal&eecrEEPM1 == 0 {
			e.eraseByte(target)
			e.writeCompleteCycles += uint64(e.eraseCycles)
		}
		if newVal&eecrEEPM0 == 0 {
			e.writeByte(target, eedr)
			e.writeCompleteCycles += uint64(e.writeCycles)
		}

		c.pokeData(e.eecrAddr, c.peekData(e.eecrAddr)|eecrEEPE)
		c.schedule(eventEepromWriteComplete, uint32(e.writeCompleteCycles-c.cycles), e.finishWrite)

		// The CPU halts for two cycles once EEPE is accepted.
		c.cycles += 2
	}

	return true
}

func (e *EEPROM) finishEEMPEWindow(dev *Device) {
	dev.cpu.pokeData(e.eecrAddr, dev.cpu.peekData(e.eecrAddr)&^eecrEEMPE)
}

func (e *EEPROM) finishWrite(dev *Device) {
	dev.cpu.setFlag(e.eer)
}

// writeByte ANDs value into the target byte: programming can only clear
// bits, never set them; only an erase restores a byte to 0xff. Bounds
// are checked by the caller before either of erase/write runs.
func (e *EEPROM) writeByte(addr uint16, value byte) {
	e.Memory[addr] &= value
}

func (e *EEPROM) eraseByte(addr uint16) {
	e.Memory[addr] = 0xff
}
