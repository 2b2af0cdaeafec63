package avr

// TWI register bit masks and status codes.
const (
	twcrTWINT byte = 0x80
	twcrTWEA  byte = 0x40
	twcrTWSTA byte = 0x20
	twcrTWSTO byte = 0x10
	twcrTWIE  byte = 0x01
	twcrTWEN  byte = 0x04

	twsrStatusMask byte = 0xf8
	twsrPrescMask  byte = 0x03

	twiStatusIdle            byte = 0xf8
	twiStatusStart           byte = 0x08
	twiStatusRepeatedStart   byte = 0x10
	twiStatusSlawAck         byte = 0x18
	twiStatusSlawNack        byte = 0x20
	twiStatusDataSentAck     byte = 0x28
	twiStatusDataSentNack    byte = 0x30
	twiStatusSlarAck         byte = 0x40
	twiStatusSlarNack        byte = 0x48
	twiStatusDataReceivedAck byte = 0x50
	twiStatusDataReceivedNk  byte = 0x58
)

// BusStatus describes what the master most recently asked the external
// I2C bus to do.
type BusStatus int

const (
	BusIdle BusStatus = iota
	BusStart
	BusStop
	BusAddress
	BusDataRequest
	BusDataAvailable
)

// Bus is the external rendezvous object a test harness or attached
// peripheral model uses to answer the TWI master's requests: it reads
// Address/Read/Data and sets Acked, mirroring the two-phase
// request/ack protocol the state machine below drives.
type Bus struct {
	Status  BusStatus
	Address byte
	Data    byte
	Read    bool

	Acked bool
}

// NewBus constructs an idle bus with no device yet selected.
func NewBus() *Bus {
	return &Bus{Address: 0xff, Data: 0xff, Read: true}
}

// TWI models the ATmega328P's two-wire master state machine: START/STOP
// generation, SLA+R/W addressing, and byte transfer, each step paced by
// a two-phase request/wait-for-ack schedule against an external Bus.
type TWI struct {
	twbrAddr uint16
	twsrAddr uint16
	twcrAddr uint16
	twdrAddr uint16

	freqHz uint64

	twi InterruptConfig

	busy    bool
	waitAck bool

	// Bus is the attached external device rendezvous. Nil means no
	// external device ever acknowledges (every transfer NACKs).
	Bus *Bus
}

func newTWI(freqHz uint64) *TWI {
	t := &TWI{
		twbrAddr: 0xb8,
		twsrAddr: 0xb9,
		twcrAddr: 0xbc,
		twdrAddr: 0xbb,
		freqHz:   freqHz,
	}
	t.twi = InterruptConfig{
		Address:        0x30,
		FlagRegister:   t.twcrAddr,
		FlagMask:       twcrTWINT,
		EnableRegister: t.twcrAddr,
		EnableMask:     twcrTWIE,
	}
	return t
}

func (t *TWI) interruptConfigs() []InterruptConfig { return []InterruptConfig{t.twi} }

// attachTo wires the TWCR hook and sets the initial idle status. Named
// differently from the other peripherals' attach because it also needs
// to seed TWSR, which requires the CPU to exist first.
func (t *TWI) attachTo(c *CPU, r *Router) {
	r.addWriteHook(t.twcrAddr, t.writeTWCR)
	t.updateStatus(c, twiStatusIdle)
}

func (t *TWI) writeTWCR(dev *Device, addr uint16, newVal, oldVal, mask byte) bool {
	dev.cpu.updateEnable(t.twi, newVal)
	dev.cpu.pokeData(t.twcrAddr, newVal)
	if newVal&twcrTWINT != 0 {
		dev.cpu.clear(t.twi, false)
	}

	clearInt := newVal&twcrTWINT != 0
	if clearInt && newVal&twcrTWEN != 0 && !t.busy {
		dev.cpu.schedule(eventI2C, 0, dev.twiOp)
	}
	return true
}

func (t *TWI) status(c *CPU) byte {
	return c.peekData(t.twsrAddr) & twsrStatusMask
}

func (t *TWI) updateStatus(c *CPU, status byte) {
	cur := c.peekData(t.twsrAddr)
	c.pokeData(t.twsrAddr, (cur &^ twsrStatusMask) | status)
	c.setFlag(t.twi)
}

func (t *TWI) prescaler(c *CPU) uint64 {
	switch c.peekData(t.twsrAddr) & twsrPrescMask {
	case 0:
		return 1
	case 1:
		return 4
	case 2:
		return 16
	case 3:
		return 64
	}
	return 1
}

// SCLFrequency returns the effective SCL clock rate for the current
// TWBR/prescaler configuration.
func (t *TWI) SCLFrequency(c *CPU) uint64 {
	twbr := uint64(c.peekData(t.twbrAddr))
	return t.freqHz / (16 + 2*twbr*t.prescaler(c))
}

func (t *TWI) completeStart(c *CPU) {
	t.busy = false
	status := twiStatusStart
	if t.status(c) != twiStatusIdle {
		status = twiStatusRepeatedStart
	}
	t.updateStatus(c, status)
}

func (t *TWI) completeStop(c *CPU) {
	t.busy = false
	c.pokeData(t.twcrAddr, c.peekData(t.twcrAddr)&^twcrTWSTO)
	t.updateStatus(c, twiStatusIdle)
}

func (t *TWI) completeConnect(acked bool, c *CPU) {
	t.busy = false
	reading := c.peekData(t.twdrAddr)&0x1 != 0
	switch {
	case reading && acked:
		t.updateStatus(c, twiStatusSlarAck)
	case reading:
		t.updateStatus(c, twiStatusSlarNack)
	case acked:
		t.updateStatus(c, twiStatusSlawAck)
	default:
		t.updateStatus(c, twiStatusSlawNack)
	}
}

func (t *TWI) completeWrite(acked bool, c *CPU) {
	t.busy = false
	if acked {
		t.updateStatus(c, twiStatusDataSentAck)
	} else {
		t.updateStatus(c, twiStatusDataSentNack)
	}
}

func (t *TWI) completeRead(ack bool, c *CPU) {
	t.busy = false
	if ack {
		t.updateStatus(c, twiStatusDataReceivedAck)
	} else {
		t.updateStatus(c, twiStatusDataReceivedNk)
	}
}

// twiOp is the eventI2C callback: one step of the master state machine,
// re-scheduled at zero delay between request and ack-check phases so the
// transfer still spans two distinct ticks.
func (dev *Device) twiOp(d *Device) {
	t := d.twi
	c := &d.cpu
	twcr := c.peekData(t.twcrAddr)
	twdr := c.peekData(t.twdrAddr)
	status := t.status(c)
	bus := t.Bus

	switch {
	case twcr&twcrTWSTA != 0:
		t.busy = true
		if bus != nil {
			bus.Status = BusStart
		}
		t.completeStart(c)

	case twcr&twcrTWSTO != 0:
		t.busy = true
		if bus != nil {
			bus.Status = BusStop
		}
		t.completeStop(c)

	case status == twiStatusStart || status == twiStatusRepeatedStart:
		t.busy = true
		if bus == nil {
			t.waitAck = false
			t.completeConnect(false, c)
			break
		}
		if !t.waitAck {
			bus.Status = BusAddress
			bus.Address = twdr >> 1
			bus.Read = twdr&0x1 != 0
			t.waitAck = true
			c.schedule(eventI2C, 0, dev.twiOp)
		} else {
			t.waitAck = false
			acked := bus.Acked
			t.completeConnect(acked, c)
			bus.Acked = false
		}

	case status == twiStatusSlawAck || status == twiStatusDataSentAck:
		t.busy = true
		if bus == nil {
			t.waitAck = false
			t.completeWrite(false, c)
			break
		}
		if !t.waitAck {
			bus.Status = BusDataAvailable
			bus.Data = twdr
			t.waitAck = true
			c.schedule(eventI2C, 0, dev.twiOp)
		} else {
			t.waitAck = false
			acked := bus.Acked
			t.completeWrite(acked, c)
			bus.Acked = false
		}

	case status == twiStatusSlarAck || status == twiStatusDataReceivedAck:
		t.busy = true
		if bus == nil {
			t.completeRead(false, c)
			break
		}
		c.pokeData(t.twdrAddr, bus.Data)
		ack := twcr&twcrTWEA != 0
		bus.Status = BusDataRequest
		bus.Acked = ack
		t.completeRead(ack, c)
	}
}
