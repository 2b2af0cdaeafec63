package avr

// Timer0 is the 8-bit counter/timer with a shared prescaler and an
// overflow interrupt, modeled on the ATmega328P's TC0. Only normal
// mode (TOP=0xFF) is implemented; the compare and waveform units are
// not.
type Timer0 struct {
	tifrAddr  uint16
	tcntAddr  uint16
	ocraAddr  uint16
	tccraAddr uint16
	tccrbAddr uint16
	timskAddr uint16

	tov  byte
	toie byte

	ovf InterruptConfig

	tcnt          uint16
	tcntNext      uint16
	tcntUpdated   bool
	lastCycle     uint64
	divider       uint16
	updateDivider bool
}

// timer0Dividers is the CS2:0 prescaler table; index 6 and 7 select an
// external clock source (T0 pin), which this simulator does not drive —
// both are treated as stopped.
// TODO: drive CS=6/7 from an externally-toggled T0 pin once the GPIO
// model grows edge callbacks.
var timer0Dividers = [8]uint16{0, 1, 8, 64, 256, 1024, 0, 0}

// newTimer0 wires a Timer0 at the ATmega328P's TC0 register addresses.
func newTimer0() *Timer0 {
	t := &Timer0{
		tifrAddr:  0x35,
		tcntAddr:  0x46,
		ocraAddr:  0x47,
		tccraAddr: 0x44,
		tccrbAddr: 0x45,
		timskAddr: 0x6e,
		tov:       1 << 0,
		toie:      1 << 0,
	}
	t.ovf = InterruptConfig{
		Address:        0x20,
		EnableRegister: t.timskAddr,
		EnableMask:     t.toie,
		FlagRegister:   t.tifrAddr,
		FlagMask:       t.tov,
	}
	return t
}

func (t *Timer0) interruptConfigs() []InterruptConfig { return []InterruptConfig{t.ovf} }

// attach registers Timer0's memory-router hooks.
func (t *Timer0) attach(r *Router) {
	r.addReadHook(t.tcntAddr, t.readTCNT)
	r.addWriteHook(t.tcntAddr, t.writeTCNT)
	r.addWriteHook(t.tccrbAddr, t.writeTCCRB)
	r.addWriteHook(t.timskAddr, t.writeTIMSK)
}

func (t *Timer0) readTCNT(dev *Device, addr uint16) (byte, bool) {
	dev.countTimer0(false)
	data := byte(t.tcnt)
	dev.cpu.pokeData(t.tcntAddr, data)
	return data, true
}

func (t *Timer0) writeTCNT(dev *Device, addr uint16, newVal, oldVal, mask byte) bool {
	t.tcntNext = uint16(newVal)
	t.tcntUpdated = true
	dev.cpu.reschedule(eventCount, 0, dev.timerCountEvent)
	return false
}

func (t *Timer0) writeTCCRB(dev *Device, addr uint16, newVal, oldVal, mask byte) bool {
	dev.cpu.pokeData(t.tccrbAddr, newVal)
	t.updateDivider = true
	dev.cpu.cancel(eventCount)
	dev.cpu.schedule(eventCount, 0, dev.timerCountEvent)
	return true
}

func (t *Timer0) writeTIMSK(dev *Device, addr uint16, newVal, oldVal, mask byte) bool {
	dev.cpu.updateEnable(t.ovf, newVal)
	return false
}

// cs returns the current CS2:0 clock-select field of TCCR0B.
func (t *Timer0) cs(c *CPU) byte {
	return c.peekData(t.tccrbAddr) & 0x7
}

// timerCountEvent is the eventCount callback scheduled while a non-zero
// prescaler is active.
func (dev *Device) timerCountEvent(d *Device) { d.countTimer0(true) }

// countTimer0 advances TCNT0 by the number of prescaler ticks elapsed
// since lastCycle, raises TOV0 on wraparound, applies a pending TCNT
// write, and (when the clock-select bits just changed) recomputes the
// divider and reschedules the count event.
func (dev *Device) countTimer0(reschedule bool) {
	t := dev.timer0
	cycles := dev.cpu.cycles
	if t.divider != 0 {
		delta := uint32(cycles - t.lastCycle)
		if delta >= uint32(t.divider) {
			counterDelta := uint16(delta / uint32(t.divider))
			t.lastCycle += uint64(counterDelta) * uint64(t.divider)
			const top = uint16(0xFF)
			val := t.tcnt
			newVal := (val + counterDelta) % (top + 1)
			overflow := val+counterDelta > top
			t.tcnt = newVal
			if overflow {
				dev.cpu.setFlag(t.ovf)
			}
		}
	}
	if t.tcntUpdated {
		t.tcnt = t.tcntNext
		t.tcntUpdated = false
	}
	dev.cpu.pokeData(t.tcntAddr, byte(t.tcnt))

	if t.updateDivider {
		cs := t.cs(&dev.cpu)
		newDivider := timer0Dividers[cs]
		if newDivider != 0 {
			t.lastCycle = cycles
		} else {
			t.lastCycle = 0
		}
		t.updateDivider = false
		t.divider = newDivider
		if newDivider != 0 {
			dev.cpu.reschedule(eventCount, uint32(t.lastCycle+uint64(newDivider)-cycles), dev.timerCountEvent)
		}
		return
	}
	if reschedule && t.divider != 0 {
		dev.cpu.reschedule(eventCount, uint32(t.lastCycle+uint64(t.divider)-cycles), dev.timerCountEvent)
	}
}
