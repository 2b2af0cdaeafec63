package avr

import "io"

// DefaultFreqHz is the ATmega328P's nominal clock frequency, used as the
// default for USART baud-rate and TWI SCL-rate computation unless the
// caller overrides it.
const DefaultFreqHz = 16_000_000

// Device owns the CPU and every peripheral, wires their memory-router
// hooks and interrupt descriptors together, and drives the cycle-by-cycle
// step/tick loop.
type Device struct {
	cpu CPU

	timer0 *Timer0
	usart  *USART
	ports  [3]*Port // B, C, D
	twi    *TWI
	eeprom *EEPROM
}

// Port index constants for Device.Port.
const (
	PortB = iota
	PortC
	PortD
)

// NewDevice constructs a device over the given flash image with the
// given nominal clock frequency, wiring every peripheral's memory hooks
// and interrupt descriptors. sink receives bytes transmitted by the
// USART.
func NewDevice(flash []byte, freqHz uint64, sink io.Writer) *Device {
	dev := &Device{}
	dev.cpu = *NewCPU(flash)

	dev.timer0 = newTimer0()
	dev.usart = newUSART0(freqHz, sink)
	dev.ports[PortB] = newPort("B", 0x23, 0x24, 0x25)
	dev.ports[PortC] = newPort("C", 0x26, 0x27, 0x28)
	dev.ports[PortD] = newPort("D", 0x29, 0x2a, 0x2b)
	dev.twi = newTWI(freqHz)
	dev.eeprom = newEEPROM()

	router := newRouter(dev)
	dev.cpu.attachRouter(router)

	dev.timer0.attach(router)
	dev.usart.attach(router)
	for _, p := range dev.ports {
		p.attach(router)
	}
	dev.twi.attachTo(&dev.cpu, router)
	dev.eeprom.attach(router)

	return dev
}

// interruptConfigs enumerates every peripheral's interrupt descriptors,
// used by dispatchInterrupt to find which peripheral owns a vector being
// serviced.
func (dev *Device) interruptConfigs() []InterruptConfig {
	var all []InterruptConfig
	all = append(all, dev.timer0.interruptConfigs()...)
	all = append(all, dev.usart.interruptConfigs()...)
	all = append(all, dev.twi.interruptConfigs()...)
	all = append(all, dev.eeprom.interruptConfigs()...)
	return all
}

// CPU exposes the underlying CPU for inspection (register dump, PC,
// cycle counter) by external collaborators and tests.
func (dev *Device) CPU() *CPU { return &dev.cpu }

// Timer0 exposes the Timer0 peripheral.
func (dev *Device) Timer0() *Timer0 { return dev.timer0 }

// USART exposes the USART peripheral.
func (dev *Device) USART() *USART { return dev.usart }

// Port returns one of the three GPIO ports (PortB/PortC/PortD).
func (dev *Device) Port(i int) *Port { return dev.ports[i] }

// TWI exposes the TWI (I²C master) peripheral.
func (dev *Device) TWI() *TWI { return dev.twi }

// EEPROM exposes the EEPROM peripheral.
func (dev *Device) EEPROM() *EEPROM { return dev.eeprom }

// PinState reports the effective electrical state of one pin of one
// port.
func (dev *Device) PinState(port int, bit uint8) PinState {
	return dev.ports[port].PinState(&dev.cpu, bit)
}

// Step executes one instruction, then ticks the device: draining the
// head event if due and dispatching one interrupt if eligible. bus is
// the optional I²C rendezvous for external TWI peers; nil if unused.
func (dev *Device) Step(bus *Bus) {
	dev.cpu.Step()
	dev.Tick(bus)
}

// Tick drains the head clock event if it is due, then dispatches one
// pending interrupt if SREG.I is set and a vector is pending. It is
// exposed separately from Step so a runner can advance peripheral
// state without also decoding an instruction (e.g. to let the TWI state
// machine finish an in-flight transaction against a stopped CPU).
func (dev *Device) Tick(bus *Bus) {
	dev.twi.Bus = bus
	dev.cpu.tickEvents(dev)
	dev.dispatchInterrupt()
}

// Halted reports whether the CPU has latched a fatal condition.
func (dev *Device) Halted() bool { return dev.cpu.Halted() }

// LastError returns the fatal condition that halted the CPU, or nil.
func (dev *Device) LastError() error { return dev.cpu.LastError() }

// Cycles returns the cycle count since the last reset.
func (dev *Device) Cycles() uint64 { return dev.cpu.Cycles() }

// ReadData reads a byte from the unified data address space through the
// memory router, exactly as an executing instruction would.
func (dev *Device) ReadData(addr uint16) byte { return dev.cpu.readData(addr) }

// WriteData writes a byte to the unified data address space through the
// memory router, exactly as an executing instruction would.
func (dev *Device) WriteData(addr uint16, v byte) { dev.cpu.writeData(addr, v) }
