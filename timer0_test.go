package avr

import (
	"io"
	"testing"
)

// These tests set cpu.cycles directly to emulate elapsed instruction
// cycles between explicit Tick calls.

const timerCS00 = 1 << 0
const timerCS01 = 1 << 1

func TestTimerIncWhenTickWithPrescaler1(t *testing.T) {
	dev := NewDevice(nil, DefaultFreqHz, io.Discard)

	dev.WriteData(dev.timer0.tccrbAddr, timerCS00) // prescaler 1
	dev.cpu.cycles = 1
	dev.Tick(nil) // first tick updates the divider
	dev.cpu.cycles = 1 + 1
	dev.Tick(nil) // increments the count

	if got := dev.ReadData(dev.timer0.tcntAddr); got != 1 {
		t.Fatalf("TCNT = %d, want 1", got)
	}
}

func TestTimerIncEvery64Ticks(t *testing.T) {
	dev := NewDevice(nil, DefaultFreqHz, io.Discard)

	dev.WriteData(dev.timer0.tccrbAddr, timerCS01|timerCS00) // prescaler 64
	dev.cpu.cycles = 1
	dev.Tick(nil)
	dev.cpu.cycles = 1 + 64
	dev.Tick(nil)

	if got := dev.ReadData(dev.timer0.tcntAddr); got != 1 {
		t.Fatalf("TCNT = %d, want 1", got)
	}
	if dev.cpu.peekData(dev.timer0.tifrAddr)&dev.timer0.tov != 0 {
		t.Fatalf("TOV set, want no overflow from a single count step")
	}
}

func TestTimerNoIncIfPrescaler0(t *testing.T) {
	dev := NewDevice(nil, DefaultFreqHz, io.Discard)

	dev.WriteData(dev.timer0.tccrbAddr, 0)
	dev.cpu.cycles = 1
	dev.Tick(nil)
	dev.cpu.cycles = 1000
	dev.Tick(nil)

	if got := dev.ReadData(dev.timer0.tcntAddr); got != 0 {
		t.Fatalf("TCNT = %d, want 0", got)
	}
}

func TestTimerSetTOVIfOverflow(t *testing.T) {
	dev := NewDevice(nil, DefaultFreqHz, io.Discard)
	const top = 0xff

	dev.WriteData(dev.timer0.tcntAddr, top)
	dev.WriteData(dev.timer0.tccrbAddr, timerCS00)
	dev.cpu.cycles = 1
	dev.Tick(nil)

	if got := dev.ReadData(dev.timer0.tcntAddr); got != top {
		t.Fatalf("TCNT = %d, want %d", got, top)
	}
	if dev.cpu.peekData(dev.timer0.tifrAddr)&dev.timer0.tov != 0 {
		t.Fatalf("TOV set before overflow")
	}

	dev.cpu.cycles++
	dev.Tick(nil)

	if got := dev.ReadData(dev.timer0.tcntAddr); got != 0 {
		t.Fatalf("TCNT = %d, want 0 after wrap", got)
	}
	if dev.cpu.peekData(dev.timer0.tifrAddr)&dev.timer0.tov != dev.timer0.tov {
		t.Fatalf("TOV not set after overflow")
	}
}

func TestTimerSetTOVEvenIfSkipTop(t *testing.T) {
	dev := NewDevice(nil, DefaultFreqHz, io.Discard)
	const nearTop = 0xfe

	dev.WriteData(dev.timer0.tcntAddr, nearTop)
	dev.WriteData(dev.timer0.tccrbAddr, timerCS00)
	dev.cpu.cycles = 1
	dev.Tick(nil)

	if got := dev.ReadData(dev.timer0.tcntAddr); got != nearTop {
		t.Fatalf("TCNT = %d, want %d", got, nearTop)
	}

	dev.cpu.cycles += 4
	dev.Tick(nil)

	if got := dev.ReadData(dev.timer0.tcntAddr); got != 2 {
		t.Fatalf("TCNT = %d, want 2", got)
	}
	if dev.cpu.peekData(dev.timer0.tifrAddr)&dev.timer0.tov != dev.timer0.tov {
		t.Fatalf("TOV not set after skip-top overflow")
	}
}

func TestTimerOverflowInterrupt(t *testing.T) {
	dev := NewDevice(nil, DefaultFreqHz, io.Discard)
	const top = 0xff

	dev.WriteData(dev.timer0.tcntAddr, top)
	dev.WriteData(dev.timer0.tccrbAddr, timerCS00)
	dev.cpu.cycles = 1
	dev.Tick(nil)
	dev.WriteData(dev.timer0.timskAddr, dev.timer0.toie)
	dev.cpu.setSREG(1 << 7)
	dev.cpu.cycles = 2
	dev.Tick(nil)

	if got := dev.ReadData(dev.timer0.tcntAddr); got != 2 {
		t.Fatalf("TCNT = %d, want 2", got)
	}
	if dev.cpu.peekData(dev.timer0.tifrAddr)&dev.timer0.tov != 0 {
		t.Fatalf("TOV flag not cleared by interrupt dispatch")
	}
	if dev.cpu.pc != uint32(dev.timer0.ovf.Address) {
		t.Fatalf("pc = %#x, want vector %#x", dev.cpu.pc, dev.timer0.ovf.Address)
	}
	if dev.Cycles() != 4 {
		t.Fatalf("cycles = %d, want 4", dev.Cycles())
	}
}

func TestTimerNoOverflowInterruptIfGlobalDisabled(t *testing.T) {
	dev := NewDevice(nil, DefaultFreqHz, io.Discard)
	const top = 0xff

	dev.WriteData(dev.timer0.tcntAddr, top)
	dev.WriteData(dev.timer0.tccrbAddr, timerCS00)
	dev.cpu.cycles = 1
	dev.Tick(nil)
	dev.WriteData(dev.timer0.timskAddr, dev.timer0.toie)
	dev.cpu.setSREG(0)
	dev.cpu.cycles = 2
	dev.Tick(nil)

	if got := dev.ReadData(dev.timer0.tcntAddr); got != 0 {
		t.Fatalf("TCNT = %d, want 0", got)
	}
	if dev.cpu.peekData(dev.timer0.tifrAddr)&dev.timer0.tov != dev.timer0.tov {
		t.Fatalf("TOV flag should remain set")
	}
	if dev.cpu.pc != 0 {
		t.Fatalf("pc = %#x, want 0 (no dispatch)", dev.cpu.pc)
	}
	if dev.Cycles() != 2 {
		t.Fatalf("cycles = %d, want 2 (no dispatch)", dev.Cycles())
	}
}

func TestTimerNoOverflowInterruptIfTOIEClear(t *testing.T) {
	dev := NewDevice(nil, DefaultFreqHz, io.Discard)
	const top = 0xff

	dev.WriteData(dev.timer0.tcntAddr, top)
	dev.WriteData(dev.timer0.tccrbAddr, timerCS00)
	dev.cpu.cycles = 1
	dev.Tick(nil)
	dev.WriteData(dev.timer0.timskAddr, 0)
	dev.cpu.setSREG(1 << 7)
	dev.cpu.cycles = 2
	dev.Tick(nil)

	if got := dev.ReadData(dev.timer0.tcntAddr); got != 0 {
		t.Fatalf("TCNT = %d, want 0", got)
	}
	if dev.cpu.pc != 0 {
		t.Fatalf("pc = %#x, want 0 (no dispatch)", dev.cpu.pc)
	}
	if dev.Cycles() != 2 {
		t.Fatalf("cycles = %d, want 2 (no dispatch)", dev.Cycles())
	}
}
