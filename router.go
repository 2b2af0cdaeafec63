package avr

// readHookFunc returns the effective byte at addr, or ok=false to fall
// through to the backing store.
type readHookFunc func(dev *Device, addr uint16) (value byte, ok bool)

// writeHookFunc receives the new value, the value currently in the
// backing store, and the write mask. Returning true means the hook
// handled the write fully and the router must not store; false means the
// router stores newVal into the backing store after the hook runs.
type writeHookFunc func(dev *Device, addr uint16, newVal, oldVal, mask byte) (handled bool)

// Router dispatches data-space accesses: addresses below 32 are direct
// register accesses that bypass hooks entirely; addresses 32 and above
// consult a read- or write-hook table keyed by address. Hooks are
// re-entrant — a hook may itself perform other memory accesses —
// guaranteed safe by detaching the hook from the table before invoking
// it and reattaching afterward.
type Router struct {
	dev        *Device
	readHooks  map[uint16]readHookFunc
	writeHooks map[uint16]writeHookFunc
}

func newRouter(dev *Device) *Router {
	return &Router{
		dev:        dev,
		readHooks:  make(map[uint16]readHookFunc),
		writeHooks: make(map[uint16]writeHookFunc),
	}
}

// addReadHook registers a read hook for addr. Only one hook may be
// registered per address.
func (r *Router) addReadHook(addr uint16, fn readHookFunc) {
	r.readHooks[addr] = fn
}

// addWriteHook registers a write hook for addr.
func (r *Router) addWriteHook(addr uint16, fn writeHookFunc) {
	r.writeHooks[addr] = fn
}

// read consults the read-hook table for addr. ok=false means no hook is
// registered, or the hook declined to produce a value.
func (r *Router) read(addr uint16) (byte, bool) {
	hook, ok := r.readHooks[addr]
	if !ok {
		return 0, false
	}
	delete(r.readHooks, addr)
	v, handled := hook(r.dev, addr)
	r.readHooks[addr] = hook
	return v, handled
}

// write consults the write-hook table for addr. Returns true if the hook
// handled the write (the router must not touch the backing store).
func (r *Router) write(addr uint16, newVal, oldVal, mask byte) bool {
	hook, ok := r.writeHooks[addr]
	if !ok {
		return false
	}
	delete(r.writeHooks, addr)
	handled := hook(r.dev, addr, newVal, oldVal, mask)
	r.writeHooks[addr] = hook
	return handled
}

// peekData reads data memory directly, bypassing hooks. Peripherals use
// this to inspect their own control registers without re-entering the
// hook they might be running inside of.
func (c *CPU) peekData(addr uint16) byte { return c.data[addr] }

// pokeData writes data memory directly, bypassing hooks. Peripheral
// hooks (e.g. the Timer0 TCNT read hook) use it to mirror internal state
// into the visible register without re-triggering the write-hook table.
func (c *CPU) pokeData(addr uint16, v byte) { c.data[addr] = v }

// router is set by Device at construction time; CPU itself holds no
// back-reference to the device, only to the router. Hooks receive the
// device as an explicit argument instead of capturing it.
func (c *CPU) attachRouter(r *Router) { c.router = r }

// readData is the unified data-space read used by every instruction that
// touches memory: direct for GPRs, hook-routed for I/O and SRAM.
func (c *CPU) readData(addr uint16) byte {
	if addr < numRegisters {
		return c.data[addr]
	}
	if int(addr) >= len(c.data) {
		c.fault(errOutOfRange("data", uint32(addr)))
		return 0
	}
	if c.router != nil {
		if v, ok := c.router.read(addr); ok {
			return v
		}
	}
	return c.data[addr]
}

// writeData stores a byte through the router with a full mask.
func (c *CPU) writeData(addr uint16, v byte) {
	c.writeDataMasked(addr, v, 0xff)
}

// writeDataMasked stores a byte through the router; mask is forwarded to
// the write hook unchanged, so a hook can tell an SBI/CBI single-bit
// store apart from a full-byte OUT/ST.
func (c *CPU) writeDataMasked(addr uint16, v, mask byte) {
	if addr < numRegisters {
		c.data[addr] = v
		return
	}
	if int(addr) >= len(c.data) {
		c.fault(errOutOfRange("data", uint32(addr)))
		return
	}
	old := c.data[addr]
	if c.router != nil && c.router.write(addr, v, old, mask) {
		return
	}
	c.data[addr] = v
}
