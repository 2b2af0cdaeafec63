package avr

import "fmt"

// fatalError is the error type latched by CPU.fault. An unknown opcode,
// out-of-range data/program access, and an EEPROM out-of-bounds access
// are fatal: simulator/image bugs that abort the simulation rather than
// surface through registers. LoadHex returns the same type, without
// halting any CPU, for a record that runs past the flash size.
type fatalError struct {
	kind string
	msg  string
}

func (e *fatalError) Error() string { return e.kind + ": " + e.msg }

func errUnknownOpcode(op uint16, pc uint32) error {
	return &fatalError{kind: "unknown opcode", msg: fmt.Sprintf("%#04x at pc=%#04x", op, pc)}
}

func errOutOfRange(space string, addr uint32) error {
	return &fatalError{kind: "out of range", msg: fmt.Sprintf("%s access at %#04x", space, addr)}
}

func errInternal(msg string) error {
	return &fatalError{kind: "internal", msg: msg}
}
