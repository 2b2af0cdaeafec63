package avr

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// LoadHex parses an Intel HEX program image (ASCII, line-oriented: each
// record begins with ':', 2 hex digits of byte count, 4 of address, 2 of
// record type, 2·count of data, 2 of checksum) and returns a zero-padded
// flash image of flashSize bytes. Only record type 00 (data) is consumed;
// type 01 (EOF) terminates the scan; checksums are not validated.
func LoadHex(source string) ([]byte, error) {
	prog := make([]byte, flashSize)

	for lineNo, line := range strings.Split(source, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if line[0] != ':' {
			continue
		}
		rec, err := parseHexRecord(line)
		if err != nil {
			return nil, fmt.Errorf("hex line %d: %w", lineNo+1, err)
		}
		switch rec.recType {
		case 0x01:
			return prog, nil
		case 0x00:
			if int(rec.addr)+len(rec.data) > len(prog) {
				return nil, errInternal(fmt.Sprintf("hex line %d: record exceeds flash size", lineNo+1))
			}
			copy(prog[rec.addr:], rec.data)
		}
	}
	return prog, nil
}

type hexRecord struct {
	addr    uint16
	recType byte
	data    []byte
}

func parseHexRecord(line string) (hexRecord, error) {
	if len(line) < 11 {
		return hexRecord{}, fmt.Errorf("record too short")
	}
	body, err := hex.DecodeString(line[1:])
	if err != nil {
		return hexRecord{}, fmt.Errorf("malformed hex: %w", err)
	}
	if len(body) < 5 {
		return hexRecord{}, fmt.Errorf("record too short")
	}
	count := int(body[0])
	addr := uint16(body[1])<<8 | uint16(body[2])
	recType := body[3]
	if len(body) < 4+count+1 {
		return hexRecord{}, fmt.Errorf("byte count %d exceeds record length", count)
	}
	return hexRecord{addr: addr, recType: recType, data: body[4 : 4+count]}, nil
}
