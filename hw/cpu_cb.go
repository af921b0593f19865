package hw

// execCB executes one CB-prefixed opcode and returns the M-cycles for the
// whole two-byte instruction. The CB table is fully regular — every row
// operates uniformly across {B,C,D,E,H,L,(HL),A} — so it decodes straight
// from the opcode's bit fields rather than 256 explicit cases.
func execCB(c *CPU, opcode uint8) int {
	reg := opcode & 0x07
	row := (opcode >> 3) & 0x07
	hlOperand := reg == 6

	if opcode < 0x40 {
		v := c.getR8(reg)
		var r uint8
		switch row {
		case 0:
			r = c.cbRLC(v)
		case 1:
			r = c.cbRRC(v)
		case 2:
			r = c.cbRL(v)
		case 3:
			r = c.cbRR(v)
		case 4:
			r = c.cbSLA(v)
		case 5:
			r = c.cbSRA(v)
		case 6:
			r = c.cbSWAP(v)
		case 7:
			r = c.cbSRL(v)
		}
		c.setR8(reg, r)
		if hlOperand {
			return 4
		}
		return 2
	}

	bit := uint(row)

	if opcode < 0x80 { // BIT
		c.cbBIT(bit, c.getR8(reg))
		if hlOperand {
			return 3
		}
		return 2
	}

	if opcode < 0xC0 { // RES
		c.setR8(reg, cbRES(bit, c.getR8(reg)))
		if hlOperand {
			return 4
		}
		return 2
	}

	// SET
	c.setR8(reg, cbSET(bit, c.getR8(reg)))
	if hlOperand {
		return 4
	}
	return 2
}
