package hw

// execMain executes one un-prefixed opcode and returns the M-cycles it
// cost. 0x40-0x7F (register-to-register loads) and 0x80-0xBF (accumulator
// ALU ops) decode their operand/operation from the opcode's bit fields
// directly rather than through 128 explicit cases, since that's the literal
// structure the LR35902 encodes them with; every other opcode gets its own
// case.
func execMain(c *CPU, opcode uint8) int {
	if opcode >= 0x40 && opcode <= 0x7F {
		if opcode == 0x76 {
			c.halt()
			return 1
		}
		dst := (opcode >> 3) & 0x07
		src := opcode & 0x07
		c.setR8(dst, c.getR8(src))
		if dst == 6 || src == 6 {
			return 2
		}
		return 1
	}

	if opcode >= 0x80 && opcode <= 0xBF {
		src := c.getR8(opcode & 0x07)
		cycles := 1
		if opcode&0x07 == 6 {
			cycles = 2
		}
		switch (opcode >> 3) & 0x07 {
		case 0: // ADD
			c.A = c.aluAdd(c.A, src, 0)
		case 1: // ADC
			c.A = c.aluAdd(c.A, src, carryBit(c.F))
		case 2: // SUB
			c.A = c.aluSub(c.A, src, 0)
		case 3: // SBC
			c.A = c.aluSub(c.A, src, carryBit(c.F))
		case 4: // AND
			c.A = c.aluAnd(c.A, src)
		case 5: // XOR
			c.A = c.aluXor(c.A, src)
		case 6: // OR
			c.A = c.aluOr(c.A, src)
		case 7: // CP
			c.aluSub(c.A, src, 0)
		}
		return cycles
	}

	switch opcode {
	case 0x00: // NOP
		return 1
	case 0x01:
		c.SetBC(c.fetch16())
		return 3
	case 0x02:
		c.MMU.Write8(c.BC(), c.A)
		return 2
	case 0x03:
		c.SetBC(c.BC() + 1)
		return 2
	case 0x04:
		c.B = c.inc8(c.B)
		return 1
	case 0x05:
		c.B = c.dec8(c.B)
		return 1
	case 0x06:
		c.B = c.fetch8()
		return 2
	case 0x07:
		c.rlca()
		return 1
	case 0x08:
		addr := c.fetch16()
		c.MMU.Write8(addr, uint8(c.SP))
		c.MMU.Write8(addr+1, uint8(c.SP>>8))
		return 5
	case 0x09:
		c.addHL16(c.BC())
		return 2
	case 0x0A:
		c.A = c.MMU.Read8(c.BC())
		return 2
	case 0x0B:
		c.SetBC(c.BC() - 1)
		return 2
	case 0x0C:
		c.C = c.inc8(c.C)
		return 1
	case 0x0D:
		c.C = c.dec8(c.C)
		return 1
	case 0x0E:
		c.C = c.fetch8()
		return 2
	case 0x0F:
		c.rrca()
		return 1

	case 0x10: // STOP
		c.fetch8() // the padding byte every real STOP encoding carries
		return 1
	case 0x11:
		c.SetDE(c.fetch16())
		return 3
	case 0x12:
		c.MMU.Write8(c.DE(), c.A)
		return 2
	case 0x13:
		c.SetDE(c.DE() + 1)
		return 2
	case 0x14:
		c.D = c.inc8(c.D)
		return 1
	case 0x15:
		c.D = c.dec8(c.D)
		return 1
	case 0x16:
		c.D = c.fetch8()
		return 2
	case 0x17:
		c.rla()
		return 1
	case 0x18:
		c.jr(int8(c.fetch8()))
		return 3
	case 0x19:
		c.addHL16(c.DE())
		return 2
	case 0x1A:
		c.A = c.MMU.Read8(c.DE())
		return 2
	case 0x1B:
		c.SetDE(c.DE() - 1)
		return 2
	case 0x1C:
		c.E = c.inc8(c.E)
		return 1
	case 0x1D:
		c.E = c.dec8(c.E)
		return 1
	case 0x1E:
		c.E = c.fetch8()
		return 2
	case 0x1F:
		c.rra()
		return 1

	case 0x20:
		e := int8(c.fetch8())
		if !c.F.Z() {
			c.jr(e)
			return 3
		}
		return 2
	case 0x21:
		c.SetHL(c.fetch16())
		return 3
	case 0x22:
		c.MMU.Write8(c.HL(), c.A)
		c.SetHL(c.HL() + 1)
		return 2
	case 0x23:
		c.SetHL(c.HL() + 1)
		return 2
	case 0x24:
		c.H = c.inc8(c.H)
		return 1
	case 0x25:
		c.H = c.dec8(c.H)
		return 1
	case 0x26:
		c.H = c.fetch8()
		return 2
	case 0x27:
		c.daa()
		return 1
	case 0x28:
		e := int8(c.fetch8())
		if c.F.Z() {
			c.jr(e)
			return 3
		}
		return 2
	case 0x29:
		c.addHL16(c.HL())
		return 2
	case 0x2A:
		c.A = c.MMU.Read8(c.HL())
		c.SetHL(c.HL() + 1)
		return 2
	case 0x2B:
		c.SetHL(c.HL() - 1)
		return 2
	case 0x2C:
		c.L = c.inc8(c.L)
		return 1
	case 0x2D:
		c.L = c.dec8(c.L)
		return 1
	case 0x2E:
		c.L = c.fetch8()
		return 2
	case 0x2F:
		c.cpl()
		return 1

	case 0x30:
		e := int8(c.fetch8())
		if !c.F.C() {
			c.jr(e)
			return 3
		}
		return 2
	case 0x31:
		c.SP = c.fetch16()
		return 3
	case 0x32:
		c.MMU.Write8(c.HL(), c.A)
		c.SetHL(c.HL() - 1)
		return 2
	case 0x33:
		c.SP++
		return 2
	case 0x34:
		c.MMU.Write8(c.HL(), c.inc8(c.MMU.Read8(c.HL())))
		return 3
	case 0x35:
		c.MMU.Write8(c.HL(), c.dec8(c.MMU.Read8(c.HL())))
		return 3
	case 0x36:
		c.MMU.Write8(c.HL(), c.fetch8())
		return 3
	case 0x37:
		c.scf()
		return 1
	case 0x38:
		e := int8(c.fetch8())
		if c.F.C() {
			c.jr(e)
			return 3
		}
		return 2
	case 0x39:
		c.addHL16(c.SP)
		return 2
	case 0x3A:
		c.A = c.MMU.Read8(c.HL())
		c.SetHL(c.HL() - 1)
		return 2
	case 0x3B:
		c.SP--
		return 2
	case 0x3C:
		c.A = c.inc8(c.A)
		return 1
	case 0x3D:
		c.A = c.dec8(c.A)
		return 1
	case 0x3E:
		c.A = c.fetch8()
		return 2
	case 0x3F:
		c.ccf()
		return 1

	case 0xC0:
		if !c.F.Z() {
			c.PC = c.pop16()
			return 5
		}
		return 2
	case 0xC1:
		c.SetBC(c.pop16())
		return 3
	case 0xC2:
		addr := c.fetch16()
		if !c.F.Z() {
			c.PC = addr
			return 4
		}
		return 3
	case 0xC3:
		c.PC = c.fetch16()
		return 4
	case 0xC4:
		addr := c.fetch16()
		if !c.F.Z() {
			c.push16(c.PC)
			c.PC = addr
			return 6
		}
		return 3
	case 0xC5:
		c.push16(c.BC())
		return 4
	case 0xC6:
		c.A = c.aluAdd(c.A, c.fetch8(), 0)
		return 2
	case 0xC7:
		c.rst(0x00)
		return 4
	case 0xC8:
		if c.F.Z() {
			c.PC = c.pop16()
			return 5
		}
		return 2
	case 0xC9:
		c.PC = c.pop16()
		return 4
	case 0xCA:
		addr := c.fetch16()
		if c.F.Z() {
			c.PC = addr
			return 4
		}
		return 3
	case 0xCC:
		addr := c.fetch16()
		if c.F.Z() {
			c.push16(c.PC)
			c.PC = addr
			return 6
		}
		return 3
	case 0xCD:
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
		return 6
	case 0xCE:
		c.A = c.aluAdd(c.A, c.fetch8(), carryBit(c.F))
		return 2
	case 0xCF:
		c.rst(0x08)
		return 4

	case 0xD0:
		if !c.F.C() {
			c.PC = c.pop16()
			return 5
		}
		return 2
	case 0xD1:
		c.SetDE(c.pop16())
		return 3
	case 0xD2:
		addr := c.fetch16()
		if !c.F.C() {
			c.PC = addr
			return 4
		}
		return 3
	case 0xD4:
		addr := c.fetch16()
		if !c.F.C() {
			c.push16(c.PC)
			c.PC = addr
			return 6
		}
		return 3
	case 0xD5:
		c.push16(c.DE())
		return 4
	case 0xD6:
		c.A = c.aluSub(c.A, c.fetch8(), 0)
		return 2
	case 0xD7:
		c.rst(0x10)
		return 4
	case 0xD8:
		if c.F.C() {
			c.PC = c.pop16()
			return 5
		}
		return 2
	case 0xD9:
		c.PC = c.pop16()
		c.IME = true
		return 4
	case 0xDA:
		addr := c.fetch16()
		if c.F.C() {
			c.PC = addr
			return 4
		}
		return 3
	case 0xDC:
		addr := c.fetch16()
		if c.F.C() {
			c.push16(c.PC)
			c.PC = addr
			return 6
		}
		return 3
	case 0xDE:
		c.A = c.aluSub(c.A, c.fetch8(), carryBit(c.F))
		return 2
	case 0xDF:
		c.rst(0x18)
		return 4

	case 0xE0:
		c.MMU.Write8(0xFF00+uint16(c.fetch8()), c.A)
		return 3
	case 0xE1:
		c.SetHL(c.pop16())
		return 3
	case 0xE2:
		c.MMU.Write8(0xFF00+uint16(c.C), c.A)
		return 2
	case 0xE5:
		c.push16(c.HL())
		return 4
	case 0xE6:
		c.A = c.aluAnd(c.A, c.fetch8())
		return 2
	case 0xE7:
		c.rst(0x20)
		return 4
	case 0xE8:
		c.SP = c.spPlusE(int8(c.fetch8()))
		return 4
	case 0xE9:
		c.PC = c.HL()
		return 1
	case 0xEA:
		c.MMU.Write8(c.fetch16(), c.A)
		return 4
	case 0xEE:
		c.A = c.aluXor(c.A, c.fetch8())
		return 2
	case 0xEF:
		c.rst(0x28)
		return 4

	case 0xF0:
		c.A = c.MMU.Read8(0xFF00 + uint16(c.fetch8()))
		return 3
	case 0xF1:
		c.SetAF(c.pop16())
		return 3
	case 0xF2:
		c.A = c.MMU.Read8(0xFF00 + uint16(c.C))
		return 2
	case 0xF3:
		c.IME = false
		c.imeScheduled = 0
		return 1
	case 0xF5:
		c.push16(c.AF())
		return 4
	case 0xF6:
		c.A = c.aluOr(c.A, c.fetch8())
		return 2
	case 0xF7:
		c.rst(0x30)
		return 4
	case 0xF8:
		c.SetHL(c.spPlusE(int8(c.fetch8())))
		return 3
	case 0xF9:
		c.SP = c.HL()
		return 2
	case 0xFA:
		c.A = c.MMU.Read8(c.fetch16())
		return 4
	case 0xFB:
		c.scheduleEI()
		return 1
	case 0xFE:
		c.aluSub(c.A, c.fetch8(), 0)
		return 2
	case 0xFF:
		c.rst(0x38)
		return 4
	}

	return c.unknownOpcode(opcode, false)
}

func (c *CPU) jr(e int8) {
	c.PC = uint16(int32(c.PC) + int32(e))
}

func (c *CPU) rst(vector uint16) {
	c.push16(c.PC)
	c.PC = vector
}

func carryBit(f Flags) uint8 {
	if f.C() {
		return 1
	}
	return 0
}
