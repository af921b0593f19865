package hw

import "dmgboy/emu/log"

// CPU is an LR35902 interpreter: fetch-decode-execute one instruction per
// Step call, reporting back the number of CPU M-cycles it took so the
// caller can feed the same count to Timer/PPU/APU.
type CPU struct {
	MMU *MMU

	A, B, C, D, E, H, L uint8
	F                   Flags
	SP, PC              uint16

	IME          bool
	imeScheduled int // counts down to 0, see EI's opcode handler
	halted       bool
	haltBugArmed bool
}

func NewCPU(mmu *MMU) *CPU {
	return &CPU{MMU: mmu}
}

// Reset zeroes every register and sets SP/PC to their post-power-on values.
func (c *CPU) Reset() {
	c.A, c.F = 0, 0
	c.B, c.C = 0, 0
	c.D, c.E = 0, 0
	c.H, c.L = 0, 0
	c.SP = 0xFFFE
	c.PC = 0x0100

	c.IME = false
	c.imeScheduled = 0
	c.halted = false
	c.haltBugArmed = false
}

func (c *CPU) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F) }
func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

func (c *CPU) SetAF(v uint16) { c.A, c.F = uint8(v>>8), Flags(v)&0xF0 }
func (c *CPU) SetBC(v uint16) { c.B, c.C = uint8(v>>8), uint8(v) }
func (c *CPU) SetDE(v uint16) { c.D, c.E = uint8(v>>8), uint8(v) }
func (c *CPU) SetHL(v uint16) { c.H, c.L = uint8(v>>8), uint8(v) }

// getR8/setR8 index the {B,C,D,E,H,L,(HL),A} register group every main and
// CB opcode row shares.
func (c *CPU) getR8(idx uint8) uint8 {
	switch idx & 0x07 {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.MMU.Read8(c.HL())
	default:
		return c.A
	}
}

func (c *CPU) setR8(idx uint8, v uint8) {
	switch idx & 0x07 {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.MMU.Write8(c.HL(), v)
	default:
		c.A = v
	}
}

func (c *CPU) getR16(idx uint8) uint16 {
	switch idx & 0x03 {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *CPU) setR16(idx uint8, v uint16) {
	switch idx & 0x03 {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

func (c *CPU) fetch8() uint8 {
	v := c.MMU.Read8(c.PC)
	if c.haltBugArmed {
		c.haltBugArmed = false
	} else {
		c.PC++
	}
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push8(v uint8) {
	c.SP--
	c.MMU.Write8(c.SP, v)
}

func (c *CPU) pop8() uint8 {
	v := c.MMU.Read8(c.SP)
	c.SP++
	return v
}

// push16 stores the high byte first, so the low byte ends up at the lower
// address — the order pop16 reverses.
func (c *CPU) push16(v uint16) {
	c.push8(uint8(v >> 8))
	c.push8(uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.pop8()
	hi := c.pop8()
	return uint16(hi)<<8 | uint16(lo)
}

// Step executes exactly one instruction (or, while halted with no pending
// interrupt, one idle cycle; or, with IME set and an interrupt pending, the
// interrupt dispatch in place of an instruction) and returns the number of
// CPU M-cycles spent.
func (c *CPU) Step() int {
	pending := c.MMU.PendingInterrupts()

	if c.halted {
		if pending != 0 {
			c.halted = false
		} else {
			return 1
		}
	}

	if c.IME && pending != 0 {
		return c.dispatchInterrupt(pending)
	}

	opcode := c.fetch8()
	var cycles int
	if opcode == 0xCB {
		cb := c.fetch8()
		cycles = execCB(c, cb)
	} else {
		cycles = execMain(c, opcode)
	}

	if c.imeScheduled > 0 {
		c.imeScheduled--
		if c.imeScheduled == 0 {
			c.IME = true
		}
	}

	return cycles
}

// dispatchInterrupt services the lowest-numbered pending bit (VBlank > LCD
// STAT > Timer > Serial > Joypad priority) and costs 5 M-cycles.
func (c *CPU) dispatchInterrupt(pending uint8) int {
	for bit := uint8(0); bit < 5; bit++ {
		mask := uint8(1) << bit
		if pending&mask == 0 {
			continue
		}
		c.IME = false
		c.MMU.ClearInterrupt(mask)
		c.push16(c.PC)
		c.PC = interruptVectors[bit]
		return 5
	}
	return 0
}

// halt suspends the CPU, or — if IME is clear while an interrupt is already
// pending — arms the HALT bug instead: the next fetch doesn't advance PC,
// so the byte after HALT executes twice.
func (c *CPU) halt() {
	if !c.IME && c.MMU.PendingInterrupts() != 0 {
		c.haltBugArmed = true
	} else {
		c.halted = true
	}
}

func (c *CPU) scheduleEI() {
	c.imeScheduled = 2
}

func (c *CPU) unknownOpcode(opcode uint8, cb bool) int {
	log.ModCPU.WarnZ("unimplemented opcode").
		Hex8("opcode", opcode).
		Bool("cb", cb).
		Hex16("pc", c.PC).
		End()
	return 1
}
