package hw

import "dmgboy/hw/hwio"

// Button is a bit index into Joypad's pressedMask.
type Button uint8

const (
	ButtonRight Button = iota
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
)

// Joypad models the P1/JOYP register: callers report button state through
// SetButton, and the register's low nibble is synthesized on every read from
// whichever of the two groups (direction/action) the last write selected.
type Joypad struct {
	P1 hwio.Reg8 `hwio:"offset=0x00,rcb,wcb"`

	pressedMask uint8

	mmu *MMU
}

func NewJoypad(mmu *MMU) *Joypad {
	j := &Joypad{mmu: mmu}
	hwio.MustInitRegs(j)
	return j
}

func (j *Joypad) Reset() {
	j.pressedMask = 0
	j.P1.Value = 0x30
}

// SetButton updates pressed state and, on a press that newly pulls a
// selected line low, posts the joypad interrupt.
func (j *Joypad) SetButton(b Button, pressed bool) {
	before := j.overlay(j.P1.Value) & 0x0F
	if pressed {
		j.pressedMask |= 1 << uint8(b)
	} else {
		j.pressedMask &^= 1 << uint8(b)
	}
	after := j.overlay(j.P1.Value) & 0x0F
	if before&^after != 0 {
		j.mmu.PostInterrupt(IFJoypad)
	}
}

// WriteP1 has no side effect beyond the plain register store Reg8.write
// already performed: only bits 4-5 (group select) are meaningful, and the
// low nibble is always recomputed on read.
func (j *Joypad) WriteP1(old, val uint8) {}

func (j *Joypad) ReadP1(val uint8, peek bool) uint8 {
	return j.overlay(val)
}

func (j *Joypad) overlay(raw uint8) uint8 {
	low := uint8(0x0F)
	if raw&0x20 == 0 { // direction group selected
		low &^= j.pressedMask & 0x0F
	}
	if raw&0x10 == 0 { // action group selected
		low &^= (j.pressedMask >> 4) & 0x0F
	}
	return 0xC0 | (raw & 0x30) | low
}
