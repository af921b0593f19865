package hw

import "dmgboy/hw/hwio"

// timaPeriods maps TAC's low two bits to the number of CPU cycles between
// TIMA increments.
var timaPeriods = [4]int{1024, 16, 64, 256}

// Timer drives DIV/TIMA/TMA/TAC. DIV free-runs off the CPU clock regardless
// of TAC; TIMA only accumulates while TAC's enable bit is set, and posts the
// timer interrupt on overflow.
type Timer struct {
	DIV  hwio.Reg8 `hwio:"offset=0x04,wcb"`
	TIMA hwio.Reg8 `hwio:"offset=0x05"`
	TMA  hwio.Reg8 `hwio:"offset=0x06"`
	TAC  hwio.Reg8 `hwio:"offset=0x07"`

	divAcc  int
	timaAcc int

	mmu *MMU
}

func NewTimer(mmu *MMU) *Timer {
	t := &Timer{mmu: mmu}
	hwio.MustInitRegs(t)
	return t
}

func (t *Timer) Reset() {
	t.DIV.Value = 0
	t.TIMA.Value = 0
	t.TMA.Value = 0
	t.TAC.Value = 0
	t.divAcc = 0
	t.timaAcc = 0
}

// WriteDIV implements the "a CPU write of any value resets DIV to 0" rule.
// Reg8.write already stored val in DIV.Value before this runs; stomp it
// back to zero.
func (t *Timer) WriteDIV(old, val uint8) {
	t.DIV.Value = 0
}

// incrementDIV is the privileged path Step uses to advance DIV: it touches
// the field directly, bypassing WriteDIV's reset-on-write side effect.
func (t *Timer) incrementDIV() {
	t.DIV.Value++
}

// Step advances the timer by cpuCycles CPU M-cycles.
func (t *Timer) Step(cpuCycles int) {
	t.divAcc += cpuCycles
	for t.divAcc >= 256 {
		t.divAcc -= 256
		t.incrementDIV()
	}

	if t.TAC.Value&0x04 == 0 {
		return
	}

	period := timaPeriods[t.TAC.Value&0x03]
	t.timaAcc += cpuCycles
	for t.timaAcc >= period {
		t.timaAcc -= period
		if t.TIMA.Value == 0xFF {
			t.TIMA.Value = t.TMA.Value
			t.mmu.PostInterrupt(IFTimer)
		} else {
			t.TIMA.Value++
		}
	}
}
