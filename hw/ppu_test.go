package hw

import "testing"

func newTestPPU() (*MMU, *PPU) {
	mmu := NewMMU()
	p := NewPPU(mmu)
	mmu.AttachPPU(p)
	p.Reset()
	return mmu, p
}

func TestPPUReset(t *testing.T) {
	_, p := newTestPPU()
	if p.LCDC.Value != 0x91 {
		t.Errorf("LCDC = %#02x, want 0x91", p.LCDC.Value)
	}
	if p.mode != modeOAMScan {
		t.Errorf("mode = %d, want modeOAMScan", p.mode)
	}
}

// TestScanlineAdvancesLY matches the 114 M-cycle (456 dot) scanline
// scenario: one full line elapses and LY increments exactly once.
func TestScanlineAdvancesLY(t *testing.T) {
	_, p := newTestPPU()

	p.Step(114)
	if p.LY.Value != 1 {
		t.Errorf("LY = %d after one scanline's worth of cycles, want 1", p.LY.Value)
	}
}

// TestVBlankStartsAtLine144 matches the full-frame-minus-one scenario:
// after 143 scanlines LY reaches 144, the mode becomes VBlank and the
// VBlank interrupt is posted exactly once.
func TestVBlankStartsAtLine144(t *testing.T) {
	mmu, p := newTestPPU()

	for i := 0; i < 143; i++ {
		p.Step(114)
	}
	if mmu.IF.Value&IFVBlank != 0 {
		t.Fatal("VBlank interrupt posted before LY reached 144")
	}

	p.Step(114)
	if p.LY.Value != 144 {
		t.Fatalf("LY = %d, want 144", p.LY.Value)
	}
	if p.mode != modeVBlank {
		t.Errorf("mode = %d, want modeVBlank", p.mode)
	}
	if mmu.IF.Value&IFVBlank == 0 {
		t.Error("VBlank interrupt not posted when LY reached 144")
	}

	mmu.IF.Value = 0
	p.Step(114) // LY=145, still in VBlank: no second post for this frame
	if mmu.IF.Value&IFVBlank != 0 {
		t.Error("VBlank interrupt re-posted while still within the same VBlank period")
	}
}

func TestModeSequenceWithinAScanline(t *testing.T) {
	_, p := newTestPPU()

	p.Step(1) // dot 4: still within OAM scan
	if p.mode != modeOAMScan {
		t.Errorf("mode = %d at dot 4, want modeOAMScan", p.mode)
	}

	p.Step(19) // dot 80: OAM scan -> transfer boundary
	if p.mode != modeTransfer {
		t.Errorf("mode = %d at dot 80, want modeTransfer", p.mode)
	}

	p.Step(50) // dot 280: transfer -> hblank
	if p.mode != modeHBlank {
		t.Errorf("mode = %d at dot 280, want modeHBlank", p.mode)
	}
}

func TestLCDDisableForcesLYZero(t *testing.T) {
	_, p := newTestPPU()

	p.Step(114) // LY=1
	p.LCDC.Value = 0x00

	p.Step(1)
	if p.LY.Value != 0 {
		t.Errorf("LY = %d with LCD disabled, want 0", p.LY.Value)
	}
	if p.mode != modeHBlank {
		t.Errorf("mode = %d with LCD disabled, want modeHBlank", p.mode)
	}
}

func TestSTATPreservesUpperBitsAndSynthesizesLower(t *testing.T) {
	_, p := newTestPPU()

	p.STAT.Write8(0xFF41, 0x78) // set bits 3-6, leave bits 0-2 alone
	if p.STAT.Value&0xF8 != 0x78 {
		t.Errorf("STAT upper bits = %#02x, want 0x78", p.STAT.Value&0xF8)
	}

	p.LYC.Value = 0
	p.Step(1)
	if p.STAT.Value&0x04 == 0 {
		t.Error("STAT coincidence bit not set when LY == LYC")
	}
}

func TestLYIsNeverCPUWritable(t *testing.T) {
	_, p := newTestPPU()
	p.LY.Write8(0xFF44, 0x50)
	if p.LY.Value != 0 {
		t.Errorf("LY = %#02x after a CPU write, want 0 (unaffected)", p.LY.Value)
	}
}
