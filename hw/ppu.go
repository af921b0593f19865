package hw

import "dmgboy/hw/hwio"

// PPU mode numbers, as synthesized into STAT bits 0-1.
const (
	modeHBlank   = 0
	modeVBlank   = 1
	modeOAMScan  = 2
	modeTransfer = 3

	dotsPerLine   = 456
	oamScanDots   = 80
	transferDots  = 252 // transfer end; mode 3 runs dots [80,252)
	linesPerFrame = 154
	vblankStartLY = 144
)

// PPU is a dot-accurate state machine: it tracks LY/STAT/mode off a running
// dot counter fed by Step, and never touches VRAM/OAM contents itself —
// no pixel compositing, just the timing and register surface a CPU cares
// about.
type PPU struct {
	LCDC hwio.Reg8 `hwio:"offset=0x40"`
	STAT hwio.Reg8 `hwio:"offset=0x41,rwmask=0x07"`
	SCY  hwio.Reg8 `hwio:"offset=0x42"`
	SCX  hwio.Reg8 `hwio:"offset=0x43"`
	LY   hwio.Reg8 `hwio:"offset=0x44,rwmask=0xff"`
	LYC  hwio.Reg8 `hwio:"offset=0x45"`
	BGP  hwio.Reg8 `hwio:"offset=0x47"`
	OBP0 hwio.Reg8 `hwio:"offset=0x48"`
	OBP1 hwio.Reg8 `hwio:"offset=0x49"`
	WY   hwio.Reg8 `hwio:"offset=0x4a"`
	WX   hwio.Reg8 `hwio:"offset=0x4b"`

	dot            int
	ly             int
	mode           int
	vblankLatched  bool

	mmu *MMU
}

func NewPPU(mmu *MMU) *PPU {
	p := &PPU{mmu: mmu}
	hwio.MustInitRegs(p)
	return p
}

func (p *PPU) Reset() {
	p.LCDC.Value = 0x91
	p.STAT.Value = 0x85
	p.SCY.Value = 0
	p.SCX.Value = 0
	p.LY.Value = 0
	p.LYC.Value = 0
	p.BGP.Value = 0xFC
	p.OBP0.Value = 0xFF
	p.OBP1.Value = 0xFF
	p.WY.Value = 0
	p.WX.Value = 0

	p.dot = 0
	p.ly = 0
	p.mode = modeOAMScan
	p.vblankLatched = false
	p.refreshSTAT()
}

// Step advances the PPU by cpuCycles CPU M-cycles (×4 dots).
func (p *PPU) Step(cpuCycles int) {
	if p.LCDC.Value&0x80 == 0 {
		p.dot = 0
		p.ly = 0
		p.mode = modeHBlank
		p.vblankLatched = false
		p.LY.Value = 0
		p.refreshSTAT()
		return
	}

	p.dot += cpuCycles * 4
	for p.dot >= dotsPerLine {
		p.dot -= dotsPerLine
		p.advanceLine()
	}
	p.recomputeMode()
	p.refreshSTAT()
}

func (p *PPU) advanceLine() {
	p.ly++
	if p.ly >= linesPerFrame {
		p.ly = 0
		p.vblankLatched = false
	}
	if p.ly == vblankStartLY && !p.vblankLatched {
		p.mmu.PostInterrupt(IFVBlank)
		p.vblankLatched = true
	}
	p.LY.Value = uint8(p.ly)
	p.recomputeMode()
	p.refreshSTAT()
}

func (p *PPU) recomputeMode() {
	switch {
	case p.ly >= vblankStartLY:
		p.mode = modeVBlank
	case p.dot < oamScanDots:
		p.mode = modeOAMScan
	case p.dot < transferDots:
		p.mode = modeTransfer
	default:
		p.mode = modeHBlank
	}
}

// refreshSTAT synthesizes bits 0-2 (mode, LY==LYC coincidence) and leaves
// bits 3-7 exactly as last written by the CPU.
func (p *PPU) refreshSTAT() {
	v := p.STAT.Value &^ 0x07
	v |= uint8(p.mode) & 0x03
	if p.ly == int(p.LYC.Value) {
		v |= 0x04
	}
	p.STAT.Value = v
}
