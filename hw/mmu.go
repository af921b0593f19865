package hw

import (
	"dmgboy/cart"
	"dmgboy/emu/log"
	"dmgboy/hw/hwio"
)

const (
	hramSize   = 0x7F
	hramWindow = 0x80
)

// MMU owns every byte of address space the console exposes and decodes
// every CPU access. A single Device spans the cartridge's switchable
// window and resolves the currently selected bank internally, rather than
// remapping a different Device per bank.
type MMU struct {
	Bus   *hwio.Table
	ioBus *hwio.Table

	rom *cart.ROM
	mbc mbcController

	eram []byte
	wram [8][0x1000]byte
	vram [2][0x2000]byte
	oam  [160]byte

	hram   hwio.Mem
	hramIO hwio.BankIO8

	ioRaw [0x80]byte

	IE   hwio.Reg8
	IF   hwio.Reg8
	VBK  hwio.Reg8
	SVBK hwio.Reg8
	DMA  hwio.Reg8

	vramBank int
	wramBank int

	ppu    *PPU
	timer  *Timer
	joypad *Joypad
	apu    *APU
}

func NewMMU() *MMU {
	m := &MMU{}

	m.hram.Data = make([]byte, hramWindow)
	m.hramIO = m.hram.BankIO8()

	m.VBK.ReadCb = func(val uint8, peek bool) uint8 { return 0xFE | uint8(m.vramBank) }
	m.VBK.WriteCb = func(old, val uint8) { m.vramBank = int(val & 1) }

	m.SVBK.ReadCb = func(val uint8, peek bool) uint8 { return 0xF8 | uint8(m.wramBank) }
	m.SVBK.WriteCb = func(old, val uint8) {
		b := val & 0x07
		if b == 0 {
			b = 1
		}
		m.wramBank = int(b)
	}

	m.DMA.WriteCb = func(old, val uint8) { m.runOAMDMA(val) }

	m.Bus = hwio.NewTable("mmu")
	m.Bus.MapDevice(0x0000, &hwio.Device{Name: "bus", Size: 0xFFFF, ReadCb: m.busRead, WriteCb: m.busWrite})
	m.Bus.MapReg8(0xFFFF, &m.IE)

	// ioBus covers the FF00-FF7F register window on its own table: a raw
	// byte slice backs every address by default, and each peripheral's
	// MapBank call below overrides the slots it owns with its own Reg8
	// fields, in the declarative style their "hwio" tags already commit to.
	m.ioBus = hwio.NewTable("mmu-io")
	m.ioBus.MapMemorySlice(0xFF00, 0xFF7F, m.ioRaw[:], false)
	m.ioBus.MapReg8(0xFF0F, &m.IF)
	m.ioBus.MapReg8(0xFF46, &m.DMA)
	m.ioBus.MapReg8(0xFF4F, &m.VBK)
	m.ioBus.MapReg8(0xFF70, &m.SVBK)

	m.Reset()
	return m
}

func (m *MMU) AttachPPU(p *PPU) {
	m.ppu = p
	m.ioBus.MapBank(0xFF00, p, 0)
}

func (m *MMU) AttachTimer(t *Timer) {
	m.timer = t
	m.ioBus.MapBank(0xFF00, t, 0)
}

func (m *MMU) AttachJoypad(j *Joypad) {
	m.joypad = j
	m.ioBus.MapBank(0xFF00, j, 0)
}

func (m *MMU) AttachAPU(a *APU) {
	m.apu = a
	m.ioBus.MapDevice(0xFF10, &hwio.Device{Name: "apu", Size: 0x30, ReadCb: a.ReadReg, WriteCb: a.WriteReg})
}

func (m *MMU) LoadROM(path string) error {
	rom, err := cart.Load(path)
	if err != nil {
		return err
	}
	m.loadDecoded(rom)
	return nil
}

func (m *MMU) LoadROMData(data []byte) error {
	rom, err := cart.Decode(data)
	if err != nil {
		return err
	}
	m.loadDecoded(rom)
	return nil
}

func (m *MMU) loadDecoded(rom *cart.ROM) {
	m.rom = rom
	m.eram = make([]byte, rom.RAMSize())
	if rom.CartType.HasMBC1() {
		m.mbc = newMBC1(rom)
	} else {
		m.mbc = &romOnly{numRAMBanks: rom.NumRAMBanks}
	}
	log.ModMMU.InfoZ("loaded rom").
		Int("rom_banks", rom.NumROMBanks).
		Int("ram_banks", rom.NumRAMBanks).
		End()
}

func (m *MMU) Reset() {
	m.oam = [160]byte{}
	for i := range m.wram {
		m.wram[i] = [0x1000]byte{}
	}
	for i := range m.vram {
		m.vram[i] = [0x2000]byte{}
	}
	for i := range m.hram.Data {
		m.hram.Data[i] = 0
	}
	for i := range m.eram {
		m.eram[i] = 0
	}
	m.ioRaw = [0x80]byte{}
	m.vramBank = 0
	m.wramBank = 1
	m.IE.Value = 0
	m.IF.Value = 0
	if m.mbc != nil {
		m.mbc.Reset()
	}
}

func (m *MMU) Read8(addr uint16) uint8       { return m.Bus.Read8(addr, false) }
func (m *MMU) Write8(addr uint16, val uint8) { m.Bus.Write8(addr, val) }
func (m *MMU) Peek8(addr uint16) uint8       { return m.Bus.Peek8(addr) }

// PendingInterrupts, ClearInterrupt and PostInterrupt are the CPU's and
// peripherals' privileged window into IE/IF: they poke the registers'
// .Value fields directly rather than routing through Bus.Write8, since
// neither register has (or needs) write-side-effects of its own.
func (m *MMU) PendingInterrupts() uint8 { return m.IE.Value & m.IF.Value & 0x1F }
func (m *MMU) ClearInterrupt(bit uint8) { m.IF.Value &^= bit }
func (m *MMU) PostInterrupt(bit uint8)  { m.IF.Value |= bit }

// runOAMDMA copies 160 bytes starting at page<<8 into OAM through the
// normal read path, so the source may be ROM, WRAM or VRAM.
func (m *MMU) runOAMDMA(page uint8) {
	src := uint16(page) << 8
	for i := uint16(0); i < 160; i++ {
		m.oam[i] = m.busRead(src+i, false)
	}
	log.ModDMA.DebugZ("oam dma").Hex8("page", page).End()
}

func (m *MMU) busRead(addr uint16, peek bool) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.readROM0(addr)
	case addr <= 0x7FFF:
		return m.readROMSwitchable(addr)
	case addr <= 0x9FFF:
		return m.vram[m.vramBank][addr-0x8000]
	case addr <= 0xBFFF:
		return m.readERAM(addr)
	case addr <= 0xCFFF:
		return m.wram[0][addr-0xC000]
	case addr <= 0xDFFF:
		return m.wram[m.wramBank][addr-0xD000]
	case addr <= 0xFDFF:
		return m.busRead(addr-0x2000, peek)
	case addr <= 0xFE9F:
		return m.oam[addr-0xFE00]
	case addr <= 0xFEFF:
		return 0xFF
	case addr <= 0xFF7F:
		return m.readReg(addr, peek)
	default: // 0xFF80-0xFFFE
		return m.hramIO.Read8(addr-0xFF80, peek)
	}
}

func (m *MMU) busWrite(addr uint16, val uint8) {
	switch {
	case addr <= 0x7FFF:
		if m.mbc != nil {
			m.mbc.WriteControl(addr, val)
		}
	case addr <= 0x9FFF:
		m.vram[m.vramBank][addr-0x8000] = val
	case addr <= 0xBFFF:
		m.writeERAM(addr, val)
	case addr <= 0xCFFF:
		m.wram[0][addr-0xC000] = val
	case addr <= 0xDFFF:
		m.wram[m.wramBank][addr-0xD000] = val
	case addr <= 0xFDFF:
		m.busWrite(addr-0x2000, val)
	case addr <= 0xFE9F:
		m.oam[addr-0xFE00] = val
	case addr <= 0xFEFF:
		// unusable region: writes are discarded
	case addr <= 0xFF7F:
		m.writeReg(addr, val)
	default: // 0xFF80-0xFFFE
		m.hramIO.Write8(addr-0xFF80, val)
	}
}

func (m *MMU) readROM0(addr uint16) uint8 {
	if m.rom == nil || int(addr) >= len(m.rom.Data) {
		return 0xFF
	}
	return m.rom.Data[addr]
}

func (m *MMU) readROMSwitchable(addr uint16) uint8 {
	if m.rom == nil {
		return 0xFF
	}
	off := m.mbc.EffectiveROMBank()*0x4000 + int(addr-0x4000)
	if off >= len(m.rom.Data) {
		return 0xFF
	}
	return m.rom.Data[off]
}

func (m *MMU) readERAM(addr uint16) uint8 {
	if m.mbc == nil || len(m.eram) == 0 || !m.mbc.RAMEnabled() {
		return 0xFF
	}
	off := m.mbc.EffectiveRAMBank()*0x2000 + int(addr-0xA000)
	if off >= len(m.eram) {
		return 0xFF
	}
	return m.eram[off]
}

func (m *MMU) writeERAM(addr uint16, val uint8) {
	if m.mbc == nil || len(m.eram) == 0 || !m.mbc.RAMEnabled() {
		return
	}
	off := m.mbc.EffectiveRAMBank()*0x2000 + int(addr-0xA000)
	if off < len(m.eram) {
		m.eram[off] = val
	}
}

// readReg/writeReg dispatch the FF00-FF7F I/O window through ioBus, which
// each peripheral's AttachXxx call banked its own registers onto; anything
// neither it nor NewMMU claimed (serial, and the rest of the
// undocumented/unused CGB registers) falls through to the raw backing slice
// ioBus was seeded with.
func (m *MMU) readReg(addr uint16, peek bool) uint8 {
	return m.ioBus.Read8(addr, peek)
}

func (m *MMU) writeReg(addr uint16, val uint8) {
	m.ioBus.Write8(addr, val)
}
