package hw

import (
	"dmgboy/cart"
	"dmgboy/emu/log"
)

// mbcController abstracts the bank-select state a cartridge controller
// keeps between the MMU and the raw ROM/RAM buffers. Only two controllers
// are implemented: mbc1 and the rom-only fallback.
type mbcController interface {
	// WriteControl handles a CPU write into 0x0000-0x7FFF. It never
	// mutates ROM; it only updates bank-select state.
	WriteControl(addr uint16, val uint8)
	EffectiveROMBank() int
	EffectiveRAMBank() int
	RAMEnabled() bool
	Reset()
}

// romOnly is the fallback controller for cart_type 0x00 (and any other
// byte this core doesn't special-case): no banking, RAM always enabled
// when present.
type romOnly struct {
	numRAMBanks int
}

func (r *romOnly) WriteControl(addr uint16, val uint8) {}
func (r *romOnly) EffectiveROMBank() int                { return 1 }
func (r *romOnly) EffectiveRAMBank() int                { return 0 }
func (r *romOnly) RAMEnabled() bool                     { return r.numRAMBanks > 0 }
func (r *romOnly) Reset()                               {}

// mbc1 implements the MBC1 bank-select registers.
type mbc1 struct {
	numROMBanks int
	numRAMBanks int

	romBankLow  uint8 // 5 bits, 0 remapped to 1 on write
	romBankHigh uint8 // 2 bits
	bankingMode uint8 // 0=simple, 1=advanced
	ramEnabled  bool
}

func newMBC1(rom *cart.ROM) *mbc1 {
	m := &mbc1{numROMBanks: rom.NumROMBanks, numRAMBanks: rom.NumRAMBanks}
	m.Reset()
	return m
}

func (m *mbc1) Reset() {
	m.romBankLow = 1
	m.romBankHigh = 0
	m.bankingMode = 0
	m.ramEnabled = false
}

func (m *mbc1) WriteControl(addr uint16, val uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = val&0x0F == 0x0A
	case addr <= 0x3FFF:
		m.romBankLow = val & 0x1F
		if m.romBankLow == 0 {
			m.romBankLow = 1
		}
	case addr <= 0x5FFF:
		m.romBankHigh = val & 0x03
	default: // 0x6000-0x7FFF
		m.bankingMode = val & 0x01
		log.ModMBC.DebugZ("banking mode select").Uint8("mode", m.bankingMode).End()
	}
}

// EffectiveROMBank combines the two selector fields, reduces modulo the
// bank count, and only then substitutes 1 for a result of 0 — substituting
// before the modulo would miss this case.
func (m *mbc1) EffectiveROMBank() int {
	raw := int(m.romBankHigh)<<5 | int(m.romBankLow)
	bank := raw % m.numROMBanks
	if bank == 0 && m.numROMBanks > 1 {
		bank = 1
	}
	return bank
}

func (m *mbc1) EffectiveRAMBank() int {
	if m.bankingMode == 0 || m.numRAMBanks == 0 {
		return 0
	}
	return int(m.romBankHigh) % m.numRAMBanks
}

func (m *mbc1) RAMEnabled() bool { return m.ramEnabled }
