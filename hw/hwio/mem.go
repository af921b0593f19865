package hwio

import "dmgboy/emu/log"

// mem is the BankIO8 adaptor for a linear memory region. Stored by pointer
// in Table so a type switch against it (the Table.Write8 fast path) checks a
// concrete pointer type rather than walking an interface.
type mem struct {
	data []byte
	mask uint16
	wcb  func(uint16, uint8)
	ro   MemFlags
}

func newMem(buf []byte, wcb func(uint16, uint8), roflag MemFlags) *mem {
	if len(buf)&(len(buf)-1) != 0 {
		panic("memory buffer size is not pow2")
	}
	return &mem{
		data: buf,
		mask: uint16(len(buf) - 1),
		wcb:  wcb,
		ro:   roflag,
	}
}

func (m *mem) FetchPointer(addr uint16) []uint8 {
	off := addr & m.mask
	return m.data[off:]
}

func (m *mem) Read8(addr uint16, _ bool) uint8 {
	return m.data[addr&m.mask]
}

// Write8CheckRO writes val and reports whether the write actually landed.
// Used by Table.Write8 to keep the common (writable) path free of the extra
// branch a plain bool-returning error path would cost.
func (m *mem) Write8CheckRO(addr uint16, val uint8) bool {
	if m.ro != 0 {
		return m.ro == MemFlagNoROLog // fake success in silent mode
	}
	m.data[addr&m.mask] = val
	if m.wcb != nil {
		m.wcb(addr, val)
	}
	return true
}

func (m *mem) Write8(addr uint16, val uint8) {
	if m.wcb != nil {
		m.wcb(addr, val)
		return
	}

	switch m.ro {
	case MemFlagReadWrite:
		m.data[addr&m.mask] = val
	case MemFlag8ReadOnly:
		log.ModHwIo.ErrorZ("Write8 to readonly memory").
			Hex8("val", val).
			Hex16("addr", addr).
			End()
	case MemFlagNoROLog:
		return
	}
}

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlag8ReadOnly MemFlags = (1 << iota) // read-only accesses
	MemFlagNoROLog                          // skip logging attempts to write when configured to readonly
)

// Mem is a linear memory area that can be mapped into a Table.
//
// This struct does not directly implement BankIO8: parsing its flags on
// every access would be wasteful, so callers go through BankIO8 to obtain
// an adaptor sized for the memory's actual configuration.
type Mem struct {
	Name    string              // name of the memory area (for debugging)
	Data    []byte              // actual memory buffer
	VSize   int                 // virtual size of the memory (can be bigger than physical size)
	Flags   MemFlags            // flags determining how the memory can be accessed
	WriteCb func(uint16, uint8) // optional write callback (if set, called instead of writing)
}

func (m *Mem) BankIO8() BankIO8 {
	return newMem(m.Data, m.WriteCb, m.Flags)
}
