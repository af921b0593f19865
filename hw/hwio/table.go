package hwio

import (
	"fmt"

	"dmgboy/emu/log"
)

// log unmapped accesses. Off by default since it would be verbose: the GB
// address space is small and sparsely populated; flip on when chasing a bad
// address decode.
const logUnmapped = false

type BankIO8 interface {
	// Read8 reads a byte from the given address. If peek is true, the read
	// must not have any side effects (debugger/disassembler use).
	Read8(addr uint16, peek bool) uint8
	Write8(addr uint16, val uint8)
}

func Write16(b BankIO8, addr uint16, val uint16) {
	lo := uint8(val & 0xff)
	hi := uint8(val >> 8)
	b.Write8(addr, lo)
	b.Write8(addr+1, hi)
}

func Read16(b BankIO8, addr uint16) uint16 {
	lo := b.Read8(addr, false)
	hi := b.Read8(addr+1, false)
	return uint16(hi)<<8 | uint16(lo)
}

// Table is a byte-addressable bus. The Game Boy's entire address space is
// 64KiB, so unlike a banked-window architecture a flat array is both the
// simplest and the fastest backing store: there's no sparse region worth a
// tree for.
type Table struct {
	Name string

	slots [65536]BankIO8
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	return t
}

func (t *Table) Reset() {
	t.slots = [65536]BankIO8{}
}

// MapBank maps a register bank (a structure containing Mem/Reg8/Device
// fields) at addr. For this to work, fields must carry an "hwio" struct tag
// with at least an "offset" option:
//
//	offset=0x12     Byte-offset within the register bank at which this
//	                field is mapped. There is no default value: if this
//	                option is missing, the field is not part of the bus and
//	                is ignored by this call.
//
//	bank=NN         Ordinal bank number (defaults to zero). Lets a single
//	                struct expose multiple banks, selected by bank number.
//
// See parsedTag (reg_init.go) for the full tag grammar.
func (t *Table) MapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		switch r := reg.ptr.(type) {
		case *Mem:
			t.MapMem(addr+reg.offset, r)
		case *Reg8:
			t.MapReg8(addr+reg.offset, r)
		case *Device:
			t.MapDevice(addr+reg.offset, r)
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) UnmapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		switch r := reg.ptr.(type) {
		case *Mem:
			t.Unmap(addr+reg.offset, addr+reg.offset+uint16(r.VSize)-1)
		case *Reg8:
			t.Unmap(addr+reg.offset, addr+reg.offset)
		case *Device:
			t.Unmap(addr+reg.offset, addr+reg.offset+uint16(r.Size)-1)
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) mapBus8(addr, size uint16, io BankIO8) {
	for i := uint32(0); i < uint32(size); i++ {
		t.slots[uint16(uint32(addr)+i)] = io
	}
}

func (t *Table) MapReg8(addr uint16, io *Reg8) {
	t.mapBus8(addr, 1, io)
}

func (t *Table) MapDevice(addr uint16, dev *Device) {
	t.mapBus8(addr, uint16(dev.Size), dev)
}

func (t *Table) MapMem(addr uint16, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Hex16("size", uint16(mem.VSize)).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	if len(mem.Data)&(len(mem.Data)-1) != 0 {
		panic("memory buffer size is not pow2")
	}

	t.mapBus8(addr, uint16(mem.VSize), mem.BankIO8())
}

func (t *Table) MapMemorySlice(addr, end uint16, mem []uint8, readonly bool) {
	log.ModHwIo.DebugZ("mapping slice").
		Hex16("addr", addr).
		Hex16("end", end).
		String("bus", t.Name).
		Bool("ro", readonly).
		End()

	var flags MemFlags
	if readonly {
		flags |= MemFlag8ReadOnly
	}
	t.MapMem(addr, &Mem{
		Data:  mem,
		Flags: flags,
		VSize: int(end - addr + 1),
	})
}

func (t *Table) Unmap(begin, end uint16) {
	for i := uint32(begin); i <= uint32(end); i++ {
		t.slots[uint16(i)] = nil
	}
}

// Read8 looks up the device mapped at addr and forwards the read to it.
// Reads to unmapped addresses return 0, optionally logged when !peek.
func (t *Table) Read8(addr uint16, peek bool) uint8 {
	io := t.slots[addr]
	if io == nil {
		if logUnmapped && !peek {
			log.ModHwIo.ErrorZ("unmapped Read8").
				String("name", t.Name).
				Hex16("addr", addr).
				End()
		}
		return 0
	}
	return io.Read8(addr, peek)
}

// Peek8 is a convenience wrapper for a side-effect-free read.
func (t *Table) Peek8(addr uint16) uint8 {
	return t.Read8(addr, true)
}

func (t *Table) Write8(addr uint16, val uint8) {
	io := t.slots[addr]
	if io == nil {
		if logUnmapped {
			log.ModHwIo.ErrorZ("unmapped Write8").
				String("name", t.Name).
				Hex16("addr", addr).
				Hex8("val", val).
				End()
		}
		return
	}
	if m, ok := io.(*mem); ok {
		// Use the CheckRO form so the success codepath (read-write memory,
		// the common case) is fully inlined with no function call.
		if !m.Write8CheckRO(addr, val) {
			log.ModHwIo.ErrorZ("Write8 to read-only address").
				String("name", t.Name).
				Hex16("addr", addr).
				Hex8("val", val).
				End()
		}
		return
	}
	io.Write8(addr, val)
}

func (t *Table) FetchPointer(addr uint16) []uint8 {
	if m, ok := t.slots[addr].(*mem); ok {
		return m.FetchPointer(addr)
	}
	return nil
}
