package hw

// Flags is the LR35902 F register. Only the high nibble is ever nonzero;
// the low nibble reads as zero on every real instruction that touches F.
type Flags uint8

const (
	FlagC Flags = 1 << 4
	FlagH Flags = 1 << 5
	FlagN Flags = 1 << 6
	FlagZ Flags = 1 << 7
)

func (f Flags) Z() bool { return f&FlagZ != 0 }
func (f Flags) N() bool { return f&FlagN != 0 }
func (f Flags) H() bool { return f&FlagH != 0 }
func (f Flags) C() bool { return f&FlagC != 0 }

func (f *Flags) setZ(v bool) { f.set(FlagZ, v) }
func (f *Flags) setN(v bool) { f.set(FlagN, v) }
func (f *Flags) setH(v bool) { f.set(FlagH, v) }
func (f *Flags) setC(v bool) { f.set(FlagC, v) }

func (f *Flags) set(mask Flags, v bool) {
	if v {
		*f |= mask
	} else {
		*f &^= mask
	}
}

func (f Flags) String() string {
	s := [4]byte{'-', '-', '-', '-'}
	if f.Z() {
		s[0] = 'Z'
	}
	if f.N() {
		s[1] = 'N'
	}
	if f.H() {
		s[2] = 'H'
	}
	if f.C() {
		s[3] = 'C'
	}
	return string(s[:])
}
