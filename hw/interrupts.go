package hw

// IF/IE bit positions and their service vectors, in dispatch-priority
// order: a lower bit wins when more than one is pending.
const (
	IFVBlank  = 1 << 0
	IFLCDStat = 1 << 1
	IFTimer   = 1 << 2
	IFSerial  = 1 << 3
	IFJoypad  = 1 << 4
)

var interruptVectors = [5]uint16{0x40, 0x48, 0x50, 0x58, 0x60}
