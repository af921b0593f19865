package hw

// Console wires MMU/CPU/PPU/Timer/APU/Joypad together and drives the
// cycle-accurate run loop: every CPU step's M-cycle cost feeds PPU, Timer
// and APU by the same amount, in that order, before the next instruction
// fetches.
type Console struct {
	MMU    *MMU
	CPU    *CPU
	PPU    *PPU
	Timer  *Timer
	APU    *APU
	Joypad *Joypad
}

func NewConsole() *Console {
	mmu := NewMMU()
	cons := &Console{
		MMU:    mmu,
		CPU:    NewCPU(mmu),
		PPU:    NewPPU(mmu),
		Timer:  NewTimer(mmu),
		APU:    NewAPU(),
		Joypad: NewJoypad(mmu),
	}
	mmu.AttachPPU(cons.PPU)
	mmu.AttachTimer(cons.Timer)
	mmu.AttachJoypad(cons.Joypad)
	mmu.AttachAPU(cons.APU)
	return cons
}

// LoadROM loads a cartridge image from disk and resets the machine to its
// post-boot-ROM state with that cartridge installed.
func (cons *Console) LoadROM(path string) error {
	if err := cons.MMU.LoadROM(path); err != nil {
		return err
	}
	cons.Reset()
	return nil
}

// LoadROMData is LoadROM for an in-memory image (used by tests).
func (cons *Console) LoadROMData(data []byte) error {
	if err := cons.MMU.LoadROMData(data); err != nil {
		return err
	}
	cons.Reset()
	return nil
}

// Reset brings every component back to its post-boot-ROM state, in the
// dependency order the MMU's registers require: the MMU owns the registers
// Timer/PPU/Joypad callbacks touch, so it resets first.
func (cons *Console) Reset() {
	cons.MMU.Reset()
	cons.CPU.Reset()
	cons.PPU.Reset()
	cons.Timer.Reset()
	cons.APU.Reset()
	cons.Joypad.Reset()
}

// Step runs one CPU step (an instruction, an interrupt dispatch or a halted
// idle cycle) and steps every other component by the same number of
// M-cycles, returning that count.
func (cons *Console) Step() int {
	cycles := cons.CPU.Step()
	cons.PPU.Step(cycles)
	cons.Timer.Step(cycles)
	cons.APU.Step(cycles)
	return cycles
}

// Run calls Step n times.
func (cons *Console) Run(n int) {
	for i := 0; i < n; i++ {
		cons.Step()
	}
}

// RunFrames runs until count full PPU frames (vblank-to-vblank) have
// elapsed.
func (cons *Console) RunFrames(count int) {
	for i := 0; i < count; i++ {
		cons.runOneFrame()
	}
}

func (cons *Console) runOneFrame() {
	startedInVBlank := cons.PPU.ly >= vblankStartLY
	for {
		cons.Step()
		inVBlank := cons.PPU.ly >= vblankStartLY
		if inVBlank && !startedInVBlank {
			return
		}
		startedInVBlank = inVBlank
	}
}

func (cons *Console) SetButton(b Button, pressed bool) {
	cons.Joypad.SetButton(b, pressed)
}
