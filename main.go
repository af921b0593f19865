package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-faster/jx"

	"dmgboy/cart"
	"dmgboy/emu"
	"dmgboy/emu/log"
	"dmgboy/hw"
)

// version is stamped by the release process; unset builds report "dev".
var version = "dev"

func main() {
	runCfg := loadConfig()
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case versionMode:
		fmt.Println("dmgboy", version)
	case romInfoMode:
		checkf(printRomInfo(cli.RomInfo.RomPath), "failed to read rom")
	default:
		runRom(cli.Run, runCfg.Run)
	}
}

// loadConfig applies the on-disk config's logging defaults before the CLI
// flags get parsed, so an explicit --log still layers additional modules on
// top of default_modules rather than replacing it. On a machine with no
// config file yet, it writes the built-in default out so there's one to
// edit afterwards.
func loadConfig() emu.Config {
	_, err := os.Stat(filepath.Join(emu.ConfigDir, "config.toml"))
	firstRun := os.IsNotExist(err)

	cfg := emu.LoadConfigOrDefault()
	log.UseStderr(cfg.Logging.AlsoStderr)
	if cfg.Logging.DefaultModules != "" {
		checkf(applyLogModuleSpec(cfg.Logging.DefaultModules), "invalid default_modules in config")
	}

	if firstRun {
		if err := emu.SaveConfig(cfg); err != nil {
			log.ModEmu.Warnf("failed to write default config: %v", err)
		}
	}
	return cfg
}

func runRom(args Run, runCfg emu.RunConfig) {
	cons := hw.NewConsole()
	checkf(cons.LoadROM(args.RomPath), "failed to load rom")

	steps := int(args.Steps)
	if steps == 0 && args.Frames == 0 {
		steps = 4_000_000
	}

	if args.Trace != nil {
		defer args.Trace.Close()
		runTraced(cons, args, steps)
		return
	}

	switch {
	case args.Frames > 0:
		cons.RunFrames(int(args.Frames))
	default:
		runBatched(cons, steps, runCfg.StepBatch)
	}
}

// runBatched runs steps CPU instructions in chunks of batch, the
// granularity RunConfig.StepBatch commits to for whatever ends up driving
// the run loop between chunks.
func runBatched(cons *hw.Console, steps, batch int) {
	if batch <= 0 {
		cons.Run(steps)
		return
	}
	for steps > 0 {
		n := batch
		if n > steps {
			n = steps
		}
		cons.Run(n)
		steps -= n
	}
}

// runTraced runs the console one instruction at a time, writing a line per
// instruction with the CPU state as it stood right before the opcode fetch.
func runTraced(cons *hw.Console, args Run, steps int) {
	frames := int(args.Frames)
	vblanks := 0
	inVBlank := false
	for i := 0; steps == 0 || i < steps; i++ {
		pc, a, bc, de, hl, sp := cons.CPU.PC, cons.CPU.A, cons.CPU.BC(), cons.CPU.DE(), cons.CPU.HL(), cons.CPU.SP
		fmt.Fprintf(args.Trace, "PC=%04X A=%02X BC=%04X DE=%04X HL=%04X SP=%04X\n", pc, a, bc, de, hl, sp)
		cons.Step()

		wasInVBlank := inVBlank
		inVBlank = cons.PPU.LY.Value >= 144
		if inVBlank && !wasInVBlank {
			vblanks++
			if frames > 0 && vblanks >= frames {
				return
			}
		}
	}
}

func printRomInfo(path string) error {
	rom, err := cart.Load(path)
	if err != nil {
		return err
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("cart_type")
	e.Int(int(rom.CartType))
	e.FieldStart("rom_banks")
	e.Int(rom.NumROMBanks)
	e.FieldStart("ram_banks")
	e.Int(rom.NumRAMBanks)
	e.FieldStart("ram_size")
	e.Int(rom.RAMSize())
	e.FieldStart("mbc1")
	e.Bool(rom.CartType.HasMBC1())
	e.ObjEnd()

	fmt.Println(e.String())
	return nil
}
