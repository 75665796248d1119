// Command go64 is a headless command-line front end for the emulation
// core: it powers a machine on from a configuration file, optionally
// attaches media, runs it for the number of cycles given by --cycles and
// exits, reporting engine messages as they arrive. A full interactive front end (video/audio/input) is outside
// this binary's scope; it exists to exercise and smoke-test the core.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go64/go64/hardware"
	"github.com/go64/go64/hardware/datasette"
	"github.com/go64/go64/hardware/loader"
	"github.com/go64/go64/hardware/scheduler"
	"github.com/go64/go64/hardware/sid"
	"github.com/go64/go64/internal/c64errs"
	"github.com/go64/go64/internal/config"
	"github.com/go64/go64/internal/logger"
	"github.com/go64/go64/internal/wavdump"
)

var (
	cfgPath     string
	diskPath    string
	tapePath    string
	cartPath    string
	prgPath     string
	wavdumpPath string
	runCycles   int
)

func main() {
	root := &cobra.Command{
		Use:   "go64",
		Short: "Run a C64 emulation session from the command line",
		RunE:  run,
	}
	root.Flags().StringVar(&cfgPath, "config", "", "path to a go64 config file")
	root.Flags().StringVar(&diskPath, "disk", "", "D64/G64 disk image to insert")
	root.Flags().StringVar(&tapePath, "tape", "", "TAP tape image to insert")
	root.Flags().StringVar(&cartPath, "cart", "", "CRT cartridge image to attach")
	root.Flags().StringVar(&prgPath, "prg", "", "PRG/P00 program to flash into RAM after boot")
	root.Flags().IntVar(&runCycles, "cycles", 1_000_000, "number of cycles to run before exiting")
	root.Flags().StringVar(&wavdumpPath, "wavdump", "", "dump SID output to this .wav file (requires a build with -tags wavdump)")

	if err := root.Execute(); err != nil {
		var ce *c64errs.Error
		if as, ok := err.(*c64errs.Error); ok {
			ce = as
		}
		fmt.Fprintln(os.Stderr, "go64:", err)
		os.Exit(c64errs.ExitCode(ce))
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	m := hardware.New(cfg)
	if err := m.PowerOn(); err != nil {
		return err
	}
	defer m.PowerOff()

	if cartPath != "" {
		if err := attachCartridge(m, cartPath); err != nil {
			return err
		}
	}
	if diskPath != "" {
		if err := insertDisk(m, diskPath); err != nil {
			return err
		}
	}
	if tapePath != "" {
		if err := insertTape(m, tapePath); err != nil {
			return err
		}
	}
	if prgPath != "" {
		if err := flashFile(m, prgPath); err != nil {
			return err
		}
	}

	messages := m.Subscribe()
	go func() {
		for msg := range messages {
			reportMessage(msg)
		}
	}()

	var dump *wavdump.Dumper
	if wavdumpPath != "" {
		if !wavdump.Enabled {
			logger.Logf("cmd", "--wavdump given but this binary was not built with -tags wavdump; ignoring")
		} else {
			f, err := os.Create(wavdumpPath)
			if err != nil {
				return c64errs.New(c64errs.MediaMalformed, "%s: %v", wavdumpPath, err)
			}
			defer f.Close()
			dump = wavdump.New(f, sid.SampleRate)
			defer dump.Close()
		}
	}

	ran := m.Run(runCycles)
	m.PumpMessages()
	if dump != nil {
		for _, buf := range m.SID.DrainSamples() {
			if err := dump.Write(buf); err != nil {
				return c64errs.New(c64errs.MediaMalformed, "wavdump: %v", err)
			}
		}
	}
	logger.Logf("cmd", "ran %d of %d requested cycles", ran, runCycles)
	return nil
}

func reportMessage(msg scheduler.Message) {
	switch msg.Kind {
	case scheduler.MessageCPUJammed:
		fmt.Fprintln(os.Stderr, "go64: CPU jammed:", msg.Text)
	case scheduler.MessageDriveError:
		fmt.Fprintln(os.Stderr, "go64: drive error:", msg.Text)
	default:
		logger.Logf("message", "%d: %s", msg.Kind, msg.Text)
	}
}

func attachCartridge(m *hardware.Machine, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return c64errs.New(c64errs.MediaMalformed, "%s: %v", path, err)
	}
	crt, err := loader.ParseCRT(data)
	if err != nil {
		return err
	}
	mapper, err := loader.Build(crt)
	if err != nil {
		return err
	}
	m.AttachCartridge(mapper)
	return nil
}

func insertDisk(m *hardware.Machine, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return c64errs.New(c64errs.MediaMalformed, "%s: %v", path, err)
	}

	if len(data) >= 8 && string(data[0:8]) == "GCR-1541" {
		d, err := loader.ParseG64(data)
		if err != nil {
			return err
		}
		return m.InsertDisk(d)
	}
	d, err := loader.ParseD64(data)
	if err != nil {
		return err
	}
	return m.InsertDisk(d)
}

func insertTape(m *hardware.Machine, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return c64errs.New(c64errs.MediaMalformed, "%s: %v", path, err)
	}
	t, err := datasette.ParseTAP(data)
	if err != nil {
		return err
	}
	m.InsertTape(t)
	return nil
}

func flashFile(m *hardware.Machine, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return c64errs.New(c64errs.MediaMalformed, "%s: %v", path, err)
	}
	var prg *loader.PRG
	if len(data) >= 26 && string(data[0:7]) == "C64File" {
		prg, err = loader.ParseP00(data)
	} else {
		prg, err = loader.ParsePRG(data)
	}
	if err != nil {
		return err
	}
	m.FlashFile(prg)
	return nil
}
