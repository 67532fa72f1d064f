package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arlovac/quad4asm/internal/asm"
	"github.com/arlovac/quad4asm/internal/cli"
	"github.com/arlovac/quad4asm/internal/config"
	"github.com/arlovac/quad4asm/internal/log"
	"github.com/arlovac/quad4asm/internal/macro"
)

// Assembler is the command that translates quad4asm source into the base-4 object,
// entry, and external artifacts.
//
//	quad4asm assemble NAME1 [NAME2 ...]
func Assembler() cli.Command {
	return new(assembler)
}

type assembler struct {
	debug bool
}

func (assembler) Description() string {
	return "assemble source files into object, entry, and external artifacts"
}

func (assembler) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `assemble NAME1 [NAME2 ...]

Each NAME is a source base name without extension; NAME.as is the input. For each
name, in order: preprocess macros to NAME.am, assemble NAME.am, and write NAME.ob
(always), NAME.ent (if any .entry symbols exist), and NAME.ext (if any external
symbols are referenced). A failing file is reported and skipped; later names still
run.`)

	return err
}

func (a *assembler) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("assemble", flag.ExitOnError)
	fs.BoolVar(&a.debug, "debug", false, "enable debug logging")

	return fs
}

// Run assembles each named source file in turn, sharing one Assembler value reset
// between files per spec's single-threaded, fully-reset-between-files resource model.
func (a *assembler) Run(_ context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if a.debug {
		log.LogLevel.Set(log.Debug)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config error", "err", err)
		cfg = config.DefaultConfig()
	}

	asmr := asm.New()
	asmr.MaxLineLen = cfg.Assembler.MaxLineLength

	for _, name := range args {
		a.assembleOne(asmr, cfg, name, stdout, logger)
		asmr.Reset()
	}

	return 0
}

func (a *assembler) assembleOne(asmr *asm.Assembler, cfg *config.Config, name string, stdout io.Writer, logger *log.Logger) {
	src, err := os.Open(name + ".as")
	if err != nil {
		logger.Error("cannot open source", "name", name, "err", err)
		return
	}
	defer src.Close()

	var expanded strings.Builder

	pre := macro.New()
	if err := pre.Expand(src, &expanded); err != nil {
		logger.Error("macro expansion failed", "name", name, "err", err)
		return
	}

	amPath := cfg.OutputPath(name + ".am")
	if err := os.WriteFile(amPath, []byte(expanded.String()), 0o644); err != nil {
		logger.Error("cannot write expanded source", "name", name, "err", err)
		return
	}

	source := expanded.String()

	if err := asmr.PassOne(source); err != nil {
		logger.Error("pass one failed", "name", name, "err", err)
		return
	}

	if err := asmr.PassTwo(source); err != nil {
		logger.Error("pass two failed", "name", name, "err", err)
		return
	}

	if err := writeArtifact(cfg, name+".ob", asmr.EmitObject()); err != nil {
		logger.Error("cannot write object artifact", "name", name, "err", err)
		return
	}

	if asmr.EntriesFlag {
		if err := writeArtifact(cfg, name+".ent", asmr.EmitEntries()); err != nil {
			logger.Error("cannot write entries artifact", "name", name, "err", err)
			return
		}
	}

	if len(asmr.Externals) > 0 {
		if err := writeArtifact(cfg, name+".ext", asmr.EmitExternals()); err != nil {
			logger.Error("cannot write externals artifact", "name", name, "err", err)
			return
		}
	}

	fmt.Fprintf(stdout, "%s: assembled (IC=%d DC=%d)\n", name, asmr.ICF(), asmr.DC)
}

func writeArtifact(cfg *config.Config, name, contents string) error {
	return os.WriteFile(cfg.OutputPath(name), []byte(contents), 0o644)
}
