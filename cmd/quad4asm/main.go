// Command quad4asm is a two-pass assembler for the fictional base-4, 10-bit word
// machine.
package main

import (
	"context"
	"os"

	"github.com/arlovac/quad4asm/internal/cli"
	"github.com/arlovac/quad4asm/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Assembler(),
}

func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
