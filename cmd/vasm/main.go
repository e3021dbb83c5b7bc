package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/urfave/cli"

	"vasm"
)

// fullAddressSpace is one hundredth of the 0xff00 (65280) byte slots
// between the zero page and the top of the 16-bit address space, so the
// summary line's fill percentage is simply bytes / 652.80.
const fullAddressSpace = 652.80

func assembleFile(input, output string) error {
	src, err := ioutil.ReadFile(input)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("Error reading %s", input), 1)
	}

	diag := vasm.NewDiagnostics(os.Stdout)

	start := time.Now()
	result, ok := vasm.Assemble(src, diag)
	elapsed := time.Since(start)

	if !ok {
		return nil
	}

	if len(result.Code) == 0 {
		diag.Warningf(0, 0, "Output rom is empty")
	}

	if err := ioutil.WriteFile(output, result.Code, 0644); err != nil {
		return cli.NewExitError(fmt.Sprintf("Error writing %s", output), 1)
	}

	fmt.Printf("Assembled '%s' in %dms\n", input, elapsed.Milliseconds())
	fmt.Printf("%s\n", summaryLine(result))

	return nil
}

// summaryLine renders the second summary line: fill percentage of the
// 0x0100-0xffff address range, pluralized label count, and the macro
// count the tool has always reported as zero here.
func summaryLine(r vasm.Result) string {
	n := len(r.Code)
	pct := float64(n) / fullAddressSpace
	bang := ""
	if n >= 0xffff {
		bang = "!"
	}
	plural := "s"
	if r.LabelCount == 1 {
		plural = ""
	}
	return fmt.Sprintf("%d bytes (%.2f%%%s), %d label%s, 0 macros.", n, pct, bang, r.LabelCount, plural)
}

func main() {
	app := cli.NewApp()
	app.Name = "vasm"
	app.Usage = "Assembler for a small stack-based virtual machine"
	app.ArgsUsage = "<input> <output>"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "man, o",
			Usage: "print the tool's man page instead of assembling",
		},
	}
	app.Action = func(c *cli.Context) error {
		if c.Bool("man") {
			man, err := app.ToMan()
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
			fmt.Println(man)
			return nil
		}

		args := c.Args()
		if len(args) != 2 {
			cli.ShowAppHelp(c)
			return cli.NewExitError("", 1)
		}

		return assembleFile(args[0], args[1])
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
