package cmd

import (
	"fmt"
	"io"
	"os"
)

// Main runs r on the process arguments and exits with the code of the
// outcome. It never returns.
func Main(c *Config, r Runnable) {
	os.Exit(Exec(c, r, os.Args[1:], os.Stderr))
}

// Exec runs r on argv, stops the cpu profile the run may have started and
// reports the exit code. Errors and left over arguments go to stderr.
func Exec(c *Config, r Runnable, argv []string, stderr io.Writer) int {
	args, err := r.Run(argv)
	c.StopProfile()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return err.ExitCode
	}
	if len(args) != 0 {
		fmt.Fprintf(stderr, "expected 0 args left got %v\n", args)
		return ExitFailure
	}
	return 0
}
