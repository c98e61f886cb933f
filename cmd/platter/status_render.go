package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

// renderCheckLine formats one preflight result, coloring the verdict when the
// writer is a terminal.
func renderCheckLine(name string, passed bool, detail string, colorize bool) string {
	verdict := "OK"
	color := ansiGreen
	if !passed {
		verdict = "FAIL"
		color = ansiRed
	}
	if colorize {
		verdict = color + verdict + ansiReset
	}
	line := fmt.Sprintf("  %-18s [%s]", name+":", verdict)
	if detail != "" {
		line += " " + detail
	}
	return line
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
