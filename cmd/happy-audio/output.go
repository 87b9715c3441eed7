package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/Diogo1457/happy-audio/internal/services"
)

var (
	successColor = color.New(color.FgHiGreen)
	failureColor = color.New(color.FgHiRed, color.Bold)
	kindColor    = color.New(color.FgYellow)
)

func printSuccess(out io.Writer, line string) {
	if shouldColorize(out) {
		successColor.Fprintln(out, line)
		return
	}
	fmt.Fprintln(out, line)
}

// printFailure writes "Failed: [Kind] message" so the failing stage is visible
// at a glance.
func printFailure(out io.Writer, err error) {
	kind := services.KindOf(err)
	if !shouldColorize(out) {
		fmt.Fprintf(out, "Failed: [%s] %v\n", kind, err)
		return
	}
	failureColor.Fprint(out, "Failed: ")
	kindColor.Fprintf(out, "[%s] ", kind)
	fmt.Fprintln(out, err)
}

func shouldColorize(writer io.Writer) bool {
	if color.NoColor {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
