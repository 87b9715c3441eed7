package ytdlp

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

var commandContext = exec.CommandContext

const stderrTailLines = 20

type commandExecutor struct{}

// Run streams stdout lines to onStdout and returns the tail of stderr.
func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) (string, error) {
	cmd := commandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start command: %w", err)
	}

	var tail []string
	var group errgroup.Group
	group.Go(func() error {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			if onStdout != nil {
				onStdout(scanner.Text())
			}
		}
		return scanner.Err()
	})
	group.Go(func() error {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			tail = append(tail, scanner.Text())
			if len(tail) > stderrTailLines {
				tail = tail[1:]
			}
		}
		return scanner.Err()
	})

	scanErr := group.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
	}
	waitErr := cmd.Wait()
	stderrText := strings.Join(tail, "\n")
	if scanErr != nil {
		return stderrText, fmt.Errorf("scan output: %w", scanErr)
	}
	if waitErr != nil {
		return stderrText, fmt.Errorf("wait command: %w", waitErr)
	}
	return stderrText, nil
}
