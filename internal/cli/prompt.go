package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

func promptYesNo(app *AppContext, prompt string) (bool, error) {
	fmt.Fprintf(app.IO.Out, "%s [y/N]: ", prompt)
	line, err := readLine(context.Background(), app.input())
	if err != nil {
		return false, err
	}
	response := strings.ToLower(strings.TrimSpace(line))
	return response == "y" || response == "yes", nil
}

type lineResult struct {
	line string
	err  error
}

// readLine reads one line and gives up as soon as ctx is done. End of input
// counts as an empty answer.
func readLine(ctx context.Context, reader *bufio.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	done := make(chan lineResult, 1)
	go func() {
		line, err := reader.ReadString('\n')
		done <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-done:
		if result.err != nil && !errors.Is(result.err, io.EOF) {
			return "", result.err
		}
		return result.line, nil
	}
}
