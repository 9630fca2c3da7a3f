// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var errNoInput = errors.New("no input: pass a file or pipe the document on stdin")

// readInput returns the content of the file named by args, or of stdin
// when args is empty or "-". An interactive terminal on stdin is refused
// rather than waited on.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return "", errNoInput
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// writeOutput writes s to the command's output, ending it with a newline.
func writeOutput(cmd *cobra.Command, s string) error {
	w := cmd.OutOrStdout()
	if _, err := io.WriteString(w, s); err != nil {
		return err
	}
	if len(s) > 0 && s[len(s)-1] == '\n' {
		return nil
	}
	_, err := io.WriteString(w, "\n")
	return err
}
