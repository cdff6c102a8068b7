package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <file> <stream>",
	Short: "Write a stream's raw contents",
	Args:  cobra.ExactArgs(2),
	RunE:  runCat,
}

func runCat(cmd *cobra.Command, args []string) error {
	f, err := openDocument(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	in, err := f.OpenDocument(args[1])
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	defer in.Close()

	if _, err := io.Copy(output, in); err != nil {
		return fmt.Errorf("failed to copy stream: %w", err)
	}
	return nil
}
