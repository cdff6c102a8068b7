package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/ole-go/formula"
	"github.com/skdltmxn/ole-go/internal/stream"
)

var (
	formulaRaw    bool
	formulaTokens bool
)

var formulaCmd = &cobra.Command{
	Use:   "formula <hex>...",
	Short: "Render a formula token block",
	Long: `Decode a formula given as hex bytes and print it in infix form.

The input starts with the 16-bit token length unless --raw is given, in which
case every byte is treated as token data. Whitespace between hex digits is
ignored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFormula,
}

func init() {
	formulaCmd.Flags().BoolVar(&formulaRaw, "raw", false, "input has no length prefix")
	formulaCmd.Flags().BoolVarP(&formulaTokens, "tokens", "t", false, "list the decoded tokens")
}

func runFormula(cmd *cobra.Command, args []string) error {
	data, err := hex.DecodeString(strings.Join(strings.Fields(strings.Join(args, " ")), ""))
	if err != nil {
		return fmt.Errorf("invalid hex input: %w", err)
	}

	var ptgs []formula.Ptg
	if formulaRaw {
		ptgs, err = formula.ReadTokens(len(data), stream.NewReader(data))
	} else {
		var f *formula.Formula
		f, _, err = formula.ParseFormula(data)
		if err == nil {
			ptgs, err = f.Tokens()
		}
	}
	if err != nil {
		return fmt.Errorf("failed to decode formula: %w", err)
	}

	if formulaTokens {
		for i, p := range ptgs {
			fmt.Fprintf(output, "%3d  0x%02X  %s\n", i, p.ID(), p)
		}
	}

	text, err := formula.Render(ptgs)
	if err != nil {
		return fmt.Errorf("failed to render formula: %w", err)
	}
	fmt.Fprintf(output, "=%s\n", text)
	return nil
}
