package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skdltmxn/ole-go/cfb"
	"github.com/skdltmxn/ole-go/ddf"
	"github.com/skdltmxn/ole-go/ole"
)

var (
	outputFile string
	output     io.Writer
	debug      bool
	logger     *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cfbview",
	Short: "OLE2 compound document viewer",
	Long: `cfbview is a command-line tool for inspecting OLE2 compound
documents (legacy .doc, .xls, .ppt, .msg and friends).

It can list and extract streams, decode property sets, dump escher
drawing records and render formula token blocks.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debug {
			logger = cfb.NewDebugLogger(os.Stderr)
		}
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = os.Stdout
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "trace container loading on stderr")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(escherCmd)
	rootCmd.AddCommand(propsCmd)
	rootCmd.AddCommand(formulaCmd)
	rootCmd.AddCommand(dumpCmd)
}

func openDocument(path string) (*ole.File, error) {
	var opts []cfb.Option
	if logger != nil {
		opts = append(opts, cfb.WithLogger(logger))
	}
	f, err := ole.Open(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	return f, nil
}

func ddfOptions() []ddf.Option {
	if logger == nil {
		return nil
	}
	return []ddf.Option{ddf.WithLogger(logger)}
}
