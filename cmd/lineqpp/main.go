// Command lineqpp is the preprocessor's command-line entry point: flag
// handling, file I/O, and exit codes, wired with
// github.com/spf13/cobra the way Consensys-go-corset
// wires its own single-purpose commands (cmd/testgen/main.go): one
// cobra.Command at the root, flags registered in init, RunE doing the
// actual work and returning an error for cobra to report.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lineqpp-go/lineqpp/lineqpp"
)

const version = "lineqpp 0.1.0"

var rootCmd = &cobra.Command{
	Use:           "lineqpp [FILE]",
	Short:         "A MetaPost-flavoured linear-equation text preprocessor.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringP("output", "o", "", "redirect output to FILE (default stdout)")
	rootCmd.Flags().BoolP("debug", "d", false, "enable debug trace to stderr")
	rootCmd.Flags().BoolP("version", "v", false, "print version and exit")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if v, _ := cmd.Flags().GetBool("version"); v {
		fmt.Println(version)
		os.Exit(0)
	}

	in := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	out := os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	opts := &lineqpp.Options{Filename: inputName(args)}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		opts.Debug = os.Stderr
	}

	if err := lineqpp.Run(in, out, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return nil
}

func inputName(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "<stdin>"
}
