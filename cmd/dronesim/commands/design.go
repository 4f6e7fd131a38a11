package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eneri4/exploration-drones/internal/design"
	"github.com/eneri4/exploration-drones/internal/printer"
)

var (
	designV      int
	designK      int
	designLambda int
)

var designCmd = &cobra.Command{
	Use:   "design",
	Short: "Show a block design or list the known ones",
	Long: `Show the blocks of a (v, k, λ) balanced incomplete block design and
check that every pair of drones meets in exactly λ blocks.

Without --v the known parameter sets are listed.

Examples:
  dronesim design
  dronesim design --v 7 --k 3 --lambda 1`,
	RunE: runDesign,
}

func init() {
	designCmd.Flags().IntVar(&designV, "v", 0, "Number of drones")
	designCmd.Flags().IntVar(&designK, "k", 0, "Block size")
	designCmd.Flags().IntVar(&designLambda, "lambda", 1, "Meetings per pair")
	rootCmd.AddCommand(designCmd)
}

func runDesign(cmd *cobra.Command, args []string) error {
	if designV == 0 {
		printer.Heading("Known designs (v,k,λ):\n")
		for _, t := range design.Triples() {
			r, b, _ := design.Params(t.V, t.K, t.Lambda)
			printer.Info("  %-12s r=%-3d b=%d\n", t, r, b)
		}
		return nil
	}

	t := design.Triple{V: designV, K: designK, Lambda: designLambda}
	r, b, err := design.Params(t.V, t.K, t.Lambda)
	if err != nil {
		return printer.Error("impossible design parameters", err.Error(), nil)
	}
	d, err := design.Known(t)
	if err != nil {
		var known []string
		for _, kt := range design.Triples() {
			known = append(known, kt.String())
		}
		return printer.Error("design not available", err.Error(), []string{
			"Known designs: " + strings.Join(known, " "),
		})
	}
	if err := d.Validate(t.V, t.K, t.Lambda); err != nil {
		return printer.Error("design failed validation", err.Error(), nil)
	}

	printer.Heading("Design %s: r=%d b=%d\n", t, r, b)
	for i, blk := range d.Blocks {
		printer.Info("  %3d: %s\n", i, formatBlock(blk))
	}
	printer.Success("every pair meets in exactly %d block(s)\n", t.Lambda)
	return nil
}

func formatBlock(b design.Block) string {
	parts := make([]string, len(b))
	for i, x := range b {
		parts[i] = fmt.Sprint(x)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
