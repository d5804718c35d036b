// Command tensilover assembles a synthetic multi-layer program
// through the segment/backend API and renders it to a packed binary
// program, a disassembly, and cycle/energy stats: a harness for
// manually inspecting the overlay scheduler. It is not the graph
// compiler's real entry point; that front end lives outside this
// module.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tensilover",
		Short: "Render synthetic tensil backend programs for manual inspection",
	}
	root.AddCommand(newRenderCmd(), newBatchCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	cfg := renderConfig{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one synthetic program to program.bin, printer.txt, stats.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := renderOne(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfg.outDir)
			return nil
		},
	}
	cmd.Flags().IntVar(&cfg.layers, "layers", 3, "number of synthetic layers")
	cmd.Flags().IntVar(&cfg.partitions, "partitions", 2, "partitions per layer")
	cmd.Flags().StringVar(&cfg.outDir, "out", "out", "output directory")
	return cmd
}

func newBatchCmd() *cobra.Command {
	cfg := renderConfig{}
	var count, workers int
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Render N independent synthetic programs concurrently",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := renderBatch(cfg, count, workers); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d runs under %s\n", count, cfg.outDir)
			return nil
		},
	}
	cmd.Flags().IntVar(&cfg.layers, "layers", 3, "number of synthetic layers")
	cmd.Flags().IntVar(&cfg.partitions, "partitions", 2, "partitions per layer")
	cmd.Flags().StringVar(&cfg.outDir, "out", "out", "output directory")
	cmd.Flags().IntVar(&count, "count", 4, "number of programs to render")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker pool size (0 = NumCPU)")
	return cmd
}
