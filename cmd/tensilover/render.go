package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rajivbishwokarma/tensil/estimate"
	"github.com/rajivbishwokarma/tensil/layout"
)

// renderConfig bundles the knobs both render and batch accept.
type renderConfig struct {
	layers     int
	partitions int
	outDir     string
}

// renderOne builds one synthetic program and writes program.bin,
// printer.txt, and stats.json under cfg.outDir.
func renderOne(cfg renderConfig) error {
	if err := os.MkdirAll(cfg.outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	l := layout.Default()
	b, err := buildSyntheticBackend(l, cfg.layers, cfg.partitions)
	if err != nil {
		return fmt.Errorf("building synthetic program: %w", err)
	}

	programFile, err := os.Create(filepath.Join(cfg.outDir, "program.bin"))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := programFile.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "error closing program.bin: %v\n", cerr)
		}
	}()

	printerFile, err := os.Create(filepath.Join(cfg.outDir, "printer.txt"))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := printerFile.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "error closing printer.txt: %v\n", cerr)
		}
	}()

	stats := estimate.NewStats()
	if err := b.WriteSegments(programFile, printerFile, stats); err != nil {
		return fmt.Errorf("writing segments: %w", err)
	}

	statsFile, err := os.Create(filepath.Join(cfg.outDir, "stats.json"))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := statsFile.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "error closing stats.json: %v\n", cerr)
		}
	}()

	enc := json.NewEncoder(statsFile)
	enc.SetIndent("", "  ")
	return enc.Encode(stats.Report())
}
