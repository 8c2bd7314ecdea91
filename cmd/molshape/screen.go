package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/molshape/molshape"
	"github.com/molshape/molshape/engine"
	"github.com/molshape/molshape/gaussian"
	"github.com/molshape/molshape/sdf"
)

type screenFlags struct {
	query      string
	library    string
	output     string
	configPath string
	device     int
	lanes      int
	verbose    bool
}

func newScreenCmd() *cobra.Command {
	var flags screenFlags

	screenCmd := &cobra.Command{
		Use:   "screen",
		Short: "Score a molecule library against a query",
		Long: `Screen reads a query molecule and a library (SDF, optionally gzipped),
optimizes every library molecule onto the query and writes a CSV ranked by
combined shape and color Tanimoto score.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreen(cmd, flags)
		},
	}

	screenCmd.Flags().StringVarP(&flags.query, "query", "q", "", "query SDF file (first record is used)")
	screenCmd.Flags().StringVarP(&flags.library, "library", "l", "", "library SDF file, .gz accepted")
	screenCmd.Flags().StringVarP(&flags.output, "output", "o", "-", "output CSV path, - for stdout")
	screenCmd.Flags().StringVar(&flags.configPath, "config", "", "optional YAML config file")
	screenCmd.Flags().IntVar(&flags.device, "device", 0, "execution device id")
	screenCmd.Flags().IntVar(&flags.lanes, "lanes", 0, "parallel lanes, 0 = device default")
	screenCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")
	screenCmd.MarkFlagRequired("query")
	screenCmd.MarkFlagRequired("library")

	return screenCmd
}

func runScreen(cmd *cobra.Command, flags screenFlags) error {
	opts, err := screenOptions(cmd, flags)
	if err != nil {
		return err
	}

	// Query and library load concurrently; both must succeed.
	var (
		query   *gaussian.Molecule
		library []*gaussian.Molecule
	)
	var g errgroup.Group
	g.Go(func() error {
		mols, err := sdf.ReadFile(flags.query)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		if len(mols) == 0 {
			return fmt.Errorf("query: %s holds no molecules", flags.query)
		}
		query = mols[0]
		return nil
	})
	g.Go(func() error {
		mols, err := sdf.ReadFile(flags.library)
		if err != nil {
			return fmt.Errorf("library: %w", err)
		}
		library = mols
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	screener, err := molshape.New(opts...)
	if err != nil {
		return err
	}
	defer screener.Close()

	scores, err := screener.Screen(cmd.Context(), query, library)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flags.output != "-" {
		f, err := os.Create(flags.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return writeRanking(out, library, scores)
}

func screenOptions(cmd *cobra.Command, flags screenFlags) ([]molshape.Option, error) {
	var opts []molshape.Option
	if flags.configPath != "" {
		cfg, err := molshape.LoadConfig(flags.configPath)
		if err != nil {
			return nil, err
		}
		opts, err = cfg.Options()
		if err != nil {
			return nil, err
		}
	}
	// Explicit flags win over the config file.
	if cmd.Flags().Changed("device") || flags.configPath == "" {
		opts = append(opts, molshape.WithDevice(flags.device))
	}
	if flags.lanes > 0 {
		opts = append(opts, molshape.WithLanes(flags.lanes))
	}

	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelDebug
	}
	opts = append(opts, molshape.WithLogger(molshape.NewTextLogger(level)))
	return opts, nil
}

type rankedScore struct {
	name  string
	score engine.PairScore
}

// writeRanking emits the CSV ranking, best combo first. Ties keep library
// order so output is reproducible.
func writeRanking(w io.Writer, library []*gaussian.Molecule, scores []engine.PairScore) error {
	ranked := make([]rankedScore, len(scores))
	for i, s := range scores {
		ranked[i] = rankedScore{name: library[i].Name, score: s}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score.Combo > ranked[j].score.Combo
	})

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rank", "name", "shape_tanimoto", "color_tanimoto", "combo", "iterations"}); err != nil {
		return err
	}
	for i, r := range ranked {
		rec := []string{
			strconv.Itoa(i + 1),
			r.name,
			strconv.FormatFloat(r.score.ShapeTanimoto, 'f', 4, 64),
			strconv.FormatFloat(r.score.ColorTanimoto, 'f', 4, 64),
			strconv.FormatFloat(r.score.Combo, 'f', 4, 64),
			strconv.Itoa(r.score.Iterations),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
