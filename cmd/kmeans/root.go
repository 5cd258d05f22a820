package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/e-XpertSolutions/go-kmeans/cluster"
	"github.com/e-XpertSolutions/go-kmeans/internal/dataset"
)

var (
	dataPath   string // CSV file holding the points
	columns    string // Inclusive column range, "start:end"
	configPath string // Optional YAML engine config
	clusters   int    // Overrides the config cluster count when > 0
	seed       int64  // Overrides the config seed when != 0
	logLevel   string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "kmeans",
	Short: "Partition point data with k-means",
}

// runCmd clusters the points using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Cluster a CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logger := logrus.New()
		logger.SetOutput(cmd.ErrOrStderr())
		logger.SetLevel(level)

		return run(cmd.OutOrStdout(), logger)
	},
}

// Report is the YAML document printed by the run command.
type Report struct {
	State      string    `yaml:"state"`
	Iterations int       `yaml:"iterations"`
	Cost       float64   `yaml:"cost"`
	Dimension  int       `yaml:"dimension"`
	Sizes      []int     `yaml:"sizes"`
	Centroids  []float64 `yaml:"centroids,flow"`
	Assignment []int     `yaml:"assignment,flow"`
}

func run(out io.Writer, logger *logrus.Logger) error {
	cfg := cluster.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = cluster.LoadConfig(configPath); err != nil {
			return err
		}
	}
	if clusters > 0 {
		cfg.Clusters = clusters
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	start, end, err := parseColumns(columns)
	if err != nil {
		return err
	}
	data, dim, err := dataset.Import(dataPath, start, end)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %d points of dimension %d from %s", len(data)/dim, dim, dataPath)

	km, err := cluster.NewKMeans(dim, data)
	if err != nil {
		return err
	}
	if err := cfg.Apply(km); err != nil {
		return err
	}
	km.Logger = logger

	if err := km.Cluster(cfg.Clusters, nil); err != nil {
		return err
	}
	cost, err := km.Cost()
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(out)
	err = enc.Encode(Report{
		State:      km.State().String(),
		Iterations: km.Iterations(),
		Cost:       cost,
		Dimension:  km.Dimension(),
		Sizes:      km.Sizes(),
		Centroids:  km.Centroids(),
		Assignment: km.Assignment(),
	})
	if err != nil {
		return err
	}
	return enc.Close()
}

// parseColumns parses an inclusive "start:end" range; a single index selects
// one column.
func parseColumns(s string) (int, int, error) {
	first, last, found := strings.Cut(s, ":")
	start, err := strconv.Atoi(first)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid columns %q: %w", s, err)
	}
	if !found {
		return start, start, nil
	}
	end, err := strconv.Atoi(last)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid columns %q: %w", s, err)
	}
	return start, end, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&dataPath, "data", "", "CSV file with one point per row")
	runCmd.Flags().StringVar(&columns, "columns", "0:1", "Inclusive range of CSV columns holding coordinates")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML engine configuration")
	runCmd.Flags().IntVar(&clusters, "clusters", 0, "Number of clusters (overrides config)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for centroid initialization (overrides config)")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	_ = runCmd.MarkFlagRequired("data")

	rootCmd.AddCommand(runCmd)
}
