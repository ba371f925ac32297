package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gogirder/internal/version"
)

// Environment variables read after the optional .env file is loaded.
const (
	envCriteria = "GOGIRDER_CRITERIA"
	envLogLevel = "GOGIRDER_LOG_LEVEL"
)

var (
	rootEnvFile  string
	rootCriteria string
	rootVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "gogirder",
	Short: "Precast girder segment lifting and hauling analysis",
	Long: `gogirder - Precast Girder Handling Analysis

A CLI tool for checking precast concrete girder segments during
temporary handling:
  - Lifting from the casting bed on two lift points
  - Hauling on a truck with two bunk supports

For each support configuration it reports moments and fiber stresses
at every point of interest, factors of safety against cracking,
lateral failure and rollover, and it can search for the smallest
overhangs that satisfy every check.

Stability checks follow Mast (1989, 1993); allowable tension follows
AASHTO LRFD 5.9.2.3.1.`,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gogirder v%-46s║\n", version.Version)
		fmt.Println("  ║   Precast Girder Lifting and Hauling Analysis             ║")
		fmt.Printf("  ║   %s ©  %-36s║\n", version.Author, version.Year)
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Lifting analysis and lift point design")
		fmt.Println("    • Hauling analysis and bunk location design")
		fmt.Println("    • Batch runs over many segments with xlsx reports")
		fmt.Println("    • Section properties of polygonal girder shapes")
		fmt.Println()
		fmt.Println("  Use 'gogirder --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&rootEnvFile, "env", ".env", "Environment file to load if present")
	rootCmd.PersistentFlags().StringVar(&rootCriteria, "criteria", "", "Rule set preset name or JSON file (default $"+envCriteria+" or standard)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Log analysis details to stderr")
}

// setup loads the environment file and configures logging.
func setup(cmd *cobra.Command, args []string) error {
	if rootEnvFile != "" {
		if err := godotenv.Load(rootEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", rootEnvFile, err)
		}
	}

	log.SetOutput(os.Stderr)
	level := os.Getenv(envLogLevel)
	if rootVerbose {
		level = "debug"
	}
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)

	if rootCriteria == "" {
		rootCriteria = os.Getenv(envCriteria)
	}
	if rootCriteria == "" {
		rootCriteria = "standard"
	}
	return nil
}

func parseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "warn", "warning":
		return log.LevelWarn, nil
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "", "info":
		return log.LevelInfo, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
