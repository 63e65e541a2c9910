package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chrissnell/flightloads/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file (required)")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite database file (required)")
		name       = flag.String("name", config.DefaultConfigName, "Name of the configuration inside the database")
		force      = flag.Bool("force", false, "Overwrite existing SQLite database")
		dryRun     = flag.Bool("dry-run", false, "Show what would be done without executing")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <flightloads.yaml> -sqlite <flightloads.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Check if YAML file exists
	if _, err := os.Stat(*yamlFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: YAML file does not exist: %s\n", *yamlFile)
		os.Exit(1)
	}

	// Check if SQLite file already exists
	if _, err := os.Stat(*sqliteFile); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Error: SQLite file already exists: %s\n", *sqliteFile)
		fmt.Fprintf(os.Stderr, "Use -force to overwrite or choose a different filename\n")
		os.Exit(1)
	}

	fmt.Printf("Converting YAML configuration to SQLite...\n")
	fmt.Printf("  Source: %s\n", *yamlFile)
	fmt.Printf("  Target: %s (%s)\n", *sqliteFile, *name)

	// Load YAML configuration
	yamlProvider := config.NewYAMLProvider(*yamlFile)
	configData, err := yamlProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML configuration: %v\n", err)
		os.Exit(1)
	}
	if err := configData.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration is invalid: %v\n", err)
		os.Exit(1)
	}

	if *dryRun {
		printConfigSummary(configData)
		fmt.Println("DRY RUN complete - no database created")
		return
	}

	// Remove existing SQLite file if force is specified
	if *force {
		if err := os.Remove(*sqliteFile); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error removing existing SQLite file: %v\n", err)
			os.Exit(1)
		}
	}

	// Opening the provider creates and migrates the database
	sqliteProvider, err := config.NewSQLiteProviderNamed(*sqliteFile, *name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SQLite database: %v\n", err)
		os.Exit(1)
	}
	defer sqliteProvider.Close()

	if err := sqliteProvider.SaveConfig(configData); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration into SQLite: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Conversion completed successfully!\n")
	fmt.Printf("You can now use the SQLite backend with: -config-backend sqlite -config %s\n", *sqliteFile)
}

func printConfigSummary(c *config.ConfigData) {
	fmt.Println("\nConfiguration Summary:")
	a := c.Analysis
	fmt.Printf("Analysis:\n")
	fmt.Printf("  - bins: mean %g, range %g, from-to %g, exceedance %g\n", a.MeanBinSize, a.RangeBinSize, a.FromToBinSize, a.ExceedanceBinSize)
	fmt.Printf("  - baseline %g, racetrack %g, max load factor %g\n", a.Baseline, a.RacetrackThreshold, a.MaxLoadFactor)
	fmt.Printf("  - residue %s, log offset %s, stress scale %g\n", a.ResidueMethod, a.LogOffset, a.StressScale)

	fmt.Printf("\nInput:\n")
	fmt.Printf("  - path %q, format %q, load column %d, workers %d\n", c.Input.Path, c.Input.Format, c.Input.LoadColumn, c.Input.Workers)
	if c.Input.GroundTrim.Enabled {
		fmt.Printf("  - ground trim: window %d, lag %d, delta %g\n", c.Input.GroundTrim.Window, c.Input.GroundTrim.Lag, c.Input.GroundTrim.Delta)
	}

	fmt.Printf("\nMaterial:\n")
	if c.Material.Material != "" {
		fmt.Printf("  - %s / %s\n", c.Material.Material, c.Material.Condition)
	}
	fmt.Printf("  - library %q (%s)\n", c.Material.Source, c.Material.Backend)

	fmt.Printf("\nServer: %s:%d\n", c.Server.ListenAddr, c.Server.Port)
}
