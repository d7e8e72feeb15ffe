package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"calmpath/internal/config"
	"calmpath/internal/logging"
	"calmpath/internal/recommend"
	"calmpath/internal/repository"
	"calmpath/internal/service"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	recommendCmd := flag.NewFlagSet("recommend", flag.ExitOnError)

	exportOutput := exportCmd.String("output", "", "Output file path (default: calmpath_YYYYMMDD_HHMMSS.json)")
	importInput := importCmd.String("input", "", "Input file path (required)")
	recommendChild := recommendCmd.Int64("child", 0, "Child id (required)")
	recommendLimit := recommendCmd.Int("limit", recommend.DefaultLimit, "Number of activities to show")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"})

	stores, err := repository.Open(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer stores.Close()

	catalog := repository.NewDefaultActivityCatalog()

	// The in-memory backend starts empty on every run
	if _, err := service.NewSeedService(stores.Children).SeedChildren(repository.DefaultChildren()); err != nil {
		logging.Fatal().Err(err).Msg("failed to seed child profiles")
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(service.NewBackupService(stores.Children, stores.Outcomes, catalog, cfg.DatabaseType), *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(service.NewBackupService(stores.Children, stores.Outcomes, catalog, cfg.DatabaseType), *importInput)

	case "recommend":
		recommendCmd.Parse(os.Args[2:])
		if *recommendChild <= 0 {
			fmt.Println("Error: -child flag is required")
			recommendCmd.PrintDefaults()
			os.Exit(1)
		}
		handleRecommend(service.NewRecommendationService(stores.Children, catalog), *recommendChild, *recommendLimit)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(backupService *service.BackupService, outputPath string) {
	if outputPath == "" {
		outputPath = fmt.Sprintf("calmpath_%s.json", time.Now().Format("20060102_150405"))
	}

	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logging.Fatal().Err(err).Msg("failed to create output directory")
		}
	}

	if err := backupService.Export(outputPath); err != nil {
		logging.Fatal().Err(err).Msg("export failed")
	}

	fileInfo, err := os.Stat(outputPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to stat export")
	}
	logging.Info().Str("file", outputPath).Int64("bytes", fileInfo.Size()).Msg("export complete")
}

func handleImport(backupService *service.BackupService, inputPath string) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		logging.Fatal().Str("file", inputPath).Msg("input file does not exist")
	}

	summary, err := backupService.Import(inputPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("import failed")
	}
	fmt.Printf("Children: %d created, %d updated\n", summary.ChildrenCreated, summary.ChildrenUpdated)
	fmt.Printf("Outcomes: %d created, %d already present\n", summary.OutcomesCreated, summary.OutcomesSkipped)
}

func handleRecommend(recommendService *service.RecommendationService, childID int64, limit int) {
	ranked, err := recommendService.Rank(childID, limit)
	if err != nil {
		logging.Fatal().Err(err).Msg("recommendation failed")
	}
	if len(ranked) == 0 {
		fmt.Printf("No child with id %d\n", childID)
		os.Exit(1)
	}

	for i, r := range ranked {
		fmt.Printf("%2d. %-32s %6.2f  (%s, %s)\n", i+1, r.Activity.Title, r.Score, r.Activity.Category, r.Activity.Difficulty)
	}
}

func printUsage() {
	fmt.Println("CalmPath catalog tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  catalog export [options]       Export children, history and outcomes to JSON")
	fmt.Println("  catalog import [options]       Merge a JSON export into the store")
	fmt.Println("  catalog recommend [options]    Print ranked activities for a child")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: calmpath_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println()
	fmt.Println("Recommend Options:")
	fmt.Println("  -child <id>       Child id (required)")
	fmt.Println("  -limit <n>        Number of activities (default: 6)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DB_TYPE          memory, sqlite, postgres or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./calmpath.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
}
