package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/mateusz58/catalog-staging/config"
	"github.com/mateusz58/catalog-staging/internal/app/service"
	apperrors "github.com/mateusz58/catalog-staging/internal/errors"
	"github.com/mateusz58/catalog-staging/pkg/catalogapi"
	"github.com/mateusz58/catalog-staging/pkg/logger"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: import <component-id> <sheet.xlsx>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.EnableColor,
	})

	componentID, err := strconv.ParseUint(os.Args[1], 10, 64)
	if err != nil {
		logger.Fatal("Invalid component id", err)
	}
	sheetPath := os.Args[2]

	client, err := catalogapi.NewClient(catalogapi.Config{
		BaseURL:   cfg.API.BaseURL,
		CSRFToken: cfg.API.CSRFToken,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	})
	if err != nil {
		logger.Fatal("Failed to create backend client", err)
	}

	session := service.NewStagingSession(client, uint(componentID), cfg.API.MaxConcurrency)
	ctx := context.Background()
	if err := session.Hydrate(ctx); err != nil {
		logger.Fatal("Failed to hydrate session", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", sheetPath)
	importer := service.NewBulkImporter(session)
	report, err := importer.ImportXLSX(sheetPath)
	if err != nil {
		logger.Fatal("Import failed", err)
	}

	fmt.Printf("Staged %d variants with %d pictures\n", report.VariantsStaged, report.PicturesStaged)
	for _, rowErr := range report.RowErrors {
		fmt.Printf("  row %d skipped: %v\n", rowErr.Row, rowErr.Err)
	}

	validation := session.Validate()
	if !validation.Submittable {
		fmt.Println("Staged state is not submittable; fix the sheet and retry.")
		os.Exit(1)
	}

	fmt.Print("Do you want to flush the staged variants? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Flush cancelled.")
		return
	}

	if err := session.Flush(ctx); err != nil {
		info := apperrors.ParseError(err)
		logger.Error("Flush failed", err, map[string]interface{}{"code": info.Code})
		fmt.Fprintln(os.Stderr, info.Message)
		os.Exit(1)
	}
	fmt.Println("Flush complete.")
}
