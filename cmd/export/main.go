// Command export dumps one tenant's catalog and estimates as indented JSON.
//
//	export -tenant <id> [-out file.json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mmynk/caterbase/internal/config"
	"github.com/mmynk/caterbase/internal/models"
	"github.com/mmynk/caterbase/internal/storage"
	"github.com/mmynk/caterbase/internal/storage/gormstore"
	"github.com/mmynk/caterbase/internal/storage/sqlite"
	"github.com/mmynk/caterbase/pkg/logging"
)

var (
	tenantFlag = flag.String("tenant", "", "Tenant ID to export (required)")
	outFlag    = flag.String("out", "", "Output file (default stdout)")
)

type estimateDump struct {
	*models.Estimate
	Selection *models.Selection
}

type dump struct {
	ExportedAt string
	Tenant     *models.Tenant
	Categories []*models.MenuCategory
	MenuItems  []*models.MenuItem
	Extras     []*models.ExtraItem
	Templates  []*models.MenuTemplate
	Estimates  []estimateDump
}

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.SetupWithLevel(cfg.LogLevel)

	if *tenantFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	var store storage.Store
	if cfg.DBDriver == config.DriverPostgres {
		store, err = gormstore.OpenPostgres(cfg.DatabaseDSN, cfg.DBDebug)
	} else {
		store, err = sqlite.New(cfg.DBPath)
	}
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var out io.Writer = os.Stdout
	if *outFlag != "" {
		f, err := os.Create(*outFlag)
		if err != nil {
			logger.Error("Failed to create output file", "path", *outFlag, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	d, err := collect(context.Background(), store, *tenantFlag)
	if err != nil {
		logger.Error("Export failed", "tenant_id", *tenantFlag, "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		logger.Error("Failed to write export", "error", err)
		os.Exit(1)
	}
	logger.Info("Export complete", "tenant_id", *tenantFlag, "menu_items", len(d.MenuItems), "estimates", len(d.Estimates))
}

func collect(ctx context.Context, store storage.Store, tenantID string) (*dump, error) {
	d := &dump{ExportedAt: time.Now().UTC().Format(time.RFC3339)}
	var err error
	if d.Tenant, err = store.GetTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	if d.Categories, err = store.ListCategories(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	if d.MenuItems, err = store.ListMenuItems(ctx, tenantID, false); err != nil {
		return nil, fmt.Errorf("menu items: %w", err)
	}
	if d.Extras, err = store.ListExtraItems(ctx, tenantID, false); err != nil {
		return nil, fmt.Errorf("extras: %w", err)
	}
	if d.Templates, err = store.ListTemplates(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	estimates, err := store.ListEstimates(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("estimates: %w", err)
	}
	for _, est := range estimates {
		sel, err := store.GetSelection(ctx, est.ID)
		if err != nil {
			return nil, fmt.Errorf("selection of %s: %w", est.ID, err)
		}
		d.Estimates = append(d.Estimates, estimateDump{Estimate: est, Selection: sel})
	}
	return d, nil
}
