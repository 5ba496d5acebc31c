package seed

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sync/errgroup"

	"repairshop_backend/internal/repositories"
	"repairshop_backend/pkg/utils"
)

//go:embed fixtures/*.json
var embedded embed.FS

// Fixture files, one collection each.
const (
	ProductsFile     = "products.json"
	InvoicesFile     = "invoices.json"
	RepairOrdersFile = "repair_orders.json"
	TechniciansFile  = "technicians.json"
	PredictionsFile  = "restock_predictions.json"
)

// Fixtures returns the built-in fixtures, or those in dir when it is set.
func Fixtures(dir string) (fs.FS, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("fixtures dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("fixtures dir %s is not a directory", dir)
		}
		return os.DirFS(dir), nil
	}
	return fs.Sub(embedded, "fixtures")
}

func readJSON(fsys fs.FS, name string, out interface{}) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode fixture %s: %w", name, err)
	}
	return nil
}

// Load decodes the fixture files concurrently into a snapshot. Settings are left to the store defaults.
func Load(fsys fs.FS) (repositories.Snapshot, error) {
	var snap repositories.Snapshot
	files := []struct {
		name string
		out  interface{}
	}{
		{ProductsFile, &snap.Products},
		{InvoicesFile, &snap.Invoices},
		{RepairOrdersFile, &snap.RepairOrders},
		{TechniciansFile, &snap.Technicians},
		{PredictionsFile, &snap.RestockPredictions},
	}
	var g errgroup.Group
	for _, f := range files {
		f := f
		g.Go(func() error {
			return readJSON(fsys, f.name, f.out)
		})
	}
	if err := g.Wait(); err != nil {
		return repositories.Snapshot{}, err
	}
	return snap, nil
}

// Apply loads the fixtures into store.
func Apply(store *repositories.Store, fsys fs.FS) error {
	snap, err := Load(fsys)
	if err != nil {
		return err
	}
	store.ImportSnapshot(snap)
	utils.LogInfo("Store seeded from fixtures", map[string]interface{}{
		"products":      len(snap.Products),
		"invoices":      len(snap.Invoices),
		"repair_orders": len(snap.RepairOrders),
		"technicians":   len(snap.Technicians),
		"predictions":   len(snap.RestockPredictions),
	})
	return nil
}
