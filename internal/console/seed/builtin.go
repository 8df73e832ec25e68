package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/agentfleet/fleetconsole/internal/console/store"
	"github.com/agentfleet/fleetconsole/pkg/models"
)

//go:embed seed.json
var builtinSeedData []byte

// ImportBuiltinSeedData loads the embedded demo fleet into the store.
func ImportBuiltinSeedData(st *store.Store) error {
	records, err := loadSeedData(builtinSeedData)
	if err != nil {
		return err
	}
	importRecords(st, records)
	return nil
}

// ImportFromPath loads server records from a JSON file into the store.
func ImportFromPath(st *store.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	records, err := loadSeedData(data)
	if err != nil {
		return err
	}
	importRecords(st, records)
	return nil
}

func loadSeedData(data []byte) ([]models.ServerRecord, error) {
	var records []models.ServerRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return records, nil
}

// importRecords inserts records oldest-first so the store's newest-first
// ordering matches the seed file order.
func importRecords(st *store.Store, records []models.ServerRecord) {
	for i := len(records) - 1; i >= 0; i-- {
		if err := st.Insert(records[i]); err != nil {
			log.Printf("Failed to import seed record %q: %v", records[i].Name, err)
		}
	}
}
