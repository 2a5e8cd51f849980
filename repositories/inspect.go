package repositories

import (
	"fmt"
	"strings"

	"github.com/mama165/sdk-go/database"
)

// ExperimentMapper renders registry entries for the badger debug inspector.
// Secondary index keys keep the default rendering.
func ExperimentMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	if strings.HasPrefix(key, idIndexPrefix) {
		row.Type = "INDEX"
		return row
	}

	record, err := DecodeExperiment(val)
	if err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}

	row.Type = "EXPERIMENT"
	row.Detail = fmt.Sprintf("%s (%s, %s) accuracy=%.3f", record.Name, record.Model, record.Strategy, record.Accuracy)
	return row
}
