package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"mleus/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type inspectConfig struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" default:"experiments/registry"`
	ProjectName    string `envconfig:"PROJECT_NAME"`
}

func main() {
	var cfg inspectConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal("Config error: ", err)
	}
	dbPath := flag.String("db", cfg.BadgerFilepath, "Path to badger DB")
	project := flag.String("project", cfg.ProjectName, "Only show the experiments of this project")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Project", "At", "ID", "Model", "Strategy", "Epochs", "Accuracy", "F-Score"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	// Secondary index keys start with "idx:exp:" and never match
	prefix := "exp:"
	if *project != "" {
		prefix += *project + ":"
	}

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				record, err := repositories.DecodeExperiment(v)
				if err != nil {
					// Keep listing the other entries
					fmt.Printf("Error decoding key %s: %v\n", string(item.Key()), err)
					return nil
				}

				displayID := record.ID.String()[:8]
				table.Append([]string{
					string(item.Key()),
					record.Project,
					record.At.Format("2006-01-02 15:04:05"),
					displayID,
					record.Model,
					record.Strategy,
					strconv.Itoa(record.Epochs),
					fmt.Sprintf("%.3f", record.Accuracy),
					fmt.Sprintf("%.3f", record.AverageFScore),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)

	db, err := badger.Open(opts)
	if err != nil {
		// A crashed writer leaves a value log that needs truncating first
		if strings.Contains(err.Error(), "Log truncate required") {
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}
			_ = db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
