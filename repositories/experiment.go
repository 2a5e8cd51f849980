//go:generate go run go.uber.org/mock/mockgen -source=experiment.go -destination=../mocks/mock_experiment_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mleus/errors"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type IExperimentRepository interface {
	Store(record ExperimentRecord) error
	Get(id uuid.UUID) (ExperimentRecord, error)
	List(project string, cursor *string) ([]ExperimentRecord, *string, error)
	Search(ctx context.Context, query string, limit int) ([]ExperimentRecord, uint64, error)
}

// ExperimentRecord is what the registry keeps of a finished run.
type ExperimentRecord struct {
	ID               uuid.UUID
	Project          string
	Name             string
	Dir              string
	Author           string
	Model            string
	Strategy         string
	Device           string
	Notes            string
	Classes          int
	InputLength      int
	Epochs           int
	BatchSize        int
	AveragePrecision float64
	AverageRecall    float64
	AverageFScore    float64
	Accuracy         float64
	Losses           []float64
	At               time.Time
}

type ExperimentRepository struct {
	db              *badger.DB
	index           *bluge.Writer
	log             *slog.Logger
	limitExperiment *int
}

func NewExperimentRepository(db *badger.DB, index *bluge.Writer, log *slog.Logger, limitExperiment *int) *ExperimentRepository {
	return &ExperimentRepository{db: db, index: index, log: log, limitExperiment: limitExperiment}
}

const (
	experimentPrefix = "exp:"
	idIndexPrefix    = "idx:exp:"
)

// Store persists a run in BadgerDB and indexes its text fields in bluge.
// The key is formatted as "exp:{project}:{timestamp_padded}:{uuid}" so that a prefix
// scan over a project yields runs in chronological order. A secondary
// "idx:exp:{uuid}" entry points to the main key for lookups by id.
func (r *ExperimentRepository) Store(record ExperimentRecord) error {
	key := fmt.Sprintf("%s%s:%019d:%s", experimentPrefix, record.Project, record.At.UnixNano(), record.ID)
	s, err := fromExperimentRecord(record)
	if err != nil {
		return err
	}
	bytes, err := proto.Marshal(s)
	if err != nil {
		return err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(key), bytes); err != nil {
			return err
		}
		return txn.Set([]byte(idIndexPrefix+record.ID.String()), []byte(key))
	})
	if err != nil {
		return err
	}

	if r.index == nil {
		return nil
	}
	doc := bluge.NewDocument(record.ID.String()).
		AddField(bluge.NewTextField("content", searchableContent(record))).
		AddField(bluge.NewKeywordField("project", record.Project).StoreValue())
	if err := r.index.Update(doc.ID(), doc); err != nil {
		r.log.Warn("Experiment stored but not indexed", "id", record.ID, "error", err)
		return err
	}
	return nil
}

func searchableContent(record ExperimentRecord) string {
	return strings.Join(lo.Compact([]string{
		record.Name, record.Model, record.Strategy, record.Device, record.Author, record.Notes,
	}), " ")
}

func (r *ExperimentRepository) Get(id uuid.UUID) (ExperimentRecord, error) {
	var value []byte
	err := r.db.View(func(txn *badger.Txn) error {
		idx, err := txn.Get([]byte(idIndexPrefix + id.String()))
		if err != nil {
			return err
		}
		key, err := idx.ValueCopy(nil)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return ExperimentRecord{}, fmt.Errorf("%w: %s", errors.ErrExperimentNotFound, id)
	}
	if err != nil {
		return ExperimentRecord{}, err
	}
	return DecodeExperiment(value)
}

// List returns the runs of a project, most recent first. The returned cursor is passed
// back to fetch the next page once limitExperiment records have been read.
func (r *ExperimentRepository) List(project string, cursor *string) ([]ExperimentRecord, *string, error) {
	var values [][]byte
	var lastKey string
	err := r.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("%s%s:", experimentPrefix, project)
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if r.limitExperiment != nil && len(values) == *r.limitExperiment {
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefixStr):])
			err := item.Value(func(value []byte) error {
				values = append(values, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	records := make([]ExperimentRecord, 0, len(values))
	for _, v := range values {
		record, err := DecodeExperiment(v)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, record)
	}
	return records, &lastKey, nil
}

// Search runs a full-text match over name, model, strategy, device, author and notes,
// best matches first. The total counts every match, not only the returned ones.
func (r *ExperimentRepository) Search(ctx context.Context, query string, limit int) ([]ExperimentRecord, uint64, error) {
	if r.index == nil {
		return nil, 0, nil
	}
	reader, err := r.index.Reader()
	if err != nil {
		return nil, 0, err
	}
	defer reader.Close()

	q := bluge.NewMatchQuery(query).SetField("content")
	request := bluge.NewTopNSearch(limit, q).WithStandardAggregations()
	matches, err := reader.Search(ctx, request)
	if err != nil {
		return nil, 0, err
	}

	var ids []uuid.UUID
	match, err := matches.Next()
	for err == nil && match != nil {
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				if id, parseErr := uuid.Parse(string(value)); parseErr == nil {
					ids = append(ids, id)
				}
			}
			return true
		})
		if err != nil {
			break
		}
		match, err = matches.Next()
	}
	if err != nil {
		return nil, 0, err
	}

	records := make([]ExperimentRecord, 0, len(ids))
	for _, id := range ids {
		record, err := r.Get(id)
		if err != nil {
			r.log.Debug("Indexed experiment missing from store", "id", id, "error", err)
			continue
		}
		records = append(records, record)
	}
	return records, matches.Aggregations().Count(), nil
}

func fromExperimentRecord(record ExperimentRecord) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":                record.ID.String(),
		"project":           record.Project,
		"name":              record.Name,
		"dir":               record.Dir,
		"author":            record.Author,
		"model":             record.Model,
		"strategy":          record.Strategy,
		"device":            record.Device,
		"notes":             record.Notes,
		"classes":           record.Classes,
		"input_length":      record.InputLength,
		"epochs":            record.Epochs,
		"batch_size":        record.BatchSize,
		"average_precision": record.AveragePrecision,
		"average_recall":    record.AverageRecall,
		"average_fscore":    record.AverageFScore,
		"accuracy":          record.Accuracy,
		"losses":            lo.Map(record.Losses, func(l float64, _ int) any { return l }),
		"at":                record.At.UTC().Format(time.RFC3339Nano),
	})
}

// DecodeExperiment reads a record back from its badger value.
func DecodeExperiment(value []byte) (ExperimentRecord, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(value, &s); err != nil {
		return ExperimentRecord{}, err
	}
	return toExperimentRecord(&s)
}

func toExperimentRecord(s *structpb.Struct) (ExperimentRecord, error) {
	f := s.GetFields()
	id, err := uuid.Parse(f["id"].GetStringValue())
	if err != nil {
		return ExperimentRecord{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, f["at"].GetStringValue())
	if err != nil {
		return ExperimentRecord{}, err
	}
	number := func(name string) int { return int(f[name].GetNumberValue()) }

	return ExperimentRecord{
		ID:               id,
		Project:          f["project"].GetStringValue(),
		Name:             f["name"].GetStringValue(),
		Dir:              f["dir"].GetStringValue(),
		Author:           f["author"].GetStringValue(),
		Model:            f["model"].GetStringValue(),
		Strategy:         f["strategy"].GetStringValue(),
		Device:           f["device"].GetStringValue(),
		Notes:            f["notes"].GetStringValue(),
		Classes:          number("classes"),
		InputLength:      number("input_length"),
		Epochs:           number("epochs"),
		BatchSize:        number("batch_size"),
		AveragePrecision: f["average_precision"].GetNumberValue(),
		AverageRecall:    f["average_recall"].GetNumberValue(),
		AverageFScore:    f["average_fscore"].GetNumberValue(),
		Accuracy:         f["accuracy"].GetNumberValue(),
		Losses: lo.Map(f["losses"].GetListValue().GetValues(), func(v *structpb.Value, _ int) float64 {
			return v.GetNumberValue()
		}),
		At: at,
	}, nil
}
