package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"mleus/errors"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func initExperimentRepository(t *testing.T, limit *int) *ExperimentRepository {
	t.Helper()
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	req.NoError(err)
	t.Cleanup(func() { _ = blugeWriter.Close() })

	return NewExperimentRepository(db, blugeWriter, slog.Default(), limit)
}

func newRecord(project, model string, at time.Time) ExperimentRecord {
	return ExperimentRecord{
		ID:               uuid.New(),
		Project:          project,
		Name:             fmt.Sprintf("nclasses(2)ninput(20)model(%s)epochs(3)batchsize(4)device(cpu)", model),
		Dir:              "/tmp/" + model,
		Author:           "alice",
		Model:            model,
		Strategy:         "word_index",
		Device:           "cpu",
		Classes:          2,
		InputLength:      20,
		Epochs:           3,
		BatchSize:        4,
		AveragePrecision: 0.5,
		AverageRecall:    0.25,
		AverageFScore:    0.125,
		Accuracy:         0.75,
		Losses:           []float64{1.5, 0.75, 0.5},
		At:               at,
	}
}

func TestExperimentRepository_StoreAndGet(t *testing.T) {
	req := require.New(t)
	repo := initExperimentRepository(t, nil)

	original := newRecord("sentiment", "centroid", time.Now().UTC())
	req.NoError(repo.Store(original))

	fetched, err := repo.Get(original.ID)
	req.NoError(err)
	req.Equal(original, fetched)

	_, err = repo.Get(uuid.New())
	req.ErrorIs(err, errors.ErrExperimentNotFound)
}

func TestExperimentRepository_ListPagination(t *testing.T) {
	req := require.New(t)
	repo := initExperimentRepository(t, lo.ToPtr(2))
	now := time.Now().UTC()

	for i := 1; i <= 3; i++ {
		req.NoError(repo.Store(newRecord("sentiment", fmt.Sprintf("model%d", i), now.Add(time.Duration(i)*time.Minute))))
	}
	req.NoError(repo.Store(newRecord("topics", "other", now)))

	page1, cursor, err := repo.List("sentiment", nil)
	req.NoError(err)
	req.Len(page1, 2)
	req.Equal("model3", page1[0].Model)
	req.Equal("model2", page1[1].Model)

	page2, _, err := repo.List("sentiment", cursor)
	req.NoError(err)
	req.Len(page2, 1)
	req.Equal("model1", page2[0].Model)
}

func TestExperimentRepository_Search(t *testing.T) {
	req := require.New(t)
	repo := initExperimentRepository(t, nil)
	now := time.Now().UTC()

	glove := newRecord("sentiment", "glove", now)
	glove.Notes = "baseline with pretrained vectors"
	req.NoError(repo.Store(glove))
	req.NoError(repo.Store(newRecord("sentiment", "centroid", now.Add(time.Minute))))

	results, total, err := repo.Search(context.Background(), "pretrained", 10)
	req.NoError(err)
	req.Equal(uint64(1), total)
	req.Len(results, 1)
	req.Equal(glove.ID, results[0].ID)

	_, total, err = repo.Search(context.Background(), "cpu", 10)
	req.NoError(err)
	req.Equal(uint64(2), total)
}

func TestExperimentMapper(t *testing.T) {
	req := require.New(t)
	record := newRecord("sentiment", "centroid", time.Now())
	record.Accuracy = 0.5
	s, err := fromExperimentRecord(record)
	req.NoError(err)
	value, err := proto.Marshal(s)
	req.NoError(err)

	row := ExperimentMapper("exp:sentiment:1:"+record.ID.String(), value)
	req.Equal("EXPERIMENT", row.Type)
	req.Contains(row.Detail, "accuracy=0.500")

	row = ExperimentMapper("exp:sentiment:2:x", []byte("garbage"))
	req.Equal("Error: unmarshal failed", row.Detail)
}
