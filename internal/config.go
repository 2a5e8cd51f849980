package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Config is shared by the analyze, train and summarize commands. Each command checks
// the fields it needs with its own validation group.
type Config struct {
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	DatasetPath    string `env:"DATASET_PATH" validate:"required_if=Command analyze,required_if=Command train"`
	ExperimentsDir string `env:"EXPERIMENTS_DIR,default=experiments" validate:"required"`
	ProjectName    string `env:"PROJECT_NAME,default=mleus" validate:"required"`
	Author         string `env:"AUTHOR"`

	Strategy        string `env:"STRATEGY,default=word_index"`
	VocabularyPath  string `env:"VOCABULARY_PATH"`
	CharactersPath  string `env:"CHARACTERS_PATH"`
	EmbeddingPath   string `env:"EMBEDDING_PATH"`
	Transformations string `env:"TRANSFORMATIONS,default=lower replace_apostrophes remove_punctuations remove_extra_spaces"`

	BatchSize    int     `env:"BATCH_SIZE,default=32" validate:"gte=1"`
	Epochs       int     `env:"EPOCHS,default=10" validate:"gte=1"`
	ValidRatio   float64 `env:"VALID_RATIO,default=0.1" validate:"gte=0,lt=1"`
	TestRatio    float64 `env:"TEST_RATIO,default=0.1" validate:"gte=0,lt=1"`
	MinFrequency int     `env:"MIN_FREQUENCY,default=0" validate:"gte=0"`
	MaxWords     int     `env:"MAX_WORDS,default=0" validate:"gte=0"`
	Device       string  `env:"DEVICE,default=cpu" validate:"required"`
	Seed         int64   `env:"SEED,default=0"`

	BadgerFilepath  string        `env:"BADGER_FILEPATH"`
	BlugeFilepath   string        `env:"BLUGE_FILEPATH"`
	LimitExperiment *int          `env:"LIMIT_EXPERIMENT"`
	OnExists        string        `env:"ON_EXISTS,default=fail" validate:"oneof=fail overwrite suffix"`
	Suffix          string        `env:"SUFFIX"`
	Colours         bool          `env:"COLOURS,default=true"`
	EpochPause      time.Duration `env:"EPOCH_PAUSE,default=0s"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=1s"`
	DebugPort       int           `env:"DEBUG_PORT,default=8081"`

	// Command is set by the binary, not by the environment.
	Command string
}

// LoadDotEnv reads the given .env files when present. Variables already set in the
// environment win.
func LoadDotEnv(files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Validate checks the configuration for the given command.
func (c *Config) Validate(command string) error {
	c.Command = command
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.ValidRatio+c.TestRatio >= 1 {
		return fmt.Errorf("invalid configuration: VALID_RATIO + TEST_RATIO must stay below 1, got %g", c.ValidRatio+c.TestRatio)
	}
	if (c.BadgerFilepath == "") != (c.BlugeFilepath == "") {
		return fmt.Errorf("invalid configuration: BADGER_FILEPATH and BLUGE_FILEPATH go together")
	}
	return nil
}

// RegistryEnabled reports whether runs are recorded in the experiment registry.
func (c *Config) RegistryEnabled() bool {
	return c.BadgerFilepath != "" && c.BlugeFilepath != ""
}

// TransformationNames splits TRANSFORMATIONS on whitespace.
func (c *Config) TransformationNames() []string {
	return strings.Fields(c.Transformations)
}
