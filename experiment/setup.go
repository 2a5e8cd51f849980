package experiment

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Setup describes a supervised run. Sample counts come from the batcher partitions.
type Setup struct {
	Project       string `validate:"required"`
	Author        string
	Model         string `validate:"required,excludesall=()"`
	Device        string `validate:"required,excludesall=()"`
	TotalSamples  int    `validate:"gte=1"`
	TrainSamples  int    `validate:"gte=1,ltefield=TotalSamples"`
	ValidSamples  int    `validate:"gte=0,ltefield=TotalSamples"`
	TestSamples   int    `validate:"gte=0,ltefield=TotalSamples"`
	Epochs        int    `validate:"gte=1"`
	BatchSize     int    `validate:"gte=1"`
	NumberClasses int    `validate:"gte=1"`
	InputLength   int    `validate:"gte=0"`
}

func (s Setup) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid experiment setup: %w", err)
	}
	return nil
}

// Name identifies the setup on disk, e.g.
// nclasses(2)ninput(20)model(centroid)epochs(3)batchsize(32)device(cpu).
func (s Setup) Name() string {
	return fmt.Sprintf("nclasses(%d)ninput(%d)model(%s)epochs(%d)batchsize(%d)device(%s)",
		s.NumberClasses, s.InputLength, s.Model, s.Epochs, s.BatchSize, s.Device)
}

var namePattern = regexp.MustCompile(`^nclasses\((\d+)\)ninput\((\d+)\)model\(([^()]*)\)epochs\((\d+)\)batchsize\((\d+)\)device\(([^()]*)\)(?:_(.*))?$`)

// ParseName reads back a directory name built by Name, with its optional suffix.
func ParseName(name string) (Setup, string, bool) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return Setup{}, "", false
	}
	atoi := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}
	return Setup{
		NumberClasses: atoi(m[1]),
		InputLength:   atoi(m[2]),
		Model:         m[3],
		Epochs:        atoi(m[4]),
		BatchSize:     atoi(m[5]),
		Device:        m[6],
	}, m[7], true
}
