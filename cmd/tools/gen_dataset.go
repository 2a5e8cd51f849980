package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

// Vocabulary of each generated class. Shared words blur the classes a little.
var classWords = map[string][]string{
	"pos": {"good", "great", "nice", "excellent", "happy", "love", "perfect", "enjoyed"},
	"neg": {"bad", "awful", "poor", "terrible", "sad", "hate", "broken", "boring"},
}

var sharedWords = []string{"the", "movie", "was", "really", "and", "it", "a", "plot", "actors", "I"}

func main() {
	outputDir := flag.String("out", "./test_data", "Destination directory")
	samples := flag.Int("n", 200, "Number of samples")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		panic(fmt.Sprintf("Unable to create the directory: %v", err))
	}

	path := filepath.Join(*outputDir, "reviews.csv")
	if err := genDataset(path, *samples, rand.New(rand.NewSource(*seed))); err != nil {
		fmt.Printf("Dataset error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Dataset generated: %s (%d samples)\n", path, *samples)
}

// genDataset writes a text,label CSV alternating both classes.
func genDataset(path string, n int, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"text", "label"}); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		label := "pos"
		if i%2 == 1 {
			label = "neg"
		}
		if err := w.Write([]string{sentence(classWords[label], rng), label}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func sentence(words []string, rng *rand.Rand) string {
	size := 4 + rng.Intn(8)
	tokens := make([]string, size)
	for i := range tokens {
		if rng.Intn(3) == 0 {
			tokens[i] = words[rng.Intn(len(words))]
		} else {
			tokens[i] = sharedWords[rng.Intn(len(sharedWords))]
		}
	}
	// At least one class word per sample
	tokens[rng.Intn(size)] = words[rng.Intn(len(words))]
	return strings.Join(tokens, " ") + "."
}
