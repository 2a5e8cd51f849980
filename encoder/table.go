package encoder

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"mleus/errors"
)

// ReadEmbeddings parses an embedding file in the layout of the given model:
// word2vec binary, fastText text with a "count dim" header, GloVe text without header.
// When a word appears twice the first vector wins.
func ReadEmbeddings(r io.Reader, model string) (*EmbeddingTable, error) {
	switch model {
	case Word2Vec:
		return readWord2Vec(bufio.NewReader(r))
	case FastText:
		return readTextEmbeddings(r, model, true)
	case GloVe:
		return readTextEmbeddings(r, model, false)
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnsupportedModel, model)
	}
}

func readTextEmbeddings(r io.Reader, model string, hasHeader bool) (*EmbeddingTable, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	vectors := make(map[string][]float64)
	dim := -1
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, " ")

		if hasHeader && line == 1 {
			if len(fields) != 2 {
				return nil, fmt.Errorf("%w: bad header %q", errors.ErrInvalidEmbeddings, text)
			}
			d, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%w: bad header %q", errors.ErrInvalidEmbeddings, text)
			}
			dim = d
			continue
		}

		vec, err := parseFloats(fields[1:])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", errors.ErrInvalidEmbeddings, line, err)
		}
		if dim == -1 {
			dim = len(vec)
		}
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: line %d has %d values, expected %d",
				errors.ErrInvalidEmbeddings, line, len(vec), dim)
		}
		if _, ok := vectors[fields[0]]; !ok {
			vectors[fields[0]] = vec
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewEmbeddingTable(model, dim, vectors)
}

func parseFloats(fields []string) ([]float64, error) {
	vec := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		vec[i] = v
	}
	return vec, nil
}

// readWord2Vec reads the binary layout: "count dim\n" then, per word, the word bytes
// terminated by a space followed by dim little-endian float32 values.
func readWord2Vec(r *bufio.Reader) (*EmbeddingTable, error) {
	header, err := r.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("%w: missing header: %v", errors.ErrInvalidEmbeddings, err)
	}
	var count, dim int
	if _, err := fmt.Sscanf(strings.TrimSpace(header), "%d %d", &count, &dim); err != nil {
		return nil, fmt.Errorf("%w: bad header %q", errors.ErrInvalidEmbeddings, header)
	}
	if count < 0 || dim < 1 {
		return nil, fmt.Errorf("%w: header has count %d and dim %d", errors.ErrInvalidEmbeddings, count, dim)
	}

	vectors := make(map[string][]float64, count)
	raw := make([]byte, 4*dim)
	for i := 0; i < count; i++ {
		word, err := readWord(r)
		if err != nil {
			return nil, fmt.Errorf("%w: word %d: %v", errors.ErrInvalidEmbeddings, i, err)
		}
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("%w: vector of %q: %v", errors.ErrInvalidEmbeddings, word, err)
		}
		vec := make([]float64, dim)
		for j := range vec {
			vec[j] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[4*j:])))
		}
		if _, ok := vectors[word]; !ok {
			vectors[word] = vec
		}
	}
	return NewEmbeddingTable(Word2Vec, dim, vectors)
}

func readWord(r *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		switch b {
		case ' ':
			return sb.String(), nil
		case '\n':
			continue
		default:
			sb.WriteByte(b)
		}
	}
}
