package constraints

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrMalformed is returned when a constraints file is not a JSON object of
// scalar values.
var ErrMalformed = errors.New("malformed constraints")

// Entry is a single named constraint.
type Entry struct {
	Name  string
	Value string
}

// Set is an ordered collection of constraints. Order follows the key order
// of the source JSON object.
type Set []Entry

// Path returns the conventional constraints file location for a script:
// <scriptDir>/../problem_statement/constraints.json. The ".." is left for the
// kernel to resolve so a symlinked script directory finds the constraints
// next to its target.
func Path(scriptPath string) string {
	return filepath.Dir(scriptPath) + string(filepath.Separator) +
		filepath.Join("..", "problem_statement", "constraints.json")
}

// Load reads a constraints file. A missing file yields an empty Set.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading constraints %s: %w", path, err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing constraints %s: %w", path, err)
	}
	return set, nil
}

// Parse decodes a JSON object into a Set, keeping key order. A repeated key
// keeps its first position and takes its last value.
func Parse(data []byte) (Set, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: top level must be an object", ErrMalformed)
	}

	var set Set
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", ErrMalformed, tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		value, err := scalar(name, tok)
		if err != nil {
			return nil, err
		}

		if i, ok := index[name]; ok {
			set[i].Value = value
			continue
		}
		index[name] = len(set)
		set = append(set, Entry{Name: name, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformed)
	}
	return set, nil
}

func scalar(name string, tok json.Token) (string, error) {
	switch v := tok.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("%w: constraint %q must be a string, number or boolean", ErrMalformed, name)
	}
}

// Render returns one "SET(name = value)" line per constraint, in set order.
// Values are substituted literally.
func Render(s Set) string {
	var b strings.Builder
	for _, e := range s {
		fmt.Fprintf(&b, "SET(%s = %s)\n", e.Name, e.Value)
	}
	return b.String()
}
