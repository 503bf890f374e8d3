package checktestdata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ecairns22/ctdrun/internal/constraints"
)

// Materialize returns the script path the interpreter should run.
//
// Without a constraints file next to the script, scriptPath is returned as
// is and temporary is false. Otherwise a new temporary file in tempDir
// (os.TempDir when empty) holds the rendered SET preamble followed by the
// script, and the caller owns that file.
func Materialize(scriptPath, tempDir string) (path string, temporary bool, err error) {
	constraintsPath := constraints.Path(scriptPath)
	if _, err := os.Stat(constraintsPath); errors.Is(err, fs.ErrNotExist) {
		return scriptPath, false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("%w: checking %s: %v", ErrIO, constraintsPath, err)
	}

	set, err := constraints.Load(constraintsPath)
	if errors.Is(err, constraints.ErrMalformed) {
		return "", false, fmt.Errorf("%w: %w", ErrConfiguration, err)
	} else if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrIO, err)
	}

	src, err := os.ReadFile(scriptPath)
	if err != nil {
		return "", false, fmt.Errorf("%w: reading script %s: %v", ErrIO, scriptPath, err)
	}

	f, err := os.CreateTemp(tempDir, "ctd-*.ctd")
	if err != nil {
		return "", false, fmt.Errorf("%w: creating temporary script: %v", ErrIO, err)
	}

	_, werr := f.WriteString(constraints.Render(set))
	if werr == nil {
		_, werr = f.Write(src)
	}
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(f.Name())
		return "", false, fmt.Errorf("%w: writing %s: %v", ErrIO, f.Name(), werr)
	}

	return f.Name(), true, nil
}
