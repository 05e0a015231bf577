// Package specfile loads a specification from disk, dispatching on file
// extension: .cue files go through the CUE compiler, everything else through
// the text parser. The CLI and the conformance harness share this entry
// point so both front ends stay in lockstep.
package specfile

import (
	"path/filepath"
	"strings"

	"github.com/tslkit/tslkit/internal/compiler"
	"github.com/tslkit/tslkit/internal/model"
	"github.com/tslkit/tslkit/internal/parser"
)

// Load reads and parses the specification at path. It returns the validated
// graph plus any warnings (dropped empty categories).
func Load(path string) (*model.Specification, []string, error) {
	if strings.EqualFold(filepath.Ext(path), ".cue") {
		return compiler.CompileFile(path)
	}
	return parser.ParseFile(path)
}
