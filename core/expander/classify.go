package expander

import (
	"path/filepath"

	"github.com/tristendillon/flatten/core/directive"
)

// classify decides what to do with a directive read from a file in
// currentDir. For Local and Excluded targets the resolved path is returned
// as well; a resolution failure aborts the run.
func (e *Expander) classify(d directive.Directive, currentDir string) (directive.Kind, string, error) {
	if e.system.Contains(d.Target) {
		return directive.SystemHeader, "", nil
	}

	path, err := e.resolver.Resolve(d.Target, currentDir)
	if err != nil {
		return directive.Local, "", err
	}

	if e.excluded != "" && filepath.Base(filepath.Dir(path)) == e.excluded {
		return directive.Excluded, path, nil
	}
	return directive.Local, path, nil
}
