package mapping

import (
	"errors"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mschirtzinger/mdsync/internal/fsops"
	"github.com/mschirtzinger/mdsync/internal/logging"
)

// Build normalises inputs into validated mappings.
//
// With no inputs, entries are read from the EnvSources environment variable.
// Inputs with an empty source, invalid ignore patterns or a source that is
// not an existing directory are logged and dropped; the remaining inputs are
// still processed. An empty result means the caller must not start watching.
func Build(inputs []Input, site Site, fsys *fsops.FS, logger logging.Logger) []Mapping {
	if logger == nil {
		logger = logging.Discard()
	}
	if fsys == nil {
		fsys = fsops.OS()
	}
	if len(inputs) == 0 {
		inputs = ParseEnv(os.Getenv(EnvSources))
	}

	mappings := make([]Mapping, 0, len(inputs))
	for _, in := range inputs {
		if in == nil {
			continue
		}

		m := in.normalize(site)
		if err := m.Validate(); err != nil {
			var errs validation.Errors
			if errors.As(err, &errs) {
				if _, ok := errs["source"]; ok {
					logger.Errorf(SourcePathEmpty)
					continue
				}
			}
			logger.Errorf("Invalid sync configuration for %s: %v", m.Source, err)
			continue
		}

		if !fsys.IsDir(m.Source) {
			logger.Errorf("%s: %s", DirectoryNotFound, m.Source)
			continue
		}

		mappings = append(mappings, m)
	}

	return mappings
}
