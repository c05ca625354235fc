package mapping

import "errors"

// Messages logged by the registry for rejected inputs.
const (
	SourcePathEmpty   = "Source path is empty"
	DirectoryNotFound = "Directory does not exist"
	NoMappings        = "Please provide at least one sync configuration or set the " + EnvSources + " environment variable"
)

var (
	// ErrNoMappings is returned when no input survived validation. The
	// watch session must not start.
	ErrNoMappings = errors.New(NoMappings)

	// ErrOutsideSource is returned when a path does not live under the
	// mapping it was mapped with.
	ErrOutsideSource = errors.New("path is outside the mapping source")

	// ErrInvalidPattern is returned for an ignore pattern that does not
	// compile.
	ErrInvalidPattern = errors.New("invalid ignore pattern")

	// ErrUnsupportedInput is returned by ParseInput for values that are
	// neither a string nor a mapping object.
	ErrUnsupportedInput = errors.New("unsupported sync input")
)

// IsConfigurationError reports whether err means the watch cannot start.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrNoMappings) ||
		errors.Is(err, ErrInvalidPattern) ||
		errors.Is(err, ErrUnsupportedInput)
}
