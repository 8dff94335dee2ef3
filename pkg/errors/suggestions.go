package errors

import "fmt"

// SuggestionGenerator generates actionable suggestions based on error category.
type SuggestionGenerator interface {
	Generate(category ErrorCategory, affectedPath string) []string
}

// NewSuggestionGenerator creates a new SuggestionGenerator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{
		fixed: map[ErrorCategory][]string{
			CategoryNotFound: {
				"Verify the device, storage and path names are spelled correctly",
				"Run 'mtp-copy storages' to list the connected devices and their storages",
			},
			CategoryAmbiguous: {
				"Narrow the device or storage pattern so it matches exactly one name",
				"Run 'mtp-copy storages' to see the available device and storage names",
			},
			CategoryInvalidPath: {
				"Device addresses have the form <device>:<storage>:<path>",
				"Wildcards are only allowed in 'list' addresses",
				"Path components may not be '.' or '..', and a pattern may not end with '**'",
			},
			CategoryForbidden: {
				"Hidden and system entries are never copied, replaced or deleted",
				"Check that the destination object allows deletion",
			},
			CategoryPermission: {
				"Ensure you have read/write permissions for the files and directories",
			},
			CategoryDiskSpace: {
				"Free up space on the destination storage",
				"Copy a smaller folder first or remove files that are no longer needed",
			},
			CategoryConnection: {
				"Check that the device host is reachable",
				"Verify your SSH agent or keys in ~/.ssh can authenticate to the host",
			},
			CategoryDeviceBusy: {
				"Another mtp-copy process is using this device",
				"Wait for it to finish and try again",
			},
			CategoryIO: {
				"Verify the device is still connected",
				"Try the operation again, the failure may be transient",
				"A partially written destination file may remain and will be replaced on the next run",
			},
			CategoryUnknown: {
				"Check the error message for more details",
				"Re-run with --log-level debug to see each step",
			},
		},
	}
}

// suggestionGenerator is the concrete implementation of SuggestionGenerator.
type suggestionGenerator struct {
	fixed map[ErrorCategory][]string
}

// Generate returns the fixed suggestions of a category followed by one that names the
// affected path, when there is one.
func (g *suggestionGenerator) Generate(category ErrorCategory, affectedPath string) []string {
	base, ok := g.fixed[category]
	if !ok {
		category = CategoryUnknown
		base = g.fixed[CategoryUnknown]
	}

	suggestions := append([]string(nil), base...)

	if extra := pathSuggestion(category, affectedPath); extra != "" {
		suggestions = append(suggestions, extra)
	}

	return suggestions
}

func pathSuggestion(category ErrorCategory, path string) string {
	//nolint:exhaustive // Only categories with a path-specific hint are listed
	switch category {
	case CategoryPermission:
		if path == "" {
			return "Check permissions with 'ls -la' on the affected path"
		}

		return fmt.Sprintf("Check permissions with 'ls -la %s'", path)
	case CategoryNotFound:
		if path != "" {
			return "List the parent folder with 'mtp-copy list' to check that it exists: " + path
		}
	case CategoryDiskSpace:
		if path != "" {
			return "Verify free space on the storage holding " + path
		}
	case CategoryUnknown:
		if path != "" {
			return "Verify the path is accessible: " + path
		}
	}

	return ""
}
