package movie

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/movierec/internal/domain"
)

const imdbPrefix = "tt"

// ParseIMDbID parses "tt0114709" or "114709" into its numeric form.
func ParseIMDbID(s string) (int, error) {
	s = strings.TrimSpace(s)
	digits := strings.TrimPrefix(strings.ToLower(s), imdbPrefix)
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidExternalID, s)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", domain.ErrInvalidExternalID, s)
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidExternalID, s)
	}
	return n, nil
}

// FormatIMDbID renders a numeric IMDb id as "tt" plus at least seven digits.
func FormatIMDbID(n int) string {
	return fmt.Sprintf("%s%07d", imdbPrefix, n)
}
