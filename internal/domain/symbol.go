package domain

import (
	"fmt"
	"path/filepath"
	"strings"

	m "ducktape.dev/pkg/ducktape/internal/model"
)

// ParseSymbol splits raw into directory, locator and optional class name.
// It does not touch the filesystem beyond resolving the directory to an
// absolute path.
func ParseSymbol(raw string) (m.DiscoverySymbol, error) {
	dir, err := filepath.Abs(filepath.Dir(raw))
	if err != nil {
		return m.DiscoverySymbol{}, fmt.Errorf("%w: %q: %w", ErrMalformedSymbol, raw, err)
	}

	base := filepath.Base(raw)
	locator, className := base, ""

	if strings.Contains(base, m.SymbolSeparator) {
		parts := strings.Split(base, m.SymbolSeparator)
		if len(parts) != 2 {
			return m.DiscoverySymbol{}, fmt.Errorf("%w: %q", ErrMalformedSymbol, raw)
		}

		locator, className = parts[0], parts[1]
	}

	return m.DiscoverySymbol{
		Raw:       raw,
		Directory: m.Path(dir),
		Locator:   locator,
		ClassName: className,
	}, nil
}
