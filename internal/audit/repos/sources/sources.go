// Package sources loads the list of blocklist sources to audit.
// Two formats are supported: plain text (one URL per line, '#'
// comments) and YAML/JSON/TOML manifests with a top-level "sources"
// string list, selected by file extension.
package sources

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"golang.org/x/text/encoding/simplifiedchinese"

	logpkg "github.com/feedprune/feedprune/internal/audit/common/log"
)

const bom = "\ufeff"

// Load reads the source list at path. Blank lines, comment lines, and
// inline comments are stripped; order is preserved. Repeated entries
// pass through as written and are collapsed by the auditor.
func Load(path string, logger logpkg.Logger) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadManifest(path, yaml.Parser())
	case ".json":
		return loadManifest(path, json.Parser())
	case ".toml":
		return loadManifest(path, toml.Parser())
	default:
		return loadPlain(path, logger)
	}
}

// loadManifest reads a structured manifest with a "sources" string list.
func loadManifest(path string, parser koanf.Parser) ([]string, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load source manifest %s: %w", path, err)
	}
	out := make([]string, 0)
	for _, entry := range k.Strings("sources") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// loadPlain reads a newline-delimited source list. The raw bytes are
// decoded as UTF-8 (with or without BOM), falling back to GBK; if
// neither decodes, the list is empty.
func loadPlain(path string, logger logpkg.Logger) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source list %s: %w", path, err)
	}

	text, ok := decode(raw)
	if !ok {
		logger.Warn(map[string]any{"path": path}, "source list is not valid UTF-8 or GBK")
		return nil, nil
	}

	out := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

// decode attempts the fixed encoding ladder: UTF-8 with optional BOM,
// then GBK. The GBK decoder substitutes U+FFFD for invalid bytes
// instead of failing, and GBK itself has no mapping for U+FFFD, so a
// replacement rune in the output means the input was not GBK either.
func decode(raw []byte) (string, bool) {
	s := strings.TrimPrefix(string(raw), bom)
	if utf8.ValidString(s) {
		return s, true
	}
	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(raw)
	if err != nil || strings.ContainsRune(string(decoded), utf8.RuneError) {
		return "", false
	}
	return string(decoded), true
}
