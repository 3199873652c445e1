// Package links resolves chunk source paths to shareable document
// links. Chunk metadata carries the local path of the source document
// as it was mounted during the chunking run; a drive map file relates
// those paths to public share links so reviewers can open the original
// document next to the chunk under review.
package links

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/terrafusion/chunkgrader/internal/core/domain"
)

// DefaultPrefix is the mount prefix stripped from source paths before
// drive-map lookup.
const DefaultPrefix = "/content/data/data/"

// skipPattern matches the auto-generated "Well-###-timestamp" layer
// inserted above each document tree. It carries no information for
// reviewers, so rendered trees drop it.
var skipPattern = regexp.MustCompile(`^Well-\d+-\d{8}T\d{6}Z-\d+(?:-\d+)?$`)

// entry is one drive map record.
type entry struct {
	ShareLink string `json:"share_link"`
}

// Map resolves source paths to public share links.
type Map struct {
	prefix  string
	entries map[string]entry
}

// LoadMap reads a drive map JSON file. The file maps prefix-relative
// paths to records with a share_link field.
func LoadMap(mapPath, prefix string) (*Map, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	data, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, fmt.Errorf("reading drive map: %w", err)
	}

	var entries map[string]entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing drive map: %w", err)
	}

	return &Map{prefix: prefix, entries: entries}, nil
}

// NewMap builds a drive map from in-memory share links, keyed by
// prefix-relative path.
func NewMap(prefix string, shareLinks map[string]string) *Map {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	entries := make(map[string]entry, len(shareLinks))
	for rel, link := range shareLinks {
		entries[rel] = entry{ShareLink: link}
	}
	return &Map{prefix: prefix, entries: entries}
}

// PublicLink converts a local source path into its shareable link.
// Returns domain.ErrNotFound when the path is not in the map.
func (m *Map) PublicLink(localPath string) (string, error) {
	relative := m.relative(localPath)

	e, ok := m.entries[relative]
	if !ok {
		return "", fmt.Errorf("%w: path %q not in drive map", domain.ErrNotFound, relative)
	}
	return e.ShareLink, nil
}

// relative strips the mount prefix from a source path.
func (m *Map) relative(localPath string) string {
	cleaned := path.Clean(localPath)
	prefix := strings.TrimSuffix(m.prefix, "/")
	if rest, ok := strings.CutPrefix(cleaned, prefix+"/"); ok {
		return rest
	}
	return strings.TrimPrefix(cleaned, "/")
}

// PrettyTree renders a source path as a staggered-hyphen hierarchy,
// with the mount prefix and the timestamp layer removed:
//
//	- Well-042
//	--- logs
//	----- report.pdf
func (m *Map) PrettyTree(localPath string) string {
	segments := m.segments(localPath)

	lines := make([]string, 0, len(segments))
	for i, segment := range segments {
		lines = append(lines, strings.Repeat("-", 2*i+1)+" "+segment)
	}
	return strings.Join(lines, "\n")
}

// MarkdownTree renders a source path as a Markdown bullet tree where
// only the final element links out. A page > 0 is appended as an extra
// leaf line.
func (m *Map) MarkdownTree(localPath, link string, page int) string {
	segments := m.segments(localPath)

	lines := make([]string, 0, len(segments)+1)
	for i, segment := range segments {
		indent := strings.Repeat("  ", i)
		if i == len(segments)-1 {
			lines = append(lines, fmt.Sprintf("%s- [%s](%s)", indent, segment, link))
		} else {
			lines = append(lines, indent+"- "+segment)
		}
	}

	if page > 0 {
		indent := strings.Repeat("  ", len(segments))
		lines = append(lines, fmt.Sprintf("%s- page: %d", indent, page))
	}

	return strings.Join(lines, "\n")
}

// FormatDocumentLink renders the full Markdown tree for a chunk's
// metadata. The source path comes from metadata["source"]; when a page
// number is present the link opens at that page.
func (m *Map) FormatDocumentLink(metadata map[string]any) (string, error) {
	source, _ := metadata["source"].(string)
	if source == "" {
		return "", fmt.Errorf("%w: metadata has no source path", domain.ErrInvalidInput)
	}

	link, err := m.PublicLink(source)
	if err != nil {
		return "", err
	}

	page := pageNumber(metadata["page"])
	if page > 0 {
		link += "#page=" + strconv.Itoa(page)
	}

	return m.MarkdownTree(source, link, page), nil
}

// segments splits a path into its rendered tree levels.
func (m *Map) segments(localPath string) []string {
	relative := m.relative(localPath)

	parts := make([]string, 0, 4)
	for _, segment := range strings.Split(relative, "/") {
		if segment != "" {
			parts = append(parts, segment)
		}
	}

	if len(parts) > 0 && skipPattern.MatchString(parts[0]) {
		parts = parts[1:]
	}
	return parts
}

// pageNumber normalises a metadata page value. JSON numbers arrive as
// float64, imported rows may carry ints or numeric strings.
func pageNumber(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
