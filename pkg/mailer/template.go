package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template is a parsed template file: YAML frontmatter metadata plus a
// markdown body.
type Template struct {
	Metadata map[string]any
	Body     string
}

// frontmatterDelim separates metadata from the body.
const frontmatterDelim = "---"

// ParseTemplate splits template content into frontmatter metadata and
// markdown body. Content without a leading delimiter is treated as a
// body with empty metadata.
func ParseTemplate(content []byte) (*Template, error) {
	s := string(content)
	if !strings.HasPrefix(s, frontmatterDelim) {
		return &Template{Metadata: make(map[string]any), Body: s}, nil
	}

	rest := strings.TrimLeft(strings.TrimPrefix(s, frontmatterDelim), "\r\n")
	if rest == "" {
		return nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	end := strings.Index(rest, frontmatterDelim)
	if end < 0 {
		return nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	front := rest[:end]
	body := rest[end+len(frontmatterDelim):]
	body = strings.TrimPrefix(strings.TrimPrefix(body, "\r"), "\n")

	metadata := make(map[string]any)
	if strings.TrimSpace(front) != "" {
		if err := yaml.Unmarshal([]byte(front), &metadata); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	return &Template{Metadata: metadata, Body: body}, nil
}
