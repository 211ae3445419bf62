package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

// SplitFrontmatter decodes a leading YAML block into meta and returns the
// remaining body. Content without a block leaves meta untouched.
func SplitFrontmatter(content string, meta any) (string, error) {
	if !strings.HasPrefix(content, separator) {
		return content, nil
	}
	rest := strings.TrimPrefix(content, separator)
	idx := strings.Index(rest, "\n"+separator)
	if idx < 0 {
		return "", fmt.Errorf("invalid frontmatter: missing closing separator")
	}
	if err := yaml.Unmarshal([]byte(rest[:idx]), meta); err != nil {
		return "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return strings.TrimPrefix(rest[idx+len("\n"+separator):], "\n"), nil
}

// RenderFrontmatter writes meta as a YAML block followed by body.
func RenderFrontmatter(meta any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	buf.WriteString("\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	return buf.String(), nil
}
