package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed reports model output that holds no decodable JSON.
var ErrParseFailed = errors.New("failed to parse response")

var fenced = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// Parse decodes model output into T. Chat models often wrap the payload in
// a markdown fence or a sentence of prose, so after a direct decode fails it
// retries on the first fenced block and then on the widest {...} or [...]
// span.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	for _, candidate := range candidates(content) {
		if err := json.Unmarshal([]byte(candidate), &result); err == nil {
			return result, nil
		}
		var zero T
		result = zero
	}
	return result, fmt.Errorf("%w: %q", ErrParseFailed, Truncate(content, 200))
}

func candidates(content string) []string {
	out := []string{content}
	if m := fenced.FindStringSubmatch(content); m != nil {
		out = append(out, strings.TrimSpace(m[1]))
	}
	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(content, pair[0])
		end := strings.LastIndex(content, pair[1])
		if start >= 0 && end > start {
			out = append(out, content[start:end+1])
		}
	}
	return out
}
