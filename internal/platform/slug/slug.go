package slug

import (
	"regexp"
	"strconv"
	"strings"
)

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = nonAlphaNum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}

// Unique returns Make(input), suffixed with -2, -3, ... until it is absent
// from taken. The result is recorded in taken.
func Unique(input string, taken map[string]struct{}) string {
	base := Make(input)
	candidate := base
	for n := 2; ; n++ {
		if _, ok := taken[candidate]; !ok {
			break
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
	taken[candidate] = struct{}{}
	return candidate
}
