package projects

import (
	"encoding/json"
	"errors"
	"strings"
)

// ParseTechStack splits a comma separated list, trimming entries and dropping
// empty ones.
func ParseTechStack(raw string) []string {
	return normalizeTags(strings.Split(raw, ","))
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// TechStack decodes from either "a, b, c" or ["a", "b", "c"].
type TechStack []string

func (t *TechStack) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*t = ParseTechStack(raw)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.New("techStack must be a string or an array of strings")
	}
	*t = normalizeTags(list)
	return nil
}
