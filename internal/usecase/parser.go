package usecase

import (
	"encoding/json"
	"regexp"
	"strings"

	"AntVillage/internal/domain/models"
)

// DefaultDisclaimer is the fixed sentence used when no usable voice
// script can be recovered from a generation reply, and appended to
// every fallback script.
const DefaultDisclaimer = "본 내용은 투자 조언이 아니며, 투자 결정은 본인 판단과 책임입니다."

var (
	voiceSectionPattern  = regexp.MustCompile(`(?is)\*{0,2}\[\s*voice\s*script\s*\]\*{0,2}\s*(.*?)(?:\*{0,2}\[\s*visual\s*summary\s*\]|\z)`)
	visualSectionPattern = regexp.MustCompile(`(?is)\*{0,2}\[\s*visual\s*summary\s*\]\*{0,2}\s*(.*)\z`)
)

// ParseBriefingResponse splits a raw generation reply into the voice
// script and the visual summary. The two extractions are independent
// and each falls back to a documented default; this function never
// fails and always returns a usable pair.
func ParseBriefingResponse(raw string) (string, models.VisualSummary) {
	return extractVoiceScript(raw), extractVisualSummary(raw)
}

func extractVoiceScript(raw string) string {
	m := voiceSectionPattern.FindStringSubmatch(raw)
	if m == nil {
		return DefaultDisclaimer
	}
	script := strings.Join(strings.Fields(m[1]), " ")
	if script == "" {
		return DefaultDisclaimer
	}
	return script
}

func extractVisualSummary(raw string) models.VisualSummary {
	m := visualSectionPattern.FindStringSubmatch(raw)
	if m == nil {
		return emptyVisualSummary()
	}

	section := stripCodeFence(m[1])
	obj := extractJSONObject(section)
	if obj == "" {
		return emptyVisualSummary()
	}

	var vs models.VisualSummary
	if err := json.Unmarshal([]byte(obj), &vs); err != nil {
		return emptyVisualSummary()
	}
	if vs.Advice == nil {
		vs.Advice = []string{}
	}
	if vs.Checklist == nil {
		vs.Checklist = []string{}
	}
	return vs
}

// extractJSONObject returns the first balanced top-level JSON object in
// s, so trailing prose after the closing brace does not corrupt the
// extraction. Returns "" when no balanced object exists.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func emptyVisualSummary() models.VisualSummary {
	return models.VisualSummary{Advice: []string{}, Checklist: []string{}}
}

// stripCodeFence removes a surrounding markdown fence if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
