package loader

import (
	"strings"
	"unicode"

	"gprmax-ragbot/models"
)

// 제목을 찾을 때 살펴보는 앞쪽 줄 수
const sectionScanLines = 5

// ExtractSection 페이지 앞부분에서 제목으로 보이는 줄을 찾습니다.
// 대문자로만 된 줄, '#'으로 시작하는 줄, ':'로 끝나는 줄을 제목으로 봅니다.
func ExtractSection(content string) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) > sectionScanLines {
		lines = lines[:sectionScanLines]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isUpper(line) || strings.HasPrefix(line, "#") || strings.HasSuffix(line, ":") {
			if section := strings.TrimSpace(strings.ReplaceAll(line, "#", "")); section != "" {
				return section
			}
		}
	}

	return models.Unknown
}

// isUpper 대소문자가 있는 문자가 하나 이상이고 모두 대문자인지 확인합니다
func isUpper(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}
