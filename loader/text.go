package loader

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gprmax-ragbot/models"
)

// readText 텍스트 파일 전체를 Document 하나로 읽습니다 (페이지 정보 없음)
func readText(path string) ([]*models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("파일 읽기 실패: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: UTF-8 텍스트가 아닙니다: %s", models.ErrUnsupportedFormat, path)
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")

	return []*models.Document{{
		Path:    path,
		Content: content,
		Section: ExtractSection(content),
	}}, nil
}
