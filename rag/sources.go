package rag

import (
	"fmt"

	"gprmax-ragbot/models"
)

// FormatSource 청크의 인용 문자열을 만듭니다
func FormatSource(chunk *models.Chunk) string {
	return fmt.Sprintf("Section: %s, Page: %s", chunk.Section(), chunk.Page())
}

// BuildSources 검색된 청크의 인용 목록을 처음 나온 순서대로 중복 없이 만듭니다
func BuildSources(chunks []*models.Chunk) []string {
	sources := make([]string, 0, len(chunks))
	seen := make(map[string]bool, len(chunks))

	for _, chunk := range chunks {
		source := FormatSource(chunk)
		if seen[source] {
			continue
		}
		seen[source] = true
		sources = append(sources, source)
	}

	return sources
}

// Assemble 답변 텍스트와 출처 목록으로 QueryResult를 만듭니다
func Assemble(answer string, chunks []*models.Chunk) *models.QueryResult {
	return &models.QueryResult{
		Answer:  answer,
		Sources: BuildSources(chunks),
	}
}
