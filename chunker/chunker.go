package chunker

import (
	"fmt"
	"strings"

	"gprmax-ragbot/models"
)

const (
	DefaultChunkSize    = 1000 // 청킹 크기 (문자 단위)
	DefaultChunkOverlap = 200  // 인접 청크가 공유하는 문자 수
)

// 우선순위가 높은 순서: 문단, 줄바꿈, 공백, 강제 분할
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter 문서를 겹치는 청크로 나누는 구조체
type Splitter struct {
	size       int
	overlap    int
	separators [][]rune
}

// New 새로운 Splitter를 생성합니다
func New(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk_size는 0보다 커야 합니다: %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk_overlap은 0 이상 chunk_size(%d) 미만이어야 합니다: %d", size, overlap)
	}

	seps := make([][]rune, len(defaultSeparators))
	for i, sep := range defaultSeparators {
		seps[i] = []rune(sep)
	}

	return &Splitter{size: size, overlap: overlap, separators: seps}, nil
}

// Split 문서들을 청크로 나눕니다. 같은 문서의 청크는 원문 순서를 유지합니다
func (s *Splitter) Split(docs []*models.Document) []*models.Chunk {
	var chunks []*models.Chunk

	for _, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" {
			continue
		}

		section := doc.Section
		if section == "" {
			section = models.Unknown
		}

		for _, text := range s.SplitText(doc.Content) {
			chunks = append(chunks, &models.Chunk{
				Content: text,
				Meta: map[string]string{
					models.MetaSection: section,
					models.MetaPage:    doc.PageLabel(),
					models.MetaSource:  doc.Path,
				},
			})
		}
	}

	return chunks
}

// SplitText 텍스트를 chunk_size 이하의 조각으로 나눕니다.
// 다음 조각은 항상 이전 조각의 마지막 overlap 문자로 시작합니다.
func (s *Splitter) SplitText(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= s.size {
		return []string{text}
	}

	var parts []string
	start := 0
	for {
		if len(runes)-start <= s.size {
			parts = append(parts, string(runes[start:]))
			break
		}

		end := s.cut(runes, start, start+s.size, s.separators)
		parts = append(parts, string(runes[start:end]))
		start = end - s.overlap
	}

	return parts
}

// cut [start, limit] 구간에서 가장 우선순위가 높은 구분자 뒤의 위치를 찾습니다.
// 구분자를 찾지 못하면 다음 우선순위로 재귀하고, 마지막에는 limit에서 자릅니다.
// 반환 위치는 항상 start+overlap보다 커서 다음 청크가 앞으로 진행합니다.
func (s *Splitter) cut(runes []rune, start, limit int, seps [][]rune) int {
	if len(seps) == 0 || len(seps[0]) == 0 {
		return limit
	}

	sep := seps[0]
	for p := limit - len(sep); p >= start; p-- {
		end := p + len(sep)
		if end <= start+s.overlap {
			break
		}
		if hasAt(runes, p, sep) {
			return end
		}
	}

	return s.cut(runes, start, limit, seps[1:])
}

func hasAt(runes []rune, p int, sep []rune) bool {
	if p+len(sep) > len(runes) {
		return false
	}
	for i, r := range sep {
		if runes[p+i] != r {
			return false
		}
	}
	return true
}
