package models

import "strconv"

// 청크 메타데이터 키
const (
	MetaSection = "section"
	MetaPage    = "page"
	MetaSource  = "source"
	MetaSeq     = "seq"
)

// Unknown 섹션이나 페이지를 알 수 없을 때 사용하는 값
const Unknown = "Unknown"

// Document 파일에서 읽어 온 원본 문서 (PDF는 페이지 단위)
type Document struct {
	Path    string // 원본 파일 경로
	Content string // 본문 텍스트
	Page    int    // 1부터 시작하는 페이지 번호, 페이지 개념이 없으면 0
	Section string // 페이지에서 추출한 제목, 없으면 Unknown
}

// PageLabel 인용에 표시할 페이지 문자열을 반환합니다
func (d *Document) PageLabel() string {
	if d.Page <= 0 {
		return Unknown
	}
	return strconv.Itoa(d.Page)
}

// Chunk 인덱스에 저장되는 검색 단위
type Chunk struct {
	ID         string            // 인덱스 내 고유 ID
	Content    string            // 청크 텍스트
	Vector     []float32         // 임베딩 벡터 (인덱스가 소유, 생성 후 변경하지 않음)
	Meta       map[string]string // section, page, source, seq
	Similarity float32           // 검색 결과일 때만 채워짐
}

// Section 청크의 섹션 메타데이터를 반환합니다
func (c *Chunk) Section() string {
	if s, ok := c.Meta[MetaSection]; ok && s != "" {
		return s
	}
	return Unknown
}

// Page 청크의 페이지 메타데이터를 반환합니다
func (c *Chunk) Page() string {
	if p, ok := c.Meta[MetaPage]; ok && p != "" {
		return p
	}
	return Unknown
}

// Seq 인덱스에 추가된 순서를 반환합니다
func (c *Chunk) Seq() int {
	n, err := strconv.Atoi(c.Meta[MetaSeq])
	if err != nil {
		return -1
	}
	return n
}

// QueryResult 질문에 대한 답변과 출처 목록
type QueryResult struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}
