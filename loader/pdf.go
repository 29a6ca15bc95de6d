package loader

import (
	"fmt"

	"gprmax-ragbot/models"

	"github.com/ledongthuc/pdf"
)

// readPDF PDF의 각 페이지를 Document로 읽습니다
func readPDF(path string) (docs []*models.Document, err error) {
	// 손상된 PDF에서 라이브러리가 panic을 일으킬 수 있음
	defer func() {
		if r := recover(); r != nil {
			docs = nil
			err = fmt.Errorf("PDF 파싱 실패: %s: %v", path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("PDF 열기 실패: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("PDF %d페이지 텍스트 추출 실패: %w", i, err)
		}

		docs = append(docs, &models.Document{
			Path:    path,
			Content: text,
			Page:    i,
			Section: ExtractSection(text),
		})
	}

	return docs, nil
}
