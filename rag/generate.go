package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gprmax-ragbot/llm"
	"gprmax-ragbot/models"
)

// DefaultGenerationTimeout 언어 모델 호출 기본 제한 시간
const DefaultGenerationTimeout = 60 * time.Second

// Assistant 프롬프트에 들어가는 제품 정보
type Assistant struct {
	Product      string // 예: gprMax
	ReferenceURL string // 컨텍스트에 답이 없을 때 안내할 공식 문서 주소
}

// DefaultAssistant gprMax 문서용 기본값
var DefaultAssistant = Assistant{
	Product:      "gprMax",
	ReferenceURL: "https://docs.gprmax.com/",
}

const promptTemplate = `You are an expert assistant for %[1]s. Answer the user's question using only the context below, taken from the %[1]s documentation.

If the answer is not in the context, say that you do not have information about that topic and suggest checking the official %[1]s documentation (%[2]s).

Format code examples and commands as markdown code blocks. Be precise and organize the answer clearly.

Context:
%[3]s

Question:
%[4]s

Answer:`

// Generator 검색된 청크를 컨텍스트로 언어 모델에 답변을 요청하는 구조체
type Generator struct {
	completer llm.Completer
	assistant Assistant
	timeout   time.Duration
}

// NewGenerator 새로운 답변 생성기를 생성합니다
func NewGenerator(completer llm.Completer, assistant Assistant, timeout time.Duration) *Generator {
	if assistant.Product == "" {
		assistant.Product = DefaultAssistant.Product
	}
	if assistant.ReferenceURL == "" {
		assistant.ReferenceURL = DefaultAssistant.ReferenceURL
	}
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &Generator{completer: completer, assistant: assistant, timeout: timeout}
}

// BuildPrompt 지시문, 검색 순서대로 이어 붙인 청크 텍스트, 질문으로 프롬프트를 구성합니다
func (g *Generator) BuildPrompt(question string, chunks []*models.Chunk) string {
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		parts = append(parts, chunk.Content)
	}

	return fmt.Sprintf(promptTemplate, g.assistant.Product, g.assistant.ReferenceURL, strings.Join(parts, "\n\n"), question)
}

type completion struct {
	text string
	err  error
}

// Generate 프롬프트를 언어 모델에 보내고 응답을 그대로 반환합니다.
// 재시도하지 않으며, 실패는 ErrGeneration, 시간 초과는 ErrGenerationTimeout으로 반환합니다.
func (g *Generator) Generate(ctx context.Context, question string, chunks []*models.Chunk) (string, error) {
	prompt := g.BuildPrompt(question, chunks)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	// context를 무시하는 Completer도 제한 시간 안에 반환되게 함
	done := make(chan completion, 1)
	go func() {
		text, err := g.completer.Complete(ctx, prompt)
		done <- completion{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", generationError(ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", generationError(res.err)
		}
		return res.text, nil
	}
}

func generationError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", models.ErrGenerationTimeout, err)
	}
	return fmt.Errorf("%w: %w", models.ErrGeneration, err)
}
