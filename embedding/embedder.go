package embedding

import (
	"context"
	"fmt"

	"gprmax-ragbot/models"

	"github.com/philippgille/chromem-go"
)

// Embedder 문서와 질문을 임베딩 벡터로 변환하는 인터페이스.
// 수집과 검색에는 반드시 같은 Embedder를 사용해야 합니다.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// FuncEmbedder chromem-go의 EmbeddingFunc(OpenAI, Ollama 등)를 Embedder로 감쌉니다
type FuncEmbedder struct {
	fn chromem.EmbeddingFunc
}

// NewOpenAI OpenAI 임베딩 API를 사용하는 Embedder를 생성합니다
func NewOpenAI(apiKey, model string) *FuncEmbedder {
	if model == "" {
		model = string(chromem.EmbeddingModelOpenAI3Small)
	}
	return &FuncEmbedder{fn: chromem.NewEmbeddingFuncOpenAI(apiKey, chromem.EmbeddingModelOpenAI(model))}
}

// NewOllama 로컬 Ollama 서버를 사용하는 Embedder를 생성합니다
func NewOllama(model, baseURL string) *FuncEmbedder {
	if model == "" {
		model = "nomic-embed-text"
	}
	return &FuncEmbedder{fn: chromem.NewEmbeddingFuncOllama(model, baseURL)}
}

// NewFuncEmbedder 임의의 EmbeddingFunc로 Embedder를 생성합니다
func NewFuncEmbedder(fn chromem.EmbeddingFunc) *FuncEmbedder {
	return &FuncEmbedder{fn: fn}
}

// EmbedDocuments 텍스트마다 한 번씩 임베딩을 요청합니다
func (e *FuncEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for i, text := range texts {
		vector, err := e.EmbedQuery(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("텍스트 %d 임베딩 실패: %w", i, err)
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

// EmbedQuery 텍스트 하나를 임베딩합니다
func (e *FuncEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.fn(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrEmbeddingProvider, err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: 임베딩 응답이 비어있습니다", models.ErrEmbeddingProvider)
	}
	return vector, nil
}
