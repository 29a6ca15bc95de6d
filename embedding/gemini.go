package embedding

import (
	"context"
	"fmt"

	"gprmax-ragbot/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultGeminiModel = "text-embedding-004"
	geminiBatchLimit   = 100 // BatchEmbedContents 요청당 최대 개수
)

// Gemini Gemini API를 사용하여 텍스트를 임베딩으로 변환하는 구조체
type Gemini struct {
	client   *genai.Client
	docModel *genai.EmbeddingModel
	qryModel *genai.EmbeddingModel
}

// NewGemini 새로운 Gemini 임베딩 생성기를 생성합니다
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: Gemini 클라이언트 생성 실패: %w", models.ErrEmbeddingProvider, err)
	}

	if model == "" {
		model = defaultGeminiModel
	}

	// 문서는 RETRIEVAL_DOCUMENT, 질문은 RETRIEVAL_QUERY로 임베딩
	docModel := client.EmbeddingModel(model)
	docModel.TaskType = genai.TaskTypeRetrievalDocument
	qryModel := client.EmbeddingModel(model)
	qryModel.TaskType = genai.TaskTypeRetrievalQuery

	return &Gemini{
		client:   client,
		docModel: docModel,
		qryModel: qryModel,
	}, nil
}

// EmbedDocuments 여러 텍스트를 배치로 임베딩합니다
func (g *Gemini) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += geminiBatchLimit {
		end := min(start+geminiBatchLimit, len(texts))

		batch := g.docModel.NewBatch()
		for _, text := range texts[start:end] {
			batch.AddContent(genai.Text(text))
		}

		resp, err := g.docModel.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("%w: 배치 임베딩 실패: %w", models.ErrEmbeddingProvider, err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("%w: 요청 %d개에 응답 %d개", models.ErrEmbeddingProvider, end-start, len(resp.Embeddings))
		}

		for i, emb := range resp.Embeddings {
			if emb == nil || len(emb.Values) == 0 {
				return nil, fmt.Errorf("%w: 텍스트 %d의 임베딩이 비어있습니다", models.ErrEmbeddingProvider, start+i)
			}
			results = append(results, emb.Values)
		}
	}

	return results, nil
}

// EmbedQuery 질문을 임베딩 벡터로 변환합니다
func (g *Gemini) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	resp, err := g.qryModel.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("%w: 임베딩 생성 실패: %w", models.ErrEmbeddingProvider, err)
	}

	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: 임베딩 응답이 비어있습니다", models.ErrEmbeddingProvider)
	}

	return resp.Embedding.Values, nil
}

// Close 클라이언트를 닫습니다
func (g *Gemini) Close() error {
	return g.client.Close()
}
