package rag

import (
	"context"
	"errors"
	"fmt"

	"gprmax-ragbot/db"
	"gprmax-ragbot/embedding"
	"gprmax-ragbot/models"
)

// DefaultTopK 기본 검색 결과 개수
const DefaultTopK = 5

// Index 유사도 검색이 가능한 인덱스 (*db.Index)
type Index interface {
	Search(ctx context.Context, queryVector []float32, topK int) ([]*models.Chunk, error)
}

// Retriever 질문과 가장 유사한 청크를 찾는 구조체
type Retriever struct {
	index         Index
	embedder      embedding.Embedder
	topK          int
	minSimilarity float32
}

// NewRetriever 새로운 검색기를 생성합니다. minSimilarity가 0이면 필터링하지 않습니다
func NewRetriever(index Index, embedder embedding.Embedder, topK int, minSimilarity float32) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		index:         index,
		embedder:      embedder,
		topK:          topK,
		minSimilarity: minSimilarity,
	}
}

// Retrieve 질문을 임베딩해서 유사도 내림차순으로 topK개의 청크를 반환합니다
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]*models.Chunk, error) {
	queryVector, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		if !errors.Is(err, models.ErrEmbeddingProvider) {
			err = fmt.Errorf("%w: %w", models.ErrEmbeddingProvider, err)
		}
		return nil, fmt.Errorf("질문 임베딩 실패: %w", err)
	}

	chunks, err := r.index.Search(ctx, queryVector, r.topK)
	if err != nil {
		return nil, fmt.Errorf("문서 검색 실패: %w", err)
	}

	if r.minSimilarity <= 0 {
		return chunks, nil
	}

	filtered := chunks[:0]
	for _, chunk := range chunks {
		if chunk.Similarity >= r.minSimilarity {
			filtered = append(filtered, chunk)
		}
	}
	return filtered, nil
}

// RetrieveFromPath 인덱스 파일을 열고 검색합니다.
// 인덱스가 없으면 임베딩을 호출하지 않고 ErrIndexNotFound를 반환합니다.
func RetrieveFromPath(ctx context.Context, path string, embedder embedding.Embedder, question string, topK int) ([]*models.Chunk, error) {
	index, err := db.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewRetriever(index, embedder, topK, 0).Retrieve(ctx, question)
}
