package rag

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gprmax-ragbot/models"
)

// Engine 질문 하나를 검색, 생성, 출처 정리까지 처리하는 질의 진입점
type Engine struct {
	retriever *Retriever
	generator *Generator
	logger    *slog.Logger
}

// NewEngine 새로운 질의 엔진을 생성합니다
func NewEngine(retriever *Retriever, generator *Generator, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{retriever: retriever, generator: generator, logger: logger}
}

// Ask 질문에 대한 답변과 출처를 반환합니다. 오류는 감싸지 않고 그대로 전달합니다
func (e *Engine) Ask(ctx context.Context, question string) (*models.QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("질문이 비어있습니다")
	}

	chunks, err := e.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	for i, chunk := range chunks {
		e.logger.Debug("검색 결과",
			"rank", i+1,
			"id", chunk.ID,
			"section", chunk.Section(),
			"page", chunk.Page(),
			"similarity", chunk.Similarity,
		)
	}

	answer, err := e.generator.Generate(ctx, question, chunks)
	if err != nil {
		return nil, err
	}

	return Assemble(answer, chunks), nil
}
