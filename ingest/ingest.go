// Package ingest 문서 로드, 청킹, 인덱스 생성을 한 번에 실행하는 수집 진입점입니다.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gprmax-ragbot/chunker"
	"gprmax-ragbot/db"
	"gprmax-ragbot/embedding"
	"gprmax-ragbot/loader"
)

// Options 수집 설정
type Options struct {
	SourcePath   string
	IndexPath    string
	ChunkSize    int
	ChunkOverlap int
	Include      []string
	BatchSize    int
	OnProgress   func(done, total int)
}

// Stats 수집 결과
type Stats struct {
	Documents int
	Chunks    int
	IndexPath string
}

// Run 소스 경로의 문서를 읽어 인덱스를 새로 만듭니다
func Run(ctx context.Context, opts Options, embedder embedding.Embedder, logger *slog.Logger) (*Stats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	splitter, err := chunker.New(opts.ChunkSize, opts.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	logger.Info("문서를 읽는 중", "source", opts.SourcePath)
	documents, err := loader.NewLoader(opts.Include, logger).Load(ctx, opts.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("문서 로드 실패: %w", err)
	}
	if len(documents) == 0 {
		return nil, errors.New("읽을 수 있는 문서가 없습니다")
	}
	logger.Info("문서 로드 완료", "documents", len(documents))

	chunks := splitter.Split(documents)
	if len(chunks) == 0 {
		return nil, errors.New("문서에서 텍스트를 추출하지 못했습니다")
	}
	logger.Info("청크 생성 완료", "chunks", len(chunks), "chunk_size", opts.ChunkSize, "chunk_overlap", opts.ChunkOverlap)

	index, err := db.Build(ctx, chunks, embedder, opts.IndexPath, db.BuildOptions{
		BatchSize:  opts.BatchSize,
		OnProgress: opts.OnProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("인덱스 생성 실패: %w", err)
	}

	stats := &Stats{
		Documents: len(documents),
		Chunks:    index.Count(),
		IndexPath: index.Path(),
	}
	logger.Info("인덱스 저장 완료",
		"documents", stats.Documents,
		"chunks", stats.Chunks,
		"dimension", index.Dimension(),
		"path", stats.IndexPath,
	)

	return stats, nil
}
