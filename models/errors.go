package models

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat 읽을 수 없는 파일 형식 (수집 시 건너뛰고 경고만 남김)
	ErrUnsupportedFormat = errors.New("지원하지 않는 파일 형식")

	// ErrEmbeddingProvider 임베딩 제공자 호출 실패 또는 잘못된 응답
	ErrEmbeddingProvider = errors.New("임베딩 제공자 오류")

	// ErrIndexNotFound 인덱스 파일이 없음. 먼저 ingest를 실행해야 합니다
	ErrIndexNotFound = errors.New("인덱스를 찾을 수 없습니다")

	// ErrIO 인덱스 저장/로드 실패
	ErrIO = errors.New("입출력 오류")

	// ErrDimensionMismatch 인덱스 벡터 차원과 질문 벡터 차원이 다름
	ErrDimensionMismatch = errors.New("벡터 차원 불일치")

	// ErrGeneration 언어 모델 답변 생성 실패
	ErrGeneration = errors.New("답변 생성 오류")

	// ErrGenerationTimeout 답변 생성 시간 초과 (ErrGeneration의 하위 오류)
	ErrGenerationTimeout = fmt.Errorf("%w: 시간 초과", ErrGeneration)
)
