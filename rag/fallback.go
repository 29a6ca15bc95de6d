package rag

import (
	"errors"

	"gprmax-ragbot/models"
)

// 사용자에게 보여줄 안내 문구
const (
	MsgNoIndex       = "아직 문서 인덱스가 없습니다. 먼저 `ragbot ingest`로 문서를 수집해 주세요."
	MsgTimeout       = "답변 생성 시간이 초과되었습니다. 잠시 후 다시 시도해 주세요."
	MsgNoAnswer      = "지금은 답변을 생성할 수 없습니다. 잠시 후 다시 시도해 주세요."
	MsgEmbedding     = "질문을 처리하지 못했습니다 (임베딩 서비스 오류). 설정과 네트워크를 확인해 주세요."
	MsgIndexMismatch = "인덱스가 현재 임베딩 모델과 맞지 않습니다. `ragbot ingest`로 인덱스를 다시 만들어 주세요."
	MsgUnknown       = "요청을 처리하는 중 오류가 발생했습니다."
)

// FallbackMessage 오류 종류에 맞는 사용자 안내 문구를 반환합니다
func FallbackMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, models.ErrIndexNotFound):
		return MsgNoIndex
	case errors.Is(err, models.ErrGenerationTimeout):
		return MsgTimeout
	case errors.Is(err, models.ErrGeneration):
		return MsgNoAnswer
	case errors.Is(err, models.ErrDimensionMismatch):
		return MsgIndexMismatch
	case errors.Is(err, models.ErrEmbeddingProvider):
		return MsgEmbedding
	default:
		return MsgUnknown
	}
}
