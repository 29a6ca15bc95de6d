package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gprmax-ragbot/embedding"
	"gprmax-ragbot/models"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
)

const (
	collectionName   = "gprmax_docs"
	defaultBatchSize = 32
)

// BuildOptions 인덱스 생성 옵션
type BuildOptions struct {
	BatchSize  int                   // 임베딩 요청당 청크 수
	OnProgress func(done, total int) // 배치마다 호출됨
}

// Index 한 번 만들어진 뒤 변경되지 않는 벡터 인덱스 핸들.
// 프로세스 시작 시 한 번 열고 모든 질의에 같은 핸들을 넘깁니다.
type Index struct {
	collection *chromem.Collection
	path       string
	dimension  int
	count      int
}

// noEmbedding 인덱스는 미리 계산된 벡터만 다루므로 chromem 내부 임베딩을 막습니다
func noEmbedding(context.Context, string) ([]float32, error) {
	return nil, errors.New("인덱스에서 임베딩을 직접 생성하지 않습니다")
}

func chunkID(seq int) string {
	return fmt.Sprintf("chunk-%06d", seq)
}

// Exists 인덱스 파일이 존재하는지 확인합니다
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Build 청크를 임베딩하고 인덱스를 만들어 path에 저장합니다.
// 항상 전체를 새로 만들며, 임시 파일에 쓴 뒤 rename으로 기존 파일을 교체합니다.
func Build(ctx context.Context, chunks []*models.Chunk, embedder embedding.Embedder, path string, opts BuildOptions) (*Index, error) {
	if len(chunks) == 0 {
		return nil, errors.New("인덱스에 넣을 청크가 없습니다")
	}

	unlock, err := lockIndex(path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	vectors, err := embedAll(ctx, chunks, embedder, batchSize, opts.OnProgress)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(chunks))
	metadatas := make([]map[string]string, len(chunks))
	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		meta := make(map[string]string, len(chunk.Meta)+1)
		for k, v := range chunk.Meta {
			meta[k] = v
		}
		meta[models.MetaSeq] = strconv.Itoa(i)

		chunk.ID = chunkID(i)
		chunk.Meta = meta
		chunk.Vector = vectors[i]

		ids[i] = chunk.ID
		metadatas[i] = meta
		contents[i] = chunk.Content
	}

	vdb := chromem.NewDB()
	collection, err := vdb.CreateCollection(collectionName, map[string]string{"hnsw:space": "cosine"}, noEmbedding)
	if err != nil {
		return nil, fmt.Errorf("Collection 생성 실패: %w", err)
	}

	if err := collection.Add(ctx, ids, vectors, metadatas, contents); err != nil {
		return nil, fmt.Errorf("문서 추가 실패: %w", err)
	}

	if err := persist(vdb, path); err != nil {
		return nil, err
	}

	return &Index{
		collection: collection,
		path:       path,
		dimension:  len(vectors[0]),
		count:      len(chunks),
	}, nil
}

// embedAll 배치 단위로 임베딩하고 응답 개수와 차원을 검증합니다
func embedAll(ctx context.Context, chunks []*models.Chunk, embedder embedding.Embedder, batchSize int, onProgress func(done, total int)) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	dimension := 0

	for start := 0; start < len(chunks); start += batchSize {
		end := min(start+batchSize, len(chunks))

		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Content)
		}

		batch, err := embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return nil, providerError(fmt.Errorf("청크 %d-%d 임베딩 실패: %w", start, end-1, err))
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("%w: 청크 %d개에 벡터 %d개가 반환되었습니다", models.ErrEmbeddingProvider, len(texts), len(batch))
		}

		for i, vector := range batch {
			if dimension == 0 {
				dimension = len(vector)
			}
			if len(vector) == 0 || len(vector) != dimension {
				return nil, fmt.Errorf("%w: 청크 %d의 벡터 차원 %d (기대값 %d)", models.ErrEmbeddingProvider, start+i, len(vector), dimension)
			}
			vectors = append(vectors, vector)
		}

		if onProgress != nil {
			onProgress(end, len(chunks))
		}
	}

	return vectors, nil
}

func providerError(err error) error {
	if errors.Is(err, models.ErrEmbeddingProvider) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", models.ErrEmbeddingProvider, err)
}

// persist 같은 디렉터리의 임시 파일에 내보낸 뒤 원자적으로 교체합니다
func persist(vdb *chromem.DB, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: 디렉터리 생성 실패: %w", models.ErrIO, err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+".tmp-"+uuid.NewString())
	compress := strings.HasSuffix(path, ".gz")
	if err := vdb.ExportToFile(tmp, compress, ""); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: 인덱스 저장 실패: %w", models.ErrIO, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: 인덱스 교체 실패: %w", models.ErrIO, err)
	}

	return nil
}

// Open 저장된 인덱스를 읽기 전용으로 엽니다.
// 파일이 없으면 ErrIndexNotFound를 반환합니다.
func Open(ctx context.Context, path string) (*Index, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (먼저 ingest를 실행하세요)", models.ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", models.ErrIO, err)
	}

	vdb := chromem.NewDB()
	if err := vdb.ImportFromFile(path, ""); err != nil {
		return nil, fmt.Errorf("%w: 인덱스 로드 실패: %w", models.ErrIO, err)
	}

	collection := vdb.GetCollection(collectionName, noEmbedding)
	if collection == nil {
		return nil, fmt.Errorf("%w: 인덱스에 %s 컬렉션이 없습니다", models.ErrIO, collectionName)
	}

	idx := &Index{
		collection: collection,
		path:       path,
		count:      collection.Count(),
	}

	if err := idx.validate(ctx); err != nil {
		return nil, err
	}

	return idx, nil
}

// validate 모든 청크가 존재하고 같은 차원의 벡터를 갖는지 확인합니다
func (idx *Index) validate(ctx context.Context) error {
	for seq := 0; seq < idx.count; seq++ {
		doc, err := idx.collection.GetByID(ctx, chunkID(seq))
		if err != nil {
			return fmt.Errorf("%w: 청크 %d 조회 실패: %w", models.ErrIO, seq, err)
		}
		if idx.dimension == 0 {
			idx.dimension = len(doc.Embedding)
		}
		if len(doc.Embedding) == 0 || len(doc.Embedding) != idx.dimension {
			return fmt.Errorf("%w: 청크 %d의 벡터 차원 %d (기대값 %d)", models.ErrDimensionMismatch, seq, len(doc.Embedding), idx.dimension)
		}
	}
	return nil
}

// Path 인덱스 파일 경로를 반환합니다
func (idx *Index) Path() string {
	return idx.path
}

// Dimension 인덱스 벡터 차원을 반환합니다
func (idx *Index) Dimension() int {
	return idx.dimension
}

// Count 저장된 청크 개수를 반환합니다
func (idx *Index) Count() int {
	return idx.count
}

// Search 질문 벡터와 가장 유사한 청크를 topK개 반환합니다.
// 유사도 내림차순이며 같은 유사도는 먼저 추가된 청크가 앞에 옵니다.
func (idx *Index) Search(ctx context.Context, queryVector []float32, topK int) ([]*models.Chunk, error) {
	if len(queryVector) != idx.dimension {
		return nil, fmt.Errorf("%w: 질문 벡터 %d차원, 인덱스 %d차원", models.ErrDimensionMismatch, len(queryVector), idx.dimension)
	}
	if idx.count == 0 || topK <= 0 {
		return nil, nil
	}

	// 동점 처리 순서를 보장하려고 전체 결과를 받아서 정렬
	results, err := idx.collection.QueryEmbedding(ctx, queryVector, idx.count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("검색 실패: %w", err)
	}

	chunks := make([]*models.Chunk, 0, len(results))
	for _, result := range results {
		meta := make(map[string]string, len(result.Metadata))
		for k, v := range result.Metadata {
			meta[k] = v
		}
		chunks = append(chunks, &models.Chunk{
			ID:         result.ID,
			Content:    result.Content,
			Vector:     result.Embedding,
			Meta:       meta,
			Similarity: result.Similarity,
		})
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].Similarity != chunks[j].Similarity {
			return chunks[i].Similarity > chunks[j].Similarity
		}
		return chunks[i].Seq() < chunks[j].Seq()
	})

	if len(chunks) > topK {
		chunks = chunks[:topK]
	}

	return chunks, nil
}
