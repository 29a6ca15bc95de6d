package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gprmax-ragbot/models"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude 디렉터리 수집 시 기본으로 찾는 파일 패턴
var DefaultInclude = []string{"**/*.pdf", "**/*.txt", "**/*.md", "**/*.rst"}

type readFunc func(path string) ([]*models.Document, error)

// 확장자별 읽기 함수
var readers = map[string]readFunc{
	".pdf":  readPDF,
	".txt":  readText,
	".text": readText,
	".md":   readText,
	".rst":  readText,
}

// Loader 파일이나 디렉터리에서 문서를 읽는 구조체
type Loader struct {
	include []string
	logger  *slog.Logger
}

// NewLoader 새로운 문서 로더를 생성합니다
func NewLoader(include []string, logger *slog.Logger) *Loader {
	if len(include) == 0 {
		include = DefaultInclude
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{include: include, logger: logger}
}

// Supported 확장자를 읽을 수 있는지 확인합니다
func Supported(path string) bool {
	_, ok := readers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load 경로에서 문서를 읽습니다.
// 파일이면 해당 파일만 읽고, 디렉터리면 include 패턴에 맞는 모든 파일을 재귀적으로 읽습니다.
// 디렉터리 모드에서 읽지 못한 파일은 경고를 남기고 건너뜁니다.
func (l *Loader) Load(ctx context.Context, path string) ([]*models.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("소스 경로 확인 실패: %w", err)
	}

	if !info.IsDir() {
		return LoadFile(path)
	}

	files, err := l.match(path)
	if err != nil {
		return nil, err
	}

	var documents []*models.Document
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		docs, err := LoadFile(file)
		if err != nil {
			l.logger.Warn("파일을 건너뜁니다", "path", file, "error", err)
			continue
		}

		l.logger.Debug("파일 로드", "path", file, "documents", len(docs))
		documents = append(documents, docs...)
	}

	return documents, nil
}

// LoadFile 파일 하나를 읽습니다. PDF는 페이지마다 Document 하나를 만듭니다
func LoadFile(path string) ([]*models.Document, error) {
	read, ok := readers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedFormat, path)
	}
	return read(path)
}

// match include 패턴에 맞는 파일 목록을 정렬해서 반환합니다
func (l *Loader) match(root string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range l.include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("패턴 %q 검색 실패: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, filepath.Join(root, filepath.FromSlash(m)))
		}
	}

	sort.Strings(files)
	return files, nil
}
