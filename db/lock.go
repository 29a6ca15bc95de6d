package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gprmax-ragbot/models"

	"github.com/gofrs/flock"
)

// errBuildInProgress 같은 인덱스를 다른 프로세스가 만들고 있음
var errBuildInProgress = errors.New("다른 수집 작업이 같은 인덱스를 만들고 있습니다")

func lockPath(path string) string {
	return path + ".lock"
}

// lockIndex 인덱스 재생성 중 다른 프로세스의 동시 재생성을 막습니다. 기다리지 않고 바로 실패합니다.
func lockIndex(path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: 디렉터리 생성 실패: %w", models.ErrIO, err)
	}

	fl := flock.New(lockPath(path))
	acquired, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: 잠금 실패: %w", models.ErrIO, err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: %w", models.ErrIO, errBuildInProgress)
	}

	return fl.Unlock, nil
}
