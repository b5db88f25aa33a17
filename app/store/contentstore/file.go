package contentstore

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/agentic-social/agentic-social/pkg/types"
)

// FileStore 从 yaml 文件读取文章, 用于本地调试和命令行
type FileStore struct {
	path  string
	mu    sync.RWMutex
	posts map[int64]types.Post
}

type postFile struct {
	Posts []types.Post `yaml:"posts"`
}

func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload 重新读取文件
func (s *FileStore) Reload() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var f postFile
	if err = yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("failed to parse %s: %w", s.path, err)
	}

	posts := make(map[int64]types.Post, len(f.Posts))
	for _, p := range f.Posts {
		if p.ID <= 0 {
			return fmt.Errorf("post without id in %s", s.path)
		}
		if p.Type == "" {
			p.Type = "post"
		}
		posts[p.ID] = p
	}

	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
	return nil
}

func (s *FileStore) GetPost(_ context.Context, id int64) (*types.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	p.Categories = append([]string(nil), p.Categories...)
	p.Tags = append([]string(nil), p.Tags...)
	return &p, nil
}

func (s *FileStore) GetPermalink(ctx context.Context, id int64) (string, error) {
	p, err := s.GetPost(ctx, id)
	if err != nil || p == nil {
		return "", err
	}
	return p.Permalink, nil
}
