package content

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// MemoryRepository is an in-memory content graph used by tests and by builds
// that load content straight from disk. Records keep insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	nodes []*Node
	index map[string]int
}

var _ interfaces.ContentQuery = (*MemoryRepository)(nil)

// NewMemoryRepository creates a repository seeded with the supplied nodes.
func NewMemoryRepository(nodes ...*Node) (*MemoryRepository, error) {
	repo := &MemoryRepository{index: map[string]int{}}
	if err := repo.Add(nodes...); err != nil {
		return nil, err
	}
	return repo, nil
}

// Add stores the supplied nodes. Identifiers must be unique.
func (m *MemoryRepository) Add(nodes ...*Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, node := range nodes {
		if node == nil {
			continue
		}
		id := strings.TrimSpace(node.ID)
		if id == "" {
			return ErrNodeIDRequired
		}
		if _, exists := m.index[id]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateNode, id)
		}
		m.index[id] = len(m.nodes)
		m.nodes = append(m.nodes, cloneNode(node))
	}
	return nil
}

// FindAll returns copies of every node of contentType matching filter.
func (m *MemoryRepository) FindAll(ctx context.Context, contentType string, filter Filter) ([]*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Node, 0)
	for _, node := range m.nodes {
		if node.Type != contentType {
			continue
		}
		if filter.Locale != "" && node.Locale != filter.Locale {
			continue
		}
		out = append(out, cloneNode(node))
	}
	return out, nil
}

// GetNodeByID returns a copy of the node with id. A type mismatch is
// reported as not found.
func (m *MemoryRepository) GetNodeByID(ctx context.Context, id string, contentType string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.index[id]
	if !ok || (contentType != "" && m.nodes[idx].Type != contentType) {
		return nil, &NotFoundError{Resource: resourceName(contentType), Key: id}
	}
	return cloneNode(m.nodes[idx]), nil
}

// All returns copies of every stored node in insertion order.
func (m *MemoryRepository) All() []*Node {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Node, 0, len(m.nodes))
	for _, node := range m.nodes {
		out = append(out, cloneNode(node))
	}
	return out
}

func resourceName(contentType string) string {
	if contentType == "" {
		return "node"
	}
	return contentType
}
