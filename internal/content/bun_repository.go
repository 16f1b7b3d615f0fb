package content

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// BunRepository persists the content graph through bun, typically on sqlite.
// Lookups go through the optional cache; scans always hit the database.
type BunRepository struct {
	db     *bun.DB
	base   repository.Repository[*NodeRecord]
	lookup repository.Repository[*NodeRecord]
}

var _ interfaces.ContentQuery = (*BunRepository)(nil)

// NewBunRepository wires a repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache wraps the repository with go-repository-cache when
// both cache collaborators are supplied.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	base := NewNodeRepository(db)
	return &BunRepository{
		db:     db,
		base:   base,
		lookup: wrapWithCache(base, cacheService, keySerializer),
	}
}

// Migrate creates the node table when missing.
func (r *BunRepository) Migrate(ctx context.Context) error {
	_, err := r.db.NewCreateTable().Model((*NodeRecord)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("content: migrate nodes: %w", err)
	}
	return nil
}

// Store replaces the stored graph with nodes, preserving their position for
// scans. Rows left over from an earlier load are removed in the same
// transaction.
func (r *BunRepository) Store(ctx context.Context, nodes []*Node) error {
	for _, node := range nodes {
		if node != nil && strings.TrimSpace(node.ID) == "" {
			return ErrNodeIDRequired
		}
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*NodeRecord)(nil)).
			Where("1 = 1").
			Exec(ctx); err != nil {
			return fmt.Errorf("content: clear nodes: %w", err)
		}

		for i, node := range nodes {
			if node == nil {
				continue
			}
			if _, err := r.base.CreateTx(ctx, tx, newNodeRecord(node, i)); err != nil {
				return fmt.Errorf("content: store node %s: %w", node.ID, err)
			}
		}
		return nil
	})
}

// FindAll scans nodes of contentType, optionally narrowed to one locale.
func (r *BunRepository) FindAll(ctx context.Context, contentType string, filter Filter) ([]*Node, error) {
	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Where("?TableAlias.type = ?", contentType)
			if filter.Locale != "" {
				q = q.Where("?TableAlias.locale = ?", filter.Locale)
			}
			return q.OrderExpr("?TableAlias.position ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("content: find %s: %w", contentType, err)
	}

	out := make([]*Node, 0, len(records))
	for _, record := range records {
		out = append(out, record.Node())
	}
	return out, nil
}

// GetNodeByID resolves a node by its content id.
func (r *BunRepository) GetNodeByID(ctx context.Context, id string, contentType string) (*Node, error) {
	record, err := r.lookup.GetByIdentifier(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err, resourceName(contentType), id)
	}
	if contentType != "" && record.Type != contentType {
		return nil, &NotFoundError{Resource: resourceName(contentType), Key: id}
	}
	return record.Node(), nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
