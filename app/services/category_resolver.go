package services

import (
	"context"

	"go.uber.org/zap"
)

const DefaultResolverMaxDepth = 64

// ChildLookup returns the direct children of every id in parentIDs.
type ChildLookup interface {
	ChildIDs(ctx context.Context, parentIDs []uint) ([]uint, error)
}

type CategoryResolver interface {
	ResolveDescendants(ctx context.Context, id uint) ([]uint, error)
}

type categoryResolver struct {
	lookup   ChildLookup
	cache    CategoryCache
	maxDepth int
	logger   *zap.Logger
}

// NewCategoryResolver builds a resolver. cache may be nil.
func NewCategoryResolver(lookup ChildLookup, cache CategoryCache, maxDepth int, logger *zap.Logger) CategoryResolver {
	if maxDepth <= 0 {
		maxDepth = DefaultResolverMaxDepth
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &categoryResolver{lookup: lookup, cache: cache, maxDepth: maxDepth, logger: logger}
}

// ResolveDescendants returns id followed by every category below it,
// level by level. An unknown id resolves to itself.
func (r *categoryResolver) ResolveDescendants(ctx context.Context, id uint) ([]uint, error) {
	if r.cache != nil {
		if ids, ok := r.cache.GetDescendants(ctx, id); ok {
			return ids, nil
		}
	}

	result := []uint{id}
	visited := map[uint]bool{id: true}
	queue := []uint{id}
	truncated := false

	for depth := 0; len(queue) > 0; depth++ {
		if depth >= r.maxDepth {
			r.logger.Warn("category tree deeper than resolver limit, result truncated",
				zap.Uint("category_id", id), zap.Int("max_depth", r.maxDepth))
			truncated = true
			break
		}

		children, err := r.lookup.ChildIDs(ctx, queue)
		if err != nil {
			return nil, err
		}

		queue = queue[:0]
		for _, child := range children {
			if visited[child] {
				continue
			}
			visited[child] = true
			result = append(result, child)
			queue = append(queue, child)
		}
	}

	if r.cache != nil && !truncated {
		r.cache.SetDescendants(ctx, id, result)
	}
	return result, nil
}
