package service

import (
	"context"
	"strings"

	"github.com/placementdesk/backoffice/internal/store"
)

// ResolverCache memoizes name→id lookups for the duration of one request or
// sweep. It is passed explicitly so batches share hits without a
// process-wide singleton.
type ResolverCache map[string]*int64

func NewResolverCache() ResolverCache {
	return make(ResolverCache)
}

type LookupResolver struct {
	store store.Store
}

func NewLookupResolver(store store.Store) *LookupResolver {
	return &LookupResolver{store: store}
}

func (r *LookupResolver) ResolveClient(ctx context.Context, cache ResolverCache, name string) (*int64, error) {
	return r.resolve(ctx, cache, "client", name, r.store.Lookup().ResolveClient)
}

func (r *LookupResolver) ResolveState(ctx context.Context, cache ResolverCache, name string) (*int64, error) {
	return r.resolve(ctx, cache, "state", name, r.store.Lookup().ResolveState)
}

func (r *LookupResolver) ResolveCity(ctx context.Context, cache ResolverCache, name string) (*int64, error) {
	return r.resolve(ctx, cache, "city", name, r.store.Lookup().ResolveCity)
}

func (r *LookupResolver) resolve(ctx context.Context, cache ResolverCache, kind, name string, fn func(context.Context, string) (*int64, error)) (*int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	key := kind + ":" + strings.ToLower(name)
	if cache != nil {
		if id, hit := cache[key]; hit {
			return id, nil
		}
	}

	id, err := fn(ctx, name)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		cache[key] = id
	}
	return id, nil
}
