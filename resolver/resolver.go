// Package resolver expands parsed references into the concrete identifiers
// to fetch, listing the backend at most once per Resolver.
package resolver

import (
	"context"
	"log/slog"
	"strings"

	errs "github.com/useparagon/aws-secretsmanager-get-secrets/errors"
	"github.com/useparagon/aws-secretsmanager-get-secrets/reference"
)

// Lister lists every secret name visible to the caller.
type Lister interface {
	ListSecrets(ctx context.Context) ([]string, error)
}

// Identifier is one secret to fetch, with the alias of the reference that
// produced it.
type Identifier struct {
	Alias    string
	HasAlias bool
	// ID is a secret name or ARN.
	ID    string
	IsARN bool
}

// String renders the identifier in reference line form.
func (i Identifier) String() string {
	if i.HasAlias {
		return i.Alias + "," + i.ID
	}
	return i.ID
}

// Resolver turns references into identifiers. A Resolver is scoped to a
// single run and is not safe for concurrent use.
type Resolver struct {
	lister Lister
	logger *slog.Logger

	listed bool
	names  []string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New returns a Resolver listing through lister.
func New(lister Lister, opts ...Option) *Resolver {
	r := &Resolver{lister: lister}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve expands refs in order. Direct and ARN locators pass through;
// wildcard locators expand to every listed name starting with their prefix,
// in listing order. The result holds no duplicate (alias, identifier) pairs.
//
// A listing failure is returned as a CodeUnavailable error and is fatal for the run.
func (r *Resolver) Resolve(ctx context.Context, refs []reference.Reference) ([]Identifier, error) {
	out := make([]Identifier, 0, len(refs))
	seen := make(map[Identifier]struct{}, len(refs))
	add := func(id Identifier) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, ref := range refs {
		if !ref.Locator.IsWildcard {
			add(Identifier{
				Alias:    ref.Alias,
				HasAlias: ref.HasAlias,
				ID:       ref.Locator.Raw,
				IsARN:    ref.Locator.IsARN,
			})
			continue
		}

		names, err := r.list(ctx)
		if err != nil {
			return nil, err
		}

		prefix := ref.Locator.Prefix()
		matched := 0
		for _, name := range names {
			if strings.HasPrefix(name, prefix) {
				matched++
				add(Identifier{Alias: ref.Alias, HasAlias: ref.HasAlias, ID: name})
			}
		}
		if r.logger != nil {
			r.logger.DebugContext(ctx, "expanded wildcard",
				"prefix", prefix,
				"matches", matched)
		}
	}

	return out, nil
}

// list returns the memoized listing, calling the backend on first use.
func (r *Resolver) list(ctx context.Context) ([]string, error) {
	if r.listed {
		return r.names, nil
	}

	names, err := r.lister.ListSecrets(ctx)
	if err != nil {
		return nil, errs.Wrap(err, errs.CodeUnavailable, "failed to list secrets")
	}

	r.names = names
	r.listed = true
	return names, nil
}
