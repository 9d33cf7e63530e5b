// Package integrations provides HTTP clients for the upstream services
// jengatower talks to.
//
// # Overview
//
//   - [osv]: OSV advisory database, queried per (package, version)
//   - [github]: raw.githubusercontent.com, used to fetch package.json
//
// # Shared Infrastructure
//
// The [Client] type provides the HTTP plumbing both clients share: default
// headers, status mapping to [ErrNotFound] and [StatusError], transport
// failures as [ErrNetwork], optional response caching via [cache.Cache] and
// observability hooks. It never retries; each caller owns its failure policy.
//
// [osv]: github.com/matzehuels/jengatower/pkg/integrations/osv
// [github]: github.com/matzehuels/jengatower/pkg/integrations/github
// [cache.Cache]: github.com/matzehuels/jengatower/pkg/cache.Cache
package integrations
