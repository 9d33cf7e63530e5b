// Package pkg provides the core libraries for jengatower.
//
// # Overview
//
// jengatower turns the direct dependencies of an npm package.json into a
// Jenga tower: every dependency with a known vulnerability gets a layer of
// its own and sticks out of the tower by a distance that grows with its
// worst severity. The pkg directory is organized into these areas:
//
//  1. [manifest] and [semver] - package.json parsing and version normalization
//  2. [integrations] - HTTP clients for OSV and raw.githubusercontent.com
//  3. [severity] - advisory classification and worst-of aggregation
//  4. [tower] - deterministic tower layout and its JSON format
//  5. [pipeline] - orchestration (parse → resolve → layout)
//  6. [cache], [config], [observability], [server] - infrastructure
//
// # Architecture
//
// The data flow of one analysis:
//
//	package.json (inline or GitHub)
//	         ↓
//	    [manifest] package (ordered dependency list)
//	         ↓
//	    [integrations/osv] package (batched advisory lookups)
//	         ↓
//	    [severity] package (worst severity per package)
//	         ↓
//	    [tower] package (blocks, positions, rotations)
//	         ↓
//	    JSON layout for a 3D renderer
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(time.Hour), cache.NewDefaultKeyer(), logger)
//	result, err := runner.Analyze(ctx, pipeline.Options{Manifest: text})
//	if err != nil {
//	    return err
//	}
//	tower.WriteLayoutFile(result.Layout, "tower.json")
//
// The [server] package exposes the same pipeline over HTTP and
// [config] loads the TOML file shared by the CLI and the server.
package pkg
