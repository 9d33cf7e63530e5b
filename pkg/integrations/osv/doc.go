// Package osv provides a client for the OSV advisory database.
//
// # Overview
//
// Each dependency is looked up with one POST to https://api.osv.dev/v1/query:
//
//	{"package": {"name": "lodash", "ecosystem": "npm"}, "version": "4.17.21"}
//
// The version sent is the normalized form of the declared spec (see
// [semver.Normalize]); specs that do not name a concrete version are skipped.
//
// # Usage
//
//	client := osv.NewClient(osv.Config{Cache: c, Logger: logger})
//	results, err := client.QueryBatch(ctx, []osv.Query{
//	    {Name: "lodash", Version: "^4.17.20"},
//	    {Name: "express", Version: "~4.18.0"},
//	})
//	resp := results["lodash@^4.17.20"]
//
// # Failure Policy
//
// HTTP 404 is a valid "no advisories" answer. Transport errors, other
// non-2xx statuses and undecodable bodies degrade that item to an empty
// [Response] with Failed set, logged at warn level. Nothing is retried and
// failures are never cached.
//
// [semver.Normalize]: github.com/matzehuels/jengatower/pkg/semver.Normalize
package osv
