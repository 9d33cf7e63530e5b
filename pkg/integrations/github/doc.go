// Package github fetches package.json manifests from public GitHub
// repositories.
//
// # Overview
//
// Files are read from raw.githubusercontent.com, which needs no token and is
// not subject to the REST API rate limit. The default branch is not looked
// up; instead a fixed list of candidate branches is tried in order.
//
// # Usage
//
//	owner, repo, err := github.ParseRepoURL("https://github.com/vercel/next.js")
//	client := github.NewRawClient(github.RawConfig{})
//	text, branch, err := client.FetchManifest(ctx, owner, repo, "package.json")
//
// # Validation
//
// Owner and repository names are validated before any request is made (see
// [ValidateRepoRef]), so user input never reaches the URL unchecked.
package github
