// Package github provides a thin client over the GitHub REST API for the
// user-facing tools.
//
// Access tokens are supplied per call, so a single client serves every
// authenticated user. Requests go through go-github with an oauth2 static
// token source; a proactive token bucket keeps the call rate well under
// GitHub's authenticated limit.
//
// Example usage:
//
//	client := github.NewClient()
//
//	user, err := client.GetUser(ctx, accessToken)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	repos, err := client.ListRepos(ctx, accessToken, "all")
package github
