// Package teams provides a client for the Microsoft Graph chat APIs used by
// Microsoft Teams.
//
// The client covers the chat surface only: resolving the current user,
// listing chats, creating one-on-one and group chats, sending messages, and
// reading messages. Every call takes the caller's access token; the client
// stores no credentials and no state beyond its HTTP client and the shared
// rate limiter.
//
// All requests flow through a sliding-window rate limiter with retry on
// throttling, matching Graph's published limits for the chat endpoints.
// Non-success responses are returned as *GraphError with the Graph error
// code and message; HTTP 429 becomes a ratelimit.ThrottleError so the
// executor can back off by the server's Retry-After hint.
//
// Example usage:
//
//	limiter := ratelimit.NewLimiter(0, 0) // Graph defaults
//	client := teams.NewClient(limiter)
//
//	chats, err := client.ListChats(ctx, accessToken, teams.ListChatsOptions{Top: 50})
//	if err != nil {
//	    log.Fatal(err)
//	}
package teams
