// Package drive provides a client for listing and searching files in
// Google Drive.
//
// Access tokens are supplied per call, so a single client serves every
// authenticated user. Each call builds a Drive service over an oauth2
// static token source; the client itself stores no credentials.
//
// Example usage:
//
//	client := drive.NewClient()
//
//	files, _, err := client.ListFiles(ctx, accessToken, &drive.ListOptions{
//	    Query:    "name contains 'report'",
//	    PageSize: 10,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
package drive
