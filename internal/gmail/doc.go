// Package gmail provides a client for interacting with the Gmail API.
//
// The client covers the three operations the pipeline needs:
//   - List unread messages (bounded, newest first as Gmail returns them)
//   - Fetch a message's headers and plain-text body
//   - Mark a message read by removing the UNREAD label
//
// Body extraction prefers a direct text body, then the first text/plain
// leaf, descending into multipart/alternative wrappers before other
// parts. Extracted bodies are truncated to a fixed length to bound the
// payload sent to the classifier.
//
// Authentication uses the cached OAuth token from the google package.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := gmail.NewClient(ctx, "credentials.json", "token.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	emails, err := client.ListUnread(ctx, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, e := range emails {
//	    // ... process ...
//	    _ = client.MarkRead(ctx, e.ID)
//	}
package gmail
