package gmail

import (
	"context"
	"fmt"
	"log/slog"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/leadveramedia/Jarvis/internal/google"
	"github.com/leadveramedia/Jarvis/internal/logging"
)

// Client wraps the Gmail Users service.
type Client struct {
	svc    *gmail.UsersService
	logger *slog.Logger
}

// NewClient creates a new Gmail client authenticated with the cached
// OAuth token. An absent or unrefreshable token is returned as an error;
// the caller is expected to treat it as fatal.
func NewClient(ctx context.Context, credentialsFile, tokenFile string) (*Client, error) {
	httpClient, err := google.GetHTTPClient(ctx, credentialsFile, tokenFile)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token: %w", err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:    svc.Users,
		logger: logging.WithService(slog.Default(), "gmail"),
	}, nil
}

// ListUnread fetches up to limit unread messages, in the order Gmail
// returns them (newest first). A message whose detail lookup fails is
// logged and omitted so one bad message cannot abort the batch.
func (c *Client) ListUnread(ctx context.Context, limit int64) ([]Email, error) {
	ids, err := c.listUnreadIDs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread messages: %w", err)
	}

	emails := make([]Email, 0, len(ids))
	for _, id := range ids {
		msg, err := c.GetMessage(ctx, id)
		if err != nil {
			c.logger.Warn("skipping message, detail lookup failed",
				logging.MessageID(id), logging.Err(err))
			continue
		}
		emails = append(emails, toEmail(msg))
	}

	return emails, nil
}

// listUnreadIDs pages through the message list until limit IDs are
// collected or the results run out.
func (c *Client) listUnreadIDs(ctx context.Context, limit int64) ([]string, error) {
	var ids []string
	pageToken := ""

	for {
		remaining := limit - int64(len(ids))
		if remaining <= 0 {
			break
		}

		// Gmail API has a max page size, typically 100
		pageSize := remaining
		if pageSize > 100 {
			pageSize = 100
		}

		req := c.svc.Messages.List("me").Q("is:unread").MaxResults(pageSize).Context(ctx)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		res, err := req.Do()
		if err != nil {
			return nil, err
		}

		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}

		if res.NextPageToken == "" || int64(len(ids)) >= limit {
			break
		}
		pageToken = res.NextPageToken
	}

	if int64(len(ids)) > limit {
		ids = ids[:limit]
	}

	return ids, nil
}

// GetMessage retrieves a full Gmail message.
func (c *Client) GetMessage(ctx context.Context, messageID string) (*gmail.Message, error) {
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// MarkRead removes the UNREAD label from a message. Removing the label
// from an already-read message is a no-op success on the Gmail side, so
// the call is idempotent. Errors are returned for the caller to log;
// they are never fatal to a run.
func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	_, err := c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to mark message %s as read: %w", messageID, err)
	}
	return nil
}
