package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/graph-mail/internal/mail"
)

const (
	inboxDefaultResults = 25
	inboxMaxResults     = 100
)

type ListInboxRequest struct {
	MaxResults int32 `json:"max_results,omitempty" jsonschema:"max messages to return, newest first"`
}

type listMessagesSvc interface {
	ListMessages(ctx context.Context, folderID string, q mail.MessageQuery) (mail.MessagePage, error)
}

func NewListInbox(svc listMessagesSvc) *ListInbox {
	return &ListInbox{
		svc: svc,
	}
}

type ListInbox struct {
	svc listMessagesSvc
}

func (t *ListInbox) ListInbox(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListInboxRequest,
) (*mcp.CallToolResult, MessageList, error) {
	page, err := t.svc.ListMessages(ctx, mail.InboxFolderID, mail.MessageQuery{
		Select:  []string{"from", "isRead", "receivedDateTime", "subject"},
		Top:     normalizeMaxResults(input.MaxResults, inboxDefaultResults, inboxMaxResults),
		OrderBy: []string{"receivedDateTime DESC"},
	})
	if err != nil {
		return nil, MessageList{}, fmt.Errorf("svc.ListMessages failed: %w", err)
	}

	messages := make([]MessageSummary, 0, len(page.Items))
	for _, m := range page.Items {
		messages = append(messages, summarize(m, false))
	}

	return nil, MessageList{
		Messages:     messages,
		HasMore:      page.HasMore(),
		TotalResults: len(messages),
	}, nil
}
