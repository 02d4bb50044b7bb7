package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/graph-mail/internal/mail"
)

const (
	folderMessagesDefaultResults = 100
	folderMessagesMaxResults     = 1000
)

// ListFolderMessagesRequest selects a folder and filters its messages.
type ListFolderMessagesRequest struct {
	FolderID      string `json:"folder_id" jsonschema:"folder ID as returned by list_folders"`
	MaxResults    int32  `json:"max_results,omitempty" jsonschema:"max messages to fetch, newest first"`
	IncludeDrafts bool   `json:"include_drafts,omitempty" jsonschema:"also return draft messages"`
}

// NewListFolderMessages creates a new ListFolderMessages tool.
func NewListFolderMessages(svc listMessagesSvc) *ListFolderMessages {
	return &ListFolderMessages{
		svc: svc,
	}
}

// ListFolderMessages lists the messages of one folder.
type ListFolderMessages struct {
	svc listMessagesSvc
}

// ListFolderMessages returns the folder's messages, drafts excluded unless
// requested. TotalResults counts the returned messages only.
func (t *ListFolderMessages) ListFolderMessages(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListFolderMessagesRequest,
) (*mcp.CallToolResult, MessageList, error) {
	if input.FolderID == "" {
		return nil, MessageList{}, errors.New("folder_id is required")
	}

	page, err := t.svc.ListMessages(ctx, input.FolderID, mail.MessageQuery{
		Select:  []string{"from", "isRead", "receivedDateTime", "subject", "toRecipients", "isDraft"},
		Top:     normalizeMaxResults(input.MaxResults, folderMessagesDefaultResults, folderMessagesMaxResults),
		OrderBy: []string{"receivedDateTime DESC"},
	})
	if err != nil {
		return nil, MessageList{}, fmt.Errorf("svc.ListMessages failed: %w", err)
	}

	messages := make([]MessageSummary, 0, len(page.Items))
	for _, m := range page.Items {
		if m.IsDraft && !input.IncludeDrafts {
			continue
		}
		messages = append(messages, summarize(m, true))
	}

	return nil, MessageList{
		Messages:     messages,
		HasMore:      page.HasMore(),
		TotalResults: len(messages),
	}, nil
}
