// Package gservice adapts the Microsoft Graph SDK to the mailbox operations
// used by the session and the MCP tools.
package gservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	abstractions "github.com/microsoft/kiota-abstractions-go"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/microsoftgraph/msgraph-sdk-go/users"

	"github.com/hal9000y/graph-mail/internal/mail"
)

var userSelect = []string{"displayName", "mail", "userPrincipalName"}

// NewGraph creates a Graph client authenticated by cred for scopes.
func NewGraph(cred azcore.TokenCredential, scopes []string, logger *slog.Logger) (*Graph, error) {
	client, err := msgraphsdk.NewGraphServiceClientWithCredentials(cred, scopes)
	if err != nil {
		return nil, fmt.Errorf("msgraphsdk.NewGraphServiceClientWithCredentials failed: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Graph{
		client: client,
		cred:   cred,
		scopes: scopes,
		log:    logger.With("component", "graph"),
	}, nil
}

// Graph talks to the signed-in user's mailbox.
type Graph struct {
	client *msgraphsdk.GraphServiceClient
	cred   azcore.TokenCredential
	scopes []string
	log    *slog.Logger
}

// CurrentUser returns the signed-in user's profile.
func (g *Graph) CurrentUser(ctx context.Context) (mail.UserProfile, error) {
	user, err := g.client.Me().Get(ctx, &users.UserItemRequestBuilderGetRequestConfiguration{
		Headers: g.requestHeaders("me.Get"),
		QueryParameters: &users.UserItemRequestBuilderGetQueryParameters{
			Select: userSelect,
		},
	})
	if err != nil {
		return mail.UserProfile{}, fmt.Errorf("me.Get failed: %w", APIError(err))
	}

	return UserFromModel(user), nil
}

// AccessToken acquires an access token for the configured scopes. The
// credential decides whether a cached token is reused.
func (g *Graph) AccessToken(ctx context.Context) (string, error) {
	tok, err := g.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: g.scopes})
	if err != nil {
		return "", fmt.Errorf("cred.GetToken failed: %w", err)
	}

	g.log.Debug("access token acquired", "expires", humanize.Time(tok.ExpiresOn))

	return tok.Token, nil
}

// ListMessages returns one page of messages in folderID.
func (g *Graph) ListMessages(ctx context.Context, folderID string, q mail.MessageQuery) (mail.MessagePage, error) {
	res, err := g.client.Me().MailFolders().ByMailFolderId(folderID).Messages().Get(ctx,
		&users.ItemMailFoldersItemMessagesRequestBuilderGetRequestConfiguration{
			Headers: g.requestHeaders("messages.Get", "folder_id", folderID),
			QueryParameters: &users.ItemMailFoldersItemMessagesRequestBuilderGetQueryParameters{
				Select:  q.Select,
				Top:     top(q.Top),
				Orderby: q.OrderBy,
			},
		})
	if err != nil {
		return mail.MessagePage{}, fmt.Errorf("messages.Get failed: %w", APIError(err))
	}

	page := MessagePageFromModel(res)
	g.log.Debug("messages listed", "folder_id", folderID, "count", len(page.Items), "has_more", page.HasMore())

	return page, nil
}

// ListChildFolders returns up to top child folders of parentID.
func (g *Graph) ListChildFolders(ctx context.Context, parentID string, n int32) ([]mail.FolderSummary, error) {
	res, err := g.client.Me().MailFolders().ByMailFolderId(parentID).ChildFolders().Get(ctx,
		&users.ItemMailFoldersItemChildFoldersRequestBuilderGetRequestConfiguration{
			Headers: g.requestHeaders("childFolders.Get", "parent_id", parentID),
			QueryParameters: &users.ItemMailFoldersItemChildFoldersRequestBuilderGetQueryParameters{
				Top: top(n),
			},
		})
	if err != nil {
		return nil, fmt.Errorf("childFolders.Get failed: %w", APIError(err))
	}

	return FoldersFromModel(res), nil
}

// requestHeaders tags a request with a fresh client-request-id so that a
// failed call can be matched with Graph's server side logs.
func (g *Graph) requestHeaders(op string, attrs ...any) *abstractions.RequestHeaders {
	id := uuid.NewString()

	headers := abstractions.NewRequestHeaders()
	headers.Add("client-request-id", id)

	g.log.Debug("graph request", append([]any{"op", op, "client_request_id", id}, attrs...)...)

	return headers
}

func top(n int32) *int32 {
	if n <= 0 {
		return nil
	}
	return &n
}
