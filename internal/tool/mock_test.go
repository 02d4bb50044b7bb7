package tool_test

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/graph-mail/internal/mail"
	"github.com/hal9000y/graph-mail/internal/tool"
)

type mailSvcMock struct {
	ListMessagesFunc     func(ctx context.Context, folderID string, q mail.MessageQuery) (mail.MessagePage, error)
	ListChildFoldersFunc func(ctx context.Context, parentID string, top int32) ([]mail.FolderSummary, error)
}

func (m *mailSvcMock) ListMessages(ctx context.Context, folderID string, q mail.MessageQuery) (mail.MessagePage, error) {
	return m.ListMessagesFunc(ctx, folderID, q)
}

func (m *mailSvcMock) ListChildFolders(ctx context.Context, parentID string, top int32) ([]mail.FolderSummary, error) {
	return m.ListChildFoldersFunc(ctx, parentID, top)
}

func connect(t *testing.T, svc *mailSvcMock, defaultParent string) *mcp.ClientSession {
	t.Helper()

	server := tool.NewServer(svc, defaultParent)
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ctx := context.Background()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientSession.Close() })

	return clientSession
}
