package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mailSvc interface {
	listMessagesSvc
	listFoldersSvc
}

// NewServer creates an MCP server with mailbox tools. defaultParent is the
// folder list_folders enumerates when no parent is given.
func NewServer(svc mailSvc, defaultParent string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "graph-mail", Version: "v1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_inbox",
		Description: "List the newest messages in the signed-in user's inbox",
	}, NewListInbox(svc).ListInbox)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_folders",
		Description: "List the child folders of a mail folder",
	}, NewListFolders(svc, defaultParent).ListFolders)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_folder_messages",
		Description: "List the messages of a mail folder, excluding drafts unless requested",
	}, NewListFolderMessages(svc).ListFolderMessages)

	return server
}
