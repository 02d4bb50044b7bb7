package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/graph-mail/internal/mail"
)

const folderPageSize = 100

// ListFoldersRequest selects the folder whose children are listed.
type ListFoldersRequest struct {
	ParentFolderID string `json:"parent_folder_id,omitempty" jsonschema:"parent folder ID, defaults to the configured parent"`
}

// ListFoldersResponse lists child folders in server order.
type ListFoldersResponse struct {
	Folders []Folder `json:"folders" jsonschema:"array of folders"`
}

// Folder is a numbered child folder.
type Folder struct {
	Index int    `json:"index" jsonschema:"1-based position"`
	ID    string `json:"id" jsonschema:"folder ID"`
	Name  string `json:"name" jsonschema:"folder display name"`
}

type listFoldersSvc interface {
	ListChildFolders(ctx context.Context, parentID string, top int32) ([]mail.FolderSummary, error)
}

// NewListFolders creates a ListFolders tool. defaultParent is used when a
// request names no parent.
func NewListFolders(svc listFoldersSvc, defaultParent string) *ListFolders {
	if defaultParent == "" {
		defaultParent = mail.RootFolderID
	}

	return &ListFolders{
		svc:           svc,
		defaultParent: defaultParent,
	}
}

// ListFolders lists the child folders of a parent folder.
type ListFolders struct {
	svc           listFoldersSvc
	defaultParent string
}

func (t *ListFolders) ListFolders(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListFoldersRequest,
) (*mcp.CallToolResult, ListFoldersResponse, error) {
	parent := input.ParentFolderID
	if parent == "" {
		parent = t.defaultParent
	}

	folders, err := t.svc.ListChildFolders(ctx, parent, folderPageSize)
	if err != nil {
		return nil, ListFoldersResponse{}, fmt.Errorf("svc.ListChildFolders failed: %w", err)
	}

	res := ListFoldersResponse{Folders: make([]Folder, 0, len(folders))}
	for i, f := range folders {
		res.Folders = append(res.Folders, Folder{Index: i + 1, ID: f.ID, Name: f.DisplayName})
	}

	return nil, res, nil
}
