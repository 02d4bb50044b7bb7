package session_test

import (
	"context"
	"errors"

	"github.com/hal9000y/graph-mail/internal/mail"
)

type listMessagesCall struct {
	folderID string
	query    mail.MessageQuery
}

type mailSvcMock struct {
	CurrentUserFunc      func(ctx context.Context) (mail.UserProfile, error)
	AccessTokenFunc      func(ctx context.Context) (string, error)
	ListMessagesFunc     func(ctx context.Context, folderID string, q mail.MessageQuery) (mail.MessagePage, error)
	ListChildFoldersFunc func(ctx context.Context, parentID string, top int32) ([]mail.FolderSummary, error)

	listMessagesCalls []listMessagesCall
	childFolderCalls  []string
	tokenCalls        int
}

var errNotMocked = errors.New("not mocked")

func (m *mailSvcMock) CurrentUser(ctx context.Context) (mail.UserProfile, error) {
	if m.CurrentUserFunc == nil {
		return mail.UserProfile{DisplayName: "Test User", Mail: "test@example.com"}, nil
	}
	return m.CurrentUserFunc(ctx)
}

func (m *mailSvcMock) AccessToken(ctx context.Context) (string, error) {
	m.tokenCalls++
	if m.AccessTokenFunc == nil {
		return "", errNotMocked
	}
	return m.AccessTokenFunc(ctx)
}

func (m *mailSvcMock) ListMessages(ctx context.Context, folderID string, q mail.MessageQuery) (mail.MessagePage, error) {
	m.listMessagesCalls = append(m.listMessagesCalls, listMessagesCall{folderID: folderID, query: q})
	if m.ListMessagesFunc == nil {
		return mail.MessagePage{}, nil
	}
	return m.ListMessagesFunc(ctx, folderID, q)
}

func (m *mailSvcMock) ListChildFolders(ctx context.Context, parentID string, top int32) ([]mail.FolderSummary, error) {
	m.childFolderCalls = append(m.childFolderCalls, parentID)
	if m.ListChildFoldersFunc == nil {
		return nil, nil
	}
	return m.ListChildFoldersFunc(ctx, parentID, top)
}
