// Package mail holds the mailbox types shared by the Graph adapter, the
// interactive session and the MCP tools.
package mail

import (
	"fmt"
	"time"
)

// NoneName is printed wherever a sender or recipient name is missing.
const NoneName = "NONE"

// TimestampLayout is how received timestamps are rendered.
const TimestampLayout = "2006-01-02 15:04:05-07:00"

// Well-known folder names accepted wherever a folder id is expected.
const (
	InboxFolderID = "inbox"
	RootFolderID  = "msgfolderroot"
)

// UserProfile describes the signed-in user.
type UserProfile struct {
	DisplayName       string
	Mail              string
	UserPrincipalName string
}

// Address returns the mail address, falling back to the principal name.
func (u UserProfile) Address() string {
	if u.Mail != "" {
		return u.Mail
	}
	return u.UserPrincipalName
}

// Recipient is a sender or recipient entry. A nil *Recipient means the
// server returned no email address at all.
type Recipient struct {
	Name string
}

// RecipientName returns r's name or NoneName.
func RecipientName(r *Recipient) string {
	if r == nil || r.Name == "" {
		return NoneName
	}
	return r.Name
}

// MessageSummary contains the message fields the tool selects.
type MessageSummary struct {
	ID               string
	Subject          string
	From             *Recipient
	IsRead           bool
	IsDraft          bool
	ReceivedDateTime *time.Time
	ToRecipients     []*Recipient
}

// FirstRecipient returns the first To recipient or nil.
func (m MessageSummary) FirstRecipient() *Recipient {
	if len(m.ToRecipients) == 0 {
		return nil
	}
	return m.ToRecipients[0]
}

// Received renders ReceivedDateTime with TimestampLayout.
func (m MessageSummary) Received() string {
	if m.ReceivedDateTime == nil {
		return NoneName
	}
	return m.ReceivedDateTime.Format(TimestampLayout)
}

// MessagePage is a single page of a message listing.
type MessagePage struct {
	Items    []MessageSummary
	NextLink string
}

// HasMore reports whether the server returned a continuation link.
func (p MessagePage) HasMore() bool {
	return p.NextLink != ""
}

// FolderSummary identifies a mail folder.
type FolderSummary struct {
	ID          string
	DisplayName string
}

// MessageQuery narrows a message listing.
type MessageQuery struct {
	Select  []string
	Top     int32
	OrderBy []string
}

// APIError is a structured error returned by the mail API.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mail api error: %s %s", e.Code, e.Message)
}
