package tool

import "github.com/hal9000y/graph-mail/internal/mail"

// MessageSummary contains essential message metadata.
type MessageSummary struct {
	ID        string `json:"id" jsonschema:"message ID"`
	Subject   string `json:"subject" jsonschema:"email subject"`
	From      string `json:"from" jsonschema:"sender display name, NONE when absent"`
	To        string `json:"to,omitempty" jsonschema:"first recipient display name"`
	IsRead    bool   `json:"is_read" jsonschema:"whether the message was read"`
	IsDraft   bool   `json:"is_draft,omitempty" jsonschema:"whether the message is a draft"`
	Timestamp string `json:"timestamp" jsonschema:"received timestamp"`
}

// MessageList is a page of messages.
type MessageList struct {
	Messages     []MessageSummary `json:"messages" jsonschema:"array of message summaries"`
	HasMore      bool             `json:"has_more" jsonschema:"whether the server has more messages"`
	TotalResults int              `json:"total_results" jsonschema:"number of messages returned"`
}

func summarize(m mail.MessageSummary, withRecipient bool) MessageSummary {
	s := MessageSummary{
		ID:        m.ID,
		Subject:   m.Subject,
		From:      mail.RecipientName(m.From),
		IsRead:    m.IsRead,
		IsDraft:   m.IsDraft,
		Timestamp: m.Received(),
	}

	if withRecipient {
		s.To = mail.RecipientName(m.FirstRecipient())
	}

	return s
}

func normalizeMaxResults(maxResults, def, limit int32) int32 {
	if maxResults <= 0 {
		return def
	}
	if maxResults > limit {
		return limit
	}
	return maxResults
}
