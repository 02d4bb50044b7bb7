package gservice

import (
	"errors"

	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"

	"github.com/hal9000y/graph-mail/internal/mail"
)

// APIError converts an OData error returned by the SDK into *mail.APIError.
// Other errors are returned unchanged.
func APIError(err error) error {
	var odataErr *odataerrors.ODataError
	if !errors.As(err, &odataErr) {
		return err
	}

	apiErr := &mail.APIError{}
	if mainErr := odataErr.GetErrorEscaped(); mainErr != nil {
		apiErr.Code = deref(mainErr.GetCode(), "")
		apiErr.Message = deref(mainErr.GetMessage(), "")
	}

	return apiErr
}

// UserFromModel converts a Graph user.
func UserFromModel(u models.Userable) mail.UserProfile {
	if u == nil {
		return mail.UserProfile{}
	}

	return mail.UserProfile{
		DisplayName:       deref(u.GetDisplayName(), ""),
		Mail:              deref(u.GetMail(), ""),
		UserPrincipalName: deref(u.GetUserPrincipalName(), ""),
	}
}

// MessagePageFromModel converts a Graph message collection.
func MessagePageFromModel(res models.MessageCollectionResponseable) mail.MessagePage {
	if res == nil {
		return mail.MessagePage{}
	}

	values := res.GetValue()
	page := mail.MessagePage{
		Items:    make([]mail.MessageSummary, 0, len(values)),
		NextLink: deref(res.GetOdataNextLink(), ""),
	}

	for _, m := range values {
		if m == nil {
			continue
		}
		page.Items = append(page.Items, MessageFromModel(m))
	}

	return page
}

// MessageFromModel converts a Graph message. Flags the server did not
// return are reported as false.
func MessageFromModel(m models.Messageable) mail.MessageSummary {
	summary := mail.MessageSummary{
		ID:               deref(m.GetId(), ""),
		Subject:          deref(m.GetSubject(), ""),
		From:             recipientFromModel(m.GetFrom()),
		IsRead:           derefBool(m.GetIsRead()),
		IsDraft:          derefBool(m.GetIsDraft()),
		ReceivedDateTime: m.GetReceivedDateTime(),
	}

	for _, r := range m.GetToRecipients() {
		summary.ToRecipients = append(summary.ToRecipients, recipientFromModel(r))
	}

	return summary
}

// FoldersFromModel converts a Graph mail folder collection, keeping the
// server order.
func FoldersFromModel(res models.MailFolderCollectionResponseable) []mail.FolderSummary {
	if res == nil {
		return nil
	}

	values := res.GetValue()
	folders := make([]mail.FolderSummary, 0, len(values))

	for _, f := range values {
		if f == nil {
			continue
		}
		folders = append(folders, mail.FolderSummary{
			ID:          deref(f.GetId(), ""),
			DisplayName: deref(f.GetDisplayName(), ""),
		})
	}

	return folders
}

func recipientFromModel(r models.Recipientable) *mail.Recipient {
	if r == nil || r.GetEmailAddress() == nil {
		return nil
	}

	return &mail.Recipient{Name: deref(r.GetEmailAddress().GetName(), "")}
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func derefBool(b *bool) bool {
	return b != nil && *b
}
