// Package session drives the interactive mailbox menu.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hal9000y/graph-mail/internal/mail"
)

const (
	exitChoice    = 0
	invalidChoice = -1

	inboxPageSize          = 25
	folderPageSize         = 100
	folderMessagesPageSize = 1000
)

var (
	inboxSelect          = []string{"from", "isRead", "receivedDateTime", "subject"}
	folderMessagesSelect = []string{"from", "isRead", "receivedDateTime", "subject", "toRecipients", "isDraft"}
	newestFirst          = []string{"receivedDateTime DESC"}
)

type mailSvc interface {
	CurrentUser(ctx context.Context) (mail.UserProfile, error)
	AccessToken(ctx context.Context) (string, error)
	ListMessages(ctx context.Context, folderID string, q mail.MessageQuery) (mail.MessagePage, error)
	ListChildFolders(ctx context.Context, parentID string, top int32) ([]mail.FolderSummary, error)
}

// Controller reads menu choices from in and renders results to out.
type Controller struct {
	svc            mailSvc
	in             *bufio.Scanner
	out            io.Writer
	log            *slog.Logger
	parentFolderID string
}

// New creates a Controller. parentFolderID is the folder whose children the
// folder listing enumerates; empty means the mailbox root.
func New(svc mailSvc, in io.Reader, out io.Writer, parentFolderID string, logger *slog.Logger) *Controller {
	if parentFolderID == "" {
		parentFolderID = mail.RootFolderID
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Controller{
		svc:            svc,
		in:             bufio.NewScanner(in),
		out:            out,
		log:            logger.With("component", "session"),
		parentFolderID: parentFolderID,
	}
}

// Run greets the user and loops over the menu until exit or end of input.
func (c *Controller) Run(ctx context.Context) error {
	c.printf("Email extractor tool\n\n")

	if err := c.greet(ctx); err != nil {
		return fmt.Errorf("greet failed: %w", err)
	}

	choice := invalidChoice
	for choice != exitChoice {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.printMenu()

		var ok bool
		choice, ok = c.readInt()
		if !ok {
			choice = exitChoice
		}

		if err := c.dispatch(ctx, choice); err != nil {
			c.log.Error("menu action failed", "choice", choice, "error", err)
			c.printError(err)
		}
	}

	return nil
}

func (c *Controller) dispatch(ctx context.Context, choice int) error {
	switch choice {
	case exitChoice:
		c.printf("Goodbye...\n")
		return nil
	case 1:
		return c.ShowToken(ctx)
	case 2:
		return c.ListInbox(ctx)
	case 3:
		return c.ListFolderAndMessages(ctx)
	default:
		c.printf("Invalid choice!\n\n")
		return nil
	}
}

func (c *Controller) greet(ctx context.Context) error {
	user, err := c.svc.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("svc.CurrentUser failed: %w", err)
	}

	c.printf("Hello, %s\n", user.DisplayName)
	c.printf("Email: %s\n\n", user.Address())

	return nil
}

func (c *Controller) printMenu() {
	c.printf("Please choose one of the following options:\n")
	c.printf("0. Exit\n")
	c.printf("1. Display access token\n")
	c.printf("2. List my inbox\n")
	c.printf("3. List closed cases\n")
}

// ShowToken prints a freshly acquired access token.
func (c *Controller) ShowToken(ctx context.Context) error {
	token, err := c.svc.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("svc.AccessToken failed: %w", err)
	}

	c.printf("User token: %s\n\n", token)

	return nil
}

// ListInbox prints the newest inbox messages and whether more exist.
func (c *Controller) ListInbox(ctx context.Context) error {
	page, err := c.svc.ListMessages(ctx, mail.InboxFolderID, mail.MessageQuery{
		Select:  inboxSelect,
		Top:     inboxPageSize,
		OrderBy: newestFirst,
	})
	if err != nil {
		return fmt.Errorf("svc.ListMessages failed: %w", err)
	}

	if len(page.Items) == 0 {
		return nil
	}

	for _, m := range page.Items {
		status := "Unread"
		if m.IsRead {
			status = "Read"
		}

		c.printf("Message: %s\n", m.Subject)
		c.printf("  From: %s\n", mail.RecipientName(m.From))
		c.printf("  Status: %s\n", status)
		c.printf("  Received: %s\n", m.Received())
	}

	c.printf("\nMore messages available? %s\n\n", boolWord(page.HasMore()))

	return nil
}

// ListFolderAndMessages lists the child folders of the configured parent,
// lets the user pick one by number and prints its non-draft messages.
func (c *Controller) ListFolderAndMessages(ctx context.Context) error {
	folders, err := c.svc.ListChildFolders(ctx, c.parentFolderID, folderPageSize)
	if err != nil {
		return fmt.Errorf("svc.ListChildFolders failed: %w", err)
	}

	if len(folders) == 0 {
		c.printf("No folders found.\n")
		return nil
	}

	index := newFolderIndex(folders)

	c.printf("Clients\n")
	for i, f := range folders {
		c.printf("%d. %s\n", i+1, f.DisplayName)
	}
	c.printf("Please select a client:\n")

	choice, _ := c.readInt()
	name, folderID := index.resolve(choice)

	c.log.Debug("folder selected", "choice", choice, "name", name, "folder_id", folderID)
	c.printf("Client %s selected\n", name)
	c.printf(" \n")

	page, err := c.svc.ListMessages(ctx, folderID, mail.MessageQuery{
		Select:  folderMessagesSelect,
		Top:     folderMessagesPageSize,
		OrderBy: newestFirst,
	})
	if err != nil {
		return fmt.Errorf("svc.ListMessages failed: %w", err)
	}

	if len(page.Items) == 0 {
		return nil
	}

	total := 0
	for _, m := range page.Items {
		if m.IsDraft {
			continue
		}
		total++

		c.printf("Subject: %s\n", m.Subject)
		c.printf("  To: %s\n", mail.RecipientName(m.FirstRecipient()))
		c.printf("  From: %s\n", mail.RecipientName(m.From))
		c.printf("  Received: %s\n", m.Received())
		c.printf(" \n")
	}
	c.printf("Total: %d\n", total)

	return nil
}

// readInt reads one line and parses it as an integer. Parse failures yield
// invalidChoice; ok is false only when input is exhausted.
func (c *Controller) readInt() (int, bool) {
	if !c.in.Scan() {
		return invalidChoice, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(c.in.Text()))
	if err != nil {
		return invalidChoice, true
	}

	return n, true
}

func (c *Controller) printError(err error) {
	c.printf("Error:\n")

	var apiErr *mail.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code != "" || apiErr.Message != "" {
			c.printf("%s %s\n", apiErr.Code, apiErr.Message)
		}
		return
	}

	c.printf("%s\n", err)
}

func (c *Controller) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func boolWord(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
