// Package gmail reads bank notifications from a Gmail mailbox through the
// Gmail API with service-account credentials.
package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/mail"

	ggmail "google.golang.org/api/gmail/v1"
	goption "google.golang.org/api/option"
)

// Source fetches recent messages for one mailbox user.
type Source struct {
	svc  *ggmail.Service
	user string
	// query narrows the listing server-side; the importer still applies the
	// bank-token gate on every message it receives.
	query string
}

var _ mail.Source = (*Source)(nil)

// Options configures the mailbox to read from.
type Options struct {
	// User is the mailbox owner, "me" for the authenticated account.
	User string
	// Query is an optional Gmail search query, e.g. "from:widiba.it".
	Query string
}

// New creates a Gmail source authenticated with the same service-account
// environment variables the Sheets client uses.
func New(ctx context.Context, opts Options) (*Source, error) {
	credentialsJSON, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}
	svc, err := ggmail.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(ggmail.GmailReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	user := strings.TrimSpace(opts.User)
	if user == "" {
		user = "me"
	}
	return &Source{svc: svc, user: user, query: opts.Query}, nil
}

func credentialsFromEnv() ([]byte, error) {
	if raw := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); raw != "" {
		return []byte(raw), nil
	}
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	credentialsJSON, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return credentialsJSON, nil
}

// Fetch lists up to limit recent messages and resolves subject, body and
// internal date for each. Messages that fail to load are skipped so one bad
// message cannot stall an import run.
func (s *Source) Fetch(ctx context.Context, limit int) ([]core.Message, error) {
	if s.svc == nil {
		return nil, errors.New("gmail service not initialized")
	}
	if limit <= 0 {
		return nil, nil
	}

	call := s.svc.Users.Messages.List(s.user).MaxResults(int64(limit)).Context(ctx)
	if s.query != "" {
		call = call.Q(s.query)
	}
	listing, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	messages := make([]core.Message, 0, len(listing.Messages))
	for _, ref := range listing.Messages {
		full, err := s.svc.Users.Messages.Get(s.user, ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			slog.WarnContext(ctx, "Failed to load mail message", "id", ref.Id, "error", err)
			continue
		}
		messages = append(messages, toMessage(full))
	}
	return messages, nil
}

func toMessage(m *ggmail.Message) core.Message {
	msg := core.Message{
		Date: time.UnixMilli(m.InternalDate).UTC(),
	}
	if m.Payload == nil {
		return msg
	}
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, "Subject") {
			msg.Subject = h.Value
			break
		}
	}
	msg.Body = extractBody(m.Payload)
	return msg
}

// extractBody walks the MIME tree depth-first and returns the first
// text/plain part, falling back to text/html, then to the top-level body.
func extractBody(p *ggmail.MessagePart) string {
	if body := findPart(p, "text/plain"); body != "" {
		return body
	}
	if body := findPart(p, "text/html"); body != "" {
		return body
	}
	return decodePart(p)
}

func findPart(p *ggmail.MessagePart, mimeType string) string {
	if p == nil {
		return ""
	}
	if p.MimeType == mimeType {
		return decodePart(p)
	}
	for _, child := range p.Parts {
		if body := findPart(child, mimeType); body != "" {
			return body
		}
	}
	return ""
}

func decodePart(p *ggmail.MessagePart) string {
	if p == nil || p.Body == nil || p.Body.Data == "" {
		return ""
	}
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(p.Body.Data)
	if err != nil {
		return ""
	}
	return string(decoded)
}
