package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Message is one bank notification handed to the extractor by the mail
// collaborator.
type Message struct {
	Subject string
	Body    string
	Date    time.Time
}

// ExtractResult is the tagged outcome of extracting one notification.
// Recognized carries a fully populated transaction candidate; otherwise the
// Transaction is a placeholder record (subject as description, zero amount,
// sentinel category) so the notification still surfaces for manual entry.
type ExtractResult struct {
	Recognized  bool
	Transaction Transaction
}

// Ordered notification patterns. Each captures the amount first and the
// counterparty/description second; the lists are tried top to bottom and the
// first match wins.
var (
	expensePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:pagamento|prelievo|addebito|bonifico).*?di\s+([\d.,]+)\s+euro.*?(?:presso|per|a favore di|su)\s+(.*?)(?:\.|$)`),
		regexp.MustCompile(`(?i)ha\s+prelevato\s+([\d.,]+)\s+euro.*?(?:presso)\s+(.*?)(?:\.|$)`),
	}
	incomePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:accredito|bonifico).*?di\s+([\d.,]+)\s+euro.*?(?:per|da|a favore di)\s+(.*?)(?:\.|$)`),
		regexp.MustCompile(`(?i)hai\s+ricevuto\s+([\d.,]+)\s+euro\s+da\s+(.*?)(?:\.|$)`),
	}
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Extractor turns bank notification messages into transaction candidates.
// The token identifies the bank; messages mentioning it in neither subject
// nor body are not candidates at all.
type Extractor struct {
	token string
}

func NewExtractor(bankToken string) Extractor {
	return Extractor{token: strings.ToLower(strings.TrimSpace(bankToken))}
}

// Extract parses one notification. The second return value is false when the
// message does not mention the bank token and is no candidate. A candidate
// never disappears: it either becomes a recognized transaction or an
// unrecognized placeholder whose ERR fingerprint is stable across runs, so
// rescanning the same mailbox never stages the same notification twice.
func (e Extractor) Extract(msg Message, cats CategorySet) (ExtractResult, bool) {
	body := CollapseWhitespace(msg.Body)
	if !strings.Contains(strings.ToLower(body), e.token) &&
		!strings.Contains(strings.ToLower(msg.Subject), e.token) {
		return ExtractResult{}, false
	}

	if tx, ok := matchFirst(expensePatterns, body, msg, Expense, cats.Expense); ok {
		return ExtractResult{Recognized: true, Transaction: tx}, true
	}
	if tx, ok := matchFirst(incomePatterns, body, msg, Income, cats.Income); ok {
		return ExtractResult{Recognized: true, Transaction: tx}, true
	}

	return ExtractResult{Transaction: unrecognizedRecord(msg)}, true
}

// CollapseWhitespace replaces every run of whitespace with a single space so
// multi-line notification bodies become regex-friendly.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func matchFirst(patterns []*regexp.Regexp, body string, msg Message, dir Direction, allowed []string) (Transaction, bool) {
	for _, rx := range patterns {
		m := rx.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		amount, err := parseAmount(m[1])
		if err != nil {
			// Best-effort parse failed; let the caller surface the
			// notification as unrecognized instead of guessing.
			return Transaction{}, false
		}
		desc := strings.TrimSpace(m[2])
		if desc == "" {
			desc = msg.Subject
		}
		return Transaction{
			Date:        msg.Date,
			Description: desc,
			Amount:      amount,
			Direction:   dir,
			Category:    Classify(desc, allowed),
			PeriodLabel: PeriodLabelFor(msg.Date),
			Fingerprint: Fingerprint(msg.Date, amount, desc),
		}, true
	}
	return Transaction{}, false
}

func unrecognizedRecord(msg Message) Transaction {
	return Transaction{
		Date:        msg.Date,
		Description: msg.Subject,
		Amount:      decimal.Zero,
		Direction:   Expense,
		Category:    SentinelCategory,
		PeriodLabel: PeriodLabelFor(msg.Date),
		Fingerprint: errFingerprint(msg.Date, msg.Subject),
	}
}

// Fingerprint derives the stable dedup key for a recognized transaction:
// same source notification, same fingerprint, every run.
func Fingerprint(date time.Time, amount decimal.Decimal, description string) string {
	runes := []rune(description)
	if len(runes) > 10 {
		runes = runes[:10]
	}
	return fmt.Sprintf("%s-%s-%s", date.Format("20060102"), amount.String(), string(runes))
}

// errFingerprint builds the key for an unrecognized record. The ERR prefix
// keeps it from colliding with a real transaction; the subject hash keeps it
// stable, so the same notification dedups on re-import like any other.
func errFingerprint(date time.Time, subject string) string {
	sum := sha256.Sum256([]byte(subject))
	return fmt.Sprintf("ERR-%s-%s", date.Format("20060102"), hex.EncodeToString(sum[:3]))
}

// ManualFingerprint builds the key for a manual entry that has none yet.
func ManualFingerprint(date time.Time) string {
	return fmt.Sprintf("MAN-%s-%s", date.Format("20060102"), randomHex(6))
}

func randomHex(n int) string {
	u := uuid.New()
	return hex.EncodeToString(u[:])[:n]
}
