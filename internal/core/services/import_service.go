package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finvault/internal/core/domain"
)

// previewSize bounds the preview list in the import summary.
const previewSize = 5

// dateLayouts are tried in order when parsing a date, both for the CSV
// import date column and for API payloads.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
}

func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// rowCandidate is the transient per-line structure between the tokenizer and
// the validator. It is never persisted.
type rowCandidate struct {
	line     int // 1-based file position; the header makes data row 1 report as 2
	date     string
	title    string
	amount   string
	typ      string
	category string
}

// CategoryResolver is the slice of the category store the pipeline needs.
type CategoryResolver interface {
	FindOrCreate(ctx context.Context, userID uuid.UUID, name string, ctype domain.CategoryType) (*domain.Category, error)
}

// TransactionStore is the slice of the transaction store the pipeline needs.
type TransactionStore interface {
	FindDuplicate(ctx context.Context, key domain.DuplicateKey) (*domain.Transaction, error)
	Create(ctx context.Context, t *domain.Transaction) error
}

// ImportService runs the CSV statement import pipeline: tokenize, validate
// per row, resolve categories, deduplicate against stored transactions and
// persist what survives.
type ImportService struct {
	categories   CategoryResolver
	transactions TransactionStore
	logger       *slog.Logger
}

func NewImportService(categories CategoryResolver, transactions TransactionStore, logger *slog.Logger) *ImportService {
	return &ImportService{
		categories:   categories,
		transactions: transactions,
		logger:       logger,
	}
}

// ImportCSV processes one uploaded statement. File-level preconditions
// (extension, empty body, missing header columns) reject the whole upload
// with nothing persisted; row-level failures are collected and never abort
// the remaining rows.
//
// Rows are processed strictly in file order. Duplicate detection only
// consults previously *stored* transactions, so two identical rows inside
// the same file both import; that behavior is deliberate.
func (s *ImportService) ImportCSV(ctx context.Context, userID uuid.UUID, filename string, data []byte) (*domain.ImportOutcome, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return nil, domain.ErrNotCSV
	}

	lines := splitLines(string(data))
	if len(lines) < 2 {
		return nil, domain.ErrEmptyCSV
	}

	cols, err := resolveHeader(parseLine(lines[0]))
	if err != nil {
		return nil, err
	}

	var (
		imported  []domain.Transaction
		rowErrors []domain.RowError
		skipped   int
	)

	// Repeated category names within one upload reuse the first lookup.
	categoryCache := make(map[string]*domain.Category)

	// Rows created by this upload. The duplicate check only counts records
	// that predate the upload, so a hit on one of these is not a skip.
	createdThisRun := make(map[uuid.UUID]bool)

	for i, raw := range lines[1:] {
		fields := parseLine(raw)
		candidate := rowCandidate{
			line:     i + 2,
			date:     pick(fields, cols.date),
			title:    pick(fields, cols.title),
			amount:   pick(fields, cols.amount),
			typ:      pick(fields, cols.typ),
			category: pick(fields, cols.category),
		}

		created, isDuplicate, err := s.processRow(ctx, userID, candidate, categoryCache, createdThisRun)
		switch {
		case err != nil:
			rowErrors = append(rowErrors, domain.RowError{Line: candidate.line, Error: err.Error()})
		case isDuplicate:
			skipped++
		default:
			imported = append(imported, *created)
		}
	}

	preview := imported
	if len(preview) > previewSize {
		preview = preview[:previewSize]
	}
	if imported == nil {
		imported = []domain.Transaction{}
		preview = []domain.Transaction{}
	}
	if rowErrors == nil {
		rowErrors = []domain.RowError{}
	}

	s.logger.Info("csv import finished",
		slog.String("user_id", userID.String()),
		slog.Int("imported", len(imported)),
		slog.Int("skipped", skipped),
		slog.Int("errors", len(rowErrors)),
	)

	return &domain.ImportOutcome{
		Success:  true,
		Imported: len(imported),
		Skipped:  skipped,
		Errors:   len(rowErrors),
		Preview:  preview,
		Details: domain.ImportDetails{
			Transactions: imported,
			Errors:       rowErrors,
		},
	}, nil
}

// processRow validates one candidate and either persists it, reports it as a
// stored-duplicate skip, or returns the row's error. Store failures come
// back as plain errors so the caller records them against the row instead of
// aborting the batch.
func (s *ImportService) processRow(ctx context.Context, userID uuid.UUID, c rowCandidate, categoryCache map[string]*domain.Category, createdThisRun map[uuid.UUID]bool) (*domain.Transaction, bool, error) {
	date, err := ParseDate(c.date)
	if err != nil {
		return nil, false, err
	}

	title := strings.TrimSpace(c.title)
	if title == "" {
		return nil, false, errors.New("title is required")
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(c.amount))
	if err != nil {
		return nil, false, fmt.Errorf("invalid amount %q", c.amount)
	}

	txType, ok := domain.ParseTransactionType(c.typ)
	if !ok {
		return nil, false, fmt.Errorf("invalid type %q: must be EXPENSE or INCOME", c.typ)
	}

	var categoryID *uuid.UUID
	if name := strings.TrimSpace(c.category); name != "" {
		category, ok := categoryCache[name]
		if !ok {
			// A category named for the first time is created with the
			// row's transaction type.
			category, err = s.categories.FindOrCreate(ctx, userID, name, domain.CategoryType(txType))
			if err != nil {
				return nil, false, fmt.Errorf("resolve category %q: %w", name, err)
			}
			categoryCache[name] = category
		}
		categoryID = &category.ID
	}

	existing, err := s.transactions.FindDuplicate(ctx, domain.DuplicateKey{
		UserID:     userID,
		Type:       txType,
		Title:      title,
		Amount:     amount,
		Date:       date,
		CategoryID: categoryID,
	})
	switch {
	case err == nil:
		if !createdThisRun[existing.ID] {
			return nil, true, nil
		}
		// Identical to a row earlier in this same file: import it anyway.
	case !errors.Is(err, domain.ErrNotFound):
		return nil, false, fmt.Errorf("duplicate check: %w", err)
	}

	transaction := &domain.Transaction{
		UserID:     userID,
		Type:       txType,
		Title:      title,
		Amount:     amount,
		Date:       date,
		CategoryID: categoryID,
		IsFixed:    false,
	}
	if err := s.transactions.Create(ctx, transaction); err != nil {
		return nil, false, fmt.Errorf("create transaction: %w", err)
	}
	createdThisRun[transaction.ID] = true

	return transaction, false, nil
}
