package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finvault/internal/core/domain"
)

// fakeCategoryStore resolves categories in memory and can be told to fail
// for specific names.
type fakeCategoryStore struct {
	byName  map[string]*domain.Category
	failOn  map[string]error
	created []domain.Category
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{
		byName: make(map[string]*domain.Category),
		failOn: make(map[string]error),
	}
}

func (f *fakeCategoryStore) FindOrCreate(_ context.Context, userID uuid.UUID, name string, ctype domain.CategoryType) (*domain.Category, error) {
	if err := f.failOn[name]; err != nil {
		return nil, err
	}
	if c, ok := f.byName[name]; ok {
		return c, nil
	}
	c := &domain.Category{ID: uuid.New(), UserID: userID, Name: name, Type: ctype}
	f.byName[name] = c
	f.created = append(f.created, *c)
	return c, nil
}

// fakeTransactionStore keeps created transactions in memory; FindDuplicate
// scans them the way the SQL dedup query would, oldest match first.
type fakeTransactionStore struct {
	stored        []domain.Transaction
	createFailsOn string // title that triggers a store failure
}

func (f *fakeTransactionStore) FindDuplicate(_ context.Context, key domain.DuplicateKey) (*domain.Transaction, error) {
	for i := range f.stored {
		t := &f.stored[i]
		if t.UserID == key.UserID &&
			t.Type == key.Type &&
			t.Title == key.Title &&
			t.Amount.Equal(key.Amount) &&
			t.Date.Equal(key.Date) &&
			equalCategoryID(t.CategoryID, key.CategoryID) {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTransactionStore) Create(_ context.Context, t *domain.Transaction) error {
	if f.createFailsOn != "" && t.Title == f.createFailsOn {
		return errors.New("store exploded")
	}
	t.ID = uuid.New()
	f.stored = append(f.stored, *t)
	return nil
}

func equalCategoryID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func newImportService(categories *fakeCategoryStore, transactions *fakeTransactionStore) *ImportService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewImportService(categories, transactions, logger)
}

func TestImportCSV_HappyPath(t *testing.T) {
	svc := newImportService(newFakeCategoryStore(), &fakeTransactionStore{})

	csv := "date,title,amount,type\n2024-01-15,Coffee,4.50,expense\n"
	outcome, err := svc.ImportCSV(context.Background(), uuid.New(), "statement.csv", []byte(csv))
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Equal(t, 1, outcome.Imported)
	assert.Equal(t, 0, outcome.Skipped)
	assert.Equal(t, 0, outcome.Errors)
	require.Len(t, outcome.Details.Transactions, 1)

	tx := outcome.Details.Transactions[0]
	assert.Equal(t, domain.TypeExpense, tx.Type)
	assert.Equal(t, "Coffee", tx.Title)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("4.50")))
	assert.False(t, tx.IsFixed)
	assert.Nil(t, tx.CategoryID)
}

func TestImportCSV_InvalidAmount_ReportsLineNumber(t *testing.T) {
	svc := newImportService(newFakeCategoryStore(), &fakeTransactionStore{})

	csv := "date,title,amount,type\n" +
		"2024-01-15,Good,10,expense\n" +
		"2024-01-16,Bad,abc,expense\n"
	outcome, err := svc.ImportCSV(context.Background(), uuid.New(), "s.csv", []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Imported)
	assert.Equal(t, 1, outcome.Errors)
	require.Len(t, outcome.Details.Errors, 1)
	// Data row 2, plus one for the header.
	assert.Equal(t, 3, outcome.Details.Errors[0].Line)
	assert.Contains(t, outcome.Details.Errors[0].Error, "amount")
}

func TestImportCSV_RowFailuresDoNotAbortBatch(t *testing.T) {
	svc := newImportService(newFakeCategoryStore(), &fakeTransactionStore{})

	csv := "date,title,amount,type\n" +
		"not-a-date,X,10,expense\n" +
		"2024-01-16,,10,expense\n" +
		"2024-01-17,Y,10,gift\n" +
		"2024-01-18,Z,10,income\n"
	outcome, err := svc.ImportCSV(context.Background(), uuid.New(), "s.csv", []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Imported)
	assert.Equal(t, 3, outcome.Errors)
	lines := []int{outcome.Details.Errors[0].Line, outcome.Details.Errors[1].Line, outcome.Details.Errors[2].Line}
	assert.Equal(t, []int{2, 3, 4}, lines)
}

func TestImportCSV_ReimportSkipsEverything(t *testing.T) {
	categories := newFakeCategoryStore()
	transactions := &fakeTransactionStore{}
	svc := newImportService(categories, transactions)

	csv := "date,title,amount,type,category\n" +
		"2024-01-15,Coffee,4.50,expense,Food\n" +
		"2024-01-16,Salary,5000,income,\n" +
		"2024-01-17,Rent,1200,expense,Housing\n"

	first, err := svc.ImportCSV(context.Background(), uuid.MustParse("11111111-1111-1111-1111-111111111111"), "s.csv", []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 3, first.Imported)
	assert.Equal(t, 0, first.Skipped)

	second, err := svc.ImportCSV(context.Background(), uuid.MustParse("11111111-1111-1111-1111-111111111111"), "s.csv", []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 3, second.Skipped)
	assert.Equal(t, 0, second.Errors)
}

func TestImportCSV_IdenticalRowsWithinOneFileBothImport(t *testing.T) {
	// Dedup only consults records stored before the upload; a file
	// containing the same row twice imports both.
	svc := newImportService(newFakeCategoryStore(), &fakeTransactionStore{})

	csv := "date,title,amount,type\n" +
		"2024-01-15,Coffee,4.50,expense\n" +
		"2024-01-15,Coffee,4.50,expense\n"
	outcome, err := svc.ImportCSV(context.Background(), uuid.New(), "s.csv", []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Imported)
	assert.Equal(t, 0, outcome.Skipped)
}

func TestImportCSV_MissingColumnRejectsWholeFile(t *testing.T) {
	svc := newImportService(newFakeCategoryStore(), &fakeTransactionStore{})

	csv := "date,title,type\n2024-01-15,Coffee,expense\n"
	_, err := svc.ImportCSV(context.Background(), uuid.New(), "s.csv", []byte(csv))
	require.ErrorIs(t, err, domain.ErrMissingColumns)
}

func TestImportCSV_FilePreconditions(t *testing.T) {
	svc := newImportService(newFakeCategoryStore(), &fakeTransactionStore{})
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.ImportCSV(ctx, userID, "statement.txt", []byte("date,title,amount,type\n"))
	assert.ErrorIs(t, err, domain.ErrNotCSV)

	_, err = svc.ImportCSV(ctx, userID, "s.csv", []byte(""))
	assert.ErrorIs(t, err, domain.ErrEmptyCSV)

	// Header only, zero data rows.
	_, err = svc.ImportCSV(ctx, userID, "s.csv", []byte("date,title,amount,type\n"))
	assert.ErrorIs(t, err, domain.ErrEmptyCSV)
}

func TestImportCSV_CreatesMissingCategoryWithRowType(t *testing.T) {
	categories := newFakeCategoryStore()
	svc := newImportService(categories, &fakeTransactionStore{})

	csv := "date,title,amount,type,category\n" +
		"2024-01-15,Salary,5000,income,Paychecks\n"
	outcome, err := svc.ImportCSV(context.Background(), uuid.New(), "s.csv", []byte(csv))
	require.NoError(t, err)
	require.Equal(t, 1, outcome.Imported)

	require.Len(t, categories.created, 1)
	assert.Equal(t, "Paychecks", categories.created[0].Name)
	assert.Equal(t, domain.CategoryType(domain.TypeIncome), categories.created[0].Type)

	require.NotNil(t, outcome.Details.Transactions[0].CategoryID)
	assert.Equal(t, categories.created[0].ID, *outcome.Details.Transactions[0].CategoryID)
}

func TestImportCSV_RepeatedCategoryNameResolvedOnce(t *testing.T) {
	categories := newFakeCategoryStore()
	svc := newImportService(categories, &fakeTransactionStore{})

	csv := "date,title,amount,type,category\n" +
		"2024-01-15,Coffee,4,expense,Food\n" +
		"2024-01-16,Lunch,12,expense,Food\n" +
		"2024-01-17,Dinner,30,expense,Food\n"
	outcome, err := svc.ImportCSV(context.Background(), uuid.New(), "s.csv", []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.Imported)
	assert.Len(t, categories.created, 1)
}

func TestImportCSV_StoreFailureIsARowError(t *testing.T) {
	categories := newFakeCategoryStore()
	categories.failOn["Cursed"] = errors.New("category store down")
	transactions := &fakeTransactionStore{createFailsOn: "Doomed"}
	svc := newImportService(categories, transactions)

	csv := "date,title,amount,type,category\n" +
		"2024-01-15,Fine,10,expense,\n" +
		"2024-01-16,Doomed,10,expense,\n" +
		"2024-01-17,Unlucky,10,expense,Cursed\n" +
		"2024-01-18,Also fine,10,expense,\n"
	outcome, err := svc.ImportCSV(context.Background(), uuid.New(), "s.csv", []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Imported)
	assert.Equal(t, 2, outcome.Errors)
	require.Len(t, outcome.Details.Errors, 2)
	assert.Equal(t, 3, outcome.Details.Errors[0].Line)
	assert.Equal(t, 4, outcome.Details.Errors[1].Line)
}

func TestImportCSV_PreviewCappedAtFive(t *testing.T) {
	svc := newImportService(newFakeCategoryStore(), &fakeTransactionStore{})

	csv := "date,title,amount,type\n"
	rows := []string{
		"2024-01-01,A,1,expense\n",
		"2024-01-02,B,2,expense\n",
		"2024-01-03,C,3,expense\n",
		"2024-01-04,D,4,expense\n",
		"2024-01-05,E,5,expense\n",
		"2024-01-06,F,6,expense\n",
		"2024-01-07,G,7,expense\n",
	}
	for _, r := range rows {
		csv += r
	}

	outcome, err := svc.ImportCSV(context.Background(), uuid.New(), "s.csv", []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, 7, outcome.Imported)
	assert.Len(t, outcome.Preview, 5)
	assert.Len(t, outcome.Details.Transactions, 7)
	assert.Equal(t, "A", outcome.Preview[0].Title)
	assert.Equal(t, "E", outcome.Preview[4].Title)
}

func TestImportCSV_TypeIsCaseInsensitive(t *testing.T) {
	svc := newImportService(newFakeCategoryStore(), &fakeTransactionStore{})

	csv := "date,title,amount,type\n" +
		"2024-01-15,A,1,Expense\n" +
		"2024-01-16,B,2,INCOME\n" +
		"2024-01-17,C,3,income\n"
	outcome, err := svc.ImportCSV(context.Background(), uuid.New(), "s.csv", []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.Imported)
	assert.Equal(t, domain.TypeExpense, outcome.Details.Transactions[0].Type)
	assert.Equal(t, domain.TypeIncome, outcome.Details.Transactions[1].Type)
}
