package postgres

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestBackfillTokens_EmptyStoreStartsBelowFloor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryMinStreamOrdering)).
		WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(nil))

	tokens := newBackfillTokens(db)

	first, err := tokens.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(-2), first)

	second, err := tokens.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(-3), second)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBackfillTokens_SeedsBelowExistingMinimum(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryMinStreamOrdering)).
		WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(int64(-17)))

	tokens := newBackfillTokens(db)

	token, err := tokens.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(-18), token)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBackfillTokens_PositiveMinimumIsClamped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Only live events stored so far: the counter still starts below -1.
	mock.ExpectQuery(regexp.QuoteMeta(queryMinStreamOrdering)).
		WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(int64(1)))

	tokens := newBackfillTokens(db)

	token, err := tokens.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(-2), token)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBackfillTokens_InitFailureIsSticky(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// One expectation only: the failed query must not be retried.
	mock.ExpectQuery(regexp.QuoteMeta(queryMinStreamOrdering)).
		WillReturnError(errors.New("database unavailable"))

	tokens := newBackfillTokens(db)

	_, err = tokens.Next(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "minimum stream ordering")

	_, err = tokens.Next(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "minimum stream ordering")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBackfillTokens_ConcurrentCallersGetDistinctTokens(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryMinStreamOrdering)).
		WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(nil))

	tokens := newBackfillTokens(db)

	const callers = 16
	results := make([]int64, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = tokens.Next(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "caller %d", i)
	}

	sort.Slice(results, func(i, j int) bool { return results[i] > results[j] })
	for i, token := range results {
		require.Equal(t, int64(-2-i), token)
	}

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBackfillTokens_LateInitializeIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// One expectation only: initialize after a completed seeding must not
	// query again or disturb the counter.
	mock.ExpectQuery(regexp.QuoteMeta(queryMinStreamOrdering)).
		WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(int64(-5)))

	tokens := newBackfillTokens(db)

	first, err := tokens.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(-6), first)

	tokens.initialize(context.Background())

	second, err := tokens.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(-7), second)

	require.NoError(t, mock.ExpectationsWereMet())
}
