package circulation_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-desk/internal/catalog"
	"library-desk/internal/circulation"
	"library-desk/internal/platform/apperr"
	"library-desk/internal/platform/db"
	"library-desk/internal/platform/db/dbtest"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type fixture struct {
	conn    *db.DB
	catalog *catalog.Service
	svc     *circulation.Service
	clock   *fixedClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.Open(t)
	clock := &fixedClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	return &fixture{
		conn:    conn,
		catalog: catalog.NewService(conn, nil),
		svc:     circulation.NewService(conn, circulation.WithClock(clock)),
		clock:   clock,
	}
}

func (f *fixture) book(t *testing.T, title string) catalog.BookID {
	t.Helper()
	id, err := f.catalog.AddBook(context.Background(), title, "Herbert")
	require.NoError(t, err)
	return id
}

func (f *fixture) reader(t *testing.T, surname string) catalog.ReaderID {
	t.Helper()
	id, err := f.catalog.AddReader(context.Background(), surname, "John", "")
	require.NoError(t, err)
	return id
}

func (f *fixture) available(t *testing.T, id catalog.BookID) bool {
	t.Helper()
	b, err := f.catalog.GetBook(context.Background(), id)
	require.NoError(t, err)
	return b.Available
}

func (f *fixture) assertConsistent(t *testing.T) {
	t.Helper()
	ms, err := f.svc.CheckConsistency(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ms)
}

func Test_Borrow_Return_Cycle(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := newFixture(t)
	dune := f.book(t, "Dune")
	doe := f.reader(t, "Doe")
	roe := f.reader(t, "Roe")

	// act: 貸出
	b, err := f.svc.Borrow(ctx, doe, dune)

	// assert
	require.NoError(t, err)
	assert.Equal(t, circulation.BorrowingID(1), b.ID)
	assert.True(t, b.Open())
	assert.False(t, f.available(t, dune))

	books, err := f.catalog.ListAvailableBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	// 同じ読者でも別の読者でも二重貸出は不可
	_, err = f.svc.Borrow(ctx, doe, dune)
	assert.ErrorIs(t, err, circulation.ErrAlreadyBorrowed)
	_, err = f.svc.Borrow(ctx, roe, dune)
	assert.ErrorIs(t, err, circulation.ErrAlreadyBorrowed)

	// 借りていない読者は返却できない
	_, err = f.svc.Return(ctx, roe, dune)
	assert.ErrorIs(t, err, circulation.ErrNoOpenBorrowing)
	assert.False(t, f.available(t, dune))

	// 返却
	f.clock.t = f.clock.t.Add(48 * time.Hour)
	r, err := f.svc.Return(ctx, doe, dune)
	require.NoError(t, err)
	assert.Equal(t, b.ID, r.ID)
	assert.False(t, r.Open())
	assert.True(t, r.ReturnedAt.Time.Equal(f.clock.t))
	assert.True(t, f.available(t, dune))

	// 二度目の返却は失敗
	_, err = f.svc.Return(ctx, doe, dune)
	assert.ErrorIs(t, err, circulation.ErrNoOpenBorrowing)

	// 返却後は別の読者が借りられる
	_, err = f.svc.Borrow(ctx, roe, dune)
	require.NoError(t, err)

	f.assertConsistent(t)
}

func Test_Borrow_UnknownBookOrReader_WritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dune := f.book(t, "Dune")
	doe := f.reader(t, "Doe")

	_, err := f.svc.Borrow(ctx, doe, 42)
	assert.ErrorIs(t, err, catalog.ErrBookNotFound)

	_, err = f.svc.Borrow(ctx, 42, dune)
	assert.ErrorIs(t, err, catalog.ErrReaderNotFound)

	rows, err := f.svc.ListBorrowings(ctx, circulation.BorrowingFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.True(t, f.available(t, dune))
}

func Test_Return_UnknownIDs_NoOpenBorrowing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	doe := f.reader(t, "Doe")

	_, err := f.svc.Return(ctx, doe, 42)
	assert.ErrorIs(t, err, circulation.ErrNoOpenBorrowing)

	_, err = f.svc.Return(ctx, 42, 1)
	assert.ErrorIs(t, err, circulation.ErrNoOpenBorrowing)
}

func Test_NonPositiveIDs_AreInvalid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Borrow(ctx, 0, 1)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.From(err).Code)

	_, err = f.svc.Return(ctx, 1, -3)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.From(err).Code)

	_, err = f.svc.ListBorrowings(ctx, circulation.BorrowingFilter{ReaderID: -1})
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.From(err).Code)
}

func Test_Borrow_RecordsUTCSeconds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dune := f.book(t, "Dune")
	doe := f.reader(t, "Doe")
	msk := time.FixedZone("MSK", 3*60*60)
	f.clock.t = time.Date(2024, 3, 1, 13, 0, 0, 750_000_000, msk)

	_, err := f.svc.Borrow(ctx, doe, dune)
	require.NoError(t, err)

	rows, err := f.svc.ListBorrowings(ctx, circulation.BorrowingFilter{ReaderID: doe})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.True(t, rows[0].BorrowedAt.Equal(want), "got %s", rows[0].BorrowedAt)
	assert.Equal(t, time.UTC, rows[0].BorrowedAt.Location())
	assert.False(t, rows[0].ReturnedAt.Valid)
}

func Test_ListBorrowings_HistoryAndOpenFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dune := f.book(t, "Dune")
	solaris := f.book(t, "Solaris")
	doe := f.reader(t, "Doe")
	roe := f.reader(t, "Roe")

	_, err := f.svc.Borrow(ctx, doe, dune)
	require.NoError(t, err)
	_, err = f.svc.Return(ctx, doe, dune)
	require.NoError(t, err)
	_, err = f.svc.Borrow(ctx, doe, solaris)
	require.NoError(t, err)
	_, err = f.svc.Borrow(ctx, roe, dune)
	require.NoError(t, err)

	all, err := f.svc.ListBorrowings(ctx, circulation.BorrowingFilter{ReaderID: doe})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, dune, all[0].BookID)
	assert.False(t, all[0].Open())
	assert.Equal(t, solaris, all[1].BookID)
	assert.True(t, all[1].Open())

	open, err := f.svc.ListBorrowings(ctx, circulation.BorrowingFilter{ReaderID: doe, OnlyOpen: true})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, solaris, open[0].BookID)

	byBook, err := f.svc.ListBorrowings(ctx, circulation.BorrowingFilter{BookID: dune})
	require.NoError(t, err)
	assert.Len(t, byBook, 2)
}

func Test_AvailabilityHoldsAfterRandomOperations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	var books []catalog.BookID
	var readers []catalog.ReaderID
	for i := 0; i < 4; i++ {
		books = append(books, f.book(t, "Book"))
		readers = append(readers, f.reader(t, "Reader"))
	}

	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		r := readers[rnd.Intn(len(readers))]
		b := books[rnd.Intn(len(books))]
		if rnd.Intn(2) == 0 {
			_, _ = f.svc.Borrow(ctx, r, b)
		} else {
			_, _ = f.svc.Return(ctx, r, b)
		}
	}

	f.assertConsistent(t)
	for _, b := range books {
		open, err := f.svc.ListBorrowings(ctx, circulation.BorrowingFilter{BookID: b, OnlyOpen: true})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(open), 1)
		assert.Equal(t, len(open) == 0, f.available(t, b))
	}
}

func Test_ConcurrentBorrow_OnlyOneWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dune := f.book(t, "Dune")
	var readers []catalog.ReaderID
	for i := 0; i < 8; i++ {
		readers = append(readers, f.reader(t, "Reader"))
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		won     int
		refused int
	)
	for _, r := range readers {
		wg.Add(1)
		go func(r catalog.ReaderID) {
			defer wg.Done()
			_, err := f.svc.Borrow(ctx, r, dune)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				won++
			} else if assert.ErrorIs(t, err, circulation.ErrAlreadyBorrowed) {
				refused++
			}
		}(r)
	}
	wg.Wait()

	assert.Equal(t, 1, won)
	assert.Equal(t, len(readers)-1, refused)
	f.assertConsistent(t)
}

func Test_CheckConsistency_ReportsCorruptedFlags(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dune := f.book(t, "Dune")
	solaris := f.book(t, "Solaris")
	doe := f.reader(t, "Doe")
	_, err := f.svc.Borrow(ctx, doe, dune)
	require.NoError(t, err)

	// 手で壊す: 貸出中なのに available、貸出が無いのに貸出中
	_, err = f.conn.ExecContext(ctx, `UPDATE books SET available = 1 WHERE id = ?`, int64(dune))
	require.NoError(t, err)
	_, err = f.conn.ExecContext(ctx, `UPDATE books SET available = 0 WHERE id = ?`, int64(solaris))
	require.NoError(t, err)

	ms, err := f.svc.CheckConsistency(ctx)

	require.NoError(t, err)
	assert.Equal(t, []circulation.Mismatch{
		{BookID: dune, Available: true, OpenBorrowed: 1},
		{BookID: solaris, Available: false, OpenBorrowed: 0},
	}, ms)
}

func Test_Borrow_Return_StoreSecondsWithoutZone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dune := f.book(t, "Dune")
	doe := f.reader(t, "Doe")

	_, err := f.svc.Borrow(ctx, doe, dune)
	require.NoError(t, err)
	f.clock.t = f.clock.t.Add(26 * time.Hour)
	_, err = f.svc.Return(ctx, doe, dune)
	require.NoError(t, err)

	// library.db と同じ "YYYY-MM-DD HH:MM:SS" で保存される
	var raw struct {
		Borrowed string `db:"borrowed"`
		Returned string `db:"returned"`
	}
	require.NoError(t, f.conn.GetContext(ctx, &raw,
		`SELECT CAST(borrowed_date AS TEXT) AS borrowed, CAST(returned_date AS TEXT) AS returned FROM borrowings WHERE id = 1`))
	assert.Equal(t, "2024-03-01 10:00:00", raw.Borrowed)
	assert.Equal(t, "2024-03-02 12:00:00", raw.Returned)

	rows, err := f.svc.ListBorrowings(ctx, circulation.BorrowingFilter{ReaderID: doe})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].BorrowedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
	assert.True(t, rows[0].ReturnedAt.Time.Equal(time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)))
}

func Test_ListAvailableBooks_SkipsBorrowedBook(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := newFixture(t)
	b1 := f.book(t, "Dune")
	b2 := f.book(t, "Solaris")
	doe := f.reader(t, "Doe")
	_, err := f.svc.Borrow(ctx, doe, b2)
	require.NoError(t, err)

	// act
	books, err := f.catalog.ListAvailableBooks(ctx)

	// assert
	require.NoError(t, err)
	assert.Equal(t, []catalog.BookSummary{{ID: b1, Title: "Dune", Author: "Herbert"}}, books)
}
