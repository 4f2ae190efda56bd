package lending

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- in-memory LendStore ----------

type memBook struct {
	title     string
	pubDate   string
	available bool
}

// memStore はSQLストアと同じ不変条件をミューテックスで守る
type memStore struct {
	mu         sync.Mutex
	nextBookID uint64
	nextLendID uint64
	books      map[uint64]*memBook
	lends      map[uint64]*Lend
	lendBooks  map[uint64][]uint64
}

func newMemStore() *memStore {
	return &memStore{
		books:     make(map[uint64]*memBook),
		lends:     make(map[uint64]*Lend),
		lendBooks: make(map[uint64][]uint64),
	}
}

func (m *memStore) addBook(title string, available bool) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextBookID++
	m.books[m.nextBookID] = &memBook{title: title, pubDate: "2020-01-01", available: available}
	return m.nextBookID
}

func (m *memStore) bookAvailable(id uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	return ok && b.available
}

func (m *memStore) lendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lends)
}

func (m *memStore) verifyLocked(bookIDs []uint64) error {
	for _, id := range bookIDs {
		b, ok := m.books[id]
		if !ok || !b.available {
			return ErrItemsUnavailable()
		}
	}
	return nil
}

func (m *memStore) VerifyAvailable(_ context.Context, bookIDs []uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verifyLocked(bookIDs)
}

func (m *memStore) ExecBorrow(_ context.Context, l *Lend, bookIDs []uint64) ([]BookRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.verifyLocked(bookIDs); err != nil {
		return nil, err
	}
	m.nextLendID++
	l.LendID = m.nextLendID
	l.CreatedAt = time.Now().UTC()
	l.UpdatedAt = l.CreatedAt

	var refs []BookRef
	for _, id := range bookIDs {
		b := m.books[id]
		b.available = false
		refs = append(refs, BookRef{BookID: id, Title: b.title, PublicationDate: b.pubDate})
	}
	cp := *l
	m.lends[l.LendID] = &cp
	m.lendBooks[l.LendID] = append([]uint64(nil), bookIDs...)
	return refs, nil
}

func (m *memStore) ExecReturn(_ context.Context, lendID uint64, returnDate string) (*Lend, []BookRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lends[lendID]
	if !ok || l.Returned {
		return nil, nil, ErrLendNotFoundOrReturned()
	}
	var refs []BookRef
	for _, id := range m.lendBooks[lendID] {
		b := m.books[id]
		b.available = true
		refs = append(refs, BookRef{BookID: id, Title: b.title, PublicationDate: b.pubDate})
	}
	l.Returned = true
	l.ReturnDate = sql.NullString{String: returnDate, Valid: true}
	l.UpdatedAt = time.Now().UTC()
	cp := *l
	return &cp, refs, nil
}

func (m *memStore) refsLocked(lendID uint64) []BookRef {
	var refs []BookRef
	for _, id := range m.lendBooks[lendID] {
		b := m.books[id]
		refs = append(refs, BookRef{BookID: id, Title: b.title, PublicationDate: b.pubDate})
	}
	return refs
}

func (m *memStore) GetLendByID(_ context.Context, lendID uint64) (*Lend, []BookRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lends[lendID]
	if !ok {
		return nil, nil, ErrNotFound("No data found!")
	}
	cp := *l
	return &cp, m.refsLocked(lendID), nil
}

func (m *memStore) GetLendByULID(_ context.Context, lendULID string) (*Lend, []BookRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, l := range m.lends {
		if l.LendULID == lendULID {
			cp := *l
			return &cp, m.refsLocked(id), nil
		}
	}
	return nil, nil, ErrNotFound("No data found!")
}

func (m *memStore) ListLends(_ context.Context, p Page) ([]Lend, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []Lend
	for _, l := range m.lends {
		all = append(all, *l)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].BorrowDate != all[j].BorrowDate {
			return all[i].BorrowDate < all[j].BorrowDate
		}
		return all[i].LendID < all[j].LendID
	})
	total := int64(len(all))
	start := (p.Page - 1) * p.Count
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + p.Count
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// ---------- fixtures ----------

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestService() (*Service, *memStore) {
	st := newMemStore()
	svc := &Service{store: st, clock: fixedClock{t: testNow}, id: ulidGen{}}
	return svc, st
}

func dateFromNow(days int) string {
	return testNow.AddDate(0, 0, days).Format(DateLayout)
}

func borrower(name, mobile string) BorrowerPayload {
	return BorrowerPayload{Name: &name, Mobile: &mobile}
}

func validBorrow(bookIDs ...uint64) BorrowRequest {
	return BorrowRequest{
		BookIDs:    bookIDs,
		Borrower:   borrower("Rafat", "01700000000"),
		BorrowDate: dateFromNow(0),
		DueDate:    dateFromNow(30),
	}
}

// ---------- borrow ----------

func TestBorrowSuccess(t *testing.T) {
	svc, st := newTestService()
	bookID := st.addBook("The Go Programming Language", true)

	res, err := svc.Borrow(context.Background(), validBorrow(bookID))
	require.NoError(t, err)

	assert.NotZero(t, res.LendID)
	assert.Len(t, res.LendULID, 26)
	assert.Equal(t, "Rafat", res.Borrower.Name)
	assert.Equal(t, "01700000000", res.Borrower.Mobile)
	assert.Equal(t, dateFromNow(0), res.BorrowDate)
	assert.Equal(t, dateFromNow(30), res.DueDate)
	assert.False(t, res.Returned)
	assert.Nil(t, res.ReturnDate)
	require.Len(t, res.Books, 1)
	assert.Equal(t, bookID, res.Books[0].BookID)

	assert.False(t, st.bookAvailable(bookID), "borrowed book must become unavailable")
}

func TestBorrowMultipleBooks(t *testing.T) {
	svc, st := newTestService()
	b1 := st.addBook("Book One", true)
	b2 := st.addBook("Book Two", true)
	b3 := st.addBook("Book Three", true)

	res, err := svc.Borrow(context.Background(), validBorrow(b1, b2, b3))
	require.NoError(t, err)
	assert.Len(t, res.Books, 3)

	for _, id := range []uint64{b1, b2, b3} {
		assert.False(t, st.bookAvailable(id))
	}
}

func TestBorrowAlreadyLentBook(t *testing.T) {
	svc, st := newTestService()
	bookID := st.addBook("Popular Book", true)

	_, err := svc.Borrow(context.Background(), validBorrow(bookID))
	require.NoError(t, err)

	// 返却前に同じ蔵書をもう一度
	_, err = svc.Borrow(context.Background(), validBorrow(bookID))
	requireAPIError(t, err, CodeItemsUnavailable)
	assert.Equal(t, 1, st.lendCount(), "failed borrow must not create a record")
}

func TestBorrowAllOrNothing(t *testing.T) {
	svc, st := newTestService()
	ok := st.addBook("Available Book", true)
	ng := st.addBook("Lent Out Book", false)

	_, err := svc.Borrow(context.Background(), validBorrow(ok, ng))
	requireAPIError(t, err, CodeItemsUnavailable)

	// 一部貸出は発生しない
	assert.True(t, st.bookAvailable(ok), "available book must stay untouched")
	assert.Equal(t, 0, st.lendCount())
}

func TestBorrowValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(r *BorrowRequest)
		wantCode Code
		wantMsg  string
	}{
		{
			name:     "unknown book id",
			mutate:   func(r *BorrowRequest) { r.BookIDs = []uint64{9999} },
			wantCode: CodeItemsUnavailable,
			wantMsg:  "Some Books are not found/available for lending!",
		},
		{
			name:     "empty book list",
			mutate:   func(r *BorrowRequest) { r.BookIDs = nil },
			wantCode: CodeItemsUnavailable,
		},
		{
			name:     "borrower name key missing",
			mutate:   func(r *BorrowRequest) { r.Borrower.Name = nil },
			wantCode: CodeBorrowerInfoMissing,
			wantMsg:  "Borrower information missing. Required fields are: name",
		},
		{
			name: "borrower both keys missing",
			mutate: func(r *BorrowRequest) {
				r.Borrower = BorrowerPayload{}
			},
			wantCode: CodeBorrowerInfoMissing,
			wantMsg:  "Borrower information missing. Required fields are: name, mobile",
		},
		{
			name:     "borrower mobile blank",
			mutate:   func(r *BorrowRequest) { r.Borrower = borrower("Rafat", "") },
			wantCode: CodeBorrowerInfoBlank,
			wantMsg:  "Borrower information fields can not be blank. Required fields are: mobile",
		},
		{
			name:     "borrower name whitespace only",
			mutate:   func(r *BorrowRequest) { r.Borrower = borrower("   ", "01700000000") },
			wantCode: CodeBorrowerInfoBlank,
			wantMsg:  "Borrower information fields can not be blank. Required fields are: name",
		},
		{
			name:     "borrow date in the future",
			mutate:   func(r *BorrowRequest) { r.BorrowDate = dateFromNow(1) },
			wantCode: CodeInvalidBorrowDate,
			wantMsg:  "Borrow date can not be any future dates.",
		},
		{
			name:     "due date in the past",
			mutate:   func(r *BorrowRequest) { r.DueDate = dateFromNow(-1) },
			wantCode: CodeInvalidDueDate,
			wantMsg:  "Due date can not be any dates before today.",
		},
		{
			name:     "malformed borrow date",
			mutate:   func(r *BorrowRequest) { r.BorrowDate = "15-03-2025" },
			wantCode: CodeInvalidArgument,
		},
		{
			name:     "malformed due date",
			mutate:   func(r *BorrowRequest) { r.DueDate = "someday" },
			wantCode: CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st := newTestService()
			bookID := st.addBook("Some Book", true)

			req := validBorrow(bookID)
			tt.mutate(&req)

			_, err := svc.Borrow(context.Background(), req)
			requireAPIError(t, err, tt.wantCode)
			if tt.wantMsg != "" {
				var api *APIError
				require.ErrorAs(t, err, &api)
				assert.Equal(t, tt.wantMsg, api.Message)
			}

			// 失敗時は一切の状態変更なし
			assert.True(t, st.bookAvailable(bookID))
			assert.Equal(t, 0, st.lendCount())
		})
	}
}

func TestBorrowBoundaryDates(t *testing.T) {
	svc, st := newTestService()
	bookID := st.addBook("Boundary Book", true)

	// 貸出日=当日、期限=当日 はどちらも許容
	req := validBorrow(bookID)
	req.BorrowDate = dateFromNow(0)
	req.DueDate = dateFromNow(0)

	_, err := svc.Borrow(context.Background(), req)
	assert.NoError(t, err)
}

func TestBorrowDuplicateIDsCollapsed(t *testing.T) {
	svc, st := newTestService()
	bookID := st.addBook("Dup Book", true)

	req := validBorrow(bookID, bookID, bookID)
	res, err := svc.Borrow(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, res.Books, 1)
}

// ---------- return ----------

func TestReturnSuccess(t *testing.T) {
	svc, st := newTestService()
	bookID := st.addBook("Returned Book", true)

	lent, err := svc.Borrow(context.Background(), validBorrow(bookID))
	require.NoError(t, err)

	res, err := svc.Return(context.Background(), ReturnRequest{
		LendID:     lent.LendID,
		ReturnDate: dateFromNow(0),
	})
	require.NoError(t, err)

	assert.True(t, res.Returned)
	require.NotNil(t, res.ReturnDate)
	assert.Equal(t, dateFromNow(0), *res.ReturnDate)
	require.Len(t, res.Books, 1)
	assert.True(t, st.bookAvailable(bookID), "returned book must become available")
}

func TestReturnTwice(t *testing.T) {
	svc, st := newTestService()
	bookID := st.addBook("Twice Book", true)

	lent, err := svc.Borrow(context.Background(), validBorrow(bookID))
	require.NoError(t, err)

	_, err = svc.Return(context.Background(), ReturnRequest{LendID: lent.LendID, ReturnDate: dateFromNow(0)})
	require.NoError(t, err)

	// 2回目はレコード・在庫とも変更されない
	_, err = svc.Return(context.Background(), ReturnRequest{LendID: lent.LendID, ReturnDate: dateFromNow(1)})
	requireAPIError(t, err, CodeLendNotFoundOrReturned)

	got, err := svc.GetLendByKey(context.Background(), fmt.Sprint(lent.LendID))
	require.NoError(t, err)
	assert.True(t, got.Returned)
	require.NotNil(t, got.ReturnDate)
	assert.Equal(t, dateFromNow(0), *got.ReturnDate, "first return date must survive")
	assert.True(t, st.bookAvailable(bookID))
}

func TestReturnUnknownLend(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Return(context.Background(), ReturnRequest{LendID: 42, ReturnDate: dateFromNow(0)})
	requireAPIError(t, err, CodeLendNotFoundOrReturned)

	var api *APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, "No lending details found. Either the ID is invalid or book has been returned.", api.Message)
}

func TestReturnDateNotCrossValidated(t *testing.T) {
	svc, st := newTestService()
	bookID := st.addBook("Early Return", true)

	lent, err := svc.Borrow(context.Background(), validBorrow(bookID))
	require.NoError(t, err)

	// 貸出日より前の返却日も受け付ける（既存システムの挙動）
	_, err = svc.Return(context.Background(), ReturnRequest{LendID: lent.LendID, ReturnDate: dateFromNow(-10)})
	assert.NoError(t, err)
}

func TestReturnMalformedDate(t *testing.T) {
	svc, st := newTestService()
	bookID := st.addBook("Bad Date", true)

	lent, err := svc.Borrow(context.Background(), validBorrow(bookID))
	require.NoError(t, err)

	_, err = svc.Return(context.Background(), ReturnRequest{LendID: lent.LendID, ReturnDate: "tomorrow"})
	requireAPIError(t, err, CodeInvalidArgument)

	// 失敗した返却でレコードは閉じない
	got, gerr := svc.GetLendByKey(context.Background(), fmt.Sprint(lent.LendID))
	require.NoError(t, gerr)
	assert.False(t, got.Returned)
}

func TestBorrowReturnRoundTrip(t *testing.T) {
	svc, st := newTestService()
	b1 := st.addBook("RT One", true)
	b2 := st.addBook("RT Two", true)

	lent, err := svc.Borrow(context.Background(), validBorrow(b1, b2))
	require.NoError(t, err)

	_, err = svc.Return(context.Background(), ReturnRequest{LendID: lent.LendID, ReturnDate: dateFromNow(3)})
	require.NoError(t, err)

	// 貸出前の状態（全て貸出可能）へ戻る
	assert.True(t, st.bookAvailable(b1))
	assert.True(t, st.bookAvailable(b2))

	// 蔵書は再度貸出できる
	_, err = svc.Borrow(context.Background(), validBorrow(b1, b2))
	assert.NoError(t, err)
}

// ---------- concurrency ----------

func TestConcurrentBorrowSameBook(t *testing.T) {
	svc, st := newTestService()
	bookID := st.addBook("Contested Book", true)

	const workers = 16
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Borrow(context.Background(), validBorrow(bookID))
		}(i)
	}
	wg.Wait()

	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
			continue
		}
		requireAPIError(t, err, CodeItemsUnavailable)
	}
	assert.Equal(t, 1, okCount, "exactly one concurrent borrow may win")
	assert.Equal(t, 1, st.lendCount())
	assert.False(t, st.bookAvailable(bookID))
}

func TestConcurrentBorrowOverlappingSets(t *testing.T) {
	svc, st := newTestService()
	shared := st.addBook("Shared", true)
	only1 := st.addBook("Only One", true)
	only2 := st.addBook("Only Two", true)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	sets := [][]uint64{{only1, shared}, {shared, only2}}
	for i := range sets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Borrow(context.Background(), validBorrow(sets[i]...))
		}(i)
	}
	wg.Wait()

	// 重なっているのは1冊だけなので勝者はちょうど1つ
	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			requireAPIError(t, err, CodeItemsUnavailable)
		}
	}
	assert.Equal(t, 1, winners)

	// 負けた側のセットは一切ロックされない
	if errs[0] == nil {
		assert.True(t, st.bookAvailable(only2))
	} else {
		assert.True(t, st.bookAvailable(only1))
	}
}

func TestConcurrentReturnSameLend(t *testing.T) {
	svc, st := newTestService()
	bookID := st.addBook("Race Return", true)

	lent, err := svc.Borrow(context.Background(), validBorrow(bookID))
	require.NoError(t, err)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Return(context.Background(), ReturnRequest{
				LendID:     lent.LendID,
				ReturnDate: dateFromNow(0),
			})
		}(i)
	}
	wg.Wait()

	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
			continue
		}
		requireAPIError(t, err, CodeLendNotFoundOrReturned)
	}
	assert.Equal(t, 1, okCount, "exactly one concurrent return may win")
	assert.True(t, st.bookAvailable(bookID))
}

// ---------- history ----------

func TestGetLendByKey(t *testing.T) {
	svc, st := newTestService()
	bookID := st.addBook("Lookup Book", true)

	lent, err := svc.Borrow(context.Background(), validBorrow(bookID))
	require.NoError(t, err)

	byID, err := svc.GetLendByKey(context.Background(), fmt.Sprint(lent.LendID))
	require.NoError(t, err)
	assert.Equal(t, lent.LendID, byID.LendID)

	byULID, err := svc.GetLendByKey(context.Background(), lent.LendULID)
	require.NoError(t, err)
	assert.Equal(t, lent.LendID, byULID.LendID)

	_, err = svc.GetLendByKey(context.Background(), "12345")
	requireAPIError(t, err, CodeNotFound)

	_, err = svc.GetLendByKey(context.Background(), "")
	requireAPIError(t, err, CodeInvalidArgument)
}

func TestListLendsOrderedByBorrowDate(t *testing.T) {
	svc, st := newTestService()

	// 貸出日がバラバラの3レコードを作る（貸出日は過去日）
	dates := []string{dateFromNow(-1), dateFromNow(-30), dateFromNow(-7)}
	for i, d := range dates {
		bookID := st.addBook(fmt.Sprintf("Hist %d", i), true)
		req := validBorrow(bookID)
		req.BorrowDate = d
		_, err := svc.Borrow(context.Background(), req)
		require.NoError(t, err)
	}

	res, total, err := svc.ListLends(context.Background(), Page{Page: 1, Count: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, res, 3)
	assert.Equal(t, dateFromNow(-30), res[0].BorrowDate)
	assert.Equal(t, dateFromNow(-7), res[1].BorrowDate)
	assert.Equal(t, dateFromNow(-1), res[2].BorrowDate)
}

func TestListLendsPagination(t *testing.T) {
	svc, st := newTestService()
	for i := 0; i < 5; i++ {
		bookID := st.addBook(fmt.Sprintf("Page %d", i), true)
		_, err := svc.Borrow(context.Background(), validBorrow(bookID))
		require.NoError(t, err)
	}

	page1, total, err := svc.ListLends(context.Background(), Page{Page: 1, Count: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page1, 2)

	page3, _, err := svc.ListLends(context.Background(), Page{Page: 3, Count: 2})
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	// 範囲外ページは空
	page4, _, err := svc.ListLends(context.Background(), Page{Page: 4, Count: 2})
	require.NoError(t, err)
	assert.Empty(t, page4)
}

// ---------- helpers ----------

func requireAPIError(t *testing.T, err error, want Code) {
	t.Helper()
	var api *APIError
	require.ErrorAs(t, err, &api)
	require.Equal(t, want, api.Code)
}
