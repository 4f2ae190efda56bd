package lending

import (
	"context"
	"crypto/rand"
	"database/sql"
	"strconv"
	"strings"
	"time"

	ulid "github.com/oklog/ulid/v2"
)

// -------------- Clock & ID --------------

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type IDGen interface{ NewULID(t time.Time) string }
type ulidGen struct{}

func (ulidGen) NewULID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// -------------- Store --------------

// LendStore は貸出・返却のトランザクション境界を担う。
// available フラグを書き換えるのはこの経路のみ（カタログ側は読み取り専用）。
type LendStore interface {
	// 対象の蔵書が全件存在かつ貸出可能かを確認する（事前チェック用）。
	// 不可ならErrItemsUnavailableを返す。
	VerifyAvailable(ctx context.Context, bookIDs []uint64) error
	// 1トランザクションで lends 作成 + lend_books 作成 + available=false。
	// 途中で貸出不可を検出した場合は何も書かずにErrItemsUnavailableを返す。
	ExecBorrow(ctx context.Context, l *Lend, bookIDs []uint64) ([]BookRef, error)
	// 1トランザクションで available=true + return_date/returned 更新。
	// 該当なし・返却済みはErrLendNotFoundOrReturnedを返す。
	ExecReturn(ctx context.Context, lendID uint64, returnDate string) (*Lend, []BookRef, error)
	GetLendByID(ctx context.Context, lendID uint64) (*Lend, []BookRef, error)
	GetLendByULID(ctx context.Context, lendULID string) (*Lend, []BookRef, error)
	ListLends(ctx context.Context, p Page) ([]Lend, int64, error)
}

// -------------- Service --------------

type Service struct {
	store LendStore
	clock Clock
	id    IDGen
}

func NewService(db *sql.DB) *Service {
	return &Service{
		store: NewStore(db),
		clock: realClock{},
		id:    ulidGen{},
	}
}

// 貸出登録
// バリデーションは全て変更前に行う。優先順位: 蔵書 → 借り手 → 貸出日 → 返却期限。
func (s *Service) Borrow(ctx context.Context, req BorrowRequest) (*LendInfoResponse, error) {
	bookIDs := uniqueIDs(req.BookIDs)
	if len(bookIDs) == 0 {
		// 空リストは「貸出可能な蔵書なし」と同じ扱い
		return nil, ErrItemsUnavailable()
	}
	if err := s.store.VerifyAvailable(ctx, bookIDs); err != nil {
		return nil, err
	}

	borrower, err := validateBorrower(req.Borrower)
	if err != nil {
		return nil, err
	}

	borrowDate, err := parseDate(req.BorrowDate)
	if err != nil {
		return nil, ErrInvalid("borrow_date must be YYYY-MM-DD")
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return nil, ErrInvalid("due_date must be YYYY-MM-DD")
	}
	today := truncateToDate(s.clock.Now())
	if borrowDate.After(today) {
		return nil, ErrInvalidBorrowDate()
	}
	if dueDate.Before(today) {
		return nil, ErrInvalidDueDate()
	}

	now := s.clock.Now()
	l := &Lend{
		LendULID:   s.id.NewULID(now),
		Borrower:   borrower,
		BorrowDate: req.BorrowDate,
		DueDate:    req.DueDate,
		Returned:   false,
	}

	// 在庫確認〜フラグ反転はStore側の1トランザクションで再検証される。
	// 事前チェック通過後に他リクエストへ負けた場合も同じエラー種別になる。
	books, err := s.store.ExecBorrow(ctx, l, bookIDs)
	if err != nil {
		return nil, err
	}

	resp := l.toInfoDTO(books)
	return &resp, nil
}

// 返却登録
// 返却日と貸出日・期限の前後関係は検証しない（既存システムの挙動を維持）。
func (s *Service) Return(ctx context.Context, req ReturnRequest) (*LendInfoResponse, error) {
	if _, err := parseDate(req.ReturnDate); err != nil {
		return nil, ErrInvalid("return_date must be YYYY-MM-DD")
	}

	l, books, err := s.store.ExecReturn(ctx, req.LendID, req.ReturnDate)
	if err != nil {
		return nil, err
	}

	resp := l.toInfoDTO(books)
	return &resp, nil
}

// 履歴個別取得（ID or ULID）
func (s *Service) GetLendByKey(ctx context.Context, key string) (*LendInfoResponse, error) {
	if key == "" {
		return nil, ErrInvalid("id or ulid is required")
	}

	var (
		l     *Lend
		books []BookRef
		err   error
	)
	// 数値として解釈できればID検索、それ以外は lend_ulid とみなす
	if id, perr := strconv.ParseUint(key, 10, 64); perr == nil && id > 0 {
		l, books, err = s.store.GetLendByID(ctx, id)
	} else {
		l, books, err = s.store.GetLendByULID(ctx, key)
	}
	if err != nil {
		return nil, err
	}

	resp := l.toInfoDTO(books)
	return &resp, nil
}

// 履歴一覧（borrow_date 昇順）
func (s *Service) ListLends(ctx context.Context, p Page) ([]LendResponse, int64, error) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Count <= 0 {
		p.Count = DefaultPageCount
	}
	if p.Count > MaxPageCount {
		p.Count = MaxPageCount
	}

	lends, total, err := s.store.ListLends(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LendResponse, 0, len(lends))
	for i := range lends {
		out = append(out, lends[i].toDTO())
	}
	return out, total, nil
}

// -------------- validation helpers --------------

var borrowerFields = []string{"name", "mobile"}

// 欠落と空文字は別エラーで報告する。メッセージには問題のあった項目名のみ載せる。
func validateBorrower(p BorrowerPayload) (Borrower, error) {
	var missing []string
	if p.Name == nil {
		missing = append(missing, "name")
	}
	if p.Mobile == nil {
		missing = append(missing, "mobile")
	}
	if len(missing) > 0 {
		return Borrower{}, ErrBorrowerInfoMissing(missing)
	}

	var blank []string
	if strings.TrimSpace(*p.Name) == "" {
		blank = append(blank, "name")
	}
	if strings.TrimSpace(*p.Mobile) == "" {
		blank = append(blank, "mobile")
	}
	if len(blank) > 0 {
		return Borrower{}, ErrBorrowerInfoBlank(blank)
	}

	return Borrower{Name: *p.Name, Mobile: *p.Mobile}, nil
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
