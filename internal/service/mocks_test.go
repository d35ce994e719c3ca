package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ViniLF/library-api/internal/domain"
	"github.com/ViniLF/library-api/internal/repo"
)

// In-memory repository fakes. They implement just enough of the repo
// contracts for the service tests, including the (nil, nil) not-found
// convention.

type mockUserRepo struct {
	users map[string]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *domain.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, page, limit int) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

type mockBookRepo struct {
	books   map[string]*domain.Book
	authors map[string][]string
}

func newMockBookRepo() *mockBookRepo {
	return &mockBookRepo{
		books:   make(map[string]*domain.Book),
		authors: make(map[string][]string),
	}
}

func (m *mockBookRepo) Create(_ context.Context, book *domain.Book, authorIDs []string) error {
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	m.books[book.ID] = book
	m.authors[book.ID] = authorIDs
	return nil
}

func (m *mockBookRepo) GetByID(_ context.Context, id string) (*domain.Book, error) {
	return m.books[id], nil
}

func (m *mockBookRepo) GetByISBN(_ context.Context, isbn string) (*domain.Book, error) {
	for _, b := range m.books {
		if b.ISBN != nil && *b.ISBN == isbn {
			return b, nil
		}
	}
	return nil, nil
}

func (m *mockBookRepo) List(_ context.Context, f domain.BookFilters) ([]*domain.Book, int64, error) {
	var all []*domain.Book
	for _, b := range m.books {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })

	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *mockBookRepo) Update(_ context.Context, book *domain.Book, authorIDs []string) error {
	m.books[book.ID] = book
	if authorIDs != nil {
		m.authors[book.ID] = authorIDs
	}
	return nil
}

func (m *mockBookRepo) Delete(_ context.Context, id string) error {
	delete(m.books, id)
	delete(m.authors, id)
	return nil
}

type mockAuthorRepo struct {
	authors    map[string]*domain.Author
	bookCounts map[string]int64
}

func newMockAuthorRepo() *mockAuthorRepo {
	return &mockAuthorRepo{
		authors:    make(map[string]*domain.Author),
		bookCounts: make(map[string]int64),
	}
}

func (m *mockAuthorRepo) Create(_ context.Context, author *domain.Author) error {
	if author.ID == "" {
		author.ID = uuid.NewString()
	}
	m.authors[author.ID] = author
	return nil
}

func (m *mockAuthorRepo) GetByID(_ context.Context, id string) (*domain.Author, error) {
	return m.authors[id], nil
}

func (m *mockAuthorRepo) List(_ context.Context, page, limit int, search string) ([]*domain.Author, int64, error) {
	var out []*domain.Author
	for _, a := range m.authors {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (m *mockAuthorRepo) Update(_ context.Context, author *domain.Author) error {
	m.authors[author.ID] = author
	return nil
}

func (m *mockAuthorRepo) Delete(_ context.Context, id string) error {
	delete(m.authors, id)
	return nil
}

func (m *mockAuthorRepo) CountBooks(_ context.Context, authorID string) (int64, error) {
	return m.bookCounts[authorID], nil
}

type mockCategoryRepo struct {
	categories map[string]*domain.Category
	bookCounts map[string]int64
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{
		categories: make(map[string]*domain.Category),
		bookCounts: make(map[string]int64),
	}
}

func (m *mockCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	return m.categories[id], nil
}

func (m *mockCategoryRepo) GetByName(_ context.Context, name string) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockCategoryRepo) List(_ context.Context, page, limit int) ([]*domain.Category, int64, error) {
	var out []*domain.Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (m *mockCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id string) error {
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepo) CountBooks(_ context.Context, categoryID string) (int64, error) {
	return m.bookCounts[categoryID], nil
}

type mockLoanRepo struct {
	loans map[string]*domain.Loan
	books *mockBookRepo
	res   *mockReservationRepo
}

func newMockLoanRepo(books *mockBookRepo, res *mockReservationRepo) *mockLoanRepo {
	return &mockLoanRepo{
		loans: make(map[string]*domain.Loan),
		books: books,
		res:   res,
	}
}

func (m *mockLoanRepo) Borrow(_ context.Context, userID, bookID string, dueDate time.Time) (*domain.Loan, error) {
	book := m.books.books[bookID]
	if book == nil || book.AvailableCopies <= 0 {
		return nil, repo.ErrNoAvailableCopies
	}
	book.AvailableCopies--

	loan := &domain.Loan{
		ID:       uuid.NewString(),
		UserID:   userID,
		BookID:   bookID,
		LoanDate: time.Now(),
		DueDate:  dueDate,
		Status:   domain.LoanStatusActive,
	}
	m.loans[loan.ID] = loan

	if m.res != nil {
		for _, r := range m.res.reservations {
			if r.UserID == userID && r.BookID == bookID && r.Status == domain.ReservationStatusActive {
				r.Status = domain.ReservationStatusFulfilled
			}
		}
	}
	return loan, nil
}

func (m *mockLoanRepo) Return(_ context.Context, loanID string) (*domain.Loan, error) {
	loan := m.loans[loanID]
	if loan == nil || loan.Status != domain.LoanStatusActive {
		return nil, repo.ErrLoanNotActive
	}
	now := time.Now()
	loan.ReturnDate = &now
	loan.Status = domain.LoanStatusReturned
	if book := m.books.books[loan.BookID]; book != nil && book.AvailableCopies < book.TotalCopies {
		book.AvailableCopies++
	}
	return loan, nil
}

func (m *mockLoanRepo) GetByID(_ context.Context, id string) (*domain.Loan, error) {
	return m.loans[id], nil
}

func (m *mockLoanRepo) ListByUser(_ context.Context, userID string, page, limit int) ([]*domain.Loan, int64, error) {
	var out []*domain.Loan
	for _, l := range m.loans {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockLoanRepo) CountActiveByBook(_ context.Context, bookID string) (int64, error) {
	var count int64
	for _, l := range m.loans {
		if l.BookID == bookID && l.Status == domain.LoanStatusActive {
			count++
		}
	}
	return count, nil
}

type mockReservationRepo struct {
	reservations map[string]*domain.Reservation
}

func newMockReservationRepo() *mockReservationRepo {
	return &mockReservationRepo{reservations: make(map[string]*domain.Reservation)}
}

func (m *mockReservationRepo) Create(_ context.Context, r *domain.Reservation) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	m.reservations[r.ID] = r
	return nil
}

func (m *mockReservationRepo) GetByID(_ context.Context, id string) (*domain.Reservation, error) {
	return m.reservations[id], nil
}

func (m *mockReservationRepo) Cancel(_ context.Context, id string) (*domain.Reservation, error) {
	r := m.reservations[id]
	if r != nil && r.Status == domain.ReservationStatusActive {
		r.Status = domain.ReservationStatusCancelled
	}
	return r, nil
}

func (m *mockReservationRepo) ListByUser(_ context.Context, userID string, page, limit int) ([]*domain.Reservation, int64, error) {
	var out []*domain.Reservation
	for _, r := range m.reservations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockReservationRepo) ActiveByUserAndBook(_ context.Context, userID, bookID string) (*domain.Reservation, error) {
	for _, r := range m.reservations {
		if r.UserID == userID && r.BookID == bookID && r.Status == domain.ReservationStatusActive {
			return r, nil
		}
	}
	return nil, nil
}

func (m *mockReservationRepo) CountActiveByBook(_ context.Context, bookID string) (int64, error) {
	var count int64
	for _, r := range m.reservations {
		if r.BookID == bookID && r.Status == domain.ReservationStatusActive {
			count++
		}
	}
	return count, nil
}
