// Package console is the interactive menu front-end over the library services.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"library-desk/internal/catalog"
	"library-desk/internal/circulation"
	"library-desk/internal/directory"
	"library-desk/internal/platform/apperr"
	"library-desk/internal/platform/logging"
)

const timeLayout = "2006-01-02 15:04:05"

type Catalog interface {
	AddBook(ctx context.Context, title, author string) (catalog.BookID, error)
	AddReader(ctx context.Context, surname, givenName, patronymic string) (catalog.ReaderID, error)
	ListAvailableBooks(ctx context.Context) ([]catalog.BookSummary, error)
}

type Directory interface {
	FindReaders(ctx context.Context, surname string) ([]catalog.Reader, error)
	Open(ctx context.Context, id catalog.ReaderID) (*directory.Session, error)
}

// 入力が尽きたら(EOF)シェルは正常終了する
var errInputClosed = errors.New("input closed")

type Shell struct {
	in      *bufio.Scanner
	out     io.Writer
	catalog Catalog
	dir     Directory
	log     *slog.Logger
}

func New(in io.Reader, out io.Writer, c Catalog, d Directory, log *slog.Logger) *Shell {
	if log == nil {
		log = logging.Discard()
	}
	return &Shell{
		in:      bufio.NewScanner(in),
		out:     out,
		catalog: c,
		dir:     d,
		log:     log.With("component", "console"),
	}
}

// Run loops over the main menu until the user exits or input ends.
// Domain failures are printed and the loop goes on; anything else is returned.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.print(mainMenu)
		action, err := s.ask(promptAction)
		if err != nil {
			return s.finish(err)
		}

		switch action {
		case "1":
			err = s.addBook(ctx)
		case "2":
			err = s.addReader(ctx)
		case "3":
			err = s.findReader(ctx)
		case "4":
			err = s.listAvailable(ctx)
		case "0":
			return nil
		default:
			s.println(msgInvalidInput)
			continue
		}
		if err = s.report(err); err != nil {
			return s.finish(err)
		}
	}
}

func (s *Shell) finish(err error) error {
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return err
}

// ---------- main menu ----------

func (s *Shell) addBook(ctx context.Context) error {
	title, err := s.ask(promptTitle)
	if err != nil {
		return err
	}
	author, err := s.ask(promptAuthor)
	if err != nil {
		return err
	}
	id, err := s.catalog.AddBook(ctx, title, author)
	if err != nil {
		return err
	}
	s.print(fmt.Sprintf(msgBookAdded, strings.TrimSpace(title), id))
	return nil
}

func (s *Shell) addReader(ctx context.Context) error {
	var fields [3]string
	for i, p := range []string{promptSurname, promptName, promptPatronymic} {
		v, err := s.ask(p)
		if err != nil {
			return err
		}
		fields[i] = v
	}
	id, err := s.catalog.AddReader(ctx, fields[0], fields[1], fields[2])
	if err != nil {
		return err
	}
	r := catalog.Reader{Surname: fields[0], GivenName: fields[1], Patronymic: fields[2]}
	s.print(fmt.Sprintf(msgReaderAdded, r.FullName(), id))
	return nil
}

func (s *Shell) listAvailable(ctx context.Context) error {
	books, err := s.catalog.ListAvailableBooks(ctx)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		s.println(msgNoBooks)
		return nil
	}
	for _, b := range books {
		s.print(fmt.Sprintf("%d - %q (%s)\n", b.ID, b.Title, b.Author))
	}
	return nil
}

func (s *Shell) findReader(ctx context.Context) error {
	surname, err := s.ask(promptSurname)
	if err != nil {
		return err
	}
	readers, err := s.dir.FindReaders(ctx, surname)
	if err != nil {
		return err
	}

	var id catalog.ReaderID
	switch len(readers) {
	case 0:
		return catalog.ErrReaderNotFound
	case 1:
		id = readers[0].ID
	default:
		if id, err = s.pickReader(readers); err != nil {
			return err
		}
	}

	sess, err := s.dir.Open(ctx, id)
	if err != nil {
		return err
	}
	return s.readerMenu(ctx, sess)
}

// 同姓の読者が複数いる場合は一覧を出して選ばせる
func (s *Shell) pickReader(readers []catalog.Reader) (catalog.ReaderID, error) {
	s.println(msgSeveralReaders)
	for _, r := range readers {
		s.print(fmt.Sprintf("%d - %s\n", r.ID, r.FullName()))
	}
	line, err := s.ask(promptPickReader)
	if err != nil {
		return 0, err
	}
	if line == "" {
		return readers[0].ID, nil
	}
	v, err := parseID(line)
	if err != nil {
		return 0, err
	}
	for _, r := range readers {
		if int64(r.ID) == v {
			return r.ID, nil
		}
	}
	return 0, apperr.Invalid("reader is not in the list")
}

// ---------- reader menu ----------

func (s *Shell) readerMenu(ctx context.Context, sess *directory.Session) error {
	for {
		s.print(fmt.Sprintf(readerMenuFmt, sess.Reader.FullName(), sess.Reader.ID))
		action, err := s.ask(promptAction)
		if err != nil {
			return err
		}

		switch action {
		case "1":
			err = s.listAvailable(ctx)
		case "2":
			err = s.borrow(ctx, sess)
		case "3":
			err = s.giveBack(ctx, sess)
		case "4":
			err = s.history(ctx, sess)
		case "0":
			return nil
		default:
			s.println(msgInvalidInput)
			continue
		}
		if err = s.report(err); err != nil {
			return err
		}
	}
}

func (s *Shell) borrow(ctx context.Context, sess *directory.Session) error {
	id, err := s.askID(promptBorrowID)
	if err != nil {
		return err
	}
	if _, err := sess.Borrow(ctx, catalog.BookID(id)); err != nil {
		return err
	}
	s.println(msgBorrowed)
	return nil
}

func (s *Shell) giveBack(ctx context.Context, sess *directory.Session) error {
	id, err := s.askID(promptReturnID)
	if err != nil {
		return err
	}
	if _, err := sess.Return(ctx, catalog.BookID(id)); err != nil {
		return err
	}
	s.println(msgReturned)
	return nil
}

func (s *Shell) history(ctx context.Context, sess *directory.Session) error {
	rows, err := sess.Borrowings(ctx, false)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		s.println(msgNoBorrowings)
		return nil
	}
	for _, b := range rows {
		s.println(formatBorrowing(b))
	}
	return nil
}

func formatBorrowing(b circulation.Borrowing) string {
	line := fmt.Sprintf("книга %d: выдана %s", b.BookID, b.BorrowedAt.Format(timeLayout))
	if b.Open() {
		return line + ", на руках"
	}
	return line + ", возвращена " + b.ReturnedAt.Time.Format(timeLayout)
}

// ---------- io helpers ----------

// report prints expected failures and returns the rest.
func (s *Shell) report(err error) error {
	if err == nil || errors.Is(err, errInputClosed) {
		return err
	}
	switch {
	case errors.Is(err, circulation.ErrAlreadyBorrowed):
		s.println(msgAlreadyBorrowed)
	case errors.Is(err, circulation.ErrNoOpenBorrowing):
		s.println(msgNoOpenBorrowing)
	case errors.Is(err, catalog.ErrReaderNotFound):
		s.println(msgReaderNotFound)
	case errors.Is(err, catalog.ErrBookNotFound):
		s.println(msgBookNotFound)
	case apperr.From(err).Code == apperr.CodeInvalidArgument:
		s.log.Debug("invalid input", "error", err)
		s.println(msgInvalidInput)
	default:
		return err
	}
	return nil
}

func (s *Shell) ask(prompt string) (string, error) {
	s.print(prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) askID(prompt string) (int64, error) {
	line, err := s.ask(prompt)
	if err != nil {
		return 0, err
	}
	return parseID(line)
}

func parseID(line string) (int64, error) {
	v, err := strconv.ParseInt(line, 10, 64)
	if err != nil || v <= 0 {
		return 0, apperr.Invalidf("%q is not a valid id", line)
	}
	return v, nil
}

func (s *Shell) print(v string) {
	_, _ = io.WriteString(s.out, v)
}

func (s *Shell) println(v string) {
	s.print(v + "\n")
}
