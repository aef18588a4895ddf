package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"studentbook/internal/models"
	"studentbook/internal/service"
)

// errQuit ends the program from inside a menu.
var errQuit = errors.New("quit")

type shell struct {
	svc *service.Services
	log *zap.Logger
	p   *prompter
	out io.Writer
}

func newShell(svc *service.Services, log *zap.Logger, in io.Reader, out io.Writer) *shell {
	return &shell{svc: svc, log: log, p: newPrompter(in, out), out: out}
}

func (s *shell) fail(op string, err error) {
	fmt.Fprintf(s.out, "Error: %s\n", logFailure(s.log, op, err))
}

// run shows the start menu until the user exits or input ends.
func (s *shell) run(ctx context.Context) {
	for {
		fmt.Fprintln(s.out, "\n=== Student book ===")
		fmt.Fprintln(s.out, "1. Log in")
		fmt.Fprintln(s.out, "2. Register")
		fmt.Fprintln(s.out, "0. Exit")
		choice, err := s.p.line("\nChoose an action: ")
		if err != nil {
			return
		}
		switch strings.TrimSpace(choice) {
		case "1":
			sess, ok := s.login(ctx)
			if !ok {
				continue
			}
			if err := s.userMenu(ctx, sess); err != nil {
				return
			}
		case "2":
			s.register(ctx)
		case "0":
			return
		default:
			fmt.Fprintln(s.out, "Unknown choice, try again.")
		}
	}
}

func (s *shell) login(ctx context.Context) (models.Session, bool) {
	fmt.Fprintln(s.out, "\n=== Log in ===")
	username, err := s.p.line("Username: ")
	if err != nil {
		return models.Session{}, false
	}
	password, err := s.p.password("Password: ")
	if err != nil {
		s.fail("read password", err)
		return models.Session{}, false
	}
	sess, err := s.svc.Accounts.Authenticate(ctx, username, password)
	if err != nil {
		s.fail("log in", err)
		return models.Session{}, false
	}
	fmt.Fprintf(s.out, "Welcome, %s!\n", sess.Username)
	return sess, true
}

func (s *shell) register(ctx context.Context) {
	fmt.Fprintln(s.out, "\n=== Register ===")
	username, err := s.p.line("Username: ")
	if err != nil {
		return
	}
	if s.svc.Accounts.UserExists(username) {
		s.fail("register", &service.AuthenticationError{Op: "register", Username: username, Err: service.ErrDuplicateUser})
		return
	}
	password, err := s.p.password("Password: ")
	if err != nil {
		s.fail("read password", err)
		return
	}
	if err := s.svc.Accounts.Register(ctx, username, password); err != nil {
		s.fail("register", err)
		return
	}
	fmt.Fprintln(s.out, "Registration complete, you can log in now.")
}

// userMenu serves one logged-in session. It returns errQuit when the program
// should end and nil when the user went back to the start menu.
func (s *shell) userMenu(ctx context.Context, sess models.Session) error {
	if err := s.svc.Records.Load(ctx); err != nil {
		s.fail("load records", err)
		return errQuit
	}
	for {
		fmt.Fprintln(s.out, "\n=== Menu ===")
		fmt.Fprintln(s.out, "1. List students")
		fmt.Fprintln(s.out, "2. Add a student")
		fmt.Fprintln(s.out, "3. Delete a student")
		fmt.Fprintln(s.out, "4. Edit a student")
		fmt.Fprintln(s.out, "5. Delete my account")
		fmt.Fprintln(s.out, "0. Exit")
		choice, err := s.p.line("\nChoose an action: ")
		if err != nil {
			return errQuit
		}
		switch strings.TrimSpace(choice) {
		case "1":
			s.list(ctx, sess)
		case "2":
			s.add(ctx, sess)
		case "3":
			s.remove(ctx, sess)
		case "4":
			s.edit(ctx, sess)
		case "5":
			if s.deleteAccount(ctx, sess) {
				return nil
			}
		case "0":
			return errQuit
		default:
			fmt.Fprintln(s.out, "Unknown choice, try again.")
		}
	}
}

// list prints the owner's students and returns them.
func (s *shell) list(ctx context.Context, sess models.Session) []models.Student {
	students, err := s.svc.Records.List(ctx, sess)
	if err != nil {
		s.fail("list records", err)
		return nil
	}
	if len(students) == 0 {
		fmt.Fprintln(s.out, "The student list is empty.")
		return nil
	}
	fmt.Fprintln(s.out, "\n=== Students ===")
	for i, st := range students {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, st)
	}
	return students
}

func (s *shell) add(ctx context.Context, sess models.Session) {
	fmt.Fprintln(s.out, "\n=== New student ===")
	var in models.StudentInput
	var err error
	if in.FullName, err = s.p.line("Full name: "); err != nil {
		return
	}
	if in.Group, err = s.p.line("Group: "); err != nil {
		return
	}
	if in.Email, err = s.p.line("Email: "); err != nil {
		return
	}
	raw, err := s.p.line("Rating: ")
	if err != nil {
		return
	}
	if in.Rating, err = parseRating(raw); err != nil {
		s.fail("add record", &service.DataOperationError{Op: "add record", Index: -1, Err: err})
		return
	}
	if _, err := s.svc.Records.Add(ctx, sess, in); err != nil {
		s.fail("add record", err)
		return
	}
	fmt.Fprintln(s.out, "Student added.")
}

func (s *shell) remove(ctx context.Context, sess models.Session) {
	students := s.list(ctx, sess)
	if len(students) == 0 {
		return
	}
	index, err := s.pickIndex("\nNumber of the student to delete: ", "delete record", len(students))
	if err != nil {
		return
	}
	if err := s.svc.Records.DeleteAt(ctx, sess, index); err != nil {
		s.fail("delete record", err)
		return
	}
	fmt.Fprintln(s.out, "Student deleted.")
}

func (s *shell) edit(ctx context.Context, sess models.Session) {
	students := s.list(ctx, sess)
	if len(students) == 0 {
		return
	}
	index, err := s.pickIndex("\nNumber of the student to edit: ", "update record", len(students))
	if err != nil {
		return
	}
	cur := students[index]
	fmt.Fprintln(s.out, "\n=== Edit student ===")
	fmt.Fprintf(s.out, "Current: %s\n", cur)

	in := models.StudentInput{FullName: cur.FullName, Group: cur.Group, Email: cur.Email, Rating: cur.Rating}
	for _, f := range []struct {
		label string
		dst   *string
	}{
		{"Full name", &in.FullName},
		{"Group", &in.Group},
		{"Email", &in.Email},
	} {
		v, err := s.p.line(fmt.Sprintf("%s [%s]: ", f.label, *f.dst))
		if err != nil {
			return
		}
		if strings.TrimSpace(v) != "" {
			*f.dst = v
		}
	}
	raw, err := s.p.line(fmt.Sprintf("Rating [%g]: ", cur.Rating))
	if err != nil {
		return
	}
	if strings.TrimSpace(raw) != "" {
		if in.Rating, err = parseRating(raw); err != nil {
			s.fail("update record", &service.DataOperationError{Op: "update record", Index: index, Err: err})
			return
		}
	}
	if _, err := s.svc.Records.UpdateAt(ctx, sess, index, in); err != nil {
		s.fail("update record", err)
		return
	}
	fmt.Fprintln(s.out, "Student updated.")
}

// deleteAccount removes the logged-in account and its records after the
// password is confirmed. It reports whether the account is gone.
func (s *shell) deleteAccount(ctx context.Context, sess models.Session) bool {
	password, err := s.p.password("Confirm with your password: ")
	if err != nil {
		s.fail("read password", err)
		return false
	}
	if err := s.svc.Accounts.DeleteUser(ctx, sess.Username, password); err != nil {
		s.fail("delete account", err)
		return false
	}
	if _, err := s.svc.Records.DeleteOwner(ctx, sess.Username); err != nil {
		s.fail("delete account records", err)
	}
	fmt.Fprintln(s.out, "Account deleted.")
	return true
}

// pickIndex reads a 1-based student number and returns it as a 0-based index.
func (s *shell) pickIndex(label, op string, count int) (int, error) {
	raw, err := s.p.line(label)
	if err != nil {
		return -1, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > count {
		err := &service.DataOperationError{Op: op, Index: n - 1, Err: service.ErrIndexOutOfRange}
		s.fail(op, err)
		return -1, err
	}
	return n - 1, nil
}

// parseRating accepts both '.' and ',' as the decimal separator.
func parseRating(raw string) (float64, error) {
	r, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil {
		return 0, service.ErrInvalidRating
	}
	return r, nil
}
