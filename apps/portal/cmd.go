package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/Hanish3/college-portal/core/access"
	"github.com/Hanish3/college-portal/core/attendance"
	"github.com/Hanish3/college-portal/core/session"
	"github.com/Hanish3/college-portal/storage/apiclient"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	nowFunc          = time.Now         // mockable

	errHelp      = errors.New("help provided")
	errNoLogin   = errors.New("not logged in: run `portal login` first")
	errExpired   = errors.New("session expired: run `portal login` again")
	errNoAccess  = errors.New("this view is not available for your role")
	errSuspended = errors.New("account suspended: contact the administration office")
)

// credentialStore is the full credential lifecycle; the read side is
// what the rest of the app sees.
type credentialStore interface {
	session.Store
	Set(raw string) error
}

type commandLine struct {
	client *apiclient.Client
	creds  credentialStore
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -username USERNAME                        - sign in; the password is prompted next")
	fmt.Fprintln(cli.out, "  logout                                          - sign out and clear the stored credential")
	fmt.Fprintln(cli.out, "  whoami                                          - show the signed-in user and available views")
	fmt.Fprintln(cli.out, "  attendance -course ID [-date YYYY-MM-DD] [-set STUDENT=STATUS ...] [-all STATUS]")
	fmt.Fprintln(cli.out, "                                                  - show the day's roster; with -set/-all, save it")
	fmt.Fprintln(cli.out, "  gradebook -course ID -assessment ID -max N [-set STUDENT=MARKS ...]")
	fmt.Fprintln(cli.out, "                                                  - show the marks sheet; with -set, save it")
	fmt.Fprintln(cli.out, "  history -course ID [-year YYYY -month M]        - monthly attendance summary; drill into one month")
	fmt.Fprintln(cli.out, "  survey [-answer QUESTION=N ...] [-comments TEXT] - today's wellness check-in")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginUname := loginCmd.String("username", "", "The username. The password will be prompted next.")

	attendanceCmd := flag.NewFlagSet("attendance", flag.ExitOnError)
	attendanceCourse := attendanceCmd.String("course", "", "The course ID.")
	attendanceDate := attendanceCmd.String("date", "", "The date (YYYY-MM-DD); defaults to today.")
	attendanceAll := attendanceCmd.String("all", "", "Mark every student with this status first.")
	attendanceSet := newAssignFlag(attendanceCmd, "set", "STUDENT=STATUS; repeatable.")

	gradebookCmd := flag.NewFlagSet("gradebook", flag.ExitOnError)
	gradebookCourse := gradebookCmd.String("course", "", "The course ID.")
	gradebookAssessment := gradebookCmd.String("assessment", "", "The assessment ID.")
	gradebookMax := gradebookCmd.Float64("max", 0, "The assessment's maximum marks.")
	gradebookSet := newAssignFlag(gradebookCmd, "set", "STUDENT=MARKS; repeatable.")

	historyCmd := flag.NewFlagSet("history", flag.ExitOnError)
	historyCourse := historyCmd.String("course", "", "The course ID.")
	historyYear := historyCmd.Int("year", 0, "Drill into this year's month (with -month).")
	historyMonth := historyCmd.Int("month", 0, "Drill into this month (1-12, with -year).")

	surveyCmd := flag.NewFlagSet("survey", flag.ExitOnError)
	surveyAnswers := newAssignFlag(surveyCmd, "answer", "QUESTION=N where N is the answer number; repeatable.")
	surveyComments := surveyCmd.String("comments", "", "Optional free-form comments.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginUname == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginUname, string(pwd))

	case "logout":
		return cli.logout()

	case "whoami":
		return cli.whoami()

	case "attendance":
		if err := attendanceCmd.Parse(args[2:]); err != nil {
			return err
		}
		courseID, err := parseID(attendanceCmd, *attendanceCourse)
		if err != nil {
			return err
		}
		date := nowFunc()
		if *attendanceDate != "" {
			if date, err = time.Parse(attendance.DateLayout, *attendanceDate); err != nil {
				return fmt.Errorf("invalid -date %q", *attendanceDate)
			}
		}
		return cli.takeAttendance(courseID, date, *attendanceAll, *attendanceSet)

	case "gradebook":
		if err := gradebookCmd.Parse(args[2:]); err != nil {
			return err
		}
		courseID, err := parseID(gradebookCmd, *gradebookCourse)
		if err != nil {
			return err
		}
		assessmentID, err := parseID(gradebookCmd, *gradebookAssessment)
		if err != nil {
			return err
		}
		return cli.editGradebook(courseID, assessmentID, *gradebookMax, *gradebookSet)

	case "history":
		if err := historyCmd.Parse(args[2:]); err != nil {
			return err
		}
		courseID, err := parseID(historyCmd, *historyCourse)
		if err != nil {
			return err
		}
		return cli.showHistory(courseID, *historyYear, time.Month(*historyMonth))

	case "survey":
		if err := surveyCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.takeSurvey(*surveyAnswers, *surveyComments)

	default:
		cli.printUsage()
		return errHelp
	}
}

// claims loads and decodes the stored credential, rejecting missing or
// expired sessions. Decode failures clear the store so the next attempt
// starts clean.
func (cli *commandLine) claims() (*session.Claims, error) {
	raw, ok := cli.creds.Get()
	if !ok {
		return nil, errNoLogin
	}
	claims, err := session.Decode(raw)
	if err != nil {
		_ = cli.creds.Clear()
		return nil, errNoLogin
	}
	if claims.Expired(nowFunc()) {
		return nil, errExpired
	}
	return claims, nil
}

// requireView gates a command on the caller's decoded role and
// suspension status, before any data call goes out.
func (cli *commandLine) requireView(view access.View) (*session.Claims, error) {
	claims, err := cli.claims()
	if err != nil {
		return nil, err
	}
	if claims.Suspended {
		return nil, errSuspended
	}
	if !access.Allowed(claims.Role, view) {
		return nil, errNoAccess
	}
	return claims, nil
}

// assignFlag collects repeated KEY=VALUE pairs in order.
type assignFlag []assignment

type assignment struct {
	key   string
	value string
}

func newAssignFlag(fs *flag.FlagSet, name, usage string) *assignFlag {
	f := new(assignFlag)
	fs.Var(f, name, usage)
	return f
}

func (f *assignFlag) String() string {
	parts := make([]string, len(*f))
	for i, a := range *f {
		parts[i] = a.key + "=" + a.value
	}
	return strings.Join(parts, ",")
}

func (f *assignFlag) Set(raw string) error {
	key, value, ok := strings.Cut(raw, "=")
	if !ok || key == "" || value == "" {
		return fmt.Errorf("must be of form KEY=VALUE (got %q)", raw)
	}
	*f = append(*f, assignment{key: key, value: value})
	return nil
}

func parseID(fs *flag.FlagSet, raw string) (uuid.UUID, error) {
	if raw == "" {
		fs.Usage()
		return uuid.Nil, errHelp
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid ID %q", raw)
	}
	return id, nil
}
