package cmd

import (
	"fmt"
	"sort"
	"strings"
)

import (
	"github.com/timtadh/getopt"
)

// Runnable is one level of the command line. Run consumes the arguments
// it understands and returns the rest for the next level.
type Runnable interface {
	Run(argv []string) ([]string, *Error)
	ShortOpts() string
	LongOpts() []string
	Name() string
	ShortUsage() string
	Usage() string
}

type Action func(r Runnable, argv []string, optargs []getopt.OptArg) ([]string, *Error)

const unnamed = "<unnamed-action>"

type Command struct {
	Action    Action
	shortOpts string
	longOpts  []string
	name      string
	shortMsg  string
	message   string
}

// Sequence runs each runner on what the previous one left over.
type Sequence struct {
	runners []Runnable
}

// Alternatives dispatches on the first argument.
type Alternatives struct {
	runners map[string]Runnable
}

func Cmd(name, shortMsg, msg, shortOpts string, longOpts []string, act Action) Runnable {
	return &Command{
		Action:    act,
		shortOpts: shortOpts,
		longOpts:  longOpts,
		name:      strings.TrimSpace(name),
		shortMsg:  strings.TrimSpace(shortMsg),
		message:   strings.TrimSpace(msg),
	}
}

func Concat(runners ...Runnable) Runnable {
	return &Sequence{
		runners: runners,
	}
}

// Commands maps names to subcommands. The "" entry runs when no
// arguments are left.
func Commands(runners map[string]Runnable) Runnable {
	return &Alternatives{
		runners: runners,
	}
}

func BareCmd(act Action) Runnable {
	return &Command{
		Action: act,
		name:   unnamed,
	}
}

// parse reads the options of r off argv. A help flag becomes a usage
// error with exit code 0.
func parse(r Runnable, argv []string) ([]string, []getopt.OptArg, *Error) {
	args, optargs, err := getopt.GetOpt(argv, r.ShortOpts(), r.LongOpts())
	if err != nil {
		return nil, nil, Usage(r, ExitConfig, "could not process args: %v", err)
	}
	for _, oa := range optargs {
		if oa.Opt() == "-h" || oa.Opt() == "--help" {
			return nil, nil, Usage(r, 0)
		}
	}
	return args, optargs, nil
}

func (c *Command) Run(argv []string) ([]string, *Error) {
	args, optargs, err := parse(c, argv)
	if err != nil {
		return nil, err
	}
	return c.Action(c, args, optargs)
}

func (c *Command) ShortOpts() string {
	if strings.Contains(c.shortOpts, "h") {
		return c.shortOpts
	}
	return c.shortOpts + "h"
}

func (c *Command) LongOpts() []string {
	for _, opt := range c.longOpts {
		if opt == "help" {
			return c.longOpts
		}
	}
	return append(append([]string(nil), c.longOpts...), "help")
}

func (c *Command) Name() string {
	return c.name
}

func (c *Command) ShortUsage() string {
	return fmt.Sprintf("%v %v", c.name, c.shortMsg)
}

func (c *Command) Usage() string {
	return c.message
}

func (s *Sequence) Run(argv []string) ([]string, *Error) {
	if _, _, err := parse(s, argv); err != nil {
		return nil, err
	}
	for _, r := range s.runners {
		var err *Error
		argv, err = r.Run(argv)
		if err != nil {
			return nil, err
		}
	}
	return argv, nil
}

func (s *Sequence) Name() string {
	return s.runners[0].Name()
}

func (s *Sequence) ShortOpts() string {
	return s.runners[0].ShortOpts()
}

func (s *Sequence) LongOpts() []string {
	return s.runners[0].LongOpts()
}

func (s *Sequence) ShortUsage() string {
	shorts := make([]string, 0, len(s.runners))
	for _, r := range s.runners {
		if r.Name() != unnamed {
			shorts = append(shorts, r.ShortUsage())
		}
	}
	return strings.Join(shorts, " ")
}

func (s *Sequence) Usage() string {
	longs := make([]string, 0, len(s.runners))
	for _, r := range s.runners {
		longs = append(longs, r.Usage())
	}
	return strings.Join(longs, "\n\n")
}

func (a *Alternatives) Run(argv []string) ([]string, *Error) {
	if len(argv) == 0 {
		if r, has := a.runners[""]; has {
			return r.Run(argv)
		}
		return nil, Usage(a, ExitConfig, "Expected one of %v got end of arguments", a.Name())
	}
	r, has := a.runners[argv[0]]
	if !has {
		return nil, Usage(a, ExitConfig, "Expected one of %v got %v", a.Name(), argv[0])
	}
	return r.Run(argv[1:])
}

func (a *Alternatives) names() (names []string, optional bool) {
	names = make([]string, 0, len(a.runners))
	for name := range a.runners {
		if name == "" {
			optional = true
		} else {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, optional
}

func (a *Alternatives) Name() string {
	names, optional := a.names()
	if len(a.runners) == 1 && !optional {
		return names[0]
	}
	name := fmt.Sprintf("(%v)", strings.Join(names, "|"))
	if optional {
		name += "?"
	}
	return name
}

func (a *Alternatives) ShortOpts() string {
	return ""
}

func (a *Alternatives) LongOpts() []string {
	return nil
}

func (a *Alternatives) ShortUsage() string {
	return a.Name()
}

func (a *Alternatives) Usage() string {
	names, optional := a.names()
	shorts := make([]string, 0, len(names))
	longs := make([]string, 0, len(a.runners))
	if optional {
		if r := a.runners[""]; strings.TrimSpace(r.ShortUsage()) != unnamed {
			longs = append(longs, fmt.Sprintf("%v\n%v", r.ShortUsage(), indent(r.Usage(), 4)))
		}
	}
	for _, name := range names {
		r := a.runners[name]
		shorts = append(shorts, indent(r.ShortUsage(), 4))
		longs = append(longs, fmt.Sprintf("%v\n%v", r.ShortUsage(), indent(r.Usage(), 4)))
	}
	if len(shorts) <= 1 {
		return strings.Join(longs, "\n\n")
	}
	return fmt.Sprintf("Commands\n%v\n\n%v",
		strings.Join(shorts, "\n"), indent(strings.Join(longs, "\n\n"), 2))
}

func indent(s string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}
