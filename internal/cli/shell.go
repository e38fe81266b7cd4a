package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	nferrors "github.com/matzehuels/nodeforest/pkg/errors"
	"github.com/matzehuels/nodeforest/pkg/config"
	"github.com/matzehuels/nodeforest/pkg/forest"
	"github.com/matzehuels/nodeforest/pkg/render"
	"github.com/matzehuels/nodeforest/pkg/service"
	"github.com/matzehuels/nodeforest/pkg/session"
)

// errExit ends the shell loop.
var errExit = errors.New("exit requested")

const shellHelp = `Commands:
  tree                 show the forest (expanded nodes only)
  all                  show the whole forest
  ls [parent|root]     list all nodes, or the children of one parent
  select <id>...       replace the selection (one level only)
  toggle <id>          add or remove one node
  clear                clear the selection
  expand <id>          expand or collapse a node
  move <target|root>   move the selection
  move <id>... <target|root>
                       move the given nodes
  check                integrity report
  state                show selection and expansion
  help                 this text
  exit                 leave the shell`

// shellCommand creates the shell command.
func (c *CLI) shellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell [script]...",
		Short: "Interactive shell for selecting and moving nodes",
		Long: `Start a line-oriented shell over the node forest.

Script files given as arguments run first, one command per line; lines
starting with # are ignored. Type help inside the shell for the commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			sel, closeSel, err := c.openSelection(ctx)
			if err != nil {
				return err
			}
			defer closeSel()

			sh := newShell(a.svc, sel, cmd.OutOrStdout())
			for _, path := range args {
				if err := sh.runScript(ctx, path); err != nil {
					if errors.Is(err, errExit) {
						return nil
					}
					return err
				}
			}
			return c.repl(ctx, sh)
		},
	}
}

// repl reads commands with line editing and history until exit or EOF.
func (c *CLI) repl(ctx context.Context, sh *shell) error {
	var history string
	if dir, err := config.Dir(); err == nil {
		history = filepath.Join(dir, "shell_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "nodeforest> ",
		HistoryFile:     history,
		AutoComplete:    shellCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(sh.out, StyleDim.Render("Type help for commands, exit to leave."))
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := sh.exec(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			printError(sh.out, "%s", nferrors.UserMessage(err))
		}
	}
}

func shellCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("tree"),
		readline.PcItem("all"),
		readline.PcItem("ls", readline.PcItem("root")),
		readline.PcItem("select"),
		readline.PcItem("toggle"),
		readline.PcItem("clear"),
		readline.PcItem("expand"),
		readline.PcItem("move", readline.PcItem("root")),
		readline.PcItem("check"),
		readline.PcItem("state"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

// shell executes shell command lines against a service and a selection.
type shell struct {
	svc *service.Service
	sel *session.Selection
	out io.Writer
}

func newShell(svc *service.Service, sel *session.Selection, out io.Writer) *shell {
	return &shell{svc: svc, sel: sel, out: out}
}

// runScript executes each non-blank, non-comment line of path and stops at
// the first error.
func (s *shell) runScript(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := s.exec(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				return err
			}
			return fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
	}
	return scanner.Err()
}

// exec runs one command line.
func (s *shell) exec(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "exit", "quit":
		return errExit
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
		return nil
	}

	nodes, err := s.svc.Nodes(ctx)
	if err != nil {
		return err
	}

	switch args[0] {
	case "tree", "all":
		opts := render.Options{Selected: s.sel.Selected(), Expanded: s.sel.Expanded(), Collapse: args[0] == "tree"}
		fmt.Fprintln(s.out, render.Tree(forest.BuildForest(nodes), opts))
	case "ls":
		if len(args) == 1 {
			printNodeTable(s.out, nodes)
			return nil
		}
		parent, err := forest.ParseParent(args[1])
		if err != nil {
			return err
		}
		printNodeTable(s.out, forest.Children(nodes, parent))
	case "select":
		ids, err := s.ids(nodes, args[1:])
		if err != nil {
			return err
		}
		if err := s.sel.SetSelected(ctx, nodes, ids); err != nil {
			return err
		}
		printSuccess(s.out, "Selected %v", ids)
	case "toggle":
		ids, err := s.ids(nodes, args[1:])
		if err != nil {
			return err
		}
		if len(ids) != 1 {
			return fmt.Errorf("usage: toggle <id>")
		}
		if err := s.sel.Toggle(ctx, nodes, ids[0]); err != nil {
			return err
		}
		printInfo(s.out, "Selection: %v", s.sel.Selected())
	case "clear":
		if err := s.sel.Clear(ctx); err != nil {
			return err
		}
		printInfo(s.out, "Selection cleared")
	case "expand":
		ids, err := s.ids(nodes, args[1:])
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := s.sel.ToggleExpanded(ctx, id); err != nil {
				return err
			}
		}
		printInfo(s.out, "Expanded: %v", s.sel.Expanded())
	case "move", "mv":
		return s.move(ctx, args[1:])
	case "check":
		return printReport(s.out, forest.Inspect(nodes))
	case "state":
		printState(s.out, s.sel, nodes)
	default:
		return fmt.Errorf("unknown command %q (try help)", args[0])
	}
	return nil
}

// move handles "move <target>" for the selection and "move <id>... <target>".
func (s *shell) move(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: move [<id>...] <target|root>")
	}
	target, err := forest.ParseParent(args[len(args)-1])
	if err != nil {
		return err
	}

	ids := s.sel.Selected()
	fromSelection := len(args) == 1
	if !fromSelection {
		if ids, err = forest.ParseIDs(args[:len(args)-1]); err != nil {
			return err
		}
	}

	res, err := s.svc.Move(ctx, service.MoveRequest{NodeIDs: ids, TargetParentID: target})
	if err != nil {
		return err
	}
	if fromSelection {
		if err := s.sel.Clear(ctx); err != nil {
			return err
		}
	}
	printSuccess(s.out, "Moved %s under %s", plural(len(res.Moved), "node"), forest.FormatParent(target))
	return nil
}

// ids parses ids and checks that they exist.
func (s *shell) ids(nodes []forest.Node, args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing node ids")
	}
	ids, err := forest.ParseIDs(args)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := forest.FindNode(nodes, id); !ok {
			return nil, fmt.Errorf("node %d not found", id)
		}
	}
	return ids, nil
}
