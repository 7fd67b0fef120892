package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/logging"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var (
	bold    = color.New(color.Bold)
	heading = color.New(color.Bold, color.Underline)
	faint   = color.New(color.Faint)
	done    = color.New(color.FgGreen)
	blocked = color.New(color.FgRed)
	warn    = color.New(color.FgYellow)
)

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	return tbl
}

func requireStore() error {
	if Store == nil {
		return fmt.Errorf("store not initialized")
	}
	return nil
}

// current returns the state after any owed day or week rollover.
func current() (models.State, error) {
	if err := requireStore(); err != nil {
		return models.State{}, err
	}
	if err := Store.Dispatch(core.Refresh{}); err != nil {
		return models.State{}, fmt.Errorf("refreshing state: %w", err)
	}
	return Store.State(), nil
}

// dispatch applies an intent and reports persistence failures without
// failing the command; the change stays in effect for this run.
func dispatch(in core.Intent, doing string) error {
	if err := requireStore(); err != nil {
		return err
	}
	if err := Store.Dispatch(in); err != nil {
		return fmt.Errorf("%s: %w", doing, err)
	}
	if err := Store.PersistErr(); err != nil {
		logging.Warn("cli", "state not saved: %v", err)
	}
	return nil
}

// resolveID maps a user argument to an entity ID. The argument may be the
// 1-based position shown by list commands, a full ID or a unique ID prefix.
func resolveID(kind, arg string, ids []string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("%s id is required", kind)
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(ids) {
			return "", fmt.Errorf("no %s at position %d (have %d)", kind, n, len(ids))
		}
		return ids[n-1], nil
	}
	var match string
	for _, id := range ids {
		if id == arg {
			return id, nil
		}
		if strings.HasPrefix(id, arg) {
			if match != "" {
				return "", fmt.Errorf("%s id prefix %q is ambiguous", kind, arg)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("no %s matches %q", kind, arg)
	}
	return match, nil
}

func resolveIDs(kind string, args []string, ids []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		id, err := resolveID(kind, a, ids)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

type identified interface{ EntityID() string }

func idsOf[T identified](items []T) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.EntityID()
	}
	return ids
}

func checkbox(completed bool) string {
	if completed {
		return done.Sprint("[x]")
	}
	return "[ ]"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func progressBar(pct int) string {
	const width = 10
	filled := pct * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "] " + strconv.Itoa(pct) + "%"
}

func formatSeconds(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
