package cli

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/valter-silva-au/dayplan/internal/core"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// testClock is a settable clock for stores under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// useTestStore installs an in-memory store as the package Store for the
// duration of the test. The clock starts on Tuesday 2024-01-02 at 09:00.
func useTestStore(t *testing.T) *testClock {
	t.Helper()
	clock := &testClock{now: time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local)}
	n := 0
	store := core.NewStore(core.StoreOptions{
		Now: clock.Now,
		NewID: func() string {
			n++
			return fmt.Sprintf("id%03d", n)
		},
	})
	store.Initialize()

	origStore, origConfig := Store, Config
	Store = store
	Config = core.DefaultGlobalConfig()
	t.Cleanup(func() {
		Store, Config = origStore, origConfig
	})
	return clock
}

// run executes the root command with args and returns its output. Flag
// values are reset first because cobra keeps them between executions.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// mustRun is run that fails the test on error.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("dayplan %v: %v\n%s", args, err, out)
	}
	return out
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
