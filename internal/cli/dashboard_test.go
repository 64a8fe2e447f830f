package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/freelance/internal/workspace"
)

// keyReader yields one key per Read and calls before(i) ahead of key i.
type keyReader struct {
	keys   []string
	before func(i int)
	next   int
}

func (k *keyReader) Read(p []byte) (int, error) {
	if k.next >= len(k.keys) {
		return 0, io.EOF
	}
	if k.before != nil {
		k.before(k.next)
	}
	n := copy(p, k.keys[k.next]+"\n")
	k.next++
	return n, nil
}

type manualTimers struct {
	pending []func()
}

type noopTimer struct{}

func (noopTimer) Stop() bool { return true }

func (m *manualTimers) AfterFunc(d time.Duration, f func()) workspace.Timer {
	m.pending = append(m.pending, f)
	return noopTimer{}
}

func TestInteractiveDashboardRedrawsWhenEarningsExpire(t *testing.T) {
	h := newHarness(t)
	project := h.addProject("Site")
	h.mustRun("payments", "add", "--project", project, "--amount", "12250",
		"--date", "2024-02-01", "--method", "bKash", "--status", "Paid")

	timers := &manualTimers{}
	keys := &keyReader{
		keys: []string{"e", "q"},
		before: func(i int) {
			if i == 1 {
				require.Len(t, timers.pending, 1)
				timers.pending[0]()
			}
		},
	}

	var out, errOut bytes.Buffer
	cmd, a := newRootCommand(keys, &out, &errOut)
	defer a.close()
	a.afterFunc = timers.AfterFunc
	cmd.SetArgs([]string{"--db", h.db, "--user", h.user, "dashboard", "--interactive"})
	require.NoError(t, cmd.ExecuteContext(context.Background()), errOut.String())

	renders := strings.Split(out.String(), "Dashboard\n")[1:]
	require.Len(t, renders, 3, out.String())
	assert.Contains(t, renders[0], workspace.Masked)
	assert.Contains(t, renders[1], "৳12,250")
	assert.Contains(t, renders[2], workspace.Masked)
	assert.NotContains(t, renders[2], "৳12,250")
}
