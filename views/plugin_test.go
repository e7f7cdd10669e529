package views

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const slideshowSource = `package main

type slideshow struct{}

func (slideshow) String() string { return "slideshow" }

func NewView() any { return slideshow{} }
`

const badSymbolSource = `package main

var NewView = 42
`

// buildPlugin compiles src as the plugin <dir>/<id>.so. It skips the
// test where plugins cannot be built.
func buildPlugin(t *testing.T, dir, id, src string) {
	t.Helper()
	switch runtime.GOOS {
	case "linux", "darwin", "freebsd":
	default:
		t.Skipf("plugins are not supported on %s", runtime.GOOS)
	}
	if testing.Short() {
		t.Skip("building plugins is slow")
	}
	gocmd, err := exec.LookPath("go")
	if err != nil {
		t.Skip("no go command")
	}

	srcDir := filepath.Join(t.TempDir(), id)
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "go.mod"), []byte("module "+id+"\n\ngo 1.23\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "main.go"), []byte(src), 0o644))

	args := []string{"build", "-buildmode=plugin"}
	if raceEnabled {
		args = append(args, "-race")
	}
	args = append(args, "-o", filepath.Join(dir, id+".so"), ".")
	cmd := exec.Command(gocmd, args...)
	cmd.Dir = srcDir
	cmd.Env = append(os.Environ(), "GOWORK=off", "GOFLAGS=")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("cannot build plugin: %v\n%s", err, out)
	}
}

// skipIfMismatched skips when the plugin was built by a toolchain
// other than the one of the test binary.
func skipIfMismatched(t *testing.T, err error) {
	t.Helper()
	if err != nil && strings.Contains(err.Error(), "different version of package") {
		t.Skipf("plugin toolchain differs: %v", err)
	}
}

func TestPluginDirOpen(t *testing.T) {
	dir := t.TempDir()
	buildPlugin(t, dir, "slideshow", slideshowSource)
	p := PluginDir{Dir: dir}

	m, err := p.Open("slideshow")
	skipIfMismatched(t, err)
	require.NoError(t, err)
	assert.Equal(t, "slideshow", fmt.Sprint(m))

	var h Handle
	require.NoError(t, Load(&h, Chain(NewRegistry(), p), "slideshow"))
	assert.True(t, h.Loaded())
	assert.Equal(t, "slideshow", h.Name(), "no Namer, the id is the name")
	assert.NoError(t, h.tryEnter())
	assert.False(t, h.keyPressed('x'))
	h.Unload()
}

func TestPluginDirBadSymbol(t *testing.T) {
	dir := t.TempDir()
	buildPlugin(t, dir, "broken", badSymbolSource)

	_, err := PluginDir{Dir: dir}.Open("broken")
	skipIfMismatched(t, err)
	assert.ErrorIs(t, err, ErrBadSymbol)

	m := NewManager(PluginDir{Dir: dir}, "iview")
	defer m.Cleanup()
	_, err = m.LoadModule("broken")
	assert.ErrorIs(t, err, ErrBadSymbol)
	assert.Equal(t, 0, m.NumViews())
}
