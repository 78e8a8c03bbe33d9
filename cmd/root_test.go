package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeCompiler = `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
	if [ "$1" = "-o" ]; then
		out="$2"
		shift
	fi
	shift
done
printf '#!/bin/sh\necho ran > ran.txt\n' > "$out"
chmod +x "$out"
`

const brokenCompiler = `#!/bin/sh
echo "xcb_vulkan.c:1:1: error: expected identifier" >&2
exit 3
`

// setupCompiler points the launcher at a fake compiler inside a fresh working directory
func setupCompiler(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake compilers are shell scripts")
	}

	dir := t.TempDir()
	compiler := filepath.Join(dir, "cc")
	require.NoError(t, os.WriteFile(compiler, []byte(script), 0o755))

	t.Setenv("VKLAUNCH_COMPILER", compiler)
	t.Setenv("VKLAUNCH_DIR", dir)
	return dir
}

func execute(args ...string) (int, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, nil, &stdout, &stderr)
	return code, stdout.String() + stderr.String()
}

func assertRan(t *testing.T, dir string, want bool) {
	t.Helper()

	_, err := os.Stat(filepath.Join(dir, "ran.txt"))
	if want {
		assert.NoError(t, err, "binary should have run")
	} else {
		assert.True(t, os.IsNotExist(err), "binary should not have run")
	}
}

func TestDryRunPrintsCommands(t *testing.T) {
	code, output := execute("--dry", "run")

	assert.Equal(t, 0, code)
	assert.Contains(t, output, "build: $ clang -std=c99 -Wall -Werror xcb_vulkan.c -o xcb_vulkan -g -lm -lxcb -lvulkan -DVK_USE_PLATFORM_XCB_KHR")
	assert.Contains(t, output, "run: $ ./xcb_vulkan")
}

func TestDryRunWithoutTriggerOnlyBuilds(t *testing.T) {
	code, output := execute("-n")

	assert.Equal(t, 0, code)
	assert.Contains(t, output, "build: $ clang")
	assert.NotContains(t, output, "run: $")
}

func TestBuildOnly(t *testing.T) {
	dir := setupCompiler(t, fakeCompiler)

	code, _ := execute()
	assert.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(dir, "xcb_vulkan"))
	assertRan(t, dir, false)
}

func TestBuildAndRun(t *testing.T) {
	dir := setupCompiler(t, fakeCompiler)

	code, _ := execute("run")
	assert.Equal(t, 0, code)
	assertRan(t, dir, true)
}

func TestOtherArgumentDoesNotRun(t *testing.T) {
	dir := setupCompiler(t, fakeCompiler)

	code, _ := execute("other")
	assert.Equal(t, 0, code)
	assertRan(t, dir, false)
}

// A failed build exits with 0 unless propagate_exit_code is set.
func TestCompileFailureKeepsExitCodeZero(t *testing.T) {
	dir := setupCompiler(t, brokenCompiler)

	code, output := execute("run")
	assert.Equal(t, 0, code)
	assert.Contains(t, output, "expected identifier")
	assert.Contains(t, output, "compiler failed")
	assertRan(t, dir, false)
}

func TestCompileFailurePropagatesWhenEnabled(t *testing.T) {
	dir := setupCompiler(t, brokenCompiler)
	t.Setenv("VKLAUNCH_PROPAGATE_EXIT_CODE", "true")

	code, _ := execute("run")
	assert.Equal(t, 3, code)
	assertRan(t, dir, false)
}

func TestMissingCompiler(t *testing.T) {
	setupCompiler(t, fakeCompiler)
	t.Setenv("VKLAUNCH_COMPILER", "vklaunch-missing-compiler")

	code, output := execute("run")
	assert.Equal(t, 0, code)
	assert.Contains(t, output, "failed to start process")

	t.Setenv("VKLAUNCH_PROPAGATE_EXIT_CODE", "true")
	code, _ = execute("run")
	assert.Equal(t, 1, code)
}

func TestMissingConfigFile(t *testing.T) {
	code, output := execute("--config", filepath.Join(t.TempDir(), "missing.toml"))

	assert.Equal(t, 1, code)
	assert.Contains(t, output, "failed to read config file")
}

func TestTraceDumpsEventFields(t *testing.T) {
	code, output := execute("--dry", "-v")
	assert.Equal(t, 0, code)
	assert.NotContains(t, output, "  dry: true")

	t.Setenv("VKLAUNCH_LOG_TRACE", "true")
	code, output = execute("--dry")
	assert.Equal(t, 0, code)
	assert.Contains(t, output, "  dry: true")
	assert.Contains(t, output, "  step: build")
}
