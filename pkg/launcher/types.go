package launcher

import "fmt"

// Options contains everything needed to compose the compiler and run commands
type Options struct {
	// Compiler is the executable invoked for the build step (looked up in PATH unless it contains a slash)
	Compiler string
	Std      string
	// Warnings lists warning groups, each one is passed as -W<group>
	Warnings []string
	Werror   bool
	Source   string
	// Output is the path of the produced binary, relative to Dir
	Output  string
	Debug   bool
	Libs    []string
	Defines []string
	// Trigger is the first argument that enables the run step
	Trigger string
	// Dir is the working directory for both steps. The current directory is used if it's empty.
	Dir string
}

// DefaultOptions returns the options for the xcb_vulkan test program
func DefaultOptions() Options {
	return Options{
		Compiler: "clang",
		Std:      "c99",
		Warnings: []string{"all"},
		Werror:   true,
		Source:   "xcb_vulkan.c",
		Output:   "xcb_vulkan",
		Debug:    true,
		Libs:     []string{"m", "xcb", "vulkan"},
		Defines:  []string{"VK_USE_PLATFORM_XCB_KHR"},
		Trigger:  "run",
	}
}

// BuildStatus is the result of a build step
type BuildStatus struct {
	// Code is the compiler's exit status or -1 if the compiler couldn't be started
	Code int
	// Err is nil, a *CompileError or a *SpawnError
	Err error
}

// Success returns true if the compiler ran and exited with status 0
func (s BuildStatus) Success() bool {
	return s.Err == nil && s.Code == 0
}

func (s BuildStatus) String() string {
	if s.Success() {
		return "built"
	}
	return fmt.Sprintf("build failed (%d)", s.Code)
}

// RunResult describes the outcome of a run step
type RunResult struct {
	// Ran is true if the binary has been started
	Ran bool
	// Code is the binary's exit status. It's only meaningful if Ran is true.
	Code int
}
