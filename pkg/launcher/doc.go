// Package launcher compiles a single C source file with a fixed compiler command line and, if asked to,
// runs the produced binary afterwards.
// Both commands are executed through mvdan.cc/sh's interpreter so they behave like they would in a POSIX
// shell, even on systems that don't have one.
package launcher
