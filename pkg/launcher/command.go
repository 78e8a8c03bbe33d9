package launcher

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/syntax"
)

// CompileArgs returns the compiler command line. The order is fixed:
// compiler, language standard, warnings, source, output, debug flag, libraries and defines.
func (o Options) CompileArgs() []string {
	args := make([]string, 0, 8+len(o.Warnings)+len(o.Libs)+len(o.Defines))
	args = append(args, o.Compiler)

	if o.Std != "" {
		args = append(args, "-std="+o.Std)
	}

	for _, group := range o.Warnings {
		args = append(args, "-W"+group)
	}

	if o.Werror {
		args = append(args, "-Werror")
	}

	args = append(args, o.Source, "-o", o.Output)
	if o.Debug {
		args = append(args, "-g")
	}

	for _, lib := range o.Libs {
		args = append(args, "-l"+lib)
	}

	for _, def := range o.Defines {
		args = append(args, "-D"+def)
	}

	return args
}

// RunArgs returns the command line for the produced binary. A bare file name is prefixed with ./ to make
// sure the binary in the working directory is used instead of one found in PATH.
func (o Options) RunArgs() []string {
	binary := filepath.ToSlash(o.Output)
	if !strings.Contains(binary, "/") {
		binary = "./" + binary
	}

	return []string{binary}
}

// Triggered reports whether args request the run step
func (o Options) Triggered(args []string) bool {
	return len(args) > 0 && args[0] == o.Trigger
}

func callExpr(args []string) (*syntax.CallExpr, error) {
	if len(args) == 0 {
		return nil, eris.New("empty command")
	}

	cmd := new(syntax.CallExpr)
	cmd.Args = make([]*syntax.Word, len(args))
	for a, arg := range args {
		var wordPart syntax.WordPart

		switch {
		case strings.Contains(arg, "'"):
			// single quotes can't be escaped inside single quotes
			node := new(syntax.DblQuoted)
			node.Parts = []syntax.WordPart{&syntax.Lit{Value: escapeDouble(arg)}}

			wordPart = node
		case arg == "" || strings.ContainsAny(arg, " \t\n$\"\\`*?[]{}()<>|&;#~"):
			node := new(syntax.SglQuoted)
			node.Value = arg

			wordPart = node
		default:
			node := new(syntax.Lit)
			node.Value = arg

			wordPart = node
		}

		cmd.Args[a] = new(syntax.Word)
		cmd.Args[a].Parts = []syntax.WordPart{wordPart}
	}

	return cmd, nil
}

func escapeDouble(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch r {
		case '\\', '"', '$', '`':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Render returns args as a single shell command line
func Render(args []string) (string, error) {
	cmd, err := callExpr(args)
	if err != nil {
		return "", err
	}

	strBuffer := strings.Builder{}
	printer := syntax.NewPrinter(syntax.Minify(true))
	err = printer.Print(&strBuffer, cmd)
	if err != nil {
		return "", eris.Wrap(err, "failed to print command")
	}

	return strBuffer.String(), nil
}
