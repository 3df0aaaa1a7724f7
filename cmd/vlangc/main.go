// Command vlangc compiles a single vlang source file to a linked
// bytecode image, written to standard output.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"vlangc/internal/ast"
	"vlangc/internal/buildutil"
	"vlangc/internal/bytecode"
	"vlangc/internal/emitter"
	"vlangc/internal/errors"
	"vlangc/internal/lexer"
	"vlangc/internal/parser"
	"vlangc/internal/verifier"
)

const defaultSource = "testprog.vlang"

func main() {
	path := defaultSource
	if len(os.Args) > 1 {
		if os.Args[1] == "compile" && len(os.Args) > 2 {
			path = os.Args[2]
		} else if os.Args[1] != "compile" {
			path = os.Args[1]
		}
	}

	if err := compile(path); err != nil {
		report(err)
		os.Exit(1)
	}
}

func compile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return errors.NewEnvironmentError("could not read %s", path).WithCause(err)
	}

	scanner := lexer.NewScanner(source)
	tokens := scanner.ScanTokens()

	rootScope := ast.NewScope(nil, "")
	p := parser.New(tokens, path)
	items, err := p.Parse(rootScope)
	if err != nil {
		return err
	}

	v := verifier.New(rootScope)
	if !v.Validate(items) {
		return v.Errors
	}

	linker := bytecode.NewLinker()
	emitter.Emit(items, rootScope, linker)
	code, err := linker.Link()
	if err != nil {
		return err
	}

	image := buildutil.NewImage(code)
	if err := image.Write(os.Stdout); err != nil {
		return err
	}

	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(os.Stderr, "compiled %s: %s\n", path, humanize.Bytes(uint64(len(code))))
	}
	return nil
}

func report(err error) {
	if list, ok := err.(errors.List); ok {
		fmt.Fprint(os.Stderr, list.Error())
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
