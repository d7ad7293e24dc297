// Command diamant is the front-end CLI: it drives the lexer, parser,
// and annotator over a source file and prints whichever stage's output
// was asked for. There is no backend here — diamant stops at the
// annotated tree.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/aledsdavies/diamant/annotator"
	"github.com/aledsdavies/diamant/ast"
	"github.com/aledsdavies/diamant/diag"
	"github.com/aledsdavies/diamant/lexer"
	"github.com/aledsdavies/diamant/parser"
	"github.com/aledsdavies/diamant/token"
	"github.com/spf13/cobra"
)

// noColor and jsonOut back the root command's --no-color and --json
// persistent flags, the teacher's own flag style (cli/main.go's
// noColor/debug bool flags): --no-color strips ANSI color from
// diagnostic messages and the lex command's token dump, and --json
// switches the lex command (which is plain text by default, unlike
// parse/pp which are always JSON) to a JSON array of tokens.
var noColor, jsonOut bool

func main() {
	rootCmd := &cobra.Command{
		Use:           "diamant",
		Short:         "Front-end for the Diamant language: lex, parse, and annotate source files",
		SilenceErrors: true,
		SilenceUsage:  true,
		// With no subcommand, the file is lexed as `lex <file>` would.
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newLexCmd().RunE(cmd, args)
		},
	}
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI color in diagnostics and token output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print the lex command's tokens as a JSON array instead of plain text")

	rootCmd.AddCommand(
		newLexCmd(),
		newParseCmd(),
		newPPCmd(),
		newSourceCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

const (
	ansiRed   = "\033[31m"
	ansiReset = "\033[0m"
)

func colorize(s string) string {
	if noColor {
		return s
	}
	return ansiRed + s + ansiReset
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func reportDiag(err error) error {
	if de, ok := err.(*diag.Error); ok {
		fmt.Fprintln(os.Stderr, colorize(de.Error()))
		if snip := de.Snippet(); snip != "" {
			fmt.Fprintln(os.Stderr, snip)
		}
		return fmt.Errorf("%s", de.Stage)
	}
	return err
}

func newLexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lex <file>",
		Short: "Tokenize a source file and print each token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			toks, err := lexer.TokenizeToSlice(src)
			if err != nil {
				return reportDiag(err)
			}
			if jsonOut {
				return printJSON(dumpTokens(toks))
			}
			for _, t := range toks {
				line := fmt.Sprintf("%4d:%-3d %s", t.Line, t.Column, t.String())
				if t.Synthetic {
					line = colorize(line)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a source file and print its AST as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			top, err := parser.Parse(src)
			if err != nil {
				return reportDiag(err)
			}
			return printJSON(dumpNode(top))
		},
	}
}

func newPPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pp <file>",
		Short: "Parse, annotate, and pretty-print the fully annotated AST as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			top, err := parser.Parse(src)
			if err != nil {
				return reportDiag(err)
			}
			warnings, err := annotator.Annotate(top)
			if err != nil {
				return reportDiag(err)
			}
			for _, w := range warnings {
				fmt.Fprintln(os.Stderr, w.String())
			}
			return printJSON(dumpNode(top))
		},
	}
}

func newSourceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "source <file>",
		Short: "Read a file as UTF-8 text and echo it back, as a smoke test of the I/O boundary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			if !utf8.Valid(data) {
				return fmt.Errorf("%s is not valid UTF-8", args[0])
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}

// dumpTokens converts a token slice into the plain map shape the
// --json flag prints for the lex command.
func dumpTokens(toks []token.Token) []map[string]any {
	out := make([]map[string]any, 0, len(toks))
	for _, t := range toks {
		m := map[string]any{
			"type":      t.Type.String(),
			"line":      t.Line,
			"column":    t.Column,
			"synthetic": t.Synthetic,
		}
		if t.Ident != "" {
			m["ident"] = t.Ident
		}
		if t.Regex != "" {
			m["regex"] = t.Regex
		}
		out = append(out, m)
	}
	return out
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// dumpNode converts an ast.Node into a plain map for JSON output,
// since the node types themselves carry unexported interface methods
// and are not meant to be marshaled directly.
func dumpNode(n ast.Node) map[string]any {
	if n == nil {
		return nil
	}
	pos := n.Pos()
	out := map[string]any{"line": pos.Line, "column": pos.Column}
	if vs := ast.VarsetOf(n); vs != nil {
		vsOut := map[string]string{}
		for name, act := range vs {
			vsOut[name] = act.String()
		}
		out["varset"] = vsOut
	}

	switch v := n.(type) {
	case *ast.Lit:
		out["kind"] = "lit"
		out["value"] = v.Value.String()
	case *ast.Var:
		out["kind"] = "var"
		out["name"] = v.Name
		out["action"] = v.Action.String()
	case *ast.Regex:
		out["kind"] = "regex"
		out["pattern"] = v.Pattern
	case *ast.Array:
		out["kind"] = "array"
		out["elems"] = dumpNodes(v.Elems)
	case *ast.Entry:
		out["kind"] = "entry"
		out["key"] = dumpNode(v.Key)
		out["value"] = dumpNode(v.Value)
	case *ast.Dict:
		out["kind"] = "dict"
		out["entries"] = dumpEntries(v.Entries)
	case *ast.DictUp:
		out["kind"] = "dictup"
		out["subj"] = dumpNode(v.Subj)
		out["entries"] = dumpEntries(v.Entries)
	case *ast.Apply:
		out["kind"] = "apply"
		out["func"] = dumpNode(v.Func)
		out["args"] = dumpNodes(v.Args)
	case *ast.Clause:
		out["kind"] = "clause"
		out["pats"] = dumpNodes(v.Pats)
		out["body"] = dumpNode(v.Body)
	case *ast.Case:
		out["kind"] = "case"
		out["subj"] = dumpNode(v.Subj)
		var cls []map[string]any
		for _, cl := range v.Clauses {
			cls = append(cls, dumpNode(cl))
		}
		out["clauses"] = cls
	case *ast.If:
		out["kind"] = "if"
		out["cond"] = dumpNode(v.Cond)
		out["then"] = dumpNode(v.Then)
		out["else"] = dumpNode(v.Else)
	case *ast.Do:
		out["kind"] = "do"
		if v.Kind == ast.LetBlock {
			out["kind"] = "let"
		}
		out["seq"] = dumpNodes(v.Seq)
		defs := map[string]any{}
		for _, name := range v.DefOrder {
			fd := v.Defs[name]
			var cls []map[string]any
			for _, cl := range fd.Clauses {
				cls = append(cls, dumpNode(cl))
			}
			defs[name] = map[string]any{
				"arity":   fd.Arity,
				"clauses": cls,
				"env":     fd.Env,
			}
		}
		out["defs"] = defs
	case *ast.Binary:
		out["kind"] = "binary"
		out["op"] = v.Op.String()
		out["left"] = dumpNode(v.Left)
		out["right"] = dumpNode(v.Right)
	case *ast.Unary:
		out["kind"] = "unary"
		out["op"] = v.Op.String()
		out["right"] = dumpNode(v.Right)
	case *ast.Assign:
		out["kind"] = "assign"
		out["left"] = dumpNode(v.Left)
		out["right"] = dumpNode(v.Right)
	}
	return out
}

func dumpNodes(ns []ast.Node) []map[string]any {
	out := make([]map[string]any, 0, len(ns))
	for _, n := range ns {
		out = append(out, dumpNode(n))
	}
	return out
}

func dumpEntries(es []*ast.Entry) []map[string]any {
	out := make([]map[string]any, 0, len(es))
	for _, e := range es {
		out = append(out, dumpNode(e))
	}
	return out
}
