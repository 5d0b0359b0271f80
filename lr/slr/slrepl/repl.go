package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pingcap/errors"

	"github.com/npillmayer/slrgen/lr"
	"github.com/npillmayer/slrgen/lr/notation"
	"github.com/npillmayer/slrgen/lr/slr"
)

// main() starts an interactive CLI ("SLR.REPL"). It reads a grammar, either from a file
// or interactively, constructs the SLR(1) tables for it and then parses input
// strings, printing every step of the parser.
func main() {
	initDisplay()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	gfile := flag.String("grammar", "", "Grammar file (number of lines, then productions)")
	dotfile := flag.String("dot", "", "Export the CFSM to a GraphViz file")
	htmlprefix := flag.String("html", "", "Export ACTION and GOTO tables to <prefix>-action.html and <prefix>-goto.html")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelInfo)
	pterm.Info.Println("Welcome to SLR.REPL") // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	level := traceLevel(*tlevel)
	tracing.Select("slrgen.lr").SetTraceLevel(level)
	tracing.Select("slrgen.scanner").SetTraceLevel(level)
	//
	repl, err := readline.New("slr> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	intp := &Intp{repl: repl}
	g, err := intp.loadGrammar(*gfile)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	if err := intp.generate(g); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	intp.printListing()
	intp.export(*dotfile, *htmlprefix)
	//
	for _, input := range flag.Args() { // inputs given on the command line
		intp.Eval(input)
	}
	tracer().Infof("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	repl   *readline.Instance
	lrgen  *lr.TableGenerator
	parser *slr.Parser
}

// loadGrammar reads a grammar from a file or, if no file name is given,
// prompts for the number of productions and the productions themselves.
func (intp *Intp) loadGrammar(filename string) (*lr.Grammar, error) {
	if filename != "" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, errors.Annotate(err, "unable to open grammar file")
		}
		defer f.Close()
		return notation.Read(filename, f)
	}
	pterm.Info.Println("Conventions: use single-char non-terminals A-Z; terminals are other chars; epsilon=#")
	var n int
	for {
		intp.repl.SetPrompt("Enter number of productions: ")
		line, err := intp.repl.Readline()
		if err != nil {
			return nil, errors.Annotate(err, "no grammar")
		}
		if n, err = strconv.Atoi(strings.TrimSpace(line)); err == nil && n > 0 {
			break
		}
		pterm.Error.Println("please enter a positive number")
	}
	lines := make([]string, 0, n)
	for len(lines) < n {
		intp.repl.SetPrompt(fmt.Sprintf("Prod %d: ", len(lines)+1))
		line, err := intp.repl.Readline()
		if err != nil {
			return nil, errors.Annotate(err, "incomplete grammar")
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if _, ok := notation.ParseLine(line); !ok {
			pterm.Warning.Println("skipping malformed production " + line)
		}
		lines = append(lines, line)
	}
	return notation.FromLines("G", lines...)
}

// generate analyses the grammar and creates the parser tables.
func (intp *Intp) generate(g *lr.Grammar) error {
	ga, err := lr.Analysis(g)
	if err != nil {
		return err
	}
	intp.lrgen = lr.NewTableGenerator(ga)
	if err = intp.lrgen.CreateTables(); err != nil {
		return err
	}
	for _, c := range intp.lrgen.Conflicts() {
		pterm.Warning.Println("grammar is not SLR(1), resolved " + c.String())
	}
	intp.parser = slr.NewParser(g, intp.lrgen.GotoTable(), intp.lrgen.ActionTable())
	return nil
}

func (intp *Intp) printListing() {
	var b bytes.Buffer
	if err := intp.lrgen.WriteListing(&b); err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	pterm.DefaultSection.Println("Grammar " + intp.lrgen.Grammar().Name)
	pterm.Println(b.String())
}

func (intp *Intp) export(dotfile, htmlprefix string) {
	if dotfile != "" {
		writeFile(dotfile, intp.lrgen.CFSM().CFSM2GraphViz)
	}
	if htmlprefix != "" {
		writeFile(htmlprefix+"-action.html", func(w io.Writer) error {
			return lr.ActionTableAsHTML(intp.lrgen, w)
		})
		writeFile(htmlprefix+"-goto.html", func(w io.Writer) error {
			return lr.GotoTableAsHTML(intp.lrgen, w)
		})
	}
}

func writeFile(name string, write func(io.Writer) error) {
	f, err := os.Create(name)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	defer f.Close()
	if err = write(f); err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	tracer().Infof("exported %s", name)
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	intp.repl.SetPrompt("input> ")
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if line == "quit" {
			break
		}
		intp.Eval(line)
	}
	println("Good bye!")
}

// Eval parses an input string and prints the steps of the parser.
func (intp *Intp) Eval(input string) {
	result, err := intp.parser.ParseString(intp.lrgen.CFSM().S0, input)
	if result != nil {
		data := pterm.TableData{{"Stack", "Remaining Input", "Action"}}
		for _, step := range result.Steps {
			data = append(data, []string{step.Stack, step.Remaining, step.Action})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			tracer().Errorf(err.Error())
		}
	}
	switch {
	case err != nil:
		pterm.Error.Println(err.Error())
	case result.Accepted():
		pterm.Info.Println("accepted")
	default:
		pterm.Error.Println("rejected: " + result.Reason)
	}
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}
