package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/weft/core"
	"github.com/npillmayer/weft/filter/hyphen"
	"github.com/npillmayer/weft/filter/woof"
	"github.com/npillmayer/weft/filter/words"
	"github.com/npillmayer/weft/input/markup"
	"github.com/npillmayer/weft/input/plain"
	"github.com/npillmayer/weft/output/unpack"
	"github.com/pterm/pterm"
)

// tracer traces with key 'weft.cli'
func tracer() tracing.Trace {
	return tracing.Select("weft.cli")
}

var traceKeys = []string{
	"weft.cli", "weft.core", "weft.container", "weft.input", "weft.filter", "weft.output",
}

func main() {
	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, key := range traceKeys {
		conf["trace."+key] = "Error"
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Fprintln(os.Stderr, "error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	if len(os.Args) < 2 {
		usage()
		os.Exit(core.EARG)
	}
	tool, args := os.Args[1], os.Args[2:]
	run, ok := tools[tool]
	if !ok {
		usage()
		core.UserError(core.Error(core.EARG, "no such tool: %q", tool))
		os.Exit(core.EARG)
	}
	if err := run(args); err != nil {
		core.UserError(err)
		os.Exit(core.Code(err))
	}
}

var tools = map[string]func([]string) error{
	"plain":     runPlain,
	"markup":    runMarkup,
	"words":     runWords,
	"hyphenate": runHyphenate,
	"woof":      runWoof,
	"unpack":    runUnpack,
	"json":      runJSON,
}

// We use pterm for moderately fancy usage output. The tools themselves
// write their streams to stdout and keep quiet otherwise.
func usage() {
	pterm.DefaultSection.Println("weft – linguistic transformation pipeline")
	pterm.Info.Println("usage: weft <tool> [options] < input > output")
	pterm.DefaultBulletList.WithItems([]pterm.BulletListItem{
		{Level: 0, Text: "plain               package plain text as WEFT"},
		{Level: 0, Text: "markup [-begin s]   package XML/HTML as WEFT"},
		{Level: 0, Text: "words               split content words into sub-words"},
		{Level: 0, Text: "hyphenate [...]     mark hyphenation points"},
		{Level: 0, Text: "woof -table t       apply an escape table"},
		{Level: 0, Text: "unpack [-map p]     reconstruct the original text"},
		{Level: 0, Text: "json                dump parsed lines as JSON"},
	}).Render()
}

// newFlagSet prepares the common flag handling of a tool, including the
// -trace level option.
func newFlagSet(tool string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(tool, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	tlevel := fs.String("trace", "Error", "trace level [Debug|Info|Error]")
	return fs, tlevel
}

func parseFlags(fs *flag.FlagSet, tlevel *string, args []string) error {
	if err := fs.Parse(args); err != nil {
		return core.WrapError(err, core.EARG, "%v", err)
	}
	if fs.NArg() > 0 {
		return core.Error(core.EARG, "unexpected argument %q, tools read stdin", fs.Arg(0))
	}
	level := tracing.LevelError
	switch *tlevel {
	case "Debug":
		level = tracing.LevelDebug
	case "Info":
		level = tracing.LevelInfo
	case "Error":
		// the default
	default:
		return core.Error(core.EARG, "no such trace level: %q", *tlevel)
	}
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	return nil
}

func runPlain(args []string) error {
	fs, tlevel := newFlagSet("plain")
	if err := parseFlags(fs, tlevel, args); err != nil {
		return err
	}
	return plain.Pack(os.Stdin, os.Stdout)
}

func runMarkup(args []string) error {
	fs, tlevel := newFlagSet("markup")
	begin := fs.String("begin", "char", "initial tokenizer state")
	if err := parseFlags(fs, tlevel, args); err != nil {
		return err
	}
	loc, err := markup.ParseLocation(*begin)
	if err != nil {
		return err
	}
	return markup.Pack(os.Stdin, os.Stdout, loc)
}

func runWords(args []string) error {
	fs, tlevel := newFlagSet("words")
	if err := parseFlags(fs, tlevel, args); err != nil {
		return err
	}
	return words.Run(os.Stdin, os.Stdout)
}

func runHyphenate(args []string) error {
	fs, tlevel := newFlagSet("hyphenate")
	load := fs.String("load", "", "TeX pattern file")
	style := fs.String("style", "utf8", "pattern file encoding [utf8|czech|german]")
	special := fs.String("special", "", "specialized word list")
	list := fs.String("list", "", "write sorted word list to this path")
	if err := parseFlags(fs, tlevel, args); err != nil {
		return err
	}
	ctx := hyphen.NewContext()
	if *load != "" {
		st, err := hyphen.ParseStyle(*style)
		if err != nil {
			return err
		}
		f, err := os.Open(*load)
		if err != nil {
			return core.WrapError(err, core.EIO, "cannot open pattern file: %v", err)
		}
		patterns, err := hyphen.LoadPatterns(f, st)
		f.Close()
		if err != nil {
			return err
		}
		ctx.UsePatterns(patterns)
	}
	if *special != "" {
		f, err := os.Open(*special)
		if err != nil {
			return core.WrapError(err, core.EIO, "cannot open word list: %v", err)
		}
		err = ctx.LoadSpecial(f)
		f.Close()
		if err != nil {
			return err
		}
	}
	if err := ctx.Run(os.Stdin, os.Stdout); err != nil {
		return err
	}
	if *list != "" {
		f, err := os.Create(*list)
		if err != nil {
			return core.WrapError(err, core.EIO, "cannot create word list: %v", err)
		}
		defer f.Close()
		tracer().Infof("exporting word list to %s", *list)
		return ctx.ExportWordList(f)
	}
	return nil
}

func runWoof(args []string) error {
	fs, tlevel := newFlagSet("woof")
	tablePath := fs.String("table", "", "Woof escape table")
	if err := parseFlags(fs, tlevel, args); err != nil {
		return err
	}
	if *tablePath == "" {
		return core.Error(core.ETABLEMISSING, "woof needs a -table")
	}
	f, err := os.Open(*tablePath)
	if err != nil {
		return core.WrapError(err, core.EIO, "cannot open Woof table: %v", err)
	}
	table, err := woof.LoadTable(f)
	f.Close()
	if err != nil {
		return err
	}
	return woof.Run(os.Stdin, os.Stdout, table)
}

func runUnpack(args []string) error {
	fs, tlevel := newFlagSet("unpack")
	mapPath := fs.String("map", "", "write the embedded map to this path")
	if err := parseFlags(fs, tlevel, args); err != nil {
		return err
	}
	return unpack.Unpack(os.Stdin, os.Stdout, *mapPath)
}

func runJSON(args []string) error {
	fs, tlevel := newFlagSet("json")
	if err := parseFlags(fs, tlevel, args); err != nil {
		return err
	}
	return unpack.JSON(os.Stdin, os.Stdout)
}
