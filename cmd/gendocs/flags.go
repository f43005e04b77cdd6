package main

import (
	flag "github.com/spf13/pflag"

	"github.com/John-Robertt/shaderdocs/internal/config"
)

const (
	flagHeader  = "header"
	flagHTML    = "html"
	flagDryRun  = "dry-run"
	flagWatch   = "watch"
	flagJSON    = "json"
	flagVerbose = "verbose"
)

// runFlags 保存生成命令的全部参数；*Set 字段记录是否显式指定。
type runFlags struct {
	path string

	header    string
	headerSet bool

	html    bool
	htmlSet bool

	dryRun  bool
	watch   bool
	json    bool
	verbose bool
}

func bindRunFlags(fs *flag.FlagSet, rf *runFlags) {
	fs.StringVar(&rf.header, flagHeader, "", "header markdown file (default: HEADER.md next to the executable)")
	fs.BoolVar(&rf.html, flagHTML, false, "also write README.html preview")
	fs.BoolVar(&rf.dryRun, flagDryRun, false, "print the document instead of writing it")
	fs.BoolVarP(&rf.watch, flagWatch, "w", false, "regenerate when the directory changes")
	fs.BoolVar(&rf.json, flagJSON, false, "print a JSON run report on stdout")
	fs.BoolVarP(&rf.verbose, flagVerbose, "v", false, "enable debug logging on stderr")
	fs.SortFlags = false
}

func (rf runFlags) cliArgs(programDir string) config.CLIArgs {
	return config.CLIArgs{
		Path:       rf.path,
		Header:     rf.header,
		HeaderSet:  rf.headerSet,
		HTML:       rf.html,
		HTMLSet:    rf.htmlSet,
		DryRun:     rf.dryRun,
		Watch:      rf.watch,
		ProgramDir: programDir,
	}
}
