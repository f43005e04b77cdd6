package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/John-Robertt/shaderdocs/internal/app/run"
)

// console 决定人类可读输出去向：
// - 默认：banner/SUCCESS 走 stdout
// - --json：stdout 必须且仅输出 RunReport JSON，其余走 stderr
// - --dry-run：stdout 输出文档本身，其余走 stderr
type console struct {
	out    io.Writer // 主输出（JSON 或文档）
	info   io.Writer // banner/SUCCESS
	json   bool
	dryRun bool

	title lipgloss.Style
}

func newConsole(stdout, stderr io.Writer, jsonOut, dryRun bool) *console {
	info := stdout
	if jsonOut || dryRun {
		info = stderr
	}
	return &console{
		out:    stdout,
		info:   info,
		json:   jsonOut,
		dryRun: dryRun,
		// renderer 绑定到实际写入目标：非终端时样式自动退化为纯文本。
		title: lipgloss.NewRenderer(info).NewStyle().Bold(true),
	}
}

func (c *console) banner() {
	fmt.Fprint(c.info, "\n\n")
	fmt.Fprintln(c.info, c.title.Render(strings.ToUpper(programTitle)+"  -  "+programVersion))
	fmt.Fprintln(c.info, programDescription)
	fmt.Fprintln(c.info, "Generating docs...")
}

func (c *console) watching(dir string) {
	fmt.Fprintf(c.info, "Watching %s for changes (Ctrl+C to stop)...\n", dir)
}

func (c *console) result(res run.Result) {
	switch {
	case c.json:
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res.Report)
	case c.dryRun:
		fmt.Fprint(c.out, renderForTerminal(c.out, res.Document))
	default:
		fmt.Fprintln(c.info, "SUCCESS: ")
		fmt.Fprintln(c.info, res.Report.Output)
		if res.Report.Preview != "" {
			fmt.Fprintln(c.info, res.Report.Preview)
		}
	}
}

// renderForTerminal 在交互终端上用 glamour 排版 markdown；管道/文件输出保持原文，便于重定向。
func renderForTerminal(w io.Writer, doc string) string {
	f, ok := w.(*os.File)
	if !ok || !isTTY(f) {
		return doc
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return doc
	}
	out, err := r.Render(doc)
	if err != nil {
		return doc
	}
	return out
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
