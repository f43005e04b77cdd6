package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/John-Robertt/shaderdocs/internal/app/run"
	"github.com/John-Robertt/shaderdocs/internal/config"
	"github.com/John-Robertt/shaderdocs/internal/watch"
)

const (
	programTitle       = "Redshift OSL Shaders - Docs Generator"
	programVersion     = "0.1.0"
	programDescription = "Generates README.md documentation for https://github.com/redshift3d/RedshiftOSLShaders"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// usageError 标记参数错误（退出码 2），其余错误退出码 1。
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// exitError 表示错误信息已经输出过，只需要决定退出码。
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit %d", e.code) }

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "参数错误：%v\n\n", ue.err)
		_ = root.Usage()
		return exitUsage
	}
	fmt.Fprintf(stderr, "%v\n", err)
	return exitFail
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var rf runFlags

	root := &cobra.Command{
		Use:   "gendocs [dir]",
		Short: programTitle,
		Long: programDescription + `

The directory (default: current directory) is scanned non-recursively for
  <Identifier>.osl                shader source
  <Identifier>.{png,jpg}          screenshot
  <Identifier>_Example*.{png,jpg} example image
  <Identifier>_Example*.zip       example project
Files are grouped by Identifier and listed after the header in README.md.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return &usageError{err: fmt.Errorf("最多只能指定一个目录，实际 %d 个", len(args))}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				rf.path = args[0]
			}
			rf.headerSet = cmd.Flags().Changed(flagHeader)
			rf.htmlSet = cmd.Flags().Changed(flagHTML)
			return runGenerate(cmd.Context(), rf, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	bindRunFlags(root.Flags(), &rf)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "%s %s\n", programTitle, programVersion)
		},
	})
	return root
}

func runGenerate(ctx context.Context, rf runFlags, stdout, stderr io.Writer) error {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "读取当前目录失败：%v\n", err)
		return &exitError{code: exitFail}
	}

	progDir, err := config.ProgramDir()
	if err != nil {
		// 无法定位可执行文件时退化为扫描目录（--header 或配置文件仍可覆盖）。
		progDir = ""
	}

	eff, err := config.LoadEffective(cwd, rf.cliArgs(progDir))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return &exitError{code: exitFail}
	}

	log := newLogger(rf.verbose, stderr)
	defer func() { _ = log.Sync() }()

	con := newConsole(stdout, stderr, rf.json, eff.DryRun)
	con.banner()

	obs := newLogObserver(log)
	res, err := run.ExecuteWithObserver(ctx, eff, obs)
	if err != nil {
		log.Error("生成失败", zap.String("error_code", run.Code(err)), zap.Error(err))
		fmt.Fprintf(stderr, "%v\n", err)
		if !eff.Watch {
			return &exitError{code: exitFail}
		}
	} else {
		con.result(res)
	}

	if !eff.Watch {
		return nil
	}

	w, err := watch.New(eff.Path, eff.HeaderPath, eff.Debounce, log)
	if err != nil {
		fmt.Fprintf(stderr, "启动监听失败：%v\n", err)
		return &exitError{code: exitFail}
	}
	defer w.Close()

	con.watching(eff.Path)
	return w.Run(ctx, func(ctx context.Context) error {
		res, err := run.ExecuteWithObserver(ctx, eff, obs)
		if err != nil {
			return err
		}
		con.result(res)
		return nil
	})
}
