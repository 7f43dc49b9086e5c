package cli

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/litweb/cli/cmd"
	"github.com/ardnew/litweb/pkg"
	"github.com/ardnew/litweb/web"
)

// CLI is the top-level command-line interface for litweb.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Init cmd.Init `cmd:"" help:"Write the current flags to the configuration file"`
	List cmd.List `cmd:"" help:"List chunks and streams"`

	Run cmd.Run `cmd:"" default:"withargs" help:"Expand chunks and streams and execute requests"`
}

// Run executes the litweb CLI with the given arguments, reading and writing
// the process's standard files.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return RunStreams(ctx, nil, nil, nil, exit, args...)
}

// RunStreams is like [Run] with explicit standard files. Nil streams fall back
// to the process's standard files.
func RunStreams(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":              pkg.Version,
		cmd.ConfigIdentifier:   configFilePath + ".yaml",
		cmd.CacheIdentifier:    pkg.CacheDir(),
		cmd.MarkerIdentifier:   web.DefaultMarker,
		cmd.MaxDepthIdentifier: strconv.Itoa(web.DefaultMaxDepth),
		cmd.PathEnvIdentifier:  pkg.PathEnv,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags apply before parsing so that parse errors honor them.
	cli.Log.scan(args)

	opts := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve, configFilePath+".yaml"),
		vars,
	}

	if stdout != nil || stderr != nil {
		opts = append(opts, kong.Writers(orFile(stdout, os.Stdout), orFile(stderr, os.Stderr)))
	}

	parser, err := kong.New(&cli, opts...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithStreams(ctx, stdin, stdout, stderr)

	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is a no-op unless built with tag pprof.
	defer cli.Pprof.start(ctx)()

	return ktx.Run()
}

func orFile(w io.Writer, f *os.File) io.Writer {
	if w == nil {
		return f
	}

	return w
}
