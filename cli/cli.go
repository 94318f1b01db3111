package cli

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jsonscript/cli/cmd"
	"github.com/ardnew/jsonscript/lang"
	"github.com/ardnew/jsonscript/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

// CLI is the top-level command-line interface for jsonscript.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Execute a script and print its result."`
	Fmt  cmd.Fmt  `cmd:""                    help:"Re-encode a script."`
	Repl cmd.Repl `cmd:""                    help:"Start an interactive shell."`
}

// Run executes the jsonscript CLI with the given context and arguments.
// The exit function is called with the appropriate exit code when kong
// terminates early, such as after printing help.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	vars := kong.Vars{
		cmd.CacheIdentifier:    pkg.CacheDir(),
		cmd.MaxDepthIdentifier: strconv.Itoa(lang.DefaultMaxDepth),
		"version":              pkg.Name + " " + pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	groups := []kong.Group{cli.Log.group()}
	if g := cli.Pprof.group(); g.Key != "" {
		groups = append(groups, g)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	configPath := filepath.Join(pkg.ConfigDir(), baseConfig)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(groups),
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
		kong.Configuration(kong.JSON, configPath+".json"),
		kong.Configuration(loadYAML, configPath+".yaml", configPath+".yml"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	defer cli.Log.start(ctx)()

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
