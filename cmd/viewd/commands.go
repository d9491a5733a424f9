package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "viewd").
		WithSynopsis("viewd [opts] command [opts]").
		WithDescription("viewd composes views from queries on a hierarchical store.\n" +
			"Without -config or -store, the store is the sqlite database " + defaultDB + ".").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return viewdMain(cfg, cc, args)
		}).
		WithSubs(
			CreateCommand(cfg),
			FetchCommand(cfg),
			GetCommand(cfg),
			ValidateCommand(cfg),
			CompileCommand(cfg),
			ImportCommand(cfg),
			ServeCommand(cfg))
}

func CreateCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CreateConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Create, "create").
		WithAliases("c").
		WithSynopsis("create [-n name] [-diff] files").
		WithDescription("create views from description files, several files are composed concurrently").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return create(cfg, cc, args)
		})
}

func FetchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FetchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Fetch, "fetch").
		WithAliases("f").
		WithSynopsis("fetch [-fields f1,f2] [-alias a] <path>").
		WithDescription("run a single query on the store").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return fetch(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get <name>").
		WithDescription("print a stored view").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func ValidateCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ValidateConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Validate, "validate").
		WithAliases("v").
		WithSynopsis("validate files").
		WithDescription("check description files").
		WithRun(func(cc *cli.Context, args []string) error {
			return validate(cfg, cc, args)
		})
}

func CompileCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CompileConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Compile, "compile").
		WithSynopsis("compile -r results file").
		WithDescription("resolve the cross references of a description against given result sets").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return compile(cfg, cc, args)
		})
}

func ImportCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ImportConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Import, "import").
		WithSynopsis("import [-at path] file").
		WithDescription("replace the store content at a path with the content of a file").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return importDump(cfg, cc, args)
		})
}

func ServeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ServeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Serve, "serve").
		WithSynopsis("serve [-listen addr] [-gops]").
		WithDescription("run the viewd HTTP server").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return serve(cfg, cc, args)
		})
}
