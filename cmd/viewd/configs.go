package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/viewd/config"
	"github.com/signadot/viewd/encode"
	"github.com/signadot/viewd/view"
)

// defaultDB is the store used when neither a configuration file nor
// -store is given.
const defaultDB = "viewd.db"

type MainConfig struct {
	ConfigFile string `cli:"name=config desc='configuration file (yaml)'"`
	StoreKind  string `cli:"name=store desc='store kind: mem, sqlite or yaml'"`
	StorePath  string `cli:"name=storePath desc='store database or file'"`
	Scope      string `cli:"name=scope desc='store path views are written under'"`

	Color bool `cli:"name=color desc='output with color'"`
	J     bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y     bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

// config loads the configuration file, if any, and applies the command
// line overrides.
func (cfg *MainConfig) config() (*config.Config, error) {
	c := config.DefaultConfig()
	if cfg.ConfigFile != "" {
		var err error
		c, err = config.LoadConfig(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
	} else {
		c.Store = &config.StoreConfig{Kind: config.KindSQLite, Path: defaultDB}
	}
	if cfg.StoreKind != "" {
		c.Store = &config.StoreConfig{Kind: cfg.StoreKind}
	}
	if cfg.StorePath != "" {
		c.Store.Path = cfg.StorePath
	}
	if cfg.Scope != "" {
		c.Scope = cfg.Scope
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return c, nil
}

// composer opens the configured store.  The returned function closes it.
func (cfg *MainConfig) composer() (*view.Composer, func() error, error) {
	c, err := cfg.config()
	if err != nil {
		return nil, nil, err
	}
	st, closer, err := c.OpenStore()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return &view.Composer{Store: st, Scope: c.Scope, Log: theLog}, closer, nil
}

func (cfg *MainConfig) format(def encode.Format) encode.Format {
	switch {
	case cfg.J:
		return encode.JSONFormat
	case cfg.Y:
		return encode.YAMLFormat
	}
	return def
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.format(encode.YAMLFormat)),
	}
	if colors := cfg.colors(w); colors != nil {
		res = append(res, encode.EncodeColors(colors))
	}
	return res
}

// colors returns the output colors: those asked for by -color, or, if
// -color is not given, colors when w is a terminal.
func (cfg *MainConfig) colors(w io.Writer) *encode.Colors {
	if cfg.Color {
		return encode.NewColors()
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return nil
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return encode.NewColors()
	}
	return nil
}

// readInput decodes a file, or stdin for "-".  The format follows -j/-y,
// else the file extension.
func (cfg *MainConfig) readInput(cc *cli.Context, file string) (any, error) {
	var r io.Reader = cc.In
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("could not open %q: %w", file, err)
		}
		defer f.Close()
		r = f
	}
	v, err := encode.DecodeReader(r, cfg.format(encode.FormatOf(file)))
	if err != nil {
		return nil, fmt.Errorf("error processing %s: %w", file, err)
	}
	return v, nil
}

func (cfg *MainConfig) write(w io.Writer, vs ...any) error {
	opts := cfg.encOpts(w)
	for i, v := range vs {
		if i > 0 && !cfg.format(encode.YAMLFormat).IsJSON() {
			io.WriteString(w, "---\n")
		}
		if err := encode.Encode(v, w, opts...); err != nil {
			return err
		}
	}
	return nil
}

// viewName derives a view name from a description file name.
func viewName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

type CreateConfig struct {
	*MainConfig
	Name string `cli:"name=n desc='view name (default: file base name)'"`
	Diff bool   `cli:"name=diff desc='show changes to the stored views'"`

	Create *cli.Command
}

type FetchConfig struct {
	*MainConfig
	Fields string `cli:"name=fields desc='comma separated fields to keep'"`
	Alias  string `cli:"name=alias desc='wrap the result under this field'"`

	Fetch *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type ValidateConfig struct {
	*MainConfig

	Validate *cli.Command
}

type CompileConfig struct {
	*MainConfig
	Results string `cli:"name=r desc='file holding the result sets of the earlier queries'"`

	Compile *cli.Command
}

type ImportConfig struct {
	*MainConfig
	At string `cli:"name=at desc='store path to import at (default: the root)'"`

	Import *cli.Command
}

type ServeConfig struct {
	*MainConfig
	Listen string `cli:"name=listen desc='HTTP listen address'"`
	Gops   bool   `cli:"name=gops desc='start a gops agent'"`

	Serve *cli.Command
}

// splitFields parses the -fields option.
func splitFields(s string) []string {
	if s == "" {
		return nil
	}
	var res []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			res = append(res, f)
		}
	}
	return res
}
