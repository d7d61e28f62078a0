/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"scriptpress/internal/config"
	"scriptpress/internal/crash"
	"scriptpress/internal/export"
	applog "scriptpress/internal/log"
	"scriptpress/internal/paginate"
	"scriptpress/internal/profile"
	"scriptpress/internal/screenplay"
	"scriptpress/internal/script"
	"scriptpress/internal/storage"
	"scriptpress/internal/version"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "ScriptPress: screenplay typesetting")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  scriptpress version|-v|--version            Show version")
	fmt.Fprintln(w, "  scriptpress export [flags] <in> [<out>]      Render a script (.fountain or tokens .json) to pdf, html or csv")
	fmt.Fprintln(w, "  scriptpress pages [flags] <in>               Print the page breakdown of a script")
	fmt.Fprintln(w, "  scriptpress tokens <in>                      Print the token stream of a script as JSON")
	fmt.Fprintln(w, "  scriptpress profiles                         List builtin print profiles")
	fmt.Fprintln(w, "  scriptpress history [-n N]                   Show recent exports")
}

// usageError makes run exit with code 2.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	info := crash.Info{}
	if len(os.Args) > 1 {
		info.Command = strings.Join(os.Args[1:], " ")
	}
	code := 0
	func() {
		defer crash.Recover(info)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		code = run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	}()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	l := applog.WithComponent("cli")
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	var err error
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(stdout, "ScriptPress")
		fmt.Fprintln(stdout, version.String())
		return 0
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	case "export":
		err = cmdExport(ctx, args[1:], stdout, stderr)
	case "pages":
		err = cmdPages(args[1:], stdout, stderr)
	case "tokens":
		err = cmdTokens(args[1:], stdout, stderr)
	case "profiles":
		for _, n := range profile.Names() {
			p, _ := profile.ByName(n)
			fmt.Fprintf(stdout, "%-10s %.2fx%.2fin  %d lines/page\n", n, p.PageWidth, p.PageHeight, p.LinesPerPage)
		}
		return 0
	case "history":
		err = cmdHistory(ctx, args[1:], stdout, stderr)
	default:
		err = usageError{fmt.Sprintf("unknown command %q", args[0])}
	}
	if err == nil {
		return 0
	}
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(stderr, ue.msg)
		usage(stderr)
		return 2
	}
	if errors.Is(err, flag.ErrHelp) {
		return 2
	}
	l.Error("command failed", slog.String("cmd", args[0]), slog.Any("err", err))
	fmt.Fprintln(stderr, "Error:", err)
	return 1
}

// common holds the flags shared by the layout commands.
type common struct {
	configPath   string
	profile      string
	lines        int
	sceneNumbers string
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "config file (default: user config)")
	fs.StringVar(&c.profile, "profile", "", "print profile name or YAML file")
	fs.IntVar(&c.lines, "lines", 0, "lines per page override")
	fs.StringVar(&c.sceneNumbers, "scene-numbers", "", "none, left, right or both")
}

// load reads the config and applies command line overrides.
func (c *common) load() (config.AppConfig, profile.Profile, error) {
	var (
		cfg config.AppConfig
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, profile.Profile{}, err
	}
	applog.Init(cfg.Logging.LogOptions())
	if c.profile != "" {
		cfg.Export.Profile = c.profile
	}
	if c.lines > 0 {
		cfg.Export.LinesPerPage = c.lines
	}
	if c.sceneNumbers != "" {
		cfg.Screenplay.PrintSceneNumbers = screenplay.SceneNumbers(strings.ToLower(c.sceneNumbers))
		if err := cfg.Validate(); err != nil {
			return cfg, profile.Profile{}, usageError{err.Error()}
		}
	}
	prof, err := cfg.Export.LoadProfile()
	return cfg, prof, err
}

func readScript(path string, stderr io.Writer) ([]screenplay.Token, error) {
	toks, perrs, err := script.ReadFile(path)
	if err != nil {
		return nil, err
	}
	for _, e := range perrs {
		fmt.Fprintf(stderr, "warning: %s:%s\n", filepath.Base(path), e.String())
	}
	return toks, nil
}

func openHistory(cfg config.AppConfig) (*storage.History, error) {
	dir, err := cfg.Storage.HistoryDir()
	if err != nil || dir == "" {
		return nil, err
	}
	return storage.OpenHistory(dir)
}

func cmdExport(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	format := fs.String("format", "", "pdf, html or csv; comma separated for several")
	preset := fs.String("preset", "", "print, web or data; writes into <out>/<preset>/")
	noHistory := fs.Bool("no-history", false, "do not record the export")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return usageError{"export requires <in> and an optional <out>"}
	}
	in := fs.Arg(0)
	cfg, prof, err := c.load()
	if err != nil {
		return err
	}
	ctx = applog.ContextWithDocument(ctx, in)
	toks, err := readScript(in, stderr)
	if err != nil {
		return err
	}

	var hist *storage.History
	if !*noHistory {
		if hist, err = openHistory(cfg); err != nil {
			// history is informational
			applog.WithComponent("cli").Warn("export history unavailable", slog.Any("err", err))
		}
	}
	if hist != nil {
		defer func() {
			if cfg.Storage.HistoryKeep > 0 {
				_, _ = hist.Prune(context.WithoutCancel(ctx), cfg.Storage.HistoryKeep)
			}
			_ = hist.Close()
		}()
	}
	var rec export.Recorder
	if hist != nil {
		rec = hist
	}
	var font *export.Font
	if path := cfg.Export.Font; path != "" {
		if font, err = export.LoadFont(path); err != nil {
			return err
		}
	}

	presetName := *preset
	if presetName == "" {
		presetName = cfg.Export.Preset
	}
	if presetName != "" || strings.Contains(*format, ",") {
		outDir := cfg.Export.OutDir
		if fs.NArg() == 2 {
			outDir = fs.Arg(1)
		}
		if outDir == "" {
			outDir = "."
		}
		var formats []string
		if *format != "" {
			formats = strings.Split(*format, ",")
		}
		paths, err := export.BatchExport(ctx, in, toks, export.BatchOptions{
			Preset:  export.PresetName(strings.ToLower(presetName)),
			Formats: formats,
			OutDir:  outDir,
			Config:  cfg.Screenplay,
			Profile: prof,
			History: rec,
			Font:    font,
		})
		for _, p := range paths {
			fmt.Fprintln(stdout, "Wrote", p)
		}
		return err
	}

	out := ""
	if fs.NArg() == 2 {
		out = fs.Arg(1)
	}
	f, err := resolveFormat(*format, out, cfg.Export.Format)
	if err != nil {
		return usageError{err.Error()}
	}
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		out = filepath.Join(cfg.Export.OutDir, base+"."+string(f))
	}
	r, err := export.NewRenderer(f)
	if err != nil {
		return err
	}
	job := export.NewJob(export.WithFont(r, font), cfg.Screenplay, prof)
	job.History = rec
	job.Log = applog.WithDocument(applog.WithComponent("export"), in)
	res, err := job.RunFile(ctx, in, toks, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s (%d pages)\n", out, res.Pages)
	return nil
}

// resolveFormat picks the explicit format, else the output extension, else
// the configured default.
func resolveFormat(flagVal, out, def string) (export.Format, error) {
	if flagVal != "" {
		return export.ParseFormat(flagVal)
	}
	if out != "" {
		if f, ok := export.FormatForPath(out); ok {
			return f, nil
		}
	}
	if def == "" {
		def = string(export.FormatPDF)
	}
	return export.ParseFormat(def)
}

func cmdPages(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pages", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageError{"pages requires <in>"}
	}
	cfg, prof, err := c.load()
	if err != nil {
		return err
	}
	toks, err := readScript(fs.Arg(0), stderr)
	if err != nil {
		return err
	}
	job := export.NewJob(nil, cfg.Screenplay, prof)
	spans, err := job.Layout(context.Background(), toks)
	if err != nil {
		return err
	}
	pages, meta := paginate.Paginate(spans)
	if meta != nil && cfg.Screenplay.PrintTitlePage && meta.HasTitlePage() {
		fmt.Fprintln(stdout, "title page")
	}
	for _, pg := range pages {
		first := ""
		for _, s := range pg.Spans {
			if ln, ok := s.(screenplay.Line); ok && ln.Tag != screenplay.TagSeparator {
				first = ln.Text()
				break
			}
		}
		fmt.Fprintf(stdout, "page %d: %d lines  %s\n", pg.Number, pg.Lines(), first)
	}
	fmt.Fprintf(stdout, "%d pages (%s, %d lines per page)\n", len(pages), prof.Name, prof.LinesPerPage)
	return nil
}

func cmdTokens(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		return usageError{"tokens requires <in>"}
	}
	toks, err := readScript(args[0], stderr)
	if err != nil {
		return err
	}
	return script.WriteTokens(stdout, toks)
}

func cmdHistory(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (default: user config)")
	n := fs.Int("n", 20, "number of entries")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c := common{configPath: *configPath}
	cfg, _, err := c.load()
	if err != nil {
		return err
	}
	hist, err := openHistory(cfg)
	if err != nil {
		return err
	}
	if hist == nil {
		fmt.Fprintln(stdout, "export history is disabled")
		return nil
	}
	defer hist.Close()
	recs, err := hist.ListExports(ctx, *n)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(stdout, "no exports recorded")
		return nil
	}
	for _, r := range recs {
		line := fmt.Sprintf("%s  %-8s %-4s %-10s %3d pages  %s -> %s",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Status, r.Format, r.Profile, r.Pages, r.Source, r.Output)
		if r.Error != "" {
			line += "  (" + r.Error + ")"
		}
		fmt.Fprintln(stdout, line)
	}
	return nil
}
