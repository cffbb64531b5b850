package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/coreos/pkg/capnslog"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/typelang/ast"
	"github.com/pontaoski/typelang/config"
	"github.com/pontaoski/typelang/reader"
	"github.com/pontaoski/typelang/repl"
	"github.com/pontaoski/typelang/session"
	"github.com/pontaoski/typelang/typeinfo"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/typelang", "main")

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = strings.ToUpper(lvl)
	}

	level, err := cfg.Level()
	if err != nil {
		return cfg, err
	}
	capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, level >= capnslog.DEBUG))
	capnslog.SetGlobalLogLevel(level)

	return cfg, nil
}

func newSession(cfg config.Config) (*session.Session, error) {
	s := session.New(reader.New(cfg.Root))
	if err := s.Prelude(cfg.Prelude); err != nil {
		return nil, err
	}
	plog.Debugf("session %s ready with %d globals", s.ID, len(s.Globals()))
	return s, nil
}

// syntaxError prints a parse failure the way a user wants to see it and
// turns it into an exit code.
func syntaxError(err error) error {
	return cli.Exit(fmt.Sprintf("Error: %s", tracerr.Unwrap(err)), 1)
}

func startRepl(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	return repl.Start(s, cfg.Prompt, os.Stdin, os.Stdout)
}

func main() {
	app := &cli.App{
		Name:  "typelang",
		Usage: "statically typed scheme-like language",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: config.FileName,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "one of CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG, TRACE",
			},
		},
		ExitErrHandler: func(context *cli.Context, err error) {
			if err == nil {
				return
			}
			if exit, ok := err.(cli.ExitCoder); ok {
				cli.HandleExitCoder(exit)
				return
			}
			tracerr.PrintSourceColor(err)
			os.Exit(1)
		},
		Action: startRepl,
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "write a default config into the current directory",
				Action: func(c *cli.Context) error {
					path := c.String("config")
					if _, err := os.Stat(path); err == nil {
						return cli.Exit(fmt.Sprintf("%s already exists", path), 1)
					}

					cfg := config.Default()
					if root := c.Args().First(); root != "" {
						cfg.Root = root
					}
					return cfg.Save(path)
				},
			},
			{
				Name:   "repl",
				Usage:  "start an interactive session",
				Action: startRepl,
			},
			{
				Name:  "run",
				Usage: "check and run a file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dump",
						Value: false,
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					s, err := newSession(cfg)
					if err != nil {
						return err
					}

					prog, err := reader.New(cfg.Root).ReadFile(c.Args().First())
					if err != nil {
						return syntaxError(err)
					}
					if c.Bool("dump") {
						repr.Println(prog)
					}

					res := s.Execute(prog)
					fmt.Println(res)
					if res.Failed() {
						return cli.Exit("", 1)
					}
					return nil
				},
			},
			{
				Name:  "check",
				Usage: "type check a file without running it",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dump",
						Value: false,
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					s, err := newSession(cfg)
					if err != nil {
						return err
					}

					prog, err := reader.New(cfg.Root).ReadFile(c.Args().First())
					if err != nil {
						return syntaxError(err)
					}
					if c.Bool("dump") {
						repr.Println(prog)
					}

					t := s.Check(prog)
					if ast.IsError(t) {
						return cli.Exit("Type error: "+ast.TypeString(t), 1)
					}
					fmt.Println(ast.TypeString(t))
					return nil
				},
			},
			{
				Name:  "build",
				Usage: "check a file and write its declared types as LLVM IR",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name: "output",
					},
					&cli.BoolFlag{
						Name:  "dump",
						Value: false,
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					s, err := newSession(cfg)
					if err != nil {
						return err
					}

					file := c.Args().First()
					r := reader.New(cfg.Root)
					prog, err := r.ReadFile(file)
					if err != nil {
						return syntaxError(err)
					}

					t := s.Check(prog)
					if ast.IsError(t) {
						return cli.Exit("Type error: "+ast.TypeString(t), 1)
					}

					module, err := typeinfo.FromProgram(prog, t).Module(r.Resolve(file))
					if err != nil {
						return err
					}

					if c.Bool("dump") {
						fmt.Println(module)
						return nil
					}

					out := c.String("output")
					if out == "" {
						resolved := r.Resolve(file)
						out = strings.TrimSuffix(resolved, filepath.Ext(resolved)) + ".ll"
					}

					err = ioutil.WriteFile(out, []byte(module.String()), 0644)
					if err != nil {
						return tracerr.Wrap(err)
					}
					plog.Infof("wrote %s", out)
					return nil
				},
			},
			{
				Name:  "typeinfo",
				Usage: "dump the type info of a built module",
				Action: func(c *cli.Context) error {
					info, err := typeinfo.Read(c.Args().First())
					if err != nil {
						return err
					}
					repr.Println(info)
					return nil
				},
			},
		},
	}
	app.Run(os.Args)
}
