package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/funvibe/tasklike/internal/manifest"
	"github.com/funvibe/tasklike/internal/overload"
	"github.com/funvibe/tasklike/internal/tasklike"
	"github.com/funvibe/tasklike/internal/typesystem"
)

const (
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorReset = "\033[0m"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tasklike", flag.ContinueOnError)
	fs.SetOutput(stderr)
	manifestPath := fs.String("manifest", "", "tasklike declaration manifest (YAML)")
	scenarioPath := fs.String("scenario", "", "invocation scenario (YAML)")
	verbose := fs.Bool("v", false, "enable phase tracing")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *manifestPath == "" || *scenarioPath == "" {
		fmt.Fprintln(stderr, "usage: tasklike -manifest <file> -scenario <file> [-v]")
		return 2
	}

	log := logrus.New()
	log.SetOutput(stderr)
	log.SetLevel(logrus.WarnLevel)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	reg, err := loadManifest(*manifestPath)
	if err != nil {
		fmt.Fprintf(stderr, "%s%v%s\n", color(colorRed), err, color(colorReset))
		return 1
	}

	call, err := loadScenario(*scenarioPath)
	if err != nil {
		fmt.Fprintf(stderr, "%s%v%s\n", color(colorRed), err, color(colorReset))
		return 1
	}

	oracle := typesystem.NewOracle()
	resolver := overload.NewResolver(reg, oracle, log)

	res, err := resolver.Resolve(context.Background(), *call)
	if err != nil {
		fmt.Fprintf(stderr, "%s%v%s\n", color(colorRed), err, color(colorReset))
		return 1
	}

	fmt.Fprintf(stdout, "%sresolved%s %s -> %s\n", color(colorGreen), color(colorReset), call.Name, res.Winner.Name)
	for i, p := range res.Fixed {
		fmt.Fprintf(stdout, "  param %d: %s\n", i+1, p)
	}
	for _, name := range sortedKeys(res.TypeArgs) {
		fmt.Fprintf(stdout, "  %s = %s\n", name, res.TypeArgs[name])
	}
	return 0
}

func loadManifest(path string) (*tasklike.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return manifest.Load(f)
}

func loadScenario(path string) (*overload.Call, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return manifest.LoadScenario(f)
}

func sortedKeys(s typesystem.Subst) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func color(code string) string {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return code
	}
	return ""
}
