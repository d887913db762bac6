package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/Sriram-PR/sitemap-checker/pkg/config"
	"github.com/Sriram-PR/sitemap-checker/pkg/input"
	applog "github.com/Sriram-PR/sitemap-checker/pkg/log"
	"github.com/Sriram-PR/sitemap-checker/pkg/orchestrate"
	"github.com/Sriram-PR/sitemap-checker/pkg/parse"
	"github.com/Sriram-PR/sitemap-checker/pkg/report"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		runCheck(nil)
		return
	}

	switch os.Args[1] {
	case "check":
		runCheck(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "mcp-server":
		runMcpServer(os.Args[2:])
	case "version":
		fmt.Printf("sitemap-checker %s\n", version)
	case "-h", "--help", "help":
		printUsage()
	default:
		// Flags without a subcommand belong to check
		if len(os.Args[1]) > 0 && os.Args[1][0] == '-' {
			runCheck(os.Args[1:])
			return
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	printUsageTo(os.Stdout)
}

// printUsageTo writes usage information to the provided writer.
func printUsageTo(w io.Writer) {
	fmt.Fprintln(w, `sitemap-checker - Sitemap page reachability checker

Usage:
  sitemap-checker [command] [options]

Commands:
  check       Check every sitemap page once and report failures (default)
  watch       Re-run the check on a schedule
  validate    Validate configuration and input file
  mcp-server  Start MCP server for AI tool integration
  version     Show version info

Run 'sitemap-checker <command> -h' for command-specific help.`)
}

// loadConfig loads and parses the config file
func loadConfig(path string) (*config.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg config.AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// runOptions holds the flags shared by check and watch
type runOptions struct {
	ConfigPath string
	InputFile  string
	LogLevel   string
	Insecure   *bool // nil keeps the config file value
	Timeout    time.Duration
	PprofAddr  string
}

// addRunFlags registers the shared flags on fs. Call resolve after fs.Parse.
func addRunFlags(fs *flag.FlagSet) (opts *runOptions, resolve func()) {
	opts = &runOptions{}
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to YAML config file (optional)")
	fs.StringVar(&opts.InputFile, "input", "", fmt.Sprintf("Website list file (default %q)", config.DefaultInputFile))
	fs.StringVar(&opts.LogLevel, "loglevel", "info", "Log level (debug, info, warn, error)")
	insecure := fs.Bool("insecure", true, "Skip TLS certificate verification")
	fs.DurationVar(&opts.Timeout, "timeout", 0, fmt.Sprintf("Per-request timeout (default %v)", config.DefaultRequestTimeout))
	fs.StringVar(&opts.PprofAddr, "pprof", "", "pprof address, e.g. localhost:6060 (disabled by default)")

	return opts, func() {
		fs.Visit(func(f *flag.Flag) {
			if f.Name == "insecure" {
				opts.Insecure = insecure
			}
		})
	}
}

// buildConfig loads the optional config file, applies flag overrides and validates.
func buildConfig(opts *runOptions, log *logrus.Logger) (*config.AppConfig, error) {
	appCfg := &config.AppConfig{}
	if opts.ConfigPath != "" {
		log.Infof("Loading configuration from %s", opts.ConfigPath)
		loaded, err := loadConfig(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		appCfg = loaded
	}

	if opts.InputFile != "" {
		appCfg.InputFile = opts.InputFile
	}
	if opts.Insecure != nil {
		skip := *opts.Insecure
		appCfg.HTTPClientSettings.InsecureSkipVerify = &skip
	}
	if opts.Timeout > 0 {
		appCfg.HTTPClientSettings.Timeout = opts.Timeout
	}

	warnings, err := appCfg.Validate()
	for _, w := range warnings {
		log.Warn(w)
	}
	if err != nil {
		return nil, err
	}
	return appCfg, nil
}

// signalContext cancels on SIGINT/SIGTERM. A second signal kills the process.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}

// runCheck handles the check subcommand
func runCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	opts, resolve := addRunFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sitemap-checker check [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	resolve()

	ctx, stop := signalContext()
	defer stop()

	exitCode := doCheck(ctx, opts, os.Stdout, os.Stderr)
	stop()
	os.Exit(exitCode)
}

// doCheck runs one pass over the input file and reports inaccessible pages.
// Returns exit code: 0 whether or not pages were inaccessible, 1 on a fatal error.
func doCheck(ctx context.Context, opts *runOptions, stdout, stderr io.Writer) int {
	log := applog.NewLogger(stdout, opts.LogLevel)

	appCfg, err := buildConfig(opts, log)
	if err != nil {
		fmt.Fprintf(stderr, "Config error: %v\n", err)
		return 1
	}
	logAppConfig(appCfg, log)
	startPprof(opts.PprofAddr, log)

	websites, err := input.LoadWebsites(appCfg.InputFile)
	if err != nil {
		log.Errorf("Cannot read website list: %v", err)
		return 1
	}

	orch := orchestrate.NewOrchestrator(appCfg, log, nil)
	rep, err := orch.Run(ctx, websites)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("Check cancelled.")
			return 0
		}
		log.Errorf("Check finished with error: %v", err)
		return 1
	}

	found, missing := report.Summary(rep)
	log.Infof("Sitemaps: %d found, %d missing", found, missing)
	report.Write(log, rep)
	return 0
}

// runValidate handles the validate subcommand
func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configFile := fs.String("config", "", "Path to YAML config file (optional)")
	inputFile := fs.String("input", "", "Website list file (overrides config)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sitemap-checker validate [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	exitCode := doValidate(*configFile, *inputFile, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// doValidate validates config and input file and writes output to provided writers.
// Returns exit code (0 = success, 1 = error).
func doValidate(configPath, inputPath string, stdout, stderr io.Writer) int {
	appCfg := &config.AppConfig{}
	if configPath != "" {
		loaded, err := loadConfig(configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		appCfg = loaded
	}
	if inputPath != "" {
		appCfg.InputFile = inputPath
	}

	warnings, err := appCfg.Validate()
	for _, w := range warnings {
		fmt.Fprintf(stdout, "WARN: %s\n", w)
	}
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}

	websites, err := input.LoadWebsites(appCfg.InputFile)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	for _, w := range websites {
		if _, err := parse.WebsiteKey(w); err != nil {
			fmt.Fprintf(stdout, "WARN: '%s' is not an absolute http(s) URL\n", w)
		}
	}
	for _, w := range parse.DuplicateWebsites(websites) {
		fmt.Fprintf(stdout, "WARN: '%s' is listed more than once and will be checked again\n", w)
	}

	fmt.Fprintf(stdout, "OK: %d websites in %s\n", len(websites), appCfg.InputFile)
	fmt.Fprintln(stdout, "Configuration valid")
	return 0
}

// startPprof starts the pprof HTTP server if addr is non-empty.
func startPprof(addr string, log *logrus.Logger) {
	if addr != "" {
		runtime.SetBlockProfileRate(1000)
		runtime.SetMutexProfileFraction(1000)
		go func() {
			log.Infof("Starting pprof server at http://%s/debug/pprof/", addr)
			if err := http.ListenAndServe(addr, nil); err != nil {
				log.Errorf("pprof server error: %v", err)
			}
		}()
	}
}

// logAppConfig logs the effective configuration
func logAppConfig(appCfg *config.AppConfig, log *logrus.Logger) {
	h := appCfg.HTTPClientSettings
	log.Infof("Config: Input:%s, SitemapPath:%s, MaxSitemapBytes:%d",
		appCfg.InputFile, appCfg.SitemapPath, appCfg.MaxSitemapBytes)
	log.Infof("Config HTTP Client: Timeout:%v, MaxIdle:%d, MaxIdlePerHost:%d, IdleTimeout:%v, TLSTimeout:%v, DialerTimeout:%v",
		h.Timeout, h.MaxIdleConns, h.MaxIdleConnsPerHost, h.IdleConnTimeout, h.TLSHandshakeTimeout, h.DialerTimeout)
	log.Infof("Config HTTP Client: MaxRedirects:%d, InsecureSkipVerify:%t",
		h.MaxRedirects, config.GetEffectiveInsecureSkipVerify(h))
}
