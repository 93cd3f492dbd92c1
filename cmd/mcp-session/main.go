// Command mcp-session opens a session to an MCP server and runs one
// operation: tools, bmi, fetch, chart, call or prompt.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/FreePeak/golang-mcp-session-client/internal/builder"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/config"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/logging"
	"github.com/FreePeak/golang-mcp-session-client/internal/usecases/session"
)

const usage = `Usage: mcp-session [-config file] <command> [flags]

Commands:
  tools                               list the server's tools
  bmi -weight KG -height CM           calculate BMI
  fetch -url URL [-method M] [-body JSON]
  chart [-file spec.json]             render a chart spec (stdin when no file)
  call -name TOOL [-args JSON]        call any tool
  prompt -name NAME [-args JSON]      render a prompt
`

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cfg := config.Default()
	if path, err := config.FindConfig(*configPath); err == nil {
		loaded, err := config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", path, err)
			os.Exit(1)
		}
		cfg = loaded
	} else if *configPath != "" {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Config{
		Level:       logging.ParseLevel(cfg.Logging.Level),
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, flag.Args(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logging.Logger, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	sess, err := builder.SessionFromConfig(cfg).WithLogger(logger).Build()
	if err != nil {
		return err
	}
	defer sess.Close()

	result, err := dispatch(ctx, sess, args[0], args[1:], stdin)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func dispatch(ctx context.Context, sess *session.Session, command string, args []string, stdin io.Reader) (interface{}, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)

	switch command {
	case "tools":
		if err := sess.Connect(ctx); err != nil {
			return nil, err
		}
		return sess.Tools(), nil

	case "bmi":
		weight := fs.Float64("weight", 0, "Weight in kilograms")
		height := fs.Float64("height", 0, "Height in centimeters")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return sess.CalculateBMI(ctx, *weight, *height)

	case "fetch":
		url := fs.String("url", "", "URL to fetch")
		method := fs.String("method", "GET", "GET or POST")
		body := fs.String("body", "", "JSON object sent with POST")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		var payload map[string]interface{}
		if *body != "" {
			if err := json.Unmarshal([]byte(*body), &payload); err != nil {
				return nil, errors.Wrap(err, "invalid -body")
			}
		}
		return sess.FetchJSON(ctx, *url, *method, payload)

	case "chart":
		file := fs.String("file", "", "Chart spec JSON file")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		var r io.Reader = stdin
		if *file != "" {
			f, err := os.Open(*file)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		var spec domain.ChartSpec
		if err := json.NewDecoder(r).Decode(&spec); err != nil {
			return nil, errors.Wrap(err, "invalid chart spec")
		}
		return sess.GenerateChart(ctx, spec)

	case "call", "prompt":
		name := fs.String("name", "", "Tool or prompt name")
		raw := fs.String("args", "", "JSON object of arguments")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		var toolArgs map[string]interface{}
		if *raw != "" {
			if err := json.Unmarshal([]byte(*raw), &toolArgs); err != nil {
				return nil, errors.Wrap(err, "invalid -args")
			}
		}
		if command == "prompt" {
			return sess.GetPrompt(ctx, *name, toolArgs)
		}
		return sess.CallTool(ctx, *name, toolArgs)

	default:
		return nil, errors.Errorf("unknown command %q\n\n%s", command, usage)
	}
}
