package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/ytget/convertudo/internal/api"
	"github.com/ytget/convertudo/internal/catalog"
	"github.com/ytget/convertudo/internal/config"
	"github.com/ytget/convertudo/internal/convert"
	"github.com/ytget/convertudo/internal/locale"
	"github.com/ytget/convertudo/internal/model"
	"github.com/ytget/convertudo/internal/platform"
	"github.com/ytget/convertudo/internal/workflow"
)

var version = "dev"

func usage() {
	fmt.Fprintf(os.Stderr, `convertudo v%s
Command-line client for the Convertudo conversion server

Usage:
  convertudo [flags] formats                            List supported conversions
  convertudo [flags] outputs <ext>                      List targets for an extension
  convertudo [flags] convert <file> <target> [dir]      Convert a file and save the result
  convertudo [flags] info    <url>                      Show media metadata for a URL
  convertudo [flags] fetch   <url> [format] [dir]       Download media through the server
  convertudo help                                       Show this help message

Flags:
  -server URL    conversion server (default from convertudo.yaml or %s)
  -config PATH   bootstrap YAML file
  -lang CODE     message language (en, pt, ru)
  -v             verbose output

Examples:
  convertudo formats
  convertudo convert photo.CR2 jpg ./out
  convertudo -server http://10.0.0.5:8000 fetch https://example.com/clip mp3
`, version, config.DefaultServerURL)
}

// options are the global flags shared by every command
type options struct {
	server  string
	lang    string
	verbose bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("convertudo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage
	serverFlag := fs.String("server", "", "conversion server URL")
	configFlag := fs.String("config", config.DefaultFileConfigPath(), "bootstrap YAML file")
	langFlag := fs.String("lang", "", "message language")
	verbose := fs.Bool("v", false, "verbose output")
	if err := fs.Parse(argv); err != nil {
		return 2
	}

	args := fs.Args()
	if len(args) < 1 {
		usage()
		return 1
	}

	fileConfig, err := config.LoadFileConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	opts := resolveOptions(fileConfig, *serverFlag, *langFlag, *verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := strings.ToLower(args[0])
	args = args[1:]
	client := api.NewClient(opts.server, nil)

	switch cmd {
	case "help", "-h", "--help":
		usage()
		return 0
	case "formats":
		err = cmdFormats(ctx, client, stdout)
	case "outputs":
		if len(args) < 1 {
			return missingArgument(stderr, "extension")
		}
		err = cmdOutputs(ctx, client, args[0], stdout)
	case "convert":
		if len(args) < 2 {
			return missingArgument(stderr, "file and target format")
		}
		err = cmdConvert(ctx, client, opts, args[0], args[1], outputDir(args, 2, fileConfig), stdout)
	case "info":
		if len(args) < 1 {
			return missingArgument(stderr, "URL")
		}
		err = cmdInfo(ctx, client, args[0], stdout)
	case "fetch":
		if len(args) < 1 {
			return missingArgument(stderr, "URL")
		}
		format := ""
		if len(args) > 1 {
			format = args[1]
		}
		err = cmdFetch(ctx, client, args[0], format, outputDir(args, 2, fileConfig), stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", cmd)
		usage()
		return 1
	}

	if err != nil {
		var convErr *workflow.ConversionError
		if !errors.As(err, &convErr) {
			// conversion errors were already printed by the view
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func resolveOptions(fc *config.FileConfig, server, lang string, verbose bool) options {
	opts := options{server: server, lang: lang, verbose: verbose}
	if opts.server == "" {
		opts.server = fc.ServerURL
	}
	if opts.server == "" {
		opts.server = config.DefaultServerURL
	}
	if opts.lang == "" {
		opts.lang = fc.Language
	}
	return opts
}

func missingArgument(stderr io.Writer, what string) int {
	fmt.Fprintf(stderr, "Error: %s required\n", what)
	usage()
	return 1
}

func outputDir(args []string, index int, fc *config.FileConfig) string {
	if len(args) > index {
		return args[index]
	}
	if fc.DownloadDir != "" {
		return fc.DownloadDir
	}
	return "."
}

func cmdFormats(ctx context.Context, client *api.Client, stdout io.Writer) error {
	cat, err := client.FetchFormats(ctx)
	if err != nil {
		return err
	}

	for _, name := range cat.Categories() {
		category, _ := cat.Category(name)
		fmt.Fprintf(stdout, "%s %s\n", catalog.IconForCategory(name), name)
		for _, input := range category.Inputs {
			fmt.Fprintf(stdout, "  %-6s -> %s\n", input, strings.Join(category.Outputs[input], ", "))
		}
	}
	return nil
}

func cmdOutputs(ctx context.Context, client *api.Client, ext string, stdout io.Writer) error {
	outputs, err := client.Outputs(ctx, ext)
	if err != nil {
		return err
	}
	sorted := append([]string(nil), outputs...)
	sort.Strings(sorted)
	fmt.Fprintln(stdout, strings.Join(sorted, " "))
	return nil
}

func cmdConvert(ctx context.Context, client *api.Client, opts options, path, target, dir string, stdout io.Writer) error {
	file, err := model.NewSelectedFileFromPath(path)
	if err != nil {
		return err
	}

	service, err := convert.NewService(client, client, "")
	if err != nil {
		return err
	}
	defer service.Close()

	localization := locale.NewLocalization()
	localization.SetLanguage(opts.lang)

	view := &consoleView{out: stdout, verbose: opts.verbose}
	ctrl := workflow.NewController(client, service, view, localization)
	defer ctrl.Close()

	if err := ctrl.LoadCatalog(ctx); err != nil {
		return fmt.Errorf("failed to load formats: %w", err)
	}
	if err := ctrl.SelectFile(file); err != nil {
		return err
	}
	if err := ctrl.SelectTarget(target); err != nil {
		return fmt.Errorf("%s: %w", target, err)
	}
	if err := ctrl.Convert(ctx); err != nil {
		return err
	}

	result := ctrl.Result()
	saved, err := platform.SaveArtifact(result.ArtifactPath, dir, result.OutputName)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s\n", localization.Format(locale.KeySavedTo, saved))
	return ctrl.Reset()
}

func cmdInfo(ctx context.Context, client *api.Client, mediaURL string, stdout io.Writer) error {
	info, err := client.MediaInfo(ctx, mediaURL)
	if err != nil {
		return err
	}

	duration := "—"
	if info.Duration != nil {
		duration = fmt.Sprintf("%.0fs", *info.Duration)
	}
	fmt.Fprintf(stdout, "Title:     %s\n", info.Title)
	fmt.Fprintf(stdout, "Uploader:  %s\n", info.Uploader)
	fmt.Fprintf(stdout, "Duration:  %s\n", duration)
	fmt.Fprintf(stdout, "Extractor: %s\n", info.Extractor)
	return nil
}

func cmdFetch(ctx context.Context, client *api.Client, mediaURL, format, dir string, stdout io.Writer) error {
	service, err := convert.NewService(client, client, "")
	if err != nil {
		return err
	}
	defer service.Close()

	file, err := service.ImportURL(ctx, convert.ImportRequest{URL: mediaURL, Format: format})
	if err != nil {
		return err
	}

	saved, err := platform.SaveArtifact(file.Path, dir, file.Name)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s (%s)\n", saved, model.HumanizeBytes(file.Size))
	return nil
}
