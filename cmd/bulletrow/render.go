package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"bulletrow/internal/bullet"
	"bulletrow/internal/config"
	"bulletrow/internal/dataset"
	"bulletrow/internal/logger"
	"bulletrow/internal/render"
	"bulletrow/internal/storage"
)

type renderFlags struct {
	output       string
	formats      string
	title        string
	palette      string
	width        float64
	height       float64
	graphMarginH float64
}

func newRenderCmd(cfg *config.Config) *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [input.json|input.yaml|input.xlsx]",
		Short: "Render datasets from a file",
		Long: `Render reads datasets from a JSON, YAML or XLSX file and writes one
output per requested format. The output may be a local path or a
gs://bucket/object destination; the format extension replaces any
extension it carries. Without -o, files go to OUTPUT_DIR (or GCS_BUCKET
when set) under a dated path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, cfg, f, args[0])
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output path or gs://bucket/object")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "Comma-separated output formats: svg, png, html (default: OUTPUT_FORMAT)")
	cmd.Flags().StringVar(&f.title, "title", "", "Heading of html output")
	cmd.Flags().StringVar(&f.palette, "palette", "", "Color palette: set1, set2 (default: BULLET_PALETTE)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "Canvas width (default: BULLET_WIDTH)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "Canvas height (default: BULLET_HEIGHT)")
	cmd.Flags().Float64Var(&f.graphMarginH, "graph-margin-h", 0, "Horizontal gap around each chart (default: BULLET_GRAPH_MARGIN_H)")
	return cmd
}

func runRender(cmd *cobra.Command, cfg *config.Config, f renderFlags, input string) error {
	ctx := cmd.Context()
	log := logger.Component("cli")

	data, err := dataset.Load(input)
	if err != nil {
		return err
	}

	ch := cfg.NewChart().SetData(data)
	if cmd.Flags().Changed("width") {
		ch.SetWidth(f.width)
	}
	if cmd.Flags().Changed("height") {
		ch.SetHeight(f.height)
	}
	if cmd.Flags().Changed("graph-margin-h") {
		ch.SetGraphMarginH(f.graphMarginH)
	}
	if f.palette != "" {
		p, ok := bullet.PaletteByName(f.palette)
		if !ok {
			return fmt.Errorf("unknown palette %q", f.palette)
		}
		ch.SetBandPalette(p).SetResultPalette(p)
	}

	if err := bullet.Validate(ch.Options(), ch.Data()); err != nil {
		return err
	}
	if idx := bullet.LabelMismatches(ch.Options(), ch.Data()); len(idx) > 0 {
		log.Warn("label count differs from result count", logger.Fields{"datasets": idx})
	}

	formatList := f.formats
	if formatList == "" {
		formatList = cfg.OutputFormat
	}
	formats, err := render.ParseFormats(formatList)
	if err != nil {
		return err
	}

	store, base, err := openDestination(ctx, cfg, f.output, time.Now())
	if err != nil {
		return err
	}
	defer store.Close()

	locations, err := renderFiles(ctx, ch, formats, store, base, f.title, log)
	if err != nil {
		return err
	}
	for _, loc := range locations {
		fmt.Fprintln(cmd.OutOrStdout(), loc)
	}
	return nil
}

// openDestination resolves the output flag to a storage client and a
// file path without extension
func openDestination(ctx context.Context, cfg *config.Config, output string, now time.Time) (storage.StorageClient, string, error) {
	var (
		mode storage.DeploymentMode
		root string
		name string
	)
	switch {
	case output != "":
		var err error
		mode, root, name, err = storage.ParseDestination(output)
		if err != nil {
			return nil, "", err
		}
	case cfg.GCSBucket != "":
		mode, root, name = storage.DeploymentGCS, cfg.GCSBucket, storage.ChartBaseName(now)
	default:
		mode, root, name = storage.DeploymentLocal, cfg.OutputDir, storage.ChartBaseName(now)
	}

	store, err := storage.NewStorageClient(ctx, mode, root)
	if err != nil {
		return nil, "", err
	}
	return store, trimExt(name), nil
}

func trimExt(name string) string {
	slash := strings.LastIndex(name, "/")
	if dot := strings.LastIndex(name, "."); dot > slash {
		return name[:dot]
	}
	return name
}

// renderFiles encodes ch once per format in parallel and stores each
// result at base plus the format extension. Locations come back in
// format order.
func renderFiles(ctx context.Context, ch *bullet.Chart, formats []render.Format, store storage.StorageClient, base, title string, log *logger.Logger) ([]string, error) {
	locations := make([]string, len(formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, format := range formats {
		i, format := i, format
		g.Go(func() error {
			canvas := render.NewCanvas(format, log)
			if title != "" {
				canvas.SnippetTitle = title
			}
			if err := ch.Render(canvas); err != nil {
				return fmt.Errorf("failed to render %s: %w", format, err)
			}

			name := base + format.Extension()
			if err := store.StoreFile(ctx, name, canvas.Bytes()); err != nil {
				return err
			}
			locations[i] = store.Location(name)
			log.Info("chart written", logger.Fields{"format": string(format), "location": locations[i]})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return locations, nil
}
