// Command spritesplit cuts a sprite sheet on disk into one file per sprite.
//
// Grid mode (the default) splits the sheet into -rows × -cols cells. When any
// margin flag is non-zero the margins are stripped first and cells are kept
// as cut; otherwise every cell is trimmed of its border. With -detect the
// sheet is instead searched for regions that differ from its top left pixel.
//
// Files are written to -out as {name}{index}.{ext}.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/codec"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/logger"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/mask"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/pixel"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/preview"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/splitter"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/storage"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/worker"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/pkg/validation"
)

type options struct {
	in, out, name, ext string
	params             validation.SplitParams
	detect             bool
	previewPath        string
	previewW, previewH int
	workers            int
	verbose            bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("spritesplit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.in, "in", "", "sprite sheet to split (required)")
	fs.StringVar(&o.out, "out", "sprites", "output directory, created if missing")
	fs.StringVar(&o.name, "name", "sprite", "base name of written files")
	fs.StringVar(&o.ext, "ext", "png", "output format: png, jpg, gif, bmp or tiff")
	fs.StringVar(&o.params.Rows, "rows", "1", "number of grid rows")
	fs.StringVar(&o.params.Columns, "cols", "1", "number of grid columns")
	fs.StringVar(&o.params.Left, "left", "0", "pixels stripped from the left edge")
	fs.StringVar(&o.params.Right, "right", "0", "pixels stripped from the right edge")
	fs.StringVar(&o.params.Top, "top", "0", "pixels stripped from the top edge")
	fs.StringVar(&o.params.Bottom, "bottom", "0", "pixels stripped from the bottom edge")
	fs.BoolVar(&o.detect, "detect", false, "detect sprites against the background instead of using a grid")
	fs.StringVar(&o.previewPath, "preview", "", "also write a scaled down PNG of the sheet to this path")
	fs.IntVar(&o.previewW, "preview-width", 1000, "maximum preview width")
	fs.IntVar(&o.previewH, "preview-height", 600, "maximum preview height")
	fs.IntVar(&o.workers, "workers", 0, "encoding workers, 0 for one per CPU")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.in == "" {
		fs.Usage()
		return o, errors.New("-in is required")
	}
	return o, nil
}

func main() {
	logger.UseText(os.Stderr)

	o, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.WithError(err).Error("Invalid arguments")
		os.Exit(2)
	}
	if o.verbose {
		logger.Logger.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	saved, err := run(ctx, o)
	if err != nil {
		logger.WithError(err).Error("Split failed")
		os.Exit(1)
	}
	for _, s := range saved {
		fmt.Println(s.Location)
	}
}

func run(ctx context.Context, o options) ([]storage.Saved, error) {
	img, err := readSheet(o.in)
	if err != nil {
		return nil, err
	}

	if o.previewPath != "" {
		if err := writePreview(ctx, o.previewPath, preview.Fit(img, o.previewW, o.previewH)); err != nil {
			return nil, err
		}
	}

	g, err := pixel.FromImage(img)
	if err != nil {
		return nil, err
	}

	var cells []*pixel.Grid
	if o.detect {
		a := mask.NewAnalyzer()
		res := a.Analyze(g)
		cells = a.Extract(g, res.Regions)
		logger.WithFields(logrus.Fields{
			"regions":    len(res.Regions),
			"background": fmt.Sprint(res.Background),
		}).Info("Detected sprites")
	} else {
		cfg, err := o.params.Config()
		if err != nil {
			return nil, err
		}
		sp, err := splitter.New(cfg)
		if err != nil {
			return nil, err
		}
		cells, err = sp.Split(g)
		if err != nil {
			return nil, err
		}
		logger.WithFields(logrus.Fields{
			"rows":     cfg.Rows,
			"columns":  cfg.Columns,
			"strategy": sp.Strategy().Kind.String(),
		}).Info("Split sheet")
	}

	pool := worker.NewPool(o.workers)
	pool.Start()
	defer pool.Close()

	batch := storage.NewBatch(o.out, o.name, o.ext)
	batch.Append(cells...)
	saved, err := batch.Save(ctx, storage.NewLocalSaver(), pool)
	if err != nil {
		return saved, err
	}

	logger.WithFields(logrus.Fields{
		"dir":     o.out,
		"written": len(saved),
		"skipped": batch.Len() - len(saved),
	}).Info("Saved sprites")
	return saved, nil
}

func readSheet(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sheet: %w", err)
	}
	defer f.Close()

	img, _, err := codec.Decode(f)
	return img, err
}

// writePreview saves a single image through the local saver
func writePreview(ctx context.Context, path string, img image.Image) error {
	data, err := codec.EncodeBytes(img, codec.PNG)
	if err != nil {
		return err
	}
	saver := storage.NewLocalSaver()
	dir := filepath.Dir(path)
	if err := saver.Prepare(ctx, dir); err != nil {
		return err
	}
	_, err = saver.Put(ctx, dir, filepath.Base(path), data, codec.PNG.ContentType())
	return err
}
