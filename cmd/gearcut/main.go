// Command gearcut generates involute gears by simulated hobbing and writes
// their meshes, drawings and datasheets.
//
//	gearcut -config batch.yaml -out build -viz img -video
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/soypat/gears"
	"github.com/soypat/gears/artifact"
	"github.com/soypat/gears/hob"
	"github.com/soypat/gears/internal/config"
	"github.com/soypat/gears/kernel"
	"github.com/soypat/gears/kernel/sdfx"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		log.Error().Err(err).Msg("gearcut failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("gearcut", flag.ContinueOnError)
	var (
		cfgPath = fs.String("config", "", "YAML batch file, the default gear if empty")
		out     = fs.String("out", "", "output directory, overrides the batch file")
		steps   = fs.Int("steps", 0, "hobbing steps, overrides the batch file")
		kname   = fs.String("kernel", "", "solid kernel: native or sdfx")
		viz     = fs.String("viz", "", "step visualization: none, stl or img")
		video   = fs.Bool("video", false, "encode img frames to a video with ffmpeg")
		verbose = fs.Bool("v", false, "log every hobbing step")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}
	if *out != "" {
		cfg.Out = *out
	}
	if *steps != 0 {
		cfg.Steps = *steps
	}
	if *kname != "" {
		cfg.Kernel = *kname
	}
	if *viz != "" {
		cfg.Viz = *viz
	}
	if *video {
		cfg.Video.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return generate(ctx, cfg, log.Logger)
}

func newKernel(name string) (kernel.Kernel, error) {
	switch name {
	case config.KernelNative:
		return kernel.Native(), nil
	case config.KernelSDFX:
		return sdfx.New(), nil
	}
	return nil, fmt.Errorf("unknown kernel %q", name)
}

// generate cuts every gear of cfg and writes the results below cfg.Out.
func generate(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	k, err := newKernel(cfg.Kernel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Out, 0o755); err != nil {
		return err
	}
	if err := config.Save(filepath.Join(cfg.Out, "config.yaml"), cfg); err != nil {
		return err
	}

	c, err := gears.Initialize(cfg.Inputs())
	if err != nil {
		return err
	}
	logger.Info().Int("gears", len(c.Gears)).Int("racks", len(c.Groups)).Msg("gears initialized")
	if err := c.AssignRacks(k); err != nil {
		return err
	}

	dirs := make(map[*gears.Gear]string, len(c.Gears))
	for i, g := range c.Gears {
		dir := filepath.Join(cfg.Out, gearDir(cfg.Gears[i].Name, i, g))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		dirs[g] = dir
	}
	if err := writeReports(cfg, c, dirs, logger); err != nil {
		return err
	}

	sim := hob.Simulator{Kernel: k, Steps: cfg.Steps, Logger: logger}
	cutErr := c.Cut(ctx, sim, cfg.Workers, func(g *gears.Gear) hob.StepSink {
		return stepSink(cfg, k, dirs[g])
	})

	var errs []error
	for _, g := range c.Gears {
		if g.Solid == nil {
			continue
		}
		glog := logger.With().Str("gear", g.ID.String()).Logger()
		model, err := k.Mesh(g.Solid, cfg.Cells)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		path := filepath.Join(dirs[g], "gear.stl")
		if err := artifact.WriteMesh(path, model); err != nil {
			errs = append(errs, err)
			continue
		}
		glog.Info().Str("stl", path).Int("triangles", len(model)).Msg("gear written")
		if cfg.Viz == config.VizImage && cfg.Video.Enabled {
			v := artifact.Video{
				FFmpeg:       cfg.Video.FFmpeg,
				Length:       cfg.Video.Length,
				DeleteFrames: cfg.Video.DeleteFrames,
				Logger:       glog,
			}
			frames := filepath.Join(dirs[g], "frames")
			if err := v.Encode(ctx, frames, filepath.Join(dirs[g], "hobbing.mp4")); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(cutErr, errors.Join(errs...))
}

func gearDir(name string, i int, g *gears.Gear) string {
	if name == "" {
		name = fmt.Sprintf("gear%02d", i)
	}
	return name + "-" + g.ID.String()[:8]
}

// stepSink returns the visualization sink of one gear, nil for none.
func stepSink(cfg config.Config, k kernel.Kernel, dir string) hob.StepSink {
	switch cfg.Viz {
	case config.VizSTL:
		sub := filepath.Join(dir, "steps")
		return hob.MultiSink{
			mkdirSink(sub),
			&artifact.MeshSink{Kernel: k, Dir: sub, Cells: cfg.Cells},
		}
	case config.VizImage:
		sub := filepath.Join(dir, "frames")
		return hob.MultiSink{
			mkdirSink(sub),
			&artifact.FrameSink{Kernel: k, Dir: sub, Cells: cfg.Cells, Width: cfg.Image.Width, Height: cfg.Image.Height},
		}
	}
	return nil
}

// mkdirSink creates dir when the blank is observed.
func mkdirSink(dir string) hob.StepSink {
	return hob.StepSinkFunc(func(step int, _ kernel.Solid, _ *hob.Pose) error {
		if step != 0 {
			return nil
		}
		return os.MkdirAll(dir, 0o755)
	})
}
