package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chrissnell/flightloads/internal/imu"
	"github.com/chrissnell/flightloads/internal/log"
)

const suffix = "_TimeAdded"

func main() {
	start := flag.String("start", imu.DefaultRetimeStart.Format(time.RFC3339), "Timestamp of the first record (RFC 3339)")
	step := flag.Duration("step", imu.DefaultRetimeStep, "Interval between records")
	force := flag.Bool("force", false, "Overwrite existing output files")
	workers := flag.Int("workers", 4, "Files processed in parallel")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <file.dat|dir>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	t0, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		log.Fatalf("invalid -start: %v", err)
	}
	if *step <= 0 {
		log.Fatal("-step must be positive")
	}

	var files []string
	for _, arg := range flag.Args() {
		found, err := collect(arg)
		if err != nil {
			log.Fatalf("failed to scan %s: %v", arg, err)
		}
		files = append(files, found...)
	}

	var g errgroup.Group
	g.SetLimit(max(*workers, 1))
	for _, path := range files {
		g.Go(func() error {
			return retime(path, t0, *step, *force)
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("retime failed: %v", err)
	}
}

// collect lists the raw .dat files under root, skipping earlier output
func collect(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".dat") {
			return nil
		}
		if strings.HasSuffix(strings.TrimSuffix(path, filepath.Ext(path)), suffix) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	return out, err
}

func retime(path string, start time.Time, step time.Duration, force bool) error {
	logger := log.Named("retime").With("file", path)

	ok, err := imu.IsRecordFile(path)
	if err != nil {
		return err
	}
	if ok {
		logger.Info("already timestamped, skipping")
		return nil
	}

	dst := strings.TrimSuffix(path, filepath.Ext(path)) + suffix + filepath.Ext(path)
	if _, err := os.Stat(dst); err == nil && !force {
		logger.Warnw("output exists, skipping (use -force to overwrite)", "output", dst)
		return nil
	}

	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	stats, err := imu.ReconstructTimestamps(in, out, start, step)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return fmt.Errorf("%s: %w", path, err)
	}

	logger.Infow("timestamps added",
		"output", dst,
		"records", stats.Records,
		"end", stats.End.Format(imu.TimestampLayout),
		"trailing_dropped", stats.TrailingDropped)
	return nil
}
