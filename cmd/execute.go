// Package cmd implements the command-line interface for tgrep.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	loggerpkg "github.com/opencoff/go-logger"

	"github.com/Evansbee/tgrep/locator"
	"github.com/Evansbee/tgrep/logx"
	"github.com/Evansbee/tgrep/output"
	"github.com/Evansbee/tgrep/timemap"
	"github.com/Evansbee/tgrep/timeparse"
)

// tgrepVersion is the fixed version string tgrep's logger tags every
// line with; tgrep has no build-time version injection.
const tgrepVersion = "dev"

// runTgrep is the root command's entry point. It orchestrates one
// end-to-end query:
//  1. Parse TIME/PATH positional arguments.
//  2. Open (or create) the persisted time map for PATH's fingerprint.
//  3. Bootstrap the Locator.
//  4. Resolve the requested range, splitting it at midnight if it wraps.
//  5. Dump each resolved byte range to stdout.
//  6. Save the (possibly more complete) time map back to disk.
func runTgrep(cmd *cobra.Command, args []string) error {
	timeArg, path := parsePositional(args)

	log, err := newLogger()
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	mapDir, err := ensureMapDir(fs)
	if err != nil {
		// A map directory failure is not fatal (OpenFailure is
		// reserved for the log itself) — fall back to an
		// in-memory-only map for this run.
		log.Warn("tgrep: %v; proceeding without a persisted map", err)
	}

	var mapPath string
	var tm *timemap.TimeMap
	if mapDir != "" {
		fp, ferr := fingerprint(path)
		if ferr != nil {
			return fmt.Errorf("tgrep: %w", ferr)
		}
		mapPath = filepath.Join(mapDir, fp)
		tm, err = timemap.Load(mapPath)
		if err != nil {
			log.Debug("tgrep: no existing map at %s (%v), starting fresh", mapPath, err)
			tm = timemap.New()
		}
	} else {
		tm = timemap.New()
	}

	ctx, err := locator.Open(path, tm, log)
	if err != nil {
		return fmt.Errorf("tgrep: %w", err)
	}
	defer ctx.Close()

	lo, hi, err := resolveRange(timeArg, ctx)
	if err != nil {
		return fmt.Errorf("tgrep: %w", err)
	}

	runQuery(ctx, path, lo, hi, log)

	if mapPath != "" {
		if err := tm.Save(mapPath); err != nil {
			log.Debug("tgrep: map save to %s: %v", mapPath, err)
		}
	}
	return nil
}

// parsePositional splits the 0-2 positional arguments into TIME and
// PATH per the fixed ordering: `tgrep [TIME] [PATH]`.
func parsePositional(args []string) (timeArg, path string) {
	path = defaultLogPath
	switch len(args) {
	case 1:
		timeArg = args[0]
	case 2:
		timeArg = args[0]
		path = args[1]
	}
	return timeArg, path
}

// resolveRange turns the raw TIME argument into a [lo, hi] pair in
// seconds-of-range. An empty TIME selects the log's whole observed
// span: a tgrep invocation with no query dumps everything rather than
// refusing to run.
func resolveRange(timeArg string, ctx *locator.Context) (lo, hi int, err error) {
	if timeArg == "" {
		return ctx.MinTime(), ctx.MaxTime(), nil
	}
	if err := timeparse.ValidateSyntax(timeArg); err != nil {
		return 0, 0, err
	}
	return timeparse.ExpandRange(timeArg)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// runQuery clamps [lo, hi] into the log's observed span and, if the
// requested range wraps midnight (hi < lo), splits it into two
// sequential queries: the day-1 remainder up to 86399, then the day-2
// portion shifted by 86400, each clamped into the span.
// Each resolved sub-range is looked up and dumped independently; a
// NotFound on either half is logged and does not abort the other.
func runQuery(ctx *locator.Context, path string, lo, hi int, log logx.Logger) {
	minT, maxT := ctx.MinTime(), ctx.MaxTime()

	if hi < lo {
		dumpRange(ctx, path, clamp(lo, minT, maxT), clamp(timeparse.SecondsPerDay-1, minT, maxT), log)
		lo2 := clamp(timeparse.SecondsPerDay, minT, maxT)
		hi2 := clamp(hi+timeparse.SecondsPerDay, minT, maxT)
		dumpRange(ctx, path, lo2, hi2, log)
		return
	}
	dumpRange(ctx, path, clamp(lo, minT, maxT), clamp(hi, minT, maxT), log)
}

func dumpRange(ctx *locator.Context, path string, lo, hi int, log logx.Logger) {
	start, err := ctx.FindStart(lo)
	if err != nil {
		if errors.Is(err, locator.ErrNotFound) {
			log.Warn("tgrep: no match for start of range at %d", lo)
		} else {
			log.Warn("tgrep: %v", err)
		}
		return
	}
	end, err := ctx.FindEnd(hi)
	if err != nil {
		if errors.Is(err, locator.ErrNotFound) {
			log.Warn("tgrep: no match for end of range at %d", hi)
		} else {
			log.Warn("tgrep: %v", err)
		}
		return
	}
	if err := output.Dump(path, start, end); err != nil {
		log.Warn("tgrep: dump: %v", err)
	}
}

// newLogger builds the process logger, writing informational and
// debug text to standard error, honoring --debug.
func newLogger() (logx.Logger, error) {
	prio := loggerpkg.LOG_WARN
	if debugFlag {
		prio = loggerpkg.LOG_DEBUG
	}
	return logx.New(os.Stderr, prio, "tgrep", tgrepVersion)
}
