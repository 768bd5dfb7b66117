package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/plantsignal/sunbeam/core"
	"github.com/plantsignal/sunbeam/internal/logging"
	"github.com/plantsignal/sunbeam/internal/sensor"
	"github.com/plantsignal/sunbeam/model"
)

func main() {
	configPath := flag.String("config", "configs/room.json", "path to the JSON scene configuration")
	atFlag := flag.String("at", "", "RFC3339 instant to evaluate (default: now)")
	dayFlag := flag.String("day", "", "civil day to scan (YYYY-MM-DD); prints that day's intervals instead of a report")
	jsonOut := flag.Bool("json", false, "emit the full JSON report instead of on/off")
	seasonal := flag.Bool("seasonal", false, "emit the exposure outlook for this year's equinoxes and solstices")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	// The automation host treats any non-zero exit as a broken sensor, so
	// config and computation problems become a benign "unknown" result on
	// stdout and a diagnostic on stderr.
	scene, err := loadScene(*configPath)
	if err != nil {
		log.Error(ctx, "failed to load scene", logging.String("path", *configPath), logging.String("error", err.Error()))
		printFailure(*jsonOut, err)
		return
	}

	now := time.Now()
	if *atFlag != "" {
		now, err = time.Parse(time.RFC3339, *atFlag)
		if err != nil {
			log.Error(ctx, "invalid -at instant", logging.String("error", err.Error()))
			printFailure(*jsonOut, err)
			return
		}
	}

	switch {
	case *seasonal:
		outlook, err := core.SeasonalOutlook(now.Year(), scene.Location, scene.Room, scene.Step)
		if err != nil {
			log.Error(ctx, "seasonal outlook failed", logging.String("error", err.Error()))
			printFailure(*jsonOut, err)
			return
		}
		printSeasonal(*jsonOut, outlook)

	case *dayFlag != "":
		day, err := time.Parse(time.DateOnly, *dayFlag)
		if err != nil {
			log.Error(ctx, "invalid -day", logging.String("error", err.Error()))
			printFailure(*jsonOut, err)
			return
		}
		scanner := &core.Scanner{Location: scene.Location, Room: scene.Room, Step: scene.Step}
		intervals, err := scanner.Scan(day.Year(), day.Month(), day.Day())
		if err != nil {
			log.Error(ctx, "day scan failed", logging.String("day", *dayFlag), logging.String("error", err.Error()))
			printFailure(*jsonOut, err)
			return
		}
		printIntervals(*jsonOut, *dayFlag, intervals)

	default:
		svc := sensor.New(scene,
			sensor.WithLogger(log),
			sensor.WithClock(sensor.FixedClock(now)),
		)
		rep := svc.Report(ctx)
		if *jsonOut {
			printJSON(rep)
		} else {
			fmt.Println(renderPlain(rep))
		}
	}
}

func loadScene(path string) (*core.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene config %q: %w", path, err)
	}
	defer f.Close()
	return core.LoadScene(f)
}

// renderPlain reduces a report to the on/off value the host's command-line
// sensor expects.
func renderPlain(rep model.ExposureReport) string {
	if rep.IsHit {
		return "on"
	}
	return "off"
}

func printFailure(jsonOut bool, err error) {
	if jsonOut {
		printJSON(model.ExposureReport{
			Timestamp:         time.Now(),
			State:             model.StateUnknown,
			Error:             err.Error(),
			ExposureIntervals: []model.ExposureInterval{},
		})
		return
	}
	fmt.Println("off")
}

func printIntervals(jsonOut bool, day string, intervals []model.ExposureInterval) {
	if jsonOut {
		printJSON(struct {
			Day       string                   `json:"day"`
			Intervals []model.ExposureInterval `json:"exposure_intervals"`
		}{Day: day, Intervals: intervals})
		return
	}
	for _, iv := range intervals {
		fmt.Printf("%s %s-%s %s\n", day, iv.Start.Format("15:04"), iv.End.Format("15:04"), iv.WindowID)
	}
}

func printSeasonal(jsonOut bool, outlook []core.SeasonalExposure) {
	if jsonOut {
		printJSON(outlook)
		return
	}
	for _, se := range outlook {
		fmt.Printf("%s (%s):\n", se.Season, se.Date.Format(time.DateOnly))
		for _, iv := range se.Intervals {
			fmt.Printf("  %s-%s %s\n", iv.Start.Format("15:04"), iv.End.Format("15:04"), iv.WindowID)
		}
		if len(se.Intervals) == 0 {
			fmt.Println("  no direct sun")
		}
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
	}
}
