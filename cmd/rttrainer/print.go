package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"rttrainer/pkg/model"
	"rttrainer/pkg/session"
	"rttrainer/pkg/store"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	stageColor  = color.New(color.FgYellow)
	okColor     = color.New(color.FgGreen)
	minorColor  = color.New(color.FgYellow)
	severeColor = color.New(color.FgRed, color.Bold)
	dimColor    = color.New(color.Faint)
)

func printWaypoints(w io.Writer, wps []model.Waypoint) {
	headerColor.Fprintln(w, "Route")
	for _, wp := range wps {
		fmt.Fprintf(w, "  %2d  %-9s %-28s %9.4f %8.4f\n",
			wp.Index, wp.Type, wp.Name, wp.Location.Lat(), wp.Location.Lon())
	}
}

func printScenario(w io.Writer, sc *store.Scenario) {
	headerColor.Fprintf(w, "Scenario %s\n", sc.ID)
	fmt.Fprintf(w, "  seed %s, callsign %s, %s", sc.Seed, sc.Callsign, sc.AircraftType)
	if sc.HasEmergency {
		severeColor.Fprint(w, "  [emergency]")
	}
	fmt.Fprintln(w)
	printWaypoints(w, sc.Waypoints)
	headerColor.Fprintln(w, "Timeline")
	for _, p := range sc.Points {
		printPoint(w, &p)
	}
}

func printPoint(w io.Writer, p *model.ScenarioPoint) {
	u := p.UpdateData
	fmt.Fprintf(w, "  %3d  %s  ", p.Index, model.FormatTime(p.TimeAtPoint))
	stageColor.Fprintf(w, "%-40s", p.Stage)
	dimColor.Fprintf(w, " %s %s", u.CurrentTarget, u.CurrentTargetFrequency)
	if u.CurrentTransponderFrequency != "" {
		dimColor.Fprintf(w, " squawk %s", u.CurrentTransponderFrequency)
	}
	fmt.Fprintln(w)
}

func printTurn(w io.Writer, turn session.Turn) {
	for _, m := range turn.Result.Mistakes {
		if m.Severity == model.SeveritySevere {
			severeColor.Fprintf(w, "  ✗ %s\n", m.Description)
		} else {
			minorColor.Fprintf(w, "  ~ %s\n", m.Description)
		}
	}
	if turn.Result.IsFlawless() {
		okColor.Fprintln(w, "  ✓ correct")
	}
	if turn.Reply != "" {
		fmt.Fprintf(w, "  ATC: %s\n", turn.Reply)
	}
}

func printResults(w io.Writer, res session.Results) {
	headerColor.Fprintln(w, "Results")
	for _, p := range res.Points {
		c := okColor
		switch {
		case !p.Passed:
			c = severeColor
		case p.Minor > 0 || p.Revealed:
			c = minorColor
		}
		c.Fprintf(w, "  %3d  %-40s attempts %d, severe %d, minor %d", p.Index, p.Stage, p.Attempts, p.Severe, p.Minor)
		if p.Revealed {
			fmt.Fprint(w, " (revealed)")
		}
		fmt.Fprintln(w)
	}
	s := res.Summary
	fmt.Fprintf(w, "  %d calls, %d flawless (%.0f%%), %d severe, %d minor\n",
		s.Calls, s.Flawless, 100*s.FlawlessRatio(), s.Severe, s.Minor)
}
