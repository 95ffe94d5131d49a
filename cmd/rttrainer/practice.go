package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"rttrainer/pkg/session"
	"rttrainer/pkg/store"
)

// asker reads the trainee's input.
type asker interface {
	Call(prompt string) (string, error)
	Confirm(msg string) (bool, error)
}

type surveyAsker struct{}

func (surveyAsker) Call(prompt string) (string, error) {
	var text string
	err := survey.AskOne(&survey.Input{Message: prompt}, &text)
	return text, err
}

func (surveyAsker) Confirm(msg string) (bool, error) {
	var ok bool
	err := survey.AskOne(&survey.Confirm{Message: msg, Default: true}, &ok)
	return ok, err
}

func newPracticeCmd() *cobra.Command {
	var (
		flags    scenarioFlags
		stored   string
		autoTune bool
	)
	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Fly a scenario interactively, making the radio calls",
		Long: `Fly a scenario interactively, making the radio calls.

At the prompt, type the call. Lines starting with a slash set the
equipment instead: /radio toggles the radio, /tune 124.025 sets the active
frequency, /swap exchanges active and standby, /squawk 7000 sets the
transponder. Without --auto-tune these are needed before the first call.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				h := a.scenarioHandler()
				var (
					scenario *store.Scenario
					err      error
				)
				if stored != "" {
					scenario, err = h.Lookup(cmd.Context(), stored)
				} else {
					scenario, err = h.Build(cmd.Context(), flags.request(cmd))
				}
				if err != nil {
					return err
				}
				mgr := a.newSessionManager()
				s := mgr.Start(session.Scenario{
					Seed:         scenario.Seed,
					Callsign:     scenario.Callsign,
					Prefix:       scenario.Prefix,
					AircraftType: scenario.AircraftType,
					Points:       scenario.Points,
					Waypoints:    scenario.Waypoints,
				})
				out := cmd.OutOrStdout()
				printWaypoints(out, scenario.Waypoints)
				return practice(cmd.Context(), out, mgr, s.ID, surveyAsker{}, autoTune)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&stored, "id", "", "practice a stored scenario instead of generating one")
	cmd.Flags().BoolVar(&autoTune, "auto-tune", true, "set the radio and transponder for each call")
	return cmd
}

// practice runs the call loop until the scenario finishes or the trainee
// interrupts, then prints the results.
func practice(ctx context.Context, out io.Writer, mgr *session.Manager, id string, in asker, autoTune bool) error {
	defer mgr.End(id)
	for {
		snap, err := mgr.Snapshot(id)
		if err != nil {
			return err
		}
		if snap.Finished || snap.Point == nil {
			break
		}
		u := snap.Point.UpdateData
		if autoTune {
			radio := session.Radio{On: true, Frequency: u.CurrentTargetFrequency, Standby: snap.Radio.Frequency}
			xpdr := session.Transponder{On: true, Code: u.CurrentTransponderFrequency}
			if err := mgr.SetEquipment(id, radio, xpdr); err != nil {
				return err
			}
		}

		fmt.Fprintln(out)
		printPoint(out, snap.Point)
		text, err := in.Call(fmt.Sprintf("%s %s >", u.CurrentTarget, u.CurrentTargetFrequency))
		if errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		text = strings.TrimSpace(text)
		if strings.HasPrefix(text, "/") {
			radio, xpdr, err := applyEquipmentCommand(text, snap.Radio, snap.Transponder)
			if err != nil {
				severeColor.Fprintf(out, "  %v\n", err)
				continue
			}
			if err := mgr.SetEquipment(id, radio, xpdr); err != nil {
				return err
			}
			dimColor.Fprintf(out, "  radio %s (%s), squawk %s\n", onOff(radio.On), radio.Frequency, xpdr.Code)
			continue
		}

		turn, err := mgr.Submit(ctx, id, text)
		switch {
		case errors.Is(err, session.ErrRadioOff), errors.Is(err, session.ErrWrongFrequency), errors.Is(err, session.ErrWrongSquawk):
			severeColor.Fprintf(out, "  %v\n", err)
			continue
		case err != nil:
			return err
		}
		printTurn(out, turn)

		if turn.Outcome == session.OutcomeOfferReveal {
			accept, err := in.Confirm("Show the expected call?")
			if errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			expected, err := mgr.Reveal(id, accept)
			if err != nil {
				return err
			}
			if accept {
				dimColor.Fprintf(out, "  Expected: %s\n", expected)
			}
		}
		if turn.Outcome == session.OutcomeFinished {
			break
		}
	}

	res, err := mgr.Results(id)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	printResults(out, res)
	return nil
}

// applyEquipmentCommand handles "/radio", "/tune 124.025", "/swap" and
// "/squawk 7000" typed at the call prompt.
func applyEquipmentCommand(cmd string, radio session.Radio, xpdr session.Transponder) (session.Radio, session.Transponder, error) {
	fields := strings.Fields(strings.TrimPrefix(cmd, "/"))
	if len(fields) == 0 {
		return radio, xpdr, fmt.Errorf("empty command")
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}
	switch fields[0] {
	case "radio":
		radio.On = !radio.On
	case "tune":
		if arg == "" {
			return radio, xpdr, fmt.Errorf("usage: /tune 124.025")
		}
		radio.Standby, radio.Frequency = radio.Frequency, arg
	case "swap":
		radio.Swap()
	case "squawk":
		if len(arg) != 4 || strings.Trim(arg, "01234567") != "" {
			return radio, xpdr, fmt.Errorf("squawk must be four octal digits, got %q", arg)
		}
		xpdr.On, xpdr.Code = true, arg
	default:
		return radio, xpdr, fmt.Errorf("unknown command /%s (radio, tune, swap, squawk)", fields[0])
	}
	return radio, xpdr, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
