package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-dashboard-canvas/components/canvas"
)

type resolveCmd struct {
	Template string `arg:"" type:"existingfile" help:"Template file (YAML or JSON)."`
	Width    int    `required:"" help:"Container width in pixels."`
}

func (cmd *resolveCmd) Run() error {
	tpl, err := canvas.ReadTemplateFile(cmd.Template)
	if err != nil {
		return err
	}
	return writeResolve(os.Stdout, tpl, cmd.Width)
}

func writeResolve(w io.Writer, tpl *canvas.DashboardTemplate, width int) error {
	preset, ok := canvas.ResolveActive(width, tpl.ScreenPresets)
	if !ok {
		return fmt.Errorf("canvasctl: template %s has no screen presets", tpl.ID)
	}
	_, err := fmt.Fprintf(w, "%s\t%s\tbreakpoint=%s\n", preset.ID, preset.ScalingPreset, breakpointLabel(preset))
	return err
}

type previewCmd struct {
	Template       string `arg:"" type:"existingfile" help:"Template file (YAML or JSON)."`
	Preset         string `help:"Screen preset id (defaults to the initial preview preset)."`
	ContainerWidth int    `name:"container-width" help:"Editor container width used for the fit zoom."`
}

func (cmd *previewCmd) Run() error {
	tpl, err := canvas.ReadTemplateFile(cmd.Template)
	if err != nil {
		return err
	}
	return writePreview(os.Stdout, tpl, cmd.Preset, cmd.ContainerWidth)
}

func writePreview(w io.Writer, tpl *canvas.DashboardTemplate, presetID string, containerWidth int) error {
	if presetID == "" {
		initial, ok := canvas.InitialPreviewPreset(tpl.ScreenPresets)
		if !ok {
			return fmt.Errorf("canvasctl: template %s has no screen presets", tpl.ID)
		}
		presetID = initial.ID
	}
	size, ok := canvas.PreviewSizeFor(presetID, tpl.ScreenPresets, tpl.MaxScreenWidth)
	if !ok {
		return fmt.Errorf("canvasctl: unknown screen preset %q", presetID)
	}
	line := fmt.Sprintf("%s\t%dx%d", presetID, size.Width, size.Height)
	if containerWidth > 0 {
		line += fmt.Sprintf("\tzoom=%.2f", canvas.FitZoom(containerWidth, size.Width))
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

type cssCmd struct {
	Columns int `arg:"" help:"Grid column count."`
}

func (cmd *cssCmd) Run() error {
	_, err := io.WriteString(os.Stdout, canvas.ColumnOverflowCSS(cmd.Columns))
	return err
}

type diffCmd struct {
	Old string `arg:"" type:"existingfile" help:"Previous template file."`
	New string `arg:"" type:"existingfile" help:"Next template file."`
}

func (cmd *diffCmd) Run() error {
	old, err := canvas.ReadTemplateFile(cmd.Old)
	if err != nil {
		return err
	}
	next, err := canvas.ReadTemplateFile(cmd.New)
	if err != nil {
		return err
	}
	return writeDiff(os.Stdout, old, next)
}

func writeDiff(w io.Writer, old, next *canvas.DashboardTemplate) error {
	changes, _ := canvas.Diff(old, next)
	if changes.Empty() {
		_, err := fmt.Fprintln(w, "no changes")
		return err
	}
	if _, err := fmt.Fprintf(w, "changed: %s\n", strings.Join(changes.ChangedKeys, ", ")); err != nil {
		return err
	}
	for _, p := range canvas.ChangedPresets(old.ScreenPresets, next.ScreenPresets) {
		if _, err := fmt.Fprintf(w, "preset %s\tbreakpoint=%s\n", p.ID, breakpointLabel(p)); err != nil {
			return err
		}
	}
	return nil
}

func breakpointLabel(p canvas.ScreenPreset) string {
	if p.Unbounded() {
		return "max"
	}
	return fmt.Sprint(p.Breakpoint)
}
