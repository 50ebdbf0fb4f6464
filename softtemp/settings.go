package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/jonspeicher/SoftTemperature/pkg/config"
	"github.com/jonspeicher/SoftTemperature/pkg/device"
	"github.com/jonspeicher/SoftTemperature/pkg/gradient"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	// Create tabs
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createCalibrationTab(state),
		createGradientTab(state),
		createDisplayTab(state),
		createMockTab(state),
	)

	// Create dialog with tabs as content
	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 500))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 500))
	d.Show()
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	// Get available serial ports
	ports, err := device.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // Map display name to actual port name

	if err == nil {
		for _, port := range ports {
			displayName := port.Name
			if port.Description != "" && port.Description != port.Name {
				displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
			}
			portOptions = append(portOptions, displayName)
			portMap[displayName] = port.Name
		}
	}

	// Add current port if not in list
	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
		currentDisplay = currentPort
	}

	portSelect := widget.NewSelect(portOptions, func(selected string) {
		// Selection handler - will be called on submit
	})
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
		},
		OnSubmit: func() {
			if portSelect.Selected == "" {
				return
			}
			selectedPort := portMap[portSelect.Selected]
			if selectedPort == "" {
				selectedPort = portSelect.Selected // Fallback to selected text
			}

			// Check if port changed and device is connected
			portChanged := state.cfg.Serial.Port != selectedPort
			wasConnected := state.device != nil && state.device.IsConnected()

			state.cfg.Serial.Port = selectedPort
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
				return
			}

			// If port changed and device was connected, restart the measurement chain
			if portChanged && wasConnected {
				// Gracefully close old chain
				closeMeasurementChain(state.chain)
				state.chain = nil
				state.device = nil
				state.indicator = nil

				// Reconnect with new port
				handleConnect(state)
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createCalibrationTab creates the Calibration configuration tab.
func createCalibrationTab(state *appState) *container.TabItem {
	inputVoltageEntry := widget.NewEntry()
	inputVoltageEntry.SetText(fmt.Sprintf("%.2f", state.cfg.Calibration.InputVoltage))

	voltsAtMinEntry := widget.NewEntry()
	voltsAtMinEntry.SetText(fmt.Sprintf("%.3f", state.cfg.Calibration.VoltsAtMinC))

	voltsAtMaxEntry := widget.NewEntry()
	voltsAtMaxEntry.SetText(fmt.Sprintf("%.3f", state.cfg.Calibration.VoltsAtMaxC))

	minCEntry := widget.NewEntry()
	minCEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Calibration.MinC))

	maxCEntry := widget.NewEntry()
	maxCEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Calibration.MaxC))

	filterSizeEntry := widget.NewEntry()
	filterSizeEntry.SetText(fmt.Sprintf("%d", state.cfg.Filter.Size))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Input Voltage (V)", Widget: inputVoltageEntry},
			{Text: "Volts at Min °C", Widget: voltsAtMinEntry},
			{Text: "Volts at Max °C", Widget: voltsAtMaxEntry},
			{Text: "Min Temperature (°C)", Widget: minCEntry},
			{Text: "Max Temperature (°C)", Widget: maxCEntry},
			{Text: "Filter Window (samples)", Widget: filterSizeEntry},
		},
		OnSubmit: func() {
			if iv, err := strconv.ParseFloat(inputVoltageEntry.Text, 64); err == nil {
				state.cfg.Calibration.InputVoltage = iv
			}
			if vmin, err := strconv.ParseFloat(voltsAtMinEntry.Text, 64); err == nil {
				state.cfg.Calibration.VoltsAtMinC = vmin
			}
			if vmax, err := strconv.ParseFloat(voltsAtMaxEntry.Text, 64); err == nil {
				state.cfg.Calibration.VoltsAtMaxC = vmax
			}
			if minC, err := strconv.ParseFloat(minCEntry.Text, 64); err == nil {
				state.cfg.Calibration.MinC = minC
			}
			if maxC, err := strconv.ParseFloat(maxCEntry.Text, 64); err == nil {
				state.cfg.Calibration.MaxC = maxC
			}
			if size, err := strconv.Atoi(filterSizeEntry.Text); err == nil && size > 0 {
				state.cfg.Filter.Size = size
			}
			if err := state.cfg.Validate(); err != nil {
				dialog.ShowError(err, state.window)
				return
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
			// Calibration applies to new samples at the next connect
		},
	}

	return container.NewTabItem("Calibration", form)
}

// createGradientTab creates the Gradient configuration tab.
// Points are edited as one "temperature color" pair per line, e.g.
// "50 #0000FF". Temperatures must be strictly ascending.
func createGradientTab(state *appState) *container.TabItem {
	pointsEntry := widget.NewMultiLineEntry()
	pointsEntry.SetText(formatGradientPoints(state.cfg.Gradient))
	pointsEntry.SetMinRowsVisible(10)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Points (°F #RRGGBB)", Widget: pointsEntry},
		},
		OnSubmit: func() {
			points, err := parseGradientPoints(pointsEntry.Text)
			if err != nil {
				dialog.ShowError(err, state.window)
				return
			}
			state.cfg.Gradient = points
			if _, err := state.cfg.GradientTable(); err != nil {
				dialog.ShowError(err, state.window)
				return
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
				return
			}
			// The gradient is rebuilt at the next connect
		},
	}

	return container.NewTabItem("Gradient", form)
}

func formatGradientPoints(points []config.GradientPoint) string {
	var b strings.Builder
	for _, p := range points {
		fmt.Fprintf(&b, "%g %s\n", p.TempF, p.Color)
	}
	return b.String()
}

func parseGradientPoints(text string) ([]config.GradientPoint, error) {
	var points []config.GradientPoint
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("gradient line %d: expected \"temperature color\", got %q", i+1, line)
		}
		tempF, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("gradient line %d: invalid temperature %q", i+1, fields[0])
		}
		if _, err := gradient.ParseHex(fields[1]); err != nil {
			return nil, fmt.Errorf("gradient line %d: %w", i+1, err)
		}
		points = append(points, config.GradientPoint{TempF: tempF, Color: fields[1]})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("gradient requires at least one point")
	}
	return points, nil
}

// createDisplayTab creates the Display configuration tab.
func createDisplayTab(state *appState) *container.TabItem {
	blinkDelayEntry := widget.NewEntry()
	blinkDelayEntry.SetText(state.cfg.Display.BlinkDelay.String())

	phasePauseEntry := widget.NewEntry()
	phasePauseEntry.SetText(state.cfg.Display.PhasePause.String())

	blinkColorEntry := widget.NewEntry()
	blinkColorEntry.SetText(state.cfg.Display.BlinkColor)

	debugPeriodEntry := widget.NewEntry()
	debugPeriodEntry.SetText(state.cfg.Display.DebugPeriod.String())

	windowSecondsEntry := widget.NewEntry()
	windowSecondsEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Display.WindowSeconds))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Blink Delay", Widget: blinkDelayEntry},
			{Text: "Phase Pause", Widget: phasePauseEntry},
			{Text: "Blink Color (#RRGGBB)", Widget: blinkColorEntry},
			{Text: "Debug Period", Widget: debugPeriodEntry},
			{Text: "Window (seconds)", Widget: windowSecondsEntry},
		},
		OnSubmit: func() {
			if bd, err := time.ParseDuration(blinkDelayEntry.Text); err == nil {
				state.cfg.Display.BlinkDelay = bd
			}
			if pp, err := time.ParseDuration(phasePauseEntry.Text); err == nil {
				state.cfg.Display.PhasePause = pp
			}
			if _, err := gradient.ParseHex(blinkColorEntry.Text); err == nil {
				state.cfg.Display.BlinkColor = blinkColorEntry.Text
			}
			if dp, err := time.ParseDuration(debugPeriodEntry.Text); err == nil {
				state.cfg.Display.DebugPeriod = dp
			}
			if ws, err := strconv.ParseFloat(windowSecondsEntry.Text, 64); err == nil {
				state.cfg.Display.WindowSeconds = ws
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Display", form)
}

// createMockTab creates the Mock device configuration tab.
func createMockTab(state *appState) *container.TabItem {
	baseTempEntry := widget.NewEntry()
	baseTempEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Mock.BaseTempC))

	sweepRangeEntry := widget.NewEntry()
	sweepRangeEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Mock.SweepRangeC))

	sweepPeriodEntry := widget.NewEntry()
	sweepPeriodEntry.SetText(state.cfg.Mock.SweepPeriod.String())

	noiseCountsEntry := widget.NewEntry()
	noiseCountsEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Mock.NoiseCounts))

	sampleRateEntry := widget.NewEntry()
	sampleRateEntry.SetText(state.cfg.Mock.SampleRate.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Base Temperature (°C)", Widget: baseTempEntry},
			{Text: "Sweep Range (°C)", Widget: sweepRangeEntry},
			{Text: "Sweep Period", Widget: sweepPeriodEntry},
			{Text: "Noise (counts)", Widget: noiseCountsEntry},
			{Text: "Sample Rate", Widget: sampleRateEntry},
		},
		OnSubmit: func() {
			if bt, err := strconv.ParseFloat(baseTempEntry.Text, 64); err == nil {
				state.cfg.Mock.BaseTempC = bt
			}
			if sr, err := strconv.ParseFloat(sweepRangeEntry.Text, 64); err == nil {
				state.cfg.Mock.SweepRangeC = sr
			}
			if sp, err := time.ParseDuration(sweepPeriodEntry.Text); err == nil {
				state.cfg.Mock.SweepPeriod = sp
			}
			if nc, err := strconv.ParseFloat(noiseCountsEntry.Text, 64); err == nil {
				state.cfg.Mock.NoiseCounts = nc
			}
			if rate, err := time.ParseDuration(sampleRateEntry.Text); err == nil {
				state.cfg.Mock.SampleRate = rate
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Mock", form)
}
