package main

import (
	"fyne.io/fyne/v2/widget"

	"github.com/jonspeicher/SoftTemperature/pkg/device"
)

// handleDisplayToggle toggles the mock device's display switch, which makes
// the indicator blink the current temperature out on the (simulated) LED.
// On real hardware the switch is physical and read by the firmware, so the
// button is disabled for serial connections.
func handleDisplayToggle(state *appState) {
	mock, ok := state.device.(*device.Mock)
	if !ok || !state.device.IsConnected() {
		return
	}

	state.displayHeld = !state.displayHeld
	mock.SetDisplaySwitch(state.displayHeld)
	updateDisplayButtonState(state)
}

// updateDisplayButtonState updates the display button's visual state.
func updateDisplayButtonState(state *appState) {
	if state.displayBtn == nil {
		return
	}
	if state.displayHeld {
		state.displayBtn.Importance = widget.HighImportance
	} else {
		state.displayBtn.Importance = widget.MediumImportance
	}
	state.displayBtn.Refresh()
}
