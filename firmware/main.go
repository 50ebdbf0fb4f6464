//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"time"
)

var (
	adcSensor machine.ADC
	uart      = machine.UART0

	// RGB duty cycles (0-255), set from serial commands
	ledDuty [3]uint8

	// Software PWM phase counter, advanced every loop tick
	pwmPhase uint8

	// ADC averaging - running sum and count
	sensorSum   uint32
	sensorCount int

	// Timing
	lastADCRead time.Time

	// Serial buffer for reading lines
	serialBuffer [16]byte
	serialPos    int
)

func main() {
	// Configure LED pins as outputs
	PIN_LED_R.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_LED_G.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_LED_B.Configure(machine.PinConfig{Mode: machine.PinOutput})

	// Display switch is wired to ground, so the input idles high
	PIN_SWITCH.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	// Configure ADC pin and set up ADC
	PIN_ADC.Configure(machine.PinConfig{Mode: machine.PinInput})

	adcSensor = machine.ADC{Pin: PIN_ADC}
	adcSensor.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	})

	// Configure UART for color commands
	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	// Initialize timing
	lastADCRead = time.Now()

	// Main loop
	for {
		now := time.Now()

		// Check for serial input (non-blocking)
		processSerial()

		// Read the sensor ADC every 1ms
		if now.Sub(lastADCRead) >= time.Duration(SAMPLE_INTERVAL_MS)*time.Millisecond {
			readSensorADC()
			lastADCRead = now
		}

		// Check if we've collected N samples and output
		if sensorCount >= NUM_SAMPLES {
			outputAveragedValue()
			// Reset and start accumulating again
			sensorSum = 0
			sensorCount = 0
		}

		updateLED()

		// Small delay to prevent tight loop (but still allow precise timing)
		time.Sleep(100 * time.Microsecond)
	}
}

func readSensorADC() {
	value := adcSensor.Get()
	sensorSum += uint32(value)
	sensorCount++
}

// updateLED advances the software PWM by one step. The comparison uses the
// top PWM_BITS of the duty cycle so a full cycle fits in ~3ms of loop ticks.
func updateLED() {
	pwmPhase = (pwmPhase + 1) & (PWM_STEPS - 1)

	setLEDPin(PIN_LED_R, ledDuty[0])
	setLEDPin(PIN_LED_G, ledDuty[1])
	setLEDPin(PIN_LED_B, ledDuty[2])
}

func setLEDPin(pin machine.Pin, duty uint8) {
	if pwmPhase < duty>>(8-PWM_BITS) {
		pin.High()
	} else {
		pin.Low()
	}
}

func outputAveragedValue() {
	// Calculate average (use actual count, up to NUM_SAMPLES)
	n := sensorCount
	if n > NUM_SAMPLES {
		n = NUM_SAMPLES
	}
	if n == 0 {
		n = 1 // Avoid division by zero
	}
	// Scale the averaged ADC value down to 10-bit counts
	counts := uint16(sensorSum/uint32(n)) >> (ADC_RESOLUTION - 10)

	// Get timestamp in unix microseconds
	now := time.Now()
	timestampMicros := now.UnixNano() / 1000 // Convert nanoseconds to microseconds

	// Output format: "unix_micros,counts,switch\n"
	// Example: "1234567890123,614,0\n"
	print(timestampMicros)
	print(",")
	print(counts)
	print(",")
	// Switch is active low (pullup input wired to ground)
	if !PIN_SWITCH.Get() {
		print("1")
	} else {
		print("0")
	}
	print("\n")
}

func processSerial() {
	// Read available bytes from serial
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		// Check for newline (end of line)
		if data == '\n' || data == '\r' {
			if serialPos > 0 {
				updateColor()
			}
			// Reset buffer regardless of length
			serialPos = 0
			continue
		}

		// Ignore whitespace
		if data == ' ' || data == '\t' {
			continue
		}

		// Only accept digits and commas, up to "255,255,255"
		if (data >= '0' && data <= '9') || data == ',' {
			if serialPos < len(serialBuffer) {
				serialBuffer[serialPos] = data
				serialPos++
			}
			// If the buffer is full, ignore additional bytes until newline
		} else {
			// Invalid character - reset buffer
			serialPos = 0
		}
	}
}

// updateColor parses "r,g,b" from the serial buffer and applies the duty
// cycles. Malformed lines are dropped without touching the LED.
func updateColor() {
	var channels [3]uint16
	field := 0

	for i := 0; i < serialPos; i++ {
		c := serialBuffer[i]
		if c == ',' {
			field++
			if field > 2 {
				return // Too many fields
			}
			continue
		}
		channels[field] = channels[field]*10 + uint16(c-'0')
		if channels[field] > 255 {
			return // Channel out of range
		}
	}
	if field != 2 {
		return // Too few fields
	}

	ledDuty[0] = uint8(channels[0])
	ledDuty[1] = uint8(channels[1])
	ledDuty[2] = uint8(channels[2])
}
