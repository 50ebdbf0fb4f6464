package main

import "machine"

const (
	// Sampling configuration
	SAMPLE_INTERVAL_MS = 1  // ADC read interval in milliseconds
	NUM_SAMPLES        = 20 // Number of samples to average per output line

	// ADC configuration
	ADC_REFERENCE_MV = 3300 // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = 12   // ADC resolution in bits (12-bit = 0-4095, scaled to 10-bit counts on output)

	// Software PWM: duty comparison uses the top PWM_BITS of the 8-bit duty
	// so a full cycle is PWM_STEPS loop ticks (~3ms at 100µs per tick)
	PWM_BITS  = 5
	PWM_STEPS = 1 << PWM_BITS

	// RGB LED pins (common cathode)
	PIN_LED_R = machine.D8
	PIN_LED_G = machine.D9
	PIN_LED_B = machine.D10

	// Display switch pin (active low, internal pullup)
	PIN_SWITCH = machine.D2

	// Thermistor divider ADC pin
	PIN_ADC = machine.A0

	// Serial configuration
	// Baud rate calculation: Format "unix_micros,counts,switch\n"
	// Example: "1234567890123456,1023,1\n" = ~25 bytes max per line
	// 50 outputs/sec * 25 bytes/line = 1,250 bytes/sec
	// UART 8N1: 10 bits/byte = 12,500 baud minimum. With 3x headroom: 37,500 baud minimum
	// 115200 provides ~9x headroom (11,520 bytes/sec max / 1,250 bytes/sec required)
	UART_BAUD_RATE = 115200
)
