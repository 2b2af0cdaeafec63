// Command avrsim runs an Intel HEX firmware image against the AVR
// simulator and reports the resulting machine state.
package main

import (
	"fmt"
	"os"

	"github.com/user-none/go-chip-avr"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "avrsim",
		Short: "Cycle-accurate AVR (ATmega328P-class) functional simulator",
	}

	var maxCycles uint64
	var freqHz uint64
	var quiet bool

	runCmd := &cobra.Command{
		Use:   "run [firmware.hex]",
		Short: "Load an Intel HEX image and run it until halt or --max-cycles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			flash, err := avr.LoadHex(string(data))
			if err != nil {
				return fmt.Errorf("parse hex: %w", err)
			}

			dev := avr.NewDevice(flash, freqHz, os.Stdout)

			for dev.Cycles() < maxCycles && !dev.Halted() {
				dev.Step(nil)
			}

			if !quiet {
				if err := dev.LastError(); err != nil {
					fmt.Fprintf(os.Stderr, "halted: %v\n", err)
				}
				fmt.Printf("cycles=%d pc=%#06x\n", dev.Cycles(), dev.CPU().PC())
			}

			if dev.Halted() {
				return fmt.Errorf("simulation halted: %v", dev.LastError())
			}
			return nil
		},
	}
	runCmd.Flags().Uint64Var(&maxCycles, "max-cycles", 16_000_000, "Stop after this many cycles")
	runCmd.Flags().Uint64Var(&freqHz, "freq", avr.DefaultFreqHz, "Nominal clock frequency in Hz")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the final state summary")

	rootCmd.AddCommand(runCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
