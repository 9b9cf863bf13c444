// Command sousvide runs the sous-vide controller on a host with a USB-UART
// one-wire bus, or against a simulated water bath.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
