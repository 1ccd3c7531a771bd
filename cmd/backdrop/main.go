// Command backdrop runs the site background animations in a desktop window and bundles the
// site's supporting tools: the chat client, theme preference, PIN hashing, directory trees and
// reading time estimates.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
