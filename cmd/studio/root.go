package studio

import (
	"fmt"
	"os"
)

// Execute is the main entry point for the CLI
func Execute() error {
	if len(os.Args) < 2 {
		// No subcommand starts the server with defaults.
		return handleServeCommand(nil)
	}
	if os.Args[1] == "-h" || os.Args[1] == "--help" {
		printUsage()
		return nil
	}

	command := os.Args[1]
	switch command {
	case "serve":
		return handleServeCommand(os.Args[2:])
	case "setup":
		return handleSetupCommand()
	case "version":
		printVersion()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage() {
	fmt.Println("usage: acestep-studio [-h] {serve,setup,version} ...")
	fmt.Println("")
	fmt.Println("positional arguments:")
	fmt.Println("  {serve,setup,version}")
	fmt.Println("                        ACE-Step Studio commands")
	fmt.Println("    serve               Start the studio web server (default)")
	fmt.Println("    setup               Run interactive setup")
	fmt.Println("    version             Show version information")
	fmt.Println("")
	fmt.Println("options:")
	fmt.Println("  -h, --help            show this help message and exit")
}
