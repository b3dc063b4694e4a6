package main

import (
	"fmt"
	"os"
	"strings"

	"blogledger/service"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args to the subcommands
func RealMain() {
	// A missing .env is normal; the environment may be set some other way.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("failed to load .env")
	}

	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help", "-h", "--help":
		printHelp()
	case "version":
		fmt.Printf("blogledger version %s\n", CliVersion)
	default:
		if code := service.HandleCommand(append([]string{cmd}, os.Args[2:]...)); code != 0 {
			exit(code)
		}
	}
}

func printHelp() {
	service.HandleCommand([]string{"help"})
}
