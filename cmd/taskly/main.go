// Command taskly runs multiple commands concurrently, aggregating their
// output and exit status per a single success policy.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/codemastersolutions/taskly/internal/cliapp"
	"github.com/codemastersolutions/taskly/internal/taskerr"
)

var version = "dev"

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if len(os.Args) == 2 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		logger.Out.Write([]byte("taskly " + version + "\n"))
		os.Exit(0)
	}

	_, err := cliapp.Execute(os.Args[1:], os.Stdout, os.Stderr, logger)
	if err != nil {
		entry := logger.WithError(err)
		if root := taskerr.RootCause(err); root != nil && root.Error() != err.Error() {
			entry = entry.WithField("root_cause", root.Error())
		}
		entry.Error("taskly failed")
		os.Exit(taskerr.ExitCode(err))
	}
	os.Exit(0)
}
