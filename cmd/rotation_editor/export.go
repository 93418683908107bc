package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/courtside/rotations/internal/court"
	"github.com/courtside/rotations/internal/export"
)

// runExport writes the full position document without starting the UI.
// With -out the document goes to a file (gzipped for .gz) and logs go to
// stdout; otherwise the document goes to stdout and logs to stderr.
func runExport(args []string, stdout io.Writer, cfgErr error) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("out", "", "write the document to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logOut := stderr
	if *out != "" {
		logOut = stdout
	}

	a, err := newApp(logOut, nil, nil, cfgErr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		if errors.Is(err, court.ErrIncompleteTable) {
			fmt.Fprintln(stderr, "the position table must define every rotation, mode and role")
		}
		return 1
	}
	defer a.close()

	doc, err := export.Build(a.resolver)
	if err != nil {
		a.log.Error("building export", "error", err)
		return 1
	}

	if *out == "" {
		if err := export.Write(stdout, doc); err != nil {
			a.log.Error("writing export", "error", err)
			return 1
		}
		return 0
	}

	if err := export.WriteFile(*out, doc); err != nil {
		a.log.Error("writing export", "file", *out, "error", err)
		return 1
	}
	a.log.Info("export written", "file", *out, "sets", doc.Len())
	return 0
}
