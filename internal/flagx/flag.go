// Package flagx lets independent components parse only the command-line
// flags they own out of a shared os.Args.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args made of allowed flags and their values.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
//
// A token following an allowed flag is taken as its value unless it starts
// with '-'. The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") {
			if name, _, found := strings.Cut(arg, "="); found {
				if _, ok := allowed[name]; ok {
					filtered = append(filtered, arg)
				}
				continue
			}
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFiles holds the optional configuration file paths given on the
// command line.
type ConfigFiles struct {
	JSON string // -c / -config
	Env  string // -e / -env
}

// ConfigFileFlags extracts the JSON config path (-c, -config) and the dotenv
// path (-e, -env) from os.Args. Other arguments are ignored so callers can
// still parse their own flags. Missing flags yield empty strings.
func ConfigFileFlags() ConfigFiles {
	var files ConfigFiles

	args := FilterArgs(os.Args[1:], []string{"-c", "-config", "-e", "-env"})

	fs := flag.NewFlagSet("files", flag.ContinueOnError)
	fs.StringVar(&files.JSON, "config", "", "Path to JSON config file")
	fs.StringVar(&files.JSON, "c", "", "Path to JSON config file (short)")
	fs.StringVar(&files.Env, "env", "", "Path to .env file")
	fs.StringVar(&files.Env, "e", "", "Path to .env file (short)")
	_ = fs.Parse(args)

	return files
}
