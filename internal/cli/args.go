package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// normalizeArgs rewrites single-dash long options (-min 3, -debug) into the
// double-dash form and joins a boolean flag with a following true/false
// value, so both traditional and GNU style invocations parse.
func normalizeArgs(flags *pflag.FlagSet, args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}

		name, hasValue := flagName(arg)
		if name == "" {
			out = append(out, arg)
			continue
		}

		flag := lookupLong(flags, name)
		if flag == nil {
			out = append(out, arg)
			continue
		}

		if !strings.HasPrefix(arg, "--") {
			arg = "-" + arg
		}

		if !hasValue && flag.Value.Type() == "bool" && i+1 < len(args) && isBoolWord(args[i+1]) {
			arg += "=" + strings.ToLower(args[i+1])
			i++
		}
		out = append(out, arg)
	}
	return out
}

// flagName returns the name part of a dash argument
func flagName(arg string) (name string, hasValue bool) {
	if !strings.HasPrefix(arg, "-") || arg == "-" {
		return "", false
	}
	name = strings.TrimLeft(arg, "-")
	if eq := strings.IndexByte(name, '='); eq >= 0 {
		return name[:eq], true
	}
	return name, false
}

// lookupLong finds a flag by long name or alias. Single letters are left to
// pflag's shorthand parsing unless they are an alias.
func lookupLong(flags *pflag.FlagSet, name string) *pflag.Flag {
	if target, ok := flagAliases[name]; ok {
		name = target
	} else if len(name) == 1 {
		return nil
	}
	return flags.Lookup(name)
}

func isBoolWord(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false":
		return true
	}
	return false
}
