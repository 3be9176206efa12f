package config

import (
	"os"
	"regexp"

	"github.com/agentmesh/mcpgw/pkg/gwlog"
	"github.com/agentmesh/mcpgw/pkg/gwtypes"
)

var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnv substitutes ${NAME} placeholders in s from the process
// environment. A missing name is left intact in the output and reported in
// missing, so the caller can log a warning (spec §6).
func ExpandEnv(s string) (expanded string, missing []string) {
	expanded = placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		missing = append(missing, name)
		return match
	})
	return expanded, missing
}

// ExpandBackendServer substitutes ${VAR} in command, each arg, and each env
// value of a stdio backend, per spec §4.C, then resolves secret:// env values.
// It does not merge in the process environment; MergedEnviron does that.
func ExpandBackendServer(name string, b gwtypes.BackendServerConfig) gwtypes.BackendServerConfig {
	out := b

	expandedCommand, missing := ExpandEnv(b.Command)
	out.Command = expandedCommand
	warnMissing(name, "command", missing)

	if len(b.Args) > 0 {
		out.Args = make([]string, len(b.Args))
		for i, a := range b.Args {
			expanded, missing := ExpandEnv(a)
			out.Args[i] = expanded
			warnMissing(name, "args", missing)
		}
	}

	if len(b.Env) > 0 {
		out.Env = make(map[string]string, len(b.Env))
		for k, v := range b.Env {
			expanded, missing := ExpandEnv(v)
			warnMissing(name, "env["+k+"]", missing)

			resolved, err := ResolveSecret(expanded)
			if err != nil {
				gwlog.Warnf("backend %q: env[%s] secret resolution failed: %v", name, k, err)
				resolved = expanded
			}
			out.Env[k] = resolved
		}
	}

	return out
}

// MergedEnviron returns the process environment merged with the backend's
// own env map, server-specific values winning, as a slice suitable for
// os/exec.Cmd.Env.
func MergedEnviron(b gwtypes.BackendServerConfig) []string {
	merged := make(map[string]string)
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				merged[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	for k, v := range b.Env {
		merged[k] = v
	}
	out := make([]string, 0, len(merged))
	for k, v := range merged {
		out = append(out, k+"="+v)
	}
	return out
}

func warnMissing(serverName, field string, missing []string) {
	for _, name := range missing {
		gwlog.Warnf("backend %q: env placeholder ${%s} referenced in %s is not set", serverName, name, field)
	}
}
