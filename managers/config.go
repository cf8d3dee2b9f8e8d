// vi: sw=4 ts=4:

/*

	Mnemonic:	config
	Abstract:	Ini-style run configuration (spec §4.I, §6): bracketed
				sections, "extends=" inheritance between sections, and
				object-path keys that may use '*'/'**' wildcards to bind a
				value to a whole subtree of the module tree at once
				(e.g. "**.delay = 10ms"), with "${other.key}" substitution
				resolved against the same effective section. Grounded on
				github.com/att/gopkgs/clike for the typed accessors, the
				way the teacher reads its own small config values in
				agent.go/res_mgr.go; main's "-C key=val" override flags are
				split with gizmos/tools.go:Toks2map.
	Date:		30 Jul 2026
	Author:		E. Scott Daniels

	Mods:		30 Jul 2026 : New; no teacher config-section system existed to
					adapt (tegu's own config was flag-driven), so this is
					built fresh from tools.go's key=value parsing idiom.
				30 Jul 2026 : Section now seeds ${configname}/${runnumber}/
					${datetime}/${workingdir} into the substitution
					environment before resolving a section's keys; these
					were documented but unresolvable.
*/

package managers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/att/gopkgs/clike"
	"gopkg.in/yaml.v3"

	"github.com/att/nsim/gizmos"
)

// raw_section is one bracketed block as written, before extends resolution.
type raw_section struct {
	name    string
	extends string
	order   []string          // key insertion order, for stable wildcard precedence on ties
	kv      map[string]string // unresolved value text
}

/*
	Config holds every section read from a run's ini file, keyed by
	section name without the "Config " prefix used in the file itself
	(spec §6: "[General]" and "[Config <name>]" blocks).
*/
type Config struct {
	sections  map[string]*raw_section
	runNumber int
}

/*
	SetRunNumber records which repetition of a parameter study this run is
	(spec §4.I's "${runnumber}"); exposed to config values through
	Section's substitution environment. Defaults to 0 when never called.
*/
func (c *Config) SetRunNumber(n int) {
	c.runNumber = n
}

/*
	Parse_config reads an ini-style configuration from r. Recognized line
	forms:

		[General]
		[Config <name>]
		extends = <parent-section-name>
		<object-path-or-wildcard> = <value>

	'#' and ';' start a comment; blank lines are ignored.
*/
func Parse_config(r io.Reader) (*Config, error) {
	c := &Config{sections: map[string]*raw_section{}}
	var cur *raw_section

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			name := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			name = strings.TrimPrefix(name, "Config ")
			cur = &raw_section{name: name, kv: map[string]string{}}
			c.sections[cur.name] = cur
			continue
		}
		if cur == nil {
			return nil, gizmos.New_error(gizmos.InternalError, "config line %d precedes any [section]", lineNo)
		}
		k, v, ok := split_kv(line)
		if !ok {
			return nil, gizmos.New_error(gizmos.InternalError, "config line %d is not key = value: %q", lineNo, line)
		}
		if k == "extends" {
			cur.extends = v
			continue
		}
		cur.kv[k] = v
		cur.order = append(cur.order, k)
	}
	if err := sc.Err(); err != nil {
		return nil, gizmos.Wrap_error(gizmos.InternalError, err)
	}
	return c, nil
}

func split_kv(line string) (key, val string, ok bool) {
	i := strings.IndexByte(line, '=')
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

/*
	effective walks name's extends chain (General implicitly backs every
	section, per spec §6) and returns the flattened key order and map,
	most-specific (name's own keys) last so later lookups prefer them.
*/
func (c *Config) effective(name string) ([]string, map[string]string, error) {
	seen := map[string]bool{}
	var chain []*raw_section

	n := name
	for n != "" {
		if seen[n] {
			return nil, nil, gizmos.New_error(gizmos.CircularReference, "config section %q extends itself", n)
		}
		seen[n] = true
		s, ok := c.sections[n]
		if !ok {
			return nil, nil, gizmos.New_error(gizmos.ConfigKeyNotFound, "no such config section %q", n)
		}
		chain = append(chain, s)
		n = s.extends
	}
	if name != "General" {
		if g, ok := c.sections["General"]; ok && !seen["General"] {
			chain = append(chain, g)
		}
	}

	// apply furthest ancestor first so nearer sections override.
	merged := map[string]string{}
	var order []string
	for i := len(chain) - 1; i >= 0; i-- {
		for _, k := range chain[i].order {
			if _, exists := merged[k]; !exists {
				order = append(order, k)
			}
			merged[k] = chain[i].kv[k]
		}
	}
	return order, merged, nil
}

// Run_config is a section's flattened, substitution-resolved view.
type Run_config struct {
	name  string
	order []string
	kv    map[string]string
}

/*
	Section resolves name's effective key set (following extends and
	falling back to General) and performs ${...} substitution against
	that same set, seeded with the four ambient variables spec §4.I and §6
	document -- "${configname}", "${runnumber}", "${datetime}", and
	"${workingdir}" -- so a config value may reference them even though no
	section ever defines them itself.
*/
func (c *Config) Section(name string) (*Run_config, error) {
	order, kv, err := c.effective(name)
	if err != nil {
		return nil, err
	}
	env := builtin_vars(name, c.runNumber)
	for k, v := range kv {
		env[k] = v
	}
	resolved := make(map[string]string, len(kv))
	for k := range kv {
		v, err := substitute(env, k, map[string]bool{})
		if err != nil {
			return nil, err
		}
		resolved[k] = v
	}
	return &Run_config{name: name, order: order, kv: resolved}, nil
}

/*
	builtin_vars seeds the substitution environment with the run's ambient
	values: the section name being resolved, the run-number set via
	SetRunNumber, the wall-clock time this run started, and the process's
	working directory. Any of these a section defines as a key of its own
	takes precedence, since the caller overlays kv on top of this map.
*/
func builtin_vars(name string, runNumber int) map[string]string {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return map[string]string{
		"configname": name,
		"runnumber":  strconv.Itoa(runNumber),
		"datetime":   time.Now().Format("20060102-150405"),
		"workingdir": wd,
	}
}

func substitute(kv map[string]string, key string, seen map[string]bool) (string, error) {
	if seen[key] {
		return "", gizmos.New_error(gizmos.CircularReference, "config key %q references itself", key)
	}
	seen[key] = true
	val, ok := kv[key]
	if !ok {
		return "", gizmos.New_error(gizmos.ConfigKeyNotFound, "no such config key %q", key)
	}

	var out strings.Builder
	for {
		i := strings.Index(val, "${")
		if i < 0 {
			out.WriteString(val)
			break
		}
		j := strings.Index(val[i:], "}")
		if j < 0 {
			out.WriteString(val)
			break
		}
		j += i
		out.WriteString(val[:i])
		ref := val[i+2 : j]
		rv, err := substitute(kv, ref, seen)
		if err != nil {
			return "", err
		}
		out.WriteString(rv)
		val = val[j+1:]
	}
	return out.String(), nil
}

var glob_special = regexp.MustCompile(`[.+?()\[\]{}^$\\]`)

// glob_to_regexp turns a wildcard object-path pattern into an anchored
// regexp: "**" matches across path segments, "*" matches within one.
func glob_to_regexp(pattern string) *regexp.Regexp {
	escaped := glob_special.ReplaceAllStringFunc(pattern, func(s string) string { return "\\" + s })
	escaped = strings.ReplaceAll(escaped, "**", "\x00")
	escaped = strings.ReplaceAll(escaped, "*", "[^.]*")
	escaped = strings.ReplaceAll(escaped, "\x00", ".*")
	return regexp.MustCompile("^" + escaped + "$")
}

/*
	Resolve finds the most specific configured value bound to
	objectPath (spec §6: "the most specific matching pattern wins; ties
	broken by file order, later entries preferred"). objectPath is a
	dotted module path such as "net.host[3].delay".
*/
func (rc *Run_config) Resolve(objectPath string) (string, bool) {
	best := ""
	bestLen := -1
	bestOrder := -1
	for i, pattern := range rc.order {
		re := glob_to_regexp(pattern)
		if !re.MatchString(objectPath) {
			continue
		}
		specificity := len(strings.ReplaceAll(pattern, "*", ""))
		if specificity > bestLen || (specificity == bestLen && i > bestOrder) {
			best = rc.kv[pattern]
			bestLen = specificity
			bestOrder = i
		}
	}
	return best, bestLen >= 0
}

/*
	Override forces objectPath to val directly on the resolved section,
	taking precedence over anything read from file -- the effect of a
	command-line "-C key=val" (spec §6).
*/
func (rc *Run_config) Override(objectPath, val string) {
	if !contains_string(rc.order, objectPath) {
		rc.order = append(rc.order, objectPath)
	}
	rc.kv[objectPath] = val
}

/*
	Parse_overrides_yaml reads an auxiliary "-y file.yaml" object-overrides
	fragment (spec §6 supplement): a nested YAML mapping whose leaf keys
	flatten into dotted object paths, the same namespace Resolve matches
	against. Grounded on the pack's own nested-mapping config reads, this
	is purely an alternate surface for the values Override already accepts
	one at a time from the command line.
*/
func Parse_overrides_yaml(r io.Reader) (map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, gizmos.Wrap_error(gizmos.InternalError, err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, gizmos.Wrap_error(gizmos.InternalError, err)
	}
	out := map[string]string{}
	flatten_yaml("", raw, out)
	return out, nil
}

func flatten_yaml(prefix string, v interface{}, out map[string]string) {
	if m, ok := v.(map[string]interface{}); ok {
		for k, vv := range m {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten_yaml(key, vv, out)
		}
		return
	}
	out[prefix] = fmt.Sprintf("%v", v)
}

/*
	ApplyOverrides layers every entry of m onto rc via Override, the
	flattened-YAML-fragment counterpart to a run of "-C key=val" flags.
*/
func (rc *Run_config) ApplyOverrides(m map[string]string) {
	for k, v := range m {
		rc.Override(k, v)
	}
}

func contains_string(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func (rc *Run_config) GetString(objectPath string, dflt string) string {
	if v, ok := rc.Resolve(objectPath); ok {
		return v
	}
	return dflt
}

func (rc *Run_config) GetFloat(objectPath string, dflt float64) float64 {
	if v, ok := rc.Resolve(objectPath); ok {
		return clike.Atof(v)
	}
	return dflt
}

func (rc *Run_config) GetInt(objectPath string, dflt int64) int64 {
	if v, ok := rc.Resolve(objectPath); ok {
		return clike.Atoi64(v)
	}
	return dflt
}

func (rc *Run_config) GetBool(objectPath string, dflt bool) bool {
	v, ok := rc.Resolve(objectPath)
	if !ok {
		return dflt
	}
	switch strings.ToLower(v) {
	case "true", "yes", "1", "on":
		return true
	case "false", "no", "0", "off":
		return false
	}
	return dflt
}
