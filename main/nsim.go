// vi: sw=4 ts=4:

/*

	Mnemonic:	nsim
	Abstract:	Command line entry point for the discrete-event simulation
				kernel. Grounded directly on the teacher's own tegu.go:
				flag.* for every option, a root sheep built with
				bleater.Mk_bleater and fed gizmos.Get_sheep()/managers.Get_sheep()
				as children. Once the run has finished and been finalised
				the process exits with one of the exit codes below.

				Command line flags:
					-c config     -- run configuration file (ini-style, spec §6)
					-r run-name   -- [Config <name>] section to execute
					-u addr       -- serve the websocket UI adapter (/ws) and /metrics on addr
					-l event-log  -- write a line-oriented JSON event log here
					-y overrides.yaml -- flattened object-path overrides, applied
						before -C so a repeated -C still wins
					-C key=val    -- override a single config key (repeatable)
					-v            -- verbose mode

	Date:		30 Jul 2026
	Author:		E. Scott Daniels

	Mods:		30 Jul 2026 : Rewritten from the tegu API-server entry point into
					the simulation kernel's CLI driver.
*/

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/att/gopkgs/bleater"
	"github.com/att/gopkgs/ipc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/att/nsim/gizmos"
	"github.com/att/nsim/managers"
)

var sheep *bleater.Bleater

// exit codes, matching spec §6.
const (
	exit_ok            = 0
	exit_run_error       = 1
	exit_bad_args       = 3
	exit_config_error    = 4
)

func usage(version string) {
	fmt.Fprintf(os.Stdout, "nsim %s\n", version)
	fmt.Fprintf(os.Stdout, "usage: nsim -c config-file -r run-name [-n run-number] [-u listen-addr] [-l event-log] [-y overrides.yaml] [-C key=val]... [-v]\n")
}

// kv_flags collects repeated -C key=val overrides.
type kv_flags []string

func (k *kv_flags) String() string { return strings.Join(*k, ",") }
func (k *kv_flags) Set(v string) error {
	*k = append(*k, v)
	return nil
}

func main() {
	var (
		version        = "v1.0"
		cfg_file       *string
		run_name       *string
		run_number     *int
		ui_addr        *string
		log_file       *string
		overrides_file *string
		seed           *int64
		verbose        *bool
		needs_help     *bool
		overrides      kv_flags
	)

	sheep = bleater.Mk_bleater(1, os.Stderr)
	sheep.Set_prefix("nsim-main")
	sheep.Add_child(gizmos.Get_sheep())
	sheep.Add_child(managers.Get_sheep())

	needs_help = flag.Bool("?", false, "show usage")
	cfg_file = flag.String("c", "", "run configuration file")
	run_name = flag.String("r", "", "[Config <name>] section to execute")
	run_number = flag.Int("n", 0, "repetition number within a parameter study, exposed to config values as ${runnumber}")
	ui_addr = flag.String("u", "", "serve websocket/control UI on addr (host:port)")
	log_file = flag.String("l", "", "event log output file")
	overrides_file = flag.String("y", "", "YAML file of object-path overrides")
	seed = flag.Int64("seed", 1, "master RNG seed")
	verbose = flag.Bool("v", false, "verbose")
	flag.Var(&overrides, "C", "override a config key: -C path.to.key=value (repeatable)")

	flag.Parse()

	if *needs_help {
		usage(version)
		os.Exit(exit_ok)
	}
	if *verbose {
		sheep.Set_level(1)
	}
	sheep.Baa(1, "nsim %s started", version)

	if *cfg_file == "" || *run_name == "" {
		sheep.Baa(0, "ERR: -c config-file and -r run-name are required")
		usage(version)
		os.Exit(exit_bad_args)
	}

	rc, err := load_run_config(*cfg_file, *run_name, *run_number, *overrides_file, overrides)
	if err != nil {
		sheep.Baa(0, "ERR: unable to load configuration: %s", err)
		os.Exit(exit_config_error)
	}

	k := managers.Mk_kernel(*seed)

	if *log_file != "" {
		f, err := os.Create(*log_file)
		if err != nil {
			sheep.Baa(0, "ERR: unable to open event log %s: %s", *log_file, err)
			os.Exit(exit_config_error)
		}
		defer f.Close()
		k.Set_event_logger(managers.Mk_event_logger(f))
	}

	k.Set_limits(managers.Run_limits{
		EndTime:    rc.GetFloat("sim-time-limit", 0),
		EventLimit: rc.GetInt("event-limit", 0),
	})

	k.Set_metrics(managers.Mk_kernel_metrics(prometheus.DefaultRegisterer))

	var ui *managers.Ui_adapter
	if *ui_addr != "" {
		ui = managers.Mk_ui_adapter()
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", ui.Upgrade)
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			sheep.Baa(1, "ui adapter listening on %s", *ui_addr)
			if err := http.ListenAndServe(*ui_addr, mux); err != nil {
				sheep.Baa(0, "ERR: ui adapter stopped: %s", err)
			}
		}()
		go relay_ui_commands(ui, k)
	}

	if err := k.Build(); err != nil {
		sheep.Baa(0, "ERR: build/init failed: %s", err)
		os.Exit(exit_run_error)
	}

	reason, err := k.Execute()
	if err != nil {
		sheep.Baa(0, "ERR: run terminated in error: %s (%s)", err, reason)
		os.Exit(exit_run_error)
	}
	sheep.Baa(1, "run finished: %s", k.Summary())

	if err := k.Finalize(); err != nil {
		sheep.Baa(0, "ERR: finalize failed: %s", err)
		os.Exit(exit_run_error)
	}

	if ui != nil {
		ui.Close()
	}

	os.Exit(exit_ok)
}

// relay_ui_commands translates decoded control-port text ("pause",
// "resume", "stop") into ipc.Chmsg requests on k's control channel, the
// only way a goroutine other than the simulation loop itself is allowed
// to touch kernel state (spec §5).
func relay_ui_commands(ui *managers.Ui_adapter, k *managers.Kernel) {
	for cmd := range ui.Commands {
		req := ipc.Mk_chmsg()
		switch strings.TrimSpace(cmd) {
		case "pause":
			req.Send_req(k.Ctl, nil, managers.ReqPause, nil, nil)
		case "resume":
			req.Send_req(k.Ctl, nil, managers.ReqResume, nil, nil)
		case "stop":
			req.Send_req(k.Ctl, nil, managers.ReqStop, nil, nil)
		default:
			sheep.Baa(1, "ui adapter: unrecognised control command %q", cmd)
		}
	}
}

// load_run_config reads cfg_file, resolves runName's effective section,
// layers a YAML object-overrides file on top when given, and applies any
// -C key=val command-line overrides last so they always win. runNumber is
// threaded through to Section so config values may reference ${runnumber}.
func load_run_config(cfg_file, runName string, runNumber int, overridesFile string, overrides kv_flags) (*managers.Run_config, error) {
	f, err := os.Open(cfg_file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := managers.Parse_config(f)
	if err != nil {
		return nil, err
	}
	cfg.SetRunNumber(runNumber)
	rc, err := cfg.Section(runName)
	if err != nil {
		return nil, err
	}

	if overridesFile != "" {
		yf, err := os.Open(overridesFile)
		if err != nil {
			return nil, err
		}
		m, err := managers.Parse_overrides_yaml(yf)
		yf.Close()
		if err != nil {
			return nil, err
		}
		rc.ApplyOverrides(m)
	}

	for k, v := range gizmos.Toks2map([]string(overrides)) {
		rc.Override(k, *v)
	}
	return rc, nil
}
