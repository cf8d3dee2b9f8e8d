// vi: sw=4 ts=4:

/*

	Mnemonic:	snapshot
	Abstract:	Whole-module-tree dump, one "<path> <class> <info>" line per
				object (spec §6). Grounded directly on this package's own
				retired res_mgr.go, which used github.com/att/gopkgs/chkpt
				to periodically serialize its reservation inventory: a
				Chkpt is opened with Create(), written to as an io.Writer
				(the teacher's own `fmt.Fprintf(i.chkpt, "%s\n", s)`), then
				finalized with Close() which returns the checkpoint's file
				name and rotates out anything past the keep count. A
				snapshot here is exactly that checkpoint cycle applied to
				the module tree instead of the reservation inventory.
	Date:		30 Jul 2026
	Author:		E. Scott Daniels

	Mods:		30 Jul 2026 : Rewritten from the reservation-inventory
					checkpoint writer into the module-tree snapshot dumper.
*/

package managers

import (
	"fmt"

	"github.com/att/gopkgs/chkpt"

	"github.com/att/nsim/gizmos"
)

/*
	Snapshotter dumps the live module tree to a rotating set of
	checkpoint files each time Dump is called, keeping the most recent
	`keep` of them (spec §6); it schedules no dumps of its own.
*/
type Snapshotter struct {
	ckpt *chkpt.Chkpt
}

func Mk_snapshotter(dir string, keep int) *Snapshotter {
	return &Snapshotter{ckpt: chkpt.Mk_chkpt(dir, keep, 90)}
}

/*
	Dump writes one line per object in the tree rooted at root: its full
	path, its Go type name (the "class"), and its Info() string. Compound
	modules are walked depth-first in submodule order so the dump reads
	top-down like the tree itself.
*/
func (s *Snapshotter) Dump(root *Module, simTime float64) (string, error) {
	if err := s.ckpt.Create(); err != nil {
		return "", gizmos.Wrap_error(gizmos.InternalError, err)
	}

	fmt.Fprintf(s.ckpt, "# snapshot sim-time=%g\n", simTime)
	var walk func(m *Module)
	walk = func(m *Module) {
		dump_object(s.ckpt, m.FullPath(), "Module", m.Info())
		for name, p := range m.params {
			dump_object(s.ckpt, m.FullPath()+"."+name, "Parameter", p.Info())
		}
		for _, c := range m.submodules {
			walk(c)
		}
	}
	walk(root)

	name, err := s.ckpt.Close()
	if err != nil {
		return "", gizmos.Wrap_error(gizmos.InternalError, err)
	}
	return name, nil
}

func dump_object(w *chkpt.Chkpt, path, class, info string) {
	fmt.Fprintf(w, "%s %s %s\n", path, class, info)
}
