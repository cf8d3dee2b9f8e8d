// vi: sw=4 ts=4:

/*

	Mnemonic:	globals.go
	Abstract:	Package-level initialisation for the managers (engine) package:
				the package sheep and a handful of process-wide constants used
				by the scheduler and tickler.
	Date:		30 Jul 2026
	Author:		E. Scott Daniels
*/

package managers

import (
	"os"

	"github.com/att/gopkgs/bleater"
)

var (
	eng_sheep *bleater.Bleater // sheep the engine bleats through
)

func init() {
	eng_sheep = bleater.Mk_bleater(0, os.Stderr)
	eng_sheep.Set_prefix("managers")
}

/*
	Get_sheep returns the package's sheep so main can attach it to the
	master sheep, matching gizmos.Get_sheep's convention.
*/
func Get_sheep() *bleater.Bleater { return eng_sheep }

func Set_bleat_level(v uint) { eng_sheep.Set_level(v) }
