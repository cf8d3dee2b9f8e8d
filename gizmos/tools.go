// vi: sw=4 ts=4:

/*

	Mnemonic:	tools
	Abstract:	General functions that don't warrant promotion to a dedicated
				file: key=value token mapping, used by main's "-C
				path.to.key=value" command-line override flag.

	Date:		10 March 2014
	Author:		E. Scott Daniels

	Mods:		13 May 2014 -- Added toks2map function.
				30 Jul 2026 -- Dropped Str2start_end/Mixtoks2map (no
					HTTP-style query surface survives in this kernel to
					use them; see DESIGN.md); kept Toks2map for -C parsing.
*/

package gizmos

import (
	"strings"
)

/*
	Parse a set of tokens passed in, assuming they are name=value pairs, and generate a map.
	Tokens that are not of the form key=value are ignored.
*/
func Toks2map( toks []string ) ( m map[string]*string ) {
	m = make( map[string]*string )

	for i := range toks {
		t := strings.SplitN( toks[i], "=", 2 )

		if len( t ) == 2 {
			m[t[0]] = &t[1]
		}
	}

	return
}

