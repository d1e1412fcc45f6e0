package gen

import (
	"github.com/syssam/derive/compiler/diag"
)

// MsgCollision is reported on a type whose unit would replace the file or
// the function of the unit of an earlier type.
const MsgCollision = "%s unit %s would overwrite %s of %s; rename one of the types"

// claims hands out generated files and function names to units, first come
// first served.
type claims struct {
	out    OutputConfig
	owners map[string]*Type
}

func newClaims(out OutputConfig) *claims {
	return &claims{out: out, owners: make(map[string]*Type)}
}

// claim reserves the file and the function name of the unit of c for t. It
// reports an error and returns false when an earlier type holds either.
func (cl *claims) claim(t *Type, c Capability, r diag.Reporter) bool {
	base := t.FileName(c.FileSuffix())
	file := cl.out.Path(t.Dir, base)
	fn := t.Package + "\x00" + c.Name() + "\x00" + t.ExportedName()
	for _, key := range []struct{ id, what string }{{"file\x00" + file, base}, {"func\x00" + fn, "the function"}} {
		if prev, ok := cl.owners[key.id]; ok {
			r.Report(diag.Errorf(t.Pos, t.Subject(), MsgCollision, c.Title(), t.UnitName(c.Suffix()), key.what, prev.Subject()))
			return false
		}
	}
	cl.owners["file\x00"+file] = t
	cl.owners["func\x00"+fn] = t
	return true
}
