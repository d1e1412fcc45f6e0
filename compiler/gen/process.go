package gen

import (
	"go.uber.org/zap"

	"github.com/syssam/derive/compiler/diag"
	"github.com/syssam/derive/compiler/emit"
)

// Processor generates the units of single types. It holds no per-type
// state, so one processor serves concurrent calls.
type Processor struct {
	Header   string
	Sink     Sink
	Reporter diag.Reporter
	Logger   *zap.Logger
}

// Process runs capability c on t: select and order the members, write the
// intro, one body per member and the outro, then flush the unit to the sink
// exactly once. A sink failure is reported as an error against the type and
// ends the unit; it is not returned.
func (p *Processor) Process(t *Type, c Capability) (*Unit, bool) {
	ms := c.Collect(t, p.Reporter)
	u := NewUnit(t, c)
	u.Members = ms
	c.Intro(u, ms)
	for i, m := range ms {
		c.Body(u, m, i == 0)
	}
	c.Outro(u, ms)
	if err := p.flush(u); err != nil {
		p.report(diag.New(diag.SevError, t.Pos, t.Subject(), err.Error()))
		return u, false
	}
	p.logger().Debug("unit generated",
		zap.String("unit", u.Name),
		zap.Strings("members", Names(ms)),
	)
	return u, true
}

func (p *Processor) flush(u *Unit) (err error) {
	src := u.Source(p.Header)
	if formatted, ferr := emit.Format(u.File, src); ferr != nil {
		p.report(diag.Warningf(u.Type.Pos, u.Type.Subject(), "unit %s is not gofmt-clean: %v", u.Name, ferr))
	} else {
		src = formatted
	}
	w, err := p.Sink.Create(u)
	if err != nil {
		return NewGenerationError("create", u.Name, u.File, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			if IsGenerationError(cerr) {
				err = cerr
			} else {
				err = NewGenerationError("close", u.Name, u.File, cerr)
			}
		}
	}()
	if _, err := w.Write(src); err != nil {
		return NewGenerationError("write", u.Name, u.File, err)
	}
	return nil
}

func (p *Processor) report(d diag.Diagnostic) {
	if p.Reporter != nil {
		p.Reporter.Report(d)
	}
}

func (p *Processor) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
