package ustr

// Canonicalize collapses "." and ".." components out of an absolute
// path, the way a process's cwd is kept in canonical form so later
// comparisons (e.g. "did rename cross a mount point") can be done by
// straight byte comparison instead of re-walking the filesystem. p is
// assumed absolute; a leading ".." past the root is discarded rather
// than erroring, matching shell behavior.
func Canonicalize(p Ustr) Ustr {
	toks := p.Tokens()
	out := make([]Ustr, 0, len(toks))
	for _, t := range toks {
		switch {
		case t.Isdot():
			continue
		case t.Isdotdot():
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, t)
		}
	}
	ret := MkUstrRoot()
	for i, t := range out {
		if i > 0 {
			ret = append(ret, '/')
		}
		ret = append(ret, t...)
	}
	return ret
}
