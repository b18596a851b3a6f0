package ustr

// Tokens splits a path on runs of '/', dropping empty components. Both
// a nil and an empty Ustr yield zero tokens -- namev's walkers must
// accept either sentinel for "no more path".
func (us Ustr) Tokens() []Ustr {
	var toks []Ustr
	i := 0
	for i < len(us) {
		for i < len(us) && us[i] == '/' {
			i++
		}
		start := i
		for i < len(us) && us[i] != '/' {
			i++
		}
		if i > start {
			toks = append(toks, us[start:i])
		}
	}
	return toks
}
