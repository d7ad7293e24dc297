package lexer

import "github.com/aledsdavies/diamant/token"

// frame is one entry of the off-side layout stack: the keyword that
// opened the block and the column every subsequent item in that block
// must align to.
type frame struct {
	opener token.Type // DO, OF, LET, or WHERE
	column int
}

// closer returns the token type synthesized when this frame is closed
// by dedent or end-of-input: END for do/of/where, IN for let.
func (f frame) closer() token.Type {
	if f.opener == token.LET {
		return token.IN
	}
	return token.END
}
