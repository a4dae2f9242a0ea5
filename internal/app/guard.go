package app

// guard is a re-entrancy token for a single event loop.
type guard struct {
	held bool
}

// Enter takes the token. It returns ok=false when the token is already
// held; otherwise release must be called, typically with defer, so the
// token is returned even if the guarded code panics.
func (g *guard) Enter() (release func(), ok bool) {
	if g.held {
		return func() {}, false
	}
	g.held = true
	return func() { g.held = false }, true
}
