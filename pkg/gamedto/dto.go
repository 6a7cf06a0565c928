// Package gamedto carries the idiom game's transport-neutral result types.
package gamedto

// MoveReport describes the outcome of one submitted idiom.
type MoveReport struct {
	Outcome   string
	Submitted string
	Current   string
	Next      string
	Awarded   int
	Score     int
}

// SessionSnapshot is the user's standing: chain head plus tallies.
type SessionSnapshot struct {
	Current  string
	Active   bool
	Errors   int
	Failures int
	Score    int
}

// IdiomCard is the dictionary entry shown for a lookup. Source and
// Example may be empty.
type IdiomCard struct {
	Text    string
	Pinyin  string
	Meaning string
	Source  string
	Example string
}
