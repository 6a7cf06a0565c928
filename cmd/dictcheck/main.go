// dictcheck validates an idiom dictionary file and reports how well it
// chains: how many idioms have no continuation by exact character, and
// how many remain stuck even with the pinyin fallback.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/moyansheep/chengyu-chain-bot/internal/dict"
)

func main() {
	path := flag.String("dict", "", "path to a TSV dictionary (empty = embedded dataset)")
	verbose := flag.Bool("v", false, "list every dead-end idiom")
	flag.Parse()

	ix, err := dict.LoadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dictcheck: %v\n", err)
		os.Exit(1)
	}

	var charDead, phoneticDead []string
	for _, text := range ix.Texts() {
		rec, _ := ix.Lookup(text)
		byChar := continuations(ix.StartingWithChar(rec.TailChar()), text)
		bySyll := continuations(ix.StartingWithSyllable(rec.TailSyllable()), text)
		if byChar == 0 {
			charDead = append(charDead, text)
			if bySyll == 0 {
				phoneticDead = append(phoneticDead, text)
			}
		}
	}

	fmt.Printf("idioms:                %d\n", ix.Size())
	fmt.Printf("dead ends (character): %d\n", len(charDead))
	fmt.Printf("dead ends (phonetic):  %d\n", len(phoneticDead))
	if ix.Size() > 0 {
		fmt.Printf("chainable ratio:       %.1f%%\n",
			100*float64(ix.Size()-len(phoneticDead))/float64(ix.Size()))
	}

	if *verbose {
		for _, text := range phoneticDead {
			rec, _ := ix.Lookup(text)
			fmt.Printf("  %s (%s)\n", text, rec.Pinyin)
		}
	}
}

// continuations counts candidates excluding the idiom itself.
func continuations(candidates []string, self string) int {
	n := 0
	for _, c := range candidates {
		if c != self {
			n++
		}
	}
	return n
}
