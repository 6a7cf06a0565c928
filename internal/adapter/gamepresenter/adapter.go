package gamepresenter

import (
	"github.com/moyansheep/chengyu-chain-bot/internal/dict"
	"github.com/moyansheep/chengyu-chain-bot/internal/game"
	"github.com/moyansheep/chengyu-chain-bot/internal/store"
	"github.com/moyansheep/chengyu-chain-bot/pkg/gamedto"
)

func ToDTOMove(r *game.SubmitResult) *gamedto.MoveReport {
	if r == nil {
		return nil
	}
	return &gamedto.MoveReport{
		Outcome:   string(r.Outcome),
		Submitted: r.Submitted,
		Current:   r.Current,
		Next:      r.Next,
		Awarded:   r.Awarded,
		Score:     r.Score,
	}
}

func ToDTOSnapshot(current string, active bool, c store.Counters, score int) *gamedto.SessionSnapshot {
	return &gamedto.SessionSnapshot{
		Current:  current,
		Active:   active,
		Errors:   c.Errors,
		Failures: c.Failures,
		Score:    score,
	}
}

func ToDTOCard(rec *dict.Record) *gamedto.IdiomCard {
	if rec == nil {
		return nil
	}
	return &gamedto.IdiomCard{
		Text:    rec.Text,
		Pinyin:  rec.Pinyin,
		Meaning: rec.Meaning,
		Source:  rec.Source,
		Example: rec.Example,
	}
}
