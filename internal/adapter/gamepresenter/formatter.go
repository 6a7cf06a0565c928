package gamepresenter

import (
	"fmt"
	"strings"

	"github.com/moyansheep/chengyu-chain-bot/internal/game"
	"github.com/moyansheep/chengyu-chain-bot/internal/msgcat"
	"github.com/moyansheep/chengyu-chain-bot/pkg/gamedto"
)

// Formatter renders game DTOs into chat-ready Chinese text via the
// message catalog. Every render keeps a plain fallback so a broken
// override file never leaves the user without a reply.
type Formatter struct {
	cat *msgcat.Catalog
}

func NewFormatter(cat *msgcat.Catalog) *Formatter {
	return &Formatter{cat: cat}
}

func (f *Formatter) render(key string, data any, fallback string) string {
	if f.cat != nil {
		if out, err := f.cat.Render(key, data); err == nil {
			return out
		}
	}
	return fallback
}

func (f *Formatter) Move(m *gamedto.MoveReport) string {
	if m == nil {
		return ""
	}
	data := map[string]any{
		"Submitted": m.Submitted,
		"Current":   m.Current,
		"Next":      m.Next,
		"Awarded":   m.Awarded,
		"Score":     m.Score,
	}
	switch game.Outcome(m.Outcome) {
	case game.OutcomeSeeded:
		return f.render("chain.seeded", data,
			fmt.Sprintf("当前没有进行中的接龙，系统随机选择了一个成语：%s，请继续接龙。", m.Current))
	case game.OutcomeAccepted:
		return f.render("chain.accepted", data,
			fmt.Sprintf("接龙成功！下一个成语：%s", m.Next))
	case game.OutcomeUnknown:
		return f.render("chain.unknown", data,
			fmt.Sprintf("「%s」不在成语词典中。当前成语：%s", m.Submitted, m.Current))
	case game.OutcomeMismatch:
		return f.render("chain.mismatch", data,
			fmt.Sprintf("「%s」无法接上「%s」。", m.Submitted, m.Current))
	case game.OutcomeDeadEnd:
		return f.render("chain.dead_end", data,
			fmt.Sprintf("「%s」接得不错，但系统想不出下一个了。当前成语：%s", m.Submitted, m.Current))
	default:
		return m.Current
	}
}

func (f *Formatter) Current(snap *gamedto.SessionSnapshot) string {
	if snap == nil || !snap.Active {
		return f.render("chain.none", nil, "当前没有进行中的接龙，发送 #成语 开始。")
	}
	return f.render("chain.current", map[string]any{"Current": snap.Current},
		fmt.Sprintf("当前成语：%s", snap.Current))
}

func (f *Formatter) Reset(current string) string {
	return f.render("chain.reset", map[string]any{"Current": current},
		fmt.Sprintf("接龙已重置，新的成语：%s，请继续接龙。", current))
}

func (f *Formatter) Card(card *gamedto.IdiomCard) string {
	if card == nil {
		return ""
	}
	data := map[string]any{
		"Text":    card.Text,
		"Pinyin":  card.Pinyin,
		"Meaning": card.Meaning,
		"Source":  card.Source,
		"Example": card.Example,
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s（%s）", card.Text, card.Pinyin))
	if card.Meaning != "" {
		sb.WriteString("\n释义：" + card.Meaning)
	}
	if card.Source != "" {
		sb.WriteString("\n出处：" + card.Source)
	}
	if card.Example != "" {
		sb.WriteString("\n例句：" + card.Example)
	}
	return f.render("meaning.card", data, sb.String())
}

func (f *Formatter) CardNotFound(text string) string {
	return f.render("meaning.not_found", map[string]any{"Text": text},
		fmt.Sprintf("词典中没有找到「%s」。", text))
}

func (f *Formatter) Score(snap *gamedto.SessionSnapshot) string {
	if snap == nil {
		return ""
	}
	data := map[string]any{
		"Score":    snap.Score,
		"Errors":   snap.Errors,
		"Failures": snap.Failures,
	}
	return f.render("score.current", data,
		fmt.Sprintf("当前积分：%d 分（出错 %d 次，卡壳 %d 次）", snap.Score, snap.Errors, snap.Failures))
}

func (f *Formatter) Menu() string {
	return f.render("menu.text", nil, strings.Join([]string{
		"成语接龙指令：",
		"#成语 <成语>  提交接龙",
		"?查词 <成语>  查询释义",
		"#当前成语     查看当前成语",
		"#重置成语     重新开始接龙",
		"#积分         查看积分",
		"#菜单         显示本菜单",
	}, "\n"))
}
