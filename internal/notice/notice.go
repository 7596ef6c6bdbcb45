// Package notice renders the user-visible messages the simulation sends to
// the entity they concern.
package notice

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	TooTired        = "too_tired"
	CastCancelled   = "cast_cancelled"
	TooFarAway      = "too_far_away"
	NotInView       = "not_in_view"
	Interrupted     = "interrupted"
	ReadyToFire     = "ready_to_fire"
	CastWhileRanged = "cast_while_ranged"
	TargetLost      = "target_lost"
	TargetDead      = "target_dead"
)

var supported = []language.Tag{language.English, language.TraditionalChinese}

var messages = map[language.Tag]map[string]string{
	language.English: {
		TooTired:        "You are too tired to hold your shot any longer!",
		CastCancelled:   "Your %s spell is cancelled.",
		TooFarAway:      "%s is too far away to attack!",
		NotInView:       "You can't see your target!",
		Interrupted:     "You are interrupted!",
		ReadyToFire:     "You are ready to fire.",
		CastWhileRanged: "You can't cast while using a ranged weapon!",
		TargetLost:      "You lose track of your target.",
		TargetDead:      "Your target is already dead.",
	},
	language.TraditionalChinese: {
		TooTired:        "你已經太累了，無法再維持瞄準！",
		CastCancelled:   "你的%s法術被取消了。",
		TooFarAway:      "%s距離太遠，無法攻擊！",
		NotInView:       "你看不到你的目標！",
		Interrupted:     "你被打斷了！",
		ReadyToFire:     "你已準備好射擊。",
		CastWhileRanged: "使用遠程武器時無法施法！",
		TargetLost:      "你失去了目標的蹤跡。",
		TargetDead:      "你的目標已經死亡。",
	},
}

// Catalog renders notices in one language.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// New builds a catalog for lang (a BCP 47 tag). Unknown or unsupported
// languages fall back to English.
func New(lang string) *Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			// keys and messages are static; SetString only fails on bad tags
			_ = b.SetString(tag, key, msg)
		}
	}
	tag := language.English
	if want, err := language.Parse(lang); err == nil {
		_, idx, conf := language.NewMatcher(supported).Match(want)
		if conf != language.No {
			tag = supported[idx]
		}
	}
	return &Catalog{tag: tag, printer: message.NewPrinter(tag, message.Catalog(b))}
}

// Language returns the tag notices are rendered in.
func (c *Catalog) Language() language.Tag { return c.tag }

// Text renders key with args.
func (c *Catalog) Text(key string, args ...any) string {
	return c.printer.Sprintf(key, args...)
}
