package cleaner

// Removal rules are data so new watermark signatures can be added without
// touching the cleaning logic.

// invisibleChars are zero-width and directional characters injected by some
// sites to defeat copy detection.
var invisibleChars = []rune{
	'\u200b', '\u200c', '\u200d', '\ufeff', '\u00ad', '\u2060', '\u180e',
	'\u200e', '\u200f', '\u202a', '\u202b', '\u202c', '\u202d', '\u202e',
}

// removeSelector matches elements that never belong in chapter text.
const removeSelector = "script, style, embed, object, form, input, button, textarea, iframe, ins"

// adDivClasses flags ad-container divs for structural removal.
var adDivClasses = map[string]bool{
	"txtad":         true,
	"ad":            true,
	"ads":           true,
	"advertisement": true,
	"adsbygoogle":   true,
}

// defaultWatermarks are site-injected promo phrases and obfuscated URLs.
// Patterns are bounded (no unanchored .*) so removal stays local to the
// watermark itself.
var defaultWatermarks = []string{
	// Chinese promo phrases
	`本書由.{0,30}首發`,
	`本文由.{0,30}首發`,
	`本書首發.{0,80}`,
	`正版請.{0,30}閱讀`,
	`請到.{0,30}閱讀`,
	`最新章節.{0,30}閱讀`,
	`手機閱讀.{0,50}`,
	`訪問下載.{0,50}`,
	`更多精彩.{0,50}`,
	`歡迎廣大書友.{0,50}`,
	`喜歡請收藏.{0,50}`,
	`請記住本書.{0,50}`,
	`百度搜索.{0,50}`,
	`最快更新.{0,50}`,
	`無彈窗.{0,30}`,
	`關注公眾號.{0,50}`,
	`微信公眾號.{0,50}`,
	`掃碼關注.{0,50}`,
	`點擊下載.{0,50}`,
	`APP下載.{0,50}`,
	`提供給你無錯章節.{0,50}`,
	`台灣小說網.{0,30}`,
	`(?i)twkan\.com`,
	`(?i)69shuba?\.(?:com|cx|pro)`,
	`(?i)uukanshu\.cc`,

	// Obfuscated URLs: fullwidth alphanumerics (ａｂｃ．ｃｏｍ style),
	// with either an ASCII or fullwidth dot
	`[ａ-ｚＡ-Ｚ０-９]+[.．][ａ-ｚＡ-Ｚ]+`,
	// Mathematical alphanumeric symbols block (double-struck, sans-serif,
	// monospace and friends all live in this range)
	`[\x{1D400}-\x{1D7FF}]+[.．][\x{1D400}-\x{1D7FF}]+`,
	// Arrow pointing at a stylized URL
	`→\s*[\x{1D400}-\x{1D7FF}ａ-ｚＡ-Ｚ０-９]+[.．][\x{1D400}-\x{1D7FF}ａ-ｚＡ-Ｚ]+`,
}
