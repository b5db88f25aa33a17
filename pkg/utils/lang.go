package utils

import (
	"github.com/abadojack/whatlanggo"
)

var whatLangOpts = whatlanggo.Options{
	Whitelist: map[whatlanggo.Lang]bool{
		whatlanggo.Eng: true,
		whatlanggo.Cmn: true,
		whatlanggo.Fra: true,
		whatlanggo.Deu: true,
		whatlanggo.Spa: true,
		whatlanggo.Por: true,
		whatlanggo.Rus: true,
		whatlanggo.Jpn: true,
	},
}

// WhatLang returns the ISO 639-1 code of the text's language, "" when unsure.
func WhatLang(text string) string {
	info := whatlanggo.DetectWithOptions(text, whatLangOpts)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
