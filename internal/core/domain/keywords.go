package domain

import "strings"

// languageKeywords biases searches toward everyday, locally flavoured shorts
// when a job does not carry its own query.
var languageKeywords = map[string]string{
	"DE": "lustige videos OR viral deutschland OR tiktok deutschland OR deutsche trends OR alltag deutschland OR deutsche memes",
	"EN": "funny moments OR epic fails OR life hacks OR viral videos OR daily vlog OR trending US OR british humor",
	"FR": "vidéos drôles OR insolite OR humour français OR tendances france OR vie quotidienne france OR blagues françaises",
	"ID": "video lucu OR prank indonesia OR viral indonesia OR konten kreator OR kehidupan sehari-hari OR cerita lucu",
	"IT": "video divertenti OR momenti divertenti OR virali italia OR vita quotidiana OR scherzi italiani OR trend italia",
	"JA": "面白い動画 OR バイラル OR ドッキリ OR 日常風景 OR 爆笑動画 OR トレンド動画 OR 人気動画",
	"KO": "웃긴영상 OR 예능 OR 유머 OR 바이럴 OR 일상 브이로그 OR 코미디 OR 트렌드",
	"PT": "vídeos engraçados OR pegadinhas OR viral brasil OR dia a dia OR humor brasileiro OR trends brasil",
	"RU": "смешные видео OR приколы OR вайны OR тренды OR повседневная жизнь OR юмор OR развлечения",
	"TH": "คลิปตลก OR ไวรัล OR ความบันเทิง OR ฮาๆ OR ชีวิตประจำวัน OR เรื่องฮาๆ OR ติ๊กต็อก",
	"TR": "komik videolar OR viral türkiye OR eğlenceli anlar OR günlük yaşam OR türk mizah OR trend videolar",
	"VI": "video hài hước OR hài việt nam OR clip vui OR viral OR cuộc sống hàng ngày OR giải trí OR xu hướng",
}

// LanguageKeywords returns the built-in keyword expression for a language
// code, or "" if none is known.
func LanguageKeywords(language string) string {
	return languageKeywords[strings.ToUpper(strings.TrimSpace(language))]
}
