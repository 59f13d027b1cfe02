package search

// Built-in term lists. Deployments extend or replace them through
// BANNED_TERMS_FILE / ADULT_KEYWORDS_FILE (one term per line).

func defaultBannedTerms() []string {
	return []string{
		"法轮功",
		"六四事件",
	}
}

func defaultAdultKeywords() []string {
	return []string{
		"伦理片",
		"福利",
		"里番动漫",
		"门事件",
		"萝莉",
		"制服诱惑",
		"国产传媒",
		"cosplay",
		"黑丝",
		"无码",
		"日本无码",
		"有码",
		"日本有码",
		"swag",
		"网红主播",
		"色情片",
		"同性片",
		"福利视频",
		"福利片",
	}
}
