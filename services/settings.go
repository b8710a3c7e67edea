package services

import "github.com/rpupo63/tagblog/config"

// Settings are the tunable limits of the blog.
type Settings struct {
	PageSize       int
	MaxSearchTerms int
	TitleRequired  bool
	MaxTitleLength int
	MaxTagLength   int
}

// DefaultSettings: ten posts per page, at most eleven search terms, and
// 80 character titles and tag names.
func DefaultSettings() Settings {
	return Settings{
		PageSize:       10,
		MaxSearchTerms: 11,
		TitleRequired:  true,
		MaxTitleLength: 80,
		MaxTagLength:   80,
	}
}

// SettingsFromConfig reads PAGE_SIZE, MAX_SEARCH_TERMS and
// POST_TITLE_REQUIRED over the defaults.
func SettingsFromConfig(c map[string]string) Settings {
	s := DefaultSettings()
	s.PageSize = config.GetPositiveInt(c, "PAGE_SIZE", s.PageSize)
	s.MaxSearchTerms = config.GetPositiveInt(c, "MAX_SEARCH_TERMS", s.MaxSearchTerms)
	s.TitleRequired = config.GetBool(c, "POST_TITLE_REQUIRED", s.TitleRequired)
	return s
}
