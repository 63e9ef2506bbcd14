package newsdigest

// Site describes a news portal: where its listings live and which parts of
// it count as articles.
type Site struct {
	Name string `yaml:"name"`

	// BaseURL is the portal root used to resolve site-rooted links.
	BaseURL string `yaml:"baseUrl"`

	// APIBase is the root of the portal's JSON API.
	APIBase string `yaml:"apiBase"`

	// Collection is the JSON listing collection to read.
	Collection string `yaml:"collection"`

	// FeedURL is the RSS or Atom feed of the portal.
	FeedURL string `yaml:"feedUrl"`

	// Categories are scanned in order on the homepage.
	Categories []string `yaml:"categories"`

	// Exclude lists URL regexps dropped from every listing.
	Exclude []string `yaml:"exclude"`

	// Limit caps the number of candidates per run.
	Limit int `yaml:"limit"`
}

// DefaultSite returns the built-in Prothom Alo profile.
func DefaultSite() Site {
	return Site{
		Name:       "prothomalo",
		BaseURL:    "https://www.prothomalo.com",
		APIBase:    "https://www.prothomalo.com",
		Collection: "43749",
		FeedURL:    "https://www.prothomalo.com/feed/",
		Categories: []string{
			"bangladesh",
			"world",
			"economy",
			"sports",
			"entertainment",
			"opinion",
			"lifestyle",
			"technology",
		},
		Exclude: append([]string(nil), DefaultExcludes...),
		Limit:   DefaultLimit,
	}
}

// Validate returns an error if the site profile is unusable.
func (s *Site) Validate() error {
	if s.BaseURL == "" {
		return Errorf(EINVALID, "site base URL required")
	}
	if s.Limit < 0 {
		return Errorf(EINVALID, "site limit must not be negative")
	}
	return nil
}
