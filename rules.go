package jobtext

import "regexp"

// UniversalRules returns the rule set applied to every scraped page.
func UniversalRules() RuleSet {
	return RuleSet{Name: "universal", Rules: []Rule{
		{
			Name:    "style-blocks",
			Stage:   StageStructural,
			Pattern: regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`),
		},
		{
			Name:    "script-blocks",
			Stage:   StageStructural,
			Pattern: regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		},
		{
			Name:    "stray-tags",
			Stage:   StageStructural,
			Pattern: regexp.MustCompile(`(?i)</?(?:style|script|noscript|link|meta)[^>]*>`),
		},
		{
			Name:    "css-blocks",
			Stage:   StageStructural,
			Pattern: regexp.MustCompile(`(?m)^[ \t]*[.#@:]?[A-Za-z_][\w\-.#:>,\[\]="' \t]*\{[^{}]*;[^{}]*\}[ \t]*$`),
		},
		{
			Name:    "urls",
			Stage:   StageAssets,
			Pattern: regexp.MustCompile(`https?://[^\s<>"')\]]+`),
		},
		{
			Name:    "font-assets",
			Stage:   StageAssets,
			Pattern: regexp.MustCompile(`(?i)[\w\-./]*\.(?:woff2?|ttf|otf|eot)(?:\?[^\s]*)?`),
		},
		{
			Name:        "trailing-spaces",
			Stage:       StageWhitespace,
			Pattern:     regexp.MustCompile(`[ \t]+\n`),
			Replacement: "\n",
		},
		{
			Name:        "blank-lines",
			Stage:       StageWhitespace,
			Pattern:     regexp.MustCompile(`\n{4,}`),
			Replacement: "\n\n",
		},
		{
			Name:        "space-runs",
			Stage:       StageWhitespace,
			Pattern:     regexp.MustCompile(` {3,}`),
			Replacement: " ",
		},
		{
			Name:    "copyright-lines",
			Stage:   StageBoilerplate,
			Pattern: regexp.MustCompile(`(?im)^.*(?:©|\(c\)|copyright)\s*(?:\d{4}|all rights reserved).*$`),
		},
		{
			Name:    "cookie-notices",
			Stage:   StageBoilerplate,
			Pattern: regexp.MustCompile(`(?im)^.*(?:we use cookies|this (?:site|website) uses cookies|cookie (?:preferences|settings|policy)|accept (?:all )?cookies|manage cookies).*$`),
		},
		{
			Name:    "browse-by",
			Stage:   StageBoilerplate,
			Pattern: regexp.MustCompile(`(?im)^[ \t]*browse (?:jobs |roles )?by\b.*$`),
		},
		{
			Name:     "similar-jobs",
			Stage:    StageBoilerplate,
			Pattern:  regexp.MustCompile(`(?im)^[ \t]*(?:similar (?:jobs|positions|roles)|more jobs like this|jobs you may like|related jobs)[ \t]*:?[ \t]*$`),
			Truncate: true,
		},
		{
			Name:     "faq",
			Stage:    StageBoilerplate,
			Pattern:  regexp.MustCompile(`(?im)^[ \t]*(?:faqs?|frequently asked questions)[ \t]*:?[ \t]*$`),
			Truncate: true,
		},
		{
			Name:     "testimonials",
			Stage:    StageBoilerplate,
			Pattern:  regexp.MustCompile(`(?im)^[ \t]*(?:testimonials|what (?:our )?(?:employees|people|team members) (?:say|are saying))[ \t]*:?[ \t]*$`),
			Truncate: true,
		},
		{
			// Boilerplate removals leave blank runs behind; collapse them on
			// the same pass.
			Name:        "blank-lines-after-trim",
			Stage:       StageBoilerplate,
			Pattern:     regexp.MustCompile(`\n{4,}`),
			Replacement: "\n\n",
		},
	}}
}

// LinkedInRules returns the extra rules for LinkedIn pages.
func LinkedInRules() []Rule {
	return []Rule{
		{
			Name:    "linkedin-chrome",
			Stage:   StageSite,
			Pattern: regexp.MustCompile(`(?im)^[ \t]*(?:home|my network|jobs|messaging|notifications|me|for business|skip to (?:main )?content|show more|show less|see more|see less|save|easy apply|apply|try premium.*|reactivate premium.*|\d+ notifications?.*)[ \t]*$`),
		},
		{
			Name:    "linkedin-messaging-overlay",
			Stage:   StageSite,
			Pattern: regexp.MustCompile(`(?im)^.*(?:messaging overlay|you are on the messaging overlay|press (?:enter|return) to open|compose message).*$`),
		},
		{
			Name:    "linkedin-closed",
			Stage:   StageSite,
			Pattern: regexp.MustCompile(`(?im)^.*no longer accepting applications.*$`),
		},
		{
			Name:     "linkedin-conversation",
			Stage:    StageSite,
			Pattern:  regexp.MustCompile(`(?i)closing a conversation`),
			Truncate: true,
		},
	}
}

// Rules holds the normalization rule sets by site.
type Rules struct {
	Universal RuleSet
	Sites     map[SiteKind][]Rule
}

// DefaultRules returns the built-in normalization rules.
func DefaultRules() Rules {
	return Rules{
		Universal: UniversalRules(),
		Sites: map[SiteKind][]Rule{
			SiteLinkedIn: LinkedInRules(),
		},
	}
}

// For returns the rule set used for pages of kind.
func (r Rules) For(kind SiteKind) RuleSet {
	return r.Universal.With(string(kind), r.Sites[kind]...)
}

// FieldSelectors lists, per logical posting field, the ordered selectors
// tried by structured extraction.
type FieldSelectors struct {
	Title        []string `yaml:"title"`
	Compensation []string `yaml:"compensation"`
	Location     []string `yaml:"location"`
	Description  []string `yaml:"description"`
}

// Selectors holds the DOM tables used by scraping strategies.
type Selectors struct {
	// Structured maps a site to its field selectors.
	Structured map[SiteKind]FieldSelectors

	// Markers maps a site to the ordered trailing-boilerplate phrases at
	// which its page text is cut.
	Markers map[SiteKind][]string

	// Noise lists subtrees removed before text is read.
	Noise []string

	// Regions lists candidate content regions in priority order.
	Regions []string

	// Main lists the main-content region used when no field selector matches.
	Main []string
}

// DefaultSelectors returns the built-in selector tables.
func DefaultSelectors() Selectors {
	return Selectors{
		Structured: map[SiteKind]FieldSelectors{
			SiteWellfound: {
				Title: []string{
					`h1[class*="title"]`,
					`[data-test*="JobTitle"]`,
					`h1`,
				},
				Compensation: []string{
					`[class*="compensation"]`,
					`[class*="salary"]`,
					`[data-test*="Compensation"]`,
					`span[class*="text-neutral"]`,
				},
				Location: []string{
					`[class*="location"]`,
					`[data-test*="Location"]`,
				},
				Description: []string{
					`[data-test="JobDescription"]`,
					`[class*="description"]`,
					`[class*="styles_description"]`,
					`div[class*="job-description"]`,
				},
			},
			SiteLinkedIn: {
				Title: []string{
					`.job-details-jobs-unified-top-card__job-title`,
					`.jobs-unified-top-card__job-title`,
					`.top-card-layout__title`,
					`h1`,
				},
				Compensation: []string{
					`.job-details-jobs-unified-top-card__job-insight`,
					`.salary`,
					`.compensation__salary`,
				},
				Location: []string{
					`.job-details-jobs-unified-top-card__bullet`,
					`.jobs-unified-top-card__bullet`,
					`.topcard__flavor--bullet`,
				},
				Description: []string{
					`#job-details`,
					`.jobs-description__content`,
					`.jobs-box__html-content`,
					`.description__text`,
					`.show-more-less-html__markup`,
				},
			},
		},
		Markers: map[SiteKind][]string{
			SiteRemoteRocketship: {
				"Similar Jobs",
				"Get notified when new jobs",
				"Remote Rocketship",
				"Apply to hundreds of remote jobs",
			},
		},
		Noise: []string{
			"script", "style", "noscript", "template", "svg", "iframe",
			"nav", "header", "footer",
			"button", "form", "input", "select", "textarea",
			`[aria-hidden="true"]`, `[hidden]`,
			`[id*="cookie"]`, `[class*="cookie"]`, `[id*="consent"]`, `[class*="consent"]`,
			`[class*="similar"]`, `[class*="related-jobs"]`, `[class*="recommended"]`,
			".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
		},
		Regions: []string{
			"main",
			"article",
			`[role="main"]`,
			"#content",
			".content",
			`[class*="job-description"]`,
			`[class*="jobDescription"]`,
			`[class*="posting"]`,
			`[id*="job"]`,
		},
		Main: []string{
			"main",
			`[role="main"]`,
			"article",
			"body",
		},
	}
}

// Thresholds are the minimum-content bars of the scraping strategies,
// counted in runes.
type Thresholds struct {
	MinDescriptionLength int
	MinMarkerLength      int
	MinRegionLength      int
}
