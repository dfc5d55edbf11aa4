package config

const (
	defaultConfigFile      = "clashsub.toml"
	lockFileName           = ".clashsub.lock"
	defaultRoot            = "."
	defaultTemplate        = "template.yaml"
	defaultSubscriptions   = "subscriptions.txt"
	defaultFormat          = "format.txt"
	defaultReadme          = "README.md"
	defaultOutputDir       = "output"
	defaultProvidersDir    = "providers"
	defaultBranch          = "main"
	defaultRawBaseURL      = "https://raw.githubusercontent.com"
	defaultStrategy        = StrategyPlaceholder
	defaultURLPlaceholder  = "%%URL_PLACEHOLDER%%"
	defaultPathPlaceholder = "%%PATH_PLACEHOLDER%%"
	defaultURLKey          = "proxy-providers.proxy.url"
	defaultPathKey         = "proxy-providers.proxy.path"
	defaultFetchTimeout    = 30
	defaultUserAgent       = "clashsub/dev"
	defaultFetchMaxBytes   = 10 << 20
	defaultStartMarker     = "<!-- START_LINKS -->"
	defaultEndMarker       = "<!-- END_LINKS -->"
	defaultReadmeHeading   = "## 🔗 Ready-to-use config links (Raw)"
	defaultReadmeIntro     = "Copy the links below directly into Clash."
	defaultHistoryPath     = ".clashsub/history.db"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Template strategies.
const (
	StrategyPlaceholder = "placeholder"
	StrategyPath        = "path"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Root:          defaultRoot,
			Template:      defaultTemplate,
			Subscriptions: defaultSubscriptions,
			Format:        defaultFormat,
			Readme:        defaultReadme,
			OutputDir:     defaultOutputDir,
			ProvidersDir:  defaultProvidersDir,
		},
		Repository: Repository{
			Branch:     defaultBranch,
			RawBaseURL: defaultRawBaseURL,
		},
		Template: Template{
			Strategy:        defaultStrategy,
			URLPlaceholder:  defaultURLPlaceholder,
			PathPlaceholder: defaultPathPlaceholder,
			URLKey:          defaultURLKey,
			PathKey:         defaultPathKey,
		},
		Fetch: Fetch{
			TimeoutSeconds: defaultFetchTimeout,
			UserAgent:      defaultUserAgent,
			MaxBytes:       defaultFetchMaxBytes,
		},
		Readme: Readme{
			Enabled:     true,
			StartMarker: defaultStartMarker,
			EndMarker:   defaultEndMarker,
			Heading:     defaultReadmeHeading,
			Intro:       defaultReadmeIntro,
		},
		History: History{
			Path: defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
