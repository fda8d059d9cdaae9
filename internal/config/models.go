package config

import "fmt"

// ProjectConfig represents the per-project settings (proposal pattern,
// mailing list domain, KEYS file location)
type ProjectConfig struct {
	Name           string
	ProposalPrefix string
	Pattern        string
	Domain         string
	KeysURL        string
	VoteKeyword    string
	DiscussKeyword string
}

// CommittersConfig represents the configuration for the committer index
type CommittersConfig struct {
	Enabled       bool
	CachePath     string
	MaxAgeDays    int
	NameThreshold float64
}

// StoreConfig represents the configuration for the mention store
type StoreConfig struct {
	Type       string
	CSVPath    string
	SQLitePath string
	MySQLDSN   string
}

// knownProjects holds the built-in Apache project profiles
var knownProjects = map[string]ProjectConfig{
	"kafka": {
		Name:           "kafka",
		ProposalPrefix: "KIP",
		Pattern:        `(?i)KIP-(\d+)`,
		Domain:         "kafka.apache.org",
		KeysURL:        "https://downloads.apache.org/kafka/KEYS",
		VoteKeyword:    "VOTE",
		DiscussKeyword: "DISCUSS",
	},
	"flink": {
		Name:           "flink",
		ProposalPrefix: "FLIP",
		Pattern:        `(?i)FLIP-(\d+)`,
		Domain:         "flink.apache.org",
		KeysURL:        "https://downloads.apache.org/flink/KEYS",
		VoteKeyword:    "VOTE",
		DiscussKeyword: "DISCUSS",
	},
}

// GetProject returns the project configuration for the configured project name
func (c *Config) GetProject() (ProjectConfig, error) {
	name := c.GetString("project.name")
	project, ok := knownProjects[name]
	if !ok {
		return ProjectConfig{}, fmt.Errorf("unknown project: %s", name)
	}

	// Allow overrides from configuration
	if url := c.GetString("project.keys_url"); url != "" {
		project.KeysURL = url
	}
	if domain := c.GetString("project.domain"); domain != "" {
		project.Domain = domain
	}

	return project, nil
}

// GetCommitters returns the committer index configuration
func (c *Config) GetCommitters() CommittersConfig {
	return CommittersConfig{
		Enabled:       c.GetBool("committers.enabled"),
		CachePath:     c.GetString("committers.cache_path"),
		MaxAgeDays:    c.GetInt("committers.max_age_days"),
		NameThreshold: c.GetFloat64("committers.name_threshold"),
	}
}

// GetStore returns the mention store configuration
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Type:       c.GetString("store.type"),
		CSVPath:    c.GetString("store.csv_path"),
		SQLitePath: c.GetString("store.sqlite_path"),
		MySQLDSN:   c.GetString("store.mysql_dsn"),
	}
}
