package schema

import "time"

// CommitRecord is one commit from the log of a ref.
type CommitRecord struct {
	Hash      string     `json:"hash" yaml:"hash"`
	ShortHash string     `json:"short_hash" yaml:"short_hash"`
	Author    string     `json:"author" yaml:"author"`
	Date      time.Time  `json:"date" yaml:"date"`
	Message   string     `json:"message" yaml:"message"`
	Type      CommitType `json:"type" yaml:"type"`
}

// AuthorStats is the per-author part of a commit aggregation.
type AuthorStats struct {
	Count  int      `json:"count" yaml:"count"`
	Hashes []string `json:"hashes" yaml:"hashes"`
}

// CommitPattern is a repository-level convention detected in the commit messages.
type CommitPattern struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Ratio       float64 `json:"ratio" yaml:"ratio"`
}

// CommitAggregation summarizes the commits unique to the source ref.
type CommitAggregation struct {
	Total    int                    `json:"total" yaml:"total"`
	Commits  []CommitRecord         `json:"commits" yaml:"commits"`
	ByAuthor map[string]AuthorStats `json:"by_author" yaml:"by_author"`
	ByType   map[CommitType]int     `json:"by_type" yaml:"by_type"`
	Patterns []CommitPattern        `json:"patterns" yaml:"patterns"`
}
