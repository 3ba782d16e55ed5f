// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

const (
	// DefaultConfigDir is the default configuration directory
	DefaultConfigDir = ".hivemind/configs"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.json"
)

// Load reads configuration from ~/.hivemind/configs/config.json
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, DefaultConfigDir)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(configPath)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use defaults
			return loadFromDefaults(v)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromPath loads configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)

	// Database defaults
	v.SetDefault("database.type", "sqlite")
	homeDir, _ := os.UserHomeDir()
	v.SetDefault("database.sqlite_path", filepath.Join(homeDir, ".hivemind/db/hivemind.db"))
	v.SetDefault("database.log_level", "warn")

	// Engine defaults
	v.SetDefault("engine.refresh_interval_minutes", 5)

	v.SetDefault("engine.search.similarity_weight", 0.7)
	v.SetDefault("engine.search.quality_weight", 0.3)
	v.SetDefault("engine.search.min_corpus_size", 3)
	v.SetDefault("engine.search.default_limit", 10)

	v.SetDefault("engine.quality.success_weight", 0.40)
	v.SetDefault("engine.quality.usage_weight", 0.20)
	v.SetDefault("engine.quality.upvote_weight", 0.20)
	v.SetDefault("engine.quality.verified_weight", 0.10)
	v.SetDefault("engine.quality.age_weight", 0.05)
	v.SetDefault("engine.quality.recency_weight", 0.05)

	v.SetDefault("engine.graph.category_coefficient", 0.25)
	v.SetDefault("engine.graph.tag_coefficient", 0.35)
	v.SetDefault("engine.graph.keyword_coefficient", 0.25)
	v.SetDefault("engine.graph.title_coefficient", 0.15)
	v.SetDefault("engine.graph.min_edge_weight", 0.10)
	v.SetDefault("engine.graph.max_pairs", 200000)
	v.SetDefault("engine.graph.workers", 0)

	v.SetDefault("engine.reputation.knowledge_quality_weight", 0.30)
	v.SetDefault("engine.reputation.problem_solving_weight", 0.25)
	v.SetDefault("engine.reputation.collaboration_weight", 0.20)
	v.SetDefault("engine.reputation.decision_quality_weight", 0.15)
	v.SetDefault("engine.reputation.consistency_weight", 0.10)

	v.SetDefault("engine.impact.knowledge_impact_weight", 0.30)
	v.SetDefault("engine.impact.problem_impact_weight", 0.25)
	v.SetDefault("engine.impact.solution_impact_weight", 0.20)
	v.SetDefault("engine.impact.quality_impact_weight", 0.15)
	v.SetDefault("engine.impact.collaboration_impact_weight", 0.10)
}

// loadFromDefaults creates a config from default values
func loadFromDefaults(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
	}
	return &cfg, nil
}

// weight validates a single score weight
var weight = []validation.Rule{validation.Min(0.0), validation.Max(1.0)}

// sumsToOne verifies a weight group forms a convex blend
func sumsToOne(weights ...float64) validation.RuleFunc {
	return func(interface{}) error {
		sum := 0.0
		for _, w := range weights {
			sum += w
		}
		if math.Abs(sum-1.0) > 1e-6 {
			return fmt.Errorf("weights must sum to 1, got %.4f", sum)
		}
		return nil
	}
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if err := validation.ValidateStruct(&cfg.Server,
		validation.Field(&cfg.Server.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	if err := validation.ValidateStruct(&cfg.Database,
		validation.Field(&cfg.Database.Type, validation.Required, validation.In("sqlite", "postgres")),
	); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is required when type is 'sqlite'")
	}
	if cfg.Database.Type == "postgres" && cfg.Database.PostgresDSN == "" {
		return fmt.Errorf("database.postgres_dsn is required when type is 'postgres'")
	}

	e := &cfg.Engine
	if e.RefreshInterval < 1 {
		return fmt.Errorf("engine.refresh_interval_minutes must be at least 1, got %d", e.RefreshInterval)
	}

	if err := validation.ValidateStruct(&e.Search,
		validation.Field(&e.Search.SimilarityWeight, weight...),
		validation.Field(&e.Search.QualityWeight, weight...),
		validation.Field(&e.Search.MinCorpusSize, validation.Min(1)),
		validation.Field(&e.Search.DefaultLimit, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("engine.search: %w", err)
	}
	if err := validation.Validate(&e.Search,
		validation.By(sumsToOne(e.Search.SimilarityWeight, e.Search.QualityWeight))); err != nil {
		return fmt.Errorf("engine.search: %w", err)
	}

	q := &e.Quality
	if err := validation.ValidateStruct(q,
		validation.Field(&q.SuccessWeight, weight...),
		validation.Field(&q.UsageWeight, weight...),
		validation.Field(&q.UpvoteWeight, weight...),
		validation.Field(&q.VerifiedWeight, weight...),
		validation.Field(&q.AgeWeight, weight...),
		validation.Field(&q.RecencyWeight, weight...),
	); err != nil {
		return fmt.Errorf("engine.quality: %w", err)
	}
	if err := validation.Validate(q, validation.By(sumsToOne(
		q.SuccessWeight, q.UsageWeight, q.UpvoteWeight,
		q.VerifiedWeight, q.AgeWeight, q.RecencyWeight))); err != nil {
		return fmt.Errorf("engine.quality: %w", err)
	}

	g := &e.Graph
	if err := validation.ValidateStruct(g,
		validation.Field(&g.CategoryCoefficient, weight...),
		validation.Field(&g.TagCoefficient, weight...),
		validation.Field(&g.KeywordCoefficient, weight...),
		validation.Field(&g.TitleCoefficient, weight...),
		validation.Field(&g.MinEdgeWeight, weight...),
		validation.Field(&g.MaxPairs, validation.Min(0)),
		validation.Field(&g.Workers, validation.Min(0)),
	); err != nil {
		return fmt.Errorf("engine.graph: %w", err)
	}
	if err := validation.Validate(g, validation.By(sumsToOne(
		g.CategoryCoefficient, g.TagCoefficient, g.KeywordCoefficient, g.TitleCoefficient))); err != nil {
		return fmt.Errorf("engine.graph: %w", err)
	}

	r := &e.Reputation
	if err := validation.Validate(r, validation.By(sumsToOne(
		r.KnowledgeQualityWeight, r.ProblemSolvingWeight, r.CollaborationWeight,
		r.DecisionQualityWeight, r.ConsistencyWeight))); err != nil {
		return fmt.Errorf("engine.reputation: %w", err)
	}

	i := &e.Impact
	if err := validation.Validate(i, validation.By(sumsToOne(
		i.KnowledgeImpactWeight, i.ProblemImpactWeight, i.SolutionImpactWeight,
		i.QualityImpactWeight, i.CollaborationImpactWeight))); err != nil {
		return fmt.Errorf("engine.impact: %w", err)
	}

	return nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, DefaultConfigDir)
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Type:       "sqlite",
			SQLitePath: filepath.Join(homeDir, ".hivemind/db/hivemind.db"),
			LogLevel:   "warn",
		},
		Engine: EngineConfig{
			RefreshInterval: 5,
			Search: SearchConfig{
				SimilarityWeight: 0.7,
				QualityWeight:    0.3,
				MinCorpusSize:    3,
				DefaultLimit:     10,
			},
			Quality: QualityConfig{
				SuccessWeight:  0.40,
				UsageWeight:    0.20,
				UpvoteWeight:   0.20,
				VerifiedWeight: 0.10,
				AgeWeight:      0.05,
				RecencyWeight:  0.05,
			},
			Graph: GraphConfig{
				CategoryCoefficient: 0.25,
				TagCoefficient:      0.35,
				KeywordCoefficient:  0.25,
				TitleCoefficient:    0.15,
				MinEdgeWeight:       0.10,
				MaxPairs:            200000,
			},
			Reputation: ReputationConfig{
				KnowledgeQualityWeight: 0.30,
				ProblemSolvingWeight:   0.25,
				CollaborationWeight:    0.20,
				DecisionQualityWeight:  0.15,
				ConsistencyWeight:      0.10,
			},
			Impact: ImpactConfig{
				KnowledgeImpactWeight:     0.30,
				ProblemImpactWeight:       0.25,
				SolutionImpactWeight:      0.20,
				QualityImpactWeight:       0.15,
				CollaborationImpactWeight: 0.10,
			},
		},
	}
}
