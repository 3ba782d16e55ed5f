// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"github.com/hivemind-ai/intelligence/internal/database"
	"github.com/hivemind-ai/intelligence/internal/engine"
	"github.com/hivemind-ai/intelligence/internal/graph"
	"github.com/hivemind-ai/intelligence/internal/reputation"
	"github.com/hivemind-ai/intelligence/internal/scoring"
	"github.com/hivemind-ai/intelligence/internal/search"
	"gorm.io/gorm/logger"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Engine   EngineConfig   `mapstructure:"engine"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Type        string `mapstructure:"type"` // "sqlite" or "postgres"
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
	LogLevel    string `mapstructure:"log_level"`
}

// EngineConfig tunes the analytics engine
type EngineConfig struct {
	RefreshInterval int              `mapstructure:"refresh_interval_minutes"`
	Search          SearchConfig     `mapstructure:"search"`
	Quality         QualityConfig    `mapstructure:"quality"`
	Graph           GraphConfig      `mapstructure:"graph"`
	Reputation      ReputationConfig `mapstructure:"reputation"`
	Impact          ImpactConfig     `mapstructure:"impact"`
}

// SearchConfig tunes the search ranking blend
type SearchConfig struct {
	SimilarityWeight float64 `mapstructure:"similarity_weight"`
	QualityWeight    float64 `mapstructure:"quality_weight"`
	MinCorpusSize    int     `mapstructure:"min_corpus_size"`
	DefaultLimit     int     `mapstructure:"default_limit"`
}

// QualityConfig tunes the entry quality composite. The six weights must
// sum to 1.
type QualityConfig struct {
	SuccessWeight  float64 `mapstructure:"success_weight"`
	UsageWeight    float64 `mapstructure:"usage_weight"`
	UpvoteWeight   float64 `mapstructure:"upvote_weight"`
	VerifiedWeight float64 `mapstructure:"verified_weight"`
	AgeWeight      float64 `mapstructure:"age_weight"`
	RecencyWeight  float64 `mapstructure:"recency_weight"`
}

// GraphConfig tunes relationship discovery
type GraphConfig struct {
	CategoryCoefficient float64 `mapstructure:"category_coefficient"`
	TagCoefficient      float64 `mapstructure:"tag_coefficient"`
	KeywordCoefficient  float64 `mapstructure:"keyword_coefficient"`
	TitleCoefficient    float64 `mapstructure:"title_coefficient"`
	MinEdgeWeight       float64 `mapstructure:"min_edge_weight"`
	MaxPairs            int     `mapstructure:"max_pairs"`
	Workers             int     `mapstructure:"workers"`
}

// ReputationConfig holds the reputation factor weights; they must sum to 1
type ReputationConfig struct {
	KnowledgeQualityWeight float64 `mapstructure:"knowledge_quality_weight"`
	ProblemSolvingWeight   float64 `mapstructure:"problem_solving_weight"`
	CollaborationWeight    float64 `mapstructure:"collaboration_weight"`
	DecisionQualityWeight  float64 `mapstructure:"decision_quality_weight"`
	ConsistencyWeight      float64 `mapstructure:"consistency_weight"`
}

// ImpactConfig holds the impact factor weights; they must sum to 1
type ImpactConfig struct {
	KnowledgeImpactWeight     float64 `mapstructure:"knowledge_impact_weight"`
	ProblemImpactWeight       float64 `mapstructure:"problem_impact_weight"`
	SolutionImpactWeight      float64 `mapstructure:"solution_impact_weight"`
	QualityImpactWeight       float64 `mapstructure:"quality_impact_weight"`
	CollaborationImpactWeight float64 `mapstructure:"collaboration_impact_weight"`
}

// EngineParams converts the file configuration into engine parameters,
// keeping package defaults for everything the file does not tune
func (c *Config) EngineParams() engine.Params {
	params := engine.DefaultParams()
	e := c.Engine

	params.Search = search.Options{
		Limit:            e.Search.DefaultLimit,
		SimilarityWeight: e.Search.SimilarityWeight,
		QualityWeight:    e.Search.QualityWeight,
		MinCorpusSize:    e.Search.MinCorpusSize,
	}

	q := scoring.DefaultParams()
	q.SuccessWeight = e.Quality.SuccessWeight
	q.UsageWeight = e.Quality.UsageWeight
	q.UpvoteWeight = e.Quality.UpvoteWeight
	q.VerifiedWeight = e.Quality.VerifiedWeight
	q.AgeWeight = e.Quality.AgeWeight
	q.RecencyWeight = e.Quality.RecencyWeight
	params.Quality = q

	g := graph.DefaultParams()
	g.CategoryCoefficient = e.Graph.CategoryCoefficient
	g.TagCoefficient = e.Graph.TagCoefficient
	g.KeywordCoefficient = e.Graph.KeywordCoefficient
	g.TitleCoefficient = e.Graph.TitleCoefficient
	g.MinEdgeWeight = e.Graph.MinEdgeWeight
	g.MaxPairs = e.Graph.MaxPairs
	g.Workers = e.Graph.Workers
	params.Graph = g

	params.Reputation = reputation.Params{
		KnowledgeQualityWeight: e.Reputation.KnowledgeQualityWeight,
		ProblemSolvingWeight:   e.Reputation.ProblemSolvingWeight,
		CollaborationWeight:    e.Reputation.CollaborationWeight,
		DecisionQualityWeight:  e.Reputation.DecisionQualityWeight,
		ConsistencyWeight:      e.Reputation.ConsistencyWeight,

		KnowledgeImpactWeight:     e.Impact.KnowledgeImpactWeight,
		ProblemImpactWeight:       e.Impact.ProblemImpactWeight,
		SolutionImpactWeight:      e.Impact.SolutionImpactWeight,
		QualityImpactWeight:       e.Impact.QualityImpactWeight,
		CollaborationImpactWeight: e.Impact.CollaborationImpactWeight,
	}

	return params
}

// DatabaseParams converts the database section into connection settings
func (c *Config) DatabaseParams() *database.Config {
	return &database.Config{
		Type:        c.Database.Type,
		SQLitePath:  c.Database.SQLitePath,
		PostgresDSN: c.Database.PostgresDSN,
		LogLevel:    gormLogLevel(c.Database.LogLevel),
	}
}

// gormLogLevel maps the config string onto a gorm logger level. Unknown
// values fall back to silent, which stdio MCP transport requires anyway.
func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}
