package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"minoj/internal/model"

	"gopkg.in/yaml.v3"
)

// ServerConfig is the HTTP listen address
type ServerConfig struct {
	BindAddress string `json:"bind_address" yaml:"bind_address"`
	BindPort    int    `json:"bind_port" yaml:"bind_port"`
}

// Addr returns the host:port listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.BindAddress, s.BindPort)
}

// LoggerConfig configures structured logging
type LoggerConfig struct {
	Level      string `json:"level" yaml:"level"`
	Format     string `json:"format" yaml:"format"`
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// DatabaseConfig configures the MySQL persistence mirror
type DatabaseConfig struct {
	DSN string `json:"dsn" yaml:"dsn"`
}

// RedisConfig configures the optional ranklist cache
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
}

// ProblemCase is one (input, answer, score, limits) tuple.
// TimeLimit is in microseconds.
type ProblemCase struct {
	Score       float64 `json:"score" yaml:"score"`
	InputFile   string  `json:"input_file" yaml:"input_file"`
	AnswerFile  string  `json:"answer_file" yaml:"answer_file"`
	TimeLimit   uint64  `json:"time_limit" yaml:"time_limit"`
	MemoryLimit int64   `json:"memory_limit" yaml:"memory_limit"`
}

// Misc carries the optional per-problem extras
type Misc struct {
	Packing             [][]int     `json:"packing,omitempty" yaml:"packing,omitempty"`
	SpecialJudge        CommandLine `json:"special_judge,omitempty" yaml:"special_judge,omitempty"`
	DynamicRankingRatio *float64    `json:"dynamic_ranking_ratio,omitempty" yaml:"dynamic_ranking_ratio,omitempty"`
}

// Problem is one configured problem, immutable after load
type Problem struct {
	ID    uint64            `json:"id" yaml:"id"`
	Name  string            `json:"name" yaml:"name"`
	Type  model.ProblemType `json:"type" yaml:"type"`
	Misc  *Misc             `json:"misc,omitempty" yaml:"misc,omitempty"`
	Cases []ProblemCase     `json:"cases" yaml:"cases"`
}

// Ratio returns the dynamic-ranking ratio, 0 when unset
func (p *Problem) Ratio() float64 {
	if p.Misc != nil && p.Misc.DynamicRankingRatio != nil {
		return *p.Misc.DynamicRankingRatio
	}
	return 0
}

// Packing returns the packing groups, nil when the problem is unpacked
func (p *Problem) Packing() [][]int {
	if p.Misc == nil {
		return nil
	}
	return p.Misc.Packing
}

// SpecialJudge returns the spj command prefix, nil when unset
func (p *Problem) SpecialJudge() CommandLine {
	if p.Misc == nil {
		return nil
	}
	return p.Misc.SpecialJudge
}

// Language is one configured language. Command is the compile command
// with %INPUT% and %OUTPUT% placeholders.
type Language struct {
	Name     string      `json:"name" yaml:"name"`
	FileName string      `json:"file_name" yaml:"file_name"`
	Command  CommandLine `json:"command" yaml:"command"`
}

// Config is the full process configuration
type Config struct {
	Server    ServerConfig   `json:"server" yaml:"server"`
	Problems  []Problem      `json:"problems" yaml:"problems"`
	Languages []Language     `json:"languages" yaml:"languages"`
	Logger    LoggerConfig   `json:"logger,omitempty" yaml:"logger,omitempty"`
	Database  DatabaseConfig `json:"database,omitempty" yaml:"database,omitempty"`
	Redis     RedisConfig    `json:"redis,omitempty" yaml:"redis,omitempty"`

	problemByID    map[uint64]*Problem
	languageByName map[string]*Language
}

// Load reads, parses and validates a config file. JSON is the primary
// format; .yaml/.yml files are parsed with the identical schema.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.index()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.BindAddress == "" {
		c.Server.BindAddress = "127.0.0.1"
	}
	if c.Server.BindPort == 0 {
		c.Server.BindPort = 12345
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "root:root@tcp(127.0.0.1:3306)/oj"
	}
}

// Validate checks the configuration invariants: unique ids and names,
// openable case files, well-formed packing partitions, and the
// type-specific misc requirements.
func (c *Config) Validate() error {
	seenProblems := make(map[uint64]bool)
	for i := range c.Problems {
		p := &c.Problems[i]
		if seenProblems[p.ID] {
			return fmt.Errorf("duplicate problem id %d", p.ID)
		}
		seenProblems[p.ID] = true

		if len(p.Cases) == 0 {
			return fmt.Errorf("problem %d has no cases", p.ID)
		}
		for j, cs := range p.Cases {
			if err := checkReadable(cs.InputFile); err != nil {
				return fmt.Errorf("problem %d case %d input: %w", p.ID, j+1, err)
			}
			if err := checkReadable(cs.AnswerFile); err != nil {
				return fmt.Errorf("problem %d case %d answer: %w", p.ID, j+1, err)
			}
		}

		if packing := p.Packing(); packing != nil {
			if err := checkPacking(packing, len(p.Cases)); err != nil {
				return fmt.Errorf("problem %d: %w", p.ID, err)
			}
		}
		if p.Type == model.ProblemSpj && len(p.SpecialJudge()) == 0 {
			return fmt.Errorf("problem %d: spj problem without special_judge command", p.ID)
		}
		if p.Type == model.ProblemDynamicRanking {
			r := p.Ratio()
			if p.Misc == nil || p.Misc.DynamicRankingRatio == nil {
				return fmt.Errorf("problem %d: dynamic_ranking problem without ratio", p.ID)
			}
			if r < 0 || r > 1 {
				return fmt.Errorf("problem %d: dynamic_ranking_ratio %v out of [0,1]", p.ID, r)
			}
		}
	}

	seenLanguages := make(map[string]bool)
	for _, l := range c.Languages {
		if l.Name == "" {
			return fmt.Errorf("language with empty name")
		}
		if seenLanguages[l.Name] {
			return fmt.Errorf("duplicate language %q", l.Name)
		}
		seenLanguages[l.Name] = true
		if len(l.Command) == 0 {
			return fmt.Errorf("language %q has no command", l.Name)
		}
	}
	return nil
}

// checkPacking verifies the groups form an ordered partition of 1..n
func checkPacking(packing [][]int, n int) error {
	next := 1
	for gi, group := range packing {
		if len(group) == 0 {
			return fmt.Errorf("packing group %d is empty", gi)
		}
		for _, id := range group {
			if id != next {
				return fmt.Errorf("packing is not an ordered partition of 1..%d", n)
			}
			next++
		}
	}
	if next != n+1 {
		return fmt.Errorf("packing covers %d of %d cases", next-1, n)
	}
	return nil
}

func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

func (c *Config) index() {
	c.problemByID = make(map[uint64]*Problem, len(c.Problems))
	for i := range c.Problems {
		c.problemByID[c.Problems[i].ID] = &c.Problems[i]
	}
	c.languageByName = make(map[string]*Language, len(c.Languages))
	for i := range c.Languages {
		c.languageByName[c.Languages[i].Name] = &c.Languages[i]
	}
}

// Problem returns the problem with the given id, nil when absent
func (c *Config) Problem(id uint64) *Problem {
	if c.problemByID == nil {
		c.index()
	}
	return c.problemByID[id]
}

// Language returns the language with the given name, nil when absent
func (c *Config) Language(name string) *Language {
	if c.languageByName == nil {
		c.index()
	}
	return c.languageByName[name]
}

// ProblemIDs returns every configured problem id in declared order
func (c *Config) ProblemIDs() []uint64 {
	ids := make([]uint64, 0, len(c.Problems))
	for i := range c.Problems {
		ids = append(ids, c.Problems[i].ID)
	}
	return ids
}
