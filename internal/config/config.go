// Package config provides configuration loading and resolution for
// reviewpilot. Values come from four layers with fixed precedence:
// flags > environment variables > .reviewpilot.yaml > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the per-repo config file.
const ConfigFileName = ".reviewpilot.yaml"

// FileConfig represents the optional .reviewpilot.yaml file. All fields
// are pointers so "absent" and "zero" stay distinguishable during
// resolution.
type FileConfig struct {
	Engine           *string `yaml:"engine"`
	Model            *string `yaml:"model"`
	MaxDiffBytes     *int    `yaml:"max_diff_bytes"`
	PostSummary      *bool   `yaml:"post_summary"`
	Instructions     *string `yaml:"instructions"`
	InstructionsFile *string `yaml:"instructions_file"`
	LogLevel         *string `yaml:"log_level"`
}

// LoadResult contains the loaded file config and any warnings
// encountered, such as unknown keys.
type LoadResult struct {
	Config   *FileConfig
	Warnings []string
}

// LoadFile reads .reviewpilot.yaml from dir. A missing file is not an
// error; invalid YAML or invalid values are.
func LoadFile(dir string) (*LoadResult, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &LoadResult{Config: &FileConfig{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	warnings := checkUnknownKeys(data)

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigFileName, err)
	}

	return &LoadResult{Config: &cfg, Warnings: warnings}, nil
}

// Validate checks that all config file values are usable.
func (c *FileConfig) Validate() error {
	if c.Engine != nil && *c.Engine == "" {
		return fmt.Errorf("engine must not be empty")
	}
	if c.MaxDiffBytes != nil && *c.MaxDiffBytes < 0 {
		return fmt.Errorf("max_diff_bytes must be >= 0, got %d", *c.MaxDiffBytes)
	}
	return nil
}

// knownKeys are the valid top-level keys in the config file.
var knownKeys = []string{"engine", "model", "max_diff_bytes", "post_summary", "instructions", "instructions_file", "log_level"}

// checkUnknownKeys inspects the raw YAML for keys that are not part of
// the schema and returns a warning per offender, with a spelling
// suggestion when one is close enough.
func checkUnknownKeys(data []byte) []string {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// Let the typed parse surface the error.
		return nil
	}

	var warnings []string
	for key := range raw {
		if !slices.Contains(knownKeys, key) {
			warning := fmt.Sprintf("unknown key %q in %s", key, ConfigFileName)
			if suggestion := findSimilar(key, knownKeys); suggestion != "" {
				warning += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			warnings = append(warnings, warning)
		}
	}
	return warnings
}

// findSimilar returns the closest known key within 3 edits, or "".
func findSimilar(input string, candidates []string) string {
	const maxDistance = 3
	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		dist := levenshtein(input, candidate)
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshtein calculates the edit distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(ra)][len(rb)]
}

// EnvState captures environment variable values. Pointer fields stay
// nil when the variable is unset, preserving set-ness for resolution.
type EnvState struct {
	Token            string  `env:"GITHUB_TOKEN"`
	Repo             string  `env:"GITHUB_REPOSITORY"`
	PRNumber         int     `env:"REVIEWPILOT_PR"`
	Engine           *string `env:"REVIEWPILOT_ENGINE"`
	Model            *string `env:"REVIEWPILOT_MODEL"`
	MaxDiffBytes     *int    `env:"REVIEWPILOT_MAX_DIFF_BYTES"`
	PostSummary      *bool   `env:"REVIEWPILOT_POST_SUMMARY"`
	Instructions     *string `env:"REVIEWPILOT_INSTRUCTIONS"`
	InstructionsFile *string `env:"REVIEWPILOT_INSTRUCTIONS_FILE"`
	LogLevel         *string `env:"REVIEWPILOT_LOG_LEVEL"`
}

// LoadEnvState reads environment variables, first hydrating the process
// environment from a .env file in dir when one exists.
func LoadEnvState(dir string) (EnvState, error) {
	dotenv := filepath.Join(dir, ".env")
	if _, err := os.Stat(dotenv); err == nil {
		// Load never overrides variables already in the environment.
		if err := godotenv.Load(dotenv); err != nil {
			return EnvState{}, fmt.Errorf("failed to load %s: %w", dotenv, err)
		}
	}

	var state EnvState
	if err := env.Parse(&state); err != nil {
		return EnvState{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return state, nil
}

// Defaults holds the built-in default values.
var Defaults = ResolvedConfig{
	Engine:       "claude",
	MaxDiffBytes: 100000,
	PostSummary:  true,
	LogLevel:     "info",
}

// ResolvedConfig holds the final resolved configuration values for one
// run.
type ResolvedConfig struct {
	Token            string
	Repo             string
	PRNumber         int
	Engine           string
	Model            string
	MaxDiffBytes     int
	PostSummary      bool
	Instructions     string
	InstructionsFile string
	LogLevel         string
}

// FlagState tracks whether a flag was explicitly set on the command
// line, so a flag left at its default never shadows an env or file
// value.
type FlagState struct {
	RepoSet             bool
	PRNumberSet         bool
	EngineSet           bool
	ModelSet            bool
	MaxDiffBytesSet     bool
	PostSummarySet      bool
	InstructionsSet     bool
	InstructionsFileSet bool
	LogLevelSet         bool
}

// Resolve merges config file values with env vars and flags.
// Precedence: flags > env vars > config file > defaults.
func Resolve(cfg *FileConfig, envState EnvState, flagState FlagState, flagValues ResolvedConfig) ResolvedConfig {
	result := Defaults
	result.Token = envState.Token

	if cfg != nil {
		if cfg.Engine != nil {
			result.Engine = *cfg.Engine
		}
		if cfg.Model != nil {
			result.Model = *cfg.Model
		}
		if cfg.MaxDiffBytes != nil {
			result.MaxDiffBytes = *cfg.MaxDiffBytes
		}
		if cfg.PostSummary != nil {
			result.PostSummary = *cfg.PostSummary
		}
		if cfg.Instructions != nil {
			result.Instructions = *cfg.Instructions
		}
		if cfg.InstructionsFile != nil {
			result.InstructionsFile = *cfg.InstructionsFile
		}
		if cfg.LogLevel != nil {
			result.LogLevel = *cfg.LogLevel
		}
	}

	if envState.Repo != "" {
		result.Repo = envState.Repo
	}
	if envState.PRNumber != 0 {
		result.PRNumber = envState.PRNumber
	}
	if envState.Engine != nil {
		result.Engine = *envState.Engine
	}
	if envState.Model != nil {
		result.Model = *envState.Model
	}
	if envState.MaxDiffBytes != nil {
		result.MaxDiffBytes = *envState.MaxDiffBytes
	}
	if envState.PostSummary != nil {
		result.PostSummary = *envState.PostSummary
	}
	if envState.Instructions != nil {
		result.Instructions = *envState.Instructions
	}
	if envState.InstructionsFile != nil {
		result.InstructionsFile = *envState.InstructionsFile
	}
	if envState.LogLevel != nil {
		result.LogLevel = *envState.LogLevel
	}

	if flagState.RepoSet {
		result.Repo = flagValues.Repo
	}
	if flagState.PRNumberSet {
		result.PRNumber = flagValues.PRNumber
	}
	if flagState.EngineSet {
		result.Engine = flagValues.Engine
	}
	if flagState.ModelSet {
		result.Model = flagValues.Model
	}
	if flagState.MaxDiffBytesSet {
		result.MaxDiffBytes = flagValues.MaxDiffBytes
	}
	if flagState.PostSummarySet {
		result.PostSummary = flagValues.PostSummary
	}
	if flagState.InstructionsSet {
		result.Instructions = flagValues.Instructions
	}
	if flagState.InstructionsFileSet {
		result.InstructionsFile = flagValues.InstructionsFile
	}
	if flagState.LogLevelSet {
		result.LogLevel = flagValues.LogLevel
	}

	return result
}

// ResolveInstructions resolves the custom review instructions with
// their own precedence, where inline sources always beat file sources
// within the same layer:
//
//  1. --instructions flag
//  2. --instructions-file flag
//  3. REVIEWPILOT_INSTRUCTIONS env var
//  4. REVIEWPILOT_INSTRUCTIONS_FILE env var
//  5. instructions config field
//  6. instructions_file config field
//  7. none
func ResolveInstructions(cfg *FileConfig, envState EnvState, flagState FlagState, flagValues ResolvedConfig) (string, error) {
	if flagState.InstructionsSet && flagValues.Instructions != "" {
		return flagValues.Instructions, nil
	}
	if flagState.InstructionsFileSet && flagValues.InstructionsFile != "" {
		return readInstructionsFile(flagValues.InstructionsFile)
	}
	if envState.Instructions != nil && *envState.Instructions != "" {
		return *envState.Instructions, nil
	}
	if envState.InstructionsFile != nil && *envState.InstructionsFile != "" {
		return readInstructionsFile(*envState.InstructionsFile)
	}
	if cfg != nil && cfg.Instructions != nil && *cfg.Instructions != "" {
		return *cfg.Instructions, nil
	}
	if cfg != nil && cfg.InstructionsFile != nil && *cfg.InstructionsFile != "" {
		return readInstructionsFile(*cfg.InstructionsFile)
	}
	return "", nil
}

func readInstructionsFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read instructions file %q: %w", path, err)
	}
	return string(content), nil
}

// ValidateResolved checks the fields a run cannot proceed without.
func ValidateResolved(c ResolvedConfig) error {
	if c.Token == "" {
		return fmt.Errorf("GITHUB_TOKEN is required")
	}
	if c.Repo == "" {
		return fmt.Errorf("repository is required (set --repo or GITHUB_REPOSITORY)")
	}
	if c.PRNumber <= 0 {
		return fmt.Errorf("pull request number is required (set --pr or REVIEWPILOT_PR)")
	}
	if c.MaxDiffBytes < 0 {
		return fmt.Errorf("max diff bytes must be >= 0, got %d", c.MaxDiffBytes)
	}
	return nil
}
