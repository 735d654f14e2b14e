package registry

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"example.com/activities/internal/domain"
)

//go:embed seed/activities.json seed/schema.json
var seedFS embed.FS

// seedEntry mirrors one element of the seed document.
type seedEntry struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// SeedValidationError lists every schema violation found in a seed document.
type SeedValidationError struct {
	Problems []string
}

func (e *SeedValidationError) Error() string {
	return "invalid seed document: " + strings.Join(e.Problems, "; ")
}

// DefaultSeed returns the activities bundled with the binary.
func DefaultSeed() ([]domain.Activity, error) {
	raw, err := seedFS.ReadFile("seed/activities.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded seed: %w", err)
	}
	return ParseSeed(bytes.NewReader(raw))
}

// LoadSeedFile parses the seed document at path, falling back to the embedded seed when path is empty.
func LoadSeedFile(path string) ([]domain.Activity, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultSeed()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return ParseSeed(f)
}

// ParseSeed validates a JSON seed document against the bundled schema and converts it to activities.
func ParseSeed(r io.Reader) ([]domain.Activity, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}

	schema, err := seedFS.ReadFile("seed/schema.json")
	if err != nil {
		return nil, fmt.Errorf("read seed schema: %w", err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validate seed: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, &SeedValidationError{Problems: problems}
	}

	var entries []seedEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	seen := make(map[string]struct{}, len(entries))
	out := make([]domain.Activity, 0, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.Name]; dup {
			return nil, &SeedValidationError{Problems: []string{fmt.Sprintf("activity %q is declared more than once", entry.Name)}}
		}
		seen[entry.Name] = struct{}{}

		participants := entry.Participants
		if participants == nil {
			participants = []string{}
		}
		out = append(out, domain.Activity{
			Name:            entry.Name,
			Description:     entry.Description,
			Schedule:        entry.Schedule,
			MaxParticipants: entry.MaxParticipants,
			Participants:    participants,
		})
	}
	return out, nil
}
