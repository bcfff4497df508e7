package parser

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lane-pulse/backend/internal/models"
)

// ParseLanePriority parses a YAML lane priority file. The list order is the
// ranking: the first lane is rank 1.
func ParseLanePriority(filePath string) (*models.LanePriorityRules, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseLanePriorityFromReader(file)
}

// ParseLanePriorityFromReader parses lane priority rules from an io.Reader.
func ParseLanePriorityFromReader(r io.Reader) (*models.LanePriorityRules, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var rules models.LanePriorityRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, err
	}

	if err := ValidateLanePriority(&rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

// ValidateLanePriority rejects empty or duplicate-laden candidate lists.
func ValidateLanePriority(rules *models.LanePriorityRules) error {
	if len(rules.Lanes) == 0 {
		return fmt.Errorf("lane priority rules contain no lanes")
	}

	seen := make(map[string]struct{}, len(rules.Lanes))
	for i, cand := range rules.Lanes {
		if cand.LaneID == "" {
			return fmt.Errorf("lane %d: empty lane_id", i+1)
		}
		if _, dup := seen[cand.LaneID]; dup {
			return fmt.Errorf("duplicate lane_id %q", cand.LaneID)
		}
		seen[cand.LaneID] = struct{}{}
	}
	return nil
}
