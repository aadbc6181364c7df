package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/placewise/matchcore/internal/domain/model"
)

// Dataset file names inside the data directory.
const (
	studentsFile      = "students.json"
	opportunitiesFile = "internships.json"
)

// loadStudents reads the student dataset into an id-keyed map.
func loadStudents(dataDir string) (map[string]model.Student, error) {
	var raw []model.Student
	if err := readJSON(filepath.Join(dataDir, studentsFile), &raw); err != nil {
		return nil, err
	}

	students := make(map[string]model.Student, len(raw))
	for _, s := range raw {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("dataset: %w", err)
		}
		students[s.ID] = s
	}
	return students, nil
}

// loadOpportunities reads the internship dataset.
func loadOpportunities(dataDir string) ([]model.Opportunity, error) {
	var raw []model.Opportunity
	if err := readJSON(filepath.Join(dataDir, opportunitiesFile), &raw); err != nil {
		return nil, err
	}

	for _, o := range raw {
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("dataset: %w", err)
		}
	}
	return raw, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
