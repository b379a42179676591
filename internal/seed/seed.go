// Package seed ships the default questionnaire and a sample therapist directory.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"screening-service/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var questionsYAML []byte

//go:embed therapists.yaml
var therapistsYAML []byte

type questionFile struct {
	Questions []domain.Question `yaml:"questions"`
}

type therapistFile struct {
	Therapists []domain.TherapistResource `yaml:"therapists"`
}

// Questions returns the built-in questionnaire.
func Questions() ([]domain.Question, error) {
	return DecodeQuestions(bytes.NewReader(questionsYAML))
}

// Therapists returns the sample directory.
func Therapists() ([]domain.TherapistResource, error) {
	return DecodeTherapists(bytes.NewReader(therapistsYAML))
}

func DecodeQuestions(r io.Reader) ([]domain.Question, error) {
	var f questionFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	for i, q := range f.Questions {
		if q.ID == "" || q.Condition == "" {
			return nil, fmt.Errorf("question %d: id and condition are required", i)
		}
		f.Questions[i].Condition = domain.ParseCondition(string(q.Condition))
	}
	return f.Questions, nil
}

func DecodeTherapists(r io.Reader) ([]domain.TherapistResource, error) {
	var f therapistFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode therapists: %w", err)
	}
	for i, t := range f.Therapists {
		if t.ID == "" {
			return nil, fmt.Errorf("therapist %d: id is required", i)
		}
		for j, c := range t.Specializations {
			f.Therapists[i].Specializations[j] = domain.ParseCondition(string(c))
		}
	}
	return f.Therapists, nil
}

// LoadQuestionsFile reads a questionnaire from disk, falling back to the built-in one when path is empty.
func LoadQuestionsFile(path string) ([]domain.Question, error) {
	if path == "" {
		return Questions()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeQuestions(f)
}

// LoadTherapistsFile reads a directory from disk, falling back to the sample one when path is empty.
func LoadTherapistsFile(path string) ([]domain.TherapistResource, error) {
	if path == "" {
		return Therapists()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeTherapists(f)
}
