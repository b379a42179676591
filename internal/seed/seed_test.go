package seed

import (
	"strings"
	"testing"

	"screening-service/internal/domain"
)

func TestBuiltinQuestionnaire(t *testing.T) {
	questions, err := Questions()
	if err != nil {
		t.Fatalf("load questions: %v", err)
	}
	catalog := domain.NewCatalog(questions)
	if catalog.Len() != len(questions) {
		t.Fatalf("duplicate ids in seed: %d unique of %d", catalog.Len(), len(questions))
	}

	want := map[domain.Condition]int{
		domain.ConditionASD:      20,
		domain.ConditionADHD:     25,
		domain.ConditionDyslexia: 25,
	}
	for cond, n := range want {
		if got := catalog.Count(cond); got != n {
			t.Fatalf("%s: expected %d questions, got %d", cond, n, got)
		}
	}
	for _, q := range questions {
		if q.Category == "" || q.Text == "" {
			t.Fatalf("question %s missing text or category", q.ID)
		}
	}
}

func TestSampleTherapists(t *testing.T) {
	therapists, err := Therapists()
	if err != nil {
		t.Fatalf("load therapists: %v", err)
	}
	if len(therapists) == 0 {
		t.Fatal("expected sample therapists")
	}
	for _, th := range therapists {
		if len(th.Specializations) == 0 {
			t.Fatalf("%s has no specializations", th.ID)
		}
	}
}

func TestDecodeQuestionsNormalizesCondition(t *testing.T) {
	src := "questions:\n  - id: q1\n    condition: adhd\n    ordinal: 1\n    text: Fidgets\n"
	questions, err := DecodeQuestions(strings.NewReader(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if questions[0].Condition != domain.ConditionADHD {
		t.Fatalf("expected ADHD, got %q", questions[0].Condition)
	}

	if _, err := DecodeQuestions(strings.NewReader("questions:\n  - text: orphan\n")); err == nil {
		t.Fatal("expected error for question without id")
	}
}
