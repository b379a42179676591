package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"screening-service/internal/app"
	"screening-service/internal/domain"
	"screening-service/internal/infra/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.ScreeningService) {
	t.Helper()
	catalog := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(testQuestions()), time.Minute)
	directory := memory.NewTherapistDirectory(testTherapists())
	service, err := app.NewScreeningService(catalog, directory, memory.NewResultStore(), app.Config{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	router := NewRouter(NewHandler(service, nil), NewWSHandler(service, nil), RouterOptions{})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, service
}

func testQuestions() []domain.Question {
	return []domain.Question{
		{ID: "asd-01", Condition: domain.ConditionASD, Text: "Avoids eye contact", Ordinal: 1, Category: "social"},
		{ID: "asd-02", Condition: domain.ConditionASD, Text: "Lines up toys", Ordinal: 2, Category: "repetitive"},
		{ID: "adhd-01", Condition: domain.ConditionADHD, Text: "Fidgets when seated", Ordinal: 1, Category: "hyperactivity"},
		{ID: "adhd-02", Condition: domain.ConditionADHD, Text: "Loses things", Ordinal: 2, Category: "inattention"},
	}
}

func testTherapists() []domain.TherapistResource {
	return []domain.TherapistResource{
		{ID: "t1", Name: "Spectrum Pathways", City: "Los Angeles", Region: "California", Specializations: []domain.Condition{domain.ConditionASD}},
		{ID: "t2", Name: "Focus Kids", City: "Austin", Region: "Texas", Specializations: []domain.Condition{domain.ConditionADHD}},
		{ID: "t3", Name: "Bright Steps", City: "Oakland", Region: "California", Specializations: []domain.Condition{domain.ConditionASD, domain.ConditionADHD}},
	}
}
